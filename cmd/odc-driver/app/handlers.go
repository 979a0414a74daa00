/*
Copyright 2026 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/opendaylight/vtn-sub002/pkg/systemhealth"
	"github.com/opendaylight/vtn-sub002/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// NewHandler returns the mux serving /healthz, /flag and /metrics.
// `healthChecker` returns a mapping of component name to the result of its
// healthcheck.
func NewHandler(healthChecker func() systemhealth.HealthCheckResults, logger klog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthCheckHandler(healthChecker, logger))
	mux.HandleFunc("/flag", flagHandler(logger))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// RunHTTPServer serves handler on port until ctx is done.
func RunHTTPServer(ctx context.Context, port int, handler http.Handler, logger klog.Logger) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", port),
		Handler: handler,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "Failed to shut down http server")
		}
	}()

	logger.Info("Running http server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func healthCheckHandler(checker func() systemhealth.HealthCheckResults, logger klog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := checker()
		var components []string
		for component := range results {
			components = append(components, component)
		}
		sort.Strings(components)

		var hasErr bool
		var s strings.Builder
		for _, component := range components {
			status := "OK"
			if result := results[component]; result != nil {
				hasErr = true
				status = fmt.Sprintf("err: %v", result)
			}
			s.WriteString(fmt.Sprintf("%v: %v\n", component, status))
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if hasErr {
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		if s.Len() == 0 {
			s.WriteString("OK - no running controllers")
		}
		if _, err := w.Write([]byte(s.String())); err != nil {
			logger.Error(err, "Error writing bytes")
		}
	}
}

func flagHandler(logger klog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getFlagPage(w, logger)
		case http.MethodPut:
			putFlag(w, r, logger)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func putFlag(w http.ResponseWriter, r *http.Request, logger klog.Logger) {
	for key, values := range r.URL.Query() {
		if len(values) != 1 {
			logger.Info("Expected exactly one value", "key", key)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch key {
		case "v":
			if err := setVerbosity(values[0], logger); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
		default:
			logger.Info("Unrecognized key", "key", key)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func setVerbosity(v string, logger klog.Logger) error {
	f := flag.Lookup("v")
	if f == nil {
		return fmt.Errorf("flag v is not registered")
	}
	logger.Info("Setting verbosity level", "v", v)
	if err := f.Value.Set(v); err != nil {
		logger.Error(err, "Failed to set verbosity", "v", v)
		return err
	}
	return nil
}

func getFlagPage(w http.ResponseWriter, logger klog.Logger) {
	s := struct {
		Version   string
		Verbosity string
	}{
		Version: version.Version,
	}
	if f := flag.Lookup("v"); f != nil {
		s.Verbosity = f.Value.String()
	}
	if err := flagPageTemplate.Execute(w, s); err != nil {
		logger.Error(err, "Unable to apply flag page template")
	}
}

var flagPageTemplate = template.Must(template.New("").Parse(`OpenDaylight topology driver
Version: {{.Version}}

Verbosity ('v'): {{.Verbosity}}
`))
