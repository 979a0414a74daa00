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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/opendaylight/vtn-sub002/cmd/odc-driver/app"
	"github.com/opendaylight/vtn-sub002/pkg/flags"
	"github.com/opendaylight/vtn-sub002/pkg/systemhealth"
	"github.com/opendaylight/vtn-sub002/pkg/version"
)

func main() {
	flags.Register()
	flag.Parse()

	if flags.F.Version {
		fmt.Printf("Driver version: %s\n", version.Version)
		os.Exit(0)
	}

	logger := klog.TODO()
	logger.Info("Starting OpenDaylight topology driver", "version", version.Version, "commit", version.GitCommit)
	for i, a := range os.Args {
		logger.V(0).Info("argv", "index", i, "value", a)
	}
	logger.V(2).Info("Flags", "flags", fmt.Sprintf("%+v", *flags.F))

	if err := flags.F.Validate(); err != nil {
		klog.Fatalf("Invalid flags: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	sh := systemhealth.NewSystemHealth(logger)
	p, err := app.NewPoller(flags.F, &http.Client{}, sh, logger)
	if err != nil {
		klog.Fatalf("Failed to create poller: %v", err)
	}

	go func() {
		if err := app.RunHTTPServer(ctx, flags.F.HealthzPort, app.NewHandler(sh.HealthCheck, logger), logger); err != nil {
			klog.Fatalf("HTTP server failed: %v", err)
		}
	}()

	p.Run(ctx)
	logger.Info("Exiting")
}
