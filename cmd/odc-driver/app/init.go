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
	"fmt"
	"net/http"

	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/opendaylight/vtn-sub002/pkg/flags"
	"github.com/opendaylight/vtn-sub002/pkg/odc/metrics"
	"github.com/opendaylight/vtn-sub002/pkg/odc/poller"
	"github.com/opendaylight/vtn-sub002/pkg/odc/record"
	"github.com/opendaylight/vtn-sub002/pkg/odc/restconf"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
	"github.com/opendaylight/vtn-sub002/pkg/ratelimit"
	ratelimitmetrics "github.com/opendaylight/vtn-sub002/pkg/ratelimit/metrics"
	"github.com/opendaylight/vtn-sub002/pkg/systemhealth"
)

// NewPoller builds the southbound client and a poller with one record per
// configured controller. The poller's health check is registered with sh.
func NewPoller(f *flags.Flags, httpClient *http.Client, sh *systemhealth.SystemHealth, logger klog.Logger) (*poller.Poller, error) {
	metrics.RegisterMetrics()
	ratelimitmetrics.RegisterMetrics()

	limiter, err := ratelimit.NewSouthboundRateLimiter(f.SouthboundRateLimit.Values(), logger)
	if err != nil {
		return nil, fmt.Errorf("southbound rate limiter: %w", err)
	}
	client := restconf.NewClient(
		restconf.WithHTTPClient(httpClient),
		restconf.WithRateLimiter(limiter),
		restconf.WithLogger(logger),
	)
	return newPollerWithClient(f, client, sh, logger), nil
}

func newPollerWithClient(f *flags.Flags, client types.TopologyClient, sh *systemhealth.SystemHealth, logger klog.Logger) *poller.Poller {
	p := poller.NewPoller(client, poller.Config{
		PollInterval:      f.PollInterval,
		SouthboundTimeout: f.SouthboundTimeout,
		MaxRetries:        f.MaxRetries,
		MinRetryDelay:     f.MinRetryDelay,
		MaxRetryDelay:     f.MaxRetryDelay,
		NumWorkers:        f.NumWorkers,
	}, clock.RealClock{}, logger)

	for _, spec := range f.Controllers.Values() {
		p.AddController(record.New(types.ControllerKey{Name: spec.Name}, types.ControllerValue{Address: spec.Address}))
	}
	sh.AddHealthCheck("poller", p.HealthCheck)
	return p
}
