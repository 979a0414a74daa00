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

// Package metrics exports the time requests to southbound controllers spend
// waiting on the client side throttle.
package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const southboundSubsystem = "odc_driver_southbound"

// Throttle results.
const (
	ResultAdmitted = "admitted"
	ResultCanceled = "canceled"
	ResultFailed   = "failed"
)

var register sync.Once

var (
	// ThrottleWait is labeled with the throttled operation, formatted as
	// kind.operation (e.g. switch.List).
	ThrottleWait = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: southboundSubsystem,
			Name:      "throttle_wait_seconds",
			Help:      "Time a southbound request waited for its throttle before being sent or abandoned",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"operation"},
	)

	ThrottleResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: southboundSubsystem,
			Name:      "throttle_results_total",
			Help:      "Southbound requests that passed the throttle, by operation and result",
		},
		[]string{"operation", "result"},
	)
)

func RegisterMetrics() {
	register.Do(func() {
		prometheus.MustRegister(ThrottleWait)
		prometheus.MustRegister(ThrottleResults)
	})
}

// PublishThrottleMetrics records that a request for operation waited for
// wait and then got err from the throttle.
func PublishThrottleMetrics(operation string, wait time.Duration, err error) {
	ThrottleWait.WithLabelValues(operation).Observe(wait.Seconds())
	ThrottleResults.WithLabelValues(operation, throttleResult(err)).Inc()
}

func throttleResult(err error) string {
	switch {
	case err == nil:
		return ResultAdmitted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	}
	return ResultFailed
}
