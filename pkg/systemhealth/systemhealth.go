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

package systemhealth

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"
)

// SystemHealth checks the health of the driver and of the components
// running inside it.
type SystemHealth struct {
	hcLock       sync.Mutex
	healthChecks map[string]func() error
	logger       klog.Logger
}

func NewSystemHealth(logger klog.Logger) *SystemHealth {
	return &SystemHealth{
		healthChecks: make(map[string]func() error),
		logger:       logger.WithName("SystemHealth"),
	}
}

// AddHealthCheck registers a function to be called for health checking.
// Registering the same id twice replaces the first check.
func (sh *SystemHealth) AddHealthCheck(id string, hc func() error) {
	sh.hcLock.Lock()
	defer sh.hcLock.Unlock()

	sh.logger.Info("Adding health check", "id", id)
	sh.healthChecks[id] = hc
}

// RemoveHealthCheck unregisters the check with the given id.
func (sh *SystemHealth) RemoveHealthCheck(id string) {
	sh.hcLock.Lock()
	defer sh.hcLock.Unlock()

	delete(sh.healthChecks, id)
}

// HealthCheckResults contains a mapping of component -> health check results.
type HealthCheckResults map[string]error

// Err merges the failed checks into one error, ordered by component. It is
// nil if every check passed.
func (r HealthCheckResults) Err() error {
	var components []string
	for component := range r {
		components = append(components, component)
	}
	sort.Strings(components)

	var result *multierror.Error
	for _, component := range components {
		if err := r[component]; err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", component, err))
		}
	}
	return result.ErrorOrNil()
}

// HealthCheck runs all registered health check functions.
func (sh *SystemHealth) HealthCheck() HealthCheckResults {
	sh.hcLock.Lock()
	defer sh.hcLock.Unlock()

	results := make(HealthCheckResults)
	for component, f := range sh.healthChecks {
		sh.logger.V(3).Info("Running health check", "component", component)
		results[component] = f()
	}

	if err := results.Err(); err != nil {
		sh.logger.Info("Health check failed", "err", err)
	}
	return results
}
