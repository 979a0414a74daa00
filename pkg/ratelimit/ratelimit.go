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

package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"k8s.io/client-go/util/flowcontrol"
	"k8s.io/klog/v2"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/ratelimit/metrics"
)

// Operations issued against a southbound controller.
const (
	OpList = "List"
	OpGet  = "Get"
)

var allOperations = []string{OpList, OpGet}

// Key identifies a rate limited southbound operation.
type Key struct {
	Kind      meta.Kind
	Operation string
}

func (k Key) String() string {
	return fmt.Sprintf("%s.%s", k.Kind, k.Operation)
}

// SouthboundRateLimiter throttles requests to southbound controllers. A nil
// *SouthboundRateLimiter does not throttle.
type SouthboundRateLimiter struct {
	// Map a Key to its rate limiter implementation.
	rateLimitImpls map[Key]flowcontrol.RateLimiter
}

// NewSouthboundRateLimiter parses the list of rate limiting specs passed in
// and returns a properly configured rate limiter. It returns nil if specs is
// empty.
// Expected format of specs: {"[kind].[operation],[type],[param1],[param2],..", "..."}
func NewSouthboundRateLimiter(specs []string, logger klog.Logger) (*SouthboundRateLimiter, error) {
	rateLimitImpls, err := parseSpecs(specs)
	if err != nil {
		return nil, err
	}
	if len(rateLimitImpls) == 0 {
		return nil, nil
	}
	for key := range rateLimitImpls {
		logger.Info("Configured rate limiting", "key", key.String())
	}
	return &SouthboundRateLimiter{rateLimitImpls}, nil
}

// ValidateSpecs reports the first malformed spec in specs, in the format
// accepted by NewSouthboundRateLimiter.
func ValidateSpecs(specs []string) error {
	_, err := parseSpecs(specs)
	return err
}

func parseSpecs(specs []string) (map[Key]flowcontrol.RateLimiter, error) {
	rateLimitImpls := make(map[Key]flowcontrol.RateLimiter)
	// Within each specification, split on comma to get the operation,
	// rate limiter type, and extra parameters.
	for _, spec := range specs {
		params := strings.Split(spec, ",")
		if len(params) < 2 {
			return nil, fmt.Errorf("must at least specify operation and rate limiter type in %q", spec)
		}
		// params[0] should consist of the operation to rate limit.
		keys, err := constructRateLimitKeys(params[0])
		if err != nil {
			return nil, err
		}
		// params[1:] should consist of the rate limiter type and extra params.
		impl, err := constructRateLimitImpl(params[1:])
		if err != nil {
			return nil, err
		}
		// For each spec, the rate limiter type is the same for all keys generated.
		for _, key := range keys {
			rateLimitImpls[key] = impl
		}
	}
	return rateLimitImpls, nil
}

// Accept blocks until the operation identified by key may proceed, or ctx
// is done.
func (l *SouthboundRateLimiter) Accept(ctx context.Context, key Key) error {
	if l == nil {
		return nil
	}
	impl, ok := l.rateLimitImpls[key]
	if !ok {
		return nil
	}
	start := time.Now()
	err := impl.Wait(ctx)
	metrics.PublishThrottleMetrics(key.String(), time.Since(start), err)
	return err
}

// Expected format of param is [kind].[operation]. Either part may be "*",
// in which case one key per possible value is returned.
func constructRateLimitKeys(param string) ([]Key, error) {
	params := strings.Split(param, ".")
	if len(params) != 2 {
		return nil, fmt.Errorf("must specify operation in [kind].[operation] format, got %q", param)
	}

	var kinds []meta.Kind
	if params[0] == "*" {
		for _, ki := range meta.AllKinds {
			kinds = append(kinds, ki.Kind)
		}
	} else {
		k := meta.Kind(params[0])
		if !k.Valid() {
			return nil, fmt.Errorf("invalid kind specified: %v", params[0])
		}
		kinds = append(kinds, k)
	}

	operations := allOperations
	if params[1] != "*" {
		if !operationExists(params[1]) {
			return nil, fmt.Errorf("invalid operation specified: %v", params[1])
		}
		operations = []string{params[1]}
	}

	var keys []Key
	for _, kind := range kinds {
		for _, op := range operations {
			keys = append(keys, Key{Kind: kind, Operation: op})
		}
	}
	return keys, nil
}

// constructRateLimitImpl parses the slice and returns a flowcontrol.RateLimiter
// Expected format is [type],[param1],[param2],...
func constructRateLimitImpl(params []string) (flowcontrol.RateLimiter, error) {
	rlType := params[0]
	implArgs := params[1:]
	switch rlType {
	case "qps":
		if len(implArgs) != 2 {
			return nil, fmt.Errorf("invalid number of args for rate limiter type %v. Expected %d, Got %v", rlType, 2, len(implArgs))
		}
		qps, err := strconv.ParseFloat(implArgs[0], 32)
		if err != nil || qps <= 0 {
			return nil, fmt.Errorf("invalid argument for rate limiter type %v. Either %v is not a float or not greater than 0", rlType, implArgs[0])
		}
		burst, err := strconv.Atoi(implArgs[1])
		if err != nil || burst <= 0 {
			return nil, fmt.Errorf("invalid argument for rate limiter type %v. Expected %v to be a positive int", rlType, implArgs[1])
		}
		return flowcontrol.NewTokenBucketRateLimiter(float32(qps), burst), nil
	case "fake":
		if len(implArgs) != 0 {
			return nil, fmt.Errorf("invalid number of args for rate limiter type %v. Expected %d, Got %v", rlType, 0, len(implArgs))
		}
		return flowcontrol.NewFakeAlwaysRateLimiter(), nil
	}
	return nil, fmt.Errorf("invalid rate limiter type provided: %v", rlType)
}

// operationExists returns true if the passed string refers to a valid operation.
func operationExists(s string) bool {
	for _, operation := range allOperations {
		if s == operation {
			return true
		}
	}
	return false
}
