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
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"k8s.io/klog/v2/ktesting"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/ratelimit/metrics"
)

func TestSouthboundRateLimiter(t *testing.T) {
	validTestCases := [][]string{
		{"switch.List,qps,1.5,5"},
		{"port.Get,qps,2,10"},
		{"switch.List,qps,1.5,5", "port.Get,qps,1.5,5"},
		{"*.*,qps,10,100"},
		{"port.*,fake"},
	}
	invalidTestCases := [][]string{
		{"switchList,qps,1.5,5"},
		{"switch.List,qps,0,5"},
		{"switch.List,qps,-1,5"},
		{"switch.List,qps,1.5.5"},
		{"switch.List,qps,1.5,5.5"},
		{"switch.List,qps,1.5"},
		{"switch.List,foo,1.5,5"},
		{"switch.List,1.5,5"},
		{"link.List,qps,1.5,5"},
		{"switch.Delete,qps,1.5,5"},
		{"switch.List,fake,1"},
		{"switch.List"},
		{"switch.List,qps,1.5,5", "switchGet,qps,1.5,5"},
	}

	logger, _ := ktesting.NewTestContext(t)
	for _, testCase := range validTestCases {
		l, err := NewSouthboundRateLimiter(testCase, logger)
		if err != nil || l == nil {
			t.Errorf("NewSouthboundRateLimiter(%v) = %v, %v; want non-nil, nil", testCase, l, err)
		}
	}

	for _, testCase := range invalidTestCases {
		_, err := NewSouthboundRateLimiter(testCase, logger)
		if err == nil {
			t.Errorf("Expected an error for test case: %v", testCase)
		}
	}
}

func TestValidateSpecs(t *testing.T) {
	for _, tc := range []struct {
		specs   []string
		wantErr bool
	}{
		{nil, false},
		{[]string{"switch.List,qps,1.5,5", "port.*,fake"}, false},
		{[]string{"switch.List,qps,1.5,5", "switchGet,qps,1.5,5"}, true},
		{[]string{"link.List,qps,1.5,5"}, true},
		{[]string{"switch.List,qps,0,5"}, true},
	} {
		if err := ValidateSpecs(tc.specs); (err != nil) != tc.wantErr {
			t.Errorf("ValidateSpecs(%v) = %v, want error: %t", tc.specs, err, tc.wantErr)
		}
	}
}

func TestWildcardKeys(t *testing.T) {
	keys, err := constructRateLimitKeys("*.*")
	if err != nil {
		t.Fatalf("constructRateLimitKeys(*.*) = %v", err)
	}
	if got, want := len(keys), len(meta.AllKinds)*len(allOperations); got != want {
		t.Errorf("len(constructRateLimitKeys(*.*)) = %d, want %d", got, want)
	}
}

func TestAccept(t *testing.T) {
	logger, ctx := ktesting.NewTestContext(t)

	var nilLimiter *SouthboundRateLimiter
	if err := nilLimiter.Accept(ctx, Key{meta.KindSwitch, OpList}); err != nil {
		t.Errorf("nil Accept() = %v, want nil", err)
	}

	l, err := NewSouthboundRateLimiter([]string{"switch.List,qps,0.001,1", "port.Get,fake"}, logger)
	if err != nil {
		t.Fatalf("NewSouthboundRateLimiter() = %v", err)
	}
	key := Key{meta.KindSwitch, OpList}
	// The burst admits the first request immediately.
	if err := l.Accept(ctx, key); err != nil {
		t.Errorf("Accept(%v) = %v, want nil", key, err)
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := l.Accept(canceled, key); err == nil {
		t.Errorf("Accept(%v) with a canceled context = nil, want error", key)
	}
	if got := testutil.ToFloat64(metrics.ThrottleResults.WithLabelValues(key.String(), metrics.ResultCanceled)); got < 1 {
		t.Errorf("canceled count = %v, want >= 1", got)
	}
	for i := 0; i < 10; i++ {
		if err := l.Accept(canceled, Key{meta.KindPort, OpGet}); err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Accept(port.Get) = %v", err)
		}
	}
	// Unconfigured keys are not throttled.
	if err := l.Accept(canceled, Key{meta.KindPort, OpList}); err != nil {
		t.Errorf("Accept(port.List) = %v, want nil", err)
	}
}
