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

package types

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc          string
		err           error
		wantReason    Reason
		wantPerRecord bool
	}{
		{
			desc:       "fetch error",
			err:        ErrInvalidResponse,
			wantReason: ReasonInvalidResponse,
		},
		{
			desc:       "wrapped fetch error",
			err:        fmt.Errorf("%w: connection refused", ErrConnectivity),
			wantReason: ReasonConnectivity,
		},
		{
			desc:          "record error",
			err:           fmt.Errorf("port 3: %w", RecordError(ReasonOutOfRange, "cost %d", 0)),
			wantReason:    ReasonOutOfRange,
			wantPerRecord: true,
		},
		{
			desc:       "deadline",
			err:        fmt.Errorf("get nodes: %w", context.DeadlineExceeded),
			wantReason: ReasonTimeout,
		},
		{
			desc:       "canceled",
			err:        context.Canceled,
			wantReason: ReasonCanceled,
		},
		{
			desc:       "other error",
			err:        errors.New("boom"),
			wantReason: ReasonOtherError,
		},
	} {
		got := ClassifyError(tc.err)
		if got.Reason != tc.wantReason {
			t.Errorf("%s: ClassifyError(%v).Reason = %v, want %v", tc.desc, tc.err, got.Reason, tc.wantReason)
		}
		if got.PerRecord != tc.wantPerRecord {
			t.Errorf("%s: ClassifyError(%v).PerRecord = %t, want %t", tc.desc, tc.err, got.PerRecord, tc.wantPerRecord)
		}
	}
}

func TestIsConnectivityReason(t *testing.T) {
	t.Parallel()

	want := map[Reason]bool{ReasonConnectivity: true, ReasonTimeout: true, ReasonCanceled: true}
	for _, r := range AllReasons() {
		if got := IsConnectivityReason(r); got != want[r] {
			t.Errorf("IsConnectivityReason(%v) = %t, want %t", r, got, want[r])
		}
	}
}
