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
)

type Reason string

const (
	// whole-fetch failures, the cache is left untouched
	ReasonConnectivity    = Reason("Connectivity")
	ReasonTimeout         = Reason("Timeout")
	ReasonCanceled        = Reason("Canceled")
	ReasonInvalidResponse = Reason("InvalidResponse")

	// per-record failures, the record is dropped
	ReasonMissingID     = Reason("MissingID")
	ReasonMalformedID   = Reason("MalformedID")
	ReasonScopeMismatch = Reason("ScopeMismatch")
	ReasonInvalidEnum   = Reason("InvalidEnum")
	ReasonOutOfRange    = Reason("OutOfRange")
	ReasonDuplicate     = Reason("Duplicate")
	ReasonMissingField  = Reason("MissingField")
	ReasonInvalidField  = Reason("InvalidField")

	ReasonOtherError = Reason("OtherError")
	ReasonSuccess    = Reason("Success")
)

// AllReasons lists every reason, for metric initialization.
func AllReasons() []Reason {
	return []Reason{ReasonConnectivity, ReasonTimeout, ReasonCanceled, ReasonInvalidResponse,
		ReasonMissingID, ReasonMalformedID, ReasonScopeMismatch, ReasonInvalidEnum, ReasonOutOfRange,
		ReasonDuplicate, ReasonMissingField, ReasonInvalidField, ReasonOtherError, ReasonSuccess}
}

var (
	ErrConnectivity = FetchError{
		Err:    errors.New("controller is unreachable"),
		Reason: ReasonConnectivity,
	}
	ErrInvalidResponse = FetchError{
		Err:    errors.New("controller returned a malformed response"),
		Reason: ReasonInvalidResponse,
	}
)

// FetchError is an error encountered while fetching from a controller.
// Errors that are not a FetchError are reported as OtherError.
type FetchError struct {
	Err    error
	Reason Reason
	// PerRecord is set if the error only invalidates one record of the
	// response.
	PerRecord bool
}

func (fe FetchError) Error() string {
	return fe.Err.Error()
}

func (fe FetchError) Unwrap() error {
	return fe.Err
}

// RecordError returns a per-record FetchError.
func RecordError(reason Reason, format string, args ...interface{}) FetchError {
	return FetchError{
		Err:       fmt.Errorf(format, args...),
		Reason:    reason,
		PerRecord: true,
	}
}

// ClassifyError takes a non-nil error and returns the FetchError it wraps.
// Context errors map to Timeout and Canceled, anything else unknown is
// wrapped as OtherError.
func ClassifyError(err error) FetchError {
	var fe FetchError
	if errors.As(err, &fe) {
		return fe
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FetchError{Err: err, Reason: ReasonTimeout}
	case errors.Is(err, context.Canceled):
		return FetchError{Err: err, Reason: ReasonCanceled}
	}
	return FetchError{Err: err, Reason: ReasonOtherError}
}

// IsConnectivityReason is true for reasons that mean the controller could
// not be reached at all.
func IsConnectivityReason(r Reason) bool {
	switch r {
	case ReasonConnectivity, ReasonTimeout, ReasonCanceled:
		return true
	}
	return false
}
