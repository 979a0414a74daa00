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

package fetchers

import (
	"errors"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

// maxKeptErrors bounds the number of per-record errors kept for logging.
const maxKeptErrors = 10

// dropAccumulator collects the outcome of validating a batch of records.
// Every invalid record is counted, processing continues with the next one.
type dropAccumulator struct {
	dropped  int
	skipped  int
	first    error
	byReason map[types.Reason]int
	errs     []error
}

func newDropAccumulator() *dropAccumulator {
	return &dropAccumulator{byReason: map[types.Reason]int{}}
}

// add records the result of decoding one record and is true if the record
// should be kept.
func (a *dropAccumulator) add(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, errSkipped) {
		a.skipped++
		return false
	}
	a.dropped++
	if a.first == nil {
		a.first = err
	}
	a.byReason[types.ClassifyError(err).Reason]++
	if len(a.errs) < maxKeptErrors {
		a.errs = append(a.errs, err)
	}
	return false
}

// aggregate returns the kept errors as one, or nil.
func (a *dropAccumulator) aggregate() error {
	return utilerrors.NewAggregate(a.errs)
}
