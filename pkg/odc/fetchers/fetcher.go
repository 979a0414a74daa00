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

// Package fetchers contains the agents that pull one resource kind from a
// southbound controller, validate it and reconcile it into the controller's
// topology cache.
package fetchers

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/opendaylight/vtn-sub002/pkg/cache"
	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/odc/metrics"
	"github.com/opendaylight/vtn-sub002/pkg/odc/record"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

// DefaultTimeout bounds one southbound request.
const DefaultTimeout = 30 * time.Second

// FetchResult is the detailed outcome of one fetch.
type FetchResult struct {
	Status types.FetchStatus
	// WasCacheEmptyBefore is true if the scope had no entries before the
	// fetch.
	WasCacheEmptyBefore bool
	Reconcile           cache.ReconcileResult
	// Dropped counts invalid records, Skipped counts valid records that are
	// not cached.
	Dropped int
	Skipped int
	// Err is the transport error, or the first per-record error.
	Err    error
	Reason types.Reason
	// DroppedByReason breaks Dropped down by reason.
	DroppedByReason map[types.Reason]int
}

type Option func(*config)

type config struct {
	logger  klog.Logger
	timeout time.Duration
	clock   clock.PassiveClock
}

// WithLogger sets the logger of the agent.
func WithLogger(logger klog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTimeout bounds each southbound request. Non-positive values are
// ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock sets the clock used to time fetches.
func WithClock(clk clock.PassiveClock) Option {
	return func(c *config) { c.clock = clk }
}

// baseAgent holds the steps shared by all kinds: snapshot the scope,
// fetch, validate, reconcile and report.
type baseAgent struct {
	kind   meta.Kind
	config
	states *stateTracker
}

func newBaseAgent(kind meta.Kind, opts []Option) baseAgent {
	c := config{
		logger:  klog.TODO(),
		timeout: DefaultTimeout,
		clock:   clock.RealClock{},
	}
	for _, o := range opts {
		o(&c)
	}
	c.logger = c.logger.WithName(kind.CamelCase() + "FetchAgent")
	return baseAgent{kind: kind, config: c, states: newStateTracker(c.logger)}
}

// State returns the state of the agent for a controller and scope. The
// scope of ports is the switch id, switches have the empty scope.
func (a *baseAgent) State(controller, scope string) State {
	return a.states.get(controller, scope)
}

// Forget drops the tracked states of a removed controller.
func (a *baseAgent) Forget(controller string) {
	a.states.forget(controller)
}

// ForgetScope drops the tracked state of a scope that no longer exists,
// such as a switch that left the topology.
func (a *baseAgent) ForgetScope(controller, scope string) {
	a.states.forgetScope(controller, scope)
}

type listFunc func(ctx context.Context, address string) ([]types.RawRecord, error)

// decodeFunc turns raw records into candidate entries, reporting every
// record to acc.
type decodeFunc func(raw []types.RawRecord, acc *dropAccumulator) []cache.Entry

// fetch runs one fetch of a.kind under parent. The caller holds the record's
// fetch lock.
func (a *baseAgent) fetch(ctx context.Context, rec *record.ControllerRecord, parent cache.Key, list listFunc, decode decodeFunc) (ret FetchResult) {
	start := a.clock.Now()
	controller := rec.Key().Name
	scope := ""
	if parent != nil {
		scope = parent.ID()
	}
	logger := a.logger.WithValues("controller", controller, "scope", scope)

	a.states.begin(controller, scope)
	ret.WasCacheEmptyBefore = rec.Cache().IsScopeEmpty(a.kind, parent)
	defer func() {
		if r := recover(); r != nil {
			ret.Status = types.FetchGenericError
			ret.Err = fmt.Errorf("recovered from panic while fetching %s: %v", a.kind, r)
			ret.Reason = types.ReasonOtherError
			logger.Error(ret.Err, "Fetch panicked")
		}
		a.states.finish(controller, scope, ret.Status)
		latency := a.clock.Since(start)
		metrics.PublishFetchMetrics(a.kind, ret.Status, ret.Reason, latency)
		logger.V(4).Info("Fetch finished", "status", ret.Status, "duration", latency)
	}()

	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	raw, err := list(reqCtx, rec.Address())
	if err != nil {
		fe := types.ClassifyError(err)
		ret.Status = types.FetchGenericError
		ret.Err = err
		ret.Reason = fe.Reason
		logger.Error(err, "Failed to fetch, leaving cache untouched", "kind", a.kind, "reason", fe.Reason)
		return ret
	}

	acc := newDropAccumulator()
	candidates := decode(raw, acc)
	ret.Reconcile = rec.Cache().Reconcile(a.kind, parent, candidates)
	ret.Dropped = acc.dropped
	ret.Skipped = acc.skipped
	ret.DroppedByReason = acc.byReason
	metrics.PublishReconcileMetrics(a.kind, ret.Reconcile)
	metrics.PublishDroppedRecords(a.kind, acc.byReason)

	if acc.dropped > 0 {
		ret.Status = types.FetchGenericError
		ret.Err = acc.first
		ret.Reason = types.ClassifyError(acc.first).Reason
		logger.Info("Dropped invalid records", "kind", a.kind, "dropped", acc.dropped, "kept", len(candidates), "err", acc.aggregate())
	} else {
		ret.Status = types.FetchSuccess
		ret.Reason = types.ReasonSuccess
	}
	logger.V(2).Info("Reconciled", "kind", a.kind, "received", len(raw), "result", ret.Reconcile.String())
	return ret
}
