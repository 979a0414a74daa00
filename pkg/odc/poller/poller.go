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

// Package poller periodically refreshes the topology cache of every
// registered controller.
package poller

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/odc/fetchers"
	"github.com/opendaylight/vtn-sub002/pkg/odc/metrics"
	"github.com/opendaylight/vtn-sub002/pkg/odc/record"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

// unhealthyIntervals is the number of poll intervals a controller may go
// without a successful sync before it is reported unhealthy.
const unhealthyIntervals = 3

// Config tunes a Poller.
type Config struct {
	PollInterval      time.Duration
	SouthboundTimeout time.Duration
	// MaxRetries bounds consecutive backoff retries. After that the
	// controller falls back to the regular poll interval. Zero retries
	// forever.
	MaxRetries    int
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration
	NumWorkers    int
}

type controllerState struct {
	rec *record.ControllerRecord
	// lastSync is the time of the last successful sync, or of registration.
	lastSync time.Time
	synced   bool
}

// Poller keeps the caches of a set of controllers up to date.
type Poller struct {
	cfg         Config
	clock       clock.WithTicker
	logger      klog.Logger
	switchAgent *fetchers.SwitchFetchAgent
	portAgent   *fetchers.PortFetchAgent
	queue       *periodicTaskQueue

	mu          sync.Mutex
	controllers map[string]*controllerState
}

func NewPoller(client types.TopologyClient, cfg Config, clk clock.WithTicker, logger klog.Logger) *Poller {
	logger = logger.WithName("Poller")
	opts := []fetchers.Option{
		fetchers.WithLogger(logger),
		fetchers.WithTimeout(cfg.SouthboundTimeout),
		fetchers.WithClock(clk),
	}
	p := &Poller{
		cfg:         cfg,
		clock:       clk,
		logger:      logger,
		switchAgent: fetchers.NewSwitchFetchAgent(client, opts...),
		portAgent:   fetchers.NewPortFetchAgent(client, opts...),
		controllers: map[string]*controllerState{},
	}
	p.queue = newPeriodicTaskQueue(taskQueueConfig{
		resource:      "odc_poller",
		numWorkers:    cfg.NumWorkers,
		interval:      cfg.PollInterval,
		maxRetries:    cfg.MaxRetries,
		minRetryDelay: cfg.MinRetryDelay,
		maxRetryDelay: cfg.MaxRetryDelay,
	}, clk, logger, p.Sync, p.isRegistered)
	return p
}

// AddController registers rec and schedules an immediate sync. A record
// with the same name replaces the previous one.
func (p *Poller) AddController(rec *record.ControllerRecord) {
	name := rec.Key().Name
	p.mu.Lock()
	p.controllers[name] = &controllerState{
		rec:      rec,
		lastSync: p.clock.Now(),
	}
	p.mu.Unlock()
	p.logger.Info("Added controller", "controller", name, "address", rec.Address())
	p.queue.Enqueue(name)
}

// RemoveController stops polling the named controller.
func (p *Poller) RemoveController(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.controllers, name)
	p.switchAgent.Forget(name)
	p.portAgent.Forget(name)
	metrics.DeleteControllerMetrics(name)
	p.logger.Info("Removed controller", "controller", name)
}

func (p *Poller) isRegistered(name string) bool {
	_, ok := p.Controller(name)
	return ok
}

// Controller returns the record registered under name.
func (p *Poller) Controller(name string) (*record.ControllerRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.controllers[name]
	if !ok {
		return nil, false
	}
	return st.rec, true
}

// Controllers returns the registered controller names, sorted.
func (p *Poller) Controllers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ret []string
	for name := range p.controllers {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Starting poller", "workers", p.queue.numWorkers, "interval", p.cfg.PollInterval)
	p.queue.Run(ctx)
	<-ctx.Done()
	p.logger.Info("Shutting down poller")
	p.queue.Shutdown()
}

// Sync fetches the switches of the named controller, then the ports of
// every cached switch. Connectivity failures mark the controller Down and
// end the sync. Other failures are collected and the sync goes on.
func (p *Poller) Sync(ctx context.Context, name string) error {
	rec, ok := p.Controller(name)
	if !ok {
		return nil
	}
	logger := p.logger.WithValues("controller", name)
	start := p.clock.Now()

	var errs []error
	before := switchIDs(rec)
	res := p.switchAgent.Fetch(ctx, rec)
	if res.Status != types.FetchSuccess {
		errs = append(errs, fmt.Errorf("fetch switches: %w", res.Err))
	}
	for _, id := range before.Difference(switchIDs(rec)).UnsortedList() {
		p.portAgent.ForgetScope(name, id)
	}
	if p.handleResult(logger, rec, res) {
		for _, k := range rec.Cache().Keys(meta.KindSwitch, nil) {
			sw, ok := k.(types.SwitchKey)
			if !ok {
				continue
			}
			pres := p.portAgent.Fetch(ctx, rec, sw)
			if pres.Status != types.FetchSuccess {
				errs = append(errs, fmt.Errorf("fetch ports of %s: %w", sw.SwitchID, pres.Err))
			}
			if !p.handleResult(logger, rec, pres) {
				break
			}
		}
	}

	success := len(errs) == 0
	if !p.publish(name, rec, success) {
		logger.V(2).Info("Controller was removed during sync, dropping results")
		return nil
	}
	logger.V(2).Info("Synced controller", "success", success, "entries", rec.Cache().Count(), "duration", p.clock.Since(start))
	return utilerrors.NewAggregate(errs)
}

// handleResult updates the connection status from a fetch result and is
// false if the controller could not be reached.
func (p *Poller) handleResult(logger klog.Logger, rec *record.ControllerRecord, res fetchers.FetchResult) bool {
	status := types.ConnectionUp
	if res.Status != types.FetchSuccess && types.IsConnectivityReason(res.Reason) {
		status = types.ConnectionDown
	}
	if old := rec.SetConnectionStatus(status); old != status {
		logger.Info("Controller connection status changed", "from", old, "to", status)
	}
	return status == types.ConnectionUp
}

// publish exports the outcome of a sync of rec. It is false if rec is no
// longer registered under name, in which case nothing is exported and the
// agent states left by the sync are dropped.
func (p *Poller) publish(name string, rec *record.ControllerRecord, success bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.controllers[name]
	if !ok {
		p.switchAgent.Forget(name)
		p.portAgent.Forget(name)
		return false
	}
	if st.rec != rec {
		return false
	}
	metrics.PublishCacheMetrics(name, rec.Cache())
	if success {
		st.lastSync = p.clock.Now()
		st.synced = true
	}
	metrics.PublishSyncMetrics(name, rec.ConnectionStatus(), success, p.clock.Now())
	return true
}

func switchIDs(rec *record.ControllerRecord) sets.Set[string] {
	ids := sets.New[string]()
	for _, k := range rec.Cache().Keys(meta.KindSwitch, nil) {
		ids.Insert(k.ID())
	}
	return ids
}

// HealthCheck reports controllers that have not synced successfully within
// the last few poll intervals.
func (p *Poller) HealthCheck() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	limit := unhealthyIntervals * p.cfg.PollInterval
	var errs []error
	for name, st := range p.controllers {
		if since := p.clock.Since(st.lastSync); since > limit {
			errs = append(errs, fmt.Errorf("controller %s has not synced for %v (synced before: %t)", name, since.Round(time.Second), st.synced))
		}
	}
	return utilerrors.NewAggregate(errs)
}
