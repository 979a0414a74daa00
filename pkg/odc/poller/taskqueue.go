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

package poller

import (
	"context"
	"time"

	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/util/workqueue"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"
)

// periodicTaskQueue invokes sync for every key inserted, on numWorkers
// parallel worker routines. A key is never synced by two workers at once.
// After a successful sync the key comes back after interval. A failed sync
// is retried with the queue's per-key exponential backoff, and once
// maxRetries consecutive retries have failed the key falls back to interval.
// Keys for which active returns false are dropped.
type periodicTaskQueue struct {
	// resource is used for logging to distinguish the queue being used.
	resource   string
	queue      workqueue.TypedRateLimitingInterface[string]
	sync       func(ctx context.Context, key string) error
	active     func(key string) bool
	interval   time.Duration
	maxRetries int
	// The respective workerDone channel is closed when the worker exits.
	// There is one channel per worker.
	workerDone []chan struct{}
	numWorkers int
	logger     klog.Logger
}

type taskQueueConfig struct {
	resource      string
	numWorkers    int
	interval      time.Duration
	maxRetries    int
	minRetryDelay time.Duration
	maxRetryDelay time.Duration
}

func newPeriodicTaskQueue(cfg taskQueueConfig, clk clock.WithTicker, logger klog.Logger,
	syncFn func(context.Context, string) error, activeFn func(string) bool) *periodicTaskQueue {
	if cfg.numWorkers <= 0 {
		cfg.numWorkers = 1
	}
	t := &periodicTaskQueue{
		resource: cfg.resource,
		queue: workqueue.NewTypedRateLimitingQueueWithConfig(
			workqueue.NewTypedItemExponentialFailureRateLimiter[string](cfg.minRetryDelay, cfg.maxRetryDelay),
			workqueue.TypedRateLimitingQueueConfig[string]{
				Name:  cfg.resource,
				Clock: clk,
			}),
		sync:       syncFn,
		active:     activeFn,
		interval:   cfg.interval,
		maxRetries: cfg.maxRetries,
		numWorkers: cfg.numWorkers,
		logger:     logger.WithValues("queue", cfg.resource),
	}
	for worker := 0; worker < cfg.numWorkers; worker++ {
		t.workerDone = append(t.workerDone, make(chan struct{}))
	}
	return t
}

// Len returns the number of keys ready to be synced.
func (t *periodicTaskQueue) Len() int {
	return t.queue.Len()
}

// Enqueue adds keys for an immediate sync.
func (t *periodicTaskQueue) Enqueue(keys ...string) {
	for _, key := range keys {
		t.logger.V(4).Info("Enqueue key", "key", key)
		t.queue.Add(key)
	}
}

// Run spawns off the worker routines and returns immediately.
func (t *periodicTaskQueue) Run(ctx context.Context) {
	for worker := 0; worker < t.numWorkers; worker++ {
		t.logger.Info("Spawning off worker", "worker", worker)
		go t.runInternal(ctx, worker)
	}
}

// runInternal picks up and processes keys until Shutdown is called.
func (t *periodicTaskQueue) runInternal(ctx context.Context, workerID int) {
	defer close(t.workerDone[workerID])
	for t.processNextWorkItem(ctx, workerID) {
	}
}

func (t *periodicTaskQueue) processNextWorkItem(ctx context.Context, workerID int) bool {
	key, quit := t.queue.Get()
	if quit {
		return false
	}
	defer t.queue.Done(key)
	defer utilruntime.HandleCrash()

	logger := t.logger.WithValues("worker", workerID, "key", key)
	logger.V(4).Info("Syncing")
	err := t.sync(ctx, key)
	if err != nil {
		logger.Error(err, "Sync failed")
	} else {
		logger.V(4).Info("Finished syncing")
	}
	t.requeue(key, err)
	return true
}

// requeue schedules the next sync of key after a sync that returned err.
func (t *periodicTaskQueue) requeue(key string, err error) {
	if !t.active(key) {
		t.queue.Forget(key)
		return
	}
	if err == nil {
		t.queue.Forget(key)
		t.queue.AddAfter(key, t.interval)
		return
	}
	if t.maxRetries > 0 && t.queue.NumRequeues(key) >= t.maxRetries {
		t.logger.Info("Retries exceeded, falling back to the regular interval", "key", key, "maxRetries", t.maxRetries)
		t.queue.Forget(key)
		t.queue.AddAfter(key, t.interval)
		return
	}
	t.queue.AddRateLimited(key)
}

// Shutdown shuts down the work queue and waits for all the workers to ACK.
func (t *periodicTaskQueue) Shutdown() {
	t.logger.V(2).Info("Shutting down task queue")
	t.queue.ShutDown()
	for _, workerDone := range t.workerDone {
		<-workerDone
	}
}
