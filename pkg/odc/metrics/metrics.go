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

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opendaylight/vtn-sub002/pkg/cache"
	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

const (
	odcDriverSubsystem   = "odc_driver"
	fetchLatencyKey      = "fetch_duration_seconds"
	fetchResultKey       = "fetch_result"
	recordsDroppedKey    = "records_dropped"
	reconcileChangesKey  = "reconcile_changes"
	cacheEntriesKey      = "cache_entries"
	lastSyncTimestampKey = "last_sync_timestamp"
	connectionStatusKey  = "controller_connection_up"

	ChangeCreated  = "created"
	ChangeUpdated  = "updated"
	ChangeDeleted  = "deleted"
	ChangeCascaded = "cascaded"
	ChangeRejected = "rejected"
)

var (
	fetchLatencyLabels = []string{
		"kind",   // resource kind fetched
		"status", // outward fetch status
	}

	fetchReasonLabels = []string{
		"kind",   // resource kind fetched
		"reason", // classified reason of the fetch result
	}

	reconcileLabels = []string{
		"kind",   // resource kind reconciled
		"change", // type of cache change
	}

	FetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: odcDriverSubsystem,
			Name:      fetchLatencyKey,
			Help:      "Latency of one fetch from a southbound controller",
			// custom buckets - [10ms, 20ms, 40ms, ..., ~41s, +Inf]
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 13),
		},
		fetchLatencyLabels,
	)

	FetchResult = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: odcDriverSubsystem,
			Name:      fetchResultKey,
			Help:      "Number of fetches by result reason",
		},
		fetchReasonLabels,
	)

	RecordsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: odcDriverSubsystem,
			Name:      recordsDroppedKey,
			Help:      "Number of records dropped during validation",
		},
		fetchReasonLabels,
	)

	ReconcileChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: odcDriverSubsystem,
			Name:      reconcileChangesKey,
			Help:      "Number of cache entries changed by reconciliation",
		},
		reconcileLabels,
	)

	CacheEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: odcDriverSubsystem,
			Name:      cacheEntriesKey,
			Help:      "Number of cached entries per controller and kind",
		},
		[]string{"controller", "kind"},
	)

	LastSyncTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: odcDriverSubsystem,
			Name:      lastSyncTimestampKey,
			Help:      "The timestamp of the last successful sync of a controller.",
		},
		[]string{"controller"},
	)

	ConnectionUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: odcDriverSubsystem,
			Name:      connectionStatusKey,
			Help:      "1 if the controller is believed reachable, 0 otherwise.",
		},
		[]string{"controller"},
	)
)

var register sync.Once

func RegisterMetrics() {
	register.Do(func() {
		prometheus.MustRegister(FetchLatency)
		prometheus.MustRegister(FetchResult)
		prometheus.MustRegister(RecordsDropped)
		prometheus.MustRegister(ReconcileChanges)
		prometheus.MustRegister(CacheEntries)
		prometheus.MustRegister(LastSyncTimestamp)
		prometheus.MustRegister(ConnectionUp)
	})
}

// PublishFetchMetrics records the outcome of one fetch.
func PublishFetchMetrics(kind meta.Kind, status types.FetchStatus, reason types.Reason, latency time.Duration) {
	FetchLatency.WithLabelValues(string(kind), string(status)).Observe(latency.Seconds())
	FetchResult.WithLabelValues(string(kind), string(reason)).Inc()
}

// PublishDroppedRecords records the per-reason count of invalid records.
func PublishDroppedRecords(kind meta.Kind, dropped map[types.Reason]int) {
	for reason, n := range dropped {
		RecordsDropped.WithLabelValues(string(kind), string(reason)).Add(float64(n))
	}
}

// PublishReconcileMetrics records the changes applied by one reconcile.
func PublishReconcileMetrics(kind meta.Kind, res cache.ReconcileResult) {
	for change, n := range map[string]int{
		ChangeCreated:  res.Created,
		ChangeUpdated:  res.Updated,
		ChangeDeleted:  res.Deleted,
		ChangeCascaded: res.Cascaded,
		ChangeRejected: res.Rejected,
	} {
		if n > 0 {
			ReconcileChanges.WithLabelValues(string(kind), change).Add(float64(n))
		}
	}
}

// PublishCacheMetrics exports the size of a controller's cache.
func PublishCacheMetrics(controller string, c *cache.TopologyCache) {
	for _, ki := range meta.AllKinds {
		CacheEntries.WithLabelValues(controller, string(ki.Kind)).Set(float64(c.CountKind(ki.Kind)))
	}
}

// PublishSyncMetrics records a completed poll of a controller.
func PublishSyncMetrics(controller string, status types.ConnectionStatus, success bool, now time.Time) {
	if success {
		LastSyncTimestamp.WithLabelValues(controller).Set(float64(now.Unix()))
	}
	up := 0.0
	if status == types.ConnectionUp {
		up = 1
	}
	ConnectionUp.WithLabelValues(controller).Set(up)
}

// DeleteControllerMetrics drops the series of a removed controller.
func DeleteControllerMetrics(controller string) {
	for _, ki := range meta.AllKinds {
		CacheEntries.DeleteLabelValues(controller, string(ki.Kind))
	}
	LastSyncTimestamp.DeleteLabelValues(controller)
	ConnectionUp.DeleteLabelValues(controller)
}
