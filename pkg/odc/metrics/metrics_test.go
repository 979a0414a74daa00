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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/opendaylight/vtn-sub002/pkg/cache"
	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

func TestPublishReconcileMetrics(t *testing.T) {
	before := testutil.ToFloat64(ReconcileChanges.WithLabelValues(string(meta.KindPort), ChangeCreated))
	PublishReconcileMetrics(meta.KindPort, cache.ReconcileResult{Created: 3})
	if got := testutil.ToFloat64(ReconcileChanges.WithLabelValues(string(meta.KindPort), ChangeCreated)) - before; got != 3 {
		t.Errorf("created delta = %v, want 3", got)
	}
}

func TestPublishDroppedRecords(t *testing.T) {
	c := RecordsDropped.WithLabelValues(string(meta.KindSwitch), string(types.ReasonMalformedID))
	before := testutil.ToFloat64(c)
	PublishDroppedRecords(meta.KindSwitch, map[types.Reason]int{types.ReasonMalformedID: 2})
	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("dropped delta = %v, want 2", got)
	}
}

func TestControllerMetrics(t *testing.T) {
	const controller = "metrics-test"
	c := cache.NewTopologyCache()
	sw := types.SwitchKey{SwitchID: types.TestSwitch1}
	c.Reconcile(meta.KindSwitch, nil, []cache.Entry{types.NewSwitchEntry(sw, types.SwitchValue{})})
	c.Reconcile(meta.KindPort, sw, []cache.Entry{
		types.NewPortEntry(types.PortKey{SwitchID: sw.SwitchID, PortName: "s1-eth1"}, types.PortValue{PortNumber: 1, Cost: 10}),
		types.NewPortEntry(types.PortKey{SwitchID: sw.SwitchID, PortName: "s1-eth2"}, types.PortValue{PortNumber: 2, Cost: 10}),
	})

	PublishCacheMetrics(controller, c)
	if got := testutil.ToFloat64(CacheEntries.WithLabelValues(controller, string(meta.KindPort))); got != 2 {
		t.Errorf("cache_entries{kind=port} = %v, want 2", got)
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	PublishSyncMetrics(controller, types.ConnectionUp, true, now)
	if got := testutil.ToFloat64(LastSyncTimestamp.WithLabelValues(controller)); got != float64(now.Unix()) {
		t.Errorf("last_sync_timestamp = %v, want %v", got, now.Unix())
	}
	if got := testutil.ToFloat64(ConnectionUp.WithLabelValues(controller)); got != 1 {
		t.Errorf("controller_connection_up = %v, want 1", got)
	}

	PublishSyncMetrics(controller, types.ConnectionDown, false, now.Add(time.Minute))
	if got := testutil.ToFloat64(LastSyncTimestamp.WithLabelValues(controller)); got != float64(now.Unix()) {
		t.Errorf("last_sync_timestamp after failed sync = %v, want %v", got, now.Unix())
	}
	if got := testutil.ToFloat64(ConnectionUp.WithLabelValues(controller)); got != 0 {
		t.Errorf("controller_connection_up = %v, want 0", got)
	}

	DeleteControllerMetrics(controller)
	if got := testutil.CollectAndCount(ConnectionUp); got != 0 {
		t.Errorf("CollectAndCount(ConnectionUp) after delete = %d, want 0", got)
	}
}
