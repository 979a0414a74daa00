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
	"context"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opendaylight/vtn-sub002/pkg/cache"
	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
	"github.com/opendaylight/vtn-sub002/pkg/odc/record"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

// PortFetchAgent populates the ports of one switch in a controller's cache.
type PortFetchAgent struct {
	baseAgent
	client types.TopologyClient
}

func NewPortFetchAgent(client types.TopologyClient, opts ...Option) *PortFetchAgent {
	return &PortFetchAgent{
		baseAgent: newBaseAgent(meta.KindPort, opts),
		client:    client,
	}
}

// FetchConfig replaces the ports of sw cached for rec with those currently
// reported by the controller. It returns Success if every record was
// valid, and whether the cache held no port of sw before the call.
func (a *PortFetchAgent) FetchConfig(ctx context.Context, rec *record.ControllerRecord, sw types.SwitchKey) (types.FetchStatus, bool) {
	res := a.Fetch(ctx, rec, sw)
	return res.Status, res.WasCacheEmptyBefore
}

// Fetch is FetchConfig with the detailed result.
func (a *PortFetchAgent) Fetch(ctx context.Context, rec *record.ControllerRecord, sw types.SwitchKey) FetchResult {
	rec.Lock()
	defer rec.Unlock()
	list := func(ctx context.Context, address string) ([]types.RawRecord, error) {
		return a.client.ListPorts(ctx, address, sw.SwitchID)
	}
	decode := func(raw []types.RawRecord, acc *dropAccumulator) []cache.Entry {
		return decodePorts(sw.SwitchID, raw, acc)
	}
	return a.fetch(ctx, rec, sw, list, decode)
}

func decodePorts(switchID string, raw []types.RawRecord, acc *dropAccumulator) []cache.Entry {
	var ret []cache.Entry
	names := sets.New[string]()
	for _, r := range raw {
		k, v, err := decodePort(switchID, r)
		if err == nil && names.Has(k.PortName) {
			err = types.RecordError(types.ReasonDuplicate, "port name %q of %s is reported more than once", k.PortName, switchID)
		}
		if !acc.add(err) {
			continue
		}
		names.Insert(k.PortName)
		ret = append(ret, types.NewPortEntry(k, v))
	}
	return ret
}
