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

// SwitchFetchAgent populates the switches of a controller's cache.
type SwitchFetchAgent struct {
	baseAgent
	client types.TopologyClient
}

func NewSwitchFetchAgent(client types.TopologyClient, opts ...Option) *SwitchFetchAgent {
	return &SwitchFetchAgent{
		baseAgent: newBaseAgent(meta.KindSwitch, opts),
		client:    client,
	}
}

// FetchConfig replaces the switches cached for rec with those currently
// reported by the controller. It returns Success if every record was
// valid, and whether the cache held no switch before the call.
func (a *SwitchFetchAgent) FetchConfig(ctx context.Context, rec *record.ControllerRecord) (types.FetchStatus, bool) {
	res := a.Fetch(ctx, rec)
	return res.Status, res.WasCacheEmptyBefore
}

// Fetch is FetchConfig with the detailed result.
func (a *SwitchFetchAgent) Fetch(ctx context.Context, rec *record.ControllerRecord) FetchResult {
	rec.Lock()
	defer rec.Unlock()
	return a.fetch(ctx, rec, nil, a.client.ListSwitches, decodeSwitches)
}

func decodeSwitches(raw []types.RawRecord, acc *dropAccumulator) []cache.Entry {
	var ret []cache.Entry
	seen := sets.New[string]()
	for _, r := range raw {
		k, v, err := decodeSwitch(r)
		if err == nil && seen.Has(k.SwitchID) {
			err = types.RecordError(types.ReasonDuplicate, "switch %s is reported more than once", k.SwitchID)
		}
		if !acc.add(err) {
			continue
		}
		seen.Insert(k.SwitchID)
		ret = append(ret, types.NewSwitchEntry(k, v))
	}
	return ret
}
