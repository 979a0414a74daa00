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

package record

import (
	"sync"

	"github.com/opendaylight/vtn-sub002/pkg/cache"
	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

// ControllerRecord is the driver's view of one southbound controller: its
// identity, its believed connection status and the topology cache that is
// populated from it. The cache lives as long as the record.
type ControllerRecord struct {
	// fetchLock serializes fetches against this controller.
	fetchLock sync.Mutex

	mu     sync.RWMutex
	key    types.ControllerKey
	value  types.ControllerValue
	status types.ConnectionStatus

	cache *cache.TopologyCache
}

// New returns a record with an empty cache. The connection status starts
// out Down until the first successful fetch.
func New(key types.ControllerKey, value types.ControllerValue) *ControllerRecord {
	return &ControllerRecord{
		key:    key,
		value:  value,
		status: types.ConnectionDown,
		cache:  cache.NewTopologyCache(),
	}
}

func (r *ControllerRecord) Key() types.ControllerKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.key
}

func (r *ControllerRecord) Value() types.ControllerValue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Address returns the base URL of the controller.
func (r *ControllerRecord) Address() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value.Address
}

func (r *ControllerRecord) ConnectionStatus() types.ConnectionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// UpdateIdentity replaces the key and value in one step. The cache is left
// as is.
func (r *ControllerRecord) UpdateIdentity(key types.ControllerKey, value types.ControllerValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.key = key
	r.value = value
}

// SetConnectionStatus records the reachability of the controller and
// returns the previous status.
func (r *ControllerRecord) SetConnectionStatus(status types.ConnectionStatus) types.ConnectionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.status
	r.status = status
	return old
}

// Cache returns the topology cache owned by the record.
func (r *ControllerRecord) Cache() *cache.TopologyCache {
	return r.cache
}

// Lock acquires the fetch lock. Fetch agents hold it for the duration of a
// fetch so that reconciles of the same controller never interleave.
func (r *ControllerRecord) Lock() {
	r.fetchLock.Lock()
}

func (r *ControllerRecord) Unlock() {
	r.fetchLock.Unlock()
}
