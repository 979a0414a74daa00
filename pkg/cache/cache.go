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

// Package cache contains the topology snapshot store for one southbound
// controller. The cache holds entries of several resource kinds (switches,
// ports, ...) side by side in one insertion-ordered structure, keyed by
// (kind, ID), and exposes a single mutation entry point, Reconcile, which
// replaces the entries of one kind (optionally scoped to a parent) with a
// freshly fetched candidate set.
//
// Usage
//
//	c := NewTopologyCache()
//	res := c.Reconcile(meta.KindSwitch, nil, []Entry{
//		NewEntry(meta.KindSwitch, swKey, swValue),
//	})
//	for cur := c.CreateCursor(); ; {
//		e, ok := cur.Next()
//		if !ok {
//			break
//		}
//		switch e.Kind() {
//		case meta.KindSwitch:
//			sw, _ := As[types.SwitchKey, types.SwitchValue](e)
//			...
//		}
//	}
package cache

import (
	"fmt"
	"sync"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
)

// ReconcileResult counts the changes applied by one Reconcile call.
type ReconcileResult struct {
	Created   int
	Updated   int
	Deleted   int
	Unchanged int
	// Cascaded counts child entries removed because their parent was
	// deleted. They are not included in Deleted.
	Cascaded int
	// Rejected counts candidates of the wrong kind or outside the scope.
	Rejected int
}

// Changed is true if the call mutated the cache.
func (r ReconcileResult) Changed() bool {
	return r.Created+r.Updated+r.Deleted+r.Cascaded > 0
}

func (r ReconcileResult) String() string {
	return fmt.Sprintf("created=%d updated=%d deleted=%d unchanged=%d cascaded=%d rejected=%d",
		r.Created, r.Updated, r.Deleted, r.Unchanged, r.Cascaded, r.Rejected)
}

// TopologyCache is the believed-true snapshot of the topology reported by
// one controller. It is safe for concurrent use, but callers must not run
// two Reconcile calls for the same kind and scope concurrently.
type TopologyCache struct {
	lock sync.RWMutex
	st   *store
}

// NewTopologyCache returns an empty cache.
func NewTopologyCache() *TopologyCache {
	return &TopologyCache{st: newStore()}
}

// Count returns the number of entries of all kinds.
func (c *TopologyCache) Count() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.st.len()
}

// CountKind returns the number of entries of kind.
func (c *TopologyCache) CountKind(kind meta.Kind) int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.st.count(kind, "", false)
}

// CountScope returns the number of entries of kind scoped under parent. A nil
// parent counts the whole kind.
func (c *TopologyCache) CountScope(kind meta.Kind, parent Key) int {
	parentID, scoped := scopeOf(parent)
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.st.count(kind, parentID, scoped)
}

// IsScopeEmpty is true if there are no entries of kind under parent.
func (c *TopologyCache) IsScopeEmpty(kind meta.Kind, parent Key) bool {
	return c.CountScope(kind, parent) == 0
}

// Get returns the entry of kind with the given ID.
func (c *TopologyCache) Get(kind meta.Kind, id string) (Entry, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	e := c.st.get(kind, id)
	return e, e != nil
}

// Keys returns the keys of kind under parent in iteration order.
func (c *TopologyCache) Keys(kind meta.Kind, parent Key) []Key {
	parentID, scoped := scopeOf(parent)
	c.lock.RLock()
	defer c.lock.RUnlock()
	var ret []Key
	for el := c.st.front(); el != nil; el = el.Next() {
		e := el.Value.(Entry)
		if e.Kind() != kind {
			continue
		}
		if scoped && e.Key().ParentID() != parentID {
			continue
		}
		ret = append(ret, e.Key())
	}
	return ret
}

// CreateCursor returns a cursor positioned before the first entry.
func (c *TopologyCache) CreateCursor() *Cursor {
	return &Cursor{c: c}
}

// Reconcile replaces the entries of kind (restricted to the children of
// parent if it is non-nil) with candidates:
//
//   - existing entries whose key is not among the candidates are deleted,
//     together with every entry scoped under them;
//   - candidates with no existing entry are created;
//   - candidates whose value differs from the stored one replace it;
//   - identical candidates are left alone.
//
// Candidates of another kind or outside the scope are rejected. If a key is
// repeated, the last candidate wins.
func (c *TopologyCache) Reconcile(kind meta.Kind, parent Key, candidates []Entry) ReconcileResult {
	parentID, scoped := scopeOf(parent)
	var res ReconcileResult

	// Last candidate per ID wins, first appearance fixes insertion order.
	var order []string
	desired := make(map[string]Entry, len(candidates))
	for _, e := range candidates {
		if e == nil || e.Kind() != kind || !ValidKey(kind, e.Key()) {
			res.Rejected++
			continue
		}
		if scoped && e.Key().ParentID() != parentID {
			res.Rejected++
			continue
		}
		id := e.Key().ID()
		if _, ok := desired[id]; !ok {
			order = append(order, id)
		}
		desired[id] = e
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	for _, id := range c.st.ids(kind, parentID, scoped).UnsortedList() {
		if _, ok := desired[id]; ok {
			continue
		}
		if c.st.remove(kind, id) != nil {
			res.Deleted++
			res.Cascaded += c.cascade(kind, id)
		}
	}

	for _, id := range order {
		e := desired[id]
		old := c.st.get(kind, id)
		switch {
		case old == nil:
			c.st.put(e)
			res.Created++
		case old.Key().ParentID() != e.Key().ParentID():
			// Re-parented: drop the old entry so the scope indexes stay exact.
			c.st.remove(kind, id)
			res.Cascaded += c.cascade(kind, id)
			c.st.put(e)
			res.Updated++
		case old.sameValue(e):
			res.Unchanged++
		default:
			c.st.put(e)
			res.Updated++
		}
	}
	return res
}

// cascade removes every entry scoped under (kind, id) and returns how many
// were removed. Assumes c.lock is held.
func (c *TopologyCache) cascade(kind meta.Kind, id string) int {
	n := 0
	for _, child := range meta.Children(kind) {
		for _, cid := range c.st.ids(child, id, true).UnsortedList() {
			if c.st.remove(child, cid) != nil {
				n++
				n += c.cascade(child, cid)
			}
		}
	}
	return n
}
