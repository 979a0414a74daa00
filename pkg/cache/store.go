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

package cache

import (
	"container/list"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
)

type scopeKey struct {
	kind     meta.Kind
	parentID string
}

// store is the type-generic backing store for a TopologyCache. Entries are
// kept in insertion order; replacing the value of an existing key keeps its
// position. This struct is not threadsafe.
type store struct {
	order *list.List
	m     map[indexKey]*list.Element
	// byKind and byScope index entry IDs for reconcile.
	byKind  map[meta.Kind]sets.Set[string]
	byScope map[scopeKey]sets.Set[string]
}

func newStore() *store {
	return &store{
		order:   list.New(),
		m:       make(map[indexKey]*list.Element),
		byKind:  make(map[meta.Kind]sets.Set[string]),
		byScope: make(map[scopeKey]sets.Set[string]),
	}
}

// put inserts or replaces e. It returns true if e was inserted.
func (st *store) put(e Entry) bool {
	k := indexKey{e.Kind(), e.Key().ID()}
	if el, ok := st.m[k]; ok {
		el.Value = e
		return false
	}
	st.m[k] = st.order.PushBack(e)

	if _, ok := st.byKind[k.kind]; !ok {
		st.byKind[k.kind] = sets.New[string]()
	}
	st.byKind[k.kind].Insert(k.id)

	sk := scopeKey{k.kind, e.Key().ParentID()}
	if _, ok := st.byScope[sk]; !ok {
		st.byScope[sk] = sets.New[string]()
	}
	st.byScope[sk].Insert(k.id)
	return true
}

func (st *store) get(kind meta.Kind, id string) Entry {
	if el, ok := st.m[indexKey{kind, id}]; ok {
		return el.Value.(Entry)
	}
	return nil
}

// remove deletes the entry and returns it, or nil if there was none.
func (st *store) remove(kind meta.Kind, id string) Entry {
	k := indexKey{kind, id}
	el, ok := st.m[k]
	if !ok {
		return nil
	}
	e := st.order.Remove(el).(Entry)
	delete(st.m, k)

	if ids, ok := st.byKind[kind]; ok {
		ids.Delete(id)
		if ids.Len() == 0 {
			delete(st.byKind, kind)
		}
	}
	sk := scopeKey{kind, e.Key().ParentID()}
	if ids, ok := st.byScope[sk]; ok {
		ids.Delete(id)
		if ids.Len() == 0 {
			delete(st.byScope, sk)
		}
	}
	return e
}

// ids returns a copy of the IDs of kind, restricted to parentID if scoped.
func (st *store) ids(kind meta.Kind, parentID string, scoped bool) sets.Set[string] {
	var src sets.Set[string]
	if scoped {
		src = st.byScope[scopeKey{kind, parentID}]
	} else {
		src = st.byKind[kind]
	}
	if src == nil {
		return sets.New[string]()
	}
	return src.Clone()
}

func (st *store) count(kind meta.Kind, parentID string, scoped bool) int {
	if scoped {
		return st.byScope[scopeKey{kind, parentID}].Len()
	}
	return st.byKind[kind].Len()
}

func (st *store) len() int {
	return st.order.Len()
}

func (st *store) front() *list.Element {
	return st.order.Front()
}
