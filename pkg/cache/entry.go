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
	"fmt"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
)

// Entry is one keyed snapshot record held by a TopologyCache. It exposes the
// kind and key without requiring the caller to know the concrete key and
// value types.
type Entry interface {
	Kind() meta.Kind
	Key() Key
	// sameValue is true if other carries the same concrete types and an
	// equal key and value.
	sameValue(other Entry) bool
}

// TypedEntry binds a concrete key type and value type to an Entry.
type TypedEntry[K ComparableKey, V comparable] struct {
	kind  meta.Kind
	key   K
	value V
}

// NewEntry returns an entry of the given kind.
func NewEntry[K ComparableKey, V comparable](kind meta.Kind, key K, value V) *TypedEntry[K, V] {
	return &TypedEntry[K, V]{kind: kind, key: key, value: value}
}

// Kind implements Entry.
func (e *TypedEntry[K, V]) Kind() meta.Kind { return e.kind }

// Key implements Entry.
func (e *TypedEntry[K, V]) Key() Key { return e.key }

// KeyStruct returns the concrete key.
func (e *TypedEntry[K, V]) KeyStruct() K { return e.key }

// ValueStruct returns the concrete value.
func (e *TypedEntry[K, V]) ValueStruct() V { return e.value }

func (e *TypedEntry[K, V]) sameValue(other Entry) bool {
	o, ok := other.(*TypedEntry[K, V])
	if !ok {
		return false
	}
	return e.key == o.key && e.value == o.value
}

func (e *TypedEntry[K, V]) String() string {
	return fmt.Sprintf("%s{key: %+v, value: %+v}", e.kind.CamelCase(), e.key, e.value)
}

// As recovers the typed entry behind e. Callers normally dispatch on Kind()
// first; ok is false if the concrete types do not match.
func As[K ComparableKey, V comparable](e Entry) (*TypedEntry[K, V], bool) {
	if e == nil {
		return nil, false
	}
	te, ok := e.(*TypedEntry[K, V])
	return te, ok
}
