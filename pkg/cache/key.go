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

// Key identifies one resource instance within its kind.
type Key interface {
	// ID is unique within the kind. Comparison is exact-match and
	// case-sensitive.
	ID() string
	// ParentID is the ID of the scoping parent entry, or "" for top-level
	// kinds.
	ParentID() string
}

// ComparableKey is a Key usable as a TypedEntry key.
type ComparableKey interface {
	comparable
	Key
}

// indexKey is the identity of an entry within the whole cache.
type indexKey struct {
	kind meta.Kind
	id   string
}

func (k indexKey) String() string {
	return fmt.Sprintf("%s(%q)", k.kind.CamelCase(), k.id)
}

// scopeOf returns the parent ID a reconcile call is restricted to. A nil key
// means the whole kind.
func scopeOf(parent Key) (string, bool) {
	if parent == nil {
		return "", false
	}
	return parent.ID(), true
}

// ValidKey is true if k can be stored under kind: top-level kinds must not
// carry a parent and scoped kinds must.
func ValidKey(kind meta.Kind, k Key) bool {
	ki, ok := meta.AllKindsMap[kind]
	if !ok || k == nil || k.ID() == "" {
		return false
	}
	if ki.TopLevel() {
		return k.ParentID() == ""
	}
	return k.ParentID() != ""
}
