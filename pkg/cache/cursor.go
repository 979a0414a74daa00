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
)

// Cursor is a restartable forward iterator over a TopologyCache.
//
// A cursor observes the live cache. If the cache is reconciled while a cursor
// is open, the entries it yields afterwards are unspecified, but Next never
// panics and the iteration always terminates. A cursor parked on an entry
// that has since been removed is exhausted. Create a fresh cursor after
// Reconcile returns for a consistent view.
//
// A Cursor must not be shared between goroutines.
type Cursor struct {
	c       *TopologyCache
	cur     *list.Element
	started bool
	done    bool
}

// Next advances the cursor and returns the entry under it. ok is false once
// the cursor is exhausted.
func (cur *Cursor) Next() (Entry, bool) {
	if cur.done {
		return nil, false
	}
	cur.c.lock.RLock()
	defer cur.c.lock.RUnlock()

	var el *list.Element
	if !cur.started {
		cur.started = true
		el = cur.c.st.front()
	} else if cur.cur != nil {
		// Next is nil for an element that was removed from the list.
		el = cur.cur.Next()
	}
	if el == nil {
		cur.cur = nil
		cur.done = true
		return nil, false
	}
	cur.cur = el
	return el.Value.(Entry), true
}

// Done is true once Next has reported the end of the cache.
func (cur *Cursor) Done() bool {
	return cur.done
}

// Reset rewinds the cursor to before the first entry.
func (cur *Cursor) Reset() {
	cur.cur = nil
	cur.started = false
	cur.done = false
}
