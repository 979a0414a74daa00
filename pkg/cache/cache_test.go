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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
)

func TestReconcile(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc       string
		initial    []Entry
		kind       meta.Kind
		parent     Key
		candidates []Entry
		want       ReconcileResult
		wantIDs    []string
	}{
		{
			desc:       "empty cache, create all",
			kind:       meta.KindSwitch,
			candidates: []Entry{sw("s1", true), sw("s2", true)},
			want:       ReconcileResult{Created: 2},
			wantIDs:    []string{"s1", "s2"},
		},
		{
			desc:       "identical candidates are unchanged",
			initial:    []Entry{sw("s1", true), sw("s2", true)},
			kind:       meta.KindSwitch,
			candidates: []Entry{sw("s1", true), sw("s2", true)},
			want:       ReconcileResult{Unchanged: 2},
			wantIDs:    []string{"s1", "s2"},
		},
		{
			desc:       "create, update, delete and unchanged together",
			initial:    []Entry{sw("s1", true), sw("s2", true), sw("s3", true)},
			kind:       meta.KindSwitch,
			candidates: []Entry{sw("s1", true), sw("s2", false), sw("s4", true)},
			want:       ReconcileResult{Created: 1, Updated: 1, Deleted: 1, Unchanged: 1},
			wantIDs:    []string{"s1", "s2", "s4"},
		},
		{
			desc:    "empty candidates delete the whole kind",
			initial: []Entry{sw("s1", true), sw("s2", true)},
			kind:    meta.KindSwitch,
			want:    ReconcileResult{Deleted: 2},
		},
		{
			desc:       "deleting a switch cascades to its ports",
			initial:    []Entry{sw("s1", true), sw("s2", true), port("s1", "p1", true), port("s1", "p2", true), port("s2", "p1", true)},
			kind:       meta.KindSwitch,
			candidates: []Entry{sw("s2", true)},
			want:       ReconcileResult{Deleted: 1, Unchanged: 1, Cascaded: 2},
			wantIDs:    []string{"s2", "s2/p1"},
		},
		{
			desc:       "scoped reconcile leaves other scopes alone",
			initial:    []Entry{sw("s1", true), sw("s2", true), port("s1", "p1", true), port("s2", "p1", true)},
			kind:       meta.KindPort,
			parent:     swKey{"s1"},
			candidates: []Entry{port("s1", "p2", true)},
			want:       ReconcileResult{Created: 1, Deleted: 1},
			wantIDs:    []string{"s1", "s2", "s2/p1", "s1/p2"},
		},
		{
			desc:       "candidates outside the scope or of another kind are rejected",
			initial:    []Entry{sw("s1", true)},
			kind:       meta.KindPort,
			parent:     swKey{"s1"},
			candidates: []Entry{port("s2", "p1", true), sw("s9", true), nil, port("s1", "p1", true)},
			want:       ReconcileResult{Created: 1, Rejected: 3},
			wantIDs:    []string{"s1", "s1/p1"},
		},
		{
			desc:       "scoped kind without a parent is rejected",
			kind:       meta.KindPort,
			candidates: []Entry{NewEntry(meta.KindPort, portKey{"", "p1"}, portValue{})},
			want:       ReconcileResult{Rejected: 1},
		},
		{
			desc:       "duplicate candidate keys, last wins",
			kind:       meta.KindSwitch,
			candidates: []Entry{sw("s1", true), sw("s2", true), sw("s1", false)},
			want:       ReconcileResult{Created: 2},
			wantIDs:    []string{"s1", "s2"},
		},
	} {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			c := NewTopologyCache()
			for _, e := range tc.initial {
				c.st.put(e)
			}
			got := c.Reconcile(tc.kind, tc.parent, tc.candidates)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Reconcile() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantIDs, cursorIDs(c)); diff != "" {
				t.Errorf("cache contents mismatch (-want +got):\n%s", diff)
			}
			if c.Count() != len(tc.wantIDs) {
				t.Errorf("Count() = %d, want %d", c.Count(), len(tc.wantIDs))
			}
		})
	}
}

func TestReconcileLastDuplicateWins(t *testing.T) {
	t.Parallel()

	c := NewTopologyCache()
	c.Reconcile(meta.KindSwitch, nil, []Entry{sw("s1", true), sw("s1", false)})

	e, ok := c.Get(meta.KindSwitch, "s1")
	if !ok {
		t.Fatalf("Get(switch, s1) = _, false, want true")
	}
	te, ok := As[swKey, swValue](e)
	if !ok {
		t.Fatalf("As[swKey, swValue](%v) = _, false, want true", e)
	}
	if te.ValueStruct().up {
		t.Errorf("ValueStruct().up = true, want false")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	t.Parallel()

	c := NewTopologyCache()
	candidates := []Entry{sw("s1", true), sw("s2", false)}
	c.Reconcile(meta.KindSwitch, nil, candidates)
	before := c.Count()

	got := c.Reconcile(meta.KindSwitch, nil, candidates)
	if diff := cmp.Diff(ReconcileResult{Unchanged: 2}, got); diff != "" {
		t.Errorf("second Reconcile() mismatch (-want +got):\n%s", diff)
	}
	if got.Changed() {
		t.Errorf("second Reconcile().Changed() = true, want false")
	}
	if c.Count() != before {
		t.Errorf("Count() = %d, want %d", c.Count(), before)
	}
}

func TestReconcileUpdateKeepsPosition(t *testing.T) {
	t.Parallel()

	c := NewTopologyCache()
	c.Reconcile(meta.KindSwitch, nil, []Entry{sw("a", true), sw("b", true), sw("c", true)})
	c.Reconcile(meta.KindSwitch, nil, []Entry{sw("c", true), sw("b", true), sw("a", false)})

	if diff := cmp.Diff([]string{"a", "b", "c"}, cursorIDs(c)); diff != "" {
		t.Errorf("iteration order mismatch (-want +got):\n%s", diff)
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	c := NewTopologyCache()
	c.Reconcile(meta.KindSwitch, nil, []Entry{sw("s1", true), sw("s2", true)})
	c.Reconcile(meta.KindPort, swKey{"s1"}, []Entry{port("s1", "p1", true), port("s1", "p2", true), port("s1", "p3", true)})

	if got := c.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	if got := c.CountKind(meta.KindPort); got != 3 {
		t.Errorf("CountKind(port) = %d, want 3", got)
	}
	if got := c.CountScope(meta.KindPort, swKey{"s1"}); got != 3 {
		t.Errorf("CountScope(port, s1) = %d, want 3", got)
	}
	if !c.IsScopeEmpty(meta.KindPort, swKey{"s2"}) {
		t.Errorf("IsScopeEmpty(port, s2) = false, want true")
	}
	if c.IsScopeEmpty(meta.KindSwitch, nil) {
		t.Errorf("IsScopeEmpty(switch, nil) = true, want false")
	}

	var got []string
	for _, k := range c.Keys(meta.KindPort, swKey{"s1"}) {
		got = append(got, k.ID())
	}
	if diff := cmp.Diff([]string{"s1/p1", "s1/p2", "s1/p3"}, got); diff != "" {
		t.Errorf("Keys(port, s1) mismatch (-want +got):\n%s", diff)
	}
}

func TestAsDispatch(t *testing.T) {
	t.Parallel()

	c := NewTopologyCache()
	c.Reconcile(meta.KindSwitch, nil, []Entry{sw("s1", true)})
	c.Reconcile(meta.KindPort, swKey{"s1"}, []Entry{port("s1", "p1", false)})

	var switches, ports int
	cur := c.CreateCursor()
	for e, ok := cur.Next(); ok; e, ok = cur.Next() {
		switch e.Kind() {
		case meta.KindSwitch:
			te, ok := As[swKey, swValue](e)
			if !ok || te.KeyStruct().id != "s1" {
				t.Errorf("As[swKey, swValue](%v) = %v, %t", e, te, ok)
			}
			switches++
		case meta.KindPort:
			te, ok := As[portKey, portValue](e)
			if !ok || te.KeyStruct().name != "p1" || te.ValueStruct().up {
				t.Errorf("As[portKey, portValue](%v) = %v, %t", e, te, ok)
			}
			if _, ok := As[swKey, swValue](e); ok {
				t.Errorf("As[swKey, swValue](%v) = _, true, want false", e)
			}
			ports++
		}
	}
	if switches != 1 || ports != 1 {
		t.Errorf("got %d switches and %d ports, want 1 and 1", switches, ports)
	}
	if _, ok := As[swKey, swValue](nil); ok {
		t.Errorf("As(nil) = _, true, want false")
	}
}

func cursorIDs(c *TopologyCache) []string {
	var ret []string
	cur := c.CreateCursor()
	for e, ok := cur.Next(); ok; e, ok = cur.Next() {
		ret = append(ret, e.Key().ID())
	}
	return ret
}
