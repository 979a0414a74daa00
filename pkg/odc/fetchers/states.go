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
	"sync"

	"k8s.io/klog/v2"

	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

// State is the lifecycle state of an agent for one controller and scope:
//
//	Idle -> Fetching -> Success|GenericError -> Idle
//
// A settled state is reported until the next fetch starts.
type State string

const (
	StateIdle         = State("Idle")
	StateFetching     = State("Fetching")
	StateSuccess      = State("Success")
	StateGenericError = State("GenericError")
)

var validTransitions = map[State][]State{
	StateIdle:         {StateFetching},
	StateFetching:     {StateSuccess, StateGenericError},
	StateSuccess:      {StateIdle},
	StateGenericError: {StateIdle},
}

type stateKey struct {
	controller string
	scope      string
}

type stateTracker struct {
	mu     sync.Mutex
	states map[stateKey]State
	logger klog.Logger
}

func newStateTracker(logger klog.Logger) *stateTracker {
	return &stateTracker{states: map[stateKey]State{}, logger: logger}
}

func (t *stateTracker) get(controller, scope string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.states[stateKey{controller, scope}]; ok {
		return s
	}
	return StateIdle
}

// begin moves the scope to Fetching, passing through Idle if the previous
// fetch settled.
func (t *stateTracker) begin(controller, scope string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := stateKey{controller, scope}
	if s, ok := t.states[k]; ok && s != StateIdle {
		t.transitionLocked(k, StateIdle)
	}
	t.transitionLocked(k, StateFetching)
}

func (t *stateTracker) finish(controller, scope string, status types.FetchStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := StateGenericError
	if status == types.FetchSuccess {
		next = StateSuccess
	}
	t.transitionLocked(stateKey{controller, scope}, next)
}

// forget drops every state of controller.
func (t *stateTracker) forget(controller string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.states {
		if k.controller == controller {
			delete(t.states, k)
		}
	}
}

// forgetScope drops the state of one scope of controller.
func (t *stateTracker) forgetScope(controller, scope string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, stateKey{controller, scope})
}

func (t *stateTracker) transitionLocked(k stateKey, next State) {
	cur, ok := t.states[k]
	if !ok {
		cur = StateIdle
	}
	valid := false
	for _, s := range validTransitions[cur] {
		if s == next {
			valid = true
			break
		}
	}
	if !valid {
		// Fetches of one controller are serialized, so this is a bug.
		t.logger.Error(nil, "Invalid agent state transition", "controller", k.controller, "scope", k.scope, "from", cur, "to", next)
	}
	t.states[k] = next
}
