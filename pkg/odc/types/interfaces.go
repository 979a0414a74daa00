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

package types

import (
	"context"
)

// Property names of a RawRecord. Switch properties:
const (
	PropDescription  = "description"
	PropManufacturer = "manufacturer"
	PropHardware     = "hardware"
	PropSoftware     = "software"
	PropIPAddress    = "ip-address"
	PropOperStatus   = "oper-status"
)

// Port properties.
const (
	PropPortNumber   = "port-number"
	PropName         = "name"
	PropConfig       = "configuration"
	PropLinkDown     = "state.link-down"
	PropBlocked      = "state.blocked"
	PropLive         = "state.live"
	PropCurrentSpeed = "current-speed"
	PropCost         = "cost"
)

// RawRecord is one undecoded resource as reported by the controller. The
// client flattens nested objects into dotted property names and renders
// scalars as strings; validation happens in the fetch agents.
type RawRecord struct {
	ID string
	// ParentID is the id of the enclosing resource, empty for switches.
	ParentID   string
	Properties map[string]string
}

// Get returns the named property.
func (r RawRecord) Get(name string) (string, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// TopologyClient reads topology from a southbound controller.
type TopologyClient interface {
	// ListSwitches returns every switch known to the controller at address.
	ListSwitches(ctx context.Context, address string) ([]RawRecord, error)
	// ListPorts returns the ports of one switch. A switch the controller no
	// longer knows has no ports.
	ListPorts(ctx context.Context, address, switchID string) ([]RawRecord, error)
}
