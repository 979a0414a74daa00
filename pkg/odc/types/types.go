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
	"fmt"

	"github.com/opendaylight/vtn-sub002/pkg/cache"
	"github.com/opendaylight/vtn-sub002/pkg/cache/meta"
)

// FetchStatus is the outward result of one fetch. Reasons are kept
// internally and only surface in logs and metrics.
type FetchStatus string

const (
	FetchSuccess      = FetchStatus("Success")
	FetchGenericError = FetchStatus("GenericError")
)

// ConnectionStatus is the believed reachability of a controller.
type ConnectionStatus string

const (
	ConnectionUp   = ConnectionStatus("Up")
	ConnectionDown = ConnectionStatus("Down")
)

// OperStatus is the operational state reported for a switch or port.
type OperStatus string

const (
	OperUp      = OperStatus("Up")
	OperDown    = OperStatus("Down")
	OperUnknown = OperStatus("Unknown")
)

// AdminStatus is the configured state of a port.
type AdminStatus string

const (
	AdminUp      = AdminStatus("Up")
	AdminDown    = AdminStatus("Down")
	AdminUnknown = AdminStatus("Unknown")
)

// ControllerKey identifies a southbound controller.
type ControllerKey struct {
	Name string
}

func (k ControllerKey) String() string {
	return k.Name
}

// ControllerValue holds the connection identity of a controller.
type ControllerValue struct {
	// Address is the base URL of the controller REST API,
	// e.g. http://10.0.0.1:8181.
	Address     string
	Description string
}

// SwitchKey identifies a switch by its datapath node id, e.g. openflow:2.
type SwitchKey struct {
	SwitchID string
}

func (k SwitchKey) ID() string       { return k.SwitchID }
func (k SwitchKey) ParentID() string { return "" }

// SwitchValue describes a switch.
type SwitchValue struct {
	Description  string
	Manufacturer string
	Hardware     string
	Software     string
	IPAddress    string
	OperStatus   OperStatus
}

// PortKey identifies a port by name within its switch.
type PortKey struct {
	SwitchID string
	PortName string
}

// ID is unique across switches. Switch ids never contain a slash.
func (k PortKey) ID() string       { return fmt.Sprintf("%s/%s", k.SwitchID, k.PortName) }
func (k PortKey) ParentID() string { return k.SwitchID }

// PortValue describes a port.
type PortValue struct {
	PortNumber  uint32
	ConnectorID string
	AdminStatus AdminStatus
	OperStatus  OperStatus
	// Speed is the current link speed in kbps.
	Speed uint64
	Cost  uint32
}

// SwitchEntry and PortEntry are the concrete cache entries for each kind.
type (
	SwitchEntry = cache.TypedEntry[SwitchKey, SwitchValue]
	PortEntry   = cache.TypedEntry[PortKey, PortValue]
)

func NewSwitchEntry(k SwitchKey, v SwitchValue) *SwitchEntry {
	return cache.NewEntry(meta.KindSwitch, k, v)
}

func NewPortEntry(k PortKey, v PortValue) *PortEntry {
	return cache.NewEntry(meta.KindPort, k, v)
}

// AsSwitch returns the switch behind e, if it is one.
func AsSwitch(e cache.Entry) (*SwitchEntry, bool) {
	return cache.As[SwitchKey, SwitchValue](e)
}

// AsPort returns the port behind e, if it is one.
func AsPort(e cache.Entry) (*PortEntry, bool) {
	return cache.As[PortKey, PortValue](e)
}
