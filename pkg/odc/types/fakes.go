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
	"sync"
)

const (
	TestControllerAddress = "http://odc.test:8181"
	TestSwitch1           = "openflow:1"
	TestSwitch2           = "openflow:2"
)

// FakeTopologyClient serves canned records. Responses are keyed by
// controller address, and by address and switch id for ports.
type FakeTopologyClient struct {
	mu sync.Mutex

	Switches map[string][]RawRecord
	Ports    map[string]map[string][]RawRecord
	// Errs makes every call for an address fail.
	Errs map[string]error
	// PanicWith makes every call panic with the given value if non-nil.
	PanicWith interface{}

	Calls int
}

func NewFakeTopologyClient() *FakeTopologyClient {
	return &FakeTopologyClient{
		Switches: map[string][]RawRecord{},
		Ports:    map[string]map[string][]RawRecord{},
		Errs:     map[string]error{},
	}
}

func (f *FakeTopologyClient) SetSwitches(address string, records ...RawRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Switches[address] = records
}

func (f *FakeTopologyClient) SetPorts(address, switchID string, records ...RawRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Ports[address] == nil {
		f.Ports[address] = map[string][]RawRecord{}
	}
	f.Ports[address][switchID] = records
}

func (f *FakeTopologyClient) SetError(address string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.Errs, address)
		return
	}
	f.Errs[address] = err
}

func (f *FakeTopologyClient) ListSwitches(ctx context.Context, address string) ([]RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(ctx, address); err != nil {
		return nil, err
	}
	return append([]RawRecord(nil), f.Switches[address]...), nil
}

func (f *FakeTopologyClient) ListPorts(ctx context.Context, address, switchID string) ([]RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(ctx, address); err != nil {
		return nil, err
	}
	return append([]RawRecord(nil), f.Ports[address][switchID]...), nil
}

func (f *FakeTopologyClient) call(ctx context.Context, address string) error {
	f.Calls++
	if f.PanicWith != nil {
		panic(f.PanicWith)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.Errs[address]
}

// SwitchRecord returns a well-formed switch record.
func SwitchRecord(id string) RawRecord {
	return RawRecord{
		ID: id,
		Properties: map[string]string{
			PropDescription:  "switch " + id,
			PropManufacturer: "Nicira, Inc.",
			PropHardware:     "Open vSwitch",
			PropSoftware:     "2.17.0",
			PropOperStatus:   "up",
		},
	}
}

// PortRecord returns a well-formed, live port record on a 10Gbps link.
func PortRecord(switchID, portNumber, name string) RawRecord {
	return RawRecord{
		ID:       switchID + ":" + portNumber,
		ParentID: switchID,
		Properties: map[string]string{
			PropPortNumber:   portNumber,
			PropName:         name,
			PropConfig:       "",
			PropLinkDown:     "false",
			PropBlocked:      "false",
			PropLive:         "true",
			PropCurrentSpeed: "10000000",
		},
	}
}
