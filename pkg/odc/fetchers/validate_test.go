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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

func withProps(r types.RawRecord, kv ...string) types.RawRecord {
	props := map[string]string{}
	for k, v := range r.Properties {
		props[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		props[kv[i]] = kv[i+1]
	}
	r.Properties = props
	return r
}

func withoutProps(r types.RawRecord, names ...string) types.RawRecord {
	props := map[string]string{}
	for k, v := range r.Properties {
		props[k] = v
	}
	for _, n := range names {
		delete(props, n)
	}
	r.Properties = props
	return r
}

func reasonOf(err error) types.Reason {
	if err == nil {
		return ""
	}
	return types.ClassifyError(err).Reason
}

func TestDecodeSwitch(t *testing.T) {
	t.Parallel()

	good := types.SwitchRecord(types.TestSwitch2)
	for _, tc := range []struct {
		desc       string
		rec        types.RawRecord
		wantReason types.Reason
		want       types.SwitchValue
	}{
		{
			desc: "valid",
			rec:  withProps(good, types.PropIPAddress, "10.0.0.2"),
			want: types.SwitchValue{
				Description:  "switch openflow:2",
				Manufacturer: "Nicira, Inc.",
				Hardware:     "Open vSwitch",
				Software:     "2.17.0",
				IPAddress:    "10.0.0.2",
				OperStatus:   types.OperUp,
			},
		},
		{
			desc: "no oper-status is unknown",
			rec:  types.RawRecord{ID: "openflow:18446744073709551615"},
			want: types.SwitchValue{OperStatus: types.OperUnknown},
		},
		{
			desc: "oper-status is case-insensitive",
			rec:  types.RawRecord{ID: "openflow:1", Properties: map[string]string{types.PropOperStatus: "DOWN"}},
			want: types.SwitchValue{OperStatus: types.OperDown},
		},
		{
			desc:       "missing id",
			rec:        types.RawRecord{Properties: good.Properties},
			wantReason: types.ReasonMissingID,
		},
		{
			desc:       "not an openflow id",
			rec:        types.RawRecord{ID: "ovsdb:1"},
			wantReason: types.ReasonMalformedID,
		},
		{
			desc:       "datapath id overflows",
			rec:        types.RawRecord{ID: "openflow:18446744073709551616"},
			wantReason: types.ReasonMalformedID,
		},
		{
			desc:       "bad ip address",
			rec:        withProps(good, types.PropIPAddress, "10.0.0.256"),
			wantReason: types.ReasonInvalidField,
		},
		{
			desc:       "bad oper-status",
			rec:        withProps(good, types.PropOperStatus, "sideways"),
			wantReason: types.ReasonInvalidEnum,
		},
	} {
		k, v, err := decodeSwitch(tc.rec)
		if got := reasonOf(err); got != tc.wantReason {
			t.Errorf("%s: decodeSwitch() reason = %q, want %q (err = %v)", tc.desc, got, tc.wantReason, err)
			continue
		}
		if err != nil {
			continue
		}
		if k.SwitchID != tc.rec.ID {
			t.Errorf("%s: decodeSwitch() key = %v, want %q", tc.desc, k, tc.rec.ID)
		}
		if diff := cmp.Diff(tc.want, v); diff != "" {
			t.Errorf("%s: decodeSwitch() value mismatch (-want +got):\n%s", tc.desc, diff)
		}
	}
}

func TestDecodePort(t *testing.T) {
	t.Parallel()

	const sw = types.TestSwitch2
	good := types.PortRecord(sw, "1", "s2-eth1")
	for _, tc := range []struct {
		desc       string
		rec        types.RawRecord
		wantSkip   bool
		wantReason types.Reason
		want       types.PortValue
	}{
		{
			desc: "valid",
			rec:  good,
			want: types.PortValue{
				PortNumber:  1,
				ConnectorID: "openflow:2:1",
				AdminStatus: types.AdminUp,
				OperStatus:  types.OperUp,
				Speed:       10000000,
				Cost:        10,
			},
		},
		{
			desc: "admin down and link down",
			rec:  withProps(good, types.PropConfig, "PORT-DOWN", types.PropLinkDown, "true"),
			want: types.PortValue{
				PortNumber:  1,
				ConnectorID: "openflow:2:1",
				AdminStatus: types.AdminDown,
				OperStatus:  types.OperDown,
				Speed:       10000000,
				Cost:        10,
			},
		},
		{
			desc: "explicit cost and no state",
			rec:  withoutProps(withProps(good, types.PropCost, "100"), types.PropLinkDown, types.PropBlocked, types.PropLive, types.PropConfig),
			want: types.PortValue{
				PortNumber:  1,
				ConnectorID: "openflow:2:1",
				AdminStatus: types.AdminUnknown,
				OperStatus:  types.OperUnknown,
				Speed:       10000000,
				Cost:        100,
			},
		},
		{
			desc: "several config bits with port down",
			rec:  withProps(good, types.PropConfig, "NO-FWD PORT-DOWN"),
			want: types.PortValue{
				PortNumber:  1,
				ConnectorID: "openflow:2:1",
				AdminStatus: types.AdminDown,
				OperStatus:  types.OperUp,
				Speed:       10000000,
				Cost:        10,
			},
		},
		{
			desc: "several config bits without port down",
			rec:  withProps(good, types.PropConfig, "NO-RECV  NO-FWD"),
			want: types.PortValue{
				PortNumber:  1,
				ConnectorID: "openflow:2:1",
				AdminStatus: types.AdminUp,
				OperStatus:  types.OperUp,
				Speed:       10000000,
				Cost:        10,
			},
		},
		{
			desc:     "local port is skipped",
			rec:      types.PortRecord(sw, "LOCAL", "br0"),
			wantSkip: true,
		},
		{
			desc:       "missing id",
			rec:        types.RawRecord{ParentID: sw, Properties: good.Properties},
			wantReason: types.ReasonMissingID,
		},
		{
			desc:       "id without port",
			rec:        types.RawRecord{ID: "eth1", Properties: good.Properties},
			wantReason: types.ReasonMalformedID,
		},
		{
			desc:       "port of another switch",
			rec:        types.PortRecord("openflow:3", "1", "s3-eth1"),
			wantReason: types.ReasonScopeMismatch,
		},
		{
			desc:       "non-numeric port",
			rec:        types.PortRecord(sw, "eth1", "s2-eth1"),
			wantReason: types.ReasonMalformedID,
		},
		{
			desc:       "port zero",
			rec:        types.PortRecord(sw, "0", "s2-eth0"),
			wantReason: types.ReasonOutOfRange,
		},
		{
			desc:       "port-number disagrees with id",
			rec:        withProps(good, types.PropPortNumber, "2"),
			wantReason: types.ReasonInvalidField,
		},
		{
			desc:       "missing name",
			rec:        withoutProps(good, types.PropName),
			wantReason: types.ReasonMissingField,
		},
		{
			desc:       "bad configuration",
			rec:        withProps(good, types.PropConfig, "MAYBE"),
			wantReason: types.ReasonInvalidEnum,
		},
		{
			desc:       "unknown bit among known config bits",
			rec:        withProps(good, types.PropConfig, "PORT-DOWN NO-STP"),
			wantReason: types.ReasonInvalidEnum,
		},
		{
			desc:       "non-boolean state",
			rec:        withProps(good, types.PropBlocked, "yes"),
			wantReason: types.ReasonInvalidField,
		},
		{
			desc:       "negative speed",
			rec:        withProps(good, types.PropCurrentSpeed, "-1"),
			wantReason: types.ReasonInvalidField,
		},
		{
			desc:       "non-numeric speed",
			rec:        withProps(good, types.PropCurrentSpeed, "10G"),
			wantReason: types.ReasonInvalidField,
		},
		{
			desc:       "cost zero",
			rec:        withProps(good, types.PropCost, "0"),
			wantReason: types.ReasonOutOfRange,
		},
		{
			desc:       "cost too large",
			rec:        withProps(good, types.PropCost, "65536"),
			wantReason: types.ReasonOutOfRange,
		},
	} {
		k, v, err := decodePort(sw, tc.rec)
		if tc.wantSkip {
			if !errors.Is(err, errSkipped) {
				t.Errorf("%s: decodePort() = %v, want errSkipped", tc.desc, err)
			}
			continue
		}
		if got := reasonOf(err); got != tc.wantReason {
			t.Errorf("%s: decodePort() reason = %q, want %q (err = %v)", tc.desc, got, tc.wantReason, err)
			continue
		}
		if err != nil {
			continue
		}
		if want := (types.PortKey{SwitchID: sw, PortName: "s2-eth1"}); k != want {
			t.Errorf("%s: decodePort() key = %v, want %v", tc.desc, k, want)
		}
		if diff := cmp.Diff(tc.want, v); diff != "" {
			t.Errorf("%s: decodePort() value mismatch (-want +got):\n%s", tc.desc, diff)
		}
	}
}

func TestDefaultPortCost(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		speed uint64
		want  uint32
	}{
		{0, MaxPortCost},
		{1, MaxPortCost},
		{10000, 10000},                        // 10Mbps
		{1000000, 100},                        // 1Gbps
		{100000000, 1},                        // 100Gbps
		{400000000, MinPortCost},              // 400Gbps
		{referenceSpeed / 3, 3},               // truncated
		{referenceSpeed / 65536, MaxPortCost}, // clamped
	} {
		if got := DefaultPortCost(tc.speed); got != tc.want {
			t.Errorf("DefaultPortCost(%d) = %d, want %d", tc.speed, got, tc.want)
		}
	}
}
