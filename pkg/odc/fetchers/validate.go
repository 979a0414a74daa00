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
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
	netutils "k8s.io/utils/net"

	"github.com/opendaylight/vtn-sub002/pkg/odc/types"
)

const (
	openflowPrefix = "openflow:"
	localPort      = "LOCAL"
	portDownFlag   = "PORT-DOWN"

	// referenceSpeed is the link speed, in kbps, that has cost 1.
	referenceSpeed = 100 * 1000 * 1000
	MinPortCost    = 1
	MaxPortCost    = 65535
)

var (
	// errSkipped marks records that are valid but not cached.
	errSkipped = errors.New("record skipped")

	// portConfigFlags are the OpenFlow port config bits, reported space
	// separated in the configuration property.
	portConfigFlags = sets.New(portDownFlag, "NO-RECV", "NO-FWD", "NO-PACKET-IN")

	operStatuses = map[string]types.OperStatus{
		"up":      types.OperUp,
		"down":    types.OperDown,
		"unknown": types.OperUnknown,
	}
)

// DefaultPortCost derives a port cost from its speed in kbps, inversely
// proportional to a 100Gbps reference.
func DefaultPortCost(speed uint64) uint32 {
	if speed == 0 {
		return MaxPortCost
	}
	cost := uint64(referenceSpeed) / speed
	switch {
	case cost < MinPortCost:
		return MinPortCost
	case cost > MaxPortCost:
		return MaxPortCost
	}
	return uint32(cost)
}

// parseSwitchID checks that id is an OpenFlow node id, openflow:<dpid>.
func parseSwitchID(id string) (uint64, error) {
	if id == "" {
		return 0, types.RecordError(types.ReasonMissingID, "switch has no id")
	}
	dpid, ok := strings.CutPrefix(id, openflowPrefix)
	if !ok {
		return 0, types.RecordError(types.ReasonMalformedID, "switch id %q is not an openflow node id", id)
	}
	n, err := strconv.ParseUint(dpid, 10, 64)
	if err != nil {
		return 0, types.RecordError(types.ReasonMalformedID, "switch id %q has an invalid datapath id: %v", id, err)
	}
	return n, nil
}

func decodeSwitch(r types.RawRecord) (types.SwitchKey, types.SwitchValue, error) {
	if _, err := parseSwitchID(r.ID); err != nil {
		return types.SwitchKey{}, types.SwitchValue{}, err
	}
	v := types.SwitchValue{
		Description:  r.Properties[types.PropDescription],
		Manufacturer: r.Properties[types.PropManufacturer],
		Hardware:     r.Properties[types.PropHardware],
		Software:     r.Properties[types.PropSoftware],
		OperStatus:   types.OperUnknown,
	}
	if ip, ok := r.Get(types.PropIPAddress); ok && ip != "" {
		parsed := netutils.ParseIPSloppy(ip)
		if parsed == nil {
			return types.SwitchKey{}, types.SwitchValue{}, types.RecordError(types.ReasonInvalidField, "switch %s has an invalid ip-address %q", r.ID, ip)
		}
		v.IPAddress = parsed.String()
	}
	if s, ok := r.Get(types.PropOperStatus); ok {
		status, ok := operStatuses[strings.ToLower(s)]
		if !ok {
			return types.SwitchKey{}, types.SwitchValue{}, types.RecordError(types.ReasonInvalidEnum, "switch %s has an invalid oper-status %q", r.ID, s)
		}
		v.OperStatus = status
	}
	return types.SwitchKey{SwitchID: r.ID}, v, nil
}

// parsePortConfig returns AdminDown if the PORT-DOWN bit is among the
// config bits, AdminUp otherwise. ok is false if any bit is unknown.
func parsePortConfig(config string) (types.AdminStatus, bool) {
	admin := types.AdminUp
	for _, flag := range strings.Fields(config) {
		if !portConfigFlags.Has(flag) {
			return types.AdminUnknown, false
		}
		if flag == portDownFlag {
			admin = types.AdminDown
		}
	}
	return admin, true
}

// decodePort validates a node connector of switchID. LOCAL connectors
// return errSkipped.
func decodePort(switchID string, r types.RawRecord) (types.PortKey, types.PortValue, error) {
	var (
		k types.PortKey
		v types.PortValue
	)
	if r.ID == "" {
		return k, v, types.RecordError(types.ReasonMissingID, "port of %s has no id", switchID)
	}
	i := strings.LastIndex(r.ID, ":")
	if i < 0 {
		return k, v, types.RecordError(types.ReasonMalformedID, "port id %q is not a node connector id", r.ID)
	}
	swPart, portPart := r.ID[:i], r.ID[i+1:]
	if _, err := parseSwitchID(swPart); err != nil {
		return k, v, types.RecordError(types.ReasonMalformedID, "port id %q does not name a switch", r.ID)
	}
	if swPart != switchID || (r.ParentID != "" && r.ParentID != switchID) {
		return k, v, types.RecordError(types.ReasonScopeMismatch, "port %q does not belong to %s", r.ID, switchID)
	}
	if portPart == localPort {
		return k, v, errSkipped
	}
	num, err := strconv.ParseUint(portPart, 10, 32)
	if err != nil {
		return k, v, types.RecordError(types.ReasonMalformedID, "port id %q has an invalid port number: %v", r.ID, err)
	}
	if num == 0 {
		return k, v, types.RecordError(types.ReasonOutOfRange, "port id %q has port number 0", r.ID)
	}
	if pn, ok := r.Get(types.PropPortNumber); ok && pn != portPart {
		return k, v, types.RecordError(types.ReasonInvalidField, "port %q reports port-number %q", r.ID, pn)
	}

	name := r.Properties[types.PropName]
	if name == "" {
		return k, v, types.RecordError(types.ReasonMissingField, "port %q has no name", r.ID)
	}
	k = types.PortKey{SwitchID: switchID, PortName: name}
	v = types.PortValue{
		PortNumber:  uint32(num),
		ConnectorID: r.ID,
		AdminStatus: types.AdminUnknown,
		OperStatus:  types.OperUnknown,
	}

	if config, ok := r.Get(types.PropConfig); ok {
		admin, ok := parsePortConfig(config)
		if !ok {
			return k, v, types.RecordError(types.ReasonInvalidEnum, "port %q has an invalid configuration %q", r.ID, config)
		}
		v.AdminStatus = admin
	}

	var known, down bool
	for _, prop := range []string{types.PropLinkDown, types.PropBlocked, types.PropLive} {
		s, ok := r.Get(prop)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return k, v, types.RecordError(types.ReasonInvalidField, "port %q has a non-boolean %s %q", r.ID, prop, s)
		}
		if prop == types.PropLive {
			continue
		}
		known = true
		down = down || b
	}
	switch {
	case down:
		v.OperStatus = types.OperDown
	case known:
		v.OperStatus = types.OperUp
	}

	if s, ok := r.Get(types.PropCurrentSpeed); ok && s != "" {
		speed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return k, v, types.RecordError(types.ReasonInvalidField, "port %q has an invalid current-speed %q", r.ID, s)
		}
		v.Speed = speed
	}

	v.Cost = DefaultPortCost(v.Speed)
	if s, ok := r.Get(types.PropCost); ok && s != "" {
		cost, err := strconv.ParseUint(s, 10, 32)
		if err != nil || cost < MinPortCost || cost > MaxPortCost {
			return k, v, types.RecordError(types.ReasonOutOfRange, "port %q has cost %q outside [%d, %d]", r.ID, s, MinPortCost, MaxPortCost)
		}
		v.Cost = uint32(cost)
	}
	return k, v, nil
}
