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

// Package meta contains a concise description of the resource kinds held by
// the topology cache. This is a separate package so that callers can reason
// about kinds and their scoping without importing the cache itself.
//
// AllKinds is the master list of kinds and their attributes.
package meta

// Kind discriminates the type of a cache entry.
type Kind string

const (
	// KindInvalid is the zero value and never stored.
	KindInvalid Kind = ""
	// KindSwitch is a physical or logical OpenFlow switch.
	KindSwitch Kind = "switch"
	// KindPort is a node connector on a switch.
	KindPort Kind = "port"
)

// CamelCase returns the go-legal CamelCase representation of the kind.
func (k Kind) CamelCase() string {
	switch k {
	case KindSwitch:
		return "Switch"
	case KindPort:
		return "Port"
	}
	return "Invalid"
}

// KindInfo is the metadata concerning a resource kind.
type KindInfo struct {
	Kind Kind
	// Parent is the kind whose entries scope entries of this kind. It is
	// KindInvalid for top-level kinds.
	Parent Kind
}

// TopLevel is true if entries of this kind are not scoped under a parent.
func (ki *KindInfo) TopLevel() bool {
	return ki.Parent == KindInvalid
}

// AllKinds defines the resource kinds supported by the cache, parents before
// children.
var AllKinds = []*KindInfo{
	{
		Kind: KindSwitch,
	},
	{
		Kind:   KindPort,
		Parent: KindSwitch,
	},
}

// AllKindsMap is a map of AllKinds indexed by Kind.
var AllKindsMap = map[Kind]*KindInfo{}

// Valid is true if k is one of AllKinds.
func (k Kind) Valid() bool {
	_, ok := AllKindsMap[k]
	return ok
}

// Children returns the kinds scoped directly under k.
func Children(k Kind) []Kind {
	var ret []Kind
	for _, ki := range AllKinds {
		if ki.Parent == k && k != KindInvalid {
			ret = append(ret, ki.Kind)
		}
	}
	return ret
}

func init() {
	for _, ki := range AllKinds {
		AllKindsMap[ki.Kind] = ki
	}
}
