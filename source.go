/*
Copyright © the msx authors.
This file is part of msx.

msx is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

msx is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with msx.  If not, see <http://www.gnu.org/licenses/>.
*/

package msx

import "github.com/watermodel/msx/internal/enumtool"

// SourceType identifies how a quality source injects a species at a node.
type SourceType int

const (
	// NoSource marks an inactive source.
	NoSource SourceType = -1
	// Concen sets the concentration of external inflow.
	Concen SourceType = 0
	// Mass adds a fixed mass inflow rate.
	Mass SourceType = 1
	// Setpoint fixes the concentration leaving the node.
	Setpoint SourceType = 2
	// FlowPaced adds a fixed concentration to the outflow.
	FlowPaced SourceType = 3
)

var sourceTypeNames = map[string]SourceType{
	"NOSOURCE":  NoSource,
	"CONCEN":    Concen,
	"MASS":      Mass,
	"SETPOINT":  Setpoint,
	"FLOWPACED": FlowPaced,
}

func (t SourceType) String() string {
	switch t {
	case Concen:
		return "CONCEN"
	case Mass:
		return "MASS"
	case Setpoint:
		return "SETPOINT"
	case FlowPaced:
		return "FLOWPACED"
	}
	return "NOSOURCE"
}

// GetSourceType resolves a SourceType from a member, integer, or string.
func GetSourceType(value interface{}) (SourceType, error) {
	t, err := enumtool.Resolve(sourceTypeNames, value, "MSX_", false)
	if err != nil {
		return 0, argErrorf("invalid source type: %v", err)
	}
	return t, nil
}

// Source injects a species into the network at a node. Sources are stored
// per species and purged when the species is removed.
type Source struct {
	// Node names the injection node.
	Node string
	// Type gives the injection mode.
	Type SourceType
	// Strength is the injection strength in the units implied by Type.
	Strength float64
	// Pattern names an optional time pattern scaling the strength.
	Pattern string
	// Note is an optional annotation.
	Note string
}

// Dict returns the source as plain data.
func (s *Source) Dict() Dict {
	d := Dict{
		"node":     s.Node,
		"type":     lowerName(s.Type),
		"strength": s.Strength,
	}
	if s.Pattern != "" {
		d["pattern"] = s.Pattern
	}
	if s.Note != "" {
		d["note"] = s.Note
	}
	return d
}

// Equal reports structural equality of two sources.
func (s *Source) Equal(other *Source) bool {
	return s.Node == other.Node && s.Type == other.Type &&
		s.Strength == other.Strength && s.Pattern == other.Pattern
}

// InitialQuality holds the starting concentration values for one species:
// an optional global value and per-node and per-link overrides. An entry is
// created when a species is added and purged when it is removed.
type InitialQuality struct {
	// Global sets the starting concentration everywhere no override
	// applies; nil leaves the network at zero.
	Global *float64
	// Nodes overrides the starting concentration at named nodes.
	Nodes map[string]float64
	// Links overrides the starting concentration in named links.
	Links map[string]float64
}

// NewInitialQuality returns an empty initial quality record.
func NewInitialQuality() *InitialQuality {
	return &InitialQuality{
		Nodes: make(map[string]float64),
		Links: make(map[string]float64),
	}
}

// Dict returns the initial quality as plain data.
func (q *InitialQuality) Dict() Dict {
	d := Dict{}
	if q.Global != nil {
		d["global"] = *q.Global
	}
	nodes := make(map[string]float64, len(q.Nodes))
	for k, v := range q.Nodes {
		nodes[k] = v
	}
	links := make(map[string]float64, len(q.Links))
	for k, v := range q.Links {
		links[k] = v
	}
	d["nodes"] = nodes
	d["links"] = links
	return d
}

// Equal reports structural equality of two initial quality records.
func (q *InitialQuality) Equal(other *InitialQuality) bool {
	if (q.Global == nil) != (other.Global == nil) {
		return false
	}
	if q.Global != nil && *q.Global != *other.Global {
		return false
	}
	return floatMapsEqual(q.Nodes, other.Nodes) && floatMapsEqual(q.Links, other.Links)
}
