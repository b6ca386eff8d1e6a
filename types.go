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

import (
	"strings"

	"github.com/watermodel/msx/internal/enumtool"
)

// VariableType identifies the kind of a model variable. The numeric values
// match the EPANET-MSX toolkit object codes.
type VariableType int

const (
	// SpeciesVar is a chemical or biological water quality species.
	SpeciesVar VariableType = 3
	// TermVar is a named expression usable inside other expressions.
	TermVar VariableType = 4
	// ParameterVar is a coefficient parameterized by pipe or tank.
	ParameterVar VariableType = 5
	// ConstantVar is a single global coefficient.
	ConstantVar VariableType = 6
	// ReservedVar is a hydraulic variable or other built-in reserved word.
	ReservedVar VariableType = 9
)

var variableTypeNames = map[string]VariableType{
	"SPECIES": SpeciesVar, "SPEC": SpeciesVar, "S": SpeciesVar,
	"TERM": TermVar, "T": TermVar,
	"PARAMETER": ParameterVar, "PARAM": ParameterVar, "P": ParameterVar,
	"CONSTANT": ConstantVar, "CONST": ConstantVar, "C": ConstantVar,
	"RESERVED": ReservedVar, "RES": ReservedVar, "R": ReservedVar,
}

func (t VariableType) String() string {
	switch t {
	case SpeciesVar:
		return "SPECIES"
	case TermVar:
		return "TERM"
	case ParameterVar:
		return "PARAMETER"
	case ConstantVar:
		return "CONSTANT"
	case ReservedVar:
		return "RESERVED"
	}
	return "INVALID"
}

// GetVariableType resolves a VariableType from a member, integer code, or
// string name ("species", "CONST", "p", ...).
func GetVariableType(value interface{}) (VariableType, error) {
	t, err := enumtool.Resolve(variableTypeNames, value, "", true)
	if err != nil {
		return 0, argErrorf("invalid variable type: %v", err)
	}
	return t, nil
}

// SpeciesType distinguishes species suspended in the bulk flow from species
// attached to pipe walls.
type SpeciesType int

const (
	// Bulk species are carried in the water column.
	Bulk SpeciesType = 1
	// Wall species are attached to pipe walls.
	Wall SpeciesType = 2
)

var speciesTypeNames = map[string]SpeciesType{
	"BULK": Bulk, "B": Bulk,
	"WALL": Wall, "W": Wall,
}

func (t SpeciesType) String() string {
	switch t {
	case Bulk:
		return "BULK"
	case Wall:
		return "WALL"
	}
	return "INVALID"
}

// GetSpeciesType resolves a SpeciesType from a member, integer, or string.
func GetSpeciesType(value interface{}) (SpeciesType, error) {
	t, err := enumtool.Resolve(speciesTypeNames, value, "", true)
	if err != nil {
		return 0, argErrorf("invalid species type: %v", err)
	}
	return t, nil
}

// LocationType identifies where a reaction occurs.
type LocationType int

const (
	// Pipe reactions occur inside network pipes.
	Pipe LocationType = 1
	// Tank reactions occur inside storage tanks.
	Tank LocationType = 2
)

var locationTypeNames = map[string]LocationType{
	"PIPE": Pipe, "P": Pipe,
	"TANK": Tank, "T": Tank,
}

func (t LocationType) String() string {
	switch t {
	case Pipe:
		return "PIPE"
	case Tank:
		return "TANK"
	}
	return "INVALID"
}

// GetLocationType resolves a LocationType from a member, integer, or string.
func GetLocationType(value interface{}) (LocationType, error) {
	t, err := enumtool.Resolve(locationTypeNames, value, "", true)
	if err != nil {
		return 0, argErrorf("invalid location type: %v", err)
	}
	return t, nil
}

// DynamicsType identifies how a reaction expression is interpreted: as an
// equilibrium equated to zero, as a rate of change over time, or as a direct
// formula for the species concentration.
type DynamicsType int

const (
	// Equil expressions are equated to zero and solved.
	Equil DynamicsType = 1
	// Rate expressions give d/dt of the species concentration.
	Rate DynamicsType = 2
	// Formula expressions give the concentration directly.
	Formula DynamicsType = 3
)

var dynamicsTypeNames = map[string]DynamicsType{
	"EQUIL": Equil, "E": Equil,
	"RATE": Rate, "R": Rate,
	"FORMULA": Formula, "F": Formula,
}

func (t DynamicsType) String() string {
	switch t {
	case Equil:
		return "EQUIL"
	case Rate:
		return "RATE"
	case Formula:
		return "FORMULA"
	}
	return "INVALID"
}

// GetDynamicsType resolves a DynamicsType from a member, integer, or string.
func GetDynamicsType(value interface{}) (DynamicsType, error) {
	t, err := enumtool.Resolve(dynamicsTypeNames, value, "", true)
	if err != nil {
		return 0, argErrorf("invalid dynamics type: %v", err)
	}
	return t, nil
}

// lowerName is the serialized form of an enum member name.
func lowerName(s interface{ String() string }) string {
	return strings.ToLower(s.String())
}
