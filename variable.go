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

import "github.com/spf13/cast"

// Variable is a named entry in a model's symbol table: a species, a
// constant or parameterized coefficient, a named expression term, or a
// reserved built-in. Equality between variables is structural, comparing the
// concrete kind, the name, and the defining fields, so that a deserialized
// model compares equal to its original.
type Variable interface {
	// VarName returns the name (symbol) of the variable.
	VarName() string
	// VarType returns the kind of variable.
	VarType() VariableType
	// VarNote returns the variable's annotation, if any.
	VarNote() string
	// Dict returns a plain-data representation sufficient to reconstruct
	// the variable.
	Dict() Dict
	// Equal reports structural equality with another variable.
	Equal(other Variable) bool
}

func checkVariableName(name string) error {
	if name == "" {
		return argErrorf("a variable name cannot be empty")
	}
	if IsReservedName(name) {
		return InvalidNameError{Name: name}
	}
	return nil
}

// Species is a chemical or biological quantity tracked through the network,
// either suspended in the bulk flow or attached to pipe walls. A species may
// carry its own solver tolerance pair; when unset, the global tolerances
// from the model options apply.
type Species struct {
	Name        string
	Type        SpeciesType
	Units       string
	Diffusivity float64
	Note        string

	// atol and rtol are set and cleared together.
	atol, rtol *float64

	model *Model
}

// NewSpecies creates a species of the given type (a SpeciesType, an
// integer, or a string such as "bulk", "WALL", or "w"). The name must not be
// a reserved word.
func NewSpecies(speciesType interface{}, name, units string) (*Species, error) {
	st, err := GetSpeciesType(speciesType)
	if err != nil {
		return nil, err
	}
	if err := checkVariableName(name); err != nil {
		return nil, err
	}
	return &Species{Name: name, Type: st, Units: units}, nil
}

// VarName implements Variable.
func (s *Species) VarName() string { return s.Name }

// VarType implements Variable.
func (s *Species) VarType() VariableType { return SpeciesVar }

// VarNote implements Variable.
func (s *Species) VarNote() string { return s.Note }

// IsBulk reports whether this is a bulk species.
func (s *Species) IsBulk() bool { return s.Type == Bulk }

// IsWall reports whether this is a wall species.
func (s *Species) IsWall() bool { return s.Type == Wall }

// GetTolerances returns the species-specific solver tolerances. ok is false
// when the species uses the global values.
func (s *Species) GetTolerances() (atol, rtol float64, ok bool) {
	if s.atol == nil || s.rtol == nil {
		return 0, 0, false
	}
	return *s.atol, *s.rtol, true
}

// SetTolerances sets the species-specific solver tolerances. Passing nil
// for both clears them; passing nil for only one fails with ArgumentError,
// as does a tolerance that is not greater than zero.
func (s *Species) SetTolerances(absolute, relative *float64) error {
	if absolute == nil && relative == nil {
		s.atol, s.rtol = nil, nil
		return nil
	}
	if absolute == nil || relative == nil {
		return argErrorf("atol and rtol must be set together, got %v and %v", fmtFloatPtr(absolute), fmtFloatPtr(relative))
	}
	if *absolute <= 0 {
		return argErrorf("absolute tolerance must be greater than 0, got %v", *absolute)
	}
	if *relative <= 0 {
		return argErrorf("relative tolerance must be greater than 0, got %v", *relative)
	}
	a, r := *absolute, *relative
	s.atol, s.rtol = &a, &r
	return nil
}

// ClearTolerances resets both tolerances so the global values apply.
func (s *Species) ClearTolerances() { s.atol, s.rtol = nil, nil }

// Dict implements Variable.
func (s *Species) Dict() Dict {
	d := Dict{
		"name":         s.Name,
		"species_type": lowerName(s.Type),
		"units":        s.Units,
	}
	if atol, rtol, ok := s.GetTolerances(); ok {
		d["atol"] = atol
		d["rtol"] = rtol
	}
	if s.Diffusivity != 0 {
		d["diffusivity"] = s.Diffusivity
	}
	if s.Note != "" {
		d["note"] = s.Note
	}
	return d
}

// Equal implements Variable.
func (s *Species) Equal(other Variable) bool {
	o, ok := other.(*Species)
	if !ok {
		return false
	}
	if s.Name != o.Name || s.Type != o.Type || s.Units != o.Units || s.Diffusivity != o.Diffusivity {
		return false
	}
	sa, sr, sok := s.GetTolerances()
	oa, or, ook := o.GetTolerances()
	return sok == ook && sa == oa && sr == or
}

func fmtFloatPtr(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// Constant is a single global numeric coefficient for use in reaction
// expressions. Its identity is immutable; the value may be changed in
// place.
type Constant struct {
	Name        string
	GlobalValue float64
	Units       string
	Note        string

	model *Model
}

// NewConstant creates a constant coefficient. The name must not be a
// reserved word.
func NewConstant(name string, globalValue float64) (*Constant, error) {
	if err := checkVariableName(name); err != nil {
		return nil, err
	}
	return &Constant{Name: name, GlobalValue: globalValue}, nil
}

// VarName implements Variable.
func (c *Constant) VarName() string { return c.Name }

// VarType implements Variable.
func (c *Constant) VarType() VariableType { return ConstantVar }

// VarNote implements Variable.
func (c *Constant) VarNote() string { return c.Note }

// GetValue returns the global value.
func (c *Constant) GetValue() float64 { return c.GlobalValue }

// Dict implements Variable.
func (c *Constant) Dict() Dict {
	d := Dict{
		"name":         c.Name,
		"global_value": c.GlobalValue,
		"units":        c.Units,
	}
	if c.Note != "" {
		d["note"] = c.Note
	}
	return d
}

// Equal implements Variable.
func (c *Constant) Equal(other Variable) bool {
	o, ok := other.(*Constant)
	if !ok {
		return false
	}
	return c.Name == o.Name && c.GlobalValue == o.GlobalValue && c.Units == o.Units
}

// Parameter is a coefficient with a global default value and optional
// overrides for specific pipes or tanks.
type Parameter struct {
	Name        string
	GlobalValue float64
	Units       string
	Note        string
	PipeValues  map[string]float64
	TankValues  map[string]float64

	model *Model
}

// NewParameter creates a parameterized coefficient with empty override
// maps. The name must not be a reserved word.
func NewParameter(name string, globalValue float64) (*Parameter, error) {
	if err := checkVariableName(name); err != nil {
		return nil, err
	}
	return &Parameter{
		Name:        name,
		GlobalValue: globalValue,
		PipeValues:  make(map[string]float64),
		TankValues:  make(map[string]float64),
	}, nil
}

// VarName implements Variable.
func (p *Parameter) VarName() string { return p.Name }

// VarType implements Variable.
func (p *Parameter) VarType() VariableType { return ParameterVar }

// VarNote implements Variable.
func (p *Parameter) VarNote() string { return p.Note }

// GetValue returns the parameter's value for the named pipe or tank, or the
// global value when no override exists or neither is named. Naming both a
// pipe and a tank fails with ArgumentError.
func (p *Parameter) GetValue(pipe, tank string) (float64, error) {
	if pipe != "" && tank != "" {
		return 0, argErrorf("cannot get a value for a pipe and a tank at the same time")
	}
	if pipe != "" {
		if v, ok := p.PipeValues[pipe]; ok {
			return v, nil
		}
		return p.GlobalValue, nil
	}
	if tank != "" {
		if v, ok := p.TankValues[tank]; ok {
			return v, nil
		}
		return p.GlobalValue, nil
	}
	return p.GlobalValue, nil
}

// Dict implements Variable.
func (p *Parameter) Dict() Dict {
	d := Dict{
		"name":         p.Name,
		"global_value": p.GlobalValue,
		"units":        p.Units,
	}
	if p.Note != "" {
		d["note"] = p.Note
	}
	pipes := make(map[string]float64, len(p.PipeValues))
	for k, v := range p.PipeValues {
		pipes[k] = v
	}
	tanks := make(map[string]float64, len(p.TankValues))
	for k, v := range p.TankValues {
		tanks[k] = v
	}
	d["pipe_values"] = pipes
	d["tank_values"] = tanks
	return d
}

// Equal implements Variable.
func (p *Parameter) Equal(other Variable) bool {
	o, ok := other.(*Parameter)
	if !ok {
		return false
	}
	if p.Name != o.Name || p.GlobalValue != o.GlobalValue || p.Units != o.Units {
		return false
	}
	return floatMapsEqual(p.PipeValues, o.PipeValues) && floatMapsEqual(p.TankValues, o.TankValues)
}

func floatMapsEqual(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// Term is a named sub-expression. EPANET-MSX calls these TERMS; they are
// shorthand aliases expanded into the reaction expressions that reference
// them, keeping single-line expressions readable.
type Term struct {
	Name       string
	Expression string
	Note       string

	model *Model
}

// NewTerm creates a named expression term. The name must not be a reserved
// word.
func NewTerm(name, expression string) (*Term, error) {
	if err := checkVariableName(name); err != nil {
		return nil, err
	}
	return &Term{Name: name, Expression: expression}, nil
}

// VarName implements Variable.
func (t *Term) VarName() string { return t.Name }

// VarType implements Variable.
func (t *Term) VarType() VariableType { return TermVar }

// VarNote implements Variable.
func (t *Term) VarNote() string { return t.Note }

// Dict implements Variable.
func (t *Term) Dict() Dict {
	d := Dict{
		"name":       t.Name,
		"expression": t.Expression,
	}
	if t.Note != "" {
		d["note"] = t.Note
	}
	return d
}

// Equal implements Variable.
func (t *Term) Equal(other Variable) bool {
	o, ok := other.(*Term)
	if !ok {
		return false
	}
	return t.Name == o.Name && t.Expression == o.Expression
}

// InternalVariable is a hydraulic variable or a placeholder for a built-in
// reserved word. These are seeded when a model is created and are never
// created by users.
type InternalVariable struct {
	Name  string
	Units string
	Note  string
}

// NewInternalVariable creates an internal variable entry. Unlike user
// variables, internal names are allowed to be reserved words; that is their
// purpose.
func NewInternalVariable(name, units, note string) *InternalVariable {
	if note == "" {
		note = "internal variable - not output to MSX"
	}
	return &InternalVariable{Name: name, Units: units, Note: note}
}

// VarName implements Variable.
func (v *InternalVariable) VarName() string { return v.Name }

// VarType implements Variable.
func (v *InternalVariable) VarType() VariableType { return ReservedVar }

// VarNote implements Variable.
func (v *InternalVariable) VarNote() string { return v.Note }

// Dict implements Variable.
func (v *InternalVariable) Dict() Dict {
	d := Dict{"name": v.Name, "units": v.Units}
	if v.Note != "" {
		d["note"] = v.Note
	}
	return d
}

// Equal implements Variable.
func (v *InternalVariable) Equal(other Variable) bool {
	o, ok := other.(*InternalVariable)
	if !ok {
		return false
	}
	return v.Name == o.Name
}

// coerceFloat converts loosely typed numeric input (JSON float64, TOML
// int64, numeric strings) to a float64.
func coerceFloat(value interface{}) (float64, error) {
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, argErrorf("expected a number, got %v (%T)", value, value)
	}
	return f, nil
}
