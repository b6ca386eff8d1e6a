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
	"fmt"
	"sort"
	"strings"
)

// Model is a multispecies water quality reaction model. It owns every
// variable and reaction; variables keep only a non-owning back reference to
// the model for validation. A model is built by one goroutine and then
// treated as read-only by the solver; it provides no internal locking.
type Model struct {
	// Name is a short identifier for the model, with no spaces.
	Name string
	// Title is a one-line title.
	Title string
	// Description is a longer free-form description.
	Description string
	// References cites the sources of the model's dynamics.
	References []string
	// Options configures the external solver.
	Options SolverOptions

	vars       *DisjointMapping
	species    *VariableGroup
	constants  *VariableGroup
	parameters *VariableGroup
	terms      *VariableGroup

	pipeRxns  map[string]Reaction
	pipeOrder []string
	tankRxns  map[string]Reaction
	tankOrder []string

	initialQuality map[string]*InitialQuality
	sources        map[string]map[string]*Source

	engine      Engine
	compiled    map[string]Compiled
	compiledGen uint64
}

// New creates an empty model with default options and the built-in
// hydraulic variables and function names pre-registered as internal
// variables.
func New() *Model {
	m := &Model{
		Options:        DefaultSolverOptions(),
		vars:           NewDisjointMapping(),
		pipeRxns:       make(map[string]Reaction),
		tankRxns:       make(map[string]Reaction),
		initialQuality: make(map[string]*InitialQuality),
		sources:        make(map[string]map[string]*Source),
		engine:         DefaultEngine(),
		compiled:       make(map[string]Compiled),
	}
	m.species = m.vars.AddGroup("species")
	m.constants = m.vars.AddGroup("constants")
	m.parameters = m.vars.AddGroup("parameters")
	m.terms = m.vars.AddGroup("terms")
	for _, hv := range HydraulicVariables {
		if err := m.vars.Add(hv.Name, NewInternalVariable(hv.Name, "", hv.Note)); err != nil {
			panic(fmt.Errorf("msx: seeding built-in variables: %v", err))
		}
	}
	names := make([]string, 0, len(exprFunctions))
	for name := range exprFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, form := range caseForms(name) {
			if err := m.vars.Add(form, NewInternalVariable(form, "", "MSX function")); err != nil {
				panic(fmt.Errorf("msx: seeding built-in variables: %v", err))
			}
		}
	}
	return m
}

// SetEngine replaces the expression engine used for compilation and drops
// any cached compiled expressions.
func (m *Model) SetEngine(e Engine) {
	m.engine = e
	m.compiled = make(map[string]Compiled)
}

// HasVariable reports whether a variable by this name exists, including the
// built-in internal variables.
func (m *Model) HasVariable(name string) bool {
	return m.vars.Has(name)
}

// GetVariable returns the variable registered under name. A missing name
// fails with UnknownReferenceError; compare GetReaction, which returns nil
// for a missing reaction.
func (m *Model) GetVariable(name string) (Variable, error) {
	v, ok := m.vars.Get(name)
	if !ok {
		return nil, UnknownReferenceError{Name: name}
	}
	return v, nil
}

// Variables returns the model's user-defined variables in group order:
// species, then constants, then parameters, then terms, each in insertion
// order. Passing a nonzero VariableType restricts the result to that kind;
// ReservedVar selects the built-in internal variables.
func (m *Model) Variables(varType VariableType) []Variable {
	switch varType {
	case 0:
		out := m.species.Variables()
		out = append(out, m.constants.Variables()...)
		out = append(out, m.parameters.Variables()...)
		out = append(out, m.terms.Variables()...)
		return out
	case SpeciesVar:
		return m.species.Variables()
	case ConstantVar:
		return m.constants.Variables()
	case ParameterVar:
		return m.parameters.Variables()
	case TermVar:
		return m.terms.Variables()
	case ReservedVar:
		var out []Variable
		for _, v := range m.vars.Variables() {
			if v.VarType() == ReservedVar {
				out = append(out, v)
			}
		}
		return out
	}
	return nil
}

// SpeciesNames returns the names of all defined species in insertion
// order.
func (m *Model) SpeciesNames() []string { return m.species.Names() }

// ConstantNames returns the names of all defined constants in insertion
// order.
func (m *Model) ConstantNames() []string { return m.constants.Names() }

// ParameterNames returns the names of all defined parameters in insertion
// order.
func (m *Model) ParameterNames() []string { return m.parameters.Names() }

// TermNames returns the names of all defined terms in insertion order.
func (m *Model) TermNames() []string { return m.terms.Names() }

// AddVariable registers an existing, unattached variable object with the
// model, placing it in the group matching its kind.
func (m *Model) AddVariable(v Variable) error {
	name := v.VarName()
	if m.vars.Has(name) {
		return KeyExistsError{Name: name}
	}
	switch v := v.(type) {
	case *Species:
		v.model = m
		if err := m.species.Add(name, v); err != nil {
			return err
		}
		m.initialQuality[name] = NewInitialQuality()
		m.sources[name] = make(map[string]*Source)
	case *Constant:
		v.model = m
		if err := m.constants.Add(name, v); err != nil {
			return err
		}
	case *Parameter:
		v.model = m
		if err := m.parameters.Add(name, v); err != nil {
			return err
		}
	case *Term:
		v.model = m
		if err := m.terms.Add(name, v); err != nil {
			return err
		}
	case *InternalVariable:
		if err := m.vars.Add(name, v); err != nil {
			return err
		}
	default:
		return argErrorf("cannot add a variable of unknown kind %T", v)
	}
	return nil
}

// AddSpecies creates a species and registers it. speciesType may be a
// SpeciesType, an integer, or a string such as "bulk" or "w". The atol and
// rtol tolerances must be given together or not at all.
func (m *Model) AddSpecies(speciesType interface{}, name, units string, atol, rtol *float64, note string) (*Species, error) {
	s, err := NewSpecies(speciesType, name, units)
	if err != nil {
		return nil, err
	}
	s.Note = note
	if err := s.SetTolerances(atol, rtol); err != nil {
		return nil, err
	}
	if err := m.AddVariable(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddBulkSpecies creates and registers a bulk species.
func (m *Model) AddBulkSpecies(name, units string, atol, rtol *float64, note string) (*Species, error) {
	return m.AddSpecies(Bulk, name, units, atol, rtol, note)
}

// AddWallSpecies creates and registers a wall species.
func (m *Model) AddWallSpecies(name, units string, atol, rtol *float64, note string) (*Species, error) {
	return m.AddSpecies(Wall, name, units, atol, rtol, note)
}

// AddConstant creates and registers a constant coefficient.
func (m *Model) AddConstant(name string, globalValue float64, units, note string) (*Constant, error) {
	c, err := NewConstant(name, globalValue)
	if err != nil {
		return nil, err
	}
	c.Units = units
	c.Note = note
	if err := m.AddVariable(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddParameter creates and registers a parameterized coefficient. The
// override maps may be nil.
func (m *Model) AddParameter(name string, globalValue float64, units, note string, pipeValues, tankValues map[string]float64) (*Parameter, error) {
	p, err := NewParameter(name, globalValue)
	if err != nil {
		return nil, err
	}
	p.Units = units
	p.Note = note
	for k, v := range pipeValues {
		p.PipeValues[k] = v
	}
	for k, v := range tankValues {
		p.TankValues[k] = v
	}
	if err := m.AddVariable(p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddCoefficient creates and registers a coefficient of the given kind,
// which must resolve to ConstantVar or ParameterVar.
func (m *Model) AddCoefficient(coeffType interface{}, name string, globalValue float64, units, note string) (Variable, error) {
	ct, err := GetVariableType(coeffType)
	if err != nil {
		return nil, err
	}
	switch ct {
	case ConstantVar:
		return m.AddConstant(name, globalValue, units, note)
	case ParameterVar:
		return m.AddParameter(name, globalValue, units, note, nil, nil)
	}
	return nil, argErrorf("a coefficient must be CONSTANT or PARAMETER, got %s", ct)
}

// AddOtherTerm creates and registers a named expression term.
func (m *Model) AddOtherTerm(name, expression, note string) (*Term, error) {
	t, err := NewTerm(name, expression)
	if err != nil {
		return nil, err
	}
	t.Note = note
	if err := m.AddVariable(t); err != nil {
		return nil, err
	}
	return t, nil
}

// RemoveVariable removes a variable by name, purging the initial quality
// and source side tables if it was a species. Reactions and expressions
// referencing the removed name are not touched; compiling them afterwards
// fails.
func (m *Model) RemoveVariable(name string) error {
	delete(m.initialQuality, name)
	delete(m.sources, name)
	if !m.vars.Delete(name) {
		return UnknownReferenceError{Name: name}
	}
	return nil
}

// variableName accepts a variable identified either by its name or by the
// variable object itself.
func variableName(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case Variable:
		return s.VarName()
	}
	return fmt.Sprint(v)
}

// AddReaction adds a reaction for a species at a location. The species must
// already be registered; a (species, location) pair may have only one
// reaction, and an existing one must be removed before a replacement can be
// added.
func (m *Model) AddReaction(location interface{}, species interface{}, dynamics interface{}, expression, note string) (Reaction, error) {
	loc, err := GetLocationType(location)
	if err != nil {
		return nil, err
	}
	name := variableName(species)
	if !m.species.Has(name) {
		return nil, UnknownReferenceError{Name: name}
	}
	switch loc {
	case Pipe:
		if _, ok := m.pipeRxns[name]; ok {
			return nil, DuplicateReactionError{Species: name, Location: Pipe}
		}
	case Tank:
		if _, ok := m.tankRxns[name]; ok {
			return nil, DuplicateReactionError{Species: name, Location: Tank}
		}
	}
	r, err := NewReaction(loc, name, dynamics, expression, note)
	if err != nil {
		return nil, err
	}
	switch loc {
	case Pipe:
		m.pipeRxns[name] = r
		m.pipeOrder = append(m.pipeOrder, name)
	case Tank:
		m.tankRxns[name] = r
		m.tankOrder = append(m.tankOrder, name)
	}
	return r, nil
}

// AddPipeReaction adds a reaction occurring in pipes.
func (m *Model) AddPipeReaction(species interface{}, dynamics interface{}, expression, note string) (Reaction, error) {
	return m.AddReaction(Pipe, species, dynamics, expression, note)
}

// AddTankReaction adds a reaction occurring in tanks.
func (m *Model) AddTankReaction(species interface{}, dynamics interface{}, expression, note string) (Reaction, error) {
	return m.AddReaction(Tank, species, dynamics, expression, note)
}

// RemoveReaction removes the reaction for a species at a location, which
// may be a LocationType, an integer, a string such as "pipe", or "all" for
// both locations. Removing a reaction that does not exist is not an error.
func (m *Model) RemoveReaction(species interface{}, location interface{}) error {
	if location == nil {
		return argErrorf(`location cannot be nil when removing a reaction; use "all" for all locations`)
	}
	name := variableName(species)
	if s, ok := location.(string); ok && strings.EqualFold(s, "all") {
		m.removePipeReaction(name)
		m.removeTankReaction(name)
		return nil
	}
	loc, err := GetLocationType(location)
	if err != nil {
		return err
	}
	switch loc {
	case Pipe:
		m.removePipeReaction(name)
	case Tank:
		m.removeTankReaction(name)
	}
	return nil
}

func (m *Model) removePipeReaction(name string) {
	if _, ok := m.pipeRxns[name]; !ok {
		return
	}
	delete(m.pipeRxns, name)
	m.pipeOrder = removeName(m.pipeOrder, name)
	delete(m.compiled, reactionKey(Pipe, name))
}

func (m *Model) removeTankReaction(name string) {
	if _, ok := m.tankRxns[name]; !ok {
		return
	}
	delete(m.tankRxns, name)
	m.tankOrder = removeName(m.tankOrder, name)
	delete(m.compiled, reactionKey(Tank, name))
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}

// GetReaction returns the reaction for a species at a location, or nil if
// none is defined. Unlike GetVariable, a missing reaction is not an error.
func (m *Model) GetReaction(species interface{}, location interface{}) (Reaction, error) {
	if species == nil {
		return nil, argErrorf("species must be a string or Species")
	}
	if location == nil {
		return nil, argErrorf("location must be a string, integer, or LocationType")
	}
	loc, err := GetLocationType(location)
	if err != nil {
		return nil, err
	}
	name := variableName(species)
	switch loc {
	case Pipe:
		return m.pipeRxns[name], nil
	case Tank:
		return m.tankRxns[name], nil
	}
	return nil, nil
}

// Reactions returns the model's reactions, pipe reactions before tank
// reactions, each set in insertion order. Passing a nonzero LocationType
// restricts the result to that location.
func (m *Model) Reactions(location LocationType) []Reaction {
	var out []Reaction
	if location == 0 || location == Pipe {
		for _, name := range m.pipeOrder {
			out = append(out, m.pipeRxns[name])
		}
	}
	if location == 0 || location == Tank {
		for _, name := range m.tankOrder {
			out = append(out, m.tankRxns[name])
		}
	}
	return out
}

// AddSource adds a quality source for a species at a node, replacing any
// existing source for that species and node.
func (m *Model) AddSource(species, node string, sourceType interface{}, strength float64, pattern string) (*Source, error) {
	if !m.species.Has(species) {
		return nil, UnknownReferenceError{Name: species}
	}
	st, err := GetSourceType(sourceType)
	if err != nil {
		return nil, err
	}
	src := &Source{Node: node, Type: st, Strength: strength, Pattern: pattern}
	m.sources[species][node] = src
	return src, nil
}

// RemoveSource removes the source for a species at a node, if one exists.
func (m *Model) RemoveSource(species, node string) {
	if srcs, ok := m.sources[species]; ok {
		delete(srcs, node)
	}
}

// SourcesFor returns the live source table for a species, keyed by node.
func (m *Model) SourcesFor(species string) (map[string]*Source, error) {
	srcs, ok := m.sources[species]
	if !ok {
		return nil, UnknownReferenceError{Name: species}
	}
	return srcs, nil
}

// InitialQualityFor returns the live initial quality record for a species.
func (m *Model) InitialQualityFor(species string) (*InitialQuality, error) {
	iq, ok := m.initialQuality[species]
	if !ok {
		return nil, UnknownReferenceError{Name: species}
	}
	return iq, nil
}

// symbolTable returns the names that may appear as bare symbols in a
// compiled expression: species, constants, parameters, and the hydraulic
// variables. Terms are not included because they are expanded before
// compilation.
func (m *Model) symbolTable() map[string]bool {
	symbols := make(map[string]bool)
	for _, name := range m.species.Names() {
		symbols[name] = true
	}
	for _, name := range m.constants.Names() {
		symbols[name] = true
	}
	for _, name := range m.parameters.Names() {
		symbols[name] = true
	}
	for _, hv := range HydraulicVariables {
		symbols[hv.Name] = true
	}
	return symbols
}

func (m *Model) termDefinitions() map[string]string {
	defs := make(map[string]string, m.terms.Len())
	for _, v := range m.terms.Variables() {
		t := v.(*Term)
		defs[t.Name] = t.Expression
	}
	return defs
}

// CompileExpression compiles expression text against the model's current
// symbol table, expanding term references first.
func (m *Model) CompileExpression(expression string) (Compiled, error) {
	expanded, err := expandTerms(expression, m.termDefinitions())
	if err != nil {
		return nil, err
	}
	return m.engine.Compile(expanded, m.symbolTable())
}

func reactionKey(loc LocationType, species string) string {
	return loc.String() + "|" + species
}

// CompileReaction compiles the expression of the reaction for a species at
// a location, caching the result. The cache is dropped whenever a variable
// is added or removed, since symbol bindings may have changed.
func (m *Model) CompileReaction(species string, location LocationType) (Compiled, error) {
	r, err := m.GetReaction(species, location)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, UnknownReferenceError{Name: species}
	}
	if gen := m.vars.Generation(); gen != m.compiledGen {
		m.compiled = make(map[string]Compiled)
		m.compiledGen = gen
	}
	key := reactionKey(location, species)
	if c, ok := m.compiled[key]; ok {
		return c, nil
	}
	c, err := m.CompileExpression(r.ExpressionString())
	if err != nil {
		return nil, err
	}
	m.compiled[key] = c
	return c, nil
}

// Equal reports whether two models are structurally equal: same metadata,
// options, variables, reactions, and side tables. Insertion order within
// groups is not significant.
func (m *Model) Equal(other *Model) bool {
	if m.Name != other.Name || m.Title != other.Title || m.Description != other.Description {
		return false
	}
	if !stringSlicesEqual(m.References, other.References) {
		return false
	}
	if !m.Options.Equal(&other.Options) {
		return false
	}
	groups := [][2]*VariableGroup{
		{m.species, other.species},
		{m.constants, other.constants},
		{m.parameters, other.parameters},
		{m.terms, other.terms},
	}
	for _, pair := range groups {
		if pair[0].Len() != pair[1].Len() {
			return false
		}
		for _, name := range pair[0].Names() {
			a, _ := pair[0].Get(name)
			b, ok := pair[1].Get(name)
			if !ok || !a.Equal(b) {
				return false
			}
		}
	}
	if !reactionMapsEqual(m.pipeRxns, other.pipeRxns) || !reactionMapsEqual(m.tankRxns, other.tankRxns) {
		return false
	}
	if len(m.initialQuality) != len(other.initialQuality) {
		return false
	}
	for name, iq := range m.initialQuality {
		oiq, ok := other.initialQuality[name]
		if !ok || !iq.Equal(oiq) {
			return false
		}
	}
	if len(m.sources) != len(other.sources) {
		return false
	}
	for name, srcs := range m.sources {
		osrcs, ok := other.sources[name]
		if !ok || len(srcs) != len(osrcs) {
			return false
		}
		for node, src := range srcs {
			osrc, ok := osrcs[node]
			if !ok || !src.Equal(osrc) {
				return false
			}
		}
	}
	return true
}

func reactionMapsEqual(a, b map[string]Reaction) bool {
	if len(a) != len(b) {
		return false
	}
	for name, r := range a {
		or, ok := b[name]
		if !ok || !r.Equal(or) {
			return false
		}
	}
	return true
}
