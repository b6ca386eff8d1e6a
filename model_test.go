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
	"math"
	"reflect"
	"testing"
)

// decayModel builds a small two-species chlorine decay model used across
// the model tests.
func decayModel(t *testing.T) *Model {
	t.Helper()
	m := New()
	m.Name = "decay"
	if _, err := m.AddBulkSpecies("Cl2", "mg/L", nil, nil, "free chlorine"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddWallSpecies("Biofilm", "mg/m2", nil, nil, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddConstant("kb", 0.3, "1/day", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddParameter("kw", 0.1, "1/day", "", nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddOtherTerm("Kf", "kb * Cl2", ""); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestModelSeedsInternalVariables(t *testing.T) {
	m := New()
	for _, hv := range HydraulicVariables {
		if !m.HasVariable(hv.Name) {
			t.Errorf("a new model should define hydraulic variable %q", hv.Name)
		}
	}
	for name := range exprFunctions {
		for _, form := range caseForms(name) {
			if !m.HasVariable(form) {
				t.Errorf("a new model should define function name %q", form)
			}
		}
	}
	v, err := m.GetVariable("Q")
	if err != nil {
		t.Fatal(err)
	}
	if v.VarType() != ReservedVar {
		t.Errorf("Q has type %v, want ReservedVar", v.VarType())
	}
}

func TestModelNamespace(t *testing.T) {
	m := decayModel(t)

	// One flat namespace across all variable kinds.
	if _, err := m.AddConstant("Cl2", 1, "", ""); err == nil {
		t.Error("reusing a species name for a constant should fail")
	} else if _, ok := err.(KeyExistsError); !ok {
		t.Errorf("got %T, want KeyExistsError", err)
	}
	if _, err := m.AddBulkSpecies("kb", "mg/L", nil, nil, ""); err == nil {
		t.Error("reusing a constant name for a species should fail")
	}
	if _, err := m.AddBulkSpecies("Q", "mg/L", nil, nil, ""); err == nil {
		t.Error("a hydraulic variable name should be rejected")
	}

	if got := m.SpeciesNames(); !reflect.DeepEqual(got, []string{"Cl2", "Biofilm"}) {
		t.Errorf("SpeciesNames() = %v", got)
	}
	if got := m.ConstantNames(); !reflect.DeepEqual(got, []string{"kb"}) {
		t.Errorf("ConstantNames() = %v", got)
	}

	vars := m.Variables(0)
	want := []string{"Cl2", "Biofilm", "kb", "kw", "Kf"}
	if len(vars) != len(want) {
		t.Fatalf("Variables(0) has %d entries, want %d", len(vars), len(want))
	}
	for i, v := range vars {
		if v.VarName() != want[i] {
			t.Errorf("Variables(0)[%d] = %q, want %q", i, v.VarName(), want[i])
		}
	}
}

func TestAddCoefficient(t *testing.T) {
	m := New()
	c, err := m.AddCoefficient("const", "kb", 0.3, "1/day", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*Constant); !ok {
		t.Errorf("AddCoefficient(const) returned %T, want *Constant", c)
	}
	p, err := m.AddCoefficient("P", "kw", 0.1, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*Parameter); !ok {
		t.Errorf("AddCoefficient(P) returned %T, want *Parameter", p)
	}
	if _, err := m.AddCoefficient("species", "X", 1, "", ""); err == nil {
		t.Error("AddCoefficient(species) should fail")
	}
}

func TestModelReactions(t *testing.T) {
	m := decayModel(t)
	if _, err := m.AddPipeReaction("Cl2", "rate", "-kb*Cl2", ""); err != nil {
		t.Fatal(err)
	}

	// One reaction per species and location.
	if _, err := m.AddPipeReaction("Cl2", "rate", "-2*kb*Cl2", ""); err == nil {
		t.Error("a second pipe reaction for Cl2 should fail")
	} else if _, ok := err.(DuplicateReactionError); !ok {
		t.Errorf("got %T, want DuplicateReactionError", err)
	}
	// The tank slot for the same species is independent.
	if _, err := m.AddTankReaction("Cl2", Rate, "-kb*Cl2", ""); err != nil {
		t.Errorf("adding a tank reaction for Cl2: %v", err)
	}

	// Reactions require a declared species.
	if _, err := m.AddPipeReaction("Zn", "rate", "-Zn", ""); err == nil {
		t.Error("a reaction for an undeclared species should fail")
	} else if _, ok := err.(UnknownReferenceError); !ok {
		t.Errorf("got %T, want UnknownReferenceError", err)
	}

	r, err := m.GetReaction("Cl2", "pipe")
	if err != nil {
		t.Fatal(err)
	}
	if r == nil {
		t.Fatal("GetReaction(Cl2, pipe) = nil")
	}
	if r.Dynamics() != Rate || r.ExpressionString() != "-kb*Cl2" {
		t.Errorf("unexpected reaction: %v %q", r.Dynamics(), r.ExpressionString())
	}

	// A missing reaction is nil, not an error.
	r, err = m.GetReaction("Biofilm", "pipe")
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Error("GetReaction(Biofilm, pipe) should be nil")
	}

	if got := len(m.Reactions(0)); got != 2 {
		t.Errorf("len(Reactions(0)) = %d, want 2", got)
	}

	if err := m.RemoveReaction("Cl2", "all"); err != nil {
		t.Fatal(err)
	}
	if got := len(m.Reactions(0)); got != 0 {
		t.Errorf("len(Reactions(0)) after removal = %d, want 0", got)
	}
	// Removing again is a no-op.
	if err := m.RemoveReaction("Cl2", "pipe"); err != nil {
		t.Errorf("removing an absent reaction: %v", err)
	}
	if err := m.RemoveReaction("Cl2", nil); err == nil {
		t.Error("RemoveReaction with a nil location should fail")
	}
}

func TestReactionKinds(t *testing.T) {
	m := decayModel(t)
	tests := []struct {
		dynamics interface{}
		want     DynamicsType
	}{
		{"rate", Rate},
		{"equil", Equil},
		{"formula", Formula},
	}
	for i, test := range tests {
		species := m.SpeciesNames()[0]
		m.RemoveReaction(species, "all")
		r, err := m.AddPipeReaction(species, test.dynamics, "kb", "")
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if r.Dynamics() != test.want {
			t.Errorf("case %d: Dynamics() = %v, want %v", i, r.Dynamics(), test.want)
		}
		if r.Location() != Pipe {
			t.Errorf("case %d: Location() = %v, want Pipe", i, r.Location())
		}
	}
}

func TestRemoveVariable(t *testing.T) {
	m := decayModel(t)
	if _, err := m.AddPipeReaction("Cl2", "rate", "-kb*Cl2", ""); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveVariable("Cl2"); err != nil {
		t.Fatal(err)
	}
	if m.HasVariable("Cl2") {
		t.Error("Cl2 should be gone")
	}
	if _, err := m.InitialQualityFor("Cl2"); err == nil {
		t.Error("the initial quality entry should be purged")
	}
	// Reactions are not cascaded; compiling the orphan now fails.
	r, err := m.GetReaction("Cl2", Pipe)
	if err != nil {
		t.Fatal(err)
	}
	if r == nil {
		t.Fatal("the orphaned reaction should remain")
	}
	if _, err := m.CompileReaction("Cl2", Pipe); err == nil {
		t.Error("compiling a reaction for a removed species should fail")
	}

	if err := m.RemoveVariable("Cl2"); err == nil {
		t.Error("removing a missing variable should fail")
	}
}

func TestCompileReaction(t *testing.T) {
	m := decayModel(t)
	if _, err := m.AddPipeReaction("Cl2", "rate", "-Kf", ""); err != nil {
		t.Fatal(err)
	}

	c, err := m.CompileReaction("Cl2", Pipe)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Eval(map[string]float64{"Cl2": 2, "kb": 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-(-0.6)) > 1e-12 {
		t.Errorf("rate = %g, want -0.6", got)
	}

	// The same compiled expression comes back until the variables change.
	c2, err := m.CompileReaction("Cl2", Pipe)
	if err != nil {
		t.Fatal(err)
	}
	if c2 != c {
		t.Error("the compiled reaction should be cached")
	}
	if _, err := m.AddConstant("k2", 1, "", ""); err != nil {
		t.Fatal(err)
	}
	c3, err := m.CompileReaction("Cl2", Pipe)
	if err != nil {
		t.Fatal(err)
	}
	if c3 == c {
		t.Error("adding a variable should invalidate the cache")
	}

	if _, err := m.CompileReaction("Biofilm", Pipe); err == nil {
		t.Error("compiling an undefined reaction should fail")
	}
}

func TestCompileExpressionSymbols(t *testing.T) {
	m := decayModel(t)

	// Hydraulic variables are always in scope.
	c, err := m.CompileExpression("kw * Av * Cl2 / D")
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Eval(map[string]float64{"kw": 0.1, "Av": 4, "Cl2": 1, "D": 2})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.2) > 1e-12 {
		t.Errorf("got %g, want 0.2", got)
	}

	// Terms cannot appear after expansion, so an unknown name fails.
	if _, err := m.CompileExpression("kb * Zn"); err == nil {
		t.Error("an undeclared symbol should fail to compile")
	}
}

func TestModelSources(t *testing.T) {
	m := decayModel(t)
	if _, err := m.AddSource("Cl2", "J1", "setpoint", 1.2, "PAT1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddSource("Zn", "J1", "mass", 1, ""); err == nil {
		t.Error("a source for an undeclared species should fail")
	}

	srcs, err := m.SourcesFor("Cl2")
	if err != nil {
		t.Fatal(err)
	}
	src, ok := srcs["J1"]
	if !ok {
		t.Fatal("no source at J1")
	}
	if src.Type != Setpoint || src.Strength != 1.2 || src.Pattern != "PAT1" {
		t.Errorf("unexpected source: %+v", src)
	}

	m.RemoveSource("Cl2", "J1")
	if _, ok := srcs["J1"]; ok {
		t.Error("the source should be removed")
	}
}

func TestModelInitialQuality(t *testing.T) {
	m := decayModel(t)
	iq, err := m.InitialQualityFor("Cl2")
	if err != nil {
		t.Fatal(err)
	}
	global := 0.8
	iq.Global = &global
	iq.Nodes["J1"] = 1.2

	if _, err := m.InitialQualityFor("Zn"); err == nil {
		t.Error("initial quality for an undeclared species should fail")
	}
}

func TestModelEqual(t *testing.T) {
	a := decayModel(t)
	b := decayModel(t)
	if !a.Equal(b) {
		t.Error("identical models should be equal")
	}
	if _, err := b.AddPipeReaction("Cl2", "rate", "-kb*Cl2", ""); err != nil {
		t.Fatal(err)
	}
	if a.Equal(b) {
		t.Error("models with different reactions should not be equal")
	}
	if _, err := a.AddPipeReaction("Cl2", "rate", "-kb*Cl2", ""); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("the models should be equal again")
	}
	b.Options.Timestep = 60
	if a.Equal(b) {
		t.Error("models with different options should not be equal")
	}
}
