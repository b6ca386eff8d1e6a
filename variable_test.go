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

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestNewSpecies(t *testing.T) {
	s, err := NewSpecies("bulk", "Cl2", "mg/L")
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != Bulk {
		t.Errorf("Type = %v, want Bulk", s.Type)
	}
	if !s.IsBulk() || s.IsWall() {
		t.Error("Cl2 should be a bulk species")
	}
	if s.VarType() != SpeciesVar {
		t.Errorf("VarType() = %v, want SpeciesVar", s.VarType())
	}

	// Lenient type resolution accepts integers, abbreviations, and mixed
	// case.
	for _, speciesType := range []interface{}{2, "WALL", "w", "Wall", Wall} {
		s, err := NewSpecies(speciesType, "X", "mg/L")
		if err != nil {
			t.Errorf("NewSpecies(%v): %v", speciesType, err)
			continue
		}
		if s.Type != Wall {
			t.Errorf("NewSpecies(%v): Type = %v, want Wall", speciesType, s.Type)
		}
	}
}

func TestSpeciesReservedName(t *testing.T) {
	for _, name := range []string{"D", "Q", "Len", "exp", "COS", "Mul"} {
		if _, err := NewSpecies(Bulk, name, "mg/L"); err == nil {
			t.Errorf("NewSpecies(%q) should fail", name)
		} else if _, ok := err.(InvalidNameError); !ok {
			t.Errorf("NewSpecies(%q): got %T, want InvalidNameError", name, err)
		}
	}
	if _, err := NewSpecies(Bulk, "", "mg/L"); err == nil {
		t.Error("NewSpecies with an empty name should fail")
	}
}

func TestSpeciesTolerances(t *testing.T) {
	s, err := NewSpecies(Bulk, "Cl2", "mg/L")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := s.GetTolerances(); ok {
		t.Error("a new species should have no tolerances")
	}

	if err := s.SetTolerances(floatPtr(1e-5), floatPtr(1e-4)); err != nil {
		t.Fatal(err)
	}
	atol, rtol, ok := s.GetTolerances()
	if !ok || atol != 1e-5 || rtol != 1e-4 {
		t.Errorf("GetTolerances() = %v, %v, %v; want 1e-05, 0.0001, true", atol, rtol, ok)
	}

	// Tolerances come in pairs.
	if err := s.SetTolerances(floatPtr(1e-5), nil); err == nil {
		t.Error("setting only atol should fail")
	}
	if err := s.SetTolerances(nil, floatPtr(1e-5)); err == nil {
		t.Error("setting only rtol should fail")
	}
	if err := s.SetTolerances(floatPtr(0), floatPtr(1e-5)); err == nil {
		t.Error("a zero tolerance should fail")
	}
	if err := s.SetTolerances(floatPtr(-1e-5), floatPtr(1e-5)); err == nil {
		t.Error("a negative tolerance should fail")
	}

	if err := s.SetTolerances(nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := s.GetTolerances(); ok {
		t.Error("SetTolerances(nil, nil) should clear the tolerances")
	}
}

func TestParameterGetValue(t *testing.T) {
	p, err := NewParameter("kw", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	p.PipeValues["P1"] = 1.5
	p.TankValues["T1"] = 2.5

	tests := []struct {
		pipe, tank string
		want       float64
	}{
		{"P1", "", 1.5},
		{"P2", "", 0.5},
		{"", "T1", 2.5},
		{"", "T2", 0.5},
		{"", "", 0.5},
	}
	for _, test := range tests {
		got, err := p.GetValue(test.pipe, test.tank)
		if err != nil {
			t.Errorf("GetValue(%q, %q): %v", test.pipe, test.tank, err)
			continue
		}
		if got != test.want {
			t.Errorf("GetValue(%q, %q) = %g, want %g", test.pipe, test.tank, got, test.want)
		}
	}

	if _, err := p.GetValue("P1", "T1"); err == nil {
		t.Error("GetValue with both a pipe and a tank should fail")
	}
}

func TestVariableEqual(t *testing.T) {
	a, _ := NewSpecies(Bulk, "Cl2", "mg/L")
	b, _ := NewSpecies(Bulk, "Cl2", "mg/L")
	if !a.Equal(b) {
		t.Error("identical species should be equal")
	}
	b.Units = "ug/L"
	if a.Equal(b) {
		t.Error("species with different units should not be equal")
	}

	c, _ := NewConstant("k", 0.5)
	if a.Equal(c) {
		t.Error("a species should not equal a constant")
	}

	p1, _ := NewParameter("kw", 0.5)
	p2, _ := NewParameter("kw", 0.5)
	p1.PipeValues["P1"] = 1
	if p1.Equal(p2) {
		t.Error("parameters with different overrides should not be equal")
	}
	p2.PipeValues["P1"] = 1
	if !p1.Equal(p2) {
		t.Error("parameters with the same overrides should be equal")
	}
}
