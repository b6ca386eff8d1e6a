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
	"sort"
	"testing"
)

var exprEngines = []Engine{DefaultEngine(), FallbackEngine()}

func TestCompileAndEval(t *testing.T) {
	symbols := map[string]bool{"A": true, "B": true, "k": true}
	bindings := map[string]float64{"A": 2, "B": 3, "k": 0.5}
	tests := []struct {
		expr string
		want float64
	}{
		{"-k*A*B^2", -9},
		{"-k*A*B**2", -9},
		{"A + B", 5},
		{"A*(B - k)", 5},
		{"exp(0) + A", 3},
		{"EXP(0) + A", 3},
		{"Exp(0) + A", 3},
		{"log(exp(A))", 2},
		{"log10(100)", 2},
		{"sqrt(B*B)", 3},
		{"sgn(-k)", -1},
		{"step(0)", 0.5},
		{"step(k)", 1},
		{"step(-k)", 0},
		{"abs(0 - B)", 3},
		{"(A + B)^2", 25},
	}
	for _, e := range exprEngines {
		for _, test := range tests {
			c, err := e.Compile(test.expr, symbols)
			if err != nil {
				t.Errorf("%s: Compile(%q): %v", e.EngineName(), test.expr, err)
				continue
			}
			got, err := c.Eval(bindings)
			if err != nil {
				t.Errorf("%s: Eval(%q): %v", e.EngineName(), test.expr, err)
				continue
			}
			if math.Abs(got-test.want) > 1e-12 {
				t.Errorf("%s: %q = %g, want %g", e.EngineName(), test.expr, got, test.want)
			}
		}
	}
}

func TestCompileVars(t *testing.T) {
	symbols := map[string]bool{"A": true, "B": true, "k": true}
	for _, e := range exprEngines {
		c, err := e.Compile("-k*A*B^2 + exp(A)", symbols)
		if err != nil {
			t.Fatalf("%s: %v", e.EngineName(), err)
		}
		got := append([]string(nil), c.Vars()...)
		sort.Strings(got)
		want := []string{"A", "B", "k"}
		if len(got) != len(want) {
			t.Fatalf("%s: Vars() = %v, want %v", e.EngineName(), got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: Vars() = %v, want %v", e.EngineName(), got, want)
			}
		}
	}
}

func TestCompileUnknownSymbol(t *testing.T) {
	symbols := map[string]bool{"A": true}
	for _, e := range exprEngines {
		_, err := e.Compile("A * Missing", symbols)
		if err == nil {
			t.Errorf("%s: compiling with an undefined symbol should fail", e.EngineName())
			continue
		}
		if _, ok := err.(CompileError); !ok {
			t.Errorf("%s: got %T, want CompileError", e.EngineName(), err)
		}
	}
}

func TestCompileMalformed(t *testing.T) {
	symbols := map[string]bool{"A": true, "B": true}
	for _, e := range exprEngines {
		for _, expr := range []string{"A +", "A B", "(A", "exp(A"} {
			if _, err := e.Compile(expr, symbols); err == nil {
				t.Errorf("%s: Compile(%q) should fail", e.EngineName(), expr)
			}
		}
	}
}

func TestEvalMissingBinding(t *testing.T) {
	symbols := map[string]bool{"A": true, "B": true}
	for _, e := range exprEngines {
		c, err := e.Compile("A + B", symbols)
		if err != nil {
			t.Fatalf("%s: %v", e.EngineName(), err)
		}
		if _, err := c.Eval(map[string]float64{"A": 1}); err == nil {
			t.Errorf("%s: Eval without a binding for B should fail", e.EngineName())
		}
	}
}

func TestExpandTerms(t *testing.T) {
	terms := map[string]string{
		"T1": "k * A",
		"T2": "T1 + B",
	}
	tests := []struct {
		expr string
		want string
	}{
		{"T1 * 2", "(k * A) * 2"},
		{"T2", "((k * A) + B)"},
		{"AT1 + T1B", "AT1 + T1B"}, // substrings of longer identifiers stay
		{"A + B", "A + B"},
	}
	for _, test := range tests {
		got, err := expandTerms(test.expr, terms)
		if err != nil {
			t.Errorf("expandTerms(%q): %v", test.expr, err)
			continue
		}
		if got != test.want {
			t.Errorf("expandTerms(%q) = %q, want %q", test.expr, got, test.want)
		}
	}
}

func TestExpandTermsCycle(t *testing.T) {
	terms := map[string]string{
		"T1": "T2 + 1",
		"T2": "T1 + 1",
	}
	if _, err := expandTerms("T1", terms); err == nil {
		t.Error("expanding mutually recursive terms should fail")
	}
}

func TestEvalVector(t *testing.T) {
	symbols := map[string]bool{"A": true, "k": true}
	for _, e := range exprEngines {
		c, err := e.Compile("-k * A", symbols)
		if err != nil {
			t.Fatalf("%s: %v", e.EngineName(), err)
		}
		got, err := EvalVector(c, map[string][]float64{
			"A": {1, 2, 3},
			"k": {0.5, 0.5, 2},
		})
		if err != nil {
			t.Fatalf("%s: %v", e.EngineName(), err)
		}
		want := []float64{-0.5, -1, -6}
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Errorf("%s: result[%d] = %g, want %g", e.EngineName(), i, got[i], want[i])
			}
		}
		if _, err := EvalVector(c, map[string][]float64{"A": {1, 2}, "k": {1}}); err == nil {
			t.Errorf("%s: mismatched vector lengths should fail", e.EngineName())
		}

		cn, err := e.Compile("sqrt(A)", symbols)
		if err != nil {
			t.Fatalf("%s: %v", e.EngineName(), err)
		}
		if _, err := EvalVector(cn, map[string][]float64{"A": {4, -1}}); err == nil {
			t.Errorf("%s: a NaN result should fail", e.EngineName())
		}
	}
}

func TestReservedNames(t *testing.T) {
	for _, name := range []string{"D", "Q", "Re", "Len", "exp", "EXP", "Exp", "Mul", "Integer"} {
		if !IsReservedName(name) {
			t.Errorf("IsReservedName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Cl2", "k1", "", "mul", "INTEGER", "d"} {
		if IsReservedName(name) {
			t.Errorf("IsReservedName(%q) = true, want false", name)
		}
	}
	names := ReservedNames()
	if !sort.StringsAreSorted(names) {
		t.Error("ReservedNames() is not sorted")
	}
	// 9 hydraulic variables, 19 functions in 3 case forms, and 5 algebra
	// names.
	if want := 9 + 19*3 + 5; len(names) != want {
		t.Errorf("len(ReservedNames()) = %d, want %d", len(names), want)
	}
}
