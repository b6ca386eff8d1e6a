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
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/floats"
)

// HydraulicVariable describes one of the built-in symbols whose value the
// hydraulic engine supplies each timestep. Hydraulic variables are available
// in every expression and their names are reserved.
type HydraulicVariable struct {
	Name string
	Note string
}

// HydraulicVariables lists the hydraulic variables defined by EPANET-MSX.
var HydraulicVariables = []HydraulicVariable{
	{Name: "D", Note: "pipe diameter (feet or meters)"},
	{Name: "Kc", Note: "pipe roughness coefficient (unitless for Hazen-Williams or Chezy-Manning head loss formulas, millifeet or millimeters for Darcy-Weisbach head loss formula)"},
	{Name: "Q", Note: "pipe flow rate (flow units)"},
	{Name: "U", Note: "pipe flow velocity (ft/sec or m/sec)"},
	{Name: "Re", Note: "flow Reynolds number"},
	{Name: "Us", Note: "pipe shear velocity (ft/sec or m/sec)"},
	{Name: "Ff", Note: "Darcy-Weisbach friction factor"},
	{Name: "Av", Note: "surface area per unit volume (area units/L)"},
	{Name: "Len", Note: "pipe length (feet or meters)"},
}

// exprFunctions maps the canonical (lower-case) name of every built-in
// expression function to its implementation. All built-ins take one
// argument. log10 is computed directly in base 10 rather than through a
// change-of-base identity so that both engines agree to the last bit.
var exprFunctions = map[string]func(float64) float64{
	"abs":   math.Abs,
	"sgn":   sign,
	"sqrt":  math.Sqrt,
	"step":  heaviside,
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"cot":   func(x float64) float64 { return 1 / math.Tan(x) },
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"acot":  func(x float64) float64 { return math.Atan(1 / x) },
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"coth":  func(x float64) float64 { return 1 / math.Tanh(x) },
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// heaviside is the MSX step function, with the symmetric convention at the
// origin.
func heaviside(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return 0
	}
	return 0.5
}

// algebraNames are reserved, case sensitively, because the symbolic form of
// a model uses them for multiplication, addition, exponentiation, and the
// two literal-number wrappers.
var algebraNames = []string{"Mul", "Add", "Pow", "Integer", "Float"}

// reservedNames holds every name that cannot be used for a user-defined
// variable: hydraulic variables, the lower, UPPER, and Capitalized spelling
// of every built-in function, and the algebra-internal names.
var reservedNames = make(map[string]bool)

// govalFunctions binds every case form of every built-in function for the
// govaluate engine.
var govalFunctions = make(map[string]govaluate.ExpressionFunction)

func init() {
	for _, hv := range HydraulicVariables {
		reservedNames[hv.Name] = true
	}
	for name, fn := range exprFunctions {
		for _, form := range caseForms(name) {
			reservedNames[form] = true
			govalFunctions[form] = unaryFunction(name, fn)
		}
	}
	for _, name := range algebraNames {
		reservedNames[name] = true
	}
}

// caseForms returns the lower, UPPER, and Capitalized spellings of name.
func caseForms(name string) []string {
	lower := strings.ToLower(name)
	upper := strings.ToUpper(name)
	capitalized := strings.ToUpper(name[:1]) + lower[1:]
	return []string{lower, upper, capitalized}
}

func unaryFunction(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, argErrorf("got %d arguments for function %q, but needs 1", len(args), name)
		}
		x, err := cast.ToFloat64E(args[0])
		if err != nil {
			return nil, argErrorf("non-numeric argument for function %q: %v", name, args[0])
		}
		return fn(x), nil
	}
}

// IsReservedName reports whether name cannot be used for a user-defined
// variable.
func IsReservedName(name string) bool {
	return reservedNames[name]
}

// ReservedNames returns all reserved names in sorted order.
func ReservedNames() []string {
	names := make([]string, 0, len(reservedNames))
	for name := range reservedNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Engine compiles expression text into an evaluable form. Two engines are
// provided: the govaluate-backed default, and a self-contained numeric
// fallback (FallbackEngine) for builds that must not depend on the
// expression library.
type Engine interface {
	// EngineName identifies the engine in logs and diagnostics.
	EngineName() string
	// Compile parses an expression. Every bare identifier in the
	// expression must be a member of symbols; anything else fails with
	// CompileError. Terms must be expanded before compiling.
	Compile(expression string, symbols map[string]bool) (Compiled, error)
}

// Compiled is an expression ready for evaluation. A Compiled is immutable
// and safe for repeated evaluation with different bindings.
type Compiled interface {
	// Eval evaluates the expression with the given variable values.
	// Hydraulic variable values are supplied the same way as model
	// variable values. A missing binding fails with CompileError.
	Eval(bindings map[string]float64) (float64, error)
	// Vars returns the distinct variable names the expression uses, in
	// order of first appearance.
	Vars() []string
}

// DefaultEngine returns the engine used by new models.
func DefaultEngine() Engine { return govaluateEngine{} }

type govaluateEngine struct{}

// EngineName implements Engine.
func (govaluateEngine) EngineName() string { return "govaluate" }

// Compile implements Engine.
func (govaluateEngine) Compile(expression string, symbols map[string]bool) (Compiled, error) {
	// MSX expressions use ^ for exponentiation, never bitwise XOR.
	rewritten := strings.ReplaceAll(expression, "^", "**")
	ee, err := govaluate.NewEvaluableExpressionWithFunctions(rewritten, govalFunctions)
	if err != nil {
		return nil, CompileError{Expression: expression, Err: err}
	}
	vars := dedupe(ee.Vars())
	for _, v := range vars {
		if !symbols[v] {
			return nil, compileErrorf(expression, "unresolvable symbol %q", v)
		}
	}
	return &govalCompiled{source: expression, expr: ee, vars: vars}, nil
}

type govalCompiled struct {
	source string
	expr   *govaluate.EvaluableExpression
	vars   []string
}

// Eval implements Compiled.
func (c *govalCompiled) Eval(bindings map[string]float64) (float64, error) {
	params := make(map[string]interface{}, len(c.vars))
	for _, v := range c.vars {
		value, ok := bindings[v]
		if !ok {
			return 0, compileErrorf(c.source, "no value bound for symbol %q", v)
		}
		params[v] = value
	}
	result, err := c.expr.Evaluate(params)
	if err != nil {
		return 0, CompileError{Expression: c.source, Err: err}
	}
	value, err := cast.ToFloat64E(result)
	if err != nil {
		return 0, compileErrorf(c.source, "expression did not evaluate to a number: %v", result)
	}
	return value, nil
}

// Vars implements Compiled.
func (c *govalCompiled) Vars() []string {
	vars := make([]string, len(c.vars))
	copy(vars, c.vars)
	return vars
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// maxTermExpansionPasses bounds term substitution so circular term
// definitions fail instead of growing without bound.
const maxTermExpansionPasses = 64

// expandTerms replaces every whole-word occurrence of a term name in
// expression with the term's parenthesized definition, repeating until no
// term names remain. Definitions may reference other terms.
func expandTerms(expression string, terms map[string]string) (string, error) {
	if len(terms) == 0 {
		return expression, nil
	}
	names := make([]string, 0, len(terms))
	for name := range terms {
		names = append(names, name)
	}
	sort.Strings(names)
	patterns := make(map[string]*regexp.Regexp, len(names))
	for _, name := range names {
		patterns[name] = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	}
	expanded := expression
	for pass := 0; pass < maxTermExpansionPasses; pass++ {
		replaced := false
		for _, name := range names {
			re := patterns[name]
			if re.MatchString(expanded) {
				expanded = re.ReplaceAllLiteralString(expanded, "("+terms[name]+")")
				replaced = true
			}
		}
		if !replaced {
			return expanded, nil
		}
	}
	return "", compileErrorf(expression, "term expansion did not converge; circular term definition")
}

// EvalVector evaluates a compiled expression once per index across parallel
// binding slices, which is how an external solver evaluates a reaction over
// every pipe segment at once. All slices must have the same length.
func EvalVector(c Compiled, bindings map[string][]float64) ([]float64, error) {
	n := -1
	for name, values := range bindings {
		if n == -1 {
			n = len(values)
		} else if len(values) != n {
			return nil, argErrorf("binding slice lengths differ: %q has %d values, want %d", name, len(values), n)
		}
	}
	if n <= 0 {
		return nil, nil
	}
	out := make([]float64, n)
	point := make(map[string]float64, len(bindings))
	for i := 0; i < n; i++ {
		for name, values := range bindings {
			point[name] = values[i]
		}
		v, err := c.Eval(point)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	// NaN rates poison a solver silently, so reject them here.
	if floats.HasNaN(out) {
		return nil, argErrorf("expression evaluated to NaN for at least one binding point")
	}
	return out, nil
}
