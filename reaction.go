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

// Reaction describes the dynamics of one species at one location. The three
// concrete kinds are structurally identical; they differ in how the solver
// interprets the expression:
//
//	RateReaction:        d/dt C(species) = expression
//	EquilibriumReaction: 0 = expression
//	FormulaReaction:     C(species) = expression
//
// A model holds at most one reaction per (species, location) pair.
type Reaction interface {
	// SpeciesName returns the name of the species whose dynamics are
	// described.
	SpeciesName() string
	// Location returns where the reaction occurs.
	Location() LocationType
	// Dynamics returns how the expression is interpreted.
	Dynamics() DynamicsType
	// ExpressionString returns the uncompiled expression text.
	ExpressionString() string
	// RxnNote returns the reaction's annotation, if any.
	RxnNote() string
	// Dict returns a plain-data representation of the reaction.
	Dict() Dict
	// Equal reports structural equality with another reaction.
	Equal(other Reaction) bool
}

// NewReaction creates a reaction of the given dynamics kind. The species
// name is not checked against any model here; Model.AddReaction enforces
// that the species exists.
func NewReaction(location LocationType, species string, dynamics interface{}, expression, note string) (Reaction, error) {
	if species == "" {
		return nil, argErrorf("a reaction species cannot be empty")
	}
	dt, err := GetDynamicsType(dynamics)
	if err != nil {
		return nil, err
	}
	switch dt {
	case Rate:
		return &RateReaction{Species: species, Loc: location, Expression: expression, Note: note}, nil
	case Equil:
		return &EquilibriumReaction{Species: species, Loc: location, Expression: expression, Note: note}, nil
	case Formula:
		return &FormulaReaction{Species: species, Loc: location, Expression: expression, Note: note}, nil
	}
	return nil, argErrorf("invalid dynamics type %v", dynamics)
}

func reactionDict(r Reaction) Dict {
	d := Dict{
		"species":    r.SpeciesName(),
		"dynamics":   lowerName(r.Dynamics()),
		"expression": r.ExpressionString(),
	}
	if note := r.RxnNote(); note != "" {
		d["note"] = note
	}
	return d
}

func reactionEqual(a, b Reaction) bool {
	return a.Dynamics() == b.Dynamics() &&
		a.SpeciesName() == b.SpeciesName() &&
		a.Location() == b.Location() &&
		a.ExpressionString() == b.ExpressionString()
}

// RateReaction expresses the rate of change of a species concentration over
// time as a function of the other species in the model.
type RateReaction struct {
	Species    string
	Loc        LocationType
	Expression string
	Note       string
}

// SpeciesName implements Reaction.
func (r *RateReaction) SpeciesName() string { return r.Species }

// Location implements Reaction.
func (r *RateReaction) Location() LocationType { return r.Loc }

// Dynamics implements Reaction.
func (r *RateReaction) Dynamics() DynamicsType { return Rate }

// ExpressionString implements Reaction.
func (r *RateReaction) ExpressionString() string { return r.Expression }

// RxnNote implements Reaction.
func (r *RateReaction) RxnNote() string { return r.Note }

// Dict implements Reaction.
func (r *RateReaction) Dict() Dict { return reactionDict(r) }

// Equal implements Reaction.
func (r *RateReaction) Equal(other Reaction) bool { return reactionEqual(r, other) }

// EquilibriumReaction supplies an expression that is equated to zero at
// equilibrium.
type EquilibriumReaction struct {
	Species    string
	Loc        LocationType
	Expression string
	Note       string
}

// SpeciesName implements Reaction.
func (r *EquilibriumReaction) SpeciesName() string { return r.Species }

// Location implements Reaction.
func (r *EquilibriumReaction) Location() LocationType { return r.Loc }

// Dynamics implements Reaction.
func (r *EquilibriumReaction) Dynamics() DynamicsType { return Equil }

// ExpressionString implements Reaction.
func (r *EquilibriumReaction) ExpressionString() string { return r.Expression }

// RxnNote implements Reaction.
func (r *EquilibriumReaction) RxnNote() string { return r.Note }

// Dict implements Reaction.
func (r *EquilibriumReaction) Dict() Dict { return reactionDict(r) }

// Equal implements Reaction.
func (r *EquilibriumReaction) Equal(other Reaction) bool { return reactionEqual(r, other) }

// FormulaReaction gives the concentration of the species directly as a
// function of the remaining species.
type FormulaReaction struct {
	Species    string
	Loc        LocationType
	Expression string
	Note       string
}

// SpeciesName implements Reaction.
func (r *FormulaReaction) SpeciesName() string { return r.Species }

// Location implements Reaction.
func (r *FormulaReaction) Location() LocationType { return r.Loc }

// Dynamics implements Reaction.
func (r *FormulaReaction) Dynamics() DynamicsType { return Formula }

// ExpressionString implements Reaction.
func (r *FormulaReaction) ExpressionString() string { return r.Expression }

// RxnNote implements Reaction.
func (r *FormulaReaction) RxnNote() string { return r.Note }

// Dict implements Reaction.
func (r *FormulaReaction) Dict() Dict { return reactionDict(r) }

// Equal implements Reaction.
func (r *FormulaReaction) Equal(other Reaction) bool { return reactionEqual(r, other) }
