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

import "fmt"

// KeyExistsError is returned when a variable is added under a name that is
// already present anywhere in the model's flat namespace, regardless of
// which group the existing entry belongs to.
type KeyExistsError struct {
	Name string
}

func (e KeyExistsError) Error() string {
	return fmt.Sprintf("msx: the variable %q already exists in this model", e.Name)
}

// InvalidNameError is returned when a user variable is given a reserved
// name: a hydraulic variable, any case form of a built-in function, or one
// of the symbolic-algebra type names.
type InvalidNameError struct {
	Name string
}

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("msx: %q is a reserved name and cannot be used for a variable", e.Name)
}

// UnknownReferenceError is returned when a reaction names a species that has
// not been declared, or when a lookup is given a name that does not exist.
type UnknownReferenceError struct {
	Name string
}

func (e UnknownReferenceError) Error() string {
	return fmt.Sprintf("msx: no variable named %q exists in this model", e.Name)
}

// DuplicateReactionError is returned when a reaction is added for a
// (species, location) pair that already has one defined. The existing
// reaction must be removed before a replacement can be added.
type DuplicateReactionError struct {
	Species  string
	Location LocationType
}

func (e DuplicateReactionError) Error() string {
	return fmt.Sprintf("msx: the species %q already has a %s reaction defined", e.Species, e.Location)
}

// ArgumentError is returned for malformed arguments: mismatched tolerance
// pairs, ambiguous pipe-and-tank queries, unresolvable type tags, and the
// like.
type ArgumentError struct {
	Msg string
}

func (e ArgumentError) Error() string {
	return "msx: " + e.Msg
}

func argErrorf(format string, args ...interface{}) ArgumentError {
	return ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// CompileError is returned when a reaction or term expression cannot be
// parsed, references a symbol that is not defined in the model, or fails to
// produce a numeric result during evaluation.
type CompileError struct {
	Expression string
	Err        error
}

func (e CompileError) Error() string {
	return fmt.Sprintf("msx: cannot compile expression %q: %v", e.Expression, e.Err)
}

func (e CompileError) Unwrap() error { return e.Err }

func compileErrorf(expr, format string, args ...interface{}) CompileError {
	return CompileError{Expression: expr, Err: fmt.Errorf(format, args...)}
}
