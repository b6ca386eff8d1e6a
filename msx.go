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

// Package msx implements the variable registry and reaction model for
// multispecies water quality simulation in piped drinking-water networks,
// following the EPANET-MSX data model.
//
// A Model holds named chemical or biological species, constant and
// parameterized coefficients, and named sub-expressions (terms), all sharing
// one flat namespace, together with the reaction dynamics that govern each
// species inside pipes and tanks. Reaction expressions are ordinary
// mathematical text referencing those names plus the hydraulic variables
// supplied per timestep by an external hydraulic engine; the package compiles
// them to an evaluable form for use by an external numerical solver.
//
// The package does not integrate the reaction equations, run hydraulics, or
// parse MSX input files; it is the in-memory model those components build on.
package msx

// Version gives the version number of this library.
const Version = "1.0.0"

// Dict is the plain-data representation used for serializing models,
// variables, and reactions. Every Dict produced by this package can be
// round-tripped through FromDict to yield a structurally equal model.
type Dict map[string]interface{}
