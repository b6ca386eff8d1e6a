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
	"github.com/spf13/cast"

	"github.com/watermodel/msx/internal/enumtool"
)

// SolverType selects the numerical integration method.
type SolverType int

const (
	// EUL is the Euler method.
	EUL SolverType = 0
	// RK5 is the 5th-order Runge-Kutta method.
	RK5 SolverType = 1
	// ROS2 is the 2nd-order Rosenbrock method.
	ROS2 SolverType = 2
)

var solverTypeNames = map[string]SolverType{
	"EUL": EUL, "RK5": RK5, "ROS2": ROS2,
}

func (t SolverType) String() string {
	switch t {
	case EUL:
		return "EUL"
	case RK5:
		return "RK5"
	case ROS2:
		return "ROS2"
	}
	return "INVALID"
}

// GetSolverType resolves a SolverType from a member, integer, or string.
func GetSolverType(value interface{}) (SolverType, error) {
	t, err := enumtool.Resolve(solverTypeNames, value, "MSX_", false)
	if err != nil {
		return 0, argErrorf("invalid solver type: %v", err)
	}
	return t, nil
}

// CouplingType selects whether equilibrium expressions are solved coupled
// with the integration step.
type CouplingType int

const (
	// NoCoupling solves equilibrium expressions after each step.
	NoCoupling CouplingType = 0
	// FullCoupling solves equilibrium expressions within each step.
	FullCoupling CouplingType = 1
)

var couplingTypeNames = map[string]CouplingType{
	"NONE": NoCoupling, "NO_COUPLING": NoCoupling,
	"FULL": FullCoupling, "FULL_COUPLING": FullCoupling,
}

func (t CouplingType) String() string {
	if t == FullCoupling {
		return "FULL"
	}
	return "NONE"
}

// GetCouplingType resolves a CouplingType from a member, integer, or
// string.
func GetCouplingType(value interface{}) (CouplingType, error) {
	t, err := enumtool.Resolve(couplingTypeNames, value, "MSX_", false)
	if err != nil {
		return 0, argErrorf("invalid coupling type: %v", err)
	}
	return t, nil
}

// AreaUnits gives the units for pipe wall surface area in concentration
// expressions.
type AreaUnits int

// Valid area units.
const (
	FT2 AreaUnits = 0
	M2  AreaUnits = 1
	CM2 AreaUnits = 2
)

var areaUnitsNames = map[string]AreaUnits{
	"FT2": FT2, "M2": M2, "CM2": CM2,
}

func (u AreaUnits) String() string {
	switch u {
	case FT2:
		return "FT2"
	case M2:
		return "M2"
	case CM2:
		return "CM2"
	}
	return "INVALID"
}

// GetAreaUnits resolves an AreaUnits from a member, integer, or string.
func GetAreaUnits(value interface{}) (AreaUnits, error) {
	u, err := enumtool.Resolve(areaUnitsNames, value, "MSX_", false)
	if err != nil {
		return 0, argErrorf("invalid area units: %v", err)
	}
	return u, nil
}

// RateUnits gives the time units used in all rate expressions.
type RateUnits int

// Valid rate units.
const (
	PerSecond RateUnits = 0
	PerMinute RateUnits = 1
	PerHour   RateUnits = 2
	PerDay    RateUnits = 3
)

var rateUnitsNames = map[string]RateUnits{
	"SEC": PerSecond, "SECONDS": PerSecond,
	"MIN": PerMinute, "MINUTES": PerMinute,
	"HR": PerHour, "HOURS": PerHour,
	"DAY": PerDay, "DAYS": PerDay,
}

func (u RateUnits) String() string {
	switch u {
	case PerSecond:
		return "SEC"
	case PerMinute:
		return "MIN"
	case PerHour:
		return "HR"
	case PerDay:
		return "DAY"
	}
	return "INVALID"
}

// GetRateUnits resolves a RateUnits from a member, integer, or string.
func GetRateUnits(value interface{}) (RateUnits, error) {
	u, err := enumtool.Resolve(rateUnitsNames, value, "MSX_", false)
	if err != nil {
		return 0, argErrorf("invalid rate units: %v", err)
	}
	return u, nil
}

// CompilerType selects whether EPANET-MSX compiles reaction dynamics to
// native code before solving.
type CompilerType int

const (
	// NoCompiler interprets reaction dynamics.
	NoCompiler CompilerType = 0
	// VC compiles reaction dynamics with Visual C.
	VC CompilerType = 1
	// GC compiles reaction dynamics with GNU C.
	GC CompilerType = 2
)

var compilerTypeNames = map[string]CompilerType{
	"NONE": NoCompiler, "NO_COMPILER": NoCompiler,
	"VC": VC, "GC": GC,
}

func (t CompilerType) String() string {
	switch t {
	case VC:
		return "VC"
	case GC:
		return "GC"
	}
	return "NONE"
}

// GetCompilerType resolves a CompilerType from a member, integer, or
// string.
func GetCompilerType(value interface{}) (CompilerType, error) {
	t, err := enumtool.Resolve(compilerTypeNames, value, "MSX_", false)
	if err != nil {
		return 0, argErrorf("invalid compiler type: %v", err)
	}
	return t, nil
}

// SolverOptions configures the external numerical solver. Use
// DefaultSolverOptions for the EPANET-MSX defaults; the Set methods coerce
// and validate loosely typed values the way model file readers supply them.
type SolverOptions struct {
	// Timestep is the water quality timestep in seconds, at least 1.
	Timestep int
	// AreaUnits gives surface area units in concentration forms.
	AreaUnits AreaUnits
	// RateUnits gives the time units of rate expressions.
	RateUnits RateUnits
	// Solver selects the integration method.
	Solver SolverType
	// Coupling selects equilibrium coupling during integration.
	Coupling CouplingType
	// Atol is the global absolute concentration tolerance, overridable
	// per species.
	Atol float64
	// Rtol is the global relative concentration tolerance, overridable
	// per species.
	Rtol float64
	// Compiler selects native compilation of reaction dynamics.
	Compiler CompilerType
	// Segments is the maximum number of segments per pipe.
	Segments int
	// Peclet is the threshold Peclet number for applying dispersion.
	Peclet int
	// Report configures report output.
	Report ReportOptions
}

// DefaultSolverOptions returns the EPANET-MSX default options.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Timestep:  360,
		AreaUnits: M2,
		RateUnits: PerMinute,
		Solver:    RK5,
		Coupling:  NoCoupling,
		Atol:      1.0e-4,
		Rtol:      1.0e-4,
		Compiler:  NoCompiler,
		Segments:  5000,
		Peclet:    1000,
		Report:    ReportOptions{Species: map[string]bool{}, SpeciesPrecision: map[string]int{}},
	}
}

// SetTimestep coerces value to an integer timestep, clamping to a minimum
// of 1 second.
func (o *SolverOptions) SetTimestep(value interface{}) error {
	v, err := cast.ToIntE(value)
	if err != nil {
		return argErrorf("timestep must be an integer >= 1, got %v", value)
	}
	if v < 1 {
		v = 1
	}
	o.Timestep = v
	return nil
}

// SetAtol coerces value to the global absolute tolerance.
func (o *SolverOptions) SetAtol(value interface{}) error {
	v, err := coerceFloat(value)
	if err != nil {
		return argErrorf("atol must be a number, got %v", value)
	}
	o.Atol = v
	return nil
}

// SetRtol coerces value to the global relative tolerance.
func (o *SolverOptions) SetRtol(value interface{}) error {
	v, err := coerceFloat(value)
	if err != nil {
		return argErrorf("rtol must be a number, got %v", value)
	}
	o.Rtol = v
	return nil
}

// SetSegments coerces value to the maximum segment count.
func (o *SolverOptions) SetSegments(value interface{}) error {
	v, err := cast.ToIntE(value)
	if err != nil {
		return argErrorf("segments must be a number, got %v", value)
	}
	o.Segments = v
	return nil
}

// SetPeclet coerces value to the Peclet threshold.
func (o *SolverOptions) SetPeclet(value interface{}) error {
	v, err := cast.ToIntE(value)
	if err != nil {
		return argErrorf("peclet must be a number, got %v", value)
	}
	o.Peclet = v
	return nil
}

// Dict returns the options as plain data.
func (o *SolverOptions) Dict() Dict {
	return Dict{
		"timestep":   o.Timestep,
		"area_units": o.AreaUnits.String(),
		"rate_units": o.RateUnits.String(),
		"solver":     o.Solver.String(),
		"coupling":   o.Coupling.String(),
		"atol":       o.Atol,
		"rtol":       o.Rtol,
		"compiler":   o.Compiler.String(),
		"segments":   o.Segments,
		"peclet":     o.Peclet,
		"report":     o.Report.Dict(),
	}
}

// Equal reports whether two option sets are identical.
func (o *SolverOptions) Equal(other *SolverOptions) bool {
	return o.Timestep == other.Timestep &&
		o.AreaUnits == other.AreaUnits &&
		o.RateUnits == other.RateUnits &&
		o.Solver == other.Solver &&
		o.Coupling == other.Coupling &&
		o.Atol == other.Atol &&
		o.Rtol == other.Rtol &&
		o.Compiler == other.Compiler &&
		o.Segments == other.Segments &&
		o.Peclet == other.Peclet &&
		o.Report.Equal(&other.Report)
}

// ReportOptions configures EPANET-MSX report output.
type ReportOptions struct {
	// PageSize is the report page length in lines; 0 uses the default.
	PageSize int
	// Filename is the report file name; empty uses the run prefix plus
	// ".rpt".
	Filename string
	// Species toggles concentration output per species; species not
	// present are not reported.
	Species map[string]bool
	// SpeciesPrecision overrides output decimal places per species.
	SpeciesPrecision map[string]int
	// Nodes lists the nodes to report, or the single entry "ALL".
	Nodes []string
	// Links lists the links to report, or the single entry "ALL".
	Links []string
}

// Dict returns the report options as plain data.
func (r *ReportOptions) Dict() Dict {
	d := Dict{}
	if r.PageSize != 0 {
		d["pagesize"] = r.PageSize
	}
	if r.Filename != "" {
		d["report_filename"] = r.Filename
	}
	species := make(map[string]bool, len(r.Species))
	for k, v := range r.Species {
		species[k] = v
	}
	d["species"] = species
	precision := make(map[string]int, len(r.SpeciesPrecision))
	for k, v := range r.SpeciesPrecision {
		precision[k] = v
	}
	d["species_precision"] = precision
	if r.Nodes != nil {
		d["nodes"] = append([]string(nil), r.Nodes...)
	}
	if r.Links != nil {
		d["links"] = append([]string(nil), r.Links...)
	}
	return d
}

// Equal reports whether two report option sets are identical.
func (r *ReportOptions) Equal(other *ReportOptions) bool {
	if r.PageSize != other.PageSize || r.Filename != other.Filename {
		return false
	}
	if len(r.Species) != len(other.Species) {
		return false
	}
	for k, v := range r.Species {
		if ov, ok := other.Species[k]; !ok || ov != v {
			return false
		}
	}
	if len(r.SpeciesPrecision) != len(other.SpeciesPrecision) {
		return false
	}
	for k, v := range r.SpeciesPrecision {
		if ov, ok := other.SpeciesPrecision[k]; !ok || ov != v {
			return false
		}
	}
	return stringSlicesEqual(r.Nodes, other.Nodes) && stringSlicesEqual(r.Links, other.Links)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
