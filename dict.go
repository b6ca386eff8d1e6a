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
	"sort"

	"github.com/spf13/cast"
)

// Dict returns the model as plain data suitable for JSON or TOML
// encoding. Variables and reactions appear as lists in their iteration
// order; FromDict rebuilds an equal model from the result.
func (m *Model) Dict() Dict {
	d := Dict{
		"name":        m.Name,
		"title":       m.Title,
		"description": m.Description,
		"options":     m.Options.Dict(),
	}
	if len(m.References) > 0 {
		d["references"] = append([]string(nil), m.References...)
	}
	d["species"] = variableDicts(m.species)
	d["constants"] = variableDicts(m.constants)
	d["parameters"] = variableDicts(m.parameters)
	d["terms"] = variableDicts(m.terms)
	pipe := make([]Dict, 0, len(m.pipeOrder))
	for _, name := range m.pipeOrder {
		pipe = append(pipe, m.pipeRxns[name].Dict())
	}
	d["pipe_reactions"] = pipe
	tank := make([]Dict, 0, len(m.tankOrder))
	for _, name := range m.tankOrder {
		tank = append(tank, m.tankRxns[name].Dict())
	}
	d["tank_reactions"] = tank
	iq := make(map[string]Dict, len(m.initialQuality))
	for _, name := range m.species.Names() {
		if q, ok := m.initialQuality[name]; ok {
			iq[name] = q.Dict()
		}
	}
	d["initial_quality"] = iq
	sources := make(map[string][]Dict)
	for _, name := range m.species.Names() {
		srcs := m.sources[name]
		if len(srcs) == 0 {
			continue
		}
		nodes := make([]string, 0, len(srcs))
		for node := range srcs {
			nodes = append(nodes, node)
		}
		sort.Strings(nodes)
		out := make([]Dict, 0, len(nodes))
		for _, node := range nodes {
			out = append(out, srcs[node].Dict())
		}
		sources[name] = out
	}
	d["sources"] = sources
	return d
}

func variableDicts(g *VariableGroup) []Dict {
	out := make([]Dict, 0, g.Len())
	for _, v := range g.Variables() {
		out = append(out, v.Dict())
	}
	return out
}

// FromDict rebuilds a model from plain data as produced by Dict. Values
// decoded from JSON or TOML are coerced loosely, so integers may arrive
// where floats are expected and enum fields may be strings.
func FromDict(data Dict) (*Model, error) {
	m := New()
	var err error
	if m.Name, err = optString(data, "name"); err != nil {
		return nil, err
	}
	if m.Title, err = optString(data, "title"); err != nil {
		return nil, err
	}
	if m.Description, err = optString(data, "description"); err != nil {
		return nil, err
	}
	if raw, ok := data["references"]; ok {
		refs, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, argErrorf("references must be a list of strings, got %T", raw)
		}
		m.References = refs
	}
	if raw, ok := data["options"]; ok {
		od, err := asDict(raw)
		if err != nil {
			return nil, err
		}
		if err := m.Options.FromDict(od); err != nil {
			return nil, err
		}
	}
	if err := eachDict(data, "species", m.speciesFromDict); err != nil {
		return nil, err
	}
	if err := eachDict(data, "constants", m.constantFromDict); err != nil {
		return nil, err
	}
	if err := eachDict(data, "parameters", m.parameterFromDict); err != nil {
		return nil, err
	}
	if err := eachDict(data, "terms", m.termFromDict); err != nil {
		return nil, err
	}
	if err := eachDict(data, "pipe_reactions", func(d Dict) error { return m.reactionFromDict(Pipe, d) }); err != nil {
		return nil, err
	}
	if err := eachDict(data, "tank_reactions", func(d Dict) error { return m.reactionFromDict(Tank, d) }); err != nil {
		return nil, err
	}
	if raw, ok := data["initial_quality"]; ok {
		byName, err := asDict(raw)
		if err != nil {
			return nil, err
		}
		for name, rawIQ := range byName {
			qd, err := asDict(rawIQ)
			if err != nil {
				return nil, err
			}
			if err := m.initialQualityFromDict(name, qd); err != nil {
				return nil, err
			}
		}
	}
	if raw, ok := data["sources"]; ok {
		byName, err := asDict(raw)
		if err != nil {
			return nil, err
		}
		for name, rawSrcs := range byName {
			items, err := asDictSlice(rawSrcs)
			if err != nil {
				return nil, err
			}
			for _, sd := range items {
				if err := m.sourceFromDict(name, sd); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

func (m *Model) speciesFromDict(d Dict) error {
	name, err := reqString(d, "name")
	if err != nil {
		return err
	}
	speciesType, ok := d["species_type"]
	if !ok {
		return argErrorf("species %q is missing species_type", name)
	}
	units, err := optString(d, "units")
	if err != nil {
		return err
	}
	note, err := optString(d, "note")
	if err != nil {
		return err
	}
	atol, err := optFloatPtr(d, "atol")
	if err != nil {
		return err
	}
	rtol, err := optFloatPtr(d, "rtol")
	if err != nil {
		return err
	}
	s, err := m.AddSpecies(speciesType, name, units, atol, rtol, note)
	if err != nil {
		return err
	}
	if raw, ok := d["diffusivity"]; ok {
		if s.Diffusivity, err = coerceFloat(raw); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) constantFromDict(d Dict) error {
	name, err := reqString(d, "name")
	if err != nil {
		return err
	}
	value, err := reqFloat(d, "global_value")
	if err != nil {
		return err
	}
	units, err := optString(d, "units")
	if err != nil {
		return err
	}
	note, err := optString(d, "note")
	if err != nil {
		return err
	}
	_, err = m.AddConstant(name, value, units, note)
	return err
}

func (m *Model) parameterFromDict(d Dict) error {
	name, err := reqString(d, "name")
	if err != nil {
		return err
	}
	value, err := reqFloat(d, "global_value")
	if err != nil {
		return err
	}
	units, err := optString(d, "units")
	if err != nil {
		return err
	}
	note, err := optString(d, "note")
	if err != nil {
		return err
	}
	pipes, err := optFloatMap(d, "pipe_values")
	if err != nil {
		return err
	}
	tanks, err := optFloatMap(d, "tank_values")
	if err != nil {
		return err
	}
	_, err = m.AddParameter(name, value, units, note, pipes, tanks)
	return err
}

func (m *Model) termFromDict(d Dict) error {
	name, err := reqString(d, "name")
	if err != nil {
		return err
	}
	expression, err := reqString(d, "expression")
	if err != nil {
		return err
	}
	note, err := optString(d, "note")
	if err != nil {
		return err
	}
	_, err = m.AddOtherTerm(name, expression, note)
	return err
}

func (m *Model) reactionFromDict(location LocationType, d Dict) error {
	species, err := reqString(d, "species")
	if err != nil {
		return err
	}
	dynamics, ok := d["dynamics"]
	if !ok {
		return argErrorf("reaction for %q is missing dynamics", species)
	}
	expression, err := reqString(d, "expression")
	if err != nil {
		return err
	}
	note, err := optString(d, "note")
	if err != nil {
		return err
	}
	_, err = m.AddReaction(location, species, dynamics, expression, note)
	return err
}

func (m *Model) initialQualityFromDict(species string, d Dict) error {
	iq, err := m.InitialQualityFor(species)
	if err != nil {
		return err
	}
	if raw, ok := d["global"]; ok {
		v, err := coerceFloat(raw)
		if err != nil {
			return err
		}
		iq.Global = &v
	}
	nodes, err := optFloatMap(d, "nodes")
	if err != nil {
		return err
	}
	for k, v := range nodes {
		iq.Nodes[k] = v
	}
	links, err := optFloatMap(d, "links")
	if err != nil {
		return err
	}
	for k, v := range links {
		iq.Links[k] = v
	}
	return nil
}

func (m *Model) sourceFromDict(species string, d Dict) error {
	node, err := reqString(d, "node")
	if err != nil {
		return err
	}
	sourceType, ok := d["type"]
	if !ok {
		return argErrorf("source at node %q is missing type", node)
	}
	strength, err := reqFloat(d, "strength")
	if err != nil {
		return err
	}
	pattern, err := optString(d, "pattern")
	if err != nil {
		return err
	}
	note, err := optString(d, "note")
	if err != nil {
		return err
	}
	src, err := m.AddSource(species, node, sourceType, strength, pattern)
	if err != nil {
		return err
	}
	src.Note = note
	return nil
}

// FromDict applies plain data to the options, coercing loosely typed
// values. Keys not present keep their current values.
func (o *SolverOptions) FromDict(d Dict) error {
	if raw, ok := d["timestep"]; ok {
		if err := o.SetTimestep(raw); err != nil {
			return err
		}
	}
	var err error
	if raw, ok := d["area_units"]; ok {
		if o.AreaUnits, err = GetAreaUnits(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["rate_units"]; ok {
		if o.RateUnits, err = GetRateUnits(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["solver"]; ok {
		if o.Solver, err = GetSolverType(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["coupling"]; ok {
		if o.Coupling, err = GetCouplingType(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["atol"]; ok {
		if err := o.SetAtol(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["rtol"]; ok {
		if err := o.SetRtol(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["compiler"]; ok {
		if o.Compiler, err = GetCompilerType(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["segments"]; ok {
		if err := o.SetSegments(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["peclet"]; ok {
		if err := o.SetPeclet(raw); err != nil {
			return err
		}
	}
	if raw, ok := d["report"]; ok {
		rd, err := asDict(raw)
		if err != nil {
			return err
		}
		if err := o.Report.FromDict(rd); err != nil {
			return err
		}
	}
	return nil
}

// FromDict applies plain data to the report options.
func (r *ReportOptions) FromDict(d Dict) error {
	if raw, ok := d["pagesize"]; ok {
		v, err := cast.ToIntE(raw)
		if err != nil {
			return argErrorf("pagesize must be an integer, got %v", raw)
		}
		r.PageSize = v
	}
	var err error
	if r.Filename, err = optString(d, "report_filename"); err != nil {
		return err
	}
	if raw, ok := d["species"]; ok {
		sd, err := asDict(raw)
		if err != nil {
			return err
		}
		if r.Species == nil {
			r.Species = make(map[string]bool, len(sd))
		}
		for k, v := range sd {
			b, err := cast.ToBoolE(v)
			if err != nil {
				return argErrorf("report species %q must be a boolean, got %v", k, v)
			}
			r.Species[k] = b
		}
	}
	if raw, ok := d["species_precision"]; ok {
		pd, err := asDict(raw)
		if err != nil {
			return err
		}
		if r.SpeciesPrecision == nil {
			r.SpeciesPrecision = make(map[string]int, len(pd))
		}
		for k, v := range pd {
			n, err := cast.ToIntE(v)
			if err != nil {
				return argErrorf("report precision for %q must be an integer, got %v", k, v)
			}
			r.SpeciesPrecision[k] = n
		}
	}
	if raw, ok := d["nodes"]; ok {
		if r.Nodes, err = cast.ToStringSliceE(raw); err != nil {
			return argErrorf("report nodes must be a list of strings, got %T", raw)
		}
	}
	if raw, ok := d["links"]; ok {
		if r.Links, err = cast.ToStringSliceE(raw); err != nil {
			return argErrorf("report links must be a list of strings, got %T", raw)
		}
	}
	return nil
}

// asDict coerces a decoded value to a Dict. JSON decodes objects to
// map[string]interface{}; TOML may produce either form; Dict itself emits
// typed maps for report toggles and precisions.
func asDict(value interface{}) (Dict, error) {
	switch v := value.(type) {
	case Dict:
		return v, nil
	case map[string]interface{}:
		return Dict(v), nil
	case map[string]bool:
		d := make(Dict, len(v))
		for k, b := range v {
			d[k] = b
		}
		return d, nil
	case map[string]int:
		d := make(Dict, len(v))
		for k, n := range v {
			d[k] = n
		}
		return d, nil
	case map[string]float64:
		d := make(Dict, len(v))
		for k, f := range v {
			d[k] = f
		}
		return d, nil
	}
	return nil, argErrorf("expected a mapping, got %T", value)
}

func asDictSlice(value interface{}) ([]Dict, error) {
	switch v := value.(type) {
	case []Dict:
		return v, nil
	case []interface{}:
		out := make([]Dict, 0, len(v))
		for _, item := range v {
			d, err := asDict(item)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case []map[string]interface{}:
		out := make([]Dict, 0, len(v))
		for _, item := range v {
			out = append(out, Dict(item))
		}
		return out, nil
	}
	return nil, argErrorf("expected a list of mappings, got %T", value)
}

func eachDict(data Dict, key string, f func(Dict) error) error {
	raw, ok := data[key]
	if !ok {
		return nil
	}
	items, err := asDictSlice(raw)
	if err != nil {
		return argErrorf("%s: %v", key, err)
	}
	for _, d := range items {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

func reqString(d Dict, key string) (string, error) {
	raw, ok := d[key]
	if !ok {
		return "", argErrorf("missing required key %q", key)
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", argErrorf("%s must be a string, got %T", key, raw)
	}
	return s, nil
}

func optString(d Dict, key string) (string, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", argErrorf("%s must be a string, got %T", key, raw)
	}
	return s, nil
}

func reqFloat(d Dict, key string) (float64, error) {
	raw, ok := d[key]
	if !ok {
		return 0, argErrorf("missing required key %q", key)
	}
	return coerceFloat(raw)
}

func optFloatPtr(d Dict, key string) (*float64, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, err := coerceFloat(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optFloatMap(d Dict, key string) (map[string]float64, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case map[string]float64:
		out := make(map[string]float64, len(v))
		for k, f := range v {
			out[k] = f
		}
		return out, nil
	default:
		md, err := asDict(raw)
		if err != nil {
			return nil, argErrorf("%s must map names to numbers, got %T", key, raw)
		}
		out := make(map[string]float64, len(md))
		for k, item := range md {
			f, err := coerceFloat(item)
			if err != nil {
				return nil, argErrorf("%s[%q]: %v", key, k, err)
			}
			out[k] = f
		}
		return out, nil
	}
}
