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

// DisjointMapping is a flat mapping from variable names to variables,
// partitioned into named disjoint groups. All names, grouped or not, share
// one namespace: adding a name that exists anywhere in the mapping fails
// with KeyExistsError no matter which group it targets. Each group is
// independently iterable in insertion order without duplicating storage.
//
// EPANET-MSX keeps a single flat symbol table for species, constants,
// parameters, and terms; the groups give the model typed iteration over the
// same storage.
type DisjointMapping struct {
	items   map[string]Variable
	order   []string
	groupOf map[string]string
	groups  map[string]*VariableGroup

	// gen counts mutations so that compiled-expression caches can detect
	// that symbol bindings may have changed.
	gen uint64
}

// VariableGroup is a view of one disjoint group within a DisjointMapping.
// It shares the mapping's storage; entries added through the group are
// visible in the flat mapping and vice versa.
type VariableGroup struct {
	m     *DisjointMapping
	name  string
	order []string
}

// NewDisjointMapping returns an empty mapping with no groups.
func NewDisjointMapping() *DisjointMapping {
	return &DisjointMapping{
		items:   make(map[string]Variable),
		groupOf: make(map[string]string),
		groups:  make(map[string]*VariableGroup),
	}
}

// AddGroup creates a new disjoint group and returns its view. If the group
// already exists, the existing view is returned.
func (m *DisjointMapping) AddGroup(name string) *VariableGroup {
	if g, ok := m.groups[name]; ok {
		return g
	}
	g := &VariableGroup{m: m, name: name}
	m.groups[name] = g
	return g
}

// Add inserts an ungrouped entry. It fails with KeyExistsError if the name
// exists anywhere in the mapping.
func (m *DisjointMapping) Add(name string, v Variable) error {
	return m.add("", name, v)
}

// AddToGroup inserts an entry into the named group, which must already have
// been created with AddGroup. It fails with KeyExistsError if the name
// exists anywhere in the mapping, grouped or not.
func (m *DisjointMapping) AddToGroup(group, name string, v Variable) error {
	if group != "" {
		if _, ok := m.groups[group]; !ok {
			return argErrorf("no variable group named %q", group)
		}
	}
	return m.add(group, name, v)
}

func (m *DisjointMapping) add(group, name string, v Variable) error {
	if _, ok := m.items[name]; ok {
		return KeyExistsError{Name: name}
	}
	m.items[name] = v
	m.order = append(m.order, name)
	m.groupOf[name] = group
	if group != "" {
		g := m.groups[group]
		g.order = append(g.order, name)
	}
	m.gen++
	return nil
}

// Get returns the variable stored under name.
func (m *DisjointMapping) Get(name string) (Variable, bool) {
	v, ok := m.items[name]
	return v, ok
}

// Has reports whether name exists anywhere in the mapping.
func (m *DisjointMapping) Has(name string) bool {
	_, ok := m.items[name]
	return ok
}

// GroupOf returns the name of the group that owns name, or "" if the entry
// is ungrouped or absent.
func (m *DisjointMapping) GroupOf(name string) string {
	return m.groupOf[name]
}

// Delete removes name from the mapping and from its owning group. It
// reports whether an entry was removed.
func (m *DisjointMapping) Delete(name string) bool {
	if _, ok := m.items[name]; !ok {
		return false
	}
	if group := m.groupOf[name]; group != "" {
		g := m.groups[group]
		for i, n := range g.order {
			if n == name {
				g.order = append(g.order[:i], g.order[i+1:]...)
				break
			}
		}
	}
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	delete(m.items, name)
	delete(m.groupOf, name)
	m.gen++
	return true
}

// Names returns every entry name, grouped or not, in insertion order.
func (m *DisjointMapping) Names() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// Variables returns every entry, grouped or not, in insertion order.
func (m *DisjointMapping) Variables() []Variable {
	vars := make([]Variable, 0, len(m.order))
	for _, name := range m.order {
		vars = append(vars, m.items[name])
	}
	return vars
}

// Len returns the number of entries in the flat mapping.
func (m *DisjointMapping) Len() int { return len(m.items) }

// Generation returns a counter that increases on every mutation.
func (m *DisjointMapping) Generation() uint64 { return m.gen }

// Name returns the group's name.
func (g *VariableGroup) Name() string { return g.name }

// Add inserts an entry into this group, enforcing flat-namespace
// uniqueness.
func (g *VariableGroup) Add(name string, v Variable) error {
	return g.m.add(g.name, name, v)
}

// Get returns the variable stored under name, but only if it belongs to
// this group.
func (g *VariableGroup) Get(name string) (Variable, bool) {
	if g.m.groupOf[name] != g.name {
		return nil, false
	}
	v, ok := g.m.items[name]
	return v, ok
}

// Has reports whether name belongs to this group.
func (g *VariableGroup) Has(name string) bool {
	_, ok := g.Get(name)
	return ok
}

// Len returns the number of entries in this group.
func (g *VariableGroup) Len() int { return len(g.order) }

// Names returns the group's entry names in insertion order.
func (g *VariableGroup) Names() []string {
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Variables returns the group's entries in insertion order.
func (g *VariableGroup) Variables() []Variable {
	vars := make([]Variable, 0, len(g.order))
	for _, name := range g.order {
		vars = append(vars, g.m.items[name])
	}
	return vars
}
