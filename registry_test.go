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
	"reflect"
	"testing"
)

func TestDisjointMappingGroups(t *testing.T) {
	m := NewDisjointMapping()
	a := m.AddGroup("a")
	b := m.AddGroup("b")

	if err := a.Add("x", NewInternalVariable("x", "", "")); err != nil {
		t.Fatal(err)
	}
	if err := b.Add("y", NewInternalVariable("y", "", "")); err != nil {
		t.Fatal(err)
	}

	// The namespace is flat, so a name used in one group is taken in all
	// of them.
	err := b.Add("x", NewInternalVariable("x", "", ""))
	if _, ok := err.(KeyExistsError); !ok {
		t.Errorf("adding x to a second group: got %v, want KeyExistsError", err)
	}
	err = m.Add("x", NewInternalVariable("x", "", ""))
	if _, ok := err.(KeyExistsError); !ok {
		t.Errorf("adding x ungrouped: got %v, want KeyExistsError", err)
	}

	if got := m.GroupOf("x"); got != "a" {
		t.Errorf("GroupOf(x) = %q, want %q", got, "a")
	}
	if got := m.GroupOf("y"); got != "b" {
		t.Errorf("GroupOf(y) = %q, want %q", got, "b")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestDisjointMappingOrder(t *testing.T) {
	m := NewDisjointMapping()
	g := m.AddGroup("g")
	for _, name := range []string{"c", "a", "b"} {
		if err := g.Add(name, NewInternalVariable(name, "", "")); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Add("z", NewInternalVariable("z", "", "")); err != nil {
		t.Fatal(err)
	}

	want := []string{"c", "a", "b", "z"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	wantGroup := []string{"c", "a", "b"}
	if got := g.Names(); !reflect.DeepEqual(got, wantGroup) {
		t.Errorf("group Names() = %v, want %v", got, wantGroup)
	}

	if !m.Delete("a") {
		t.Fatal("Delete(a) = false, want true")
	}
	want = []string{"c", "b", "z"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after delete = %v, want %v", got, want)
	}
	wantGroup = []string{"c", "b"}
	if got := g.Names(); !reflect.DeepEqual(got, wantGroup) {
		t.Errorf("group Names() after delete = %v, want %v", got, wantGroup)
	}
	if m.Delete("a") {
		t.Error("Delete(a) twice = true, want false")
	}
}

func TestDisjointMappingGeneration(t *testing.T) {
	m := NewDisjointMapping()
	gen := m.Generation()
	if err := m.Add("x", NewInternalVariable("x", "", "")); err != nil {
		t.Fatal(err)
	}
	if m.Generation() == gen {
		t.Error("generation unchanged after Add")
	}
	gen = m.Generation()
	m.Delete("x")
	if m.Generation() == gen {
		t.Error("generation unchanged after Delete")
	}
}

func TestDisjointMappingUnknownGroup(t *testing.T) {
	m := NewDisjointMapping()
	err := m.AddToGroup("nope", "x", NewInternalVariable("x", "", ""))
	if _, ok := err.(ArgumentError); !ok {
		t.Errorf("AddToGroup with unknown group: got %v, want ArgumentError", err)
	}
}
