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

package msxutil

import (
	"fmt"
	"io"

	"github.com/watermodel/msx"
)

// Validate compiles every term and reaction expression in m and writes a
// summary to w. It returns an error describing the first problem found, or
// nil if the whole model compiles.
func Validate(w io.Writer, m *msx.Model) error {
	name := m.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "model %s: %d species, %d constants, %d parameters, %d terms\n",
		name, len(m.SpeciesNames()), len(m.ConstantNames()),
		len(m.ParameterNames()), len(m.TermNames()))

	for _, termName := range m.TermNames() {
		v, err := m.GetVariable(termName)
		if err != nil {
			return err
		}
		t := v.(*msx.Term)
		if _, err := m.CompileExpression(t.Expression); err != nil {
			return fmt.Errorf("msx: term %q: %v", termName, err)
		}
	}
	fmt.Fprintf(w, "all %d terms compile\n", len(m.TermNames()))

	n := 0
	for _, r := range m.Reactions(0) {
		if _, err := m.CompileReaction(r.SpeciesName(), r.Location()); err != nil {
			return fmt.Errorf("msx: %s reaction for %q: %v",
				r.Location(), r.SpeciesName(), err)
		}
		n++
	}
	fmt.Fprintf(w, "all %d reactions compile\n", n)

	// Species with no reaction anywhere are usually a modeling mistake,
	// but not an error.
	for _, speciesName := range m.SpeciesNames() {
		pipe, err := m.GetReaction(speciesName, msx.Pipe)
		if err != nil {
			return err
		}
		tank, err := m.GetReaction(speciesName, msx.Tank)
		if err != nil {
			return err
		}
		if pipe == nil && tank == nil {
			fmt.Fprintf(w, "warning: species %q has no reactions\n", speciesName)
		}
	}
	return nil
}
