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

// Package enumtool resolves loosely specified enum values. External model
// readers pass enum members as integers, members, or strings in any case,
// with spaces or dashes for underscores, optionally prefixed, and sometimes
// abbreviated to a single letter; Resolve maps all of those onto the
// canonical member.
package enumtool

import (
	"fmt"
	"strings"
)

// Resolve returns the member of an enumeration matching value, which may be
// a member of E, an integer with a member's numeric value, or a string
// naming a member.
//
// A string is resolved by uppercasing, trimming surrounding space, and
// replacing interior spaces and dashes with underscores; if the result
// starts with prefix, the prefix is stripped. The normalized name is then
// looked up in names. If that lookup fails and abbrev is true, the lookup is
// retried with just the first character of the normalized name, so that for
// example "pipe", "PIPE", "Pipe", and "p" all resolve to the same member.
//
// Resolve returns an error satisfying IsUnknownValue for a value that does
// not match any member, and one satisfying IsBadType for an unsupported
// input type.
func Resolve[E ~int](names map[string]E, value interface{}, prefix string, abbrev bool) (E, error) {
	var zero E
	switch v := value.(type) {
	case E:
		return v, nil
	case int:
		return resolveInt(names, v, value)
	case int64: // TOML decodes integers as int64
		return resolveInt(names, int(v), value)
	case float64: // JSON decodes all numbers as float64
		if v != float64(int(v)) {
			return zero, UnknownValueError{Value: value}
		}
		return resolveInt(names, int(v), value)
	case string:
		name := strings.ToUpper(strings.TrimSpace(v))
		name = strings.ReplaceAll(name, "-", "_")
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.TrimPrefix(name, prefix)
		if member, ok := names[name]; ok {
			return member, nil
		}
		if abbrev && len(name) > 0 {
			if member, ok := names[name[:1]]; ok {
				return member, nil
			}
		}
		return zero, UnknownValueError{Value: value}
	default:
		return zero, BadTypeError{Value: value}
	}
}

func resolveInt[E ~int](names map[string]E, v int, value interface{}) (E, error) {
	var zero E
	for _, member := range names {
		if int(member) == v {
			return member, nil
		}
	}
	return zero, UnknownValueError{Value: value}
}

// UnknownValueError reports a value that matches no member of the
// enumeration.
type UnknownValueError struct {
	Value interface{}
}

func (e UnknownValueError) Error() string {
	return fmt.Sprintf("enumtool: unknown enum value %v", e.Value)
}

// BadTypeError reports an input type that cannot be resolved to an enum
// member.
type BadTypeError struct {
	Value interface{}
}

func (e BadTypeError) Error() string {
	return fmt.Sprintf("enumtool: invalid type for enum value: %T", e.Value)
}

// IsUnknownValue reports whether err is an UnknownValueError.
func IsUnknownValue(err error) bool {
	_, ok := err.(UnknownValueError)
	return ok
}

// IsBadType reports whether err is a BadTypeError.
func IsBadType(err error) bool {
	_, ok := err.(BadTypeError)
	return ok
}
