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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ReadJSON decodes a model from JSON.
func ReadJSON(r io.Reader) (*Model, error) {
	var data map[string]interface{}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("msx: decoding model JSON: %v", err)
	}
	return FromDict(Dict(data))
}

// WriteJSON encodes a model as indented JSON.
func (m *Model) WriteJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "    ")
	if err := e.Encode(m.Dict()); err != nil {
		return fmt.Errorf("msx: encoding model JSON: %v", err)
	}
	return nil
}

// ReadTOML decodes a model from TOML.
func ReadTOML(r io.Reader) (*Model, error) {
	var data map[string]interface{}
	if _, err := toml.DecodeReader(r, &data); err != nil {
		return nil, fmt.Errorf("msx: decoding model TOML: %v", err)
	}
	return FromDict(Dict(data))
}

// WriteTOML encodes a model as TOML.
func (m *Model) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(m.Dict()); err != nil {
		return fmt.Errorf("msx: encoding model TOML: %v", err)
	}
	return nil
}

// ReadFile loads a model from a file, choosing the format from the file
// extension: ".json" or ".toml".
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("msx: opening model file: %v", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".toml":
		return ReadTOML(f)
	}
	return nil, fmt.Errorf("msx: model file %s must have a .json or .toml extension", path)
}

// WriteFile saves a model to a file, choosing the format from the file
// extension: ".json" or ".toml".
func (m *Model) WriteFile(path string) error {
	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = m.WriteJSON
	case ".toml":
		write = m.WriteTOML
	default:
		return fmt.Errorf("msx: model file %s must have a .json or .toml extension", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("msx: creating model file: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
