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

// Package msxutil wires the msx library into a command-line program for
// inspecting, validating, and converting reaction model files.
package msxutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/watermodel/msx"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the msx command.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ModelFile",
			usage: `
              ModelFile is the path to the reaction model file to operate on,
              in JSON or TOML format. The path can include environment
              variables.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the converted model file should be
              written. The format is chosen from the file extension: .json or
              .toml.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "fallback",
			usage: `
              fallback specifies whether to validate expressions with the
              self-contained numeric engine instead of the default expression
              library.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{validateCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MSX")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(validateCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(reservedCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("msx: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// loadModel reads the model named by the ModelFile option.
func loadModel() (*msx.Model, error) {
	path := os.ExpandEnv(Cfg.GetString("ModelFile"))
	if path == "" {
		return nil, fmt.Errorf("msx: no model file; use the --ModelFile flag")
	}
	logrus.WithField("file", path).Info("reading reaction model")
	return msx.ReadFile(path)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "msx",
	Short: "A multispecies water quality reaction model.",
	Long: `msx manages reaction models for multispecies water quality simulation
in piped drinking-water networks, following the EPANET-MSX data model.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'MSX_var' where
'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of msx.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("msx v%s\n", msx.Version)
	},
	DisableAutoGenTag: true,
}

// validateCmd reads a model file and compiles every term and reaction
// expression in it.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a reaction model file.",
	Long: `validate reads a reaction model file and compiles every term and
reaction expression in it, reporting names that are undefined, reserved, or
used twice. The command exits with an error if the model is not usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadModel()
		if err != nil {
			return err
		}
		if Cfg.GetBool("fallback") {
			m.SetEngine(msx.FallbackEngine())
		}
		return Validate(cmd.OutOrStdout(), m)
	},
	DisableAutoGenTag: true,
}

// convertCmd converts a model file between the JSON and TOML formats.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a model file between formats.",
	Long: `convert reads a reaction model file and writes it to the path given
by the --OutputFile flag. The input and output formats are chosen from the
file extensions, so converting between JSON and TOML is a matter of naming
the output file accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadModel()
		if err != nil {
			return err
		}
		out := os.ExpandEnv(Cfg.GetString("OutputFile"))
		if out == "" {
			return fmt.Errorf("msx: no output file; use the --OutputFile flag")
		}
		logrus.WithField("file", out).Info("writing reaction model")
		return m.WriteFile(out)
	},
	DisableAutoGenTag: true,
}

// reservedCmd lists the names that models cannot use.
var reservedCmd = &cobra.Command{
	Use:   "reserved",
	Short: "List the reserved names.",
	Long: `reserved lists every name that cannot be used for a model variable:
the hydraulic variables and the built-in function names in each accepted
spelling.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range msx.ReservedNames() {
			cmd.Println(name)
		}
	},
	DisableAutoGenTag: true,
}
