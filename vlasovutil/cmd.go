/*
Copyright © 2020 the Vlasov authors.
This file is part of Vlasov.

Vlasov is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Vlasov is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Vlasov.  If not, see <http://www.gnu.org/licenses/>.
*/

package vlasovutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/vlasov"
	"github.com/spatialmodel/vlasov/eval"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	runFlags := runCmd.Flags()
	// Options are the configuration options available to Vlasov.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "nx",
			usage: `
              nx is the number of spatial grid cells.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "nv",
			usage: `
              nv is the number of velocity grid cells.`,
			defaultVal: 512,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "xmin",
			usage: `
              xmin is the lower edge of the periodic spatial domain.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "xmax",
			usage: `
              xmax is the upper edge of the periodic spatial domain. It is
              ignored if k0 is greater than zero, in which case the domain holds
              exactly one wavelength of k0.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "k0",
			usage: `
              k0 is the wavenumber of the electron plasma wave that is driven
              and analyzed.`,
			defaultVal: 0.3,
			flagsets:   []*pflag.FlagSet{runFlags, dispersionCmd.Flags()},
		},
		{
			name: "vmax",
			usage: `
              vmax is the velocity at which the velocity grid is truncated.`,
			defaultVal: 6.4,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "tmax",
			usage: `
              tmax is the simulation end time, in units of the inverse plasma
              frequency.`,
			defaultVal: 80.0,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "nt",
			usage: `
              nt is the number of recorded times, including the initial
              state. The time step is tmax/(nt-1).`,
			defaultVal: 500,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "nu",
			usage: `
              nu is the electron-electron collision frequency.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "a0",
			usage: `
              a0 is the amplitude of the default driver pulse.`,
			defaultVal: 4e-7,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "w0",
			usage: `
              w0 is the frequency of the default driver pulse. If it is zero,
              the real part of the electron plasma wave root for k0 is used.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "pulses",
			usage: `
              pulses is the path to a TOML file describing the driver pulses.
              Each table in the file is one pulse. If pulses is empty, a
              single tanh pulse with wavenumber k0, frequency w0 and amplitude
              a0 is used. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "vlasov-poisson.time",
			usage: `
              vlasov-poisson.time is the time integrator. Valid options
              are "leapfrog", "pefrl" and "h-sixth".`,
			defaultVal: string(vlasov.Leapfrog),
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "vlasov-poisson.vdfdx",
			usage: `
              vlasov-poisson.vdfdx is the spatial advection method. Valid
              options are "exponential" and "sl".`,
			defaultVal: "exponential",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "vlasov-poisson.edfdv",
			usage: `
              vlasov-poisson.edfdv is the velocity advection method. Valid
              options are "exponential", "cd2", "sl" and "lw5".`,
			defaultVal: "exponential",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "vlasov-poisson.poisson",
			usage: `
              vlasov-poisson.poisson is the field solver. Currently "spectral"
              is the only option.`,
			defaultVal: "spectral",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "fokker-planck.type",
			usage: `
              fokker-planck.type is the collision operator. Valid options are
              "lb" (Lenard-Bernstein), "dg" (Dougherty) and "none".`,
			defaultVal: "lb",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "fokker-planck.solver",
			usage: `
              fokker-planck.solver is the algorithm used for the implicit
              collision step. Valid options are "batched_tridiagonal" and
              "naive".`,
			defaultVal: "batched_tridiagonal",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "store_f",
			usage: `
              store_f specifies how the distribution function is recorded.
              "modes" records the lowest num_modes spatial Fourier modes and
              "all" records the full distribution function.`,
			defaultVal: "modes",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "num_modes",
			usage: `
              num_modes is the number of spatial Fourier modes of the
              distribution function to record when store_f is "modes".`,
			defaultVal: 2,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "max_gb",
			usage: `
              max_gb is the approximate amount of memory, in gigabytes, to
              use for records held between writes to the output file.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "diagnostics",
			usage: `
              diagnostics specifies the analysis to run after the simulation.
              Valid options are "landau" and "none".`,
			defaultVal: "landau",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired NetCDF output file. It can
              include environment variables.`,
			defaultVal: "vlasov_output.nc",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runFlags},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("VLASOV")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
			case int:
				set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
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
	Root.AddCommand(runCmd)
	Root.AddCommand(dispersionCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("vlasov: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "vlasov",
	Short: "A 1D-1V Vlasov-Poisson-Fokker-Planck solver.",
	Long: `Vlasov simulates the electron distribution function of a collisional,
electrostatic plasma in one spatial and one velocity dimension against a
fixed ion background. Use the subcommands specified below to access the model
functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'VLASOV_var' where 'var' is the
name of the variable to be set, with '.' and '-' replaced by '_'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Vlasov.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Vlasov v%s\n", vlasov.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run carries out a simulation as specified by the configuration and
writes the results to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		_, err = Run(cmd.OutOrStdout(), c)
		return err
	},
	DisableAutoGenTag: true,
}

// dispersionCmd prints the electron plasma wave root for a wavenumber.
var dispersionCmd = &cobra.Command{
	Use:   "dispersion",
	Short: "Print the electron plasma wave root.",
	Long: `dispersion prints the complex frequency of the least damped electron
plasma wave with wavenumber k0 in a Maxwellian plasma, in units of the
plasma frequency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		k0 := Cfg.GetFloat64("k0")
		root, err := roots.EPWRoot(context.Background(), eval.Unit, k0)
		if err != nil {
			return err
		}
		cmd.Printf("k0=%g w=%.6f nu_ld=%.6g v_ph=%.6f\n", k0, real(root), imag(root), real(root)/k0)
		return nil
	},
	DisableAutoGenTag: true,
}
