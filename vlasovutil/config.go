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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/vlasov"
	"github.com/spatialmodel/vlasov/eval"
	"github.com/spatialmodel/vlasov/internal/hash"
	"github.com/spatialmodel/vlasov/science/advect"
	"github.com/spatialmodel/vlasov/science/collide"
	"github.com/spf13/cast"
)

// roots caches electron plasma wave roots across runs.
var roots = eval.NewRootCache(1000)

// Diagnostic specifies the analysis carried out after a simulation.
type Diagnostic string

// Available diagnostics.
const (
	Landau       Diagnostic = "landau"
	NoDiagnostic Diagnostic = "none"
)

// VlasovPoisson holds the numerical methods of the collisionless part of
// the update.
type VlasovPoisson struct {
	Time    vlasov.Integrator `toml:"time"`
	VdfDx   advect.Method     `toml:"vdfdx"`
	EdfDv   advect.Method     `toml:"edfdv"`
	Poisson string            `toml:"poisson"`
}

// FokkerPlanck holds the collision operator and its solver.
type FokkerPlanck struct {
	Type   collide.Operator `toml:"type"`
	Solver collide.Solver   `toml:"solver"`
}

// Config holds the validated configuration of a simulation.
type Config struct {
	Nx   int     `toml:"nx"`
	Nv   int     `toml:"nv"`
	Xmin float64 `toml:"xmin"`
	Xmax float64 `toml:"xmax"`
	Vmax float64 `toml:"vmax"`
	Tmax float64 `toml:"tmax"`
	Nt   int     `toml:"nt"`
	Nu   float64 `toml:"nu"`

	K0 float64 `toml:"k0"`
	A0 float64 `toml:"a0"`
	W0 float64 `toml:"w0"`

	// WEPW and NuLD are the real and imaginary parts of the electron
	// plasma wave root for K0, and VPh is its phase velocity.
	WEPW float64 `toml:"w_epw"`
	NuLD float64 `toml:"nu_ld"`
	VPh  float64 `toml:"v_ph"`

	VlasovPoisson VlasovPoisson `toml:"vlasov-poisson"`
	FokkerPlanck  FokkerPlanck  `toml:"fokker-planck"`

	StoreF   vlasov.FStorage `toml:"store_f"`
	NumModes int             `toml:"num_modes"`
	MaxGB    float64         `toml:"max_gb"`

	Diagnostics Diagnostic `toml:"diagnostics"`

	OutputFile string `toml:"output_file"`
	LogFile    string `toml:"log_file"`

	Pulses map[string]vlasov.Pulse `toml:"pulses"`
}

// Dt returns the simulation time step.
func (c *Config) Dt() float64 { return c.Tmax / float64(c.Nt-1) }

// RunID returns an identifier of the physical and numerical content of c.
func (c *Config) RunID() string {
	type namedPulse struct {
		Name  string
		Pulse vlasov.Pulse
	}
	cc := *c
	cc.OutputFile, cc.LogFile = "", ""
	cc.Pulses = nil
	// Map order is random, so the pulses are hashed in name order.
	pulses := make([]namedPulse, 0, len(c.Pulses))
	for name, p := range c.Pulses {
		pulses = append(pulses, namedPulse{Name: name, Pulse: p})
	}
	sort.Slice(pulses, func(i, j int) bool { return pulses[i].Name < pulses[j].Name })
	return hash.RunID(struct {
		Config Config
		Pulses []namedPulse
	}{Config: cc, Pulses: pulses})
}

// DefaultPulse returns the tanh pulse used when no pulse file is given.
func DefaultPulse(k0, w0, a0 float64) vlasov.Pulse {
	return vlasov.Pulse{
		Shape: vlasov.Tanh,
		K0:    k0, W0: w0, A0: a0,
		TL: 6, TWL: 2.5,
		TR: 20, TWR: 2.5,
	}
}

// LoadConfig reads and validates a simulation configuration from cfg.
// Every error is returned before any calculations begin.
func LoadConfig(cfg *viper.Viper) (*Config, error) {
	perr := func(format string, args ...interface{}) error {
		return fmt.Errorf("vlasov: parsing configuration: "+format, args...)
	}
	c := &Config{
		Diagnostics: Diagnostic(cfg.GetString("diagnostics")),
	}
	// Values that are set in configuration files or environment variables
	// can be strings, so they are converted here rather than with
	// cfg.GetInt, which silently returns zero for malformed values.
	for name, dst := range map[string]*int{"nx": &c.Nx, "nv": &c.Nv, "nt": &c.Nt, "num_modes": &c.NumModes} {
		v, err := cast.ToIntE(cfg.Get(name))
		if err != nil {
			return nil, perr("%s: %v", name, err)
		}
		*dst = v
	}
	for name, dst := range map[string]*float64{
		"xmin": &c.Xmin, "xmax": &c.Xmax, "vmax": &c.Vmax, "tmax": &c.Tmax,
		"nu": &c.Nu, "k0": &c.K0, "a0": &c.A0, "w0": &c.W0, "max_gb": &c.MaxGB,
	} {
		v, err := cast.ToFloat64E(cfg.Get(name))
		if err != nil {
			return nil, perr("%s: %v", name, err)
		}
		*dst = v
	}

	ints := []int{c.Nx, c.Nv, c.Nt}
	intNames := []string{"nx", "nv", "nt"}
	intLimits := []int{0, 1, 1}
	for i, v := range ints {
		if v <= intLimits[i] {
			return nil, perr("%s=%d but should be >%d", intNames[i], v, intLimits[i])
		}
	}
	vars := []float64{c.Vmax, c.Tmax, c.MaxGB}
	varNames := []string{"vmax", "tmax", "max_gb"}
	for i, v := range vars {
		if !(v > 0) {
			return nil, perr("%s=%g but should be >0", varNames[i], v)
		}
	}
	if c.Nu < 0 {
		return nil, perr("nu=%g but should not be negative", c.Nu)
	}
	if c.K0 < 0 {
		return nil, perr("k0=%g but should not be negative", c.K0)
	}

	var err error
	if c.VlasovPoisson.Time, err = vlasov.ParseIntegrator(cfg.GetString("vlasov-poisson.time")); err != nil {
		return nil, perr("%w", err)
	}
	if c.VlasovPoisson.VdfDx, err = advect.ParseMethod(cfg.GetString("vlasov-poisson.vdfdx")); err != nil {
		return nil, perr("vlasov-poisson.vdfdx: %w", err)
	}
	if c.VlasovPoisson.EdfDv, err = advect.ParseMethod(cfg.GetString("vlasov-poisson.edfdv")); err != nil {
		return nil, perr("vlasov-poisson.edfdv: %w", err)
	}
	c.VlasovPoisson.Poisson = cfg.GetString("vlasov-poisson.poisson")
	if c.FokkerPlanck.Type, err = collide.ParseOperator(cfg.GetString("fokker-planck.type")); err != nil {
		return nil, perr("%w", err)
	}
	if c.FokkerPlanck.Solver, err = collide.ParseSolver(cfg.GetString("fokker-planck.solver")); err != nil {
		return nil, perr("%w", err)
	}
	if c.StoreF, err = vlasov.ParseFStorage(cfg.GetString("store_f")); err != nil {
		return nil, perr("%w", err)
	}
	if c.StoreF == vlasov.StoreModes && (c.NumModes < 1 || c.NumModes > c.Nx/2+1) {
		return nil, perr("num_modes=%d but should be between 1 and nx/2+1=%d", c.NumModes, c.Nx/2+1)
	}
	switch c.Diagnostics {
	case Landau, NoDiagnostic:
	default:
		return nil, perr("diagnostics %q: %w", c.Diagnostics, vlasov.ErrNotImplemented)
	}

	if c.K0 > 0 {
		c.Xmax = c.Xmin + vlasov.BoxLength(c.K0)
		root, err := roots.EPWRoot(context.TODO(), eval.Unit, c.K0)
		if err != nil {
			return nil, perr("%w", err)
		}
		c.WEPW, c.NuLD, c.VPh = real(root), imag(root), real(root)/c.K0
		if c.W0 == 0 {
			c.W0 = c.WEPW
		}
	} else if c.Diagnostics == Landau {
		return nil, perr("the landau diagnostics require k0 > 0")
	}
	if !(c.Xmax > c.Xmin) {
		return nil, perr("xmax=%g but should be greater than xmin=%g", c.Xmax, c.Xmin)
	}
	if err := c.checkMethods(); err != nil {
		return nil, perr("%w", err)
	}

	if pulseFile := os.ExpandEnv(cfg.GetString("pulses")); pulseFile != "" {
		if c.Pulses, err = ReadPulses(pulseFile); err != nil {
			return nil, perr("%w", err)
		}
	} else if c.K0 > 0 {
		c.Pulses = map[string]vlasov.Pulse{"first pulse": DefaultPulse(c.K0, c.W0, c.A0)}
	}
	for name, p := range c.Pulses {
		if p.W0 == 0 && p.K0 > 0 {
			root, err := roots.EPWRoot(context.TODO(), eval.Unit, p.K0)
			if err != nil {
				return nil, perr("pulse %s: %w", name, err)
			}
			p.W0 = real(root)
		}
		if err := p.Validate(); err != nil {
			return nil, perr("pulse %s: %w", name, err)
		}
		c.Pulses[name] = p
	}

	if c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	c.LogFile = checkLogFile(os.ExpandEnv(cfg.GetString("LogFile")), c.OutputFile)
	return c, nil
}

// checkMethods makes sure that the numerical methods in c are available
// for its grid, so that unsupported combinations fail before any output
// is written.
func (c *Config) checkMethods() error {
	g, err := vlasov.NewGrid(c.Nx, c.Nv, c.Xmin, c.Xmax, c.Vmax)
	if err != nil {
		return err
	}
	if _, err := vlasov.NewFieldSolver(c.VlasovPoisson.Poisson, g); err != nil {
		return err
	}
	if _, err := advect.Spatial(g, c.VlasovPoisson.VdfDx); err != nil {
		return fmt.Errorf("vlasov-poisson.vdfdx: %w", err)
	}
	if _, err := advect.Velocity(g, c.VlasovPoisson.EdfDv); err != nil {
		return fmt.Errorf("vlasov-poisson.edfdv: %w", err)
	}
	return nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`vlasov: you need to specify an output file configuration variable (for example: OutputFile="output.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("vlasov: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// ReadPulses reads driver pulse descriptions from a TOML file in which
// every table is one named pulse. Pulses without a shape use the tanh
// envelope.
func ReadPulses(path string) (map[string]vlasov.Pulse, error) {
	pulses := make(map[string]vlasov.Pulse)
	md, err := toml.DecodeFile(path, &pulses)
	if err != nil {
		return nil, fmt.Errorf("reading pulse file: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("reading pulse file: unknown keys %v", undecoded)
	}
	for name, p := range pulses {
		if !md.IsDefined(name, "shape") {
			p.Shape = vlasov.Tanh
			pulses[name] = p
		}
	}
	return pulses, nil
}

// Params returns the configuration flattened into parameter names and
// values, with nested names joined by '-'.
func (c *Config) Params() map[string]interface{} {
	p := map[string]interface{}{
		"nx": c.Nx, "nv": c.Nv, "nt": c.Nt,
		"xmin": c.Xmin, "xmax": c.Xmax, "vmax": c.Vmax, "tmax": c.Tmax,
		"nu": c.Nu, "k0": c.K0, "a0": c.A0, "w0": c.W0,
		"w_epw": c.WEPW, "nu_ld": c.NuLD, "v_ph": c.VPh,
		"vlasov-poisson-time":    string(c.VlasovPoisson.Time),
		"vlasov-poisson-vdfdx":   string(c.VlasovPoisson.VdfDx),
		"vlasov-poisson-edfdv":   string(c.VlasovPoisson.EdfDv),
		"vlasov-poisson-poisson": c.VlasovPoisson.Poisson,
		"fokker-planck-type":     string(c.FokkerPlanck.Type),
		"fokker-planck-solver":   string(c.FokkerPlanck.Solver),
		"store_f":                string(c.StoreF),
		"num_modes":              c.NumModes,
		"max_gb":                 c.MaxGB,
		"diagnostics":            string(c.Diagnostics),
	}
	for name, pulse := range c.Pulses {
		for k, v := range map[string]interface{}{
			"shape": string(pulse.Shape),
			"k0":    pulse.K0, "w0": pulse.W0, "a0": pulse.A0,
			"t_L": pulse.TL, "t_wL": pulse.TWL, "t_R": pulse.TR, "t_wR": pulse.TWR,
			"start_time": pulse.StartTime, "rise_time": pulse.RiseTime,
			"flat_time": pulse.FlatTime, "fall_time": pulse.FallTime,
		} {
			p[name+"-"+k] = v
		}
	}
	return p
}

// WriteParams writes c to path as TOML.
func (c *Config) WriteParams(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vlasov: writing run parameters: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("vlasov: writing run parameters: %v", err)
	}
	return f.Close()
}
