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
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spatialmodel/vlasov"
)

func smallConfig(t *testing.T) *Config {
	v := testViper(t)
	v.Set("nx", 8)
	v.Set("nv", 64)
	v.Set("nt", 21)
	v.Set("tmax", 2.0)
	v.Set("nu", 1e-3)
	v.Set("a0", 1e-3)
	v.Set("store_f", "all")
	v.Set("diagnostics", "none")
	c, err := LoadConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRun(t *testing.T) {
	c := smallConfig(t)
	var out bytes.Buffer
	res, err := Run(&out, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 20 {
		t.Errorf("completed %d steps, want 20", res.Steps)
	}
	for _, name := range []string{"startup_time", "calculation_time", "batch_update_time"} {
		if len(res.Metrics.Values(name)) == 0 {
			t.Errorf("metric %s was not logged", name)
		}
	}
	if res.Landau != nil {
		t.Error("diagnostics should not have been run")
	}

	logged, err := os.ReadFile(c.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"initial conditions", "msg=Step", "simulation complete", "run=" + res.RunID} {
		if !strings.Contains(string(logged), s) {
			t.Errorf("log file should contain %q", s)
		}
		if !strings.Contains(out.String(), s) {
			t.Errorf("output should contain %q", s)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(c.OutputFile), "out.toml")); err != nil {
		t.Errorf("missing parameter file: %v", err)
	}

	r, err := vlasov.OpenOutput(c.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.NumRecords() != 21 {
		t.Errorf("output has %d records, want 21", r.NumRecords())
	}
	times, err := r.Times()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(times[20]-2) > 1e-12 {
		t.Errorf("last time %g, want 2", times[20])
	}
	n, err := r.Series("mean_n")
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range n {
		if math.Abs(v-1) > 1e-6 {
			t.Errorf("mean density at record %d is %g", i, v)
		}
	}
	if id := r.Attribute("run_id"); id != res.RunID {
		t.Errorf("run_id attribute %v, want %s", id, res.RunID)
	}
}

// TestLandauDamping checks that the damping rate of a small amplitude
// electron plasma wave matches the imaginary part of the dispersion root.
func TestLandauDamping(t *testing.T) {
	for _, integrator := range []string{"leapfrog", "pefrl", "h-sixth"} {
		for _, vdfdx := range []string{"exponential", "sl"} {
			for _, edfdv := range []string{"exponential", "cd2", "sl"} {
				name := integrator + "_" + vdfdx + "_" + edfdv
				t.Run(name, func(t *testing.T) {
					if testing.Short() && (vdfdx == "sl" || edfdv == "sl") {
						t.Skip("semi-Lagrangian runs are slow")
					}
					v := testViper(t)
					v.Set("a0", 1e-7)
					v.Set("nu", 0.0)
					v.Set("fokker-planck.type", "none")
					v.Set("vlasov-poisson.time", integrator)
					v.Set("vlasov-poisson.vdfdx", vdfdx)
					v.Set("vlasov-poisson.edfdv", edfdv)
					c, err := LoadConfig(v)
					if err != nil {
						t.Fatal(err)
					}
					res, err := Run(new(bytes.Buffer), c)
					if err != nil {
						t.Fatal(err)
					}
					if res.Landau == nil {
						t.Fatal("missing diagnostics")
					}
					if math.Abs(res.Landau.DampingRate-c.NuLD) > 1e-3 {
						t.Errorf("damping rate %g, want %g", res.Landau.DampingRate, c.NuLD)
					}
					if math.Abs(res.Landau.OscillationFrequency-c.WEPW) > 0.1 {
						t.Errorf("oscillation frequency %g, want %g", res.Landau.OscillationFrequency, c.WEPW)
					}
					if got := res.Metrics.Values("damping_rate"); len(got) != 1 || got[0] != res.Landau.DampingRate {
						t.Errorf("damping rate metric %v", got)
					}
				})
			}
		}
	}
}

func TestLandauDampingResolved(t *testing.T) {
	if testing.Short() {
		t.Skip("long run")
	}
	for _, integrator := range []string{"leapfrog", "pefrl"} {
		t.Run(integrator, func(t *testing.T) {
			v := testViper(t)
			v.Set("nx", 64)
			v.Set("nv", 512)
			v.Set("vmax", 6.0)
			v.Set("nt", 1000)
			v.Set("tmax", 100.0)
			v.Set("a0", 4e-4)
			v.Set("nu", 0.0)
			v.Set("fokker-planck.type", "none")
			v.Set("vlasov-poisson.time", integrator)
			c, err := LoadConfig(v)
			if err != nil {
				t.Fatal(err)
			}
			res, err := Run(new(bytes.Buffer), c)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(res.Landau.DampingRate-c.NuLD) > 1e-3 {
				t.Errorf("damping rate %g, want %g", res.Landau.DampingRate, c.NuLD)
			}
			if math.Abs(res.Landau.OscillationFrequency-c.WEPW) > 0.1 {
				t.Errorf("oscillation frequency %g, want %g", res.Landau.OscillationFrequency, c.WEPW)
			}
		})
	}
}

// TestUndrivenEquilibrium checks that a Maxwellian plasma without a driver
// or collisions does not change.
func TestUndrivenEquilibrium(t *testing.T) {
	for _, integrator := range []string{"leapfrog", "pefrl", "h-sixth"} {
		t.Run(integrator, func(t *testing.T) {
			v := testViper(t)
			v.Set("nx", 16)
			v.Set("nv", 128)
			v.Set("nt", 101)
			v.Set("tmax", 40.0)
			v.Set("a0", 0.0)
			v.Set("nu", 0.0)
			v.Set("fokker-planck.type", "none")
			v.Set("vlasov-poisson.time", integrator)
			v.Set("store_f", "all")
			v.Set("diagnostics", "none")
			c, err := LoadConfig(v)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Run(new(bytes.Buffer), c); err != nil {
				t.Fatal(err)
			}
			r, err := vlasov.OpenOutput(c.OutputFile)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			f, err := r.Variable("f")
			if err != nil {
				t.Fatal(err)
			}
			n := c.Nx * c.Nv
			last := f.Elements[(r.NumRecords()-1)*n:]
			for i, v0 := range f.Elements[:n] {
				if math.Abs(last[i]-v0) > 1e-10 {
					t.Fatalf("f changed at element %d: %g != %g", i, last[i], v0)
				}
			}
			e, err := r.Field("e")
			if err != nil {
				t.Fatal(err)
			}
			for i, ei := range e.Elements {
				if math.Abs(ei) > 1e-10 {
					t.Fatalf("e[%d] = %g, want 0", i, ei)
				}
			}
		})
	}
}
