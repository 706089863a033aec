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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "Vlasov v") {
		t.Errorf("version output %q", b.String())
	}
}

func TestDispersionCommand(t *testing.T) {
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"dispersion", "--k0=0.4"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "w=1.285") {
		t.Errorf("dispersion output %q", b.String())
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	config := `
nx = 4
nv = 32
nt = 11
tmax = 1.0
diagnostics = "none"
store_f = "modes"
num_modes = 2

[vlasov-poisson]
time = "pefrl"
edfdv = "cd2"

[fokker-planck]
type = "dg"
`
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	Cfg.Set("config", cfgPath)
	Cfg.Set("OutputFile", filepath.Join(dir, "run.nc"))
	defer func() {
		Cfg.Set("config", "")
		Cfg.Set("OutputFile", "vlasov_output.nc")
	}()
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"run.nc", "run.log", "run.toml"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}
	if !strings.Contains(b.String(), "vlasov-poisson-time=pefrl") {
		t.Errorf("the configuration file was not used: %s", b.String())
	}
}
