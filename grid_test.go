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

package vlasov

import (
	"math"
	"testing"

	"github.com/kr/pretty"
)

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(4, 4, 0, 2*math.Pi, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-1.5, -0.5, 0.5, 1.5}
	if diff := pretty.Diff(g.V, want); len(diff) > 0 {
		t.Errorf("v axis: %v", diff)
	}
	for i, x := range g.X {
		if different(x, (float64(i)+0.5)*math.Pi/2, 1e-14) {
			t.Errorf("x[%d] = %g", i, x)
		}
	}
	wantK := []float64{0, 1, -2, -1}
	wantInv := []float64{0, 1, -0.5, -1}
	for i := range wantK {
		if different(g.Kx[i], wantK[i], 1e-14) {
			t.Errorf("kx[%d] = %g, want %g", i, g.Kx[i], wantK[i])
		}
		if different(g.OneOverKx[i], wantInv[i], 1e-14) {
			t.Errorf("1/kx[%d] = %g, want %g", i, g.OneOverKx[i], wantInv[i])
		}
	}
	if g.Dv != 1 || different(g.Dx, math.Pi/2, 1e-15) {
		t.Errorf("dx=%g, dv=%g", g.Dx, g.Dv)
	}
}

func TestWavenumbersOdd(t *testing.T) {
	k := Wavenumbers(5, 1)
	want := []float64{0, 1, 2, -2, -1}
	for i := range want {
		if different(k[i], 2*math.Pi*want[i]/5, 1e-14) {
			t.Errorf("k[%d] = %g", i, k[i])
		}
	}
}

func TestNewGridErrors(t *testing.T) {
	for _, test := range []struct {
		name             string
		nx, nv           int
		xmin, xmax, vmax float64
	}{
		{name: "nx", nx: 0, nv: 8, xmax: 1, vmax: 1},
		{name: "nv", nx: 8, nv: 1, xmax: 1, vmax: 1},
		{name: "xmax", nx: 8, nv: 8, xmin: 1, xmax: 1, vmax: 1},
		{name: "vmax", nx: 8, nv: 8, xmax: 1, vmax: 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewGrid(test.nx, test.nv, test.xmin, test.xmax, test.vmax); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMaxwellian(t *testing.T) {
	g, err := NewGrid(3, 256, 0, 1, 6)
	if err != nil {
		t.Fatal(err)
	}
	f := Maxwellian(g)
	for ix := 0; ix < g.Nx; ix++ {
		if n := g.Trapz(g.Row(f, ix)); different(n, 1, 1e-12) {
			t.Errorf("density at x[%d] = %g", ix, n)
		}
	}
	if f.Get(1, 0) >= f.Get(1, g.Nv/2) {
		t.Error("maxwellian should peak at v=0")
	}
}
