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
)

func fieldTestGrid(t *testing.T) *Grid {
	const k0 = 0.25
	g, err := NewGrid(96, 16, 0, BoxLength(k0), 6)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPoissonSolve(t *testing.T) {
	const k0 = 0.25
	g := fieldTestGrid(t)
	for _, test := range []struct {
		name   string
		charge func(x float64) float64
		want   func(x float64) float64
	}{
		{
			name:   "sin",
			charge: func(x float64) float64 { return 1 - (1 + math.Sin(k0*x)) },
			want:   func(x float64) float64 { return math.Cos(k0*x) / k0 },
		},
		{
			name:   "cos_2k",
			charge: func(x float64) float64 { return 1 - (1 + math.Cos(2*k0*x)) },
			want:   func(x float64) float64 { return -math.Sin(2*k0*x) / (2 * k0) },
		},
		{
			name: "sin_2k_cos_8k",
			charge: func(x float64) float64 {
				return 1 - (1 + math.Sin(2*k0*x) + math.Cos(8*k0*x))
			},
			want: func(x float64) float64 {
				return math.Cos(2*k0*x)/(2*k0) - math.Sin(8*k0*x)/(8*k0)
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			rho := make([]float64, g.Nx)
			for i, x := range g.X {
				rho[i] = test.charge(x)
			}
			e := make([]float64, g.Nx)
			NewPoisson(g).Solve(rho, e)
			for i, x := range g.X {
				if different(e[i], test.want(x), 1e-4) {
					t.Errorf("e(%.3f) = %g, want %g", x, e[i], test.want(x))
				}
			}
		})
	}
}

func TestSpectralFieldGauss(t *testing.T) {
	const k0, amp = 0.25, 0.01
	g := fieldTestGrid(t)
	f := Maxwellian(g)
	for ix, x := range g.X {
		row := g.Row(f, ix)
		for j := range row {
			row[j] *= 1 + amp*math.Cos(k0*x)
		}
	}
	driver := make([]float64, g.Nx)
	for i := range driver {
		driver[i] = 0.5
	}
	e := make([]float64, g.Nx)
	SpectralField(g)(driver, f, e)

	// net charge is -amp cos(k0 x), so e = amp sin(k0 x) / k0 plus the driver.
	for i, x := range g.X {
		want := amp*math.Sin(k0*x)/k0 + 0.5
		if different(e[i], want, 1e-10) {
			t.Errorf("e(%.3f) = %g, want %g", x, e[i], want)
		}
	}
}

func TestNewFieldSolver(t *testing.T) {
	g := fieldTestGrid(t)
	if _, err := NewFieldSolver("spectral", g); err != nil {
		t.Error(err)
	}
	if _, err := NewFieldSolver("multigrid", g); err == nil {
		t.Error("expected an error for an unknown field solver")
	}
}
