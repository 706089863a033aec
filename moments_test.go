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

func TestMomentsMaxwellian(t *testing.T) {
	g, err := NewGrid(4, 512, 0, 1, 6.4)
	if err != nil {
		t.Fatal(err)
	}
	const u = 0.5
	f := ShiftedMaxwellian(g, u, 1)
	m := NewMoments(g)
	m.Calculate(f)

	// Raw moments of a unit-temperature Maxwellian drifting at u.
	want := map[string]float64{
		"n":   1,
		"j":   u,
		"T":   1 + u*u,
		"q":   u*u*u + 3*u,
		"fv4": math.Pow(u, 4) + 6*u*u + 3,
		"vN":  math.Pow(u, 5) + 10*math.Pow(u, 3) + 15*u,
	}
	// The truncated velocity grid limits the accuracy of the high moments.
	tolerance := map[string]float64{"n": 1e-10, "j": 1e-6, "T": 1e-6, "q": 1e-5, "fv4": 1e-4, "vN": 1e-3}
	for i, field := range m.Fields() {
		name := MomentNames[i]
		for ix, v := range field {
			if different(v, want[name], tolerance[name]) {
				t.Errorf("%s[%d] = %g, want %g", name, ix, v, want[name])
			}
		}
	}

	e := []float64{1, -1, 1, -1}
	driver := []float64{2, 2, 2, 2}
	const dt = 0.1
	series := m.Series(f, e, driver, dt)
	if len(series) != len(SeriesNames) {
		t.Fatalf("have %d series, want %d", len(series), len(SeriesNames))
	}
	wantSeries := map[string]float64{
		"mean_n":   1,
		"mean_j":   u,
		"mean_T":   1 + u*u,
		"mean_e2":  1,
		"mean_de2": 2 * dt * 2 * u,
		// ∫f² dv for a unit Gaussian is 1/(2√π).
		"mean_f2": 1 / (2 * math.Sqrt(math.Pi)),
		// ∫f log f dv = -(1 + log 2π)/2.
		"mean_flogf": -(1 + math.Log(2*math.Pi)) / 2,
	}
	for i, name := range SeriesNames {
		if different(series[i], wantSeries[name], 1e-6) {
			t.Errorf("%s = %g, want %g", name, series[i], wantSeries[name])
		}
	}
}

func TestFLogFSkipsZeros(t *testing.T) {
	g, err := NewGrid(1, 4, 0, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	f := g.NewDistribution()
	f.Set(0.5, 0, 1)
	f.Set(0.5, 0, 2)
	m := NewMoments(g)
	m.Calculate(f)
	s := m.Series(f, []float64{0}, []float64{0}, 1)
	flogf := s[len(s)-1]
	if math.IsNaN(flogf) || math.IsInf(flogf, 0) {
		t.Fatalf("f log f = %g", flogf)
	}
	// trapezoid over v = [-1.5, -0.5, 0.5, 1.5] of [0, a, a, 0], a = 0.5 log 0.5
	want := 2 * 0.5 * math.Log(0.5)
	if different(flogf, want, 1e-14) {
		t.Errorf("f log f = %g, want %g", flogf, want)
	}
}
