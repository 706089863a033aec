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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MomentNames are the names of the velocity moments calculated by
// Moments.Calculate, in the order they are stored.
var MomentNames = []string{"n", "j", "T", "q", "fv4", "vN"}

// Moments holds the velocity moments of a distribution function in each
// spatial cell. Moment p is the velocity integral of f·v^p.
type Moments struct {
	N   []float64 // density, p=0
	J   []float64 // current, p=1
	T   []float64 // energy, p=2
	Q   []float64 // heat flux, p=3
	FV4 []float64 // p=4
	VN  []float64 // p=5

	g       *Grid
	powers  [][]float64 // v^p for p = 1...5
	scratch []float64
}

// NewMoments allocates storage for the velocity moments on g.
func NewMoments(g *Grid) *Moments {
	m := &Moments{
		N:       make([]float64, g.Nx),
		J:       make([]float64, g.Nx),
		T:       make([]float64, g.Nx),
		Q:       make([]float64, g.Nx),
		FV4:     make([]float64, g.Nx),
		VN:      make([]float64, g.Nx),
		g:       g,
		powers:  make([][]float64, 5),
		scratch: make([]float64, g.Nv),
	}
	for p := range m.powers {
		m.powers[p] = make([]float64, g.Nv)
		for j, v := range g.V {
			m.powers[p][j] = math.Pow(v, float64(p+1))
		}
	}
	return m
}

// Fields returns the moments in the order of MomentNames.
func (m *Moments) Fields() [][]float64 {
	return [][]float64{m.N, m.J, m.T, m.Q, m.FV4, m.VN}
}

// Calculate computes all of the moments of f.
func (m *Moments) Calculate(f *sparse.DenseArray) {
	fields := m.Fields()
	for ix := 0; ix < m.g.Nx; ix++ {
		row := m.g.Row(f, ix)
		m.N[ix] = m.g.Trapz(row)
		for p, vp := range m.powers {
			floats.MulTo(m.scratch, row, vp)
			fields[p+1][ix] = m.g.Trapz(m.scratch)
		}
	}
}

// SeriesNames are the names of the spatially averaged quantities recorded
// at every time step.
var SeriesNames = []string{
	"mean_n", "mean_j", "mean_T", "mean_e2", "mean_de2", "mean_f2", "mean_flogf",
}

// DerivedSeriesNames are the names of the series derived from the
// per-step series when a batch is written.
var DerivedSeriesNames = []string{"mean_cum_de2", "mean_t_plus_e2_minus_cum_de2"}

// Series calculates the spatially averaged diagnostics of the current state
// and returns them in the order of SeriesNames. m must already hold the
// moments of f.
func (m *Moments) Series(f *sparse.DenseArray, e, driver []float64, dt float64) []float64 {
	g := m.g
	nx := float64(g.Nx)
	var e2, de2, f2, flogf float64
	for ix := 0; ix < g.Nx; ix++ {
		e2 += e[ix] * e[ix]
		de2 += driver[ix] * m.J[ix]
		row := g.Row(f, ix)
		floats.MulTo(m.scratch, row, row)
		f2 += g.Trapz(m.scratch)
		for j, fv := range row {
			if fv == 0 {
				m.scratch[j] = 0
				continue
			}
			m.scratch[j] = fv * math.Log(math.Abs(fv))
		}
		flogf += g.Trapz(m.scratch)
	}
	return []float64{
		stat.Mean(m.N, nil),
		stat.Mean(m.J, nil),
		stat.Mean(m.T, nil),
		e2 / nx,
		2 * dt * de2 / nx,
		f2 / nx,
		flogf / nx,
	}
}
