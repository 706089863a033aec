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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/integrate"
)

// Grid holds the phase-space axes of a simulation and their
// Fourier-conjugate wavenumber axes. A Grid must not be modified
// after it has been created.
type Grid struct {
	Nx, Nv     int
	Xmin, Xmax float64
	Vmax       float64
	Dx, Dv     float64

	X, V   []float64 // cell centers
	Kx, Kv []float64 // wavenumbers in standard FFT order

	// OneOverKx is 1/Kx with the zero-wavenumber entry set to zero.
	OneOverKx []float64
}

// NewGrid creates a periodic spatial grid of nx cells covering [xmin, xmax)
// and a truncated velocity grid of nv cells covering [-vmax, vmax).
func NewGrid(nx, nv int, xmin, xmax, vmax float64) (*Grid, error) {
	if nx < 1 {
		return nil, fmt.Errorf("vlasov: nx=%d but should be >0", nx)
	}
	if nv < 2 {
		return nil, fmt.Errorf("vlasov: nv=%d but should be >1", nv)
	}
	if !(xmax > xmin) {
		return nil, fmt.Errorf("vlasov: xmax=%g should be greater than xmin=%g", xmax, xmin)
	}
	if !(vmax > 0) {
		return nil, fmt.Errorf("vlasov: vmax=%g but should be >0", vmax)
	}
	g := &Grid{
		Nx:   nx,
		Nv:   nv,
		Xmin: xmin,
		Xmax: xmax,
		Vmax: vmax,
		Dx:   (xmax - xmin) / float64(nx),
		Dv:   2 * vmax / float64(nv),
	}
	g.X = make([]float64, nx)
	for i := range g.X {
		g.X[i] = xmin + (float64(i)+0.5)*g.Dx
	}
	g.V = make([]float64, nv)
	for j := range g.V {
		g.V[j] = -vmax + (float64(j)+0.5)*g.Dv
	}
	g.Kx = Wavenumbers(nx, g.Dx)
	g.Kv = Wavenumbers(nv, g.Dv)
	g.OneOverKx = make([]float64, nx)
	for i := 1; i < nx; i++ {
		g.OneOverKx[i] = 1 / g.Kx[i]
	}
	return g, nil
}

// Wavenumbers returns 2π times the discrete Fourier transform sample
// frequencies for n points with spacing d: zero first, then the positive
// frequencies in ascending order, then the negative frequencies.
func Wavenumbers(n int, d float64) []float64 {
	k := make([]float64, n)
	npos := (n-1)/2 + 1
	for i := 0; i < n; i++ {
		j := i
		if i >= npos {
			j = i - n
		}
		k[i] = 2 * math.Pi * float64(j) / (float64(n) * d)
	}
	return k
}

// BoxLength returns the length of a periodic box holding exactly one
// wavelength of wavenumber k0.
func BoxLength(k0 float64) float64 { return 2 * math.Pi / k0 }

// Row returns the velocity distribution of f at spatial cell ix. The
// returned slice shares memory with f.
func (g *Grid) Row(f *sparse.DenseArray, ix int) []float64 {
	return f.Elements[ix*g.Nv : (ix+1)*g.Nv]
}

// Trapz integrates y over the velocity axis using the trapezoidal rule.
func (g *Grid) Trapz(y []float64) float64 {
	return integrate.Trapezoidal(g.V, y)
}

// NewDistribution allocates a zeroed distribution function on g.
func (g *Grid) NewDistribution() *sparse.DenseArray {
	return sparse.ZerosDense(g.Nx, g.Nv)
}

// Maxwellian returns a spatially uniform Maxwell-Boltzmann distribution with
// unit temperature, normalized so that its velocity integral is 1 in every
// spatial cell.
func Maxwellian(g *Grid) *sparse.DenseArray {
	return ShiftedMaxwellian(g, 0, 1)
}

// ShiftedMaxwellian returns a spatially uniform distribution proportional to
// exp(-(v-vshift)²/(2 vth²)), normalized to unit density in every cell.
func ShiftedMaxwellian(g *Grid, vshift, vth float64) *sparse.DenseArray {
	f := g.NewDistribution()
	row := make([]float64, g.Nv)
	for j, v := range g.V {
		row[j] = math.Exp(-(v - vshift) * (v - vshift) / (2 * vth * vth))
	}
	norm := g.Trapz(row)
	for j := range row {
		row[j] /= norm
	}
	for ix := 0; ix < g.Nx; ix++ {
		copy(g.Row(f, ix), row)
	}
	return f
}
