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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// FieldSolver calculates the electric field e resulting from the charge
// separation between the electrons described by f and the uniform ion
// background, plus the external driver field.
type FieldSolver func(driver []float64, f *sparse.DenseArray, e []float64)

// NewFieldSolver returns the field solver with the given name.
// Currently only "spectral" is available.
func NewFieldSolver(name string, g *Grid) (FieldSolver, error) {
	switch name {
	case "spectral":
		return SpectralField(g), nil
	default:
		return nil, fmt.Errorf("vlasov: poisson solver %q: %w", name, ErrNotImplemented)
	}
}

// Charge calculates the electron density in each spatial cell of f and
// stores it in dst.
func Charge(g *Grid, f *sparse.DenseArray, dst []float64) {
	for ix := range dst {
		dst[ix] = g.Trapz(g.Row(f, ix))
	}
}

// Poisson solves Gauss's law on a periodic domain using Fourier transforms.
// A Poisson is not safe for concurrent use.
type Poisson struct {
	g     *Grid
	fft   *fourier.FFT
	coeff []complex128
	net   []float64
}

// NewPoisson creates a spectral Poisson solver for g.
func NewPoisson(g *Grid) *Poisson {
	p := &Poisson{
		g:     g,
		coeff: make([]complex128, g.Nx/2+1),
		net:   make([]float64, g.Nx),
	}
	if g.Nx > 1 {
		p.fft = fourier.NewFFT(g.Nx)
	}
	return p
}

// Solve calculates the electric field caused by the electron density rho
// against a unit ion background and stores it in e. The mean of the net
// charge does not contribute to the field.
func (p *Poisson) Solve(rho, e []float64) {
	n := p.g.Nx
	if n == 1 {
		e[0] = 0
		return
	}
	for i, r := range rho {
		p.net[i] = 1 - r
	}
	p.coeff = p.fft.Coefficients(p.coeff, p.net)
	p.coeff[0] = 0
	for k := 1; k < len(p.coeff); k++ {
		p.coeff[k] *= complex(0, p.g.OneOverKx[k])
	}
	if n%2 == 0 {
		// The Nyquist mode of the field is purely imaginary and has
		// no real-valued representation.
		p.coeff[n/2] = 0
	}
	p.fft.Sequence(e, p.coeff)
	floats.Scale(1/float64(n), e)
}

// SpectralField returns a FieldSolver that solves Gauss's law spectrally
// and adds the driver field to the result. The returned function is
// not safe for concurrent use.
func SpectralField(g *Grid) FieldSolver {
	p := NewPoisson(g)
	rho := make([]float64, g.Nx)
	return func(driver []float64, f *sparse.DenseArray, e []float64) {
		Charge(g, f, rho)
		p.Solve(rho, e)
		if driver != nil {
			floats.Add(e, driver)
		}
	}
}
