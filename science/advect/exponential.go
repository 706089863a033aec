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

package advect

import (
	"math"
	"math/cmplx"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/vlasov"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// shifter translates periodic sequences by multiplying their Fourier
// coefficients by a phase. A shifter is not safe for concurrent use.
type shifter struct {
	fft   *fourier.FFT
	k     []float64
	seq   []float64
	coeff []complex128
}

// newShifters creates one shifter per worker for sequences with
// wavenumbers k.
func newShifters(w vlasov.Workers, k []float64) []*shifter {
	n := len(k)
	s := make([]*shifter, int(w))
	for i := range s {
		s[i] = &shifter{
			fft:   fourier.NewFFT(n),
			k:     k,
			seq:   make([]float64, n),
			coeff: make([]complex128, n/2+1),
		}
	}
	return s
}

// shift replaces s.seq(y) with s.seq(y - d).
func (s *shifter) shift(d float64) {
	n := len(s.seq)
	s.coeff = s.fft.Coefficients(s.coeff, s.seq)
	nyquist := -1
	if n%2 == 0 {
		nyquist = n / 2
	}
	for i := 1; i < len(s.coeff); i++ {
		if i == nyquist {
			// Only the real part of the Nyquist term survives in a real
			// sequence.
			s.coeff[i] = complex(real(s.coeff[i])*math.Cos(s.k[i]*d), 0)
			continue
		}
		s.coeff[i] *= cmplx.Exp(complex(0, -s.k[i]*d))
	}
	s.fft.Sequence(s.seq, s.coeff)
	floats.Scale(1/float64(n), s.seq)
}

func spatialExponential(g *vlasov.Grid) vlasov.SpatialAdvector {
	if g.Nx == 1 {
		return func(*sparse.DenseArray, float64) {}
	}
	w := vlasov.NewWorkers(g.Nv)
	shifters := newShifters(w, g.Kx)
	return func(f *sparse.DenseArray, dt float64) {
		w.Do(g.Nv, func(worker, j int) {
			s := shifters[worker]
			for ix := range s.seq {
				s.seq[ix] = f.Elements[ix*g.Nv+j]
			}
			s.shift(g.V[j] * dt)
			for ix, v := range s.seq {
				f.Elements[ix*g.Nv+j] = v
			}
		})
	}
}

func velocityExponential(g *vlasov.Grid) vlasov.VelocityAdvector {
	w := vlasov.NewWorkers(g.Nx)
	shifters := newShifters(w, g.Kv)
	return func(f *sparse.DenseArray, e []float64, dt float64) error {
		w.Do(g.Nx, func(worker, ix int) {
			s := shifters[worker]
			row := g.Row(f, ix)
			copy(s.seq, row)
			s.shift(e[ix] * dt)
			copy(row, s.seq)
		})
		return nil
	}
}
