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

package collide

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/vlasov"
	"gonum.org/v1/gonum/floats"
)

// Tridiagonal holds one tridiagonal matrix per spatial cell. Row ix of A
// holds the sub-diagonal, of B the diagonal and of C the super-diagonal
// of the matrix for cell ix.
type Tridiagonal struct {
	A *sparse.DenseArray // [nx, nv-1]
	B *sparse.DenseArray // [nx, nv]
	C *sparse.DenseArray // [nx, nv-1]
}

// NewTridiagonal allocates a zeroed Tridiagonal.
func NewTridiagonal(nx, nv int) *Tridiagonal {
	return &Tridiagonal{
		A: sparse.ZerosDense(nx, nv-1),
		B: sparse.ZerosDense(nx, nv),
		C: sparse.ZerosDense(nx, nv-1),
	}
}

func (m *Tridiagonal) rows(ix int) (a, b, c []float64) {
	nv := m.B.Shape[1]
	return m.A.Elements[ix*(nv-1) : (ix+1)*(nv-1)],
		m.B.Elements[ix*nv : (ix+1)*nv],
		m.C.Elements[ix*(nv-1) : (ix+1)*(nv-1)]
}

// CoefficientFunc fills m with the implicit collision matrices for the
// distribution function f.
type CoefficientFunc func(f *sparse.DenseArray, m *Tridiagonal)

// Coefficients returns a function that calculates the tridiagonal
// matrices of an implicit collision step of length dt with collision
// frequency nu using operator op.
func Coefficients(g *vlasov.Grid, op Operator, nu, dt float64) (CoefficientFunc, error) {
	var drifting bool
	switch op {
	case LenardBernstein:
	case Dougherty:
		drifting = true
	default:
		return nil, fmt.Errorf("collide: collision operator %q: %w", op, vlasov.ErrNotImplemented)
	}
	w := vlasov.NewWorkers(g.Nx)
	scratch := make([][]float64, int(w))
	for i := range scratch {
		scratch[i] = make([]float64, g.Nv)
	}
	nudt := nu * dt
	dv2 := g.Dv * g.Dv
	return func(f *sparse.DenseArray, m *Tridiagonal) {
		w.Do(g.Nx, func(worker, ix int) {
			row := g.Row(f, ix)
			s := scratch[worker]
			var vbar float64
			if drifting {
				floats.MulTo(s, row, g.V)
				vbar = g.Trapz(s)
			}
			for j, v := range g.V {
				s[j] = row[j] * (v - vbar) * (v - vbar)
			}
			temp := g.Trapz(s)

			a, b, c := m.rows(ix)
			for j := range b {
				b[j] = 1 + 2*nudt*temp/dv2
			}
			for j := range a {
				a[j] = nudt * (-temp/dv2 + (g.V[j]-vbar)/(2*g.Dv))
				c[j] = nudt * (-temp/dv2 - (g.V[j+1]-vbar)/(2*g.Dv))
			}
		})
	}, nil
}
