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
	"math"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/vlasov"
	"gonum.org/v1/gonum/mat"
)

// SolveFunc solves m x = f for x in every spatial cell and stores x in
// dst. dst may be the same array as f.
type SolveFunc func(m *Tridiagonal, f, dst *sparse.DenseArray) error

// NewSolveFunc returns the SolveFunc for solver on an [nx, nv] grid.
func NewSolveFunc(solver Solver, nx, nv int) (SolveFunc, error) {
	switch solver {
	case Naive:
		return NaiveSolver(nx, nv), nil
	case BatchedTridiagonal:
		return BatchedSolver(nx, nv), nil
	default:
		return nil, fmt.Errorf("collide: solver %q: %w", solver, vlasov.ErrNotImplemented)
	}
}

// NaiveSolver assembles a dense matrix for every spatial cell and solves
// it with a general LU decomposition. It is slow and is mainly useful as
// a reference for BatchedSolver.
func NaiveSolver(nx, nv int) SolveFunc {
	w := vlasov.NewWorkers(nx)
	type scratch struct {
		a *mat.Dense
		x *mat.VecDense
	}
	s := make([]scratch, int(w))
	for i := range s {
		s[i] = scratch{a: mat.NewDense(nv, nv, nil), x: mat.NewVecDense(nv, nil)}
	}
	return func(m *Tridiagonal, f, dst *sparse.DenseArray) error {
		return w.DoErr(nx, func(worker, ix int) error {
			a, b, c := m.rows(ix)
			sc := s[worker]
			sc.a.Zero()
			for i := 0; i < nv; i++ {
				sc.a.Set(i, i, b[i])
				if i < nv-1 {
					sc.a.Set(i+1, i, a[i])
					sc.a.Set(i, i+1, c[i])
				}
			}
			rhs := mat.NewVecDense(nv, append([]float64(nil), f.Elements[ix*nv:(ix+1)*nv]...))
			// A singular system is reported as a mat.Condition error
			// without the solution being written.
			if err := sc.x.SolveVec(sc.a, rhs); err != nil {
				return fmt.Errorf("collide: cell %d: %v: %w", ix, err, vlasov.ErrUnstable)
			}
			out := dst.Elements[ix*nv : (ix+1)*nv]
			for i := range out {
				out[i] = sc.x.AtVec(i)
			}
			return nil
		})
	}
}

// BatchedSolver solves all of the tridiagonal systems at once using the
// Thomas algorithm. The inputs are copied into velocity-major scratch
// arrays so that the inner loop runs over the spatial cells, and m and f
// are not modified.
func BatchedSolver(nx, nv int) SolveFunc {
	a := make([]float64, (nv-1)*nx)
	b := make([]float64, nv*nx)
	c := make([]float64, (nv-1)*nx)
	d := make([]float64, nv*nx)
	return func(m *Tridiagonal, f, dst *sparse.DenseArray) error {
		for ix := 0; ix < nx; ix++ {
			ar, br, cr := m.rows(ix)
			for i := 0; i < nv; i++ {
				b[i*nx+ix] = br[i]
				d[i*nx+ix] = f.Elements[ix*nv+i]
				if i < nv-1 {
					a[i*nx+ix] = ar[i]
					c[i*nx+ix] = cr[i]
				}
			}
		}
		for i := 1; i < nv; i++ {
			for ix := 0; ix < nx; ix++ {
				piv := b[(i-1)*nx+ix]
				if piv == 0 || math.IsNaN(piv) || math.IsInf(piv, 0) {
					return fmt.Errorf("collide: cell %d: zero pivot in row %d: %w", ix, i-1, vlasov.ErrUnstable)
				}
				w := a[(i-1)*nx+ix] / piv
				b[i*nx+ix] -= w * c[(i-1)*nx+ix]
				d[i*nx+ix] -= w * d[(i-1)*nx+ix]
			}
		}
		last := (nv - 1) * nx
		for ix := 0; ix < nx; ix++ {
			piv := b[last+ix]
			if piv == 0 || math.IsNaN(piv) || math.IsInf(piv, 0) {
				return fmt.Errorf("collide: cell %d: zero pivot in row %d: %w", ix, nv-1, vlasov.ErrUnstable)
			}
			d[last+ix] /= piv
		}
		for i := nv - 2; i >= 0; i-- {
			for ix := 0; ix < nx; ix++ {
				d[i*nx+ix] = (d[i*nx+ix] - c[i*nx+ix]*d[(i+1)*nx+ix]) / b[i*nx+ix]
			}
		}
		for ix := 0; ix < nx; ix++ {
			for i := 0; i < nv; i++ {
				dst.Elements[ix*nv+i] = d[i*nx+ix]
			}
		}
		return nil
	}
}
