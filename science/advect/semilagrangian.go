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

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/vlasov"
	"gonum.org/v1/gonum/interp"
)

// ghosts is the number of padding cells added to each end of an axis
// before fitting splines.
const ghosts = 3

// paddedAxis returns the cell centers of axis extended by ghosts cells
// of spacing d at each end.
func paddedAxis(axis []float64, d float64) []float64 {
	n := len(axis)
	out := make([]float64, n+2*ghosts)
	for i := range out {
		out[i] = axis[0] + float64(i-ghosts)*d
	}
	return out
}

type splineScratch struct {
	ys     []float64
	out    []float64
	spline interp.NaturalCubic
}

func newSplineScratch(w vlasov.Workers, n int) []*splineScratch {
	s := make([]*splineScratch, int(w))
	for i := range s {
		s[i] = &splineScratch{
			ys:  make([]float64, n+2*ghosts),
			out: make([]float64, n),
		}
	}
	return s
}

func spatialSemiLagrangian(g *vlasov.Grid) vlasov.SpatialAdvector {
	w := vlasov.NewWorkers(g.Nv)
	xs := paddedAxis(g.X, g.Dx)
	scratch := newSplineScratch(w, g.Nx)
	length := g.Xmax - g.Xmin
	return func(f *sparse.DenseArray, dt float64) {
		w.Do(g.Nv, func(worker, j int) {
			s := scratch[worker]
			for i := range s.ys {
				ix := ((i-ghosts)%g.Nx + g.Nx) % g.Nx
				s.ys[i] = f.Elements[ix*g.Nv+j]
			}
			if err := s.spline.Fit(xs, s.ys); err != nil {
				panic(err) // xs is strictly increasing.
			}
			shift := g.V[j] * dt
			for ix, x := range g.X {
				xd := math.Mod(x-shift-g.Xmin, length)
				if xd < 0 {
					xd += length
				}
				s.out[ix] = s.spline.Predict(xd + g.Xmin)
			}
			for ix, v := range s.out {
				f.Elements[ix*g.Nv+j] = v
			}
		})
	}
}

func velocitySemiLagrangian(g *vlasov.Grid) vlasov.VelocityAdvector {
	w := vlasov.NewWorkers(g.Nx)
	vs := paddedAxis(g.V, g.Dv)
	lo, hi := vs[0], vs[len(vs)-1]
	scratch := newSplineScratch(w, g.Nv)
	return func(f *sparse.DenseArray, e []float64, dt float64) error {
		w.Do(g.Nx, func(worker, ix int) {
			s := scratch[worker]
			row := g.Row(f, ix)
			// f vanishes outside of the velocity domain.
			copy(s.ys[ghosts:], row)
			if err := s.spline.Fit(vs, s.ys); err != nil {
				panic(err) // vs is strictly increasing.
			}
			shift := e[ix] * dt
			for j, v := range g.V {
				vd := v - shift
				if vd < lo || vd > hi {
					s.out[j] = 0
					continue
				}
				s.out[j] = s.spline.Predict(vd)
			}
			copy(row, s.out)
		})
		return nil
	}
}
