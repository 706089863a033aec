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
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/vlasov"
	"gonum.org/v1/gonum/floats"
)

// gradient calculates the derivative of y with spacing d using
// second-order centered differences in the interior and second-order
// one-sided differences at the edges. len(y) must be at least 3.
func gradient(y []float64, d float64, dst []float64) {
	n := len(y)
	for i := 1; i < n-1; i++ {
		dst[i] = (y[i+1] - y[i-1]) / (2 * d)
	}
	dst[0] = (-3*y[0] + 4*y[1] - y[2]) / (2 * d)
	dst[n-1] = (3*y[n-1] - 4*y[n-2] + y[n-3]) / (2 * d)
}

func velocityCentered(g *vlasov.Grid) (vlasov.VelocityAdvector, error) {
	if g.Nv < 3 {
		return nil, fmt.Errorf("advect: center-difference advection needs nv >= 3 but nv=%d", g.Nv)
	}
	w := vlasov.NewWorkers(g.Nx)
	grads := make([][]float64, int(w))
	for i := range grads {
		grads[i] = make([]float64, g.Nv)
	}
	return func(f *sparse.DenseArray, e []float64, dt float64) error {
		w.Do(g.Nx, func(worker, ix int) {
			row := g.Row(f, ix)
			grad := grads[worker]
			gradient(row, g.Dv, grad)
			floats.AddScaled(row, -e[ix]*dt, grad)
		})
		return nil
	}, nil
}
