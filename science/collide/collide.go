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

// Package collide implements implicit Fokker-Planck collision steps for
// the electron distribution function. The collision operators are
// discretized with centered differences in velocity, which results in a
// tridiagonal linear system for every spatial cell.
package collide

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/vlasov"
)

// Operator specifies a model collision operator.
type Operator string

// Available collision operators.
const (
	// LenardBernstein relaxes f toward a Maxwellian at rest with the
	// local temperature (Lenard and Bernstein, 1958).
	LenardBernstein Operator = "lb"

	// Dougherty relaxes f toward a Maxwellian drifting with the local
	// mean velocity, which conserves momentum (Dougherty, 1964).
	Dougherty Operator = "dg"

	// None disables collisions.
	None Operator = "none"
)

// ParseOperator converts s into an Operator.
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(s); op {
	case LenardBernstein, Dougherty, None:
		return op, nil
	default:
		return "", fmt.Errorf("collide: operator %q: %w", s, vlasov.ErrNotImplemented)
	}
}

// Solver specifies the algorithm used to solve the tridiagonal systems.
type Solver string

// Available tridiagonal solvers.
const (
	Naive              Solver = "naive"
	BatchedTridiagonal Solver = "batched_tridiagonal"
)

// ParseSolver converts s into a Solver.
func ParseSolver(s string) (Solver, error) {
	switch sv := Solver(s); sv {
	case Naive, BatchedTridiagonal:
		return sv, nil
	default:
		return "", fmt.Errorf("collide: solver %q: %w", s, vlasov.ErrNotImplemented)
	}
}

// New returns a Collider that takes one implicit collision step of
// length dt with collision frequency nu. If nu is zero or op is None,
// the returned Collider does nothing.
func New(g *vlasov.Grid, op Operator, solver Solver, nu, dt float64) (vlasov.Collider, error) {
	if op == None || nu == 0 {
		return func(*sparse.DenseArray) error { return nil }, nil
	}
	coeffs, err := Coefficients(g, op, nu, dt)
	if err != nil {
		return nil, err
	}
	solve, err := NewSolveFunc(solver, g.Nx, g.Nv)
	if err != nil {
		return nil, err
	}
	m := NewTridiagonal(g.Nx, g.Nv)
	return func(f *sparse.DenseArray) error {
		coeffs(f, m)
		return solve(m, f, f)
	}, nil
}
