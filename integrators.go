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
)

// SpatialAdvector advances f by dt under the free-streaming term v ∂f/∂x.
type SpatialAdvector func(f *sparse.DenseArray, dt float64)

// VelocityAdvector advances f by dt under the acceleration term
// E ∂f/∂v, where e is the electric field in each spatial cell.
type VelocityAdvector func(f *sparse.DenseArray, e []float64, dt float64) error

// Collider applies one collision step to f in place.
type Collider func(f *sparse.DenseArray) error

// TimeStepper advances the state s by one time step, starting at time t.
type TimeStepper func(s *State, t float64) error

// Integrator specifies an operator-splitting time integration scheme.
type Integrator string

// Available time integrators.
const (
	Leapfrog Integrator = "leapfrog"
	PEFRL    Integrator = "pefrl"
	HSixth   Integrator = "h-sixth"
)

// ParseIntegrator converts s into an Integrator.
func ParseIntegrator(s string) (Integrator, error) {
	switch i := Integrator(s); i {
	case Leapfrog, PEFRL, HSixth:
		return i, nil
	default:
		return "", fmt.Errorf("vlasov: time integrator %q: %w", s, errIntegratorNotImplemented)
	}
}

var errIntegratorNotImplemented = fmt.Errorf("time integrator %w", ErrNotImplemented)

// Performance-extended Forest-Ruth-like coefficients
// (Omelyan, Mryglod and Folk, 2002).
const (
	pefrlXi     = 0.1786178958448091
	pefrlLambda = -0.2123418310626054
	pefrlChi    = -0.6626458266981849e-1
)

// Sixth-order Hamiltonian splitting coefficients
// (Casas, Crouseilles, Faou and Mehrenberger, 2017).
const (
	h6a1 = 0.168735950563437422448196
	h6a2 = 0.377851589220928303880766
	h6a3 = -0.093175079568731452657924
	h6b1 = 0.049086460976116245491441
	h6b2 = 0.264177609888976700200146
	h6b3 = 0.186735929134907054308413
	h6c1 = -0.000069728715055305084099
	h6c2 = -0.000625704827430047189169
	h6c3 = -0.002213085124045325561636
	h6d2 = -2.916600457689847816445691e-6
	h6d3 = 3.048480261700038788680723e-5
	h6e3 = 4.985549387875068121593988e-7
)

// NewTimeStepper returns a function that advances a simulation state on
// grid g by dt using the given integrator, advection operators, field
// solver and driver. The field is recomputed after every spatial
// sub-step, with the driver evaluated at the time reached by that
// sub-step. The returned function is not safe for concurrent use.
func NewTimeStepper(kind Integrator, g *Grid, vdfdx SpatialAdvector, edfdv VelocityAdvector,
	field FieldSolver, driver DriverFunc, dt float64) (TimeStepper, error) {

	drv := make([]float64, g.Nx)
	solve := func(s *State, t float64) {
		driver(t, drv)
		field(drv, s.F, s.E)
	}

	switch kind {
	case Leapfrog:
		return func(s *State, t float64) error {
			if err := edfdv(s.F, s.E, 0.5*dt); err != nil {
				return err
			}
			vdfdx(s.F, dt)
			solve(s, t+dt)
			return edfdv(s.F, s.E, 0.5*dt)
		}, nil

	case PEFRL:
		xs := []float64{
			pefrlXi,
			pefrlChi,
			1 - 2*(pefrlChi+pefrlXi),
			pefrlChi,
			pefrlXi,
		}
		vs := []float64{
			0.5 * (1 - 2*pefrlLambda),
			pefrlLambda,
			pefrlLambda,
			0.5 * (1 - 2*pefrlLambda),
		}
		return func(s *State, t float64) error {
			elapsed := 0.
			for i, xf := range xs {
				vdfdx(s.F, xf*dt)
				elapsed += xf * dt
				solve(s, t+elapsed)
				if i < len(vs) {
					if err := edfdv(s.F, s.E, vs[i]*dt); err != nil {
						return err
					}
				}
			}
			return nil
		}, nil

	case HSixth:
		dt2 := dt * dt
		dt4 := dt2 * dt2
		dt6 := dt4 * dt2
		d1 := h6b1 + 2*h6c1*dt2
		d2 := h6b2 + 2*h6c2*dt2 + 4*h6d2*dt4
		d3 := h6b3 + 2*h6c3*dt2 + 4*h6d3*dt4 - 8*h6e3*dt6
		vs := []float64{d1, d2, d3, d3, d2, d1}
		xs := []float64{h6a1, h6a2, h6a3, h6a2, h6a1}
		return func(s *State, t float64) error {
			elapsed := 0.
			for i, vf := range vs {
				if err := edfdv(s.F, s.E, vf*dt); err != nil {
					return err
				}
				if i < len(xs) {
					vdfdx(s.F, xs[i]*dt)
					elapsed += xs[i] * dt
					solve(s, t+elapsed)
				}
			}
			return nil
		}, nil

	default:
		return nil, fmt.Errorf("vlasov: time integrator %q: %w", kind, errIntegratorNotImplemented)
	}
}
