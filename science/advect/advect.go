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

// Package advect contains operators that advance the phase-space
// distribution function under the free-streaming (v ∂f/∂x) and
// acceleration (E ∂f/∂v) terms of the Vlasov equation.
package advect

import (
	"fmt"

	"github.com/spatialmodel/vlasov"
)

// Method specifies a discretization of an advection term.
type Method string

// Available advection methods.
const (
	// Exponential advects by multiplying the Fourier transform of f
	// by a phase shift.
	Exponential Method = "exponential"

	// SemiLagrangian advects by cubic spline interpolation of f at the
	// departure points of the characteristics.
	SemiLagrangian Method = "sl"

	// CenterDifference advects with a single explicit step using
	// second-order centered differences. Velocity only.
	CenterDifference Method = "cd2"

	// WENO5 is linearized fifth-order weighted essentially
	// non-oscillatory advection. It is recognized but not available, and
	// requesting it results in ErrNotImplemented.
	WENO5 Method = "lw5"
)

// ParseMethod converts s into a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Exponential, SemiLagrangian, CenterDifference, WENO5:
		return m, nil
	default:
		return "", fmt.Errorf("advect: method %q: %w", s, vlasov.ErrNotImplemented)
	}
}

// Spatial returns an operator that advances f under v ∂f/∂x using
// method m on grid g. The x axis is periodic.
func Spatial(g *vlasov.Grid, m Method) (vlasov.SpatialAdvector, error) {
	switch m {
	case Exponential:
		return spatialExponential(g), nil
	case SemiLagrangian:
		return spatialSemiLagrangian(g), nil
	default:
		return nil, fmt.Errorf("advect: spatial advection method %q: %w", m, vlasov.ErrNotImplemented)
	}
}

// Velocity returns an operator that advances f under E ∂f/∂v using
// method m on grid g.
func Velocity(g *vlasov.Grid, m Method) (vlasov.VelocityAdvector, error) {
	switch m {
	case Exponential:
		return velocityExponential(g), nil
	case SemiLagrangian:
		return velocitySemiLagrangian(g), nil
	case CenterDifference:
		return velocityCentered(g)
	default:
		return nil, fmt.Errorf("advect: velocity advection method %q: %w", m, vlasov.ErrNotImplemented)
	}
}
