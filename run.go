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
	"time"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// InitialConditions sets up the distribution function and the electric
// field at the start of the simulation. If f0 is nil and the simulation
// does not yet have a distribution function, a Maxwellian is used.
func InitialConditions(f0 *sparse.DenseArray, field FieldSolver, driver DriverFunc) DomainManipulator {
	return func(s *Simulation) error {
		g := s.Grid
		if g == nil {
			return fmt.Errorf("vlasov: simulation has no grid")
		}
		switch {
		case f0 != nil:
			s.F = f0.Copy()
		case s.F == nil:
			s.F = Maxwellian(g)
		}
		if len(s.F.Shape) != 2 || s.F.Shape[0] != g.Nx || s.F.Shape[1] != g.Nv {
			return fmt.Errorf("vlasov: initial distribution has shape %v but the grid is [%d %d]",
				s.F.Shape, g.Nx, g.Nv)
		}
		s.E = make([]float64, g.Nx)
		s.Driver = make([]float64, g.Nx)
		driver(s.Time, s.Driver)
		field(s.Driver, s.F, s.E)
		return nil
	}
}

// Advance carries out one time step: the Vlasov-Poisson update followed by
// the collision step. collide may be nil.
func Advance(step TimeStepper, collide Collider, driver DriverFunc) DomainManipulator {
	return func(s *Simulation) error {
		if err := step(&s.State, s.Time); err != nil {
			return &SimulationError{Step: s.Step + 1, Time: s.Time, Err: err}
		}
		if collide != nil {
			if err := collide(s.F); err != nil {
				return &SimulationError{Step: s.Step + 1, Time: s.Time, Err: err}
			}
		}
		s.Step++
		s.Time = float64(s.Step) * s.Dt
		driver(s.Time, s.Driver)
		return nil
	}
}

// CheckHealth returns an error if the distribution function or electric
// field contain values that are not finite.
func CheckHealth() DomainManipulator {
	return func(s *Simulation) error {
		for i, e := range s.E {
			if math.IsNaN(e) || math.IsInf(e, 0) {
				return &SimulationError{Step: s.Step, Time: s.Time,
					Err: fmt.Errorf("electric field is %g at x index %d: %w", e, i, ErrUnstable)}
			}
		}
		for i, f := range s.F.Elements {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return &SimulationError{Step: s.Step, Time: s.Time,
					Err: fmt.Errorf("distribution function is %g at index [%d %d]: %w",
						f, i/s.Grid.Nv, i%s.Grid.Nv, ErrUnstable)}
			}
		}
		return nil
	}
}

// Record adds the current state of the simulation to r.
func Record(r *Recorder) DomainManipulator {
	return func(s *Simulation) error {
		return r.Add(s)
	}
}

// CloseRecorder writes any remaining records in r and closes its store.
// It is meant to be used as a cleanup function so that partial results
// are kept when a simulation fails.
func CloseRecorder(r *Recorder) DomainManipulator {
	return func(s *Simulation) error {
		return r.Close(s.Step)
	}
}

// StopAfter sets the Done flag once numSteps time steps have completed.
func StopAfter(numSteps int) DomainManipulator {
	return func(s *Simulation) error {
		if s.Step >= numSteps {
			s.Done = true
		}
		return nil
	}
}

// Log writes simulation status messages to logger every `every` steps.
func Log(logger logrus.FieldLogger, every int) DomainManipulator {
	if every < 1 {
		every = 1
	}
	startTime := time.Now()
	stepTime := time.Now()
	return func(s *Simulation) error {
		if s.Step%every != 0 {
			return nil
		}
		logger.WithFields(logrus.Fields{
			"step":      s.Step,
			"walltime":  time.Since(startTime).Round(time.Millisecond).String(),
			"Δwalltime": time.Since(stepTime).Round(time.Millisecond).String(),
			"time":      fmt.Sprintf("%.4g", s.Time),
		}).Info("Step")
		stepTime = time.Now()
		return nil
	}
}
