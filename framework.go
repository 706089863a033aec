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
	"github.com/ctessum/sparse"
)

// State holds the evolving fields of a simulation: the electron
// distribution function and the electric field.
type State struct {
	// F is the distribution function with shape [Nx, Nv].
	F *sparse.DenseArray

	// E is the total electric field, including the driver, at each
	// spatial cell.
	E []float64
}

// Copy returns a deep copy of s.
func (s State) Copy() State {
	o := State{E: make([]float64, len(s.E))}
	copy(o.E, s.E)
	if s.F != nil {
		o.F = s.F.Copy()
	}
	return o
}

// Simulation holds the current state of the model.
type Simulation struct {
	Grid *Grid
	State

	// Driver is the external driving field at the current time.
	Driver []float64

	Time float64 // current simulation time
	Dt   float64 // time step
	Step int     // number of completed time steps

	// InitFuncs are functions to be called in sequence at the
	// beginning of the simulation.
	InitFuncs []DomainManipulator

	// RunFuncs are functions to be called in sequence at each time step.
	RunFuncs []DomainManipulator

	// CleanupFuncs are functions to be called in sequence after the
	// simulation has finished, whether or not it finished successfully.
	CleanupFuncs []DomainManipulator

	// Done specifies whether the simulation is finished.
	Done bool
}

// DomainManipulator is a class of functions that operate on the entire
// simulation.
type DomainManipulator func(s *Simulation) error

// Init initializes the simulation by running s.InitFuncs.
func (s *Simulation) Init() error {
	for _, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the simulation by running s.RunFuncs until s.Done is true.
func (s *Simulation) Run() error {
	for !s.Done {
		for _, f := range s.RunFuncs {
			if err := f(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup finalizes the simulation by running s.CleanupFuncs. All of the
// functions are run even if some of them fail; the first error is returned.
func (s *Simulation) Cleanup() error {
	var firstErr error
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Checkpoint is a self-contained copy of a simulation's state at one time.
type Checkpoint struct {
	State
	Driver []float64
	Time   float64
	Step   int
}

// Checkpoint returns a copy of the current state of s that is not affected
// by further time steps.
func (s *Simulation) Checkpoint() Checkpoint {
	c := Checkpoint{
		State:  s.State.Copy(),
		Driver: make([]float64, len(s.Driver)),
		Time:   s.Time,
		Step:   s.Step,
	}
	copy(c.Driver, s.Driver)
	return c
}
