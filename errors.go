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
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned when a configuration names a numerical
	// method that is not available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnstable is returned when the simulation produces non-finite
	// values or a collision matrix with a vanishing pivot.
	ErrUnstable = errors.New("numerical instability")
)

// SimulationError records where in a run a failure occurred.
type SimulationError struct {
	Step int     // index of the step that failed
	Time float64 // simulation time at the start of the failed step
	Err  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("vlasov: step %d (t=%g): %v", e.Step, e.Time, e.Err)
}

// Unwrap returns the underlying error.
func (e *SimulationError) Unwrap() error { return e.Err }
