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
	"strings"
	"testing"

	"github.com/ctessum/sparse"
)

// splitLog records the sub-steps taken by an integrator.
type splitLog struct {
	xSteps, vSteps []float64
	driverTimes    []float64
	order          []byte
}

func (l *splitLog) stepper(t *testing.T, kind Integrator, dt float64) TimeStepper {
	g, err := NewGrid(2, 4, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	vdfdx := func(f *sparse.DenseArray, dt float64) {
		l.xSteps = append(l.xSteps, dt)
		l.order = append(l.order, 'x')
	}
	edfdv := func(f *sparse.DenseArray, e []float64, dt float64) error {
		l.vSteps = append(l.vSteps, dt)
		l.order = append(l.order, 'v')
		return nil
	}
	field := func(driver []float64, f *sparse.DenseArray, e []float64) {
		l.order = append(l.order, 'e')
	}
	driver := func(t float64, dst []float64) {
		l.driverTimes = append(l.driverTimes, t)
	}
	s, err := NewTimeStepper(kind, g, vdfdx, edfdv, field, driver, dt)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func sum(s []float64) float64 {
	var o float64
	for _, v := range s {
		o += v
	}
	return o
}

func TestTimeStepperSplitting(t *testing.T) {
	const (
		dt = 0.1
		t0 = 3.
	)
	for _, test := range []struct {
		kind      Integrator
		order     string
		sumV      bool
		numSolves int
	}{
		{kind: Leapfrog, order: "vxev", sumV: true, numSolves: 1},
		{kind: PEFRL, order: "xevxevxevxevxe", sumV: true, numSolves: 5},
		{kind: HSixth, order: "vxevxevxevxevxev", numSolves: 5},
	} {
		t.Run(string(test.kind), func(t *testing.T) {
			l := new(splitLog)
			step := l.stepper(t, test.kind, dt)
			s := &State{F: sparse.ZerosDense(2, 4), E: make([]float64, 2)}
			if err := step(s, t0); err != nil {
				t.Fatal(err)
			}
			if string(l.order) != test.order {
				t.Errorf("sub-step order %s, want %s", l.order, test.order)
			}
			if different(sum(l.xSteps), dt, 1e-14) {
				t.Errorf("spatial sub-steps sum to %g", sum(l.xSteps))
			}
			if test.sumV && different(sum(l.vSteps), dt, 1e-14) {
				t.Errorf("velocity sub-steps sum to %g", sum(l.vSteps))
			}
			if len(l.driverTimes) != test.numSolves {
				t.Fatalf("%d driver evaluations, want %d", len(l.driverTimes), test.numSolves)
			}
			if last := l.driverTimes[len(l.driverTimes)-1]; different(last, t0+dt, 1e-14) {
				t.Errorf("last driver time %g, want %g", last, t0+dt)
			}
		})
	}
}

func TestTimeStepperError(t *testing.T) {
	g, err := NewGrid(2, 4, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	fail := errors.New("fail")
	step, err := NewTimeStepper(PEFRL, g,
		func(*sparse.DenseArray, float64) {},
		func(*sparse.DenseArray, []float64, float64) error { return fail },
		func([]float64, *sparse.DenseArray, []float64) {},
		func(float64, []float64) {}, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	s := &State{F: g.NewDistribution(), E: make([]float64, 2)}
	if err := step(s, 0); err != fail {
		t.Errorf("have error %v, want %v", err, fail)
	}
}

func TestParseIntegrator(t *testing.T) {
	for _, name := range []string{"leapfrog", "pefrl", "h-sixth"} {
		if i, err := ParseIntegrator(name); err != nil || string(i) != name {
			t.Errorf("%s: %v, %v", name, i, err)
		}
	}
	_, err := ParseIntegrator("rk4")
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("error should wrap ErrNotImplemented: %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "time integrator not implemented") {
		t.Errorf("unexpected error message: %v", err)
	}
}
