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
	"math"
	"testing"
)

func TestTanhPulse(t *testing.T) {
	p := Pulse{Shape: Tanh, K0: 0.3, W0: 1.16, A0: 1e-2, TL: 6, TWL: 2.5, TR: 20, TWR: 2.5}
	x := []float64{0.5, 1.5, 2.5}
	const tt = 13.
	dst := make([]float64, len(x))
	p.Field(x, tt, dst)
	env := 0.5 * (math.Tanh((tt-6)/2.5) - math.Tanh((tt-20)/2.5))
	for i, xi := range x {
		want := env * 0.3 * 1e-2 * math.Sin(0.3*xi-1.16*tt)
		if different(dst[i], want, 1e-15) {
			t.Errorf("x=%g: have %g, want %g", xi, dst[i], want)
		}
	}
}

func TestSmoothstepEnvelope(t *testing.T) {
	p := Pulse{Shape: Smoothstep, A0: 2, StartTime: 10, RiseTime: 4, FlatTime: 6, FallTime: 2}
	for _, test := range []struct {
		t, want float64
	}{
		{t: 0, want: 0},
		{t: 10, want: 0},
		{t: 12, want: 0.5},
		{t: 14, want: 1},
		{t: 17, want: 1},
		{t: 21, want: 0.5},
		{t: 22, want: 0},
		{t: 30, want: 0},
	} {
		if have := p.Envelope(test.t); different(have, test.want, 1e-14) {
			t.Errorf("envelope(%g) = %g, want %g", test.t, have, test.want)
		}
	}
	dst := make([]float64, 1)
	p.Field([]float64{0}, 17, dst)
	if different(dst[0], 2*math.Cos(-p.W0*17), 1e-14) {
		t.Errorf("field = %g", dst[0])
	}
}

func TestDriverSuperposition(t *testing.T) {
	x := []float64{0.1, 0.7, 1.3, 4}
	a := Pulse{Shape: Tanh, K0: 0.3, W0: 1.1, A0: 1, TL: 0, TWL: 1, TR: 50, TWR: 1}
	b := Pulse{Shape: Smoothstep, K0: 0.6, W0: 1.5, A0: 0.5, RiseTime: 5, FlatTime: 10, FallTime: 5}
	driver, err := NewDriver(x, map[string]Pulse{"a": a, "b": b})
	if err != nil {
		t.Fatal(err)
	}
	const tt = 7.
	want := make([]float64, len(x))
	a.Field(x, tt, want)
	b.Field(x, tt, want)
	have := []float64{9, 9, 9, 9} // must be overwritten
	driver(tt, have)
	for i := range x {
		if different(have[i], want[i], 1e-15) {
			t.Errorf("x=%g: have %g, want %g", x[i], have[i], want[i])
		}
	}

	none, err := NewDriver(x, nil)
	if err != nil {
		t.Fatal(err)
	}
	none(tt, have)
	for i, h := range have {
		if h != 0 {
			t.Errorf("empty driver at %d = %g", i, h)
		}
	}
}

func TestPulseValidate(t *testing.T) {
	for _, test := range []struct {
		name  string
		p     Pulse
		valid bool
	}{
		{name: "tanh", p: Pulse{Shape: Tanh, TWL: 1, TWR: 1}, valid: true},
		{name: "tanh_zero_width", p: Pulse{Shape: Tanh, TWL: 0, TWR: 1}},
		{name: "smoothstep", p: Pulse{Shape: Smoothstep, RiseTime: 1, FallTime: 1}, valid: true},
		{name: "smoothstep_negative_flat", p: Pulse{Shape: Smoothstep, RiseTime: 1, FallTime: 1, FlatTime: -1}},
		{name: "unknown", p: Pulse{Shape: "square"}},
	} {
		t.Run(test.name, func(t *testing.T) {
			err := test.p.Validate()
			if test.valid != (err == nil) {
				t.Errorf("valid=%v but err=%v", test.valid, err)
			}
		})
	}
	if err := (Pulse{Shape: "square"}).Validate(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("unknown shape error should wrap ErrNotImplemented: %v", err)
	}
}
