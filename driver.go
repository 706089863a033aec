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
	"sort"
)

// Shape specifies the time envelope of a driver pulse.
type Shape string

// Available pulse envelopes.
const (
	Tanh       Shape = "tanh"
	Smoothstep Shape = "smoothstep"
)

// Pulse describes a traveling-wave driver field with a time envelope.
// Which of the timing fields are used depends on Shape: TL, TWL, TR and TWR
// control a Tanh envelope, and StartTime, RiseTime, FlatTime and FallTime
// control a Smoothstep envelope.
type Pulse struct {
	Shape Shape `toml:"shape"`

	K0 float64 `toml:"k0"` // wavenumber
	W0 float64 `toml:"w0"` // frequency
	A0 float64 `toml:"a0"` // amplitude

	TL  float64 `toml:"t_L"`  // time of the rising edge
	TWL float64 `toml:"t_wL"` // width of the rising edge
	TR  float64 `toml:"t_R"`  // time of the falling edge
	TWR float64 `toml:"t_wR"` // width of the falling edge

	StartTime float64 `toml:"start_time"`
	RiseTime  float64 `toml:"rise_time"`
	FlatTime  float64 `toml:"flat_time"`
	FallTime  float64 `toml:"fall_time"`
}

// Validate checks whether p describes a usable pulse.
func (p Pulse) Validate() error {
	switch p.Shape {
	case Tanh:
		if !(p.TWL > 0) || !(p.TWR > 0) {
			return fmt.Errorf("vlasov: tanh pulse widths t_wL=%g and t_wR=%g must be >0", p.TWL, p.TWR)
		}
	case Smoothstep:
		if !(p.RiseTime > 0) || !(p.FallTime > 0) {
			return fmt.Errorf("vlasov: smoothstep pulse rise_time=%g and fall_time=%g must be >0", p.RiseTime, p.FallTime)
		}
		if p.FlatTime < 0 {
			return fmt.Errorf("vlasov: smoothstep pulse flat_time=%g must not be negative", p.FlatTime)
		}
	default:
		return fmt.Errorf("vlasov: pulse shape %q: %w", p.Shape, ErrNotImplemented)
	}
	return nil
}

// Envelope returns the amplitude multiplier of p at time t.
func (p Pulse) Envelope(t float64) float64 {
	switch p.Shape {
	case Tanh:
		return 0.5 * (math.Tanh((t-p.TL)/p.TWL) - math.Tanh((t-p.TR)/p.TWR))
	case Smoothstep:
		rise := p.StartTime + p.RiseTime
		flat := rise + p.FlatTime
		end := flat + p.FallTime
		switch {
		case t < p.StartTime || t >= end:
			return 0
		case t < rise:
			return smoothstep((t - p.StartTime) / p.RiseTime)
		case t < flat:
			return 1
		default:
			return smoothstep((end - t) / p.FallTime)
		}
	}
	return 0
}

// smoothstep is the fifth-order polynomial with zero first and second
// derivatives at s=0 and s=1.
func smoothstep(s float64) float64 {
	return s * s * s * (s*(6*s-15) + 10)
}

// Field adds the field of p at time t on the spatial axis x to dst.
func (p Pulse) Field(x []float64, t float64, dst []float64) {
	env := p.Envelope(t)
	if env == 0 {
		return
	}
	switch p.Shape {
	case Tanh:
		amp := env * p.K0 * p.A0
		for i, xi := range x {
			dst[i] += amp * math.Sin(p.K0*xi-p.W0*t)
		}
	case Smoothstep:
		amp := env * p.A0
		for i, xi := range x {
			dst[i] += amp * math.Cos(p.K0*xi-p.W0*t)
		}
	}
}

// DriverFunc stores the external driver field at time t in dst.
type DriverFunc func(t float64, dst []float64)

// NewDriver returns a DriverFunc that superposes the fields of all of the
// given pulses on the spatial axis x. The pulses are applied in order of
// their names. An empty set of pulses results in a zero driver.
func NewDriver(x []float64, pulses map[string]Pulse) (DriverFunc, error) {
	names := make([]string, 0, len(pulses))
	for name, p := range pulses {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("pulse %s: %w", name, err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	ps := make([]Pulse, len(names))
	for i, name := range names {
		ps[i] = pulses[name]
	}
	return func(t float64, dst []float64) {
		for i := range dst {
			dst[i] = 0
		}
		for _, p := range ps {
			p.Field(x, t, dst)
		}
	}, nil
}
