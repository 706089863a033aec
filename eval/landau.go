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

package eval

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// DefaultTail is the fraction of a run, counted back from the end, that
// the Landau diagnostics are fit over.
const DefaultTail = 0.6

// FirstMode returns the first spatial Fourier coefficient of every record
// of e, which has shape [nt, nx].
func FirstMode(e *sparse.DenseArray) ([]complex128, error) {
	if len(e.Shape) != 2 || e.Shape[1] < 2 {
		return nil, fmt.Errorf("eval: electric field has shape %v; need [time, x] with at least 2 cells", e.Shape)
	}
	nt, nx := e.Shape[0], e.Shape[1]
	fft := fourier.NewFFT(nx)
	coeff := make([]complex128, nx/2+1)
	out := make([]complex128, nt)
	for it := range out {
		coeff = fft.Coefficients(coeff, e.Elements[it*nx:(it+1)*nx])
		out[it] = coeff[1]
	}
	return out, nil
}

// tailStart returns the index of the first of the last tail fraction of
// n records.
func tailStart(n int, tail float64) (int, error) {
	if !(tail > 0 && tail <= 1) {
		return 0, fmt.Errorf("eval: tail fraction %g must be in (0, 1]", tail)
	}
	i := n - int(math.Ceil(tail*float64(n)))
	if n-i < 2 {
		return 0, fmt.Errorf("eval: %d records are too few to analyze", n)
	}
	return i, nil
}

// DampingRate returns the exponential growth rate of the first spatial
// mode of e, fit over the last tail fraction of the records. Negative
// values indicate damping.
func DampingRate(times []float64, e *sparse.DenseArray, tail float64) (float64, error) {
	ek, err := FirstMode(e)
	if err != nil {
		return math.NaN(), err
	}
	if len(ek) != len(times) {
		return math.NaN(), fmt.Errorf("eval: %d times but %d electric field records", len(times), len(ek))
	}
	i0, err := tailStart(len(ek), tail)
	if err != nil {
		return math.NaN(), err
	}
	logAmp := make([]float64, len(ek)-i0)
	for i := range logAmp {
		logAmp[i] = math.Log(cmplx.Abs(ek[i0+i]))
	}
	_, slope := stat.LinearRegression(times[i0:], logAmp, nil, false)
	return slope, nil
}

// OscillationFrequency returns the angular frequency at which the first
// spatial mode of e oscillates over the last tail fraction of the
// records. The records must be evenly spaced in time with spacing dt.
func OscillationFrequency(dt float64, e *sparse.DenseArray, tail float64) (float64, error) {
	ek, err := FirstMode(e)
	if err != nil {
		return math.NaN(), err
	}
	i0, err := tailStart(len(ek), tail)
	if err != nil {
		return math.NaN(), err
	}
	seq := ek[i0:]
	n := len(seq)
	spec := fourier.NewCmplxFFT(n).Coefficients(nil, seq)
	mag := make([]float64, n)
	imax := 0
	for i, c := range spec {
		mag[i] = cmplx.Abs(c)
		if mag[i] > mag[imax] {
			imax = i
		}
	}
	// Parabolic interpolation between neighboring frequency bins.
	offset := 0.0
	if n > 2 {
		l, c, r := mag[(imax-1+n)%n], mag[imax], mag[(imax+1)%n]
		if den := l - 2*c + r; den != 0 {
			offset = 0.5 * (l - r) / den
		}
	}
	bin := float64(imax) + offset
	if bin > float64(n)/2 {
		bin -= float64(n)
	}
	return math.Abs(2 * math.Pi * bin / (float64(n) * dt)), nil
}

// SteadyStateAmplitude returns the magnitude and phase of twice the
// orthonormally scaled first spatial mode of the last record of e.
func SteadyStateAmplitude(e *sparse.DenseArray) (amplitude, phase float64, err error) {
	ek, err := FirstMode(e)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	c := 2 * ek[len(ek)-1] / complex(math.Sqrt(float64(e.Shape[1])), 0)
	return cmplx.Abs(c), cmplx.Phase(c), nil
}

// Landau holds the diagnostics of a Landau damping run.
type Landau struct {
	DampingRate          float64
	OscillationFrequency float64
	Amplitude, Phase     float64
}

// Metrics returns the diagnostics in a form suitable for a
// vlasov.MetricsLogger.
func (l Landau) Metrics() map[string]float64 {
	return map[string]float64{
		"damping_rate":          l.DampingRate,
		"oscillation_frequency": l.OscillationFrequency,
		"E_ss_amp":              l.Amplitude,
		"E_ss_phase":            l.Phase / math.Pi,
	}
}

// AnalyzeLandau calculates the Landau damping diagnostics of the
// electric field record e with record times times, fitting over the last
// tail fraction of the records.
func AnalyzeLandau(times []float64, e *sparse.DenseArray, tail float64) (Landau, error) {
	var l Landau
	var err error
	if l.DampingRate, err = DampingRate(times, e, tail); err != nil {
		return l, err
	}
	dt := times[1] - times[0]
	if l.OscillationFrequency, err = OscillationFrequency(dt, e, tail); err != nil {
		return l, err
	}
	l.Amplitude, l.Phase, err = SteadyStateAmplitude(e)
	return l, err
}
