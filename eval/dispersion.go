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

// Package eval holds diagnostics for evaluating simulation results
// against linear plasma theory.
package eval

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/vlasov/internal/hash"
	"gonum.org/v1/gonum/dsp/fourier"
)

// weidemanN is the number of terms in the rational approximation of the
// Faddeeva function.
const weidemanN = 32

var (
	weidemanL    = math.Sqrt(weidemanN / math.Sqrt2)
	weidemanCoef = faddeevaCoefficients()
)

// faddeevaCoefficients returns the expansion coefficients a_1..a_N of
// Weideman (1994), "Computation of the complex error function", SIAM J.
// Numer. Anal. 31(5).
func faddeevaCoefficients() []float64 {
	const m = 2 * weidemanN
	const m2 = 2 * m
	L := weidemanL
	// Samples of exp(-t²)(L²+t²), t = L tan(θ/2), in standard FFT order.
	f := make([]float64, m2)
	for i := range f {
		k := i
		if i > m {
			k = i - m2
		}
		if i == m {
			continue
		}
		t := L * math.Tan(float64(k)*math.Pi/float64(2*m))
		f[i] = math.Exp(-t*t) * (L*L + t*t)
	}
	coeff := fourier.NewFFT(m2).Coefficients(nil, f)
	a := make([]float64, weidemanN)
	for n := range a {
		a[n] = real(coeff[n+1]) / m2
	}
	return a
}

// faddeevaUpper evaluates w(z) for Im(z) >= 0.
func faddeevaUpper(z complex128) complex128 {
	L := complex(weidemanL, 0)
	d := L - 1i*z
	zz := (L + 1i*z) / d
	var p complex128
	for n := weidemanN - 1; n >= 0; n-- {
		p = p*zz + complex(weidemanCoef[n], 0)
	}
	return 2*p/(d*d) + complex(1/math.Sqrt(math.Pi), 0)/d
}

// Faddeeva returns the Faddeeva function w(z) = exp(-z²) erfc(-iz).
func Faddeeva(z complex128) complex128 {
	if imag(z) >= 0 {
		return faddeevaUpper(z)
	}
	return 2*cmplx.Exp(-z*z) - faddeevaUpper(-z)
}

// Z returns the plasma dispersion function of Fried and Conte.
func Z(zeta complex128) complex128 {
	return 1i * complex(math.Sqrt(math.Pi), 0) * Faddeeva(zeta)
}

// ZPrime returns the derivative of the plasma dispersion function,
// Z'(ζ) = -2(1 + ζZ(ζ)).
func ZPrime(zeta complex128) complex128 {
	return -2 * (1 + zeta*Z(zeta))
}

// Plasma describes a Maxwellian electron plasma.
type Plasma struct {
	Wp  float64 // electron plasma frequency
	Vth float64 // electron thermal velocity
}

// Unit is the plasma in normalized simulation units.
var Unit = Plasma{Wp: 1, Vth: 1}

const (
	maxNewtonIterations = 100
	newtonTolerance     = 1e-12
)

// EPWRoot returns the complex frequency of the least damped electron
// plasma wave with wavenumber k. The real part is the oscillation
// frequency and the imaginary part is the Landau damping rate.
func (p Plasma) EPWRoot(k float64) (complex128, error) {
	if !(k > 0) || !(p.Vth > 0) || !(p.Wp > 0) {
		return 0, fmt.Errorf("eval: invalid dispersion parameters k=%g, wp=%g, vth=%g", k, p.Wp, p.Vth)
	}
	scale := math.Sqrt2 * k * p.Vth
	chi := complex(p.Wp*p.Wp/(k*k*p.Vth*p.Vth)/2, 0)
	// Bohm-Gross guess
	zeta := complex(math.Sqrt(p.Wp*p.Wp+3*k*k*p.Vth*p.Vth)/scale, 0)
	for i := 0; i < maxNewtonIterations; i++ {
		z := Z(zeta)
		zp := -2 * (1 + zeta*z)
		zpp := -2 * (z + zeta*zp)
		eps := 1 - chi*zp
		deps := -chi * zpp
		if deps == 0 {
			break
		}
		step := eps / deps
		zeta -= step
		if cmplx.Abs(step) < newtonTolerance*cmplx.Abs(zeta) {
			return zeta * complex(scale, 0), nil
		}
	}
	return 0, fmt.Errorf("eval: dispersion root for k=%g did not converge", k)
}

// EPWRoot returns the electron plasma wave root for wavenumber k in
// normalized units.
func EPWRoot(k float64) (complex128, error) { return Unit.EPWRoot(k) }

type rootRequest struct {
	Plasma Plasma
	K      float64
}

// RootCache deduplicates and caches dispersion root calculations.
type RootCache struct {
	c *requestcache.Cache
}

// NewRootCache returns a RootCache holding up to size roots in memory.
func NewRootCache(size int) *RootCache {
	return &RootCache{
		c: requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(rootRequest)
			return r.Plasma.EPWRoot(r.K)
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(size)),
	}
}

// EPWRoot returns the cached root for plasma p and wavenumber k.
func (rc *RootCache) EPWRoot(ctx context.Context, p Plasma, k float64) (complex128, error) {
	req := rootRequest{Plasma: p, K: k}
	res, err := rc.c.NewRequest(ctx, req, "epw_"+hash.Hash(req)).Result()
	if err != nil {
		return 0, err
	}
	return res.(complex128), nil
}

// Requests returns the number of roots that have been requested and the
// number that had to be calculated.
func (rc *RootCache) Requests() (received, calculated int) {
	r := rc.c.Requests()
	return r[0], r[len(r)-1]
}
