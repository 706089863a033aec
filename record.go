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
	"gonum.org/v1/gonum/dsp/fourier"
)

// FStorage specifies how much of the distribution function is recorded.
type FStorage string

// Available distribution function recording rules.
const (
	// StoreAll records the full distribution function at every step.
	StoreAll FStorage = "all"

	// StoreModes records the lowest spatial Fourier modes of the
	// distribution function at every step.
	StoreModes FStorage = "modes"
)

// ParseFStorage converts s into an FStorage.
func ParseFStorage(s string) (FStorage, error) {
	switch fs := FStorage(s); fs {
	case StoreAll, StoreModes:
		return fs, nil
	default:
		return "", fmt.Errorf("vlasov: store_f %q: %w", s, ErrNotImplemented)
	}
}

// FieldNames are the names of the spatially resolved quantities recorded
// at every step.
var FieldNames = append([]string{"e", "driver"}, MomentNames...)

// BatchSize returns the number of steps to hold in memory between writes
// so that the batch buffers use about maxGB gigabytes.
func BatchSize(g *Grid, fs FStorage, numModes int, maxGB float64, nt int) int {
	memF := g.Nx * g.Nv
	if fs == StoreModes {
		memF = 2 * numModes * g.Nv
	}
	memField := 8 * g.Nx
	n := int(math.Floor(1e9 * maxGB / float64(6*(memF+memField)*8)))
	if n > nt {
		n = int(math.Floor(float64(nt) / 1.25))
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Batch holds the records of a contiguous run of time steps.
type Batch struct {
	Start int // record index of the first entry
	N     int // number of filled entries

	Time   []float64
	Fields map[string]*sparse.DenseArray // [size, nx]
	Series map[string][]float64

	// F holds the distribution function [size, nx, nv] when recording
	// StoreAll.
	F *sparse.DenseArray

	// FReal and FImag hold the real and imaginary parts of the
	// orthonormally scaled spatial Fourier modes [size, modes, nv] when
	// recording StoreModes.
	FReal, FImag *sparse.DenseArray
}

func newBatch(g *Grid, fs FStorage, numModes, size int) *Batch {
	b := &Batch{
		Time:   make([]float64, size),
		Fields: make(map[string]*sparse.DenseArray),
		Series: make(map[string][]float64),
	}
	for _, name := range FieldNames {
		b.Fields[name] = sparse.ZerosDense(size, g.Nx)
	}
	for _, name := range SeriesNames {
		b.Series[name] = make([]float64, size)
	}
	for _, name := range DerivedSeriesNames {
		b.Series[name] = make([]float64, size)
	}
	switch fs {
	case StoreAll:
		b.F = sparse.ZerosDense(size, g.Nx, g.Nv)
	case StoreModes:
		b.FReal = sparse.ZerosDense(size, numModes, g.Nv)
		b.FImag = sparse.ZerosDense(size, numModes, g.Nv)
	}
	return b
}

// row returns record i of a [size, ...] buffer.
func row(a *sparse.DenseArray, i int) []float64 {
	n := len(a.Elements) / a.Shape[0]
	return a.Elements[i*n : (i+1)*n]
}

// Store is a destination for batches of records.
type Store interface {
	WriteBatch(b *Batch) error
	Close() error
}

// Recorder accumulates the state of a simulation at every step into
// batches and writes full batches to a Store.
type Recorder struct {
	g        *Grid
	store    Store
	metrics  MetricsLogger
	fs       FStorage
	numModes int

	batch      *Batch
	moments    *Moments
	cumDE2     float64
	batchStart time.Time

	workers Workers
	ffts    []*fourier.FFT
	cols    [][]float64
	coeffs  [][]complex128
}

// NewRecorder creates a Recorder that writes batches of batchSize steps
// to store. numModes is only used when fs is StoreModes. metrics may be nil.
func NewRecorder(g *Grid, store Store, fs FStorage, numModes, batchSize int, metrics MetricsLogger) (*Recorder, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("vlasov: batch size %d must be >0", batchSize)
	}
	r := &Recorder{
		g:          g,
		store:      store,
		metrics:    metrics,
		fs:         fs,
		numModes:   numModes,
		moments:    NewMoments(g),
		batchStart: time.Now(),
	}
	switch fs {
	case StoreAll:
	case StoreModes:
		if numModes < 1 || numModes > g.Nx/2+1 {
			return nil, fmt.Errorf("vlasov: num_modes=%d must be between 1 and %d", numModes, g.Nx/2+1)
		}
		r.workers = NewWorkers(g.Nv)
		for i := 0; i < int(r.workers); i++ {
			r.ffts = append(r.ffts, fourier.NewFFT(g.Nx))
			r.cols = append(r.cols, make([]float64, g.Nx))
			r.coeffs = append(r.coeffs, make([]complex128, g.Nx/2+1))
		}
	default:
		return nil, fmt.Errorf("vlasov: store_f %q: %w", fs, ErrNotImplemented)
	}
	r.batch = newBatch(g, fs, numModes, batchSize)
	return r, nil
}

// Add records the current state of s, writing the batch if it is full.
func (r *Recorder) Add(s *Simulation) error {
	b := r.batch
	i := b.N
	b.Time[i] = s.Time
	copy(row(b.Fields["e"], i), s.E)
	copy(row(b.Fields["driver"], i), s.Driver)

	r.moments.Calculate(s.F)
	for k, m := range r.moments.Fields() {
		copy(row(b.Fields[MomentNames[k]], i), m)
	}
	for k, v := range r.moments.Series(s.F, s.E, s.Driver, s.Dt) {
		b.Series[SeriesNames[k]][i] = v
	}

	switch r.fs {
	case StoreAll:
		copy(row(b.F, i), s.F.Elements)
	case StoreModes:
		r.modes(s.F, row(b.FReal, i), row(b.FImag, i))
	}

	b.N++
	if b.N == len(b.Time) {
		return r.Flush(s.Step)
	}
	return nil
}

// modes stores the lowest spatial Fourier modes of f, scaled by 1/√nx.
func (r *Recorder) modes(f *sparse.DenseArray, re, im []float64) {
	g := r.g
	scale := 1 / math.Sqrt(float64(g.Nx))
	r.workers.Do(g.Nv, func(w, j int) {
		col := r.cols[w]
		for ix := range col {
			col[ix] = f.Elements[ix*g.Nv+j]
		}
		r.coeffs[w] = r.ffts[w].Coefficients(r.coeffs[w], col)
		for k := 0; k < r.numModes; k++ {
			c := r.coeffs[w][k]
			re[k*g.Nv+j] = real(c) * scale
			im[k*g.Nv+j] = imag(c) * scale
		}
	})
}

// Flush calculates the derived series of the current batch, writes it to
// the store, and starts a new batch. step is the simulation step used to
// label the batch metrics.
func (r *Recorder) Flush(step int) error {
	b := r.batch
	if b.N == 0 {
		return nil
	}
	start := time.Now()
	calcTime := start.Sub(r.batchStart).Seconds() / float64(b.N)

	de2 := b.Series["mean_de2"]
	cum := b.Series["mean_cum_de2"]
	balance := b.Series["mean_t_plus_e2_minus_cum_de2"]
	total := r.cumDE2
	for i := 0; i < b.N; i++ {
		total += de2[i]
		cum[i] = total
		balance[i] = b.Series["mean_T"][i] + b.Series["mean_e2"][i] - total
	}

	// The batch is kept on failure, so the running sum only advances
	// once it has been written.
	if err := r.store.WriteBatch(b); err != nil {
		return fmt.Errorf("vlasov: writing records %d-%d: %w", b.Start, b.Start+b.N-1, err)
	}
	r.cumDE2 = total
	if r.metrics != nil {
		r.metrics.LogMetrics(step, map[string]float64{
			"calculation_time":  calcTime,
			"batch_update_time": time.Since(start).Seconds(),
		})
	}
	b.Start += b.N
	b.N = 0
	r.batchStart = time.Now()
	return nil
}

// Records returns the number of records added so far.
func (r *Recorder) Records() int { return r.batch.Start + r.batch.N }

// Close writes any partially filled batch and closes the store.
func (r *Recorder) Close(step int) error {
	err := r.Flush(step)
	if cerr := r.store.Close(); err == nil {
		err = cerr
	}
	return err
}
