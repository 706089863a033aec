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
	"io"
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Output is a Store that writes simulation records to a NetCDF file with
// an unlimited time dimension.
type Output struct {
	w        *os.File
	f        *cdf.File
	g        *Grid
	fs       FStorage
	numModes int
}

// CreateOutput creates a NetCDF file at path for simulations on g.
// attrs are written as global attributes; values may be strings, ints or
// float64s.
func CreateOutput(path string, g *Grid, fs FStorage, numModes int, attrs map[string]interface{}) (*Output, error) {
	dims := []string{"time", "x", "v"}
	lengths := []int{0, g.Nx, g.Nv}
	if fs == StoreModes {
		dims = append(dims, "mode")
		lengths = append(lengths, numModes)
	}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "Vlasov-Poisson-Fokker-Planck simulation output")

	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(attrs))
	for n := range attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		switch v := attrs[name].(type) {
		case string:
			h.AddAttribute("", name, v)
		case float64:
			h.AddAttribute("", name, []float64{v})
		case int:
			h.AddAttribute("", name, []int32{int32(v)})
		case bool:
			h.AddAttribute("", name, fmt.Sprint(v))
		default:
			return nil, fmt.Errorf("vlasov: unsupported attribute type %T for %s", v, name)
		}
	}

	h.AddVariable("x", []string{"x"}, []float64{0})
	h.AddAttribute("x", "description", "Spatial cell centers")
	h.AddVariable("v", []string{"v"}, []float64{0})
	h.AddAttribute("v", "description", "Velocity cell centers")
	h.AddVariable("time", []string{"time"}, []float64{0})
	for _, name := range FieldNames {
		h.AddVariable(name, []string{"time", "x"}, []float64{0})
	}
	for _, name := range append(append([]string{}, SeriesNames...), DerivedSeriesNames...) {
		h.AddVariable(name, []string{"time"}, []float64{0})
	}
	switch fs {
	case StoreAll:
		h.AddVariable("f", []string{"time", "x", "v"}, []float64{0})
	case StoreModes:
		h.AddVariable("f_real", []string{"time", "mode", "v"}, []float64{0})
		h.AddAttribute("f_real", "description", "Real part of orthonormal spatial Fourier modes of f")
		h.AddVariable("f_imag", []string{"time", "mode", "v"}, []float64{0})
		h.AddAttribute("f_imag", "description", "Imaginary part of orthonormal spatial Fourier modes of f")
	default:
		return nil, fmt.Errorf("vlasov: store_f %q: %w", fs, ErrNotImplemented)
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return nil, fmt.Errorf("vlasov: invalid output header: %v", errs[0])
	}

	w, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("vlasov: creating output file: %w", err)
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("vlasov: writing output header: %w", err)
	}
	o := &Output{w: w, f: f, g: g, fs: fs, numModes: numModes}
	if err := o.writeFixed("x", g.X); err != nil {
		w.Close()
		return nil, err
	}
	if err := o.writeFixed("v", g.V); err != nil {
		w.Close()
		return nil, err
	}
	return o, nil
}

func (o *Output) writeFixed(name string, data []float64) error {
	_, err := o.f.Writer(name, nil, nil).Write(data)
	// Writing up to the exact end of a fixed-size variable reports EOF.
	if err != nil && err != io.EOF {
		return fmt.Errorf("vlasov: writing %s: %w", name, err)
	}
	return nil
}

func (o *Output) writeRecords(name string, start, size int, data []float64) error {
	begin := make([]int, len(o.f.Header.Lengths(name)))
	begin[0] = start
	if _, err := o.f.Writer(name, begin, nil).Write(data[:size]); err != nil {
		return fmt.Errorf("vlasov: writing %s: %w", name, err)
	}
	return nil
}

// WriteBatch implements Store.
func (o *Output) WriteBatch(b *Batch) error {
	if err := o.writeRecords("time", b.Start, b.N, b.Time); err != nil {
		return err
	}
	for _, name := range FieldNames {
		if err := o.writeRecords(name, b.Start, b.N*o.g.Nx, b.Fields[name].Elements); err != nil {
			return err
		}
	}
	for name, s := range b.Series {
		if err := o.writeRecords(name, b.Start, b.N, s); err != nil {
			return err
		}
	}
	switch o.fs {
	case StoreAll:
		return o.writeRecords("f", b.Start, b.N*o.g.Nx*o.g.Nv, b.F.Elements)
	case StoreModes:
		n := b.N * o.numModes * o.g.Nv
		if err := o.writeRecords("f_real", b.Start, n, b.FReal.Elements); err != nil {
			return err
		}
		return o.writeRecords("f_imag", b.Start, n, b.FImag.Elements)
	}
	return nil
}

// Close updates the number of records in the file header and closes the file.
func (o *Output) Close() error {
	if err := cdf.UpdateNumRecs(o.w); err != nil {
		o.w.Close()
		return fmt.Errorf("vlasov: finalizing output: %w", err)
	}
	return o.w.Close()
}

// OutputReader reads simulation records from a file written by Output.
type OutputReader struct {
	r    *os.File
	f    *cdf.File
	nrec int
}

// OpenOutput opens the simulation output file at path.
func OpenOutput(path string) (*OutputReader, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vlasov: opening output: %w", err)
	}
	f, err := cdf.Open(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("vlasov: reading output header: %w", err)
	}
	fi, err := r.Stat()
	if err != nil {
		r.Close()
		return nil, err
	}
	return &OutputReader{r: r, f: f, nrec: int(f.Header.NumRecs(fi.Size()))}, nil
}

// NumRecords returns the number of time records in the file.
func (o *OutputReader) NumRecords() int { return o.nrec }

// Variable reads all records of the named variable. The first dimension
// of the result is time for record variables.
func (o *OutputReader) Variable(name string) (*sparse.DenseArray, error) {
	lengths := o.f.Header.Lengths(name)
	if len(lengths) == 0 {
		return nil, fmt.Errorf("vlasov: output has no variable %q", name)
	}
	shape := append([]int{}, lengths...)
	if o.f.Header.IsRecordVariable(name) {
		shape[0] = o.nrec
	}
	n := 1
	for _, l := range shape {
		n *= l
	}
	out := sparse.ZerosDense(shape...)
	if n == 0 {
		return out, nil
	}
	begin := make([]int, len(shape))
	end := make([]int, len(shape))
	for i, l := range shape {
		end[i] = l - 1
	}
	if _, err := o.f.Reader(name, begin, end).Read(out.Elements); err != nil {
		return nil, fmt.Errorf("vlasov: reading %s: %w", name, err)
	}
	return out, nil
}

// Times returns the simulation time of every record.
func (o *OutputReader) Times() ([]float64, error) {
	return o.Series("time")
}

// Series returns a one-dimensional record variable such as "mean_e2".
func (o *OutputReader) Series(name string) ([]float64, error) {
	d, err := o.Variable(name)
	if err != nil {
		return nil, err
	}
	return d.Elements, nil
}

// Field returns a spatially resolved record variable such as "e" with
// shape [time, x].
func (o *OutputReader) Field(name string) (*sparse.DenseArray, error) {
	return o.Variable(name)
}

// Attribute returns the global attribute with the given name, or nil if
// it does not exist. Numeric attributes are returned as []float64 or
// []int32.
func (o *OutputReader) Attribute(name string) interface{} {
	return o.f.Header.GetAttribute("", name)
}

// Close closes the underlying file.
func (o *OutputReader) Close() error { return o.r.Close() }
