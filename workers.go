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
	"runtime"
	"sync"
)

// Workers is the number of goroutines that row-wise calculations are
// split across. Rows of the distribution function are independent within a
// sub-step, so no locking is needed as long as each row is written by a
// single worker.
type Workers int

// NewWorkers returns a worker count suited to n independent rows.
func NewWorkers(n int) Workers {
	nprocs := runtime.GOMAXPROCS(0)
	if n < nprocs {
		nprocs = n
	}
	if nprocs < 1 {
		nprocs = 1
	}
	return Workers(nprocs)
}

// Do concurrently runs fn on all rows in [0, n). fn is passed the index of
// the worker running it so it can use per-worker scratch space.
func (w Workers) Do(n int, fn func(worker, row int)) {
	nprocs := int(w)
	if nprocs <= 1 {
		for ii := 0; ii < n; ii++ {
			fn(0, ii)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for ii := pp; ii < n; ii += nprocs {
				fn(pp, ii)
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}

// DoErr is like Do but stops each worker at its first error and returns
// the first error encountered by any worker.
func (w Workers) DoErr(n int, fn func(worker, row int) error) error {
	errs := make([]error, int(w))
	w.Do(int(w), func(worker, _ int) {
		for ii := worker; ii < n; ii += int(w) {
			if err := fn(worker, ii); err != nil {
				errs[worker] = err
				return
			}
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
