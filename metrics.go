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
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// MetricsLogger receives scalar performance and diagnostic metrics.
type MetricsLogger interface {
	LogMetrics(step int, metrics map[string]float64)
}

// LogrusMetrics writes each set of metrics as one structured log entry.
type LogrusMetrics struct {
	Log logrus.FieldLogger
}

// LogMetrics implements MetricsLogger.
func (m LogrusMetrics) LogMetrics(step int, metrics map[string]float64) {
	fields := make(logrus.Fields, len(metrics)+1)
	fields["step"] = step
	for k, v := range metrics {
		fields[k] = v
	}
	m.Log.WithFields(fields).Info("metrics")
}

// MetricsMemory keeps every logged metric in memory. It is safe for
// concurrent use.
type MetricsMemory struct {
	mu     sync.Mutex
	values map[string][]float64
}

// LogMetrics implements MetricsLogger.
func (m *MetricsMemory) LogMetrics(step int, metrics map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string][]float64)
	}
	for k, v := range metrics {
		m.values[k] = append(m.values[k], v)
	}
}

// Values returns the logged values of metric name in the order they were logged.
func (m *MetricsMemory) Values(name string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.values[name]...)
}

// Names returns the names of all logged metrics in sorted order.
func (m *MetricsMemory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.values))
	for k := range m.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MultiMetrics sends metrics to all of its members.
type MultiMetrics []MetricsLogger

// LogMetrics implements MetricsLogger.
func (mm MultiMetrics) LogMetrics(step int, metrics map[string]float64) {
	for _, m := range mm {
		m.LogMetrics(step, metrics)
	}
}
