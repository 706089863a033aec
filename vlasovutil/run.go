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

package vlasovutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/vlasov"
	"github.com/spatialmodel/vlasov/eval"
	"github.com/spatialmodel/vlasov/science/advect"
	"github.com/spatialmodel/vlasov/science/collide"
)

// Result holds the outcome of a simulation.
type Result struct {
	RunID   string
	Steps   int
	Metrics *vlasov.MetricsMemory

	// Landau holds the Landau damping diagnostics if they were requested.
	Landau *eval.Landau
}

// Simulation sets up a simulation as specified by c that writes its
// results to store and logs its progress and metrics to log.
func Simulation(c *Config, store vlasov.Store, log logrus.FieldLogger, metrics vlasov.MetricsLogger) (*vlasov.Simulation, error) {
	g, err := vlasov.NewGrid(c.Nx, c.Nv, c.Xmin, c.Xmax, c.Vmax)
	if err != nil {
		return nil, err
	}
	dt := c.Dt()
	driver, err := vlasov.NewDriver(g.X, c.Pulses)
	if err != nil {
		return nil, err
	}
	field, err := vlasov.NewFieldSolver(c.VlasovPoisson.Poisson, g)
	if err != nil {
		return nil, err
	}
	vdfdx, err := advect.Spatial(g, c.VlasovPoisson.VdfDx)
	if err != nil {
		return nil, err
	}
	edfdv, err := advect.Velocity(g, c.VlasovPoisson.EdfDv)
	if err != nil {
		return nil, err
	}
	step, err := vlasov.NewTimeStepper(c.VlasovPoisson.Time, g, vdfdx, edfdv, field, driver, dt)
	if err != nil {
		return nil, err
	}
	collider, err := collide.New(g, c.FokkerPlanck.Type, c.FokkerPlanck.Solver, c.Nu, dt)
	if err != nil {
		return nil, err
	}
	batchSize := vlasov.BatchSize(g, c.StoreF, c.NumModes, c.MaxGB, c.Nt)
	r, err := vlasov.NewRecorder(g, store, c.StoreF, c.NumModes, batchSize, metrics)
	if err != nil {
		return nil, err
	}
	logEvery := (c.Nt - 1) / 20
	return &vlasov.Simulation{
		Grid: g,
		Dt:   dt,
		InitFuncs: []vlasov.DomainManipulator{
			vlasov.InitialConditions(nil, field, driver),
			vlasov.Record(r),
		},
		RunFuncs: []vlasov.DomainManipulator{
			vlasov.Advance(step, collider, driver),
			vlasov.CheckHealth(),
			vlasov.Record(r),
			vlasov.Log(log, logEvery),
			vlasov.StopAfter(c.Nt - 1),
		},
		CleanupFuncs: []vlasov.DomainManipulator{
			vlasov.CloseRecorder(r),
		},
	}, nil
}

// Run carries out the simulation specified by c, writing log messages to
// w and to c.LogFile, and the results to c.OutputFile. The run parameters
// are additionally written next to the output file with the extension
// ".toml".
func Run(w io.Writer, c *Config) (*Result, error) {
	startTime := time.Now()

	logfile, err := os.Create(c.LogFile)
	if err != nil {
		return nil, fmt.Errorf("vlasov: problem creating log file: %v", err)
	}
	defer logfile.Close()
	logger := logrus.New()
	logger.Out = io.MultiWriter(w, logfile)
	logger.Formatter = &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}

	res := &Result{RunID: c.RunID(), Metrics: new(vlasov.MetricsMemory)}
	log := logger.WithField("run", res.RunID)
	metrics := vlasov.MultiMetrics{vlasov.LogrusMetrics{Log: log}, res.Metrics}

	params := c.Params()
	log.WithFields(logrus.Fields(params)).Info("initial conditions")

	paramFile := strings.TrimSuffix(c.OutputFile, filepath.Ext(c.OutputFile)) + ".toml"
	if err := c.WriteParams(paramFile); err != nil {
		return nil, err
	}

	attrs := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		attrs[strings.Replace(k, " ", "_", -1)] = v
	}
	attrs["run_id"] = res.RunID
	attrs["vlasov_version"] = vlasov.Version

	g, err := vlasov.NewGrid(c.Nx, c.Nv, c.Xmin, c.Xmax, c.Vmax)
	if err != nil {
		return nil, err
	}
	out, err := vlasov.CreateOutput(c.OutputFile, g, c.StoreF, c.NumModes, attrs)
	if err != nil {
		return nil, err
	}
	s, err := Simulation(c, out, log, metrics)
	if err != nil {
		out.Close()
		return nil, err
	}
	metrics.LogMetrics(0, map[string]float64{"startup_time": time.Since(startTime).Seconds()})

	if err = s.Init(); err == nil {
		err = s.Run()
	}
	res.Steps = s.Step
	if cerr := s.Cleanup(); err == nil {
		err = cerr
	}
	if err != nil {
		log.WithError(err).Error("simulation failed")
		return res, err
	}
	log.WithField("walltime", time.Since(startTime).Round(time.Millisecond).String()).Info("simulation complete")

	if c.Diagnostics == Landau {
		l, err := landauDiagnostics(c.OutputFile)
		if err != nil {
			return res, err
		}
		res.Landau = &l
		m := l.Metrics()
		m["nu_ld"] = c.NuLD
		m["w_epw"] = c.WEPW
		metrics.LogMetrics(s.Step, m)
	}
	return res, nil
}

func landauDiagnostics(path string) (eval.Landau, error) {
	r, err := vlasov.OpenOutput(path)
	if err != nil {
		return eval.Landau{}, err
	}
	defer r.Close()
	times, err := r.Times()
	if err != nil {
		return eval.Landau{}, err
	}
	e, err := r.Field("e")
	if err != nil {
		return eval.Landau{}, err
	}
	return eval.AnalyzeLandau(times, e, eval.DefaultTail)
}
