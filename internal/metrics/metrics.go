/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every bridge collector, it is not the global Prometheus registry.
var Registry = prometheus.NewRegistry()

var (
	// Trials is a Prometheus counter metric which holds the number of finished
	// trials by outcome (completed, pruned or preempted)
	Trials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimize_bridge_trials_total",
		Help: "Total number of finished trials per outcome",
	}, []string{"outcome"})

	// StepsTold is a Prometheus counter metric which holds the number of steps
	// reported to the solver by the harness
	StepsTold = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimize_bridge_told_steps_total",
		Help: "Total number of steps reported to the solver",
	})

	// StepsEvaluated is a Prometheus counter metric which holds the number of
	// steps executed by evaluators
	StepsEvaluated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimize_bridge_evaluated_steps_total",
		Help: "Total number of steps executed by evaluators",
	})

	// Sessions is a Prometheus gauge metric which holds the number of live
	// evaluator sessions
	Sessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimize_bridge_evaluator_sessions",
		Help: "Number of evaluator sessions that have not been dropped",
	})

	// Messages is a Prometheus counter metric which holds the number of channel
	// messages by direction and type
	Messages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimize_bridge_messages_total",
		Help: "Total number of protocol messages per direction and type",
	}, []string{"direction", "type"})
)

func init() {
	Registry.MustRegister(
		Trials,
		StepsTold,
		StepsEvaluated,
		Sessions,
		Messages,
	)
}

// WriteTextfile writes the current state of the registry in the Prometheus text format.
func WriteTextfile(path string) error {
	mfs, err := Registry.Gather()
	if err != nil {
		return err
	}

	// Write to a temporary file first so a collector never reads a partial file
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Serve exposes the registry over HTTP until the context is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
