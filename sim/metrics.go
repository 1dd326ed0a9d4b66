// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the prometheus metrics of a Sim.
// A nil *Metrics records nothing.
type Metrics struct {
	// Steps counts completed steps.
	Steps prometheus.Counter

	// Failures counts steps that failed on the device.
	Failures prometheus.Counter

	// Respawns counts respawned particles.
	Respawns prometheus.Counter

	// Particles is the number of particles.
	Particles prometheus.Gauge

	// StepSeconds is the wall time of each step, from submit to drain.
	StepSeconds prometheus.Histogram

	// ForceSeconds is the device time of the force pass of each step.
	ForceSeconds prometheus.Histogram
}

// NewMetrics returns new Metrics registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Steps: f.NewCounter(prometheus.CounterOpts{
			Name: "particles_steps_total",
			Help: "Number of completed simulation steps",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Name: "particles_step_failures_total",
			Help: "Number of simulation steps that failed on the device",
		}),
		Respawns: f.NewCounter(prometheus.CounterOpts{
			Name: "particles_respawns_total",
			Help: "Number of particles respawned below the floor",
		}),
		Particles: f.NewGauge(prometheus.GaugeOpts{
			Name: "particles_count",
			Help: "Number of simulated particles",
		}),
		StepSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "particles_step_seconds",
			Help:    "Wall time of a simulation step in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-4, 2, 16),
		}),
		ForceSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "particles_force_pass_seconds",
			Help:    "Device time of the force pass of a step in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-4, 2, 16),
		}),
	}
}

func (mt *Metrics) setParticles(n int) {
	if mt == nil {
		return
	}
	mt.Particles.Set(float64(n))
}

func (mt *Metrics) failed() {
	if mt == nil {
		return
	}
	mt.Failures.Inc()
}

func (mt *Metrics) stepped(step, force time.Duration, respawns int64) {
	if mt == nil {
		return
	}
	mt.Steps.Inc()
	mt.Respawns.Add(float64(respawns))
	mt.StepSeconds.Observe(step.Seconds())
	mt.ForceSeconds.Observe(force.Seconds())
}
