// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command particles runs a particle simulation preset on the compute
// device, logging progress, and benchmarks the all-pairs kernels.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/timer"
	"cogentcore.org/core/cli"
	"cogentcore.org/core/math32"
	"cogentcore.org/particles/kernels"
	"cogentcore.org/particles/particles"
	"cogentcore.org/particles/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config is the configuration for the particles command.
type Config struct {

	// Scenario is the name of the preset to run:
	// fountain, freefall, nbody, disk or spiral.
	Scenario string `default:"fountain" posarg:"0" required:"-"`

	// Scene is an optional TOML or YAML scene file that
	// replaces the uniforms of the preset.
	Scene string

	// SaveScene saves the uniforms that are run to this file.
	SaveScene string

	// Particles is the number of particles, a multiple of Threads.
	Particles int `default:"16384" flag:"n,particles"`

	// Frames is the number of frames to run; 0 runs until interrupted.
	Frames int `default:"600"`

	// Dt is the time step; 0 uses the preset time step.
	Dt float32

	// Variant overrides the force kernel of the preset.
	Variant string

	// Discipline is the buffer discipline.
	Discipline particles.Disciplines `default:"PingPong"`

	// Buffers is the number of PingPong buffers.
	Buffers int `default:"2"`

	// Threads is the number of lanes per work-group.
	Threads int `default:"256"`

	// Seed is the random seed.
	Seed int64 `default:"1"`

	// Retries is the number of times a failed step is retried.
	Retries int `default:"2"`

	// LogEvery logs particle statistics every this many frames.
	LogEvery int `default:"60"`

	// Metrics is the address to serve prometheus metrics on,
	// such as :9090. No metrics are served if empty.
	Metrics string

	// BenchSteps is the number of steps each kernel runs in bench.
	BenchSteps int `cmd:"bench" default:"5"`
}

func main() {
	opts := cli.DefaultOptions("particles", "Particles runs particle simulations with compute kernels.")
	cli.Run(opts, &Config{}, Run, Bench)
}

// newSim returns a new Sim and its preset time step for the config.
func newSim(c *Config, variant string, mt *sim.Metrics) (*sim.Sim, float32, error) {
	p, err := sim.PresetByName(c.Scenario)
	if err != nil {
		return nil, 0, err
	}
	st, err := particles.New(&particles.Config{Count: c.Particles, WorkGroupSize: c.Threads,
		Discipline: c.Discipline, Buffers: c.Buffers, Seed: c.Seed,
		Distribution: p.Distribution, Velocity: p.Velocity})
	if err != nil {
		return nil, 0, err
	}
	cfg := &sim.Config{Seed: c.Seed, Retries: c.Retries, Metrics: mt}
	p.Apply(cfg)
	if c.Scene != "" {
		sf, err := sim.OpenScene(c.Scene)
		if err != nil {
			return nil, 0, err
		}
		if err := sf.Apply(cfg); err != nil {
			return nil, 0, err
		}
	}
	if variant != "" {
		if err := cfg.Variant.SetString(variant); err != nil {
			return nil, 0, err
		}
	}
	if c.SaveScene != "" {
		errors.Log(sim.SaveScene(sim.NewSceneFile(cfg), c.SaveScene))
	}
	sm, err := sim.New(st, cfg)
	if err != nil {
		return nil, 0, err
	}
	dt := p.Dt
	if c.Dt > 0 {
		dt = c.Dt
	}
	return sm, dt, nil
}

// Run runs the simulation for the configured number of frames.
func Run(c *Config) error { //cli:cmd -root
	var mt *sim.Metrics
	if c.Metrics != "" {
		reg := prometheus.NewRegistry()
		mt = sim.NewMetrics(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: c.Metrics, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("particles: metrics server", "err", err)
			}
		}()
		defer srv.Close()
	}
	sm, dt, err := newSim(c, c.Variant, mt)
	if err != nil {
		return err
	}
	defer sm.Release()
	defer sm.Store.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	host := sim.ContextHost(ctx)
	if c.Frames > 0 {
		frames := sim.Frames(c.Frames)
		host = sim.HostFunc(func() sim.RunStates {
			if ctx.Err() != nil {
				return sim.Stopped
			}
			return frames.Poll()
		})
	}
	slog.Info("particles: running", "scenario", c.Scenario, "variant", sm.Config.Variant, "particles", c.Particles, "discipline", c.Discipline, "dt", dt)
	tmr := timer.Time{}
	tmr.Start()
	err = sim.Run(host, sm, dt, sim.StatsLogger(sm, c.LogEvery))
	tmr.Stop()
	for _, tm := range sm.Timings() {
		fmt.Printf("%-20s N: %6d\t Total: %v\t Avg: %v\n", tm.Pipeline, tm.N, tm.Total, tm.Avg())
	}
	fmt.Printf("Steps: %d\t Time: %v\t Steps/sec: %6.4g\n", sm.Steps(), tmr.Total, float64(sm.Steps())/tmr.Total.Seconds())
	return err
}

// Bench runs each all-pairs kernel for BenchSteps steps from the same
// initial state, and reports their force pass times and whether the
// tiled kernels agree with the naive one.
func Bench(c *Config) error {
	variants := []kernels.Variants{kernels.AllPairs, kernels.AllPairsTiled, kernels.AllPairsTiledPasses}
	var ref []math32.Vector3
	var refForce time.Duration
	fmt.Printf("Variant\t\t\tForce\t\tTotal\t\tRelErr\t\tNaive/Variant\n")
	for _, v := range variants {
		sm, dt, err := newSim(c, v.String(), nil)
		if err != nil {
			return err
		}
		tmr := timer.Time{}
		tmr.Start()
		err = sim.Run(sim.Frames(c.BenchSteps), sm, dt)
		tmr.Stop()
		if err != nil {
			sm.Release()
			return err
		}
		var force time.Duration
		for _, tm := range sm.Timings() {
			if tm.Pipeline != sim.Integrate {
				force += tm.Total
			}
		}
		pos := sm.Current().Positions(nil)
		sm.Release()
		sm.Store.Release()

		if ref == nil {
			ref = pos
			refForce = force
		}
		rel := relErr(pos, ref)
		if rel > 1e-4 {
			slog.Error("Differences between naive and tiled kernels detected", "variant", v, "relErr", rel)
		}
		fmt.Printf("%-20s\t%v\t%v\t%6.4g\t%6.4g\n", v, force, tmr.Total, rel, float64(refForce)/float64(force))
	}
	return nil
}

// relErr returns max |a - b| / max |b|.
func relErr(a, b []math32.Vector3) float32 {
	var maxDiff, maxMag float32
	for i := range a {
		maxDiff = max(maxDiff, a[i].Sub(b[i]).Length())
		maxMag = max(maxMag, b[i].Length())
	}
	if maxMag == 0 {
		return maxDiff
	}
	return maxDiff / maxMag
}
