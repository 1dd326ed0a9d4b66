// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim is the update scheduler of the particle simulation:
// it records and submits the force and integration dispatches of
// each step, rotates the particle buffers once a step has fully
// completed, and drives consumers from a host loop.
package sim

//go:generate core generate

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/lab/base/randx"
	"cogentcore.org/particles/compute"
	"cogentcore.org/particles/kernels"
	"cogentcore.org/particles/particles"
)

// Pipeline names, one per kernel.
const (
	SceneVelocity     = "SceneVelocity"
	SceneIntegrate    = "SceneIntegrate"
	AllPairs          = "AllPairs"
	AllPairsTiled     = "AllPairsTiled"
	AllPairsTiledPass = "AllPairsTiledPass"
	Integrate         = "Integrate"
)

// Config has the simulation parameters.
type Config struct {

	// Variant is the force kernel.
	Variant kernels.Variants

	// Scene has the SceneCollision uniforms.
	Scene kernels.Scene

	// Gravity has the all-pairs uniforms.
	Gravity kernels.Gravity

	// Seed for the per-step respawn seeds.
	Seed int64 `default:"1"`

	// Retries is the number of times Run retries a failed step.
	Retries int `default:"2"`

	// Metrics, if set, receives step metrics.
	Metrics *Metrics `toml:"-" yaml:"-"`
}

// Sim is the update scheduler for one particle Store.
type Sim struct {
	// Config used to create the Sim.
	Config Config

	// Store is the particle state.
	Store *particles.Store

	// Kernels are the compute kernels, bound each step.
	Kernels *kernels.Kernels

	// System runs the kernel pipelines.
	System *compute.ComputeSystem

	rnd randx.Rand

	// seed is the respawn seed for the next step.
	seed int32

	steps int
}

// New returns a new Sim for the given store, with one compute
// pipeline per kernel, each using the store work-group size.
func New(store *particles.Store, cfg *Config) (*Sim, error) {
	if cfg.Variant < 0 || cfg.Variant >= kernels.VariantsN {
		return nil, errors.Log(&particles.ConfigError{Field: "Variant", Reason: fmt.Sprintf("unknown variant %d", cfg.Variant)})
	}
	if cfg.Scene.NColliders < 0 || cfg.Scene.NColliders > kernels.MaxColliders {
		return nil, errors.Log(&particles.ConfigError{Field: "Scene.NColliders", Reason: fmt.Sprintf("%d is out of range", cfg.Scene.NColliders)})
	}
	sm := &Sim{Config: *cfg, Store: store}
	sm.Kernels = &kernels.Kernels{Scene: cfg.Scene, Gravity: cfg.Gravity}
	sm.rnd = randx.NewSysRand(cfg.Seed)
	sm.seed = sm.rnd.Int31()

	threads := store.Config.WorkGroupSize
	kn := sm.Kernels
	sy := compute.NewComputeSystem(nil, "particles")
	sy.AddComputePipeline(SceneVelocity).SetNumThreads(threads).SetFunc(kn.SceneVelocity)
	sy.AddComputePipeline(SceneIntegrate).SetNumThreads(threads).SetFunc(kn.SceneIntegrate)
	sy.AddComputePipeline(AllPairs).SetNumThreads(threads).SetFunc(kn.AllPairs)
	sy.AddComputePipeline(AllPairsTiled).SetNumThreads(threads).SetGroupFunc(threads, kn.AllPairsTiled)
	sy.AddComputePipeline(AllPairsTiledPass).SetNumThreads(threads).SetGroupFunc(threads, kn.AllPairsTiledPass)
	sy.AddComputePipeline(Integrate).SetNumThreads(threads).SetFunc(kn.Integrate)
	sm.System = sy
	sm.Config.Metrics.setParticles(store.Count())
	return sm, nil
}

// Release releases the compute system. The Store is not released.
func (sm *Sim) Release() {
	sm.System.Release()
}

// SetSeed sets the respawn seed of the next step. Later steps
// continue with seeds drawn from the Config.Seed sequence.
func (sm *Sim) SetSeed(seed int32) {
	sm.seed = seed
}

// Seed returns the respawn seed of the next step.
func (sm *Sim) Seed() int32 { return sm.seed }

// Steps returns the number of completed steps.
func (sm *Sim) Steps() int { return sm.steps }

// Current returns the read-only view of the latest completed state.
func (sm *Sim) Current() View {
	return View{buf: sm.Store.Current()}
}

// ForcePipelines returns the names of the force pipelines of the variant.
func ForcePipelines(v kernels.Variants) []string {
	switch v {
	case kernels.AllPairs:
		return []string{AllPairs}
	case kernels.AllPairsTiled:
		return []string{AllPairsTiled}
	case kernels.AllPairsTiledPasses:
		return []string{AllPairsTiledPass}
	}
	return []string{SceneVelocity}
}

// Step advances the simulation by dt: it records the force pass, a
// memory barrier, the integration pass and a final memory barrier,
// submits them and waits for the device to finish. Only then is the
// next buffer made current. If the device reports an error, the
// current buffer keeps its state from before the step (restored from
// the snapshot for InPlace), nothing is rotated, and the error is
// returned: calling Step again retries it.
func (sm *Sim) Step(dt float32) error {
	st := sm.Store
	kn := sm.Kernels
	st.Snapshot()
	kn.Scene.Seed = sm.seed
	kn.Bind(st.Current(), st.Next(), dt)
	respawns := kn.Respawns.Load()
	forceStart := sm.forceTime()
	start := time.Now()

	ce := sm.System.BeginComputePass()
	err := sm.record(ce)
	ce.End()
	if err == nil {
		err = sm.System.EndComputePass(ce)
	}
	if err == nil {
		err = sm.System.WaitDone()
	}
	if err != nil {
		st.Restore()
		kn.Respawns.Store(respawns)
		sm.Config.Metrics.failed()
		slog.Error("sim: step failed", "step", sm.steps, "err", err)
		return fmt.Errorf("sim: step %d: %w", sm.steps, err)
	}
	st.Advance()
	sm.steps++
	sm.seed = sm.rnd.Int31()
	sm.Config.Metrics.stepped(time.Since(start), sm.forceTime()-forceStart, kn.Respawns.Load()-respawns)
	return nil
}

// record records the dispatches of one step.
func (sm *Sim) record(ce *compute.ComputePass) error {
	n := sm.Store.Count()
	integ := Integrate
	if sm.Config.Variant == kernels.SceneCollision {
		integ = SceneIntegrate
	}
	for _, name := range ForcePipelines(sm.Config.Variant) {
		pl, err := sm.System.PipelineByName(name)
		if err != nil {
			return err
		}
		if name != AllPairsTiledPass {
			if err := pl.Dispatch1D(ce, n); err != nil {
				return err
			}
			continue
		}
		for tile := range compute.Warps(n, pl.NumThreads) {
			if err := pl.Dispatch1DPush(ce, n, uint32(tile)); err != nil {
				return err
			}
			ce.MemoryBarrier()
		}
	}
	ce.MemoryBarrier()
	pl, err := sm.System.PipelineByName(integ)
	if err != nil {
		return err
	}
	if err := pl.Dispatch1D(ce, n); err != nil {
		return err
	}
	ce.MemoryBarrier()
	return nil
}

// Timing is the accumulated elapsed time of one pipeline.
type Timing struct {
	// Pipeline name.
	Pipeline string

	// N is the number of dispatches.
	N int

	// Total elapsed time of all dispatches.
	Total time.Duration
}

// Avg returns the average time per dispatch.
func (tm *Timing) Avg() time.Duration {
	if tm.N == 0 {
		return 0
	}
	return tm.Total / time.Duration(tm.N)
}

// Timings returns the elapsed-time totals of every pipeline
// that has been dispatched, sorted by name.
func (sm *Sim) Timings() []Timing {
	var tms []Timing
	for name, pl := range sm.System.ComputePipelines {
		if pl.Timer.N == 0 {
			continue
		}
		tms = append(tms, Timing{Pipeline: name, N: pl.Timer.N, Total: pl.Timer.Total})
	}
	slices.SortFunc(tms, func(a, b Timing) int {
		return cmp.Compare(a.Pipeline, b.Pipeline)
	})
	return tms
}

// forceTime returns the total elapsed time of the force pipelines.
func (sm *Sim) forceTime() time.Duration {
	var tot time.Duration
	for _, name := range ForcePipelines(sm.Config.Variant) {
		if pl, ok := sm.System.ComputePipelines[name]; ok {
			tot += pl.Timer.Total
		}
	}
	return tot
}
