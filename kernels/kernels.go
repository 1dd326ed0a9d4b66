// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernels has the force and integration compute kernels
// of the particle simulation. Each kernel is a method that runs
// for one particle index (or one lane of a work-group), reading
// the In buffer and writing the Out buffer of its bindings.
package kernels

//go:generate core generate

import (
	"sync/atomic"

	"cogentcore.org/core/math32"
	"cogentcore.org/particles/compute"
	"cogentcore.org/particles/particles"
)

// Variants are the force kernel variants.
type Variants int32 //enums:enum

const (
	// SceneCollision is sphere collision, constant gravity and
	// respawn below the floor.
	SceneCollision Variants = iota

	// AllPairs is naive all-pairs gravity: every particle reads
	// every other position from the In buffer.
	AllPairs

	// AllPairsTiled is all-pairs gravity where each work-group
	// stages one tile of positions at a time in shared memory.
	AllPairsTiled

	// AllPairsTiledPasses is tiled all-pairs gravity with one
	// dispatch per tile, each adding its contribution to the
	// velocity written by the previous one.
	AllPairsTiledPasses
)

// IsGravity returns whether the variant is one of the all-pairs kernels.
func (v Variants) IsGravity() bool {
	return v != SceneCollision
}

// Kernels are the compute kernels, bound to the buffers and uniforms
// of the current step. Kernels read only In positions during the
// force pass, so In and Out may be the same buffer.
type Kernels struct {

	// Scene has the SceneCollision uniforms.
	Scene Scene

	// Gravity has the all-pairs uniforms.
	Gravity Gravity

	// Dt is the time step.
	Dt float32

	// In is the state at the start of the step.
	In []particles.Particle

	// Out receives the state at the end of the step.
	Out []particles.Particle

	// Respawns counts particles that were respawned.
	Respawns atomic.Int64
}

// Bind sets the buffers and time step for the next step.
func (kn *Kernels) Bind(in, out *particles.Buffer, dt float32) {
	kn.In = in.Particles
	kn.Out = out.Particles
	kn.Dt = dt
}

// SceneVelocity is the velocity pass of SceneCollision:
// collider response, then gravity.
func (kn *Kernels) SceneVelocity(idx uint32) {
	p := kn.In[idx]
	vel := kn.Scene.Collide(p.Pos, p.Vel)
	kn.Out[idx].Vel = vel.Add(kn.Scene.Gravity.MulScalar(kn.Dt))
}

// SceneIntegrate is the position pass of SceneCollision:
// Euler integration with respawn below the floor.
func (kn *Kernels) SceneIntegrate(idx uint32) {
	vel := kn.Out[idx].Vel
	pos := kn.In[idx].Pos.Add(vel.MulScalar(kn.Dt))
	if kn.Scene.OutOfBounds(pos) {
		pos = kn.Scene.Respawn(idx)
		vel = math32.Vector3{}
		kn.Respawns.Add(1)
	}
	kn.Out[idx].Pos = pos
	kn.Out[idx].Vel = vel
}

// Integrate is the position pass of the gravity variants.
func (kn *Kernels) Integrate(idx uint32) {
	kn.Out[idx].Pos = kn.In[idx].Pos.Add(kn.Out[idx].Vel.MulScalar(kn.Dt))
}

// AllPairs is the naive all-pairs velocity pass.
func (kn *Kernels) AllPairs(idx uint32) {
	pi := kn.In[idx].Pos
	var acc math32.Vector3
	for j := range kn.In {
		acc = acc.Add(kn.Gravity.PairAccel(pi, kn.In[j].Pos))
	}
	kn.Out[idx].Vel = kn.In[idx].Vel.Add(acc.MulScalar(kn.Dt))
}

// AllPairsTiled is the tiled all-pairs velocity pass, where the
// tile is the work-group size. The first barrier makes the staged
// tile visible, and the second keeps it from being overwritten
// while other lanes are still reading it.
func (kn *Kernels) AllPairsTiled(wg *compute.WorkGroup, lane uint32) {
	idx := wg.GlobalIndex(lane)
	pi := kn.In[idx].Pos
	var acc math32.Vector3
	for tile := uint32(0); tile < wg.N; tile += wg.Size {
		wg.Shared[lane] = math32.Vector4FromVector3(kn.In[tile+lane].Pos, 0)
		wg.Barrier()
		acc = kn.tileAccel(wg, pi, acc)
		wg.Barrier()
	}
	kn.Out[idx].Vel = kn.In[idx].Vel.Add(acc.MulScalar(kn.Dt))
}

// AllPairsTiledPass is one pass of AllPairsTiledPasses, for the tile
// given by [compute.WorkGroup.Push]. Pass 0 starts from the In
// velocity and later passes add to the Out velocity.
func (kn *Kernels) AllPairsTiledPass(wg *compute.WorkGroup, lane uint32) {
	idx := wg.GlobalIndex(lane)
	tile := wg.Push * wg.Size
	pi := kn.In[idx].Pos
	wg.Shared[lane] = math32.Vector4FromVector3(kn.In[tile+lane].Pos, 0)
	wg.Barrier()
	acc := kn.tileAccel(wg, pi, math32.Vector3{})
	vel := kn.Out[idx].Vel
	if wg.Push == 0 {
		vel = kn.In[idx].Vel
	}
	kn.Out[idx].Vel = vel.Add(acc.MulScalar(kn.Dt))
}

// tileAccel adds the acceleration at pi due to the staged tile.
func (kn *Kernels) tileAccel(wg *compute.WorkGroup, pi, acc math32.Vector3) math32.Vector3 {
	for k := range wg.Size {
		s := wg.Shared[k]
		acc = acc.Add(kn.Gravity.PairAccel(pi, math32.Vec3(s.X, s.Y, s.Z)))
	}
	return acc
}
