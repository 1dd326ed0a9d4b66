// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernels

import (
	"fmt"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"cogentcore.org/particles/particles"
)

// MaxColliders is the capacity of the Scene collider array.
const MaxColliders = 8

// Scene has the uniforms of the scene collision kernel:
// sphere colliders, constant gravity, and the respawn policy.
type Scene struct {

	// Colliders are the sphere colliders; only the first
	// NColliders are active.
	Colliders [MaxColliders]math32.Sphere `toml:"-" yaml:"-"`

	// NColliders is the number of active Colliders.
	NColliders int32

	// Gravity is the constant acceleration.
	Gravity math32.Vector3

	// Bounce scales the removal of the normal velocity component
	// on collision: 1 stops normal motion, 2 is a fully elastic
	// reflection, and values in between are inelastic.
	Bounce float32 `default:"1.2"`

	// FloorY is the height below which particles respawn.
	FloorY float32 `default:"-30"`

	// SpawnCenter is the center of the respawn volume.
	SpawnCenter math32.Vector3

	// SpawnSize is the edge length of the cubic respawn volume.
	SpawnSize float32 `default:"5"`

	// Seed is the per-frame respawn seed.
	Seed int32
}

// Defaults sets the fountain scene: three spheres under earth gravity.
func (sc *Scene) Defaults() {
	sc.Gravity = math32.Vec3(0, -9.81, 0)
	sc.Bounce = 1.2
	sc.FloorY = -30
	sc.SpawnCenter = math32.Vec3(0, 20, 0)
	sc.SpawnSize = 5
	errors.Log(sc.SetColliders(
		math32.Sphere{Center: math32.Vec3(0, 12, 1), Radius: 3},
		math32.Sphere{Center: math32.Vec3(-3, 0, 0), Radius: 7},
		math32.Sphere{Center: math32.Vec3(5, -10, 0), Radius: 12},
	))
}

// SetColliders sets the active colliders.
func (sc *Scene) SetColliders(sps ...math32.Sphere) error {
	if len(sps) > MaxColliders {
		return &particles.ConfigError{Field: "Colliders", Reason: fmt.Sprintf("has %d spheres, max is %d", len(sps), MaxColliders)}
	}
	sc.Colliders = [MaxColliders]math32.Sphere{}
	copy(sc.Colliders[:], sps)
	sc.NColliders = int32(len(sps))
	return nil
}

// ActiveColliders returns the active colliders.
func (sc *Scene) ActiveColliders() []math32.Sphere {
	return sc.Colliders[:sc.NColliders]
}

// Collide returns the velocity after colliding with every active
// collider that contains pos and that the particle is moving into.
// Each collider tests and reflects the incoming velocity, and the
// corrections of overlapping colliders add up.
func (sc *Scene) Collide(pos, vel math32.Vector3) math32.Vector3 {
	in := vel
	for ci := int32(0); ci < sc.NColliders; ci++ {
		sp := &sc.Colliders[ci]
		diff := pos.Sub(sp.Center)
		d2 := diff.LengthSquared()
		if d2 == 0 || d2 >= sp.Radius*sp.Radius {
			continue
		}
		vdot := diff.Dot(in)
		if vdot >= 0 {
			continue
		}
		vel = vel.Sub(diff.MulScalar(sc.Bounce * vdot / d2))
	}
	return vel
}

// OutOfBounds returns whether a particle at pos must respawn.
func (sc *Scene) OutOfBounds(pos math32.Vector3) bool {
	return pos.Y < sc.FloorY
}

// Respawn returns the respawn position of particle idx,
// which only depends on idx and the Seed.
func (sc *Scene) Respawn(idx uint32) math32.Vector3 {
	i := int32(idx)
	h := math32.Vec3(Hash(3*i, i, sc.Seed), Hash(3*i+1, i, sc.Seed), Hash(3*i+2, i, sc.Seed))
	return sc.SpawnCenter.Add(math32.Vector3Scalar(0.5).Sub(h).MulScalar(sc.SpawnSize))
}

// Hash is an integer hash of x, the particle index and the seed,
// mapped to [0, 1). It is a pure function of its arguments.
func Hash(x, idx, seed int32) float32 {
	x = x*1235167 + idx*948737 + seed*9284365
	x = (x >> 13) ^ x
	x = (x*(x*x*60493+19990303) + 1376312589) & 0x7fffffff
	return float32(x>>8) / (1 << 23)
}
