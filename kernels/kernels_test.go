// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernels

import (
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/lab/base/randx"
	"cogentcore.org/particles/compute"
	"cogentcore.org/particles/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randVec(rnd randx.Rand, scale float32) math32.Vector3 {
	return math32.Vec3(rnd.Float32()-0.5, rnd.Float32()-0.5, rnd.Float32()-0.5).MulScalar(scale)
}

func TestHash(t *testing.T) {
	for idx := int32(0); idx < 2000; idx++ {
		for k := int32(0); k < 3; k++ {
			h := Hash(3*idx+k, idx, 17)
			assert.GreaterOrEqual(t, h, float32(0))
			assert.Less(t, h, float32(1))
			assert.Equal(t, h, Hash(3*idx+k, idx, 17))
		}
	}
	assert.NotEqual(t, Hash(3, 1, 17), Hash(3, 1, 18))
}

func TestRespawnDeterminism(t *testing.T) {
	var sc Scene
	sc.Defaults()
	sc.Seed = 42
	var sc2 Scene
	sc2.Defaults()
	sc2.Seed = 42
	for idx := uint32(0); idx < 1000; idx++ {
		p := sc.Respawn(idx)
		assert.Equal(t, p, sc2.Respawn(idx))
		assert.InDelta(t, 0, p.X, 2.5)
		assert.InDelta(t, 20, p.Y, 2.5)
		assert.InDelta(t, 0, p.Z, 2.5)
	}
	sc2.Seed = 43
	diff := 0
	for idx := uint32(0); idx < 100; idx++ {
		if sc.Respawn(idx) != sc2.Respawn(idx) {
			diff++
		}
	}
	assert.Greater(t, diff, 90)
}

func TestSetColliders(t *testing.T) {
	var sc Scene
	sc.Defaults()
	assert.Len(t, sc.ActiveColliders(), 3)
	sps := make([]math32.Sphere, MaxColliders+1)
	err := sc.SetColliders(sps...)
	assert.ErrorIs(t, err, particles.ErrConfiguration)
	assert.Len(t, sc.ActiveColliders(), 3)
	require.NoError(t, sc.SetColliders(sps[:MaxColliders]...))
	assert.Len(t, sc.ActiveColliders(), MaxColliders)
}

func TestInelasticBounce(t *testing.T) {
	var sc Scene
	sc.Defaults()
	rnd := randx.NewSysRand(3)
	sp := sc.Colliders[0]
	bounced := 0
	for range 1000 {
		pos := sp.Center.Add(randVec(rnd, 2*sp.Radius/math32.Sqrt(3)))
		vel := randVec(rnd, 20)
		out := sc.Collide(pos, vel)
		assert.LessOrEqual(t, out.Length(), vel.Length()*(1+1e-5))
		if out != vel {
			bounced++
		}
	}
	assert.Greater(t, bounced, 100)
}

func TestElasticReflection(t *testing.T) {
	var sc Scene
	sc.Bounce = 2
	sc.SetColliders(math32.Sphere{Radius: 3})
	pos := math32.Vec3(0, 2.5, 0)
	vel := math32.Vec3(1, -4, 0)
	out := sc.Collide(pos, vel)
	assert.InDelta(t, 4, out.Y, 1e-5)
	assert.InDelta(t, 1, out.X, 1e-5)

	// moving away: no response
	assert.Equal(t, out, sc.Collide(pos, out))
	// outside: no response
	assert.Equal(t, vel, sc.Collide(math32.Vec3(0, 3.5, 0), vel))
}

func TestOverlappingColliders(t *testing.T) {
	var sc Scene
	sc.Defaults()
	pos := math32.Vec3(1.5, -4, 0)
	vel := math32.Vec3(-3, 2, 0)
	s1, s2 := sc.Colliders[1], sc.Colliders[2]
	require.Less(t, pos.Sub(s1.Center).Length(), s1.Radius)
	require.Less(t, pos.Sub(s2.Center).Length(), s2.Radius)

	// only the first sphere is entered by the incoming velocity
	d1 := pos.Sub(s1.Center)
	require.Less(t, d1.Dot(vel), float32(0))
	require.GreaterOrEqual(t, pos.Sub(s2.Center).Dot(vel), float32(0))

	want := vel.Sub(d1.MulScalar(sc.Bounce * d1.Dot(vel) / d1.LengthSquared()))
	out := sc.Collide(pos, vel)
	assert.InDelta(t, want.X, out.X, 1e-5)
	assert.InDelta(t, want.Y, out.Y, 1e-5)
	assert.InDelta(t, 0.2028, out.X, 1e-3)
	assert.InDelta(t, -0.8469, out.Y, 1e-3)
	assert.Equal(t, float32(0), out.Z)

	// both spheres entered: the corrections add up
	vel = math32.Vec3(-3, -2, 0)
	d2 := pos.Sub(s2.Center)
	require.Less(t, d2.Dot(vel), float32(0))
	want = vel.Sub(d1.MulScalar(sc.Bounce * d1.Dot(vel) / d1.LengthSquared()))
	want = want.Sub(d2.MulScalar(sc.Bounce * d2.Dot(vel) / d2.LengthSquared()))
	out = sc.Collide(pos, vel)
	assert.InDelta(t, want.X, out.X, 1e-4)
	assert.InDelta(t, want.Y, out.Y, 1e-4)
}

func TestPairAntisymmetry(t *testing.T) {
	var gr Gravity
	gr.Defaults()
	rnd := randx.NewSysRand(5)
	for range 500 {
		pi := randVec(rnd, 10)
		pj := randVec(rnd, 10)
		a := gr.PairAccel(pi, pj)
		b := gr.PairAccel(pj, pi)
		assert.InDelta(t, 0, a.Add(b).Length(), 1e-6*float64(1+a.Length()))
		// attractive
		assert.Greater(t, a.Dot(pj.Sub(pi)), float32(0))
	}
	p := math32.Vec3(1, 2, 3)
	assert.Equal(t, float32(0), gr.PairAccel(p, p).Length())
}

// run records and runs one compute pass on a new system.
func run(t *testing.T, rec func(sy *compute.ComputeSystem, ce *compute.ComputePass)) {
	sy := compute.NewComputeSystem(nil, "kernels")
	defer sy.Release()
	ce := sy.BeginComputePass()
	rec(sy, ce)
	ce.End()
	require.NoError(t, sy.EndComputePass(ce))
	require.NoError(t, sy.WaitDone())
}

func blob(t *testing.T, n int) *particles.Store {
	st, err := particles.New(&particles.Config{Count: n, WorkGroupSize: 64, Seed: 11, Distribution: &particles.Gaussian{Sigma: math32.Vec3(1, 0.2, 1)}})
	require.NoError(t, err)
	return st
}

// maxRelErr returns max |a - b| / max |b| over all velocities.
func maxRelErr(a, b []particles.Particle) float32 {
	var maxDiff, maxMag float32
	for i := range a {
		maxDiff = max(maxDiff, a[i].Vel.Sub(b[i].Vel).Length())
		maxMag = max(maxMag, b[i].Vel.Length())
	}
	return maxDiff / maxMag
}

func TestTiledMatchesNaive(t *testing.T) {
	threads := 64
	n := 4 * threads
	st := blob(t, n)
	naive := make([]particles.Particle, n)
	tiled := make([]particles.Particle, n)
	passes := make([]particles.Particle, n)

	gravityStep := func(out []particles.Particle, variant Variants) {
		kn := &Kernels{}
		kn.Gravity.Defaults()
		kn.Bind(st.Current(), &particles.Buffer{Particles: out}, 0.01)
		run(t, func(sy *compute.ComputeSystem, ce *compute.ComputePass) {
			switch variant {
			case AllPairs:
				pl := sy.AddComputePipeline("AllPairs").SetNumThreads(threads).SetFunc(kn.AllPairs)
				require.NoError(t, pl.Dispatch1D(ce, n))
			case AllPairsTiled:
				pl := sy.AddComputePipeline("AllPairsTiled").SetNumThreads(threads).SetGroupFunc(threads, kn.AllPairsTiled)
				require.NoError(t, pl.Dispatch1D(ce, n))
			case AllPairsTiledPasses:
				pl := sy.AddComputePipeline("AllPairsTiledPass").SetNumThreads(threads).SetGroupFunc(threads, kn.AllPairsTiledPass)
				for tile := range compute.Warps(n, threads) {
					require.NoError(t, pl.Dispatch1DPush(ce, n, uint32(tile)))
					ce.MemoryBarrier()
				}
			}
			ce.MemoryBarrier()
			pl := sy.AddComputePipeline("Integrate").SetNumThreads(threads).SetFunc(kn.Integrate)
			require.NoError(t, pl.Dispatch1D(ce, n))
		})
	}
	gravityStep(naive, AllPairs)
	gravityStep(tiled, AllPairsTiled)
	gravityStep(passes, AllPairsTiledPasses)

	assert.Less(t, maxRelErr(tiled, naive), float32(1e-4))
	assert.Less(t, maxRelErr(passes, naive), float32(1e-4))
	for i := range naive {
		assert.InDelta(t, naive[i].Pos.X, tiled[i].Pos.X, 1e-4)
		assert.InDelta(t, naive[i].Pos.Y, passes[i].Pos.Y, 1e-4)
	}
	// the blob contracts
	var inward float32
	for i, p := range st.Current().Particles {
		inward += naive[i].Vel.Dot(p.Pos)
	}
	assert.Less(t, inward, float32(0))
}

func TestSceneKernels(t *testing.T) {
	n := 64
	in := make([]particles.Particle, n)
	out := make([]particles.Particle, n)
	for i := range in {
		in[i].Pos = math32.Vec3(20, float32(-29-i), 0)
	}
	kn := &Kernels{}
	kn.Scene.Defaults()
	kn.Bind(&particles.Buffer{Particles: in}, &particles.Buffer{Particles: out}, 1.0/60)
	run(t, func(sy *compute.ComputeSystem, ce *compute.ComputePass) {
		vp := sy.AddComputePipeline("SceneVelocity").SetNumThreads(16).SetFunc(kn.SceneVelocity)
		ip := sy.AddComputePipeline("SceneIntegrate").SetNumThreads(16).SetFunc(kn.SceneIntegrate)
		require.NoError(t, vp.Dispatch1D(ce, n))
		ce.MemoryBarrier()
		require.NoError(t, ip.Dispatch1D(ce, n))
	})
	// only particle 0 starts above the floor and stays above it
	assert.Equal(t, int64(n-1), kn.Respawns.Load())
	assert.Less(t, out[0].Vel.Y, float32(0))
	for i := 1; i < n; i++ {
		assert.Equal(t, kn.Scene.Respawn(uint32(i)), out[i].Pos)
		assert.Equal(t, math32.Vector3{}, out[i].Vel)
	}
}

func TestVariantsEnum(t *testing.T) {
	var v Variants
	require.NoError(t, v.SetString("AllPairsTiled"))
	assert.Equal(t, AllPairsTiled, v)
	assert.True(t, v.IsGravity())
	assert.False(t, SceneCollision.IsGravity())
	assert.Equal(t, "AllPairsTiledPasses", AllPairsTiledPasses.String())
}
