// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package particles

import (
	"testing"
	"unsafe"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	var p Particle
	assert.Equal(t, uintptr(Stride), unsafe.Sizeof(p))
	assert.Equal(t, uintptr(PosOffset), unsafe.Offsetof(p.Pos))
	assert.Equal(t, uintptr(VelOffset), unsafe.Offsetof(p.Vel))
	assert.Equal(t, 8, FloatsPerParticle)
}

func TestFloatsView(t *testing.T) {
	b := &Buffer{Particles: make([]Particle, 3)}
	b.Particles[1].Pos = math32.Vec3(1, 2, 3)
	b.Particles[1].Vel = math32.Vec3(4, 5, 6)
	fs := b.Floats()
	require.Len(t, fs, 3*FloatsPerParticle)
	assert.Equal(t, []float32{1, 2, 3}, fs[8:11])
	assert.Equal(t, []float32{4, 5, 6}, fs[12:15])
	fs[0] = 7
	assert.Equal(t, float32(7), b.Particles[0].Pos.X)
	assert.Nil(t, (&Buffer{}).Floats())
}

func TestConfigErrors(t *testing.T) {
	dist := &Point{}
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"zero count", Config{Count: 0, Distribution: dist}, "Count"},
		{"not multiple", Config{Count: 1000, WorkGroupSize: 256, Distribution: dist}, "Count"},
		{"one buffer", Config{Count: 256, Buffers: 1, Distribution: dist}, "Buffers"},
		{"no distribution", Config{Count: 256}, "Distribution"},
		{"bad discipline", Config{Count: 256, Discipline: 5, Distribution: dist}, "Discipline"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			st, err := New(&test.cfg)
			assert.Nil(t, st)
			assert.ErrorIs(t, err, ErrConfiguration)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, test.field, ce.Field)
		})
	}
}

func TestResourceExhausted(t *testing.T) {
	_, err := New(&Config{Count: 1024, Distribution: &Point{}, MaxBytes: 1024 * Stride})
	assert.ErrorIs(t, err, ErrResourceExhausted)

	// InPlace needs the staging copy too
	_, err = New(&Config{Count: 1024, Discipline: InPlace, Distribution: &Point{}, MaxBytes: 1024 * Stride})
	assert.ErrorIs(t, err, ErrResourceExhausted)

	st, err := New(&Config{Count: 1024, Distribution: &Point{}, MaxBytes: 2 * 1024 * Stride})
	require.NoError(t, err)
	assert.Equal(t, 2, st.NumBuffers())
}

func TestPingPongRotation(t *testing.T) {
	for _, nb := range []int{2, 3} {
		st, err := New(&Config{Count: 256, Buffers: nb, Distribution: &Point{}})
		require.NoError(t, err)
		seen := map[int]bool{}
		for range 2 * nb {
			assert.NotEqual(t, st.CurrentIndex(), st.NextIndex())
			assert.NotSame(t, st.Current(), st.Next())
			assert.Equal(t, (st.CurrentIndex()+1)%nb, st.NextIndex())
			seen[st.CurrentIndex()] = true
			next := st.Next()
			st.Advance()
			assert.Same(t, next, st.Current())
		}
		assert.Len(t, seen, nb)
	}
}

func TestInPlace(t *testing.T) {
	st, err := New(&Config{Count: 256, Discipline: InPlace, Distribution: &Cube{Size: math32.Vec3(1, 1, 1)}})
	require.NoError(t, err)
	assert.Equal(t, 1, st.NumBuffers())
	assert.Same(t, st.Current(), st.Next())
	st.Advance()
	assert.Equal(t, 0, st.CurrentIndex())

	orig := st.Current().Particles[5]
	st.Snapshot()
	st.Current().Particles[5].Pos.Y += 10
	st.Restore()
	assert.Equal(t, orig, st.Current().Particles[5])
}

func TestInitialState(t *testing.T) {
	cfg := &Config{Count: 512, Buffers: 3, Seed: 7, Distribution: &Cube{Center: math32.Vec3(0, 20, 0), Size: math32.Vec3(5, 5, 5)}}
	st, err := New(cfg)
	require.NoError(t, err)
	for _, p := range st.Current().Particles {
		assert.InDelta(t, 0, p.Pos.X, 2.5)
		assert.InDelta(t, 20, p.Pos.Y, 2.5)
		assert.Equal(t, math32.Vector3{}, p.Vel)
	}
	assert.Equal(t, st.Buffer(0).Particles, st.Buffer(2).Particles)

	// same seed, same state
	st2, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, st.Current().Particles, st2.Current().Particles)

	st.Release()
	st.Release()
	assert.Nil(t, st.Buffer(0).Particles)
}

func TestDistributions(t *testing.T) {
	g := &Gaussian{Sigma: math32.Vec3(1, 0.2, 1)}
	st, err := New(&Config{Count: 4096, Distribution: g})
	require.NoError(t, err)
	var sy2 float32
	for _, p := range st.Current().Particles {
		sy2 += p.Pos.Y * p.Pos.Y
	}
	assert.InDelta(t, 0.04, sy2/4096, 0.01)

	d := &Disk{Scale: math32.Vec3(4, 1, 4)}
	st, err = New(&Config{Count: 1024, Distribution: d, Velocity: &Orbital{Strength: 40, Axis: math32.Vec3(0, 1, 0)}})
	require.NoError(t, err)
	for _, p := range st.Current().Particles {
		assert.LessOrEqual(t, math32.Abs(p.Pos.Y), float32(1.5))
		assert.LessOrEqual(t, math32.Abs(p.Pos.X), float32(6))
		// orbital velocity is perpendicular to the radius and the axis
		assert.InDelta(t, 0, p.Vel.Y, 1e-4)
		assert.InDelta(t, 0, p.Vel.Dot(p.Pos)/(p.Vel.Length()*p.Pos.Length()+1e-6), 1e-3)
	}

	s := &Spiral{Arms: 2, Radius: 10, Twist: 3, Spread: 0.1, Thickness: 0.2}
	st, err = New(&Config{Count: 256, Distribution: s, Velocity: &Constant{Vel: math32.Vec3(0, 1, 0)}})
	require.NoError(t, err)
	for _, p := range st.Current().Particles {
		r := math32.Sqrt(p.Pos.X*p.Pos.X + p.Pos.Z*p.Pos.Z)
		assert.LessOrEqual(t, r, float32(10.001))
		assert.Equal(t, math32.Vec3(0, 1, 0), p.Vel)
	}

	// zero radius puts every particle on the axis
	s = &Spiral{Arms: 3, Twist: 4, Spread: 0.1, Thickness: 0.2}
	st, err = New(&Config{Count: 256, Distribution: s})
	require.NoError(t, err)
	for _, p := range st.Current().Particles {
		assert.False(t, math32.IsNaN(p.Pos.Y))
		assert.Equal(t, float32(0), p.Pos.X)
		assert.Equal(t, float32(0), p.Pos.Z)
	}
}

func TestDisciplinesEnum(t *testing.T) {
	var d Disciplines
	require.NoError(t, d.SetString("InPlace"))
	assert.Equal(t, InPlace, d)
	assert.Equal(t, "PingPong", PingPong.String())
	assert.Error(t, d.SetString("Sideways"))
	assert.Len(t, DisciplinesValues(), int(DisciplinesN))
}
