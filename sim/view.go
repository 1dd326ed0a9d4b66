// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/particles/particles"
)

// View is the read-only view of a completed particle buffer that
// consumers receive. It is valid until the next call to Step.
type View struct {
	buf *particles.Buffer
}

// Len returns the number of particles.
func (v View) Len() int { return v.buf.Len() }

// Index returns the index of the viewed buffer within the Store.
func (v View) Index() int { return v.buf.Index }

// At returns the position and velocity of particle i.
func (v View) At(i int) (pos, vel math32.Vector3) {
	p := &v.buf.Particles[i]
	return p.Pos, p.Vel
}

// Position returns the position of particle i.
func (v View) Position(i int) math32.Vector3 {
	return v.buf.Particles[i].Pos
}

// Positions appends all positions to dst and returns it.
func (v View) Positions(dst []math32.Vector3) []math32.Vector3 {
	for i := range v.buf.Particles {
		dst = append(dst, v.buf.Particles[i].Pos)
	}
	return dst
}

// Floats returns the buffer as float32 values, with
// [particles.FloatsPerParticle] values per particle: position at
// [particles.PosOffset] and velocity at [particles.VelOffset] bytes.
// This is the vertex data layout for drawing. It must not be modified.
func (v View) Floats() []float32 { return v.buf.Floats() }

// Consumer reads the completed state after each step,
// as a render pass would.
type Consumer interface {
	Consume(v View) error
}

// ConsumerFunc is a function that implements [Consumer].
type ConsumerFunc func(v View) error

func (f ConsumerFunc) Consume(v View) error { return f(v) }
