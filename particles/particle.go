// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package particles is the particle state store: the dense particle
// buffers that the compute kernels read and write, and the buffer
// rotation discipline that keeps readers and writers apart.
package particles

//go:generate core generate

import (
	"unsafe"

	"cogentcore.org/core/math32"
)

const (
	// Stride is the size in bytes of one Particle.
	Stride = 32

	// PosOffset is the byte offset of Pos within a Particle.
	PosOffset = 0

	// VelOffset is the byte offset of Vel within a Particle.
	VelOffset = 16

	// FloatsPerParticle is the number of float32 values per Particle.
	FloatsPerParticle = Stride / 4
)

// Particle is the state of one particle, laid out as two
// 16 byte aligned vec4 values, as on the GPU.
type Particle struct {
	// Pos is the position.
	Pos math32.Vector3

	pad float32

	// Vel is the velocity.
	Vel math32.Vector3

	pad1 float32
}

// Buffer is one physical particle buffer of a [Store].
type Buffer struct {
	// Index is the index of this buffer within the Store.
	Index int

	// Particles is the dense particle state.
	Particles []Particle
}

// Len returns the number of particles.
func (b *Buffer) Len() int { return len(b.Particles) }

// Floats returns the buffer memory as FloatsPerParticle float32 values
// per particle, sharing memory with Particles.
func (b *Buffer) Floats() []float32 {
	if len(b.Particles) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.Particles[0])), len(b.Particles)*FloatsPerParticle)
}

// CopyFrom copies all particles from the other buffer.
func (b *Buffer) CopyFrom(other *Buffer) {
	copy(b.Particles, other.Particles)
}
