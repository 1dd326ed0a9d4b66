// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package particles

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/lab/base/randx"
)

// Disciplines are the buffer disciplines of a [Store].
type Disciplines int32 //enums:enum

const (
	// PingPong uses a ring of two or more buffers: kernels read
	// the current buffer and write the next one, which becomes
	// current after every write of the step has completed.
	PingPong Disciplines = iota

	// InPlace uses a single buffer that kernels read and write,
	// with the force and integrate passes separated by a memory
	// barrier.
	InPlace
)

// Config has the parameters for a new [Store].
type Config struct {

	// Count is the number of particles, which must be a positive
	// multiple of WorkGroupSize.
	Count int `default:"16384"`

	// WorkGroupSize is the number of lanes per compute work-group.
	WorkGroupSize int `default:"256"`

	// Discipline is the buffer discipline.
	Discipline Disciplines

	// Buffers is the number of buffers in the PingPong ring, at least 2.
	Buffers int `default:"2"`

	// Distribution gives the initial position of each particle.
	Distribution Distribution

	// Velocity gives the initial velocity from the initial position.
	// If nil, particles start at rest.
	Velocity VelocityRule

	// Seed for the random initial distribution.
	Seed int64 `default:"1"`

	// MaxBytes is the allocation budget for all buffers,
	// including the host staging copy used by InPlace.
	MaxBytes int64 `default:"1073741824"`
}

// Defaults sets default values for unset fields.
func (cf *Config) Defaults() {
	if cf.WorkGroupSize == 0 {
		cf.WorkGroupSize = 256
	}
	if cf.Buffers == 0 {
		cf.Buffers = 2
	}
	if cf.MaxBytes == 0 {
		cf.MaxBytes = 1 << 30
	}
}

// NumBuffers returns the number of physical buffers the
// discipline uses.
func (cf *Config) NumBuffers() int {
	if cf.Discipline == InPlace {
		return 1
	}
	return cf.Buffers
}

// Bytes returns the total bytes allocated for this configuration.
func (cf *Config) Bytes() int64 {
	n := int64(cf.NumBuffers())
	if cf.Discipline == InPlace {
		n++ // staging copy
	}
	return n * int64(cf.Count) * Stride
}

// Validate returns a [ConfigError] for the first invalid field.
func (cf *Config) Validate() error {
	switch {
	case cf.WorkGroupSize <= 0:
		return &ConfigError{Field: "WorkGroupSize", Reason: fmt.Sprintf("must be positive, is %d", cf.WorkGroupSize)}
	case cf.Count <= 0:
		return &ConfigError{Field: "Count", Reason: fmt.Sprintf("must be positive, is %d", cf.Count)}
	case cf.Count%cf.WorkGroupSize != 0:
		return &ConfigError{Field: "Count", Reason: fmt.Sprintf("%d is not a multiple of the work-group size %d", cf.Count, cf.WorkGroupSize)}
	case cf.Discipline < 0 || cf.Discipline >= DisciplinesN:
		return &ConfigError{Field: "Discipline", Reason: fmt.Sprintf("unknown discipline %d", cf.Discipline)}
	case cf.Discipline == PingPong && cf.Buffers < 2:
		return &ConfigError{Field: "Buffers", Reason: fmt.Sprintf("must be at least 2 for PingPong, is %d", cf.Buffers)}
	case cf.Distribution == nil:
		return &ConfigError{Field: "Distribution", Reason: "is nil"}
	}
	return nil
}

// Store holds the particle buffers and the rotation state.
// Kernels read [Store.Current] and write [Store.Next];
// consumers only ever read Current.
type Store struct {
	// Config used to create the store.
	Config Config

	buffers []*Buffer

	current, next int

	// staging is the host copy of the InPlace buffer for rollback.
	staging []Particle

	released bool
}

// New returns a new Store with every buffer initialized from
// the configured distribution and velocity rule.
func New(cfg *Config) (*Store, error) {
	cf := *cfg
	cf.Defaults()
	if err := cf.Validate(); err != nil {
		return nil, errors.Log(err)
	}
	if nb := cf.Bytes(); nb > cf.MaxBytes {
		return nil, errors.Log(fmt.Errorf("%w: %d particles in %d buffers need %d bytes, budget is %d", ErrResourceExhausted, cf.Count, cf.NumBuffers(), nb, cf.MaxBytes))
	}
	st := &Store{Config: cf}
	nbuf := cf.NumBuffers()
	st.buffers = make([]*Buffer, nbuf)
	for i := range nbuf {
		ps, err := allocate(cf.Count)
		if err != nil {
			return nil, errors.Log(err)
		}
		st.buffers[i] = &Buffer{Index: i, Particles: ps}
	}
	if cf.Discipline == InPlace {
		ps, err := allocate(cf.Count)
		if err != nil {
			return nil, errors.Log(err)
		}
		st.staging = ps
	}
	st.init()
	st.current = 0
	st.next = 1 % nbuf
	slog.Debug("particles: new store", "count", cf.Count, "discipline", cf.Discipline, "buffers", nbuf)
	return st, nil
}

// allocate allocates the particles for one buffer, turning an
// allocation failure into ErrResourceExhausted.
func allocate(n int) (ps []Particle, err error) {
	defer func() {
		if r := recover(); r != nil {
			ps = nil
			err = fmt.Errorf("%w: allocating %d particles: %v", ErrResourceExhausted, n, r)
		}
	}()
	ps = make([]Particle, n)
	return
}

// init fills buffer 0 from the distribution and copies it to the others.
func (st *Store) init() {
	cf := &st.Config
	rnd := randx.NewSysRand(cf.Seed)
	b0 := st.buffers[0]
	for i := range b0.Particles {
		p := &b0.Particles[i]
		p.Pos = cf.Distribution.Sample(i, rnd)
		if cf.Velocity != nil {
			p.Vel = cf.Velocity.Velocity(p.Pos)
		}
	}
	for _, b := range st.buffers[1:] {
		b.CopyFrom(b0)
	}
}

// Count returns the number of particles.
func (st *Store) Count() int { return st.Config.Count }

// Discipline returns the buffer discipline.
func (st *Store) Discipline() Disciplines { return st.Config.Discipline }

// NumBuffers returns the number of physical buffers.
func (st *Store) NumBuffers() int { return len(st.buffers) }

// Buffer returns the physical buffer at given index.
func (st *Store) Buffer(idx int) *Buffer { return st.buffers[idx] }

// Current returns the buffer that holds the latest completed state.
func (st *Store) Current() *Buffer { return st.buffers[st.current] }

// Next returns the buffer that the next step writes.
// It is the same as Current for InPlace.
func (st *Store) Next() *Buffer { return st.buffers[st.next] }

// CurrentIndex returns the index of the Current buffer.
func (st *Store) CurrentIndex() int { return st.current }

// NextIndex returns the index of the Next buffer.
func (st *Store) NextIndex() int { return st.next }

// Advance makes the Next buffer current, and the one after it next.
// It must only be called once every write of the step has completed.
// It does nothing for InPlace.
func (st *Store) Advance() {
	if st.Config.Discipline == InPlace {
		return
	}
	n := len(st.buffers)
	st.current = st.next
	st.next = (st.current + 1) % n
}

// Snapshot saves the InPlace buffer to the host staging copy,
// for a later Restore. It does nothing for PingPong, where the
// current buffer is never written by a step.
func (st *Store) Snapshot() {
	if st.staging == nil {
		return
	}
	copy(st.staging, st.Current().Particles)
}

// Restore copies the last Snapshot back into the InPlace buffer.
func (st *Store) Restore() {
	if st.staging == nil {
		return
	}
	copy(st.Current().Particles, st.staging)
}

// Release frees the buffers. The Store cannot be used after this.
func (st *Store) Release() {
	if st.released {
		return
	}
	st.released = true
	for _, b := range st.buffers {
		b.Particles = nil
	}
	st.staging = nil
}
