// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"log/slog"

	"cogentcore.org/core/math32"
)

// Stats are summary statistics of a particle state.
type Stats struct {
	// Bounds is the bounding box of all positions.
	Bounds math32.Box3

	// Center is the mean position.
	Center math32.Vector3

	// MeanSpeed is the mean velocity magnitude.
	MeanSpeed float32

	// MaxSpeed is the largest velocity magnitude.
	MaxSpeed float32
}

// ComputeStats returns the Stats of the viewed state.
func ComputeStats(v View) Stats {
	st := Stats{Bounds: math32.B3Empty()}
	n := v.Len()
	if n == 0 {
		return st
	}
	var sum math32.Vector3
	var speed float32
	for i := range n {
		pos, vel := v.At(i)
		st.Bounds.ExpandByPoint(pos)
		sum = sum.Add(pos)
		s := vel.Length()
		speed += s
		st.MaxSpeed = max(st.MaxSpeed, s)
	}
	st.Center = sum.DivScalar(float32(n))
	st.MeanSpeed = speed / float32(n)
	return st
}

// StatsLogger returns a Consumer that logs the Stats of every
// every-th state of the Sim.
func StatsLogger(sm *Sim, every int) Consumer {
	every = max(every, 1)
	return ConsumerFunc(func(v View) error {
		if sm.Steps()%every != 0 {
			return nil
		}
		st := ComputeStats(v)
		slog.Info("particles", "step", sm.Steps(), "buffer", v.Index(), "center", st.Center, "size", st.Bounds.Size(), "meanSpeed", st.MeanSpeed, "maxSpeed", st.MaxSpeed)
		return nil
	})
}
