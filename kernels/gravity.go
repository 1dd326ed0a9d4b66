// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernels

import "cogentcore.org/core/math32"

// Gravity has the uniforms of the all-pairs gravity kernels.
type Gravity struct {

	// G is the gravitational constant.
	G float32 `default:"0.1"`

	// Eps softens the distance, so that near and coincident
	// particles stay finite.
	Eps float32 `default:"0.001"`
}

func (gr *Gravity) Defaults() {
	gr.G = 0.1
	gr.Eps = 0.001
}

// PairAccel returns the acceleration on a particle at pi due to
// a particle at pj: -G (pi - pj) / (|pi - pj| + Eps)^3.
// PairAccel(pi, pj) == -PairAccel(pj, pi), and it is zero for pi == pj.
func (gr *Gravity) PairAccel(pi, pj math32.Vector3) math32.Vector3 {
	diff := pi.Sub(pj)
	d := diff.Length() + gr.Eps
	return diff.MulScalar(-gr.G / (d * d * d))
}
