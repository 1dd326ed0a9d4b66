// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package particles

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/lab/base/randx"
)

// Distribution gives the initial position of particle idx.
type Distribution interface {
	Sample(idx int, rnd randx.Rand) math32.Vector3
}

// VelocityRule gives an initial velocity derived from the
// initial position.
type VelocityRule interface {
	Velocity(pos math32.Vector3) math32.Vector3
}

// Point places every particle at the same position.
type Point struct {
	Pos math32.Vector3
}

func (d *Point) Sample(idx int, rnd randx.Rand) math32.Vector3 {
	return d.Pos
}

// Cube is a uniform distribution in an axis aligned box.
type Cube struct {
	// Center of the box.
	Center math32.Vector3

	// Size of the box along each axis.
	Size math32.Vector3
}

func (d *Cube) Sample(idx int, rnd randx.Rand) math32.Vector3 {
	u := math32.Vec3(rnd.Float32()-0.5, rnd.Float32()-0.5, rnd.Float32()-0.5)
	return d.Center.Add(u.Mul(d.Size))
}

// Gaussian is a normal distribution with per-axis standard deviation.
type Gaussian struct {
	Mean math32.Vector3

	Sigma math32.Vector3
}

func (d *Gaussian) Sample(idx int, rnd randx.Rand) math32.Vector3 {
	return math32.Vec3(
		float32(randx.GaussianGen(float64(d.Mean.X), float64(d.Sigma.X), rnd)),
		float32(randx.GaussianGen(float64(d.Mean.Y), float64(d.Sigma.Y), rnd)),
		float32(randx.GaussianGen(float64(d.Mean.Z), float64(d.Sigma.Z), rnd)),
	)
}

// Disk is a flattened disk: each axis is the centered sum of three
// uniform values in [-1.5, 1.5), scaled by Scale. A small Scale.Y
// gives a thin disk.
type Disk struct {
	Center math32.Vector3

	Scale math32.Vector3
}

func (d *Disk) Sample(idx int, rnd randx.Rand) math32.Vector3 {
	sum3 := func() float32 {
		return 1.5 - (rnd.Float32() + rnd.Float32() + rnd.Float32())
	}
	u := math32.Vec3(sum3(), sum3(), sum3())
	return d.Center.Add(u.Mul(d.Scale))
}

// Spiral places particles along spiral arms
// in the XZ plane, with particle idx on arm idx % Arms.
type Spiral struct {
	// Arms is the number of spiral arms.
	Arms int

	// Radius is the outer radius.
	Radius float32

	// Twist is the arm rotation in radians from the center to Radius.
	Twist float32

	// Spread is the angular standard deviation around the arm, in radians.
	Spread float32

	// Thickness is the standard deviation along Y.
	Thickness float32
}

func (d *Spiral) Sample(idx int, rnd randx.Rand) math32.Vector3 {
	arms := max(d.Arms, 1)
	u := math32.Sqrt(rnd.Float32())
	r := d.Radius * u
	theta := 2*math32.Pi*float32(idx%arms)/float32(arms) + d.Twist*u
	theta += d.Spread * float32(rnd.NormFloat64())
	y := d.Thickness * float32(rnd.NormFloat64())
	return math32.Vec3(r*math32.Cos(theta), y, r*math32.Sin(theta))
}

// Orbital gives each particle a circular velocity around Axis:
// Strength * cross(pos, Axis) / |pos|^2. Particles at the origin
// are at rest.
type Orbital struct {
	Strength float32

	Axis math32.Vector3
}

func (o *Orbital) Velocity(pos math32.Vector3) math32.Vector3 {
	l2 := pos.LengthSquared()
	if l2 == 0 {
		return math32.Vector3{}
	}
	return pos.Cross(o.Axis).MulScalar(o.Strength / l2)
}

// Constant gives every particle the same velocity.
type Constant struct {
	Vel math32.Vector3
}

func (c *Constant) Velocity(pos math32.Vector3) math32.Vector3 {
	return c.Vel
}
