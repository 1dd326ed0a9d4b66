// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compute provides a data-parallel compute device that runs
// kernels written as plain Go functions with the execution model of
// a GPU compute shader: dispatches of work-groups, group-local shared
// memory with barriers, and an in-order queue where explicit memory
// barriers separate dependent dispatches.
package compute

import (
	"fmt"
	"math"

	"cogentcore.org/core/base/errors"
)

// DefaultThreads is the default number of lanes per work-group.
const DefaultThreads = 256

// ComputeSystem manages a system of ComputePipelines that all run
// on a common Device.
type ComputeSystem struct {
	// optional name of this ComputeSystem
	Name string

	// ComputePipelines by name
	ComputePipelines map[string]*ComputePipeline

	// logical device for this ComputeSystem.
	device *Device

	// whether we created the device and must release it.
	ownDevice bool
}

// NewComputeSystem returns a new ComputeSystem on the given device.
// If dev is nil, a new Device is created that is owned by the system.
func NewComputeSystem(dev *Device, name string) *ComputeSystem {
	sy := &ComputeSystem{Name: name}
	if dev == nil {
		dev = NewDevice()
		sy.ownDevice = true
	}
	sy.device = dev
	sy.ComputePipelines = make(map[string]*ComputePipeline)
	return sy
}

// Device returns the device the system runs on.
func (sy *ComputeSystem) Device() *Device { return sy.device }

// WaitDone waits until the device is done with current processing
// steps, returning any errors reported by the device.
func (sy *ComputeSystem) WaitDone() error {
	return sy.device.WaitDone()
}

// Release waits for the device and releases it if owned.
func (sy *ComputeSystem) Release() {
	if sy.ownDevice {
		sy.device.Release()
	} else {
		errors.Log(sy.device.WaitDone())
	}
	sy.ComputePipelines = nil
}

// AddComputePipeline adds a new ComputePipeline to the system
func (sy *ComputeSystem) AddComputePipeline(name string) *ComputePipeline {
	pl := NewComputePipeline(name, sy)
	sy.ComputePipelines[pl.Name] = pl
	return pl
}

// PipelineByName returns the ComputePipeline with given name.
func (sy *ComputeSystem) PipelineByName(name string) (*ComputePipeline, error) {
	pl, ok := sy.ComputePipelines[name]
	if !ok {
		return nil, fmt.Errorf("compute.ComputeSystem %q: pipeline %q not found", sy.Name, name)
	}
	return pl, nil
}

// BeginComputePass returns a new ComputePass to record
// compute commands into. Call [ComputePass.End] and then
// [ComputeSystem.EndComputePass] when done.
func (sy *ComputeSystem) BeginComputePass() *ComputePass {
	return &ComputePass{system: sy}
}

// EndComputePass submits the commands of the given pass to the
// device queue. You must call ce.End prior to calling this.
// Use WaitDone to wait for the results.
func (sy *ComputeSystem) EndComputePass(ce *ComputePass) error {
	if !ce.ended {
		return errors.Log(fmt.Errorf("compute.ComputeSystem %q: EndComputePass called before ComputePass.End", sy.Name))
	}
	if ce.system != sy {
		return errors.Log(fmt.Errorf("compute.ComputeSystem %q: ComputePass belongs to another system", sy.Name))
	}
	return sy.device.Submit(&CommandBuffer{Name: sy.Name, stages: ce.stages})
}

// Warps returns the number of warps (work groups of compute threads)
// that is sufficient to compute n elements, given specified number
// of threads per this dimension.
// It just rounds up to nearest even multiple of n divided by threads:
// Ceil(n / threads)
func Warps(n, threads int) int {
	return int(math.Ceil(float64(n) / float64(threads)))
}
