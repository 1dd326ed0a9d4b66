// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"fmt"
	"sync"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/timer"
	"golang.org/x/sync/errgroup"
)

// ComputePipeline is one compute kernel, with the number of threads
// per work-group it is dispatched with. A pipeline has exactly one of
// Func, for kernels whose elements are fully independent, or GroupFunc,
// for kernels whose lanes cooperate through work-group Shared memory
// and barriers.
type ComputePipeline struct {
	// unique name of this pipeline
	Name string

	// NumThreads is the number of lanes per work-group.
	NumThreads int

	// Func is the per-element kernel, called once for each
	// global index less than the dispatch size.
	Func func(idx uint32)

	// GroupFunc is the cooperative kernel, called once per lane of
	// every work-group, each lane on its own goroutine.
	GroupFunc func(wg *WorkGroup, lane uint32)

	// SharedSize is the number of Vector4 elements of Shared memory
	// allocated for each work-group of a GroupFunc kernel.
	SharedSize int

	// Timer accumulates the elapsed time of every dispatch of this
	// pipeline, as a timer query would on the GPU.
	Timer timer.Time

	// System that we belong to.
	System *ComputeSystem

	// timerMu protects Timer.
	timerMu sync.Mutex
}

// NewComputePipeline returns a new ComputePipeline with given name,
// with the default number of threads.
func NewComputePipeline(name string, sy *ComputeSystem) *ComputePipeline {
	return &ComputePipeline{Name: name, System: sy, NumThreads: DefaultThreads}
}

// SetFunc sets the per-element kernel function.
func (pl *ComputePipeline) SetFunc(fun func(idx uint32)) *ComputePipeline {
	pl.Func = fun
	pl.GroupFunc = nil
	return pl
}

// SetGroupFunc sets the cooperative kernel function, with given
// number of Shared memory elements per work-group.
func (pl *ComputePipeline) SetGroupFunc(shared int, fun func(wg *WorkGroup, lane uint32)) *ComputePipeline {
	pl.GroupFunc = fun
	pl.SharedSize = shared
	pl.Func = nil
	return pl
}

// SetNumThreads sets the number of lanes per work-group.
func (pl *ComputePipeline) SetNumThreads(threads int) *ComputePipeline {
	pl.NumThreads = threads
	return pl
}

// Dispatch1D records a dispatch of this pipeline over n elements
// into the given ComputePass, using Warps(n, NumThreads) work-groups.
func (pl *ComputePipeline) Dispatch1D(ce *ComputePass, n int) error {
	return pl.Dispatch1DPush(ce, n, 0)
}

// Dispatch1DPush is Dispatch1D with a per-dispatch constant,
// available to GroupFunc kernels as [WorkGroup.Push].
func (pl *ComputePipeline) Dispatch1DPush(ce *ComputePass, n int, push uint32) error {
	if err := pl.validate(n); err != nil {
		return errors.Log(err)
	}
	return ce.add(&dispatch{pipeline: pl, n: n, groups: Warps(n, pl.NumThreads), push: push})
}

// validate checks that the pipeline can be dispatched over n elements.
func (pl *ComputePipeline) validate(n int) error {
	switch {
	case (pl.Func == nil) == (pl.GroupFunc == nil):
		return fmt.Errorf("compute.ComputePipeline %q: must have exactly one of Func or GroupFunc", pl.Name)
	case pl.NumThreads <= 0:
		return fmt.Errorf("compute.ComputePipeline %q: NumThreads must be positive, is %d", pl.Name, pl.NumThreads)
	case n <= 0:
		return fmt.Errorf("compute.ComputePipeline %q: dispatch size must be positive, is %d", pl.Name, n)
	case pl.GroupFunc != nil && n%pl.NumThreads != 0:
		return fmt.Errorf("compute.ComputePipeline %q: cooperative dispatch size %d is not a multiple of %d threads", pl.Name, n, pl.NumThreads)
	}
	return nil
}

// dispatch is one recorded dispatch command.
type dispatch struct {
	pipeline *ComputePipeline
	n        int
	groups   int
	push     uint32
}

// execute runs all work-groups of the dispatch, up to
// Device.MaxGroups at a time, and returns the joined
// errors of all groups that faulted.
func (d *dispatch) execute(dv *Device) error {
	pl := d.pipeline
	pl.timerMu.Lock()
	defer pl.timerMu.Unlock()
	pl.Timer.Start()
	defer pl.Timer.Stop()

	var eg errgroup.Group
	eg.SetLimit(max(dv.MaxGroups, 1))
	var mu sync.Mutex
	var errs []error
	for g := range d.groups {
		eg.Go(func() error {
			err := d.runGroup(dv, g)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return err
		})
	}
	eg.Wait()
	return errors.Join(errs...)
}

// runGroup runs one work-group, after checking the device for faults.
func (d *dispatch) runGroup(dv *Device, group int) error {
	pl := d.pipeline
	if dv.Fault != nil {
		if err := dv.Fault(pl.Name, group); err != nil {
			return &KernelError{Pipeline: pl.Name, Group: group, Lane: -1, Err: err}
		}
	}
	if pl.GroupFunc != nil {
		return d.runLanes(group)
	}
	return d.runElements(group)
}

// runElements runs the Func kernel for each element of the group.
func (d *dispatch) runElements(group int) (err error) {
	pl := d.pipeline
	start := group * pl.NumThreads
	end := min(start+pl.NumThreads, d.n)
	idx := start
	defer func() {
		if r := recover(); r != nil {
			err = &KernelError{Pipeline: pl.Name, Group: group, Lane: idx - start, Err: panicError(r)}
		}
	}()
	for ; idx < end; idx++ {
		pl.Func(uint32(idx))
	}
	return nil
}

// runLanes runs the GroupFunc kernel with one goroutine per lane,
// all sharing one WorkGroup. A failing lane breaks the group
// barrier so that the other lanes cannot deadlock.
func (d *dispatch) runLanes(group int) error {
	pl := d.pipeline
	wg := newWorkGroup(uint32(group), uint32(pl.NumThreads), uint32(d.n), d.push, pl.SharedSize)
	var lanes sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	for lane := range pl.NumThreads {
		lanes.Add(1)
		go func() {
			defer lanes.Done()
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				wg.barrier.Break()
				if err, ok := r.(error); ok && err == errBrokenBarrier {
					return
				}
				mu.Lock()
				errs = append(errs, &KernelError{Pipeline: pl.Name, Group: group, Lane: lane, Err: panicError(r)})
				mu.Unlock()
			}()
			pl.GroupFunc(wg, uint32(lane))
		}()
	}
	lanes.Wait()
	return errors.Join(errs...)
}
