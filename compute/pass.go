// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"fmt"
	"sync"

	"cogentcore.org/core/base/errors"
	"golang.org/x/sync/errgroup"
)

// ComputePass records dispatch commands for one submission.
// Dispatches recorded between two calls to MemoryBarrier form a
// stage: they may run concurrently with each other, and must not
// depend on each other's writes. Every stage is fully drained
// before the next one starts. Call End when done recording,
// then [ComputeSystem.EndComputePass] to submit.
type ComputePass struct {
	system *ComputeSystem

	stages [][]*dispatch

	ended bool
}

// add appends the dispatch to the current stage.
func (ce *ComputePass) add(d *dispatch) error {
	if ce.ended {
		return errors.Log(fmt.Errorf("compute.ComputePass: dispatch of %q recorded after End", d.pipeline.Name))
	}
	if len(ce.stages) == 0 {
		ce.stages = append(ce.stages, nil)
	}
	last := len(ce.stages) - 1
	ce.stages[last] = append(ce.stages[last], d)
	return nil
}

// MemoryBarrier records a full memory and execution barrier:
// all dispatches recorded before it complete, with their
// writes visible, before any dispatch recorded after it starts.
func (ce *ComputePass) MemoryBarrier() {
	n := len(ce.stages)
	if n == 0 || len(ce.stages[n-1]) == 0 {
		return
	}
	ce.stages = append(ce.stages, nil)
}

// End ends the recording of commands.
func (ce *ComputePass) End() {
	ce.ended = true
}

// NumStages returns the number of non-empty stages recorded so far.
func (ce *ComputePass) NumStages() int {
	n := 0
	for _, st := range ce.stages {
		if len(st) > 0 {
			n++
		}
	}
	return n
}

// CommandBuffer is a finished ComputePass, ready for the device queue.
type CommandBuffer struct {
	// Name of the system that recorded it.
	Name string

	stages [][]*dispatch
}

// execute runs the stages in order. A stage that reports any error
// stops the command buffer: later stages are not run.
func (cb *CommandBuffer) execute(dv *Device) error {
	for _, st := range cb.stages {
		if len(st) == 0 {
			continue
		}
		var eg errgroup.Group
		var mu sync.Mutex
		var errs []error
		for _, d := range st {
			eg.Go(func() error {
				err := d.execute(dv)
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				return err
			})
		}
		eg.Wait()
		if err := errors.Join(errs...); err != nil {
			return err
		}
	}
	return nil
}
