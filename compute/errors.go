// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"fmt"

	"cogentcore.org/core/base/errors"
)

// ErrKernelExecution is reported, wrapped in a [KernelError], whenever
// the device faults while running a dispatch.
var ErrKernelExecution = errors.New("compute: kernel execution failed")

// errBrokenBarrier is raised inside lanes waiting on a group barrier
// that can never complete because another lane of the group failed.
var errBrokenBarrier = errors.New("compute: work-group barrier broken")

// KernelError describes a device fault in one work-group of a dispatch.
// It matches [ErrKernelExecution] with errors.Is, and also unwraps
// to the underlying cause.
type KernelError struct {
	// Pipeline is the name of the pipeline being dispatched.
	Pipeline string

	// Group is the work-group index that faulted.
	Group int

	// Lane is the lane within the group, or -1 for group-level faults.
	Lane int

	// Err is the underlying cause.
	Err error
}

func (ke *KernelError) Error() string {
	if ke.Lane < 0 {
		return fmt.Sprintf("compute: kernel %q work-group %d: %v", ke.Pipeline, ke.Group, ke.Err)
	}
	return fmt.Sprintf("compute: kernel %q work-group %d lane %d: %v", ke.Pipeline, ke.Group, ke.Lane, ke.Err)
}

func (ke *KernelError) Unwrap() []error {
	return []error{ErrKernelExecution, ke.Err}
}

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
