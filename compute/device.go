// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"log/slog"
	"runtime"
	"sync"

	"cogentcore.org/core/base/errors"
)

// FaultFunc is consulted before each work-group of each dispatch
// is run. A non-nil return value is reported as a device fault
// for that work-group, which is then not executed.
// This is how device-level errors are injected and tested.
type FaultFunc func(pipeline string, group int) error

// Device is the logical compute device. It executes submitted
// [CommandBuffer]s in order on a single queue goroutine, running
// the work-groups of each dispatch in parallel on the host CPUs.
// Each work-group of a cooperative pipeline runs one goroutine per
// lane, so group barriers and shared memory behave as on a GPU.
type Device struct {
	// MaxGroups is the maximum number of work-groups of a single
	// dispatch that are executed concurrently.
	MaxGroups int

	// Fault, if set, is called before every work-group is run,
	// and any error it returns is reported as a device fault.
	Fault FaultFunc

	// queue of submitted command buffers, drained in order.
	queue chan *CommandBuffer

	// inflight counts command buffers that have not finished.
	inflight sync.WaitGroup

	// mu protects err.
	mu sync.Mutex

	// err accumulates errors since the last WaitDone.
	err error

	// qmu protects released against sends on a closed queue.
	qmu sync.RWMutex

	released bool
}

// NewDevice returns a new Device with its queue running,
// using all available CPUs for work-groups.
func NewDevice() *Device {
	dv := &Device{MaxGroups: runtime.GOMAXPROCS(0)}
	dv.queue = make(chan *CommandBuffer, 8)
	go dv.run()
	return dv
}

// run is the queue loop.
func (dv *Device) run() {
	for cb := range dv.queue {
		err := cb.execute(dv)
		if err != nil {
			dv.mu.Lock()
			dv.err = errors.Join(dv.err, err)
			dv.mu.Unlock()
		}
		dv.inflight.Done()
	}
}

// Submit adds the command buffer to the device queue.
// Command buffers are executed in submission order, and each
// one is fully drained before the next one starts.
// Use [Device.WaitDone] to wait for completion and get errors.
func (dv *Device) Submit(cb *CommandBuffer) error {
	dv.qmu.RLock()
	defer dv.qmu.RUnlock()
	if dv.released {
		return errors.New("compute.Device Submit: device has been released")
	}
	dv.inflight.Add(1)
	dv.queue <- cb
	return nil
}

// WaitDone waits until the device is done with all submitted
// command buffers, and returns any errors they reported.
// The accumulated error state is cleared.
func (dv *Device) WaitDone() error {
	dv.inflight.Wait()
	dv.mu.Lock()
	err := dv.err
	dv.err = nil
	dv.mu.Unlock()
	return err
}

// Release waits for the queue to drain and stops it.
// The Device cannot be used after this.
func (dv *Device) Release() {
	err := dv.WaitDone()
	if err != nil {
		slog.Warn("compute.Device Release: unreported device errors", "err", err)
	}
	dv.qmu.Lock()
	defer dv.qmu.Unlock()
	if dv.released {
		return
	}
	dv.released = true
	close(dv.queue)
}
