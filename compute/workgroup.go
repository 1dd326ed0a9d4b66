// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"sync"

	"cogentcore.org/core/math32"
)

// WorkGroup is the set of lanes of one work-group of a cooperative
// dispatch. All lanes share the same WorkGroup, which provides the
// group-local Shared memory and the group Barrier.
type WorkGroup struct {
	// ID is the index of this work-group within the dispatch.
	ID uint32

	// Size is the number of lanes in the group (the pipeline NumThreads).
	Size uint32

	// N is the total number of elements in the dispatch.
	N uint32

	// Push is the per-dispatch constant recorded with the dispatch.
	Push uint32

	// Shared is the group-local scratch memory, visible to all lanes.
	// Writes by one lane are only guaranteed visible to other lanes
	// after a call to Barrier.
	Shared []math32.Vector4

	barrier *Barrier
}

// newWorkGroup returns a WorkGroup for given dispatch group index.
func newWorkGroup(id, size, n, push uint32, shared int) *WorkGroup {
	wg := &WorkGroup{ID: id, Size: size, N: n, Push: push}
	if shared > 0 {
		wg.Shared = make([]math32.Vector4, shared)
	}
	wg.barrier = NewBarrier(int(size))
	return wg
}

// GlobalIndex returns the global invocation index for given lane.
func (wg *WorkGroup) GlobalIndex(lane uint32) uint32 {
	return wg.ID*wg.Size + lane
}

// NumGroups returns the number of work-groups in the dispatch.
func (wg *WorkGroup) NumGroups() uint32 {
	return uint32(Warps(int(wg.N), int(wg.Size)))
}

// Barrier is the combined memory and execution barrier of the group:
// it blocks until every lane in the group has reached it, and all
// Shared writes made before it are visible to every lane after it.
// Every lane must call Barrier the same number of times.
func (wg *WorkGroup) Barrier() {
	wg.barrier.Wait()
}

// Barrier is a reusable (cyclic) barrier for a fixed number of parties.
// If any party fails, the barrier can be broken, which releases
// all waiting parties with a panic that the lane runner recovers.
type Barrier struct {
	n       int
	mu      sync.Mutex
	cond    *sync.Cond
	waiting int
	gen     uint64
	broken  bool
}

// NewBarrier returns a new Barrier for n parties.
func NewBarrier(n int) *Barrier {
	br := &Barrier{n: n}
	br.cond = sync.NewCond(&br.mu)
	return br
}

// Wait blocks until all n parties have called Wait for the current
// generation. It panics with a broken-barrier error if the
// barrier was broken before or while waiting.
func (br *Barrier) Wait() {
	br.mu.Lock()
	defer br.mu.Unlock()
	if br.broken {
		panic(errBrokenBarrier)
	}
	gen := br.gen
	br.waiting++
	if br.waiting == br.n {
		br.waiting = 0
		br.gen++
		br.cond.Broadcast()
		return
	}
	for gen == br.gen && !br.broken {
		br.cond.Wait()
	}
	if gen == br.gen {
		panic(errBrokenBarrier)
	}
}

// Break marks the barrier as broken and releases all waiters.
func (br *Barrier) Break() {
	br.mu.Lock()
	br.broken = true
	br.mu.Unlock()
	br.cond.Broadcast()
}
