// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"fmt"
	"log/slog"
)

// RunStates are the states of the host loop.
type RunStates int32 //enums:enum

const (
	// Running continues the loop with another step.
	Running RunStates = iota

	// Stopped ends the loop.
	Stopped
)

// Host is polled once per frame for the run state,
// as a window event loop would be.
type Host interface {
	Poll() RunStates
}

// HostFunc is a function that implements [Host].
type HostFunc func() RunStates

func (f HostFunc) Poll() RunStates { return f() }

// Frames returns a Host that runs for n frames.
func Frames(n int) Host {
	frame := 0
	return HostFunc(func() RunStates {
		if frame >= n {
			return Stopped
		}
		frame++
		return Running
	})
}

// ContextHost returns a Host that runs until ctx is done.
func ContextHost(ctx context.Context) Host {
	return HostFunc(func() RunStates {
		if ctx.Err() != nil {
			return Stopped
		}
		return Running
	})
}

// Run steps the simulation by dt and passes the new state to every
// consumer, for as long as the host is Running. A failed step is
// retried up to Config.Retries times before Run gives up and returns
// the error. Consumer errors stop the loop.
func Run(host Host, sm *Sim, dt float32, consumers ...Consumer) error {
	for host.Poll() == Running {
		if err := sm.stepRetry(dt); err != nil {
			return err
		}
		v := sm.Current()
		for _, c := range consumers {
			if err := c.Consume(v); err != nil {
				return fmt.Errorf("sim: consumer at step %d: %w", sm.steps, err)
			}
		}
	}
	return nil
}

// stepRetry runs Step, retrying failed steps.
func (sm *Sim) stepRetry(dt float32) error {
	var err error
	for try := 0; try <= sm.Config.Retries; try++ {
		if err = sm.Step(dt); err == nil {
			return nil
		}
		if try < sm.Config.Retries {
			slog.Warn("sim: retrying step", "step", sm.steps, "try", try+1)
		}
	}
	return err
}
