// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package particles

import (
	"fmt"

	"cogentcore.org/core/base/errors"
)

var (
	// ErrConfiguration is returned for parameters that cannot be
	// satisfied, such as a count that is not a multiple of the
	// work-group size.
	ErrConfiguration = errors.New("particles: invalid configuration")

	// ErrResourceExhausted is returned when the particle buffers
	// cannot be allocated.
	ErrResourceExhausted = errors.New("particles: resource exhausted")
)

// ConfigError reports an invalid [Config] field.
// It matches [ErrConfiguration] with errors.Is.
type ConfigError struct {
	// Field is the name of the offending Config field.
	Field string

	// Reason says what is wrong with it.
	Reason string
}

func (ce *ConfigError) Error() string {
	return fmt.Sprintf("particles: invalid configuration: %s %s", ce.Field, ce.Reason)
}

func (ce *ConfigError) Unwrap() error { return ErrConfiguration }
