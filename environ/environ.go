// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package environ holds the ambient simulation environment shared by the
metric and lrate packages: the default integration time step used when a
caller does not supply one, the floating point storage precision for
reported values, and the memory budget allowed for batched evaluation.

The current parameters are process-wide.  Use Set to replace them, Context
to replace them temporarily, and Open to load them from a TOML or YAML file.
*/
package environ

import (
	"fmt"
	"math"
	"sync"

	"github.com/c2h5oh/datasize"
)

// Params are the environment parameters.
type Params struct {

	// default simulation time step, used when a metric is called
	// without an explicit dt.  In the same units as bin widths (msec).
	DT float64 `def:"0.1" min:"0" toml:"dt" yaml:"dt"`

	// floating point storage precision in bits: 32 or 64.
	// With 32, scalar outputs are rounded through float32.
	Precision int `def:"32" toml:"precision" yaml:"precision"`

	// maximum memory to allocate for batched (all pairs at once)
	// evaluation of pairwise metrics.  Larger problems fall back
	// to sequential loops under the Auto method.
	MaxBatchMem datasize.ByteSize `def:"256MB" toml:"max_batch_mem" yaml:"max_batch_mem"`
}

// Defaults sets default values
func (ep *Params) Defaults() {
	ep.DT = 0.1
	ep.Precision = 32
	ep.MaxBatchMem = 256 * datasize.MB
	ep.Update()
}

// Update fills in zero values that must be set.
func (ep *Params) Update() {
	if ep.Precision == 0 {
		ep.Precision = 32
	}
	if ep.MaxBatchMem == 0 {
		ep.MaxBatchMem = 256 * datasize.MB
	}
}

// Validate returns an error if the parameters are unusable.
func (ep *Params) Validate() error {
	if !(ep.DT > 0) || math.IsInf(ep.DT, 0) {
		return fmt.Errorf("environ: dt must be a positive finite number, got %v", ep.DT)
	}
	if ep.Precision != 32 && ep.Precision != 64 {
		return fmt.Errorf("environ: precision must be 32 or 64, got %d", ep.Precision)
	}
	return nil
}

// Float rounds v to the storage precision.
func (ep *Params) Float(v float64) float64 {
	if ep.Precision == 32 {
		return float64(float32(v))
	}
	return v
}

var (
	mu  sync.RWMutex
	cur = NewParams()
)

// NewParams returns a new Params with default values.
func NewParams() Params {
	var ep Params
	ep.Defaults()
	return ep
}

// Get returns a copy of the current parameters.
func Get() Params {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Set replaces the current parameters, after validating them.
func Set(ep Params) error {
	ep.Update()
	if err := ep.Validate(); err != nil {
		return err
	}
	mu.Lock()
	cur = ep
	mu.Unlock()
	return nil
}

// Reset restores the default parameters.
func Reset() {
	mu.Lock()
	cur = NewParams()
	mu.Unlock()
}

// Context runs fn with ep as the current parameters, restoring the previous
// parameters when fn returns.  Contexts are not meant to be nested
// across goroutines.
func Context(ep Params, fn func()) error {
	prev := Get()
	if err := Set(ep); err != nil {
		return err
	}
	defer func() {
		mu.Lock()
		cur = prev
		mu.Unlock()
	}()
	fn()
	return nil
}

// DT returns the current default time step.
func DT() float64 {
	mu.RLock()
	defer mu.RUnlock()
	return cur.DT
}

// Precision returns the current storage precision in bits.
func Precision() int {
	mu.RLock()
	defer mu.RUnlock()
	return cur.Precision
}

// MaxBatchMem returns the current batched evaluation memory budget.
func MaxBatchMem() datasize.ByteSize {
	mu.RLock()
	defer mu.RUnlock()
	return cur.MaxBatchMem
}

// Float rounds v to the current storage precision.
func Float(v float64) float64 {
	mu.RLock()
	defer mu.RUnlock()
	return cur.Float(v)
}
