// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lrate

import (
	"fmt"

	"github.com/emer/emergent/v2/etime"
)

// Counter contains the step counters that drive a Schedule.
// Epoch-based schedules read Epoch, call-based ones read Call.
type Counter struct {

	// index of the last completed epoch: -1 before the first epoch.
	Epoch int `def:"-1"`

	// index of the last call, typically one per mini-batch (trial):
	// -1 before the first call.
	Call int `def:"-1"`
}

// Defaults sets default values
func (ct *Counter) Defaults() {
	ct.Epoch = -1
	ct.Call = -1
}

// Init sets the counters to given last epoch and call indexes,
// which must be >= -1.
func (ct *Counter) Init(lastEpoch, lastCall int) error {
	if lastEpoch < -1 {
		return fmt.Errorf("%w: last epoch must be >= -1, got %d", ErrInvalidArg, lastEpoch)
	}
	if lastCall < -1 {
		return fmt.Errorf("%w: last call must be >= -1, got %d", ErrInvalidArg, lastCall)
	}
	ct.Epoch = lastEpoch
	ct.Call = lastCall
	return nil
}

// Reset resets the counters back to -1
func (ct *Counter) Reset() {
	ct.Defaults()
}

// EpochInc increments at the epoch level
func (ct *Counter) EpochInc() {
	ct.Epoch++
}

// CallInc increments at the call level
func (ct *Counter) CallInc() {
	ct.Call++
}

// Step increments the counter for the given looper time scale:
// etime.Epoch increments Epoch, and etime.Trial increments Call.
// Other time scales do not drive schedules and are ignored.
func (ct *Counter) Step(tm etime.Times) {
	switch tm {
	case etime.Epoch:
		ct.EpochInc()
	case etime.Trial:
		ct.CallInc()
	}
}
