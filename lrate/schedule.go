// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lrate provides learning rate schedules for gradient-based learning.

A Schedule combines a base learning rate, a Rule holding the immutable
parameters of one schedule kind (Step, MultiStep, CosineAnnealing, ...),
and a Counter of completed epochs and calls.  Rate(i) evaluates the rule
at an explicit step, and Next() at the step after the last one counted:
the epoch counter for epoch-based kinds, the call counter for call-based
kinds (see Kinds.CallBased).

The counters only change via EpochInc, CallInc or Step, so evaluating
a schedule never changes it.  Apply feeds the current rate into a network
through its LrateMult method.

Rates are float32, the type of network learning rates and of LrateMult,
and do not depend on environ.Precision.
*/
package lrate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/emer/emergent/v2/etime"
)

// ErrInvalidArg is returned for out-of-range schedule parameters.
var ErrInvalidArg = errors.New("lrate: invalid argument")

// LrateMulter is implemented by networks that scale their initial
// learning rates by a multiplier, as in leabra.Network.LrateMult.
type LrateMulter interface {
	LrateMult(mult float32)
}

// Schedule is a learning rate schedule.
type Schedule struct {

	// base learning rate, used when BaseRef is nil.
	Base float32

	// optional external cell holding the base learning rate,
	// which can then be changed outside the schedule.
	BaseRef *float32

	// parameters of the schedule kind.
	Rule Rule

	// epoch and call counters.
	Counter Counter
}

// New returns a new schedule with given base rate and rule, after
// validating the rule.  The counters start at -1.
func New(lr float32, rule Rule) (*Schedule, error) {
	if rule == nil {
		return nil, fmt.Errorf("%w: nil schedule rule", ErrInvalidArg)
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	sc := &Schedule{Base: lr, Rule: rule}
	sc.Counter.Defaults()
	return sc, nil
}

// NewConstant returns a Constant schedule.
func NewConstant(lr float32) *Schedule {
	sc, _ := New(lr, &ConstantParams{})
	return sc
}

// NewStep returns a Step schedule: lr * gamma^floor(epoch / stepSize).
func NewStep(lr float32, stepSize int, gamma float32) (*Schedule, error) {
	return New(lr, &StepParams{StepSize: stepSize, Gamma: gamma})
}

// NewMultiStep returns a MultiStep schedule decaying by gamma at
// each of the strictly increasing milestone epochs.
// The milestones are copied.
func NewMultiStep(lr float32, milestones []int, gamma float32) (*Schedule, error) {
	return New(lr, &MultiStepParams{Milestones: slices.Clone(milestones), Gamma: gamma})
}

// NewCosineAnnealing returns a CosineAnnealing schedule.
func NewCosineAnnealing(lr float32, tMax int, etaMin float32) (*Schedule, error) {
	return New(lr, &CosineAnnealingParams{TMax: tMax, EtaMin: etaMin})
}

// NewWarmRestarts returns a CosineAnnealingWarmRestarts schedule.
func NewWarmRestarts(lr float32, callsPerEpoch, t0, tMult int, etaMin float32) (*Schedule, error) {
	return New(lr, &WarmRestartsParams{CallsPerEpoch: callsPerEpoch, T0: t0, TMult: tMult, EtaMin: etaMin})
}

// NewExponential returns an Exponential schedule: lr * gamma^epoch.
func NewExponential(lr float32, gamma float32) (*Schedule, error) {
	return New(lr, &ExponentialParams{Gamma: gamma})
}

// NewExponentialDecay returns an ExponentialDecay schedule.
func NewExponentialDecay(lr float32, decaySteps int, decayRate float32) (*Schedule, error) {
	return New(lr, &ExpDecayParams{DecaySteps: decaySteps, DecayRate: decayRate})
}

// NewInverseTimeDecay returns an InverseTimeDecay schedule.
func NewInverseTimeDecay(lr float32, decaySteps int, decayRate float32, staircase bool) (*Schedule, error) {
	return New(lr, &InvTimeDecayParams{DecaySteps: decaySteps, DecayRate: decayRate, Staircase: staircase})
}

// NewPolynomialDecay returns a PolynomialDecay schedule.
func NewPolynomialDecay(lr float32, decaySteps int, finalLr, power float32) (*Schedule, error) {
	return New(lr, &PolyDecayParams{DecaySteps: decaySteps, FinalLr: finalLr, Power: power})
}

// NewPiecewiseConstant returns a PiecewiseConstant schedule, with a base rate of 0.
// The boundaries and values are copied.
func NewPiecewiseConstant(boundaries []int, values []float32) (*Schedule, error) {
	return New(0, &PiecewiseParams{Boundaries: slices.Clone(boundaries), Values: slices.Clone(values)})
}

// MakeSchedule returns v if it is a *Schedule, and otherwise a Constant
// schedule for a scalar rate (float32, float64, int) or an external
// *float32 rate cell.
func MakeSchedule(v any) (*Schedule, error) {
	switch x := v.(type) {
	case *Schedule:
		if x == nil {
			return nil, fmt.Errorf("%w: nil schedule", ErrInvalidArg)
		}
		return x, nil
	case float32:
		return NewConstant(x), nil
	case float64:
		return NewConstant(float32(x)), nil
	case int:
		return NewConstant(float32(x)), nil
	case *float32:
		if x == nil {
			return nil, fmt.Errorf("%w: nil learning rate cell", ErrInvalidArg)
		}
		sc := NewConstant(*x)
		sc.BaseRef = x
		return sc, nil
	}
	return nil, fmt.Errorf("%w: cannot make a schedule from %T", ErrInvalidArg, v)
}

// Kind returns the schedule kind.
func (sc *Schedule) Kind() Kinds {
	return sc.Rule.Kind()
}

// LR returns the current base learning rate.
func (sc *Schedule) LR() float32 {
	if sc.BaseRef != nil {
		return *sc.BaseRef
	}
	return sc.Base
}

// SetLR sets the base learning rate, in the external cell if present.
func (sc *Schedule) SetLR(lr float32) {
	if sc.BaseRef != nil {
		*sc.BaseRef = lr
		return
	}
	sc.Base = lr
}

// SetBaseRef sets an external cell to hold the base learning rate.
func (sc *Schedule) SetBaseRef(ref *float32) {
	sc.BaseRef = ref
}

// Init sets the counters to the given last epoch and call, which
// must be >= -1.  Use -1 to start from the beginning.
func (sc *Schedule) Init(lastEpoch, lastCall int) error {
	return sc.Counter.Init(lastEpoch, lastCall)
}

// Rate returns the learning rate at step i.
func (sc *Schedule) Rate(i int) float32 {
	return sc.Rule.Rate(sc.LR(), i)
}

// NextStep returns the step evaluated by Next: one past the last
// counted epoch, or call for call-based kinds.
func (sc *Schedule) NextStep() int {
	if sc.Kind().CallBased() {
		return sc.Counter.Call + 1
	}
	return sc.Counter.Epoch + 1
}

// Next returns the learning rate at NextStep.
func (sc *Schedule) Next() float32 {
	return sc.Rate(sc.NextStep())
}

// EpochInc increments the epoch counter.
// Call once at the end of every epoch.
func (sc *Schedule) EpochInc() {
	sc.Counter.EpochInc()
}

// CallInc increments the call counter.
// Call once after every mini-batch.
func (sc *Schedule) CallInc() {
	sc.Counter.CallInc()
}

// Step increments the counter driven by the given looper time scale:
// etime.Epoch or etime.Trial.
func (sc *Schedule) Step(tm etime.Times) {
	sc.Counter.Step(tm)
}

// Mult returns Next relative to the base rate, for scaling a network's
// initial learning rate.  With a zero base rate (PiecewiseConstant),
// the rate itself is the multiplier.
func (sc *Schedule) Mult() float32 {
	r := sc.Next()
	lr := sc.LR()
	if lr == 0 {
		return r
	}
	return r / lr
}

// Apply sets the learning rate multiplier of net to Mult.
func (sc *Schedule) Apply(net LrateMulter) {
	net.LrateMult(sc.Mult())
}

func (sc *Schedule) String() string {
	ctr := fmt.Sprintf("last_epoch=%d", sc.Counter.Epoch)
	if sc.Kind().CallBased() {
		ctr += fmt.Sprintf(", last_call=%d", sc.Counter.Call)
	}
	prm := sc.Rule.String()
	if prm != "" {
		prm = ", " + prm
	}
	return fmt.Sprintf("%vLR(lr=%v, %s%s)", sc.Kind(), sc.LR(), ctr, prm)
}
