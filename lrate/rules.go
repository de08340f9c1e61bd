// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lrate

import (
	"fmt"
	"sort"
	"strings"

	"cogentcore.org/core/math32"
)

// Rule is the parameter set of one schedule kind, mapping a step index
// to a learning rate.  Rules are immutable once validated, and Rate
// is a pure function of the parameters, base rate and step.
type Rule interface {

	// Kind returns the schedule kind of this rule.
	Kind() Kinds

	// Validate returns an error wrapping ErrInvalidArg
	// if the parameters are out of range.
	Validate() error

	// Rate returns the learning rate at step i given base rate.
	Rate(base float32, i int) float32

	// String renders the parameters as "name=value" pairs.
	String() string
}

// floorDiv returns floor(a / b) for b > 0.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func checkGamma(gamma float32) error {
	if !(gamma >= 0 && gamma <= 1) {
		return fmt.Errorf("%w: gamma must be in [0, 1], got %v", ErrInvalidArg, gamma)
	}
	return nil
}

func checkDecaySteps(steps int) error {
	if steps < 1 {
		return fmt.Errorf("%w: decay steps must be >= 1, got %d", ErrInvalidArg, steps)
	}
	return nil
}

// cosine returns the rate at position cur of a half cosine period
// of length per, from base down to etaMin.
func cosine(base, etaMin float32, cur, per int) float32 {
	return etaMin + (base-etaMin)*(1+math32.Cos(math32.Pi*float32(cur)/float32(per)))/2
}

//////////////////////////////////////////////////////////////////////////////
//  Epoch based

// ConstantParams has no parameters: the rate is always the base rate.
type ConstantParams struct{}

// Kind returns Constant.
func (cp *ConstantParams) Kind() Kinds { return Constant }

// Validate always succeeds.
func (cp *ConstantParams) Validate() error { return nil }

// Rate returns base at every step.
func (cp *ConstantParams) Rate(base float32, i int) float32 { return base }

// String is empty: there are no parameters.
func (cp *ConstantParams) String() string { return "" }

// StepParams decays the rate by Gamma every StepSize epochs:
// base * Gamma^floor(i / StepSize).
type StepParams struct {

	// period of learning rate decay, in epochs.
	StepSize int `min:"1"`

	// multiplicative factor of learning rate decay.
	Gamma float32 `def:"0.1" min:"0" max:"1"`
}

// Defaults sets default values
func (sp *StepParams) Defaults() {
	sp.Gamma = 0.1
}

// Kind returns Step.
func (sp *StepParams) Kind() Kinds { return Step }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (sp *StepParams) Validate() error {
	if sp.StepSize < 1 {
		return fmt.Errorf("%w: step size must be >= 1, got %d", ErrInvalidArg, sp.StepSize)
	}
	return checkGamma(sp.Gamma)
}

// Rate returns the rate at epoch i.
func (sp *StepParams) Rate(base float32, i int) float32 {
	return base * math32.Pow(sp.Gamma, float32(floorDiv(i, sp.StepSize)))
}

// String renders the parameters as "name=value" pairs.
func (sp *StepParams) String() string {
	return fmt.Sprintf("gamma=%v, step_size=%d", sp.Gamma, sp.StepSize)
}

// MultiStepParams decays the rate by Gamma once the epoch reaches each
// of the Milestones: base * Gamma^k, with k the number of milestones <= i.
type MultiStepParams struct {

	// epoch indexes at which to decay, strictly increasing.
	Milestones []int

	// multiplicative factor of learning rate decay.
	Gamma float32 `def:"0.1" min:"0" max:"1"`
}

// Defaults sets default values
func (mp *MultiStepParams) Defaults() {
	mp.Gamma = 0.1
}

// Kind returns MultiStep.
func (mp *MultiStepParams) Kind() Kinds { return MultiStep }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (mp *MultiStepParams) Validate() error {
	if len(mp.Milestones) == 0 {
		return fmt.Errorf("%w: milestones must not be empty", ErrInvalidArg)
	}
	for i := 1; i < len(mp.Milestones); i++ {
		if mp.Milestones[i] <= mp.Milestones[i-1] {
			return fmt.Errorf("%w: milestones must be strictly increasing, got %v", ErrInvalidArg, mp.Milestones)
		}
	}
	return checkGamma(mp.Gamma)
}

// Rate returns the rate at epoch i.
func (mp *MultiStepParams) Rate(base float32, i int) float32 {
	k := sort.SearchInts(mp.Milestones, i+1)
	return base * math32.Pow(mp.Gamma, float32(k))
}

// String renders the parameters as "name=value" pairs.
func (mp *MultiStepParams) String() string {
	return fmt.Sprintf("milestones=%v, gamma=%v", mp.Milestones, mp.Gamma)
}

// CosineAnnealingParams anneals the rate along a half cosine from the
// base rate at epoch 0 to EtaMin at epoch TMax, as in SGDR without
// restarts (Loshchilov & Hutter, 2016).  Beyond TMax the cosine
// continues, rising back toward the base rate.
type CosineAnnealingParams struct {

	// maximum number of epochs: half period of the cosine.
	TMax int `min:"1"`

	// minimum learning rate.
	EtaMin float32 `def:"0"`
}

// Kind returns CosineAnnealing.
func (cp *CosineAnnealingParams) Kind() Kinds { return CosineAnnealing }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (cp *CosineAnnealingParams) Validate() error {
	if cp.TMax < 1 {
		return fmt.Errorf("%w: T_max must be >= 1, got %d", ErrInvalidArg, cp.TMax)
	}
	return nil
}

// Rate returns the rate at epoch i.
func (cp *CosineAnnealingParams) Rate(base float32, i int) float32 {
	return cosine(base, cp.EtaMin, i, cp.TMax)
}

// String renders the parameters as "name=value" pairs.
func (cp *CosineAnnealingParams) String() string {
	return fmt.Sprintf("T_max=%d, eta_min=%v", cp.TMax, cp.EtaMin)
}

// ExponentialParams decays the rate by Gamma every epoch: base * Gamma^i.
type ExponentialParams struct {

	// multiplicative factor of learning rate decay.
	Gamma float32 `min:"0" max:"1"`
}

// Kind returns Exponential.
func (ep *ExponentialParams) Kind() Kinds { return Exponential }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (ep *ExponentialParams) Validate() error { return checkGamma(ep.Gamma) }

// Rate returns the rate at epoch i.
func (ep *ExponentialParams) Rate(base float32, i int) float32 {
	return base * math32.Pow(ep.Gamma, float32(i))
}

// String renders the parameters as "name=value" pairs.
func (ep *ExponentialParams) String() string {
	return fmt.Sprintf("gamma=%v", ep.Gamma)
}

//////////////////////////////////////////////////////////////////////////////
//  Call based

// WarmRestartsParams anneals the rate along a cosine that restarts at
// the base rate after TCur reaches the current period Ti (SGDR,
// Loshchilov & Hutter, 2016).  The first period is T0 epochs and each
// following period is TMult times longer.  Steps are calls, converted
// to epochs by CallsPerEpoch.
type WarmRestartsParams struct {

	// number of calls (mini-batches) per epoch.
	CallsPerEpoch int `min:"1"`

	// number of epochs in the first period, before the first restart.
	T0 int `min:"1"`

	// factor by which each period grows after a restart.
	TMult int `def:"1" min:"1"`

	// minimum learning rate.
	EtaMin float32 `def:"0"`
}

// Defaults sets default values
func (wp *WarmRestartsParams) Defaults() {
	wp.TMult = 1
}

// Kind returns CosineAnnealingWarmRestarts.
func (wp *WarmRestartsParams) Kind() Kinds { return CosineAnnealingWarmRestarts }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (wp *WarmRestartsParams) Validate() error {
	if wp.CallsPerEpoch < 1 {
		return fmt.Errorf("%w: calls per epoch must be >= 1, got %d", ErrInvalidArg, wp.CallsPerEpoch)
	}
	if wp.T0 <= 0 {
		return fmt.Errorf("%w: expected positive integer T_0, got %d", ErrInvalidArg, wp.T0)
	}
	if wp.TMult < 1 {
		return fmt.Errorf("%w: expected integer T_mult >= 1, got %d", ErrInvalidArg, wp.TMult)
	}
	return nil
}

// Epoch returns the epoch containing call i.
func (wp *WarmRestartsParams) Epoch(i int) int {
	return floorDiv(i, wp.CallsPerEpoch)
}

// Period returns the position tCur within the current restart period,
// and the length ti of that period, for the given epoch.
func (wp *WarmRestartsParams) Period(epoch int) (tCur, ti int) {
	if epoch < wp.T0 {
		return epoch, wp.T0
	}
	if wp.TMult == 1 {
		return epoch % wp.T0, wp.T0
	}
	// walk the geometric series of period lengths T0 * TMult^n
	tCur, ti = epoch, wp.T0
	for tCur >= ti {
		tCur -= ti
		ti *= wp.TMult
	}
	return tCur, ti
}

// Rate returns the rate at call i, restarting at base each period.
func (wp *WarmRestartsParams) Rate(base float32, i int) float32 {
	tCur, ti := wp.Period(wp.Epoch(i))
	return cosine(base, wp.EtaMin, tCur, ti)
}

// String renders the parameters as "name=value" pairs.
func (wp *WarmRestartsParams) String() string {
	return fmt.Sprintf("T_0=%d, T_mult=%d, eta_min=%v", wp.T0, wp.TMult, wp.EtaMin)
}

// ExpDecayParams decays the rate continuously:
// base * DecayRate^(i / DecaySteps).
type ExpDecayParams struct {

	// number of calls over which the rate decays by DecayRate.
	DecaySteps int `min:"1"`

	// decay factor per DecaySteps calls.
	DecayRate float32
}

// Kind returns ExponentialDecay.
func (ep *ExpDecayParams) Kind() Kinds { return ExponentialDecay }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (ep *ExpDecayParams) Validate() error { return checkDecaySteps(ep.DecaySteps) }

// Rate returns the rate at call i.
func (ep *ExpDecayParams) Rate(base float32, i int) float32 {
	return base * math32.Pow(ep.DecayRate, float32(i)/float32(ep.DecaySteps))
}

// String renders the parameters as "name=value" pairs.
func (ep *ExpDecayParams) String() string {
	return fmt.Sprintf("decay_steps=%d, decay_rate=%v", ep.DecaySteps, ep.DecayRate)
}

// InvTimeDecayParams divides the rate by 1 + DecayRate * i / DecaySteps,
// or with Staircase by 1 + DecayRate * floor(i / DecaySteps).
type InvTimeDecayParams struct {

	// number of calls per unit of decay time.
	DecaySteps int `min:"1"`

	// decay rate per unit of decay time.
	DecayRate float32

	// decay in discrete steps of DecaySteps calls.
	Staircase bool
}

// Kind returns InverseTimeDecay.
func (ip *InvTimeDecayParams) Kind() Kinds { return InverseTimeDecay }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (ip *InvTimeDecayParams) Validate() error { return checkDecaySteps(ip.DecaySteps) }

// Rate returns the rate at call i.
func (ip *InvTimeDecayParams) Rate(base float32, i int) float32 {
	if ip.Staircase {
		return base / (1 + ip.DecayRate*float32(floorDiv(i, ip.DecaySteps)))
	}
	return base / (1 + ip.DecayRate*float32(i)/float32(ip.DecaySteps))
}

// String renders the parameters as "name=value" pairs.
func (ip *InvTimeDecayParams) String() string {
	return fmt.Sprintf("decay_steps=%d, decay_rate=%v, staircase=%v", ip.DecaySteps, ip.DecayRate, ip.Staircase)
}

// PolyDecayParams decays the rate polynomially from base to FinalLr
// over DecaySteps calls, then holds FinalLr:
// (1 - min(i, DecaySteps) / DecaySteps)^Power * (base - FinalLr) + FinalLr.
type PolyDecayParams struct {

	// number of calls to reach FinalLr.
	DecaySteps int `min:"1"`

	// final learning rate.
	FinalLr float32

	// power of the polynomial.
	Power float32 `def:"1"`
}

// Defaults sets default values
func (pp *PolyDecayParams) Defaults() {
	pp.Power = 1
}

// Kind returns PolynomialDecay.
func (pp *PolyDecayParams) Kind() Kinds { return PolynomialDecay }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (pp *PolyDecayParams) Validate() error { return checkDecaySteps(pp.DecaySteps) }

// Rate returns the rate at call i, FinalLr beyond DecaySteps.
func (pp *PolyDecayParams) Rate(base float32, i int) float32 {
	i = min(i, pp.DecaySteps)
	mult := math32.Pow(1-float32(i)/float32(pp.DecaySteps), pp.Power)
	return mult*(base-pp.FinalLr) + pp.FinalLr
}

// String renders the parameters as "name=value" pairs.
func (pp *PolyDecayParams) String() string {
	return fmt.Sprintf("decay_steps=%d, final_lr=%v, power=%v", pp.DecaySteps, pp.FinalLr, pp.Power)
}

// PiecewiseParams takes Values[k] where k is the number of Boundaries
// strictly below step i.  The base rate is not used.
type PiecewiseParams struct {

	// call indexes separating the intervals.
	Boundaries []int

	// rate on each interval: one more than Boundaries.
	Values []float32
}

// Kind returns PiecewiseConstant.
func (pp *PiecewiseParams) Kind() Kinds { return PiecewiseConstant }

// Validate returns an error wrapping ErrInvalidArg for out of range parameters.
func (pp *PiecewiseParams) Validate() error {
	if len(pp.Values) == 0 {
		return fmt.Errorf("%w: values must not be empty", ErrInvalidArg)
	}
	if len(pp.Boundaries) != len(pp.Values)-1 {
		return fmt.Errorf("%w: boundaries length (%d) must be one shorter than values length (%d)", ErrInvalidArg, len(pp.Boundaries), len(pp.Values))
	}
	return nil
}

// Rate returns the value of the interval containing call i.
func (pp *PiecewiseParams) Rate(base float32, i int) float32 {
	k := 0
	for _, b := range pp.Boundaries {
		if i > b {
			k++
		}
	}
	return pp.Values[k]
}

// String renders the parameters as "name=value" pairs.
func (pp *PiecewiseParams) String() string {
	vs := make([]string, len(pp.Values))
	for i, v := range pp.Values {
		vs[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("boundaries=%v, values=[%s]", pp.Boundaries, strings.Join(vs, " "))
}
