// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lrate

import (
	"fmt"
	"strings"
)

// Kinds enumerates the learning rate schedules.
type Kinds int32

// The schedule kinds
const (
	// Constant keeps the base rate.
	Constant Kinds = iota

	// Step decays the rate by Gamma every StepSize epochs.
	Step

	// MultiStep decays the rate by Gamma at each milestone epoch.
	MultiStep

	// CosineAnnealing follows a half cosine from the base rate
	// down to EtaMin over TMax epochs.
	CosineAnnealing

	// CosineAnnealingWarmRestarts repeats cosine annealing with
	// restarts, periods growing by TMult.  Call based.
	CosineAnnealingWarmRestarts

	// Exponential decays the rate by Gamma every epoch.
	Exponential

	// ExponentialDecay decays the rate continuously by DecayRate
	// every DecaySteps calls.  Call based.
	ExponentialDecay

	// InverseTimeDecay divides the rate by 1 + DecayRate * t.
	// Call based.
	InverseTimeDecay

	// PolynomialDecay decays polynomially to FinalLr over
	// DecaySteps calls.  Call based.
	PolynomialDecay

	// PiecewiseConstant takes Values on intervals separated by
	// Boundaries.  Call based.
	PiecewiseConstant

	KindsN
)

var kindNames = [...]string{
	"Constant", "Step", "MultiStep", "CosineAnnealing", "CosineAnnealingWarmRestarts",
	"Exponential", "ExponentialDecay", "InverseTimeDecay", "PolynomialDecay", "PiecewiseConstant",
}

func (k Kinds) String() string {
	if k < 0 || k >= KindsN {
		return fmt.Sprintf("Kinds(%d)", int32(k))
	}
	return kindNames[k]
}

// SetString sets the kind from its name, ignoring case and
// an optional "LR" suffix (e.g., "StepLR").
func (k *Kinds) SetString(s string) error {
	nm := strings.TrimSuffix(strings.ToLower(s), "lr")
	for i, kn := range kindNames {
		if strings.ToLower(kn) == nm {
			*k = Kinds(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown schedule kind %q", ErrInvalidArg, s)
}

// CallBased returns true for kinds whose default step is the
// call counter rather than the epoch counter.
func (k Kinds) CallBased() bool {
	switch k {
	case CosineAnnealingWarmRestarts, ExponentialDecay, InverseTimeDecay, PolynomialDecay, PiecewiseConstant:
		return true
	}
	return false
}
