// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lrate

import (
	"fmt"
	"slices"

	"github.com/emer/braintools/v2/environ"
)

// Config is a flat, file-friendly description of any schedule.
// Only the fields used by Kind matter.
type Config struct {

	// schedule kind name, e.g., "Step" or "StepLR".
	Kind string `toml:"kind" yaml:"kind"`

	// initial (base) learning rate.
	Lr float32 `def:"0.1" toml:"lr" yaml:"lr"`

	// index of the last epoch already run.
	LastEpoch int `def:"-1" toml:"last_epoch" yaml:"last_epoch"`

	// index of the last call already run.
	LastCall int `def:"-1" toml:"last_call" yaml:"last_call"`

	// Step: period of decay in epochs.
	StepSize int `toml:"step_size" yaml:"step_size"`

	// Step, MultiStep, Exponential: multiplicative decay factor.
	Gamma float32 `def:"0.1" toml:"gamma" yaml:"gamma"`

	// MultiStep: strictly increasing decay epochs.
	Milestones []int `toml:"milestones" yaml:"milestones"`

	// CosineAnnealing: half period in epochs.
	TMax int `toml:"t_max" yaml:"t_max"`

	// CosineAnnealing, CosineAnnealingWarmRestarts: minimum rate.
	EtaMin float32 `toml:"eta_min" yaml:"eta_min"`

	// CosineAnnealingWarmRestarts: calls per epoch.
	CallsPerEpoch int `toml:"calls_per_epoch" yaml:"calls_per_epoch"`

	// CosineAnnealingWarmRestarts: first period in epochs.
	T0 int `toml:"t_0" yaml:"t_0"`

	// CosineAnnealingWarmRestarts: period growth factor.
	TMult int `def:"1" toml:"t_mult" yaml:"t_mult"`

	// ExponentialDecay, InverseTimeDecay, PolynomialDecay: decay period in calls.
	DecaySteps int `toml:"decay_steps" yaml:"decay_steps"`

	// ExponentialDecay, InverseTimeDecay: decay rate.
	DecayRate float32 `toml:"decay_rate" yaml:"decay_rate"`

	// InverseTimeDecay: decay in discrete steps.
	Staircase bool `toml:"staircase" yaml:"staircase"`

	// PolynomialDecay: final learning rate.
	FinalLr float32 `toml:"final_lr" yaml:"final_lr"`

	// PolynomialDecay: polynomial power.
	Power float32 `def:"1" toml:"power" yaml:"power"`

	// PiecewiseConstant: call boundaries.
	Boundaries []int `toml:"boundaries" yaml:"boundaries"`

	// PiecewiseConstant: rate on each interval.
	Values []float32 `toml:"values" yaml:"values"`
}

// Defaults sets default values
func (cf *Config) Defaults() {
	cf.Kind = "Constant"
	cf.Lr = 0.1
	cf.LastEpoch = -1
	cf.LastCall = -1
	cf.Gamma = 0.1
	cf.TMult = 1
	cf.Power = 1
}

// Rule returns the rule for the configured kind, not yet validated.
func (cf *Config) Rule() (Rule, error) {
	var kind Kinds
	if err := kind.SetString(cf.Kind); err != nil {
		return nil, err
	}
	switch kind {
	case Constant:
		return &ConstantParams{}, nil
	case Step:
		return &StepParams{StepSize: cf.StepSize, Gamma: cf.Gamma}, nil
	case MultiStep:
		return &MultiStepParams{Milestones: slices.Clone(cf.Milestones), Gamma: cf.Gamma}, nil
	case CosineAnnealing:
		return &CosineAnnealingParams{TMax: cf.TMax, EtaMin: cf.EtaMin}, nil
	case CosineAnnealingWarmRestarts:
		return &WarmRestartsParams{CallsPerEpoch: cf.CallsPerEpoch, T0: cf.T0, TMult: cf.TMult, EtaMin: cf.EtaMin}, nil
	case Exponential:
		return &ExponentialParams{Gamma: cf.Gamma}, nil
	case ExponentialDecay:
		return &ExpDecayParams{DecaySteps: cf.DecaySteps, DecayRate: cf.DecayRate}, nil
	case InverseTimeDecay:
		return &InvTimeDecayParams{DecaySteps: cf.DecaySteps, DecayRate: cf.DecayRate, Staircase: cf.Staircase}, nil
	case PolynomialDecay:
		return &PolyDecayParams{DecaySteps: cf.DecaySteps, FinalLr: cf.FinalLr, Power: cf.Power}, nil
	case PiecewiseConstant:
		return &PiecewiseParams{Boundaries: slices.Clone(cf.Boundaries), Values: slices.Clone(cf.Values)}, nil
	}
	return nil, fmt.Errorf("%w: schedule kind %v not supported", ErrInvalidArg, kind)
}

// Build returns a validated schedule with counters set
// to LastEpoch and LastCall.
func (cf *Config) Build() (*Schedule, error) {
	rule, err := cf.Rule()
	if err != nil {
		return nil, err
	}
	lr := cf.Lr
	if rule.Kind() == PiecewiseConstant {
		lr = 0
	}
	sc, err := New(lr, rule)
	if err != nil {
		return nil, err
	}
	if err := sc.Init(cf.LastEpoch, cf.LastCall); err != nil {
		return nil, err
	}
	return sc, nil
}

// OpenConfig loads a Config from a TOML or YAML file, starting from
// default values.
func OpenConfig(filename string) (*Config, error) {
	cf := &Config{}
	cf.Defaults()
	if err := environ.Decode(filename, cf); err != nil {
		return nil, err
	}
	return cf, nil
}
