// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/emer/braintools/v2/lrate"
	"github.com/emer/emergent/v2/etime"
	"github.com/spf13/cobra"
)

func newLrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lr",
		Short: "Tabulate a learning rate schedule",
		Long: `Tabulate the learning rate of a schedule over a number of steps.

Steps are epochs for epoch-based kinds and calls for call-based kinds.
The schedule is read from a TOML or YAML file with --config, or built
from flags.

Examples:
  braintools lr --kind Step --lr 1 --step-size 10 --gamma 0.5 --steps 30
  braintools lr --kind PiecewiseConstant --boundaries 10,20 --values 0.1,0.01,0.001
  braintools lr --config sched.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := lrConfig(cmd)
			if err != nil {
				return err
			}
			sc, err := cf.Build()
			if err != nil {
				return err
			}
			steps, _ := cmd.Flags().GetInt("steps")
			return writeRates(cmd.OutOrStdout(), sc, steps)
		},
	}
	cmd.Flags().String("config", "", "schedule file (.toml or .yaml)")
	cmd.Flags().Int("steps", 20, "number of steps to tabulate")
	cmd.Flags().String("kind", "Constant", "schedule kind, e.g., Step or StepLR")
	cmd.Flags().Float32("lr", 0.1, "base learning rate")
	cmd.Flags().Int("step-size", 10, "Step: period of decay in epochs")
	cmd.Flags().Float32("gamma", 0.1, "multiplicative decay factor")
	cmd.Flags().IntSlice("milestones", nil, "MultiStep: decay epochs")
	cmd.Flags().Int("t-max", 10, "CosineAnnealing: half period in epochs")
	cmd.Flags().Float32("eta-min", 0, "minimum rate for cosine kinds")
	cmd.Flags().Int("calls-per-epoch", 1, "CosineAnnealingWarmRestarts: calls per epoch")
	cmd.Flags().Int("t0", 10, "CosineAnnealingWarmRestarts: first period in epochs")
	cmd.Flags().Int("t-mult", 1, "CosineAnnealingWarmRestarts: period growth factor")
	cmd.Flags().Int("decay-steps", 10, "decay period in calls")
	cmd.Flags().Float32("decay-rate", 0.5, "decay rate")
	cmd.Flags().Bool("staircase", false, "InverseTimeDecay: decay in discrete steps")
	cmd.Flags().Float32("final-lr", 0, "PolynomialDecay: final rate")
	cmd.Flags().Float32("power", 1, "PolynomialDecay: polynomial power")
	cmd.Flags().IntSlice("boundaries", nil, "PiecewiseConstant: call boundaries")
	cmd.Flags().Float32Slice("values", nil, "PiecewiseConstant: rate on each interval")
	return cmd
}

// lrConfig returns the config from the --config file if given,
// and otherwise from the schedule flags.
func lrConfig(cmd *cobra.Command) (*lrate.Config, error) {
	fl := cmd.Flags()
	if fn, _ := fl.GetString("config"); fn != "" {
		return lrate.OpenConfig(fn)
	}
	cf := &lrate.Config{}
	cf.Defaults()
	cf.Kind, _ = fl.GetString("kind")
	cf.Lr, _ = fl.GetFloat32("lr")
	cf.StepSize, _ = fl.GetInt("step-size")
	cf.Gamma, _ = fl.GetFloat32("gamma")
	cf.Milestones, _ = fl.GetIntSlice("milestones")
	cf.TMax, _ = fl.GetInt("t-max")
	cf.EtaMin, _ = fl.GetFloat32("eta-min")
	cf.CallsPerEpoch, _ = fl.GetInt("calls-per-epoch")
	cf.T0, _ = fl.GetInt("t0")
	cf.TMult, _ = fl.GetInt("t-mult")
	cf.DecaySteps, _ = fl.GetInt("decay-steps")
	cf.DecayRate, _ = fl.GetFloat32("decay-rate")
	cf.Staircase, _ = fl.GetBool("staircase")
	cf.FinalLr, _ = fl.GetFloat32("final-lr")
	cf.Power, _ = fl.GetFloat32("power")
	cf.Boundaries, _ = fl.GetIntSlice("boundaries")
	cf.Values, _ = fl.GetFloat32Slice("values")
	return cf, nil
}

// writeRates writes the rate at each of the next n steps, advancing the
// schedule counter the way a training loop would.
func writeRates(w io.Writer, sc *lrate.Schedule, n int) error {
	tm := etime.Epoch
	unit := "Epoch"
	if sc.Kind().CallBased() {
		tm = etime.Trial
		unit = "Call"
	}
	if _, err := fmt.Fprintf(w, "%v\n\t%5s\t%10s\n", sc, unit, "Lrate"); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := fmt.Fprintf(w, "\t%5d\t%10.6g\n", sc.NextStep(), sc.Next()); err != nil {
			return err
		}
		sc.Step(tm)
	}
	return nil
}
