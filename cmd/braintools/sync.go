// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/timer"
	"cogentcore.org/core/tensor"
	"github.com/emer/braintools/v2/environ"
	"github.com/emer/braintools/v2/metric"
	"github.com/spf13/cobra"
)

// SyncParams control the generated population activity.
type SyncParams struct {

	// number of time steps.
	NTime int

	// number of neurons.
	NNeurons int

	// probability of a spike per neuron per time step.
	Rate float64

	// fraction of activity driven by a common population input:
	// 0 is independent neurons, 1 fully synchronized.
	Shared float64

	// coincidence window for cross correlation, in time units.
	Bin float64

	// time step in time units: 0 uses the environment default.
	DT float64

	// oscillation frequency of the common potential, in cycles per time unit.
	Freq float64

	// random seed.
	Seed int64
}

// Defaults sets default values
func (sp *SyncParams) Defaults() {
	sp.NTime = 1000
	sp.NNeurons = 100
	sp.Rate = 0.05
	sp.Shared = 0.5
	sp.Bin = 1
	sp.Freq = 0.04
	sp.Seed = 1
}

func newSyncCmd() *cobra.Command {
	var sp SyncParams
	sp.Defaults()
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Report synchrony metrics of generated population activity",
		Long: `Generate a spike raster and membrane potentials for a population in
which a fraction of the activity is driven by a common input, and report
the cross correlation index and voltage fluctuation synchrony, along with
Loop vs. Batch timings.

Examples:
  braintools sync --neurons 200 --shared 0.8
  braintools sync --env env.toml --bin 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.OutOrStdout(), &sp)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&sp.NTime, "time", sp.NTime, "number of time steps")
	fl.IntVar(&sp.NNeurons, "neurons", sp.NNeurons, "number of neurons")
	fl.Float64Var(&sp.Rate, "rate", sp.Rate, "spike probability per neuron per step")
	fl.Float64Var(&sp.Shared, "shared", sp.Shared, "fraction of activity from common input (0-1)")
	fl.Float64Var(&sp.Bin, "bin", sp.Bin, "coincidence window for cross correlation")
	fl.Float64Var(&sp.DT, "dt", sp.DT, "time step (0 = environment default)")
	fl.Float64Var(&sp.Freq, "freq", sp.Freq, "common potential oscillation frequency")
	fl.Int64Var(&sp.Seed, "seed", sp.Seed, "random seed")
	return cmd
}

// Generate returns a (time, neuron) spike raster and membrane potential
// tensor.  Common spike events occur with probability Rate, and each
// neuron joins an event with probability Shared, otherwise it fires
// independently.  Potentials mix a common sine wave with private noise.
func (sp *SyncParams) Generate() (spikes, vm *tensor.Float64) {
	rnd := rand.New(rand.NewSource(sp.Seed))
	dt := sp.DT
	if dt <= 0 {
		dt = environ.DT()
	}
	spikes = tensor.NewFloat64([]int{sp.NTime, sp.NNeurons}, "Time", "Neuron")
	vm = tensor.NewFloat64([]int{sp.NTime, sp.NNeurons}, "Time", "Neuron")
	for t := 0; t < sp.NTime; t++ {
		event := rnd.Float64() < sp.Rate
		common := math.Sin(2 * math.Pi * sp.Freq * float64(t) * dt)
		for n := 0; n < sp.NNeurons; n++ {
			i := t*sp.NNeurons + n
			var fire bool
			if rnd.Float64() < sp.Shared {
				fire = event
			} else {
				fire = rnd.Float64() < sp.Rate
			}
			if fire {
				spikes.SetFloat1D(i, 1)
			}
			vm.SetFloat1D(i, sp.Shared*common+(1-sp.Shared)*rnd.NormFloat64())
		}
	}
	return
}

func runSync(w io.Writer, sp *SyncParams) error {
	spikes, vm := sp.Generate()
	cc, err := metric.CrossCorrelation(spikes, sp.Bin, sp.DT, metric.Auto)
	if err != nil {
		return err
	}
	vf, err := metric.VoltageFluctuation(vm, metric.Auto)
	if err != nil {
		return err
	}
	bs := errors.Log1(metric.BinSize(sp.Bin, sp.DT))
	nb := (sp.NTime + bs - 1) / max(bs, 1)
	mem := metric.BatchMemory(sp.NNeurons, nb)
	if mem > environ.MaxBatchMem() {
		log.Printf("braintools: Batch memory %s exceeds limit %s, Auto uses Loop\n", mem.HumanReadable(), environ.MaxBatchMem().HumanReadable())
	}
	fmt.Fprintf(w, "Neurons: %d  Time: %d  Shared: %g  Batch mem: %s\n", sp.NNeurons, sp.NTime, sp.Shared, mem.HumanReadable())
	fmt.Fprintf(w, "\t%22s\t%10.6g\n", "CrossCorrelation", cc)
	fmt.Fprintf(w, "\t%22s\t%10.6g\n", "VoltageFluctuation", vf)

	ccFun := func(mt metric.Methods) error {
		_, err := metric.CrossCorrelation(spikes, sp.Bin, sp.DT, mt)
		return err
	}
	vfFun := func(mt metric.Methods) error {
		_, err := metric.VoltageFluctuation(vm, mt)
		return err
	}
	fmt.Fprintf(w, "\n\t%22s\t%7s\t%7s\n", "Function", "Loop", "Batch")
	fmt.Fprintf(w, "\t%22s\t%7.3f\t%7.3f\n", "CrossCorrelation", timeMethod(ccFun, metric.Loop), timeMethod(ccFun, metric.Batch))
	fmt.Fprintf(w, "\t%22s\t%7.3f\t%7.3f\n", "VoltageFluctuation", timeMethod(vfFun, metric.Loop), timeMethod(vfFun, metric.Batch))
	return nil
}

// timeMethod returns the seconds taken by fun with the given method.
func timeMethod(fun func(mt metric.Methods) error, mt metric.Methods) float64 {
	var tm timer.Time
	tm.Start()
	errors.Log(fun(mt))
	tm.Stop()
	return tm.Total.Seconds()
}
