// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"runtime"
	"sync"

	"cogentcore.org/core/tensor"
	"github.com/emer/braintools/v2/environ"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// VoltageFluctuation computes the synchrony of a neuron group from the
// variance of its population-averaged membrane potential.  potentials is
// a (time, neuron) tensor.  With V(t) the population average at each time,
// sigma_V^2 its variance over time, and sigma_i^2 the variance of each
// neuron's own potential, the synchrony measure is
//
//	chi^2 = sigma_V^2 / mean_i(sigma_i^2)
//
// which is 1 for a fully synchronized group.  When every neuron has zero
// variance the result is defined as 1.
//
// Golomb, D. & Rinzel, J. (1993) Dynamics of globally coupled inhibitory
// neurons with heterogeneity. Phys Rev E 48, 4810-4814.
func VoltageFluctuation(potentials tensor.Tensor, method Methods) (float64, error) {
	if err := method.validate(); err != nil {
		return 0, err
	}
	vm, err := Dense(potentials, "potentials")
	if err != nil {
		return 0, err
	}
	nt, nn := vm.Dims()
	avg := make([]float64, nt)
	for t := range avg {
		avg[t] = floats.Sum(vm.RawRowView(t)) / float64(nn)
	}
	avgVar := stat.PopVariance(avg, nil)

	if method == Auto {
		method = Loop
		if nn >= 2*runtime.GOMAXPROCS(0) {
			method = Batch
		}
	}
	vars := make([]float64, nn)
	if method == Batch {
		neuronVarsThr(vm, vars)
	} else {
		neuronVars(vm, vars, 0, nn)
	}
	varMean := stat.Mean(vars, nil)
	if varMean == 0 {
		return 1, nil
	}
	return environ.Float(avgVar / varMean), nil
}

// neuronVars computes the variance over time of neurons [st, ed).
func neuronVars(vm *mat.Dense, vars []float64, st, ed int) {
	nt, _ := vm.Dims()
	col := make([]float64, nt)
	for n := st; n < ed; n++ {
		mat.Col(col, n, vm)
		vars[n] = stat.PopVariance(col, nil)
	}
}

// neuronVarsThr splits neurons into one contiguous chunk per
// available processor.
func neuronVarsThr(vm *mat.Dense, vars []float64) {
	nn := len(vars)
	nthr := runtime.GOMAXPROCS(0)
	chunk := (nn + nthr - 1) / nthr
	var wg sync.WaitGroup
	for st := 0; st < nn; st += chunk {
		ed := min(st+chunk, nn)
		wg.Add(1)
		go func() {
			defer wg.Done()
			neuronVars(vm, vars, st, ed)
		}()
	}
	wg.Wait()
}
