// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"cogentcore.org/core/tensor"
)

func TestVoltageFluctuationSync(t *testing.T) {
	for _, mt := range []Methods{Loop, Batch, Auto} {
		r, err := VoltageFluctuation(filled(100, 10, 1), mt)
		if err != nil {
			t.Fatal(err)
		}
		if r != 1 {
			t.Errorf("%v: constant potentials: %v, cor: 1", mt, r)
		}
	}

	nt, nn := 200, 10
	vm := tensor.NewFloat64([]int{nt, nn})
	for ti := 0; ti < nt; ti++ {
		v := -65 + 10*math.Sin(float64(ti)*0.1)
		for n := 0; n < nn; n++ {
			vm.SetFloat1D(ti*nn+n, v)
		}
	}
	r, err := VoltageFluctuation(vm, Loop)
	if err != nil {
		t.Fatal(err)
	}
	if dif := math.Abs(r - 1); dif > difTol {
		t.Errorf("identical oscillations: %v, cor: 1, dif: %v", r, dif)
	}
}

func TestVoltageFluctuationAsync(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	nt, nn := 2000, 40
	vm := tensor.NewFloat64([]int{nt, nn})
	for i := 0; i < nt*nn; i++ {
		vm.SetFloat1D(i, rnd.NormFloat64()*10)
	}
	lp, err := VoltageFluctuation(vm, Loop)
	if err != nil {
		t.Fatal(err)
	}
	bt, err := VoltageFluctuation(vm, Batch)
	if err != nil {
		t.Fatal(err)
	}
	if lp != bt {
		t.Errorf("Loop: %v != Batch: %v", lp, bt)
	}
	// independent noise: chi^2 ~ 1/N
	if lp > 0.1 {
		t.Errorf("independent neurons should be unsynchronized: %v", lp)
	}
}

func TestVoltageFluctuationErrors(t *testing.T) {
	if _, err := VoltageFluctuation(filled(10, 2, 0), Methods(-1)); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("bad method: want ErrInvalidArg, got %v", err)
	}
	if _, err := VoltageFluctuation(tensor.NewFloat64([]int{2, 2, 2}), Loop); !errors.Is(err, ErrShape) {
		t.Errorf("3D potentials: want ErrShape, got %v", err)
	}
}
