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
	"github.com/emer/braintools/v2/environ"
)

// difTol is the numerical difference tolerance for comparing vs. target values,
// allowing for the default 32 bit storage precision.
const difTol = 1.0e-6

// newTensor makes a (rows, cols) tensor from row-major values.
func newTensor(rows [][]float64) *tensor.Float64 {
	nc := len(rows[0])
	tsr := tensor.NewFloat64([]int{len(rows), nc})
	for r, row := range rows {
		for c, v := range row {
			tsr.SetFloat1D(r*nc+c, v)
		}
	}
	return tsr
}

// filled makes a (rows, cols) tensor with all values = v.
func filled(rows, cols int, v float64) *tensor.Float64 {
	tsr := tensor.NewFloat64([]int{rows, cols})
	for i := 0; i < rows*cols; i++ {
		tsr.SetFloat1D(i, v)
	}
	return tsr
}

// randSpikes makes a (time, neuron) raster with spike probability p.
func randSpikes(rnd *rand.Rand, nt, nn int, p float64) *tensor.Float64 {
	tsr := tensor.NewFloat64([]int{nt, nn})
	for i := 0; i < nt*nn; i++ {
		if rnd.Float64() < p {
			tsr.SetFloat1D(i, 1)
		}
	}
	return tsr
}

// transpose returns the neuron-major form of a (time, neuron) raster.
func transpose(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows[0]))
	for c := range out {
		out[c] = make([]float64, len(rows))
		for r := range rows {
			out[c][r] = rows[r][c]
		}
	}
	return out
}

func TestBinSpikes(t *testing.T) {
	spikes := newTensor(transpose([][]float64{
		{1, 0, 1, 0, 1, 0, 1, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 0, 0},
	}))
	bins, err := BinSpikes(spikes, 2)
	if err != nil {
		t.Fatal(err)
	}
	nn, nb := bins.Dims()
	if nn != 2 || nb != 5 {
		t.Fatalf("bins shape: %d x %d, want 2 x 5", nn, nb)
	}
	cor := [][]float64{{1, 1, 1, 1, 0}, {1, 1, 1, 1, 0}}
	for n := range cor {
		for b, v := range cor[n] {
			if bins.At(n, b) != v {
				t.Errorf("bin %d,%d: %v, cor: %v", n, b, bins.At(n, b), v)
			}
		}
	}
	if _, err := BinSpikes(spikes, 0); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("bin size 0: want ErrInvalidArg, got %v", err)
	}
}

func TestCrossCorrelationOnesZeros(t *testing.T) {
	for _, mt := range []Methods{Loop, Batch, Auto} {
		cc, err := CrossCorrelation(filled(1000, 10, 1), 1, 1, mt)
		if err != nil {
			t.Fatal(err)
		}
		if cc != 1 {
			t.Errorf("%v: all ones: %v, cor: 1", mt, cc)
		}
		cc, err = CrossCorrelation(filled(1000, 10, 0), 1, 1, mt)
		if err != nil {
			t.Fatal(err)
		}
		if cc != 0 || math.IsNaN(cc) {
			t.Errorf("%v: all zeros: %v, cor: 0", mt, cc)
		}
	}
}

func TestCrossCorrelationValues(t *testing.T) {
	spikes := newTensor(transpose([][]float64{
		{1, 0, 1, 0, 1, 0, 1, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 0, 0},
	}))
	tests := []struct {
		name string
		bin  float64
		cor  float64
	}{
		{"bin1", 1, 4 / math.Sqrt(4*7)},
		{"bin2 padded", 2, 1},
		{"bin2.5 floors to 2", 2.5, 1},
		{"single bin", 9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mt := range []Methods{Loop, Batch} {
				cc, err := CrossCorrelation(spikes, tt.bin, 1, mt)
				if err != nil {
					t.Fatal(err)
				}
				if dif := math.Abs(cc - tt.cor); dif > difTol {
					t.Errorf("%v: cc: %v, cor: %v, dif: %v", mt, cc, tt.cor, dif)
				}
			}
		})
	}
}

func TestCrossCorrelationMethods(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, p := range []float64{0.05, 0.2, 0.8} {
		spikes := randSpikes(rnd, 1000, 30, p)
		for _, bin := range []float64{1, 5} {
			lp, err := CrossCorrelation(spikes, bin, 1, Loop)
			if err != nil {
				t.Fatal(err)
			}
			bt, err := CrossCorrelation(spikes, bin, 1, Batch)
			if err != nil {
				t.Fatal(err)
			}
			if lp != bt {
				t.Errorf("p: %v bin: %v: Loop: %v != Batch: %v", p, bin, lp, bt)
			}
			if lp < 0 || lp > 1 {
				t.Errorf("p: %v bin: %v: cc out of range: %v", p, bin, lp)
			}
		}
	}
}

func TestCrossCorrelationPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	nt, nn := 500, 12
	spikes := randSpikes(rnd, nt, nn, 0.3)
	perm := rnd.Perm(nn)
	permed := tensor.NewFloat64([]int{nt, nn})
	for ti := 0; ti < nt; ti++ {
		for n := 0; n < nn; n++ {
			permed.SetFloat1D(ti*nn+n, spikes.Float1D(ti*nn+perm[n]))
		}
	}
	a, err := CrossCorrelation(spikes, 2, 1, Loop)
	if err != nil {
		t.Fatal(err)
	}
	b, err := CrossCorrelation(permed, 2, 1, Loop)
	if err != nil {
		t.Fatal(err)
	}
	if dif := math.Abs(a - b); dif > difTol {
		t.Errorf("permuted cc: %v, orig: %v, dif: %v", b, a, dif)
	}
}

func TestCrossCorrelationEnviron(t *testing.T) {
	defer environ.Reset()
	rnd := rand.New(rand.NewSource(3))
	spikes := randSpikes(rnd, 200, 8, 0.2)
	want, err := CrossCorrelation(spikes, 2, 0.5, Loop)
	if err != nil {
		t.Fatal(err)
	}
	ep := environ.NewParams()
	ep.DT = 0.5
	ep.MaxBatchMem = 1 // forces Auto to Loop
	err = environ.Context(ep, func() {
		got, err := CrossCorrelation(spikes, 2, 0, Auto)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("default dt: %v, explicit dt: %v", got, want)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCrossCorrelationErrors(t *testing.T) {
	spikes := filled(10, 3, 1)
	if _, err := CrossCorrelation(spikes, 1, 1, Methods(7)); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("bad method: want ErrInvalidArg, got %v", err)
	}
	if _, err := CrossCorrelation(spikes, 0.5, 1, Loop); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("bin < dt: want ErrInvalidArg, got %v", err)
	}
	if _, err := CrossCorrelation(tensor.NewFloat64([]int{10}), 1, 1, Loop); !errors.Is(err, ErrShape) {
		t.Errorf("1D spikes: want ErrShape, got %v", err)
	}
	cc, err := CrossCorrelation(filled(10, 1, 1), 1, 1, Loop)
	if err != nil || cc != 0 {
		t.Errorf("single neuron: %v, %v", cc, err)
	}
}

func TestMethodsString(t *testing.T) {
	var mt Methods
	if err := mt.SetString("Batch"); err != nil || mt != Batch {
		t.Errorf("SetString Batch: %v %v", mt, err)
	}
	if err := mt.SetString("vmap"); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("SetString vmap: want ErrInvalidArg, got %v", err)
	}
	if Loop.String() != "Loop" || Methods(9).String() != "Methods(9)" {
		t.Errorf("String: %v %v", Loop, Methods(9))
	}
}

func TestBatchMemory(t *testing.T) {
	if mem := BatchMemory(1024, 100); mem != 8*1024*(1024+100) {
		t.Errorf("BatchMemory(1024, 100) = %v", mem)
	}
	if mem := BatchMemory(0, 100); mem != 0 {
		t.Errorf("BatchMemory(0, 100) = %v", mem)
	}
}
