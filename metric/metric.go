// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package metric provides measures of neural population synchrony and simple
correlation statistics over recorded activity tensors:

* CrossCorrelation: the zero-lag spike coherence index averaged over all
neuron pairs (Wang & Buzsaki, 1996).

* VoltageFluctuation: the Golomb & Rinzel chi^2 synchrony measure on
membrane potentials.

* MatrixCorrelation, FunctionalConnectivity, WeightedCorrelation: Pearson
correlation variants for comparing connectivity matrices and time series.

* SquaredError, L2Loss, HuberLoss, LogCosh, CosineSimilarity,
CosineDistance: elementwise regression losses.

Inputs are cogentcore tensors, with time as the outer (row) dimension.
All functions are pure: inputs are never modified.
*/
package metric

import (
	"errors"
	"fmt"

	"cogentcore.org/core/tensor"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when an input does not have the required
	// number of dimensions or matching sizes.
	ErrShape = errors.New("metric: shape mismatch")

	// ErrInvalidArg is returned for unsupported options such as
	// an unknown Methods value or a bin smaller than dt.
	ErrInvalidArg = errors.New("metric: invalid argument")
)

// Methods are the evaluation strategies for pairwise and per-neuron
// computations.  They differ only in memory use and parallelism,
// never in results.
type Methods int32

const (
	// Loop computes each pair (or neuron) sequentially,
	// using memory proportional to a single spike train.
	Loop Methods = iota

	// Batch computes all pairs (or neurons) at once: the full
	// neuron x neuron Gram matrix for CrossCorrelation, and
	// parallel goroutines for VoltageFluctuation.
	Batch

	// Auto selects Batch when it fits within the environ
	// memory budget, and Loop otherwise.
	Auto

	MethodsN
)

var methodNames = [...]string{"Loop", "Batch", "Auto"}

func (mt Methods) String() string {
	if mt < 0 || mt >= MethodsN {
		return fmt.Sprintf("Methods(%d)", int32(mt))
	}
	return methodNames[mt]
}

// SetString sets the method from its name.
func (mt *Methods) SetString(s string) error {
	for i, nm := range methodNames {
		if nm == s {
			*mt = Methods(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown method %q, supported: Loop, Batch, Auto", ErrInvalidArg, s)
}

func (mt Methods) validate() error {
	if mt < 0 || mt >= MethodsN {
		return fmt.Errorf("%w: method %v not supported, use Loop or Batch", ErrInvalidArg, mt)
	}
	return nil
}

// Shape returns the sizes of each dimension of the tensor.
func Shape(tsr tensor.Tensor) []int {
	if tsr == nil {
		return nil
	}
	nd := tsr.NumDims()
	sz := make([]int, nd)
	for i := range sz {
		sz[i] = tsr.DimSize(i)
	}
	return sz
}

func sameShape(a, b tensor.Tensor) bool {
	as, bs := Shape(a), Shape(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// dims2D returns the row and column sizes of a non-empty 2D tensor.
func dims2D(tsr tensor.Tensor, name string) (rows, cols int, err error) {
	if tsr == nil || tsr.NumDims() != 2 {
		return 0, 0, fmt.Errorf("%w: %s must be a 2D tensor, got shape %v", ErrShape, name, Shape(tsr))
	}
	rows, cols = tsr.DimSize(0), tsr.DimSize(1)
	if rows == 0 || cols == 0 {
		return 0, 0, fmt.Errorf("%w: %s is empty, shape %v", ErrShape, name, Shape(tsr))
	}
	return rows, cols, nil
}

// Dense copies a 2D tensor into a new gonum matrix.
func Dense(tsr tensor.Tensor, name string) (*mat.Dense, error) {
	rows, cols, err := dims2D(tsr, name)
	if err != nil {
		return nil, err
	}
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, tsr.Float([]int{r, c}))
		}
	}
	return m, nil
}

// Vector copies a 1D tensor into a new slice.
func Vector(tsr tensor.Tensor, name string) ([]float64, error) {
	if tsr == nil || tsr.NumDims() != 1 {
		return nil, fmt.Errorf("%w: %s must be a 1D tensor, got shape %v", ErrShape, name, Shape(tsr))
	}
	n := tsr.Len()
	v := make([]float64, n)
	for i := range v {
		v[i] = tsr.Float1D(i)
	}
	return v, nil
}
