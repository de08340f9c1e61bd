// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"fmt"
	"math"

	"cogentcore.org/core/tensor"
	"github.com/emer/braintools/v2/environ"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// UpperTriangle returns the entries of a 2D tensor strictly above the
// diagonal (column > row), in row-major order.
func UpperTriangle(tsr tensor.Tensor, name string) ([]float64, error) {
	rows, cols, err := dims2D(tsr, name)
	if err != nil {
		return nil, err
	}
	var v []float64
	for r := 0; r < rows; r++ {
		for c := r + 1; c < cols; c++ {
			v = append(v, tsr.Float([]int{r, c}))
		}
	}
	return v, nil
}

// MatrixCorrelation returns the Pearson correlation between the
// off-diagonal upper triangles of two matrices, e.g., a simulated and an
// empirical connectivity matrix.  Both must be 2D with the same number of
// upper triangle entries.
func MatrixCorrelation(x, y tensor.Tensor) (float64, error) {
	xv, err := UpperTriangle(x, "x")
	if err != nil {
		return 0, err
	}
	yv, err := UpperTriangle(y, "y")
	if err != nil {
		return 0, err
	}
	if len(xv) != len(yv) {
		return 0, fmt.Errorf("%w: upper triangles differ in size, x shape %v, y shape %v", ErrShape, Shape(x), Shape(y))
	}
	return environ.Float(stat.Correlation(xv, yv, nil)), nil
}

// FunctionalConnectivity returns the (sample, sample) Pearson correlation
// matrix of a (time, sample) activity tensor.  Samples with zero variance
// over time have undefined correlations, which are set to 0, including
// their diagonal entry.
func FunctionalConnectivity(activities tensor.Tensor) (*tensor.Float64, error) {
	act, err := Dense(activities, "activities")
	if err != nil {
		return nil, err
	}
	nt, ns := act.Dims()
	var cor mat.SymDense
	stat.CorrelationMatrix(&cor, act, nil)

	flat := make([]bool, ns)
	col := make([]float64, nt)
	for s := range flat {
		mat.Col(col, s, act)
		flat[s] = !(stat.Variance(col, nil) > 0)
	}
	fc := tensor.NewFloat64([]int{ns, ns}, "Sample", "Sample")
	for i := 0; i < ns; i++ {
		for j := 0; j < ns; j++ {
			v := cor.At(i, j)
			if flat[i] || flat[j] || math.IsNaN(v) {
				v = 0
			}
			fc.SetFloat1D(i*ns+j, environ.Float(v))
		}
	}
	return fc, nil
}

// WeightedCorrelation returns the weighted Pearson correlation of x and y
// with weights w: cov_w(x, y) / sqrt(cov_w(x, x) * cov_w(y, y)), where
// cov_w uses weighted means.  All three must be 1D of equal length.
func WeightedCorrelation(x, y, w tensor.Tensor) (float64, error) {
	xv, err := Vector(x, "x")
	if err != nil {
		return 0, err
	}
	yv, err := Vector(y, "y")
	if err != nil {
		return 0, err
	}
	wv, err := Vector(w, "w")
	if err != nil {
		return 0, err
	}
	if len(xv) != len(yv) || len(xv) != len(wv) {
		return 0, fmt.Errorf("%w: x, y and w lengths differ: %d, %d, %d", ErrShape, len(xv), len(yv), len(wv))
	}
	return environ.Float(stat.Correlation(xv, yv, wv)), nil
}
