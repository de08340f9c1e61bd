// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"fmt"
	"math"

	"cogentcore.org/core/tensor"
	"gonum.org/v1/gonum/floats"
)

// errorsFunc applies fun to the elementwise errors pred - targ, writing a
// new tensor of the same shape as pred.  A nil targ means all zeros.
func errorsFunc(pred, targ tensor.Tensor, fun func(e float64) float64) (*tensor.Float64, error) {
	if pred == nil {
		return nil, fmt.Errorf("%w: predictions tensor is nil", ErrShape)
	}
	if targ != nil && !sameShape(pred, targ) {
		return nil, fmt.Errorf("%w: predictions shape %v != targets shape %v", ErrShape, Shape(pred), Shape(targ))
	}
	out := tensor.NewFloat64(Shape(pred))
	n := pred.Len()
	for i := 0; i < n; i++ {
		e := pred.Float1D(i)
		if targ != nil {
			e -= targ.Float1D(i)
		}
		out.SetFloat1D(i, fun(e))
	}
	return out, nil
}

// SquaredError returns the elementwise squared errors (pred - targ)^2.
// The mean squared error is the mean of the result.
func SquaredError(pred, targ tensor.Tensor) (*tensor.Float64, error) {
	return errorsFunc(pred, targ, func(e float64) float64 { return e * e })
}

// L2Loss returns 0.5 * SquaredError, as in Bishop (2006).
func L2Loss(pred, targ tensor.Tensor) (*tensor.Float64, error) {
	return errorsFunc(pred, targ, func(e float64) float64 { return 0.5 * e * e })
}

// HuberLoss returns the elementwise Huber loss, which is the L2 loss for
// errors within delta and linear in the error beyond it:
// 0.5 * q^2 + delta * (|e| - q), with q = min(|e|, delta).
func HuberLoss(pred, targ tensor.Tensor, delta float64) (*tensor.Float64, error) {
	if !(delta > 0) {
		return nil, fmt.Errorf("%w: huber delta must be > 0, got %v", ErrInvalidArg, delta)
	}
	return errorsFunc(pred, targ, func(e float64) float64 {
		ae := math.Abs(e)
		q := min(ae, delta)
		return 0.5*q*q + delta*(ae-q)
	})
}

// LogCosh returns the elementwise log(cosh(e)) loss, a twice
// differentiable alternative to HuberLoss: about e^2 / 2 for small
// errors and |e| - log(2) for large ones.
func LogCosh(pred, targ tensor.Tensor) (*tensor.Float64, error) {
	return errorsFunc(pred, targ, func(e float64) float64 {
		ae := math.Abs(e)
		return ae + math.Log1p(math.Exp(-2*ae)) - math.Ln2
	})
}

// CosineSimilarity returns the cosine of the angle between corresponding
// vectors of pred and targ, taken along the innermost (last) dimension.
// Each vector norm is clamped below at eps.  The result has the outer
// dimensions of the inputs, or shape [1] for 1D inputs.  A vector with
// zero norm (and eps = 0) has similarity 0.
func CosineSimilarity(pred, targ tensor.Tensor, eps float64) (*tensor.Float64, error) {
	if pred == nil || targ == nil || pred.NumDims() == 0 {
		return nil, fmt.Errorf("%w: cosine similarity needs non-empty predictions and targets", ErrShape)
	}
	if !sameShape(pred, targ) {
		return nil, fmt.Errorf("%w: predictions shape %v != targets shape %v", ErrShape, Shape(pred), Shape(targ))
	}
	shp := Shape(pred)
	dim := shp[len(shp)-1]
	outShp := shp[:len(shp)-1]
	if len(outShp) == 0 {
		outShp = []int{1}
	}
	out := tensor.NewFloat64(outShp)
	if dim == 0 {
		return out, nil
	}
	nv := pred.Len() / dim
	pv := make([]float64, dim)
	tv := make([]float64, dim)
	for v := 0; v < nv; v++ {
		for i := range pv {
			pv[i] = pred.Float1D(v*dim + i)
			tv[i] = targ.Float1D(v*dim + i)
		}
		den := max(floats.Norm(pv, 2), eps) * max(floats.Norm(tv, 2), eps)
		sim := 0.0
		if den > 0 {
			sim = floats.Dot(pv, tv) / den
		}
		out.SetFloat1D(v, sim)
	}
	return out, nil
}

// CosineDistance returns 1 - CosineSimilarity.
func CosineDistance(pred, targ tensor.Tensor, eps float64) (*tensor.Float64, error) {
	out, err := CosineSimilarity(pred, targ, eps)
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		out.SetFloat1D(i, 1-out.Float1D(i))
	}
	return out, nil
}
