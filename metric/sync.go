// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"fmt"
	"math"

	"cogentcore.org/core/tensor"
	"github.com/c2h5oh/datasize"
	"github.com/emer/braintools/v2/environ"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BinSize returns the number of time steps per bin for the given bin
// width and time step.  If dt <= 0 the environ default time step is used.
func BinSize(bin, dt float64) (int, error) {
	if dt <= 0 {
		dt = environ.DT()
	}
	bs := int(bin / dt)
	if bs < 1 {
		return 0, fmt.Errorf("%w: bin width %v must be at least one time step (dt = %v)", ErrInvalidArg, bin, dt)
	}
	return bs, nil
}

// BinSpikes coarsens a (time, neuron) spike tensor into a (neuron, bins)
// matrix of spike presence: 1 if the spikes summed over the binSize time
// steps of a bin are > 0, else 0.  The time dimension is zero-padded up to
// a multiple of binSize.
func BinSpikes(spikes tensor.Tensor, binSize int) (*mat.Dense, error) {
	if binSize < 1 {
		return nil, fmt.Errorf("%w: bin size %d < 1", ErrInvalidArg, binSize)
	}
	nt, nn, err := dims2D(spikes, "spikes")
	if err != nil {
		return nil, err
	}
	nb := (nt + binSize - 1) / binSize
	bins := mat.NewDense(nn, nb, nil)
	for t := 0; t < nt; t++ {
		bi := t / binSize
		for n := 0; n < nn; n++ {
			if v := spikes.Float([]int{t, n}); v != 0 {
				bins.Set(n, bi, bins.At(n, bi)+v)
			}
		}
	}
	bins.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	}, bins)
	return bins, nil
}

// BatchMemory returns the memory used by the Batch method of
// CrossCorrelation for the given number of neurons and bins: the
// (neuron, bins) binned matrix plus the neuron x neuron Gram matrix.
func BatchMemory(nNeurons, nBins int) datasize.ByteSize {
	return datasize.ByteSize(8 * nNeurons * (nNeurons + nBins))
}

// CrossCorrelation computes the cross correlation (coherence) index of a
// population of spiking neurons.  spikes is a (time, neuron) tensor of
// spike states, bin the width of the coincidence window and dt the time
// step of the spike recording (in the same units; dt <= 0 means the
// environ default).
//
// Each spike train is binned into presence / absence per window, X(l),
// and the coherence of a pair is
//
//	k_ij = sum_l X_i(l) X_j(l) / sqrt(sum_l X_i(l) * sum_l X_j(l))
//
// which is 0 when either neuron never fires.  The result is the mean
// over all pairs i > j, and 0 if there are fewer than two neurons.
//
// Wang, X.-J. & Buzsaki, G. (1996) Gamma oscillation by synaptic
// inhibition in a hippocampal interneuronal network model.
// J Neurosci 16(20), 6402-6413.
func CrossCorrelation(spikes tensor.Tensor, bin, dt float64, method Methods) (float64, error) {
	if err := method.validate(); err != nil {
		return 0, err
	}
	bs, err := BinSize(bin, dt)
	if err != nil {
		return 0, err
	}
	bins, err := BinSpikes(spikes, bs)
	if err != nil {
		return 0, err
	}
	nn, nb := bins.Dims()
	if nn < 2 {
		return 0, nil
	}
	if method == Auto {
		method = Loop
		if BatchMemory(nn, nb) <= environ.MaxBatchMem() {
			method = Batch
		}
	}
	var cc float64
	if method == Batch {
		cc = crossCorrBatch(bins)
	} else {
		cc = crossCorrLoop(bins)
	}
	return environ.Float(cc), nil
}

// pairCoherence returns the coherence of a pair from the dot product
// of their binned trains and their spike bin counts.
func pairCoherence(dot, ni, nj float64) float64 {
	norm := math.Sqrt(ni * nj)
	if norm == 0 {
		return 0
	}
	return dot / norm
}

// crossCorrLoop scans the lower triangle pair by pair.
func crossCorrLoop(bins *mat.Dense) float64 {
	nn, _ := bins.Dims()
	cnt := make([]float64, nn)
	for i := range cnt {
		cnt[i] = floats.Sum(bins.RawRowView(i))
	}
	sum := 0.0
	np := 0
	for i := 1; i < nn; i++ {
		ri := bins.RawRowView(i)
		for j := 0; j < i; j++ {
			sum += pairCoherence(floats.Dot(ri, bins.RawRowView(j)), cnt[i], cnt[j])
			np++
		}
	}
	return sum / float64(np)
}

// crossCorrBatch computes all pair dot products at once as the
// Gram matrix bins * bins^T.  Its diagonal holds the spike bin counts.
func crossCorrBatch(bins *mat.Dense) float64 {
	nn, _ := bins.Dims()
	var gram mat.Dense
	gram.Mul(bins, bins.T())
	sum := 0.0
	np := 0
	for i := 1; i < nn; i++ {
		for j := 0; j < i; j++ {
			sum += pairCoherence(gram.At(i, j), gram.At(i, i), gram.At(j, j))
			np++
		}
	}
	return sum / float64(np)
}
