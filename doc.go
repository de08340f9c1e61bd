// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package braintools is the overall repository for a small set of analysis
and training utilities for neural network simulations, in the Go language.

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* metric: population synchrony measures on spike rasters and membrane
potentials (cross correlation index, voltage fluctuation), functional
connectivity and other correlation measures, and elementwise regression
losses, on cogentcore tensors.

* lrate: learning rate schedules (Step, MultiStep, CosineAnnealing, warm
restarts, exponential, inverse time, polynomial and piecewise constant),
driven by epoch and call counters, that scale a network's learning rate
through its LrateMult method.

* environ: the shared environment parameters (default time step, numeric
precision, memory limit for batched evaluation), loadable from TOML or YAML.

* cmd/braintools: a command line tool that tabulates schedules and reports
synchrony metrics of generated population activity.
*/
package braintools
