// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lrate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fn
}

func TestConfigBuild(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		kind  Kinds
		steps []int
		cor   []float32
	}{
		{"toml multistep", "lr.toml", `
kind = "MultiStepLR"
lr = 1.0
milestones = [2, 4]
gamma = 0.5
`, MultiStep, []int{0, 2, 4}, []float32{1, 0.5, 0.25}},
		{"yaml piecewise", "lr.yaml", `
kind: PiecewiseConstant
boundaries: [10, 20]
values: [0.1, 0.01, 0.001]
`, PiecewiseConstant, []int{5, 15, 25}, []float32{0.1, 0.01, 0.001}},
		{"yaml default constant", "lr.yml", `
lr: 0.2
`, Constant, []int{0, 50}, []float32{0.2, 0.2}},
		{"toml poly", "lr.toml", `
kind = "polynomialdecay"
lr = 1.0
decay_steps = 10
final_lr = 0.1
`, PolynomialDecay, []int{0, 5, 10}, []float32{1, 0.55, 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, err := OpenConfig(writeFile(t, tt.file, tt.body))
			if err != nil {
				t.Fatal(err)
			}
			sc, err := cf.Build()
			if err != nil {
				t.Fatal(err)
			}
			if sc.Kind() != tt.kind {
				t.Errorf("kind: %v, cor: %v", sc.Kind(), tt.kind)
			}
			checkRates(t, sc, tt.steps, tt.cor)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	cf := &Config{}
	cf.Defaults()
	cf.Kind = "Step"
	if _, err := cf.Build(); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("step size 0: want ErrInvalidArg, got %v", err)
	}
	cf.StepSize = 5
	cf.LastEpoch = -3
	if _, err := cf.Build(); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("last epoch -3: want ErrInvalidArg, got %v", err)
	}
	cf.LastEpoch = 4
	sc, err := cf.Build()
	if err != nil || sc.NextStep() != 5 {
		t.Errorf("resume at epoch 4: %v %v", sc, err)
	}
	cf.Kind = "OneCycle"
	if _, err := cf.Build(); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("unknown kind: want ErrInvalidArg, got %v", err)
	}
	if _, err := OpenConfig(writeFile(t, "lr.json", "{}")); err == nil {
		t.Error("json config should fail")
	}
}
