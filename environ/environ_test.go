// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package environ

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
)

func TestDefaults(t *testing.T) {
	ep := NewParams()
	if ep.DT != 0.1 || ep.Precision != 32 || ep.MaxBatchMem != 256*datasize.MB {
		t.Errorf("unexpected defaults: %+v", ep)
	}
	if err := ep.Validate(); err != nil {
		t.Error(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		ep   Params
		ok   bool
	}{
		{"defaults", NewParams(), true},
		{"zero dt", Params{DT: 0, Precision: 32}, false},
		{"negative dt", Params{DT: -1, Precision: 64}, false},
		{"bad precision", Params{DT: 1, Precision: 16}, false},
		{"f64", Params{DT: 0.01, Precision: 64}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ep.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok = %v", err, tt.ok)
			}
		})
	}
}

func TestSetContext(t *testing.T) {
	defer Reset()
	if err := Set(Params{DT: 0.5, Precision: 64}); err != nil {
		t.Fatal(err)
	}
	if DT() != 0.5 || Precision() != 64 {
		t.Errorf("Set not applied: dt %v prec %v", DT(), Precision())
	}
	if MaxBatchMem() != 256*datasize.MB {
		t.Errorf("Update should fill MaxBatchMem, got %v", MaxBatchMem())
	}
	err := Context(Params{DT: 1, Precision: 32}, func() {
		if DT() != 1 {
			t.Errorf("Context dt: %v", DT())
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if DT() != 0.5 {
		t.Errorf("Context did not restore dt: %v", DT())
	}
	if err := Set(Params{DT: -1}); err == nil {
		t.Error("expected error for negative dt")
	}
	if DT() != 0.5 {
		t.Errorf("failed Set should not change params, dt: %v", DT())
	}
}

func TestFloat(t *testing.T) {
	v := 0.1
	ep := Params{DT: 1, Precision: 64}
	if ep.Float(v) != v {
		t.Errorf("64 bit precision should not round")
	}
	ep.Precision = 32
	if ep.Float(v) != float64(float32(v)) {
		t.Errorf("32 bit precision should round through float32")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tomlFile := filepath.Join(dir, "env.toml")
	os.WriteFile(tomlFile, []byte("dt = 0.025\nprecision = 64\nmax_batch_mem = \"1GB\"\n"), 0644)
	yamlFile := filepath.Join(dir, "env.yaml")
	os.WriteFile(yamlFile, []byte("dt: 0.025\nprecision: 64\nmax_batch_mem: 1GB\n"), 0644)

	for _, fn := range []string{tomlFile, yamlFile} {
		ep, err := Open(fn)
		if err != nil {
			t.Fatalf("%s: %v", fn, err)
		}
		if ep.DT != 0.025 || ep.Precision != 64 || ep.MaxBatchMem != datasize.GB {
			t.Errorf("%s: got %+v", fn, ep)
		}
	}

	partial := filepath.Join(dir, "partial.toml")
	os.WriteFile(partial, []byte("dt = 1.0\n"), 0644)
	ep, err := Open(partial)
	if err != nil {
		t.Fatal(err)
	}
	if ep.DT != 1 || ep.Precision != 32 {
		t.Errorf("missing fields should keep defaults: %+v", ep)
	}

	bad := filepath.Join(dir, "env.json")
	os.WriteFile(bad, []byte("{}"), 0644)
	if _, err := Open(bad); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
