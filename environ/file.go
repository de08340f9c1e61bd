// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package environ

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Decode decodes the given TOML (.toml) or YAML (.yaml, .yml) file into v,
// selecting the format from the file extension.  Fields absent from the
// file keep their current values in v, so v should have its Defaults set.
func Decode(filename string, v any) error {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(filename, v); err != nil {
			return fmt.Errorf("environ: decoding %s: %w", filename, err)
		}
		return nil
	case ".yaml", ".yml":
		b, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, v); err != nil {
			return fmt.Errorf("environ: decoding %s: %w", filename, err)
		}
		return nil
	default:
		return fmt.Errorf("environ: unsupported config file extension %q for %s", ext, filename)
	}
}

// Open loads Params from the given file, starting from default values,
// and validates the result.  Use Set to make them current.
func Open(filename string) (Params, error) {
	ep := NewParams()
	if err := Decode(filename, &ep); err != nil {
		return ep, err
	}
	ep.Update()
	return ep, ep.Validate()
}
