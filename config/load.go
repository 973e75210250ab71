// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Load parses the configuration from the given JSON file. Upon success, it
// returns a non-nil configuration. Otherwise, it returns an error, which
// already includes the filename.
func Load(filename string) (*KPath, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decoder := json.NewDecoder(bufio.NewReader(f))
	decoder.DisallowUnknownFields()
	cfg := new(KPath)
	// Decoding into **KPath is what detects an input of "null".
	err = decoder.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("error decoding JSON value in %v: %v", filename, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("loading %v resulted in nil config", filename)
	}
	if decoder.More() {
		return nil, fmt.Errorf("found unexpected data after config in %v", filename)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %v: %v", filename, err)
	}
	return cfg, nil
}

func (cfg *KPath) validate() error {
	if cfg.InitialK < 0 {
		return fmt.Errorf("initialK must not be negative, got %d", cfg.InitialK)
	}
	if cfg.Extender.MaxK < 0 {
		return fmt.Errorf("extender.maxK must not be negative, got %d", cfg.Extender.MaxK)
	}
	if cfg.Extender.MaxK > 0 && cfg.InitialK > cfg.Extender.MaxK {
		return fmt.Errorf("initialK (%d) exceeds extender.maxK (%d)", cfg.InitialK, cfg.Extender.MaxK)
	}
	if cfg.Tracing != nil && cfg.Tracing.Type != "jaeger" {
		return fmt.Errorf("unsupported tracing type %q", cfg.Tracing.Type)
	}
	return nil
}

// Write marshals the configuration as JSON to the given file. It truncates the
// file if it already exists. It returns nil upon success. Otherwise, it returns
// an error, which already includes the filename.
func Write(cfg *KPath, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	writer := bufio.NewWriter(f)
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "\t")
	err = firstError(
		encoder.Encode(cfg),
		writer.Flush(),
		f.Close(),
	)
	if err != nil {
		return fmt.Errorf("failed to write %v: %v", filename, err)
	}
	return nil
}

// firstError returns the first non-nil error, or nil.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
