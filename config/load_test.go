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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		filename := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(filename, []byte(contents), 0644))
		return filename
	}

	t.Run("file not found", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "404.json"))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "404.json")
		}
	})

	t.Run("file contains garbage", func(t *testing.T) {
		_, err := Load(write("garbage.json", "koala"))
		if assert.Error(t, err) {
			assert.Regexp(t, `^error decoding JSON value in .*/garbage\.json: `, err.Error())
		}
	})

	t.Run("file contains null", func(t *testing.T) {
		_, err := Load(write("null.json", "null"))
		if assert.Error(t, err) {
			assert.Regexp(t, `^loading .*/null\.json resulted in nil config$`, err.Error())
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(write("unknown.json", `{"roflcopter": true}`))
		if assert.Error(t, err) {
			assert.Regexp(t, `^error decoding JSON value in .*/unknown\.json: `, err.Error())
		}
	})

	t.Run("more", func(t *testing.T) {
		_, err := Load(write("more.json", "{}{}"))
		if assert.Error(t, err) {
			assert.Regexp(t, `^found unexpected data after config in .*/more\.json$`, err.Error())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := map[string]string{
			`{"initialK": -1}`:                         "initialK must not be negative",
			`{"extender": {"maxK": -2}}`:               "extender.maxK must not be negative",
			`{"initialK": 4, "extender": {"maxK": 3}}`: "initialK (4) exceeds extender.maxK (3)",
			`{"tracing": {"type": "zipkin"}}`:          `unsupported tracing type "zipkin"`,
		}
		for contents, exp := range tests {
			_, err := Load(write("invalid.json", contents))
			if assert.Error(t, err, contents) {
				assert.Contains(t, err.Error(), exp)
			}
		}
	})

	t.Run("ok", func(t *testing.T) {
		cfg, err := Load(write("ok.json", `{
			"graphFile": "edges.tsv",
			"initialK": 2,
			"extender": {"maxK": 4},
			"query": {"defaultLimit": 10},
			"api": {"httpAddress": ":9988", "grpcAddress": ":9989"}
		}`))
		if assert.NoError(t, err) {
			assert.Equal(t, "edges.tsv", cfg.GraphFile)
			assert.Equal(t, 2, cfg.InitialK)
			assert.Equal(t, 4, cfg.Extender.MaxK)
			assert.Equal(t, 10, cfg.Query.DefaultLimit)
			assert.Equal(t, ":9988", cfg.API.HTTPAddress)
			assert.Equal(t, ":9989", cfg.API.GRPCAddress)
			assert.Nil(t, cfg.Tracing)
		}
	})
}

func Test_Write(t *testing.T) {
	dir := t.TempDir()

	cfg := &KPath{
		GraphFile: "g.tsv",
		InitialK:  3,
		Tracing:   &Tracing{Type: "jaeger", CollectorURL: "http://localhost:14268/api/traces"},
	}
	filename := filepath.Join(dir, "ok.json")
	require.NoError(t, Write(cfg, filename))
	loaded, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = Write(cfg, filepath.Join(dir, "404", "x.json"))
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "x.json")
	}
}
