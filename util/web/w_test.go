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

package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Write(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Write(rec, nil, "hello")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello", rec.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	})
	t.Run("error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Write(rec, errors.New("boom"), "ignored")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Unexpected error: boom\n", rec.Body.String())
	})
	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Write(rec, map[string]int{"k": 2})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"k":2}`, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
	t.Run("nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Write(rec, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func Test_WriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "bad %s", "input")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad input\n", rec.Body.String())
}
