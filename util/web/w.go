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

// Package web aids in writing HTTP servers.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WriteError writes a textual error response with the supplied HTTP status
// code.
func WriteError(w http.ResponseWriter, statusCode int, formatMsg string, params ...interface{}) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, formatMsg, params...)
	io.WriteString(w, "\n")
}

// WriteJSON writes val as a JSON response with the supplied HTTP status code.
func WriteJSON(w http.ResponseWriter, statusCode int, val interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(val)
}

// Write writes out the first non-nil value in vals as the response, so you can
// do things like web.Write(w, err, foo). Errors become a 500 text response,
// strings are written as text, anything else is encoded as JSON. If every value
// is nil, the response is 204 No Content.
func Write(w http.ResponseWriter, vals ...interface{}) {
	for _, val := range vals {
		if val == nil {
			continue
		}
		switch tv := val.(type) {
		case string:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			io.WriteString(w, tv)
		case error:
			WriteError(w, http.StatusInternalServerError, "Unexpected error: %s", tv)
		default:
			WriteJSON(w, http.StatusOK, tv)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
