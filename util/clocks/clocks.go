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

// Package clocks provides a mockable way to measure time.
package clocks

import (
	"sync"
	"time"
)

// Time is a convenient alias for time.Time.
type Time = time.Time

// A Source tells the passage of time. This package provides two sources: Wall
// and Mock.
type Source interface {
	// Now returns the current time.
	Now() Time
}

type wallClock struct{}

// Wall is the normal clock, as provided by time.Now().
var Wall Source = wallClock{}

func (wallClock) Now() Time {
	return time.Now()
}

// Mock is a Source whose time only moves when told to. The zero value is not
// usable; use NewMock.
type Mock struct {
	lock sync.Mutex
	now  Time
}

// NewMock returns a mock clock that starts at a fixed, arbitrary time.
func NewMock() *Mock {
	return &Mock{now: time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the mock's current time.
func (m *Mock) Now() Time {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.now
}

// Advance moves the mock time forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.lock.Lock()
	m.now = m.now.Add(d)
	m.lock.Unlock()
}

// AutoAdvance returns a Source that advances m by step every time Now is
// called, after reading the time. This gives deterministic non-zero durations
// to code that measures elapsed time.
func (m *Mock) AutoAdvance(step time.Duration) Source {
	return autoAdvance{m: m, step: step}
}

type autoAdvance struct {
	m    *Mock
	step time.Duration
}

func (a autoAdvance) Now() Time {
	now := a.m.Now()
	a.m.Advance(a.step)
	return now
}
