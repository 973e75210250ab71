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

// Package debuglog configures Logrus for the kpath binaries: log lines carry
// a UTC timestamp with microseconds and the caller's file and line relative to
// the repository root.
//
// Every main package should call Configure before doing anything else.
package debuglog

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options control Configure. The zero value logs at info level to the
// standard logger.
type Options struct {
	// Level is a logrus level name such as "debug" or "warn". Empty means
	// "info".
	Level string
	// If set, output uses ANSI colors even when it isn't a terminal.
	// "CLICOLOR_FORCE=1" in the environment has the same effect.
	ForceColors bool
	// If not nil, log output is written here.
	Out io.Writer
	// The logger to configure. Defaults to logrus.StandardLogger(); tests set
	// this.
	Logger *logrus.Logger
}

// timestampFormat is the layout of every log line's time field.
const timestampFormat = "2006-01-02 15:04:05.000000 MST"

// Configure applies opts to the logger. It may be called more than once, but
// not concurrently. If opts.Level isn't a valid level name, the logger is
// configured at info level and an error is returned.
func Configure(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.Out != nil {
		logger.SetOutput(opts.Out)
	}
	level, err := parseLevel(opts.Level)
	logger.SetLevel(level)
	logger.SetReportCaller(true)
	logger.ReplaceHooks(logrus.LevelHooks{})
	logger.AddHook(fixupHook{prefix: repoRoot()})
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:             true,
		TimestampFormat:           timestampFormat,
		ForceColors:               opts.ForceColors,
		EnvironmentOverrideColors: true,
	})
	logger.WithFields(logrus.Fields{
		"level":       level,
		"forceColors": opts.ForceColors,
	}).Debug("Configured logging")
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	return nil
}

func parseLevel(name string) (logrus.Level, error) {
	if name == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel, err
	}
	return level, nil
}

// thisFile is the path of this file relative to the repository root.
const thisFile = "util/debuglog/setup.go"

// repoRoot returns the directory the binary was built from, with a trailing
// slash, or "" if it can't be determined.
func repoRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok || !strings.HasSuffix(file, thisFile) {
		return ""
	}
	return strings.TrimSuffix(file, thisFile)
}

// fixupHook implements logrus.Hook. It converts entry timestamps to UTC and
// strips prefix from caller filenames.
type fixupHook struct {
	prefix string
}

func (fixupHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook fixupHook) Fire(entry *logrus.Entry) error {
	entry.Time = entry.Time.UTC()
	if entry.HasCaller() && hook.prefix != "" {
		entry.Caller.File = strings.TrimPrefix(entry.Caller.File, hook.prefix)
	}
	return nil
}
