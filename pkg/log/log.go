/*
Copyright 2022 the acct-manager contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format captures the encoding of the log output.
type Format string

const (
	FormatJSON    Format = "JSON"
	FormatConsole Format = "Console"
)

// Formats is a helper to pretty-print the available formats in flag usage.
type Formats []Format

func (f Formats) String() string {
	strs := make([]string, 0, len(f))
	for _, format := range f {
		strs = append(strs, string(format))
	}

	return strings.Join(strs, ", ")
}

// AvailableFormats is a list of formats accepted on the command line.
var AvailableFormats = Formats{FormatJSON, FormatConsole}

func (f *Format) String() string {
	return string(*f)
}

func (f *Format) Set(s string) error {
	for _, available := range AvailableFormats {
		if strings.EqualFold(s, string(available)) {
			*f = available
			return nil
		}
	}

	return fmt.Errorf("invalid log format %q, available formats are %v", s, AvailableFormats)
}

func (f *Format) Type() string {
	return "string"
}

// NewDefault creates a default logger (console output, info level).
func NewDefault() *zap.Logger {
	return New(false, FormatConsole)
}

// New creates a new zap logger with the given verbosity and encoding.
func New(debug bool, format Format) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig = encCfg

	switch format {
	case FormatConsole:
		cfg.Encoding = "console"
	default:
		cfg.Encoding = "json"
	}

	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
	}

	logger, err := cfg.Build()
	if err != nil {
		// the configuration above is static, an error here is a programming mistake
		panic(err)
	}

	return logger
}
