// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package format describes the formatting conventions used for newly
// synthesized code.
package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bufbuild/splice/source"
)

// Style supplies the two formatting choices the rewrite engine needs.
//
// Implementations must be pure: calling a method twice returns the same
// string.
type Style interface {
	// IndentUnit is the text added for each level of nesting.
	IndentUnit() string
	// LineTerminator is the text that ends each line.
	LineTerminator() string
}

// Options is a [Style] described by plain values, suitable for loading from a
// configuration file.
//
// Empty fields take their default: two spaces of indentation and "\n".
type Options struct {
	// Indent is the literal indentation unit. If empty, IndentWidth spaces are
	// used instead.
	Indent string `mapstructure:"indent" yaml:"indent,omitempty"`
	// IndentWidth is the number of spaces per level, used when Indent is unset.
	IndentWidth int `mapstructure:"indent_width" yaml:"indent_width,omitempty"`
	// Newline is either "lf" or "crlf".
	Newline string `mapstructure:"newline" yaml:"newline,omitempty"`
}

// Default is the style used when none is configured.
var Default Style = Options{}

var _ Style = Options{}

// IndentUnit implements [Style].
func (o Options) IndentUnit() string {
	switch {
	case o.Indent != "":
		return o.Indent
	case o.IndentWidth > 0:
		return strings.Repeat(" ", o.IndentWidth)
	default:
		return "  "
	}
}

// LineTerminator implements [Style].
func (o Options) LineTerminator() string {
	if strings.EqualFold(o.Newline, "crlf") {
		return "\r\n"
	}
	return "\n"
}

// Validate checks that o describes a usable style.
func (o Options) Validate() error {
	if strings.Trim(o.Indent, " \t") != "" {
		return fmt.Errorf("format: indent %q must contain only spaces and tabs", o.Indent)
	}
	if o.IndentWidth < 0 {
		return fmt.Errorf("format: negative indent_width %d", o.IndentWidth)
	}
	switch strings.ToLower(o.Newline) {
	case "", "lf", "crlf":
		return nil
	default:
		return fmt.Errorf("format: unknown newline %q, want \"lf\" or \"crlf\"", o.Newline)
	}
}

// Load decodes and validates YAML-encoded [Options] from r.
//
// An empty document yields the default options.
func Load(r io.Reader) (Options, error) {
	var opts Options
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("format: %w", err)
	}
	return opts, opts.Validate()
}

// ForFile returns a copy of o whose line terminator matches the one used by
// file, so that synthesized lines blend in with the surrounding code.
func (o Options) ForFile(file *source.File) Options {
	if file.LineTerminator() == "\r\n" {
		o.Newline = "crlf"
	} else {
		o.Newline = "lf"
	}
	return o
}
