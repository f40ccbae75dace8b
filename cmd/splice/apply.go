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
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/splice"
	"github.com/bufbuild/splice/cfamily"
	"github.com/bufbuild/splice/edit"
	"github.com/bufbuild/splice/script"
)

type applyFlags struct {
	script string
	diff   bool
	write  bool
	color  string
}

func applyCmd(f *flags) *cobra.Command {
	af := new(applyFlags)
	cmd := &cobra.Command{
		Use:   "apply -s SCRIPT [flags] FILE|GLOB...",
		Short: "Apply an edit script to source files",
		Long: `Apply an edit script to each of the given files, which may be named by
doublestar globs such as "src/**/*.cc".

By default the rewritten files are printed to stdout. With --diff, a unified
diff is printed instead; with --write, the files are rewritten in place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			return runApply(cmd.Context(), cfg, af, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&af.script, "script", "s", "", "edit script (YAML)")
	cmd.Flags().BoolVar(&af.diff, "diff", false, "print a unified diff instead of the rewritten text")
	cmd.Flags().BoolVarP(&af.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().StringVar(&af.color, "color", "auto", "colorize diffs: auto, always, or never")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// result is the outcome of applying a script to one file.
type result struct {
	path   string
	change *edit.Change
}

func runApply(ctx context.Context, cfg *Config, af *applyFlags, args []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Log.Logger(stderr)
	colors, err := newPalette(af.color)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(af.script)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	s, err := script.Parse(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", af.script, err)
	}

	paths, err := expand(args)
	if err != nil {
		return err
	}

	results := make([]result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			change, err := applyFile(ctx, cfg, s, path, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result{path: path, change: change}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if err := emit(r, af, colors, stdout, logger); err != nil {
			return err
		}
	}
	return nil
}

// expand resolves globs in args to file paths, keeping the order of args.
// Arguments that are not globs are passed through as is.
func expand(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, arg := range args {
		matches := []string{arg}
		if strings.ContainsAny(arg, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func applyFile(ctx context.Context, cfg *Config, s *script.Script, path string, logger *slog.Logger) (*edit.Change, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := cfamily.Parse(ctx, path, string(data))
	if err != nil {
		return nil, err
	}
	for _, n := range cfamily.Errors(root) {
		logger.Warn("syntax error", slog.String("at", n.Span().String()))
	}

	style := cfg.Format
	if style.Newline == "" {
		style = style.ForFile(root.File())
	}
	rw := splice.Begin(root,
		splice.WithStyle(style),
		splice.WithLogger(logger.With(slog.String("file", path))),
	)
	if err := s.Apply(rw); err != nil {
		return nil, err
	}
	return rw.Rewrite()
}

// palette holds the colors of diff lines for one invocation.
type palette struct {
	added, removed, hunk *color.Color
}

// newPalette returns the colors for a --color mode. In auto mode, colors are
// used when the library detects a terminal.
func newPalette(mode string) (*palette, error) {
	p := &palette{
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.added, p.removed, p.hunk} {
		switch mode {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		case "auto":
		default:
			return nil, fmt.Errorf("unknown --color %q", mode)
		}
	}
	return p, nil
}

func emit(r result, af *applyFlags, colors *palette, stdout io.Writer, logger *slog.Logger) error {
	switch {
	case af.write:
		if r.change.Len() == 0 {
			return nil
		}
		info, err := os.Stat(r.path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(r.path, []byte(r.change.Apply()), info.Mode().Perm()); err != nil {
			return err
		}
		logger.Info("rewrote file", slog.String("file", r.path), slog.Int("edits", r.change.Len()))
		return nil

	case af.diff:
		diff, err := r.change.Diff(3)
		if err != nil {
			return err
		}
		for _, line := range strings.SplitAfter(diff, "\n") {
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				_, err = io.WriteString(stdout, line)
			case strings.HasPrefix(line, "+"):
				_, err = colors.added.Fprint(stdout, line)
			case strings.HasPrefix(line, "-"):
				_, err = colors.removed.Fprint(stdout, line)
			case strings.HasPrefix(line, "@@"):
				_, err = colors.hunk.Fprint(stdout, line)
			default:
				_, err = io.WriteString(stdout, line)
			}
			if err != nil {
				return err
			}
		}
		return nil

	default:
		_, err := io.WriteString(stdout, r.change.Apply())
		return err
	}
}
