// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/dacolabs/schemagen/internal/config"
	"github.com/dacolabs/schemagen/internal/generator"
	"github.com/dacolabs/schemagen/internal/jschema"
	"github.com/dacolabs/schemagen/internal/jsonnode"
	"github.com/dacolabs/schemagen/internal/keyword"
	"github.com/dacolabs/schemagen/internal/prompts"
	"github.com/dacolabs/schemagen/internal/session"
	"github.com/dacolabs/schemagen/internal/typemodel/gosource"
)

type generateOptions struct {
	types   []string
	dialect string
	preset  string
	with    []string
	without []string
	modules []string
	output  string
	check   bool
	verify  bool
	verbose bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate JSON schemas for Go types",
		Long: `Generate one JSON Schema document per root type.

Types are given as import path and name ("example.com/app/model.User"), by a
suffix of it ("model.User"), or as "model.*" for every exported named type of a
package. Flags override the values of schemagen.yaml.`,
		Example: `  # Interactive type selection
  schemagen generate

  # Generate specific types
  schemagen generate -t model.User -t model.Order

  # Every type of a package as YAML, targeting draft-07
  schemagen generate -t model.* --dialect draft-07 -o "schemas/{name}.yaml"

  # Fail if the files on disk are out of date
  schemagen generate --check`,
		Args:    cobra.NoArgs,
		PreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.types, "type", "t", nil, "Root type, repeatable")
	cmd.Flags().StringVar(&opts.dialect, "dialect", "", "Schema dialect (draft-06, draft-07, draft-2019-09, draft-2020-12)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "Option preset (full-documentation, plain-json, go-object)")
	cmd.Flags().StringSliceVar(&opts.with, "with", nil, "Options to enable")
	cmd.Flags().StringSliceVar(&opts.without, "without", nil, "Options to disable")
	cmd.Flags().StringSliceVarP(&opts.modules, "module", "m", nil, "Metadata modules, replacing the configured ones")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path pattern with {name} and {package}")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Compare with the files on disk instead of writing")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "Check that every $ref of the generated documents resolves")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log generation details")

	return cmd
}

// apply returns a copy of cfg with the flags that were set on cmd.
func (o *generateOptions) apply(cmd *cobra.Command, cfg *config.Config) *config.Config {
	c := *cfg
	c.Options.With = slices.Clone(cfg.Options.With)
	c.Options.Without = slices.Clone(cfg.Options.Without)
	flags := cmd.Flags()
	if flags.Changed("type") {
		c.Types = o.types
	}
	if flags.Changed("dialect") {
		c.Dialect = o.dialect
	}
	if flags.Changed("preset") {
		c.Preset = o.preset
	}
	if flags.Changed("module") {
		c.Modules = o.modules
	}
	if flags.Changed("output") {
		c.Output = o.output
	}
	c.Options.With = append(c.Options.With, o.with...)
	c.Options.Without = append(c.Options.Without, o.without...)
	return &c
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	sess, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}

	cfg := opts.apply(cmd, sess.Config)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
	builder, err := cfg.Builder(logger)
	if err != nil {
		return err
	}
	genCfg := builder.Build()

	res, err := gosource.Load(cmd.Context(), cfg.Packages, gosource.Options{
		Dir:     sess.Dir,
		Methods: true,
		Unexported: genCfg.Enabled(generator.NonPublicNonStaticFieldsWithGetters) ||
			genCfg.Enabled(generator.NonPublicNonStaticFieldsWithoutGetters),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	roots, err := matchTypes(res.Types, cfg.Types)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		if !interactive(cmd) {
			return errors.New("no types given; use --type or list types in schemagen.yaml")
		}
		if roots, err = prompts.SelectTypes(res.Types); err != nil {
			return err
		}
	}

	targets, err := outputPaths(sess.Dir, cfg, roots)
	if err != nil {
		return err
	}

	gen := generator.New(genCfg, res.Universe, generator.WithLogger(logger))
	out := cmd.OutOrStdout()
	var done, stale []prompts.ResultField
	for i, name := range roots {
		path := targets[i]
		doc, err := gen.GenerateNamed(name)
		if err != nil {
			return err
		}
		if opts.verify {
			if err := verify(doc, genCfg.Dialect()); err != nil {
				return fmt.Errorf("verifying %s: %w", name, err)
			}
		}
		data, err := jschema.Encode(doc, jschema.FormatFromPath(path))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		field := prompts.ResultField{Label: simpleName(name), Value: displayPath(sess.Dir, path)}

		if opts.check {
			same, err := compare(out, path, data)
			if err != nil {
				return err
			}
			if !same {
				stale = append(stale, field)
				continue
			}
			done = append(done, field)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Debug("schema written", "type", name, "path", path)
		done = append(done, field)
	}

	if len(stale) > 0 {
		prompts.PrintFailure(out, stale)
		return fmt.Errorf("%d schema(s) out of date", len(stale))
	}
	verb := "Generated"
	if opts.check {
		verb = "Checked"
	}
	prompts.PrintResult(out, done, fmt.Sprintf("%s %d schema(s)", verb, len(done)))
	return nil
}

// matchTypes selects the discovered types named by patterns, keeping the
// order of the patterns. A pattern that selects nothing is an error.
func matchTypes(available, patterns []string) ([]string, error) {
	var matched []string
	for _, p := range patterns {
		found := false
		for _, name := range available {
			if !matchType(name, p) {
				continue
			}
			found = true
			if !slices.Contains(matched, name) {
				matched = append(matched, name)
			}
		}
		if !found {
			return nil, &config.ConfigurationError{Field: "type", Value: p, Reason: "no matching type"}
		}
	}
	return matched, nil
}

func matchType(name, pattern string) bool {
	if pkg, ok := strings.CutSuffix(pattern, ".*"); ok {
		return pathMatch(packageOf(name), pkg)
	}
	return pathMatch(name, pattern)
}

// pathMatch reports whether pattern equals s or a trailing part of it that
// starts after a slash.
func pathMatch(s, pattern string) bool {
	return s == pattern || strings.HasSuffix(s, "/"+pattern)
}

func packageOf(name string) string {
	return name[:max(strings.LastIndexByte(name, '.'), 0)]
}

func simpleName(name string) string {
	return name[strings.LastIndexByte(name, '.')+1:]
}

// outputPaths expands the output pattern for every root. Relative paths are
// resolved against dir. Two roots sharing a file is an error.
func outputPaths(dir string, cfg *config.Config, roots []string) ([]string, error) {
	paths := make([]string, len(roots))
	owners := make(map[string]string, len(roots))
	for i, name := range roots {
		p := cfg.OutputPath(packageOf(name), simpleName(name))
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if other, ok := owners[p]; ok {
			return nil, &config.ConfigurationError{
				Field:  "output",
				Value:  cfg.Output,
				Reason: fmt.Sprintf("%s and %s are both written to %s", other, name, p),
			}
		}
		owners[p] = name
		paths[i] = p
	}
	return paths, nil
}

func displayPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// verify checks the $refs of doc. Draft 2020-12 documents are also resolved
// by the validator.
func verify(doc *jsonnode.Node, dialect keyword.Dialect) error {
	schema, err := jschema.FromNode(doc)
	if err != nil {
		return err
	}
	if err := jschema.VerifyRefs(schema); err != nil {
		return err
	}
	if dialect == keyword.Draft2020_12 {
		_, err = jschema.Resolve(schema)
	}
	return err
}

// compare reports whether the file at path holds the document encoded in
// data and writes a line diff to w when it does not. Documents are compared
// structurally, so formatting and key order are not significant.
func compare(w io.Writer, path string, data []byte) (bool, error) {
	format := jschema.FormatFromPath(path)
	want, err := jschema.Decode(data, format)
	if err != nil {
		return false, err
	}
	loader := jschema.NewLoader(os.DirFS(filepath.Dir(path)))
	got, err := loader.LoadNode(filepath.Base(path))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(w, "%s does not exist\n", path)
		return false, nil
	case err == nil && got.Equal(want):
		return true, nil
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(w, "--- %s\n+++ generated\n%s", path, lineDiff(string(existing), string(data)))
	return false, nil
}

// lineDiff renders the changed lines between a and b.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for line := range strings.Lines(d.Text) {
			sb.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return sb.String()
}
