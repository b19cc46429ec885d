// Package main provides the wiki-collector CLI that scans a game assets
// tree, resolves a globally-unique wiki page title for every entity and
// produces a PAGES bundle (-out) and/or a DELTA report (-delta) against
// the previous run.
//
// Modes:
//   - PAGES bundle : wiki-collector -out pages.zip [flags] <assets_dir>
//   - DELTA report : wiki-collector -delta delta.zip [flags] <assets_dir>
//
// Key design goals:
//   - Deterministic output (sorted entries, fixed ZIP timestamps)
//   - Safe snapshot workflow (atomic writes, per-assets-dir cache)
//   - Clear, minimal CLI flags with sensible defaults
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wiki-collector/internal/assets"
	"wiki-collector/internal/diff"
	"wiki-collector/internal/meta"
	"wiki-collector/internal/overrides"
	"wiki-collector/internal/pages"
	"wiki-collector/internal/registry"
	"wiki-collector/internal/snapshot"
	"wiki-collector/internal/validate"
)

// Config holds the parsed CLI configuration for one run.
type Config struct {
	assetsDir     string
	pagesOut      string
	deltaOut      string
	overridesPath string
	tmpDir        string
	reset         bool
	saveSnapshot  bool
	maxDiffBytes  int
	diffContext   int
	debug         bool
}

func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("wiki-collector", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  PAGES : %s -out pages.zip [flags] <assets_dir>\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  DELTA : %s -delta delta.zip [flags] <assets_dir>\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	var cfg Config
	fs.StringVar(&cfg.pagesOut, "out", "", "path to output PAGES zip bundle")
	fs.StringVar(&cfg.deltaOut, "delta", "", "path to output DELTA report zip")
	fs.StringVar(&cfg.overridesPath, "overrides", "", "YAML file with per-kind title overrides")
	fs.StringVar(&cfg.tmpDir, "tmp-dir", "tmp/.wcache", "base cache directory for snapshots")
	fs.BoolVar(&cfg.reset, "new", false, "reset cache for this <assets_dir> before building")
	fs.BoolVar(&cfg.saveSnapshot, "save-snapshot", true, "save snapshot in tmp after the run")
	fs.IntVar(&cfg.maxDiffBytes, "max-diff-bytes", 2_000_000, "max bytes for diffs in -delta (0 = no limit)")
	fs.IntVar(&cfg.diffContext, "diff-context", 4, "context lines in unified diffs")
	fs.BoolVar(&cfg.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.pagesOut == "" && cfg.deltaOut == "" {
		return Config{}, fmt.Errorf("one of -out or -delta is required")
	}
	if fs.NArg() != 1 {
		return Config{}, fmt.Errorf("exactly one <assets_dir> argument is required")
	}
	cfg.assetsDir = filepath.Clean(fs.Arg(0))
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func run(cfg Config) error {
	logger, err := newLogger(cfg.debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Overrides first: a broken override table should fail before any
	// asset is touched.
	ov, err := overrides.Load(cfg.overridesPath)
	if err != nil {
		return err
	}
	if err := validate.Overrides(ov); err != nil {
		return err
	}

	info := meta.Detect(cfg.assetsDir)
	logger.Info("assets metadata",
		zap.String("module", info.Name),
		zap.String("version", info.Version))

	ents, err := assets.Load(cfg.assetsDir, logger)
	if err != nil {
		return err
	}
	if len(ents) == 0 {
		return fmt.Errorf("no entities found under %s", cfg.assetsDir)
	}

	res := registry.New(logger, ov)
	for _, e := range ents {
		if err := res.Add(e); err != nil {
			return fmt.Errorf("registering %s %q: %w", e.EntityKind(), e.Identifier(), err)
		}
	}

	man := pages.Build(res, ents, info)
	if err := validate.Manifest(man); err != nil {
		return err
	}

	if cfg.pagesOut != "" {
		if err := pages.WriteBundle(cfg.pagesOut, man); err != nil {
			return fmt.Errorf("writing pages bundle: %w", err)
		}
		fmt.Printf("Wrote pages bundle %s (pages=%d)\n", cfg.pagesOut, len(man.Pages))
	}

	// Snapshot workflow: compare against the previous run, then persist
	// the current page set as the next baseline.
	assetsAbs, _ := filepath.Abs(cfg.assetsDir)
	cacheDir := snapshot.CacheDir(cfg.tmpDir, assetsAbs)
	if cfg.reset {
		_ = snapshot.Clear(cacheDir)
	}
	curr := pages.ToSnapshot(man)

	if cfg.deltaOut != "" {
		prev, err := snapshot.Load(cacheDir)
		if err != nil {
			return fmt.Errorf("loading previous snapshot: %w", err)
		}
		d := snapshot.BuildDelta(prev, curr)
		opt := diff.Options{MaxBytes: cfg.maxDiffBytes, Context: cfg.diffContext}
		if err := pages.WriteDeltaReport(cfg.deltaOut, d, opt); err != nil {
			return fmt.Errorf("writing delta report: %w", err)
		}
		fmt.Printf("Wrote delta report %s (added=%d, removed=%d, renamed=%d, changed=%d)\n",
			cfg.deltaOut, len(d.Added), len(d.Removed), len(d.Renamed), len(d.Changed))
	}

	if cfg.saveSnapshot {
		if err := snapshot.Save(cacheDir, curr); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
