package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/docscrape/internal/extract"
	"github.com/hyperifyio/docscrape/internal/fetch"
	"github.com/hyperifyio/docscrape/internal/inject"
	"github.com/hyperifyio/docscrape/internal/namespace"
)

// VersionChecker reports the newest published SDK version.
type VersionChecker interface {
	LatestVersion(ctx context.Context, url string) (string, error)
}

type App struct {
	cfg       Config
	extractor extract.Extractor
	versions  VersionChecker
	table     namespace.Table
}

// Result summarizes a completed run.
type Result struct {
	SDKVersion    string
	LatestVersion string
	Records       int
	Injected      int
	Skipped       int
	Warnings      []inject.Warning
	OutputPath    string
}

// New validates cfg and prepares the namespace table. Configuration errors
// are returned before any file is read.
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	table := namespace.Default()
	if cfg.NamespaceFile != "" {
		extra, err := namespace.LoadFile(cfg.NamespaceFile)
		if err != nil {
			return nil, fmt.Errorf("load namespaces: %w", err)
		}
		table = table.Merge(extra)
		log.Debug().Str("file", cfg.NamespaceFile).Int("entries", len(extra)).Msg("namespace overrides loaded")
	}
	return &App{
		cfg:       cfg,
		extractor: extract.HTMLExtractor{},
		versions: &fetch.Client{
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.VersionCheckTimeout,
		},
		table: table,
	}, nil
}

// SetVersionChecker replaces the network freshness check.
func (a *App) SetVersionChecker(v VersionChecker) { a.versions = v }

// Run scrapes the SDK reference and writes the commented bindings file. The
// bindings file itself is never modified.
func (a *App) Run(ctx context.Context) (Result, error) {
	sdk, err := filepath.Abs(a.cfg.SDKPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve sdk path: %w", err)
	}

	versionBytes, err := os.ReadFile(filepath.Join(sdk, a.cfg.VersionFile))
	if err != nil {
		return Result{}, fmt.Errorf("read sdk version: %w", err)
	}
	res := Result{SDKVersion: strings.TrimSpace(string(versionBytes)), OutputPath: a.cfg.OutputPath}

	if !a.cfg.SkipVersionCheck && a.versions != nil {
		res.LatestVersion = a.checkVersion(ctx, res.SDKVersion)
	}

	page, err := os.ReadFile(filepath.Join(sdk, a.cfg.HTMLFile))
	if err != nil {
		return res, fmt.Errorf("read sdk docs: %w", err)
	}
	records, err := a.extractor.Extract(page, extract.Options{SDKVersion: res.SDKVersion, DocsBaseURL: a.cfg.DocsBaseURL})
	if err != nil {
		return res, fmt.Errorf("extract: %w", err)
	}
	res.Records = len(records)
	log.Info().Int("functions", len(records)).Str("sdk", res.SDKVersion).Msg("extracted descriptions")

	src, err := os.ReadFile(a.cfg.BindingsPath)
	if err != nil {
		return res, fmt.Errorf("read bindings: %w", err)
	}
	buf := inject.NewBuffer(string(src))
	rep, err := inject.Injector{Resolver: a.table}.Apply(records, buf)
	if err != nil {
		return res, fmt.Errorf("inject: %w", err)
	}
	res.Injected, res.Skipped, res.Warnings = rep.Injected, rep.Skipped, rep.Warnings
	for _, w := range rep.Warnings {
		log.Warn().Str("name", w.Identifier).Str("struct", w.Container).Str("property", w.Property).Msg(w.String())
	}

	if err := os.WriteFile(a.cfg.OutputPath, []byte(buf.String()), 0o644); err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("output", a.cfg.OutputPath).Int("injected", rep.Injected).Int("skipped", rep.Skipped).Msg("bindings written")
	return res, nil
}

// checkVersion is advisory: failures and mismatches only log.
func (a *App) checkVersion(ctx context.Context, current string) string {
	u := a.cfg.LatestVersionURL
	if u == "" {
		u = fetch.DefaultLatestURL
	}
	latest, err := a.versions.LatestVersion(ctx, u)
	if err != nil {
		log.Warn().Err(err).Str("url", u).Msg("latest SDK version check failed; continuing")
		return ""
	}
	if latest != current {
		log.Warn().Str("latest", latest).Str("current", current).
			Msgf("The latest SDK version is %s and you are using %s. The generated comments will be based on the %s SDK.", latest, current, current)
	}
	return latest
}
