package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/docscrape/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := parseConfig(os.Args[1:])
	if errors.Is(err, errShowVersion) {
		fmt.Println(versionString())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// errShowVersion is returned by parseConfig when -version was given.
var errShowVersion = errors.New("show version")

func versionString() string {
	return fmt.Sprintf("docscrape %s (%s, %s)", app.BuildVersion, app.BuildCommit, app.BuildDate)
}

// parseConfig resolves configuration with precedence flags > env > config file > defaults.
func parseConfig(args []string) (app.Config, error) {
	var (
		cfg         app.Config
		configPath  string
		envFile     string
		showVersion bool
	)
	fs := flag.NewFlagSet("docscrape", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	fs.StringVar(&envFile, "env", ".env", "Path to dotenv file loaded before reading the environment")
	fs.StringVar(&cfg.SDKPath, "sdk", "", "Playdate SDK directory (default $"+app.EnvSDKPath+")")
	fs.StringVar(&cfg.BindingsPath, "bindings", "", "Bindings file to annotate (default "+app.DefaultBindingsPath+")")
	fs.StringVar(&cfg.OutputPath, "output", "", "Path of the annotated copy (default "+app.DefaultOutputPath+")")
	fs.StringVar(&cfg.NamespaceFile, "namespaces", "", "YAML file with extra namespace to struct mappings")
	fs.StringVar(&cfg.DocsBaseURL, "docs.base", "", "Base URL for documentation links")
	fs.StringVar(&cfg.LatestVersionURL, "version.url", "", "URL that redirects to the latest SDK docs")
	fs.BoolVar(&cfg.SkipVersionCheck, "version.skip", false, "Skip the latest SDK version check")
	fs.DurationVar(&cfg.VersionCheckTimeout, "version.timeout", 0, "Timeout for the latest SDK version check")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print build information and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if showVersion {
		return cfg, errShowVersion
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	res, err := a.Run(ctx)
	if err != nil {
		return err
	}
	if len(res.Warnings) > 0 {
		log.Warn().Int("count", len(res.Warnings)).Msg("some functions could not be placed")
	}
	return nil
}
