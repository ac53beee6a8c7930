package app

import (
	"os"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvToConfig.
const (
	EnvSDKPath          = "PLAYDATE_SDK_PATH"
	EnvBindings         = "DOCSCRAPE_BINDINGS"
	EnvOutput           = "DOCSCRAPE_OUTPUT"
	EnvNamespaces       = "DOCSCRAPE_NAMESPACES"
	EnvSkipVersionCheck = "DOCSCRAPE_SKIP_VERSION_CHECK"
	EnvVersionTimeout   = "DOCSCRAPE_VERSION_TIMEOUT"
	EnvVerbose          = "VERBOSE"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, envKey string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(envKey))
		}
	}
	setString(&cfg.SDKPath, EnvSDKPath)
	setString(&cfg.BindingsPath, EnvBindings)
	setString(&cfg.OutputPath, EnvOutput)
	setString(&cfg.NamespaceFile, EnvNamespaces)

	if cfg.VersionCheckTimeout == 0 {
		if s := os.Getenv(EnvVersionTimeout); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.VersionCheckTimeout = d
			}
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.SkipVersionCheck, EnvSkipVersionCheck)
	setBool(&cfg.Verbose, EnvVerbose)
}
