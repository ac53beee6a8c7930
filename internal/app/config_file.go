package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// ErrMissingSDKPath is returned when no SDK directory was configured.
var ErrMissingSDKPath = errors.New("the " + EnvSDKPath + " environment variable is not set")

// FileConfig represents the optional single-file configuration schema.
type FileConfig struct {
	SDK struct {
		Path        string `yaml:"path" json:"path"`
		HTMLFile    string `yaml:"htmlFile" json:"htmlFile"`
		VersionFile string `yaml:"versionFile" json:"versionFile"`
	} `yaml:"sdk" json:"sdk"`

	Bindings   string `yaml:"bindings" json:"bindings"`
	Output     string `yaml:"output" json:"output"`
	Namespaces string `yaml:"namespaces" json:"namespaces"`

	Docs struct {
		BaseURL string `yaml:"baseURL" json:"baseURL"`
	} `yaml:"docs" json:"docs"`

	VersionCheck struct {
		URL     string        `yaml:"url" json:"url"`
		Skip    bool          `yaml:"skip" json:"skip"`
		Timeout time.Duration `yaml:"timeout" json:"timeout"`
		UA      string        `yaml:"ua" json:"ua"`
	} `yaml:"versionCheck" json:"versionCheck"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset in cfg, so flags and env keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	setString(&cfg.SDKPath, fc.SDK.Path)
	setString(&cfg.HTMLFile, fc.SDK.HTMLFile)
	setString(&cfg.VersionFile, fc.SDK.VersionFile)
	setString(&cfg.BindingsPath, fc.Bindings)
	setString(&cfg.OutputPath, fc.Output)
	setString(&cfg.NamespaceFile, fc.Namespaces)
	setString(&cfg.DocsBaseURL, fc.Docs.BaseURL)
	setString(&cfg.LatestVersionURL, fc.VersionCheck.URL)
	setString(&cfg.UserAgent, fc.VersionCheck.UA)
	if cfg.VersionCheckTimeout == 0 && fc.VersionCheck.Timeout > 0 {
		cfg.VersionCheckTimeout = fc.VersionCheck.Timeout
	}
	if !cfg.SkipVersionCheck && fc.VersionCheck.Skip {
		cfg.SkipVersionCheck = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig checks required settings after defaults are applied.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.SDKPath) == "" {
		return ErrMissingSDKPath
	}
	if strings.TrimSpace(cfg.BindingsPath) == "" {
		return errors.New("config: bindings path is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	in, err := filepath.Abs(cfg.BindingsPath)
	if err != nil {
		return fmt.Errorf("config: bindings path: %w", err)
	}
	out, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("config: output path: %w", err)
	}
	if in == out {
		return fmt.Errorf("config: output path %q would overwrite the bindings file", cfg.OutputPath)
	}
	return nil
}
