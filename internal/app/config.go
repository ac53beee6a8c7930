package app

import "time"

// Defaults matching the layout of a Playdate SDK install and the bindings repo.
const (
	DefaultHTMLFile            = "Inside Playdate with C.html"
	DefaultVersionFile         = "VERSION.txt"
	DefaultBindingsPath        = "../src/playdate_api_definitions.zig"
	DefaultOutputPath          = "playdate_api_definitions_with_comments.zig"
	DefaultVersionCheckTimeout = 10 * time.Second
	DefaultUserAgent           = "docscrape/1.0 (+https://github.com/hyperifyio/docscrape)"
)

// Config holds runtime configuration for the application.
type Config struct {
	// SDK install
	SDKPath     string
	HTMLFile    string
	VersionFile string

	// Bindings in and out
	BindingsPath  string
	OutputPath    string
	NamespaceFile string

	// Docs links and freshness check
	DocsBaseURL         string
	LatestVersionURL    string
	SkipVersionCheck    bool
	VersionCheckTimeout time.Duration
	UserAgent           string

	Verbose bool
}

// withDefaults fills empty fields. SDKPath has no default.
func (c Config) withDefaults() Config {
	if c.HTMLFile == "" {
		c.HTMLFile = DefaultHTMLFile
	}
	if c.VersionFile == "" {
		c.VersionFile = DefaultVersionFile
	}
	if c.BindingsPath == "" {
		c.BindingsPath = DefaultBindingsPath
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.VersionCheckTimeout <= 0 {
		c.VersionCheckTimeout = DefaultVersionCheckTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}
