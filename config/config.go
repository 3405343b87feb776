// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads the server configuration from defaults, a YAML file,
// a .env file and CSB_* environment variables, in that order of precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"CSB_HOST" yaml:"host"`
		Port                     string      `env:"CSB_PORT" yaml:"port"`
		UnixSocket               string      `env:"CSB_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"CSB_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"CSB_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"CSB_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
		// Hex encoded v4.public secret key used to sign outbound broker links.
		PasetoSecret string `env:"CSB_SECRET" yaml:"secret"`
	} `yaml:"basic"`

	CMS struct {
		URL              string        `env:"CSB_CMS_URL" yaml:"url"`
		APIKey           string        `env:"CSB_CMS_API_KEY" yaml:"apiKey"`
		APIKeyCollection string        `env:"CSB_CMS_API_KEY_COLLECTION" yaml:"apiKeyCollection"`
		PageSize         int           `env:"CSB_CMS_PAGE_SIZE" yaml:"pageSize"`
		MaxPages         int           `env:"CSB_CMS_MAX_PAGES" yaml:"maxPages"`
		Timeout          time.Duration `env:"CSB_CMS_TIMEOUT" yaml:"timeout"`
		WebhookSecret    string        `env:"CSB_CMS_WEBHOOK_SECRET" yaml:"webhookSecret"`
	} `yaml:"cms"`

	Cache struct {
		Enabled  bool          `env:"CSB_CACHE" yaml:"enabled"`
		Size     int           `env:"CSB_CACHE_SIZE" yaml:"cacheSize"`
		TTL      time.Duration `env:"CSB_CACHE_TTL" yaml:"cacheTTL"`
		Compress bool          `env:"CSB_CACHE_COMPRESS" yaml:"compress"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"CSB_CACHE_CONTROL_MAX_AGE" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"CSB_CACHE_CONTROL_STALE_WHILE_REVALIDATE" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Feature struct {
		// Only list brokers whose countries include the visitor's selected country.
		FilterByCountry bool `env:"CSB_FILTER_BY_COUNTRY" yaml:"filterByCountry"`
		ExitIntentPopup bool `env:"CSB_EXIT_INTENT_POPUP" yaml:"exitIntentPopup"`
	} `yaml:"feature"`

	Instance struct {
		SiteURL           string `env:"CSB_SITE_URL" yaml:"siteUrl"`
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment        bool   `env:"CSB_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"CSB_SAVE_RESPONSES" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"CSB_RESPONSE_SAVE_LOCATION" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"CSB_LOG_LEVEL" yaml:"logLevel"`
		Outputs []string `env:"CSB_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"CSB_LOG_FORMAT" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled      bool     `env:"CSB_LIMITER" yaml:"enabled"`
		PassIPs      []string `env:"CSB_LIMITER_PASS_IPS" yaml:"passList"`
		BlockIPs     []string `env:"CSB_LIMITER_BLOCK_IPS" yaml:"blockList"`
		FilterLocal  bool     `env:"CSB_LIMITER_FILTER_LOCAL" yaml:"filterLocal"`
		IPv4Prefix   int      `env:"CSB_LIMITER_IPV4_PREFIX" yaml:"ipv4Prefix"`
		IPv6Prefix   int      `env:"CSB_LIMITER_IPV6_PREFIX" yaml:"ipv6Prefix"`
		CheckHeaders bool     `env:"CSB_LIMITER_CHECK_HEADERS" yaml:"checkHeaders"`
		// Sustained requests per second allowed per client network.
		Rate  float64 `env:"CSB_LIMITER_RATE" yaml:"rate"`
		Burst int     `env:"CSB_LIMITER_BURST" yaml:"burst"`
	} `yaml:"limiter"`

	Clicks struct {
		Enabled      bool   `env:"CSB_CLICKS" yaml:"enabled"`
		DatabasePath string `env:"CSB_CLICKS_DATABASE" yaml:"databasePath"`
	} `yaml:"clicks"`

	Internationalization struct {
		// Log missing translations once per locale and wrap them in "⟦...⟧".
		StrictMissingKeys bool `env:"CSB_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from all sources, validates it and sets up logging.
func (cfg *ServerConfig) LoadConfig() error {
	configFilePath := resolveConfigPath(parseCommandLineArgs())

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := cfg.setupAudit(); err != nil {
		return err
	}

	cfg.print()

	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a container but not bound to a wildcard address; the site may be unreachable from outside")
	}

	return nil
}

// resolveConfigPath picks the YAML file: the -config flag if given,
// then CSB_CONFIGFILE, then ./config.yaml or ./config.yml.
func resolveConfigPath(flagValue string) string {
	userSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			userSet = true
		}
	})

	if userSet {
		return flagValue
	}

	if envVar := os.Getenv("CSB_CONFIGFILE"); envVar != "" {
		return envVar
	}

	if _, err := os.Stat(flagValue); os.IsNotExist(err) {
		if _, statErr := os.Stat("./config.yml"); statErr == nil {
			return "./config.yml"
		}
	}

	return flagValue
}

var staticSkippedPathPrefixes = []string{"/img/", "/css/", "/js/"}

// ShouldSkipServerLogging reports whether a request path is a static asset not worth logging.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return path == "/robots.txt"
}

// isContainerized checks for common indicators of a container runtime.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	for _, marker := range []string{"/.dockerenv", "/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	// #nosec G304 -- well-known system file
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	content := string(cgroup)

	for _, keyword := range []string{"docker", "kubepods", "containerd", "lxc", "crio", ".machine"} {
		if strings.Contains(content, keyword) {
			return true
		}
	}

	return false
}

// GetDurationEncoderOption marshals time.Duration as a human-readable string such as "30m".
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
