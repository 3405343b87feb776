// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"

	"aidanwoods.dev/go-paseto"
	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/server/utils"
)

var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errPasetoSecretInvalid          = errors.New("basic.secret is not a valid hex encoded v4 secret key")
	errInvalidPageSize              = errors.New("cms.pageSize must be between 1 and 1000")
	errInvalidMaxPages              = errors.New("cms.maxPages must be positive")
	errInvalidCacheSize             = errors.New("cache.cacheSize must be positive when the cache is enabled")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
	errInvalidLimiterRate           = errors.New("limiter.rate and limiter.burst must be positive")
	errEmptyClicksDatabase          = errors.New("clicks.databasePath cannot be empty when click tracking is enabled")
)

const maxCMSPageSize = 1000

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and normalizes some fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	cmsURL, err := utils.ParseURL(cfg.CMS.URL, "CMS")
	if err != nil {
		return err
	}

	cfg.CMS.URL = cmsURL.String()

	siteURL, err := utils.ParseURL(cfg.Instance.SiteURL, "Site")
	if err != nil {
		return err
	}

	cfg.Instance.SiteURL = siteURL.String()

	if cfg.CMS.PageSize < 1 || cfg.CMS.PageSize > maxCMSPageSize {
		return errInvalidPageSize
	}

	if cfg.CMS.MaxPages < 1 {
		return errInvalidMaxPages
	}

	if cfg.CMS.APIKey == "" {
		log.Warn().Msg("No CMS API key configured, requests will be anonymous")
	}

	if cfg.Cache.Enabled && cfg.Cache.Size < 1 {
		return errInvalidCacheSize
	}

	if cfg.Basic.PasetoSecret != "" {
		if _, err := paseto.NewV4AsymmetricSecretKeyFromHex(cfg.Basic.PasetoSecret); err != nil {
			key := paseto.NewV4AsymmetricSecretKey()
			log.Error().Err(err).Msgf("Generated secret key (put this in config.yaml)\nbasic:\n  secret: \"%s\"", key.ExportHex())

			return errPasetoSecretInvalid
		}
	}

	if cfg.Clicks.Enabled && cfg.Clicks.DatabasePath == "" {
		return errEmptyClicksDatabase
	}

	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	if cfg.Limiter.Rate <= 0 || cfg.Limiter.Burst < 1 {
		return errInvalidLimiterRate
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "3000"
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseFileMode(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if u := cfg.Basic.UnixSocketUser; u != "" {
		lookup := func(s string) error { _, err := user.Lookup(s); return err }
		if digitsRegexp.MatchString(u) {
			lookup = func(s string) error { _, err := user.LookupId(s); return err }
		}

		if lookup(u) != nil {
			return fmt.Errorf("%w: %s", errUnixSocketUserDoesNotExist, u)
		}
	}

	if g := cfg.Basic.UnixSocketGroup; g != "" {
		lookup := func(s string) error { _, err := user.LookupGroup(s); return err }
		if digitsRegexp.MatchString(g) {
			lookup = func(s string) error { _, err := user.LookupGroupId(s); return err }
		}

		if lookup(g) != nil {
			return fmt.Errorf("%w: %s", errUnixSocketGroupDoesNotExist, g)
		}
	}

	return nil
}

// parseFileMode accepts "660", "0660" or "rw-rw----". Empty means 0666.
func parseFileMode(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil
	case fileModeOctalRegexp.MatchString(raw):
		mode, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(mode), nil
	case fileModeStringRegexp.MatchString(raw):
		var mode os.FileMode

		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (8 - i)
			}
		}

		return mode, nil
	default:
		return 0, errUnixSocketInvalidPermissions
	}
}
