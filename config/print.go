// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

// Redacted returns a copy of cfg with every secret replaced by a marker.
func (cfg *ServerConfig) Redacted() ServerConfig {
	out := *cfg

	for _, secret := range []*string{&out.Basic.PasetoSecret, &out.CMS.APIKey, &out.CMS.WebhookSecret} {
		if *secret != "" {
			*secret = redactedValue
		}
	}

	return out
}

func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("cacheid", cfg.Instance.FileServerCacheID).
		Msg("Starting ChooseStockBroker")

	configYAML, err := yaml.MarshalWithOptions(cfg.Redacted(), GetDurationEncoderOption())
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
