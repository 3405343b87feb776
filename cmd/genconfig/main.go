// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// genconfig writes deploy/.env.example and deploy/config.yaml.example from
// the defaults in the config package.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/choosestockbroker/web/config"
	"codeberg.org/choosestockbroker/web/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# ChooseStockBroker configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# Environment variables override config.yaml.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# ChooseStockBroker configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	proxySettingsComment = `## Network proxy settings for requests to the CMS
## ref: https://pkg.go.dev/net/http#ProxyFromEnvironment
# HTTPS_PROXY=
# HTTP_PROXY=`
)

// uncommented lists the settings every deployment has to look at.
var uncommented = map[string]bool{
	"CSB_HOST":    true,
	"CSB_PORT":    true,
	"CSB_CMS_URL": true,
}

// notes are printed above a setting in both files.
var notes = map[string]string{
	"CSB_SECRET":             "Hex encoded v4.public secret key for outbound links. Leave empty to generate one per process.",
	"CSB_CMS_WEBHOOK_SECRET": "Bearer token the CMS sends to /api/revalidate. Leave empty to disable the endpoint.",
	"CSB_CLICKS_DATABASE":    "Path of the SQLite database for outbound clicks.",
}

func main() {
	audit.SetDefaultLogger()

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	write(envOutputFile, envFile(cfg))
	write(yamlOutputFile, yamlFile(cfg))
}

func write(path, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to create output directory")
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Generated example file")
}

// envFile lists every env-tagged field, grouped by section.
func envFile(cfg *config.ServerConfig) string {
	var sb strings.Builder

	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		section := val.Field(i)
		if section.Kind() != reflect.Struct || typ.Field(i).Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", typ.Field(i).Name)

		for j := range section.NumField() {
			tag, ok := section.Type().Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")
			value := section.Field(j)

			if note, ok := notes[name]; ok {
				fmt.Fprintf(&sb, "# %s\n", note)
			}

			switch {
			case uncommented[name]:
				fmt.Fprintf(&sb, "%s=\"%v\"\n", name, value.Interface())
			case value.Kind() == reflect.Slice, value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&sb, "# %s=\n", name)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", name, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString(proxySettingsComment + "\n")

	return sb.String()
}

// yamlFile encodes the defaults and comments out every leaf setting.
func yamlFile(cfg *config.ServerConfig) string {
	var encoded strings.Builder

	enc := yaml.NewEncoder(&encoded, config.GetDurationEncoderOption(), yaml.Indent(2))
	if err := enc.Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	yamlNotes := yamlKeyNotes()

	var sb strings.Builder

	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(encoded.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Section headers such as "cms:".
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		indent := strings.Repeat(" ", len(line)-len(strings.TrimLeft(line, " ")))
		key, _, _ := strings.Cut(trimmed, ":")

		if note, ok := yamlNotes[key]; ok {
			fmt.Fprintf(&sb, "%s# -- %s\n", indent, note)
		}

		fmt.Fprintf(&sb, "%s# %s\n", indent, trimmed)
	}

	return sb.String()
}

// yamlKeyNotes maps the YAML key of each noted setting to its note.
func yamlKeyNotes() map[string]string {
	out := make(map[string]string, len(notes))

	typ := reflect.TypeFor[config.ServerConfig]()

	for i := range typ.NumField() {
		section := typ.Field(i).Type
		if section.Kind() != reflect.Struct {
			continue
		}

		for j := range section.NumField() {
			f := section.Field(j)

			env, _, _ := strings.Cut(f.Tag.Get("env"), ",")
			yamlKey, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")

			if note, ok := notes[env]; ok && yamlKey != "" {
				out[yamlKey] = note
			}
		}
	}

	return out
}
