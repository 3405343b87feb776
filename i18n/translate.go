// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Vars holds named placeholder values.
type Vars map[string]any

// templateCache maps message text to its parsed *template.Template.
var templateCache sync.Map

// Tr translates msgid for the locale in ctx and fills its placeholders from kv,
// a list of alternating string keys and values.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return translate(ctx, msgid, "", 0, false, pairs(kv))
}

// TrN picks the plural form of singular/plural for n.
// Without a translation, singular is used when n == 1.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return translate(ctx, singular, plural, n, true, pairs(kv))
}

// Number formats n with the digit grouping of the locale in ctx, e.g. "1,234" or "1.234".
func Number(ctx context.Context, n int) string {
	return message.NewPrinter(TagFrom(ctx)).Sprintf("%d", n)
}

// UserError is an error whose message is already translated for the visitor.
type UserError struct {
	msg string
}

// NewUserError translates msgid and wraps it as an error.
func NewUserError(ctx context.Context, msgid string, kv ...any) *UserError {
	return &UserError{msg: Tr(ctx, msgid, kv...)}
}

func (e *UserError) Error() string {
	return e.msg
}

func translate(ctx context.Context, singular, plural string, n int, pluralMode bool, vars Vars) string {
	loc, matched := resolveLocale(TagFrom(ctx))

	text := singular
	if pluralMode && n != 1 {
		text = plural
	}

	found := false

	if loc != nil {
		if pluralMode {
			if found = loc.IsTranslatedND(poDomain, singular, n); found {
				text = loc.GetND(poDomain, singular, plural, n)
			}
		} else if found = loc.IsTranslatedD(poDomain, singular); found {
			text = loc.GetD(poDomain, singular)
		}
	}

	// The base locale is the msgid itself, so it is never missing.
	if !found && matched != baseTag && strictMissingKeys() {
		logMissingOnce(matched.String(), singular)

		text = "⟦" + text + "⟧"
	}

	return render(matched, text, vars)
}

// render executes s as a text/template with vars. Text without "{{" is returned unchanged.
func render(locale language.Tag, s string, vars Vars) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var tmpl *template.Template

	if cached, ok := templateCache.Load(s); ok {
		tmpl = cached.(*template.Template)
	} else {
		parsed, err := template.New("msg").Option("missingkey=error").Parse(s)
		if err != nil {
			Logger.Error().Err(err).Str("locale", locale.String()).Str("text", s).Msg("Failed to parse translation")

			return s
		}

		templateCache.Store(s, parsed)
		tmpl = parsed
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(vars)); err != nil {
		Logger.Error().Err(err).Str("locale", locale.String()).Str("text", s).Msg("Failed to render translation")

		return s
	}

	return buf.String()
}

// resolveLocale returns the catalog for t and the tag it matched.
// Before Setup it returns nil and baseTag.
func resolveLocale(t language.Tag) (*gotext.Locale, language.Tag) {
	if matcher == nil {
		return nil, baseTag
	}

	matched, _, _ := matcher.Match(t)

	// Strip the -u-rg extension the matcher may add so the map lookup hits.
	base, script, region := matched.Raw()
	stripped, _ := language.Compose(base, script, region)

	if loc, ok := localesByTag[stripped.String()]; ok {
		return loc, stripped
	}

	if loc, ok := localesByTag[base.String()]; ok {
		return loc, language.Make(base.String())
	}

	return nil, stripped
}

// pairs builds Vars from alternating key, value arguments.
// An odd count or a non-string key is a programming error and panics.
func pairs(kv []any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n: odd number of arguments, want key, value pairs")
	}

	vars := make(Vars, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("i18n: placeholder key must be a string")
		}

		vars[key] = kv[i+1]
	}

	return vars
}
