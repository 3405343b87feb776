// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package outbound issues and verifies the signed links behind the "Visit Site" buttons.

A broker's website is never put into the page directly. The page links to
/go/{token}, where the token is a paseto v4.public token naming the destination,
so the redirect endpoint cannot be abused as an open redirect. Followed links are
counted in the clicks store.
*/
package outbound

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"aidanwoods.dev/go-paseto"
)

// Implicit is the domain separation key. Changing it invalidates every issued link.
const Implicit = "ChooseStockBroker outbound link"

// TokenLifetime is how long a rendered link stays valid.
const TokenLifetime = 7 * 24 * time.Hour

const subject = "outbound"

var (
	ErrInvalidDestination = errors.New("outbound destination must be an absolute http(s) URL")
	ErrInvalidToken       = errors.New("invalid outbound token")
)

// Link is the payload of a token.
type Link struct {
	URL     string
	Broker  string
	Locale  string
	Country string
}

// Signer signs and verifies outbound link tokens.
type Signer struct {
	secret paseto.V4AsymmetricSecretKey

	// now is swapped out by tests.
	now func() time.Time
}

// NewSigner returns a signer for a hex-encoded v4 secret key.
// An empty hex generates a throwaway key, so links die with the process.
func NewSigner(hex string) (*Signer, error) {
	var (
		key paseto.V4AsymmetricSecretKey
		err error
	)

	if hex == "" {
		key = paseto.NewV4AsymmetricSecretKey()
	} else if key, err = paseto.NewV4AsymmetricSecretKeyFromHex(hex); err != nil {
		return nil, fmt.Errorf("failed to load outbound secret key: %w", err)
	}

	return &Signer{
		secret: key,
		now:    time.Now,
	}, nil
}

// Sign returns a token for l.
func (s *Signer) Sign(l Link) (string, error) {
	if !validDestination(l.URL) {
		return "", ErrInvalidDestination
	}

	now := s.now()

	token := paseto.NewToken()
	token.SetSubject(subject)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(TokenLifetime))
	token.SetString("url", l.URL)
	token.SetString("broker", l.Broker)
	token.SetString("locale", l.Locale)
	token.SetString("country", l.Country)

	return token.V4Sign(s.secret, []byte(Implicit)), nil
}

// Path returns /go/{token} for l, or "" when l has no usable destination.
func (s *Signer) Path(l Link) string {
	token, err := s.Sign(l)
	if err != nil {
		return ""
	}

	return "/go/" + token
}

// Verify checks a token and returns its link.
func (s *Signer) Verify(raw string) (Link, error) {
	parser := paseto.MakeParser([]paseto.Rule{
		paseto.ValidAt(s.now()),
		paseto.Subject(subject),
	})

	token, err := parser.ParseV4Public(s.secret.Public(), raw, []byte(Implicit))
	if err != nil {
		return Link{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var l Link

	if l.URL, err = token.GetString("url"); err != nil || !validDestination(l.URL) {
		return Link{}, ErrInvalidToken
	}

	l.Broker, _ = token.GetString("broker")
	l.Locale, _ = token.GetString("locale")
	l.Country, _ = token.GetString("country")

	return l, nil
}

func validDestination(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
