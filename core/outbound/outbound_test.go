// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package outbound

import (
	"context"
	"strings"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	s, err := NewSigner(paseto.NewV4AsymmetricSecretKey().ExportHex())
	require.NoError(t, err)

	link := Link{URL: "https://acme.example/open?ref=csb", Broker: "7", Locale: "vi", Country: "vn"}

	token, err := s.Sign(link)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.public."))

	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, link, got)

	assert.True(t, strings.HasPrefix(s.Path(link), "/go/v4.public."))
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	s, err := NewSigner("")
	require.NoError(t, err)

	other, err := NewSigner("")
	require.NoError(t, err)

	token, err := s.Sign(Link{URL: "https://acme.example"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken, "foreign key")

	_, err = s.Verify(token + "x")
	require.ErrorIs(t, err, ErrInvalidToken, "tampered")

	issued := time.Now()
	s.now = func() time.Time { return issued.Add(TokenLifetime + time.Minute) }

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestSignRejectsUnsafeDestinations(t *testing.T) {
	t.Parallel()

	s, err := NewSigner("")
	require.NoError(t, err)

	for _, dest := range []string{"", "/relative", "javascript:alert(1)", "ftp://files.example", "https://"} {
		_, err := s.Sign(Link{URL: dest})
		assert.ErrorIs(t, err, ErrInvalidDestination, dest)
		assert.Empty(t, s.Path(Link{URL: dest}))
	}
}

func TestNewSignerBadHex(t *testing.T) {
	t.Parallel()

	_, err := NewSigner("not hex")
	assert.Error(t, err)
}

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := openStore("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStoreCounts(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	for _, broker := range []string{"b", "a", "b", "c", "a", "b"} {
		require.NoError(t, s.Record(ctx, Click{Broker: broker, URL: "https://" + broker + ".example"}))
	}

	counts, err := s.CountByBroker(ctx)
	require.NoError(t, err)
	assert.Equal(t, []BrokerCount{{"b", 3}, {"a", 2}, {"c", 1}}, counts)
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NoopRecorder{}

	require.NoError(t, r.Record(context.Background(), Click{Broker: "a"}))

	counts, err := r.CountByBroker(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.NoError(t, r.Close())
}
