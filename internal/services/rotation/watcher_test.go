package rotation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
	"whisperlink/internal/services/rotation"
)

const fixedKey = domain.PublicKey("AQIDBAUGBwgJCgsMDQ4PEBESExQVFhcYGRobHB0eHyA=")

func recv(t *testing.T, ch <-chan domain.LinkCode) domain.LinkCode {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for link code")
		return ""
	}
}

func TestWatcher_RotatesAtMidnight(t *testing.T) {
	mc := clock.NewMock()
	mc.Set(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC))

	w := rotation.New(nil, mc, nil)
	codes := make(chan domain.LinkCode, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, fixedKey, func(c domain.LinkCode) { codes <- c }) }()

	assert.Equal(t, domain.LinkCode("BJ84-9TJM"), recv(t, codes))

	mc.Add(30 * time.Minute)
	select {
	case c := <-codes:
		t.Fatalf("rotated early: %s", c)
	default:
	}

	mc.Add(30 * time.Minute)
	assert.Equal(t, domain.LinkCode("ESKG-JHFE"), recv(t, codes))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_DerivationError(t *testing.T) {
	broken := crypto.HasherFunc(func([]byte) ([32]byte, error) {
		return [32]byte{}, errors.New("digest blocked")
	})
	w := rotation.New(broken, clock.NewMock(), nil)

	called := false
	err := w.Run(context.Background(), fixedKey, func(domain.LinkCode) { called = true })
	require.ErrorIs(t, err, crypto.ErrCryptoUnavailable)
	assert.False(t, called)
}
