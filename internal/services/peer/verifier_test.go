package peer_test

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
	"whisperlink/internal/services/peer"
)

const fixedKey = domain.PublicKey("AQIDBAUGBwgJCgsMDQ4PEBESExQVFhcYGRobHB0eHyA=")

var (
	jan1 = time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	jan2 = time.Date(2024, 1, 2, 0, 5, 0, 0, time.UTC)
)

func TestExpected(t *testing.T) {
	v := peer.New()
	code, err := v.Expected(domain.AlgorithmX25519, fixedKey, jan1)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkCode("BJ84-9TJM"), code)
}

func TestExpected_Memoized(t *testing.T) {
	calls := 0
	h := crypto.HasherFunc(func(b []byte) ([32]byte, error) {
		calls++
		return crypto.SHA256().Sum256(b)
	})
	v := peer.New(peer.WithHasher(h))

	for i := 0; i < 3; i++ {
		_, err := v.Expected(domain.AlgorithmX25519, fixedKey, jan1.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)

	_, err := v.Expected(domain.AlgorithmX25519, fixedKey, jan2)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestVerify(t *testing.T) {
	v := peer.New()
	require.NoError(t, v.Verify("", fixedKey, "bj849tjm", jan1))
	require.NoError(t, v.Verify("", fixedKey, "BJ84-9TJM", jan1))

	err := v.Verify("", fixedKey, "BJ84-9TJM", jan2)
	assert.ErrorIs(t, err, peer.ErrCodeMismatch)

	err = v.Verify("", fixedKey, "BJ84-9TJ", jan1)
	assert.ErrorIs(t, err, crypto.ErrMalformedLinkCode)
}

func TestVerify_GraceDays(t *testing.T) {
	v := peer.New(peer.WithGraceDays(1))
	require.NoError(t, v.Verify("", fixedKey, "BJ84-9TJM", jan2))
	require.NoError(t, v.Verify("", fixedKey, "ESKG-JHFE", jan2))

	err := v.Verify("", fixedKey, "BJ84-9TJM", jan2.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, peer.ErrCodeMismatch)
}

func TestVerify_PropagatesFailures(t *testing.T) {
	broken := crypto.HasherFunc(func([]byte) ([32]byte, error) {
		return [32]byte{}, errors.New("digest blocked")
	})
	v := peer.New(peer.WithHasher(broken))

	err := v.Verify("", fixedKey, "BJ84-9TJM", jan1)
	assert.ErrorIs(t, err, crypto.ErrCryptoUnavailable)

	err = peer.New().Verify("", "not-a-key", "BJ84-9TJM", jan1)
	assert.ErrorIs(t, err, crypto.ErrMalformedKeyInput)
}

func TestVerify_RejectsKeyOfWrongShape(t *testing.T) {
	v := peer.New()
	err := v.Verify(domain.AlgorithmX25519, "AQ==", "ABCD-EFGH", jan1)
	assert.ErrorIs(t, err, crypto.ErrMalformedKeyInput)

	err = v.Verify(domain.AlgorithmRSAOAEP2048, fixedKey, "BJ84-9TJM", jan1)
	assert.ErrorIs(t, err, crypto.ErrMalformedKeyInput)

	err = v.Verify("dsa", fixedKey, "BJ84-9TJM", jan1)
	assert.ErrorIs(t, err, crypto.ErrUnsupportedAlgorithm)
}

func TestVerify_GraceDaysAcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 19:30 EDT on the 23-hour day is 23:30 UTC; one local day earlier is
	// 00:30 UTC on the same UTC date.
	now := time.Date(2024, 3, 10, 19, 30, 0, 0, ny)
	require.Equal(t, "2024-03-10", crypto.DayBucket(now))

	v := peer.New(peer.WithGraceDays(1))
	prev, err := v.Expected("", fixedKey, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, v.Verify("", fixedKey, prev.String(), now))
}

func TestFingerprint(t *testing.T) {
	v := peer.New()
	fp, err := v.Fingerprint("", fixedKey)
	require.NoError(t, err)
	assert.Equal(t, domain.Fingerprint("B01198F80D75"), fp)

	_, err = v.Fingerprint(domain.AlgorithmX25519, "AQ==")
	assert.ErrorIs(t, err, crypto.ErrMalformedKeyInput)
}
