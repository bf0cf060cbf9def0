package crypto

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"whisperlink/internal/domain"
)

const (
	// LinkCodeAlphabet omits I, O, 0 and 1. Its size divides 256, so
	// byte%len maps digest bytes uniformly.
	LinkCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// LinkCodeLength counts significant characters, separator excluded.
	LinkCodeLength = 8

	// LinkCodeSeparator is inserted after the first half of the code.
	LinkCodeSeparator = '-'

	// DayBucketLayout formats the rotation bucket as an ISO date.
	DayBucketLayout = "2006-01-02"
)

// DayBucket returns the UTC calendar date of t. Codes rotate when it changes.
func DayBucket(t time.Time) string {
	return t.UTC().Format(DayBucketLayout)
}

// NextRotation returns the first instant after t that falls in a new bucket.
func NextRotation(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// DeriveLinkCode returns the XXXX-XXXX code for pub on the day containing ref.
//
// The digest input is the day bucket followed by the encoded key text.
func DeriveLinkCode(h Hasher, pub domain.PublicKey, ref time.Time) (domain.LinkCode, error) {
	if _, err := DecodeKey(string(pub)); err != nil {
		return "", err
	}
	sum, err := digest(h, []byte(DayBucket(ref)+string(pub)))
	if err != nil {
		return "", err
	}
	return formatLinkCode(sum[:LinkCodeLength]), nil
}

func formatLinkCode(b []byte) domain.LinkCode {
	var sb strings.Builder
	sb.Grow(LinkCodeLength + 1)
	for i, c := range b {
		if i == LinkCodeLength/2 {
			sb.WriteByte(LinkCodeSeparator)
		}
		sb.WriteByte(LinkCodeAlphabet[int(c)%len(LinkCodeAlphabet)])
	}
	return domain.LinkCode(sb.String())
}

// NormalizeLinkCode accepts user-typed input (any case, optional separator,
// surrounding space) and returns the canonical XXXX-XXXX form.
func NormalizeLinkCode(s string) (domain.LinkCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) == LinkCodeLength+1 && s[LinkCodeLength/2] == LinkCodeSeparator {
		s = s[:LinkCodeLength/2] + s[LinkCodeLength/2+1:]
	}
	if len(s) != LinkCodeLength {
		return "", errors.Wrapf(ErrMalformedLinkCode, "want %d characters", LinkCodeLength)
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(LinkCodeAlphabet, s[i]) < 0 {
			return "", errors.Wrapf(ErrMalformedLinkCode, "invalid character %q", s[i])
		}
	}
	return domain.LinkCode(s[:LinkCodeLength/2] + string(LinkCodeSeparator) + s[LinkCodeLength/2:]), nil
}
