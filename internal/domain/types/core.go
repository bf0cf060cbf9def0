package types

// Fingerprint is a short, stable identifier derived from a public key and
// presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// LinkCode is the daily rotating code in XXXX-XXXX form.
type LinkCode string

// String returns the string form of the link code.
func (c LinkCode) String() string { return string(c) }

// IdentityID identifies an identity record across stores.
type IdentityID string

// String returns the string form of the identifier.
func (id IdentityID) String() string { return string(id) }
