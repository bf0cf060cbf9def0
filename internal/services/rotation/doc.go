// Package rotation re-derives a link code every time the UTC day rolls over.
//
// Derivation itself is stateless; this package only decides when to call it.
// The clock is injectable so tests can step across midnight.
package rotation
