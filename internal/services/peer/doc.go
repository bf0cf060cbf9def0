// Package peer checks link codes presented by contacts.
//
// A contact who already holds our public key can compute today's code
// offline; this package does the same computation on the receiving side and
// compares. Derived codes are memoized per public key and day bucket.
package peer
