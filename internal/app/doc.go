// Package app wires application dependencies for the CLI.
//
// It loads Config from YAML, builds the logger, the key-value backend, the
// identity and secret stores and the high-level services, exposing them via
// the Wire struct for commands to use.
package app
