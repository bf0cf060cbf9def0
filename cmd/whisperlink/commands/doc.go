// Package commands defines the whisperlink CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init         Create (or replace) the local identity
//   - fingerprint  Print or check the identity fingerprint
//   - show         Print the shareable public identity record
//   - code         Print today's link code
//   - verify       Check a contact's link code against their public key
//   - watch        Print the link code again every time it rotates
//
// # Implementation
//
// The root command loads the YAML config, builds a zap logger and the
// dependency graph (stores, services) before any subcommand runs, so
// handlers share one app.Wire. Logs go to stderr; results go to stdout.
package commands
