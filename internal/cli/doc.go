// Package cli wires together the Cobra command tree for the megasrc binary.
//
// It defines the root command and its subcommands (show, coord, set-coord,
// convert, watch, version), merges settings from the discovered megasrc.toml, the
// MEGASRC_* environment and flags, and returns deterministic exit codes.
package cli
