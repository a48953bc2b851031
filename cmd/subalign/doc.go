// Package main hosts the subalign CLI entrypoint and command graph.
//
// The Cobra-based command tree covers single-pair alignment, directory-tree
// batch runs, and configuration scaffolding. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on flag
// handling and output formatting while the alignment engine lives in the
// internal packages.
package main
