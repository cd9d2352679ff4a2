// Package main provides the tinypng-compress command-line interface.
//
// tinypng-compress compresses every image below a directory with the TinyPNG
// API, replacing each file in place. A JSON ledger remembers what was already
// compressed so later runs only upload new or changed images.
//
// The binary supports these subcommands:
//   - compress: Compress the configured directory (also the default action)
//   - scan: List the images a run would consider
//   - records: List or export the ledger
//   - validate: Check the configured API key
//   - version: Print build information
package main
