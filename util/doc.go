// Package util provides the building blocks tinypng-compress is made of.
//
// Key Components:
//
// File Hashing:
//   - MD5 content digests used to detect whether a file changed since it was
//     last compressed
//   - Case-insensitive extension matching
//
// Directory Scanning:
//   - Depth-first traversal in lexical order
//   - Directories named .next are never descended into
//
// Ledger:
//   - Ledger and Record types mapping normalized paths to compression results
//   - RecordStore loading and saving the ledger as a JSON file, falling back
//     to an empty ledger when the file is missing or corrupt
//   - Spreadsheet export of the ledger
//
// Persistence:
//   - Atomic file replacement through a temporary file and rename
//   - Every disk access goes through an afero.Fs so callers can swap in an
//     in-memory filesystem
//
// Logging:
//   - Logger writes one timestamped line per call
package util
