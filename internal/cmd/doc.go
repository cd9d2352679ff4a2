// Package cmd provides the command-line interface implementation for tinypng-compress.
//
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Entry point; runs compress when no subcommand is given
//   - compress: Batch compression of the configured directory
//   - scan: Lists the images a run would consider
//   - records: Lists or exports the ledger of compressed images
//   - validate: Checks the API key against the service
//
// Each command has its own constructor returning a *cobra.Command. The root
// command owns the persistent --config, --records and --env-file flags shared
// by every subcommand.
package cmd
