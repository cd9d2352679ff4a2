package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dendrascience/tinypng-compress/util"
	"github.com/spf13/cobra"
)

// ErrNoOutput is returned by records export when no output file is given.
var ErrNoOutput = errors.New("an output file is required")

// NewRecordsCmd creates and returns the records subcommand and its children.
func NewRecordsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect the compression ledger",
		Long: `Inspect the ledger of compressed images.

The ledger maps every compressed image path to the hash of its compressed
content, its compressed size, the compression ratio and when it was written.`,
	}

	cmd.AddCommand(newRecordsListCmd(env))
	cmd.AddCommand(newRecordsExportCmd(env))

	return cmd
}

func newRecordsListCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every ledger entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger := util.NewRecordStore(env.fs, env.recordsPath).Load()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tSIZE\tRATIO\tTIMESTAMP")
			for path, rec := range ledger.Iterate {
				fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%s\n", path, rec.CompressedSize, rec.CompressionRatio,
					rec.Timestamp.Format(util.TimestampFormat))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total records: %d\n", ledger.Len())
			return nil
		},
	}
}

func newRecordsExportCmd(env *environment) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger to an Excel workbook",
		Long: `Export every ledger entry as a row of an Excel workbook, sorted by path.
The workbook has a single sheet named Records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return ErrNoOutput
			}
			ledger := util.NewRecordStore(env.fs, env.recordsPath).Load()

			f, err := env.fs.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := util.ExportLedger(ledger, f); err != nil {
				f.Close()
				return fmt.Errorf("failed to export records: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", ledger.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Path of the .xlsx file to write")

	return cmd
}
