package cmd

import (
	"fmt"

	"github.com/dendrascience/tinypng-compress/config"
	"github.com/dendrascience/tinypng-compress/util"
	"github.com/spf13/cobra"
)

// NewScanCmd creates and returns the scan subcommand.
// It lists the images a compression run would look at without touching them.
func NewScanCmd(env *environment) *cobra.Command {
	var (
		dir     string
		pending bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the images a compression run would consider",
		Long: `List every image below the configured directory whose extension is
accepted. Directories named .next are skipped.

With --pending only images that are not in the ledger, or whose content
changed since they were recorded, are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, env, dir, pending)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to scan instead of compressDir from the configuration")
	cmd.Flags().BoolVarP(&pending, "pending", "p", false, "Only list images that would be uploaded")

	return cmd
}

func runScan(cmd *cobra.Command, env *environment, dir string, pending bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(env.fs, env.configPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	if dir == "" {
		dir = cfg.CompressDir
	}

	files, err := util.FindFiles(env.fs, dir, cfg.Extensions, nil)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var ledger *util.Ledger
	if pending {
		ledger = util.NewRecordStore(env.fs, env.recordsPath).Load()
	}

	count := 0
	for _, f := range files {
		if pending {
			hash, err := util.GetFileHash(env.fs, f)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to hash %s: %v\n", f, err)
				continue
			}
			if rec, ok := ledger.Get(f); ok && rec.MD5 == hash {
				continue
			}
		}
		fmt.Fprintln(out, f)
		count++
	}

	fmt.Fprintf(out, "Total files: %d\n", count)
	return nil
}
