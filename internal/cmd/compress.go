package cmd

import (
	"errors"

	"github.com/dendrascience/tinypng-compress/config"
	"github.com/dendrascience/tinypng-compress/shrink"
	"github.com/dendrascience/tinypng-compress/util"
	"github.com/spf13/cobra"
)

type compressOptions struct {
	dir         string
	concurrency int
}

// NewCompressCmd creates and returns the compress subcommand.
func NewCompressCmd(env *environment) *cobra.Command {
	var opts compressOptions

	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress every image in the configured directory",
		Long: `Compress every image below the configured directory with the TinyPNG API.

Images are uploaded in batches of concurrentLimit files. Each compressed image
replaces the original in place and is recorded in the ledger, which is saved
after every batch. Images whose content matches the ledger are skipped.

The configuration file is created with defaults on first use. A run without an
API key stops before touching any image.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Directory to compress instead of compressDir from the configuration")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "n", 0, "Batch size instead of concurrentLimit from the configuration")

	return cmd
}

func runCompress(cmd *cobra.Command, env *environment, opts compressOptions) error {
	log := util.NewLogger(cmd.OutOrStdout())

	_, err := shrink.Run(cmd.Context(), shrink.Options{
		Fs:          env.fs,
		ConfigPath:  env.configPath,
		RecordsPath: env.recordsPath,
		Log:         log,
		NewCompressor: func(apiKey string) shrink.Compressor {
			return env.newClient(apiKey)
		},
		CompressDir:     opts.dir,
		ConcurrentLimit: opts.concurrency,
	})
	if errors.Is(err, config.ErrMissingAPIKey) {
		log.Printf("please set apiKey in %s or %s", env.configPath, config.EnvAPIKey)
	} else if err != nil {
		log.Printf("compression failed: %v", err)
	}
	return err
}
