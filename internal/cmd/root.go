package cmd

import (
	"errors"
	"io/fs"

	"github.com/dendrascience/tinypng-compress/config"
	"github.com/dendrascience/tinypng-compress/tinify"
	"github.com/dendrascience/tinypng-compress/version"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// DefaultRecordsPath is where the ledger lives unless --records says otherwise.
const DefaultRecordsPath = "./tinypng.record.json"

// environment is shared by every subcommand. Tests swap the filesystem and
// point the client at a fake service.
type environment struct {
	fs          afero.Fs
	clientOpts  []tinify.Option
	configPath  string
	recordsPath string
	envFile     string
}

func (e *environment) newClient(apiKey string) *tinify.Client {
	return tinify.NewClient(apiKey, e.clientOpts...)
}

// NewRootCmd creates and returns the root cobra command for the tinypng-compress CLI.
// Run without a subcommand it compresses the configured directory.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&environment{fs: afero.NewOsFs()})
}

func newRootCmd(env *environment) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tinypng-compress",
		Short: "tinypng-compress - Compress a directory of images with the TinyPNG API",
		Long: `tinypng-compress walks a directory, uploads every image to the TinyPNG
compression service and overwrites it with the compressed result.

Files already compressed are remembered in a ledger keyed by path and content
hash, so unchanged images are never uploaded twice.

Use subcommands to perform different operations:
  - compress: Compress the configured directory (the default)
  - scan: List the images that would be considered
  - records: Inspect or export the ledger
  - validate: Check the configured API key`,
		Version:      version.GetFullVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(env.envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd, env, compressOptions{})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env.configPath, "config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&env.recordsPath, "records", "r", DefaultRecordsPath, "Path to the compression ledger")
	rootCmd.PersistentFlags().StringVar(&env.envFile, "env-file", ".env", "Optional dotenv file providing "+config.EnvAPIKey)

	groupCompression := "compression"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupCompression,
		Title: "Compression",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	compressCmd := NewCompressCmd(env)
	scanCmd := NewScanCmd(env)
	recordsCmd := NewRecordsCmd(env)
	validateCmd := NewValidateCmd(env)
	versionCmd := NewVersionCmd()

	compressCmd.GroupID = groupCompression
	scanCmd.GroupID = groupUtilities
	recordsCmd.GroupID = groupUtilities
	validateCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// loadEnvFile loads KEY=value pairs from path into the environment. A missing
// file is not an error; variables already set are left alone.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
