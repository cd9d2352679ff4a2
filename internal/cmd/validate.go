package cmd

import (
	"fmt"

	"github.com/dendrascience/tinypng-compress/config"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates and returns the validate subcommand.
func NewValidateCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configured API key is accepted",
		Long: `Check the API key from the configuration file or the TINYPNG_API_KEY
environment variable against the TinyPNG service.

No image is uploaded and the monthly compression count is not increased.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env.fs, env.configPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%w: set apiKey in %s or %s", err, env.configPath, config.EnvAPIKey)
			}

			client := env.newClient(cfg.APIKey)
			defer client.Close()

			if err := client.Validate(cmd.Context()); err != nil {
				return fmt.Errorf("API key rejected: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "API key is valid (%d compressions this month)\n", client.CompressionCount())
			return nil
		},
	}
}
