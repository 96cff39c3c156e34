package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"passpoll/internal/platform/config"
)

const flagConfig = "config"

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "passpoll",
		Short:         "Token-gated yes/no polls",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String(flagConfig, "", "optional config file (yaml, json or toml)")

	cmd.AddCommand(
		newServeCmd(v),
		newMigrateCmd(v),
		newTokenCmd(v),
	)
	return cmd
}

// loadConfig reads the --config flag and resolves the full configuration.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (config.Config, error) {
	configFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(v, configFile)
}
