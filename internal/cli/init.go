package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blocks/pkg/sqlite"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Write config.yaml if it is missing, then create the data directory and its files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeConfigIfMissing(a.configDir, a.config)
			if err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}
			if written {
				a.logger.Debug("config written", "config_dir", a.configDir)
			}

			store := sqlite.NewBackend(a.logger)
			if err := store.Attach(a.config); err != nil {
				return sysError(fmt.Errorf("initialize storage: %w", err))
			}
			if err := store.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "blocks initialized in %s\n", a.config.DataDir)
			return nil
		},
	}
}
