package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/pls/pkg/config"
	"github.com/macropower/pls/pkg/format"
)

func NewConfigCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pls configuration",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(
		newConfigWriteCmd(ra),
		newConfigShowCmd(ra),
	)

	return cmd
}

func newConfigWriteCmd(ra *RootArgs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the default configuration and its JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path := ra.ConfigPath
			if path == "" {
				path = config.GetPath()
			}

			err := config.WriteDefault(path, force)
			if err != nil {
				return fmt.Errorf("write default config: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Back up and replace an existing configuration file")

	bindEnvVars(cmd)

	return cmd
}

func newConfigShowCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ra.LoadConfig()
			if err != nil {
				return err
			}

			b, err := cfg.MarshalYAML()
			if err != nil {
				return fmt.Errorf("marshal config yaml: %w", err)
			}

			return writeOutput(cmd, cfg, string(b), format.FormatYAML)
		},
	}
}
