package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/macropower/pls/pkg/mcp"
)

type ServeMCPArgs struct {
	*RootArgs

	Address string
	Root    string
}

func (sa *ServeMCPArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sa.Address, "address", "", "Serve streamable HTTP at this address instead of stdio")
	cmd.Flags().StringVar(&sa.Root, "root", "", "Only allow reading playlists below this directory")

	must(cmd.MarkFlagDirname("root"))
}

func NewServeMCPCmd(ra *RootArgs) *cobra.Command {
	sa := &ServeMCPArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the MCP server",
		Example: `  # Serve over stdio:
  pls serve-mcp

  # Serve over HTTP:
  pls serve-mcp --address localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeMCP(cmd, sa)
		},
	}

	sa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runServeMCP(cmd *cobra.Command, sa *ServeMCPArgs) error {
	cfg, err := sa.LoadConfig()
	if err != nil {
		return err
	}

	opts := []mcp.ServerOpt{
		mcp.WithParseOpts(cfg.ParseOpts()...),
		mcp.WithFilterFunc(cfg.Filter),
	}

	if sa.Root != "" {
		root, err := os.OpenRoot(sa.Root)
		if err != nil {
			return fmt.Errorf("open root: %w", err)
		}
		defer func() {
			err := root.Close()
			if err != nil {
				slog.Error("close root", slog.Any("err", err))
			}
		}()

		opts = append(opts, mcp.WithRoot(root))
	}

	err = mcp.NewServer(sa.Address, opts...).Serve(cmd.Context())
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}

	return nil
}
