package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/pls/pkg/config"
	"github.com/macropower/pls/pkg/format"
	"github.com/macropower/pls/pkg/log"
)

const (
	cmdName = "pls"
	cmdDesc = `Parse, write and inspect PLS playlists.`

	cmdExamples = `  # Print a playlist as YAML:
  pls parse ./radio.pls

  # Keep only local files, as JSON:
  pls parse ./mix.pls --filter '!isURL(path)' -o json

  # Convert a YAML document back to PLS:
  pls write ./mix.yaml > mix.pls

  # Check several playlists:
  pls validate ./*.pls`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the pls configuration file")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
}

// LoadConfig reads the configuration file, falling back to defaults only
// when it does not exist. Unreadable or invalid files are errors.
func (ra *RootArgs) LoadConfig() (*config.Config, error) {
	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	cl, err := config.NewLoaderFromFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config not found, using defaults", slog.String("path", configPath))

		return config.NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", configPath, err)
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	slog.Debug("loaded config", slog.String("path", configPath))

	return cfg, nil
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewParseCmd(args),
		NewWriteCmd(args),
		NewValidateCmd(args),
		NewShowCmd(args),
		NewServeMCPCmd(args),
		NewConfigCmd(args),
		NewVersionCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.NewHandler(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}

// useColor reports whether output written to w should be highlighted.
func useColor(cfg *config.Config, w io.Writer) bool {
	switch cfg.Output.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: Fd fits in int.
}

// writeOutput writes src to the command's stdout, highlighted when enabled.
func writeOutput(cmd *cobra.Command, cfg *config.Config, src string, f format.Format) error {
	w := cmd.OutOrStdout()

	if useColor(cfg, w) {
		err := format.Highlight(w, src, f, cfg.Output.Style)
		if err == nil {
			return nil
		}

		slog.Debug("highlight output", slog.Any("err", err))
	}

	_, err := io.WriteString(w, src)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// openInput opens a playlist argument. No argument or "-" reads stdin.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "-", nil
	}

	f, err := os.Open(args[0]) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, args[0], fmt.Errorf("open input: %w", err)
	}

	return f, args[0], nil
}
