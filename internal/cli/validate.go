package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/pls/pkg/pls"
)

var ErrInvalidPlaylists = errors.New("invalid playlists")

func NewValidateCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check that playlists parse",
		Example: `  # Check every playlist in a directory:
  pls validate ./playlists/*.pls`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, ra, args)
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func runValidate(cmd *cobra.Command, ra *RootArgs, args []string) error {
	cfg, err := ra.LoadConfig()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	w := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		in, name, err := openInput(cmd, []string{path})
		if err != nil {
			failed++

			mustN(fmt.Fprintf(w, "✗ %s: %v\n", path, err))

			continue
		}

		elements, err := pls.Parse(in, cfg.ParseOpts()...)

		closeErr := in.Close()
		if closeErr != nil {
			slog.Debug("close input", slog.String("path", name), slog.Any("err", closeErr))
		}

		if err != nil {
			failed++

			mustN(fmt.Fprintf(w, "✗ %s: %v\n", name, err))

			continue
		}

		mustN(fmt.Fprintf(w, "✓ %s: %s\n", name, summarize(name, elements)))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", ErrInvalidPlaylists, failed, len(args))
	}

	return nil
}

// summarize describes a parsed playlist in one line.
func summarize(path string, elements []pls.Element) string {
	s := fmt.Sprintf("%s %s", humanize.Comma(int64(len(elements))), plural(len(elements), "entry", "entries"))

	total, known := pls.Duration(elements)
	if known {
		s += ", " + formatDuration(total)
	} else if total > 0 {
		s += ", at least " + formatDuration(total)
	}

	if path != "-" {
		info, err := os.Stat(path)
		if err == nil {
			s += ", " + humanize.IBytes(uint64(info.Size())) //nolint:gosec // G115: Size is non-negative.
		}
	}

	return s
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
