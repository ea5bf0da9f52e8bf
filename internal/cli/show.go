package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/macropower/pls/pkg/config"
	"github.com/macropower/pls/pkg/pls"
)

type ShowArgs struct {
	*RootArgs

	Filter string
}

func NewShowCmd(ra *RootArgs) *cobra.Command {
	sa := &ShowArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "show [file|-]",
		Short: "Show a playlist as a table",
		Example: `  # Show a playlist:
  pls show ./radio.pls`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, sa, args)
		},
	}

	cmd.Flags().StringVarP(&sa.Filter, "filter", "f", "", "CEL expression or configured filter name selecting entries")

	bindEnvVars(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, sa *ShowArgs, args []string) error {
	cfg, err := sa.LoadConfig()
	if err != nil {
		return err
	}

	in, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only input.

	elements, err := pls.Parse(in, cfg.ParseOpts()...)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	if sa.Filter != "" {
		f, err := cfg.Filter(sa.Filter)
		if err != nil {
			return fmt.Errorf("invalid argument --filter: %w", err)
		}

		elements, err = f.Apply(elements)
		if err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	r := newRenderer(cmd, cfg)

	mustN(fmt.Fprintln(w, renderTable(r, elements)))
	mustN(fmt.Fprintln(w, r.NewStyle().Faint(true).Render(summarize(name, elements))))

	return nil
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *lipgloss.Renderer {
	w := cmd.OutOrStdout()
	r := lipgloss.NewRenderer(w)

	switch {
	case cfg.Output.Color == config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case !useColor(cfg, w):
		r.SetColorProfile(termenv.Ascii)
	}

	return r
}

func renderTable(r *lipgloss.Renderer, elements []pls.Element) string {
	var (
		headerStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
		cellStyle   = r.NewStyle().Padding(0, 1)
		indexStyle  = cellStyle.Foreground(lipgloss.Color("245")).Align(lipgloss.Right)
		dimStyle    = cellStyle.Faint(true)
	)

	rows := make([][]string, 0, len(elements))
	for i, e := range elements {
		title := e.TitleOrEmpty()
		if e.Title == nil {
			title = "-"
		}

		length := "?"
		if !e.Length.IsUnknown() {
			length = formatDuration(e.Length.Duration())
		}

		rows = append(rows, []string{strconv.Itoa(i + 1), title, length, e.Path})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers("#", "TITLE", "LENGTH", "PATH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return indexStyle
			case rows[row][col] == "-" || rows[row][col] == "?":
				return dimStyle
			}

			return cellStyle
		})

	return t.String()
}
