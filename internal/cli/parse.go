package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/pls/pkg/config"
	"github.com/macropower/pls/pkg/format"
	"github.com/macropower/pls/pkg/pls"
	"github.com/macropower/pls/pkg/watch"
)

var ErrWatchStdin = errors.New("--watch requires a file path")

type ParseArgs struct {
	*RootArgs

	Output string
	Filter string
	Watch  bool
}

func (pa *ParseArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pa.Output, "output", "o", "",
		fmt.Sprintf("Output format, one of: %s (default from config)", format.AllFormats))
	cmd.Flags().StringVarP(&pa.Filter, "filter", "f", "", "CEL expression or configured filter name selecting entries")
	cmd.Flags().BoolVarP(&pa.Watch, "watch", "w", false, "Watch the file and print it again on every change")

	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(format.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewParseCmd(ra *RootArgs) *cobra.Command {
	pa := &ParseArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a playlist and print its entries",
		Example: `  # Print as YAML (the default):
  pls parse ./radio.pls

  # Read stdin, print JSON:
  cat ./radio.pls | pls parse - -o json

  # Streams only, re-printed on every change:
  pls parse ./radio.pls --filter 'isURL(path)' --watch`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return []cobra.Completion{"pls"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, pa, args)
		},
	}

	pa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

// parseRun holds the resolved settings of one parse invocation.
type parseRun struct {
	cfg    *config.Config
	filter func([]pls.Element) ([]pls.Element, error)
	output format.Format
}

func runParse(cmd *cobra.Command, pa *ParseArgs, args []string) error {
	cfg, err := pa.LoadConfig()
	if err != nil {
		return err
	}

	pr := &parseRun{cfg: cfg}

	outName := pa.Output
	if outName == "" {
		outName = cfg.Output.Format
	}

	pr.output, err = format.Parse(outName)
	if err != nil {
		return fmt.Errorf("invalid argument --output: %w", err)
	}

	pr.filter = func(elements []pls.Element) ([]pls.Element, error) { return elements, nil }
	if pa.Filter != "" {
		f, err := cfg.Filter(pa.Filter)
		if err != nil {
			return fmt.Errorf("invalid argument --filter: %w", err)
		}

		pr.filter = f.Apply
	}

	if pa.Watch {
		if len(args) == 0 || args[0] == "-" {
			return ErrWatchStdin
		}

		return pr.watch(cmd, args[0])
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

	return pr.print(cmd, elements)
}

func (pr *parseRun) print(cmd *cobra.Command, elements []pls.Element) error {
	elements, err := pr.filter(elements)
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	buf := &bytes.Buffer{}

	err = format.Encode(buf, pr.output, elements)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return writeOutput(cmd, pr.cfg, buf.String(), pr.output)
}

func (pr *parseRun) watch(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w, err := watch.New(path, watch.WithParseOpts(pr.cfg.ParseOpts()...))
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer func() {
		err := w.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("err", err))
		}
	}()

	events := make(chan watch.Event, 16)
	w.Subscribe(events)

	runErr := make(chan error, 1)

	go func() {
		runErr <- w.Run(ctx)
	}()

	go w.Load(ctx)

	slog.Info("watching playlist", slog.String("path", w.Path()))

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-runErr:
			return err

		case evt := <-events:
			end, ok := evt.(watch.EventEnd)
			if !ok {
				continue
			}

			if end.Err != nil {
				slog.Error("parse playlist",
					slog.String("path", end.Path),
					slog.Any("err", end.Err),
				)

				continue
			}

			err := pr.print(cmd, end.Elements)
			if err != nil {
				slog.Error("print playlist", slog.Any("err", err))
			}
		}
	}
}
