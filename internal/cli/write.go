package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/pls/pkg/format"
	"github.com/macropower/pls/pkg/pls"
)

type WriteArgs struct {
	*RootArgs

	Input string
}

func (wa *WriteArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&wa.Input, "input", "i", "",
		fmt.Sprintf("Input format, one of: %s (default from the file extension, else yaml)", format.AllFormats))

	must(cmd.RegisterFlagCompletionFunc("input",
		cobra.FixedCompletions(format.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewWriteCmd(ra *RootArgs) *cobra.Command {
	wa := &WriteArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "write [file|-]",
		Short: "Write a PLS playlist from a YAML or JSON document",
		Example: `  # Convert a YAML document:
  pls write ./mix.yaml > mix.pls

  # Read JSON from stdin:
  pls parse ./a.pls -o json | pls write - -i json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd, wa, args)
		},
	}

	wa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runWrite(cmd *cobra.Command, wa *WriteArgs, args []string) error {
	cfg, err := wa.LoadConfig()
	if err != nil {
		return err
	}

	in, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only input.

	inFormat := format.FormatYAML
	if name != "-" {
		inFormat = format.FromPath(name)
		if inFormat == format.FormatPLS {
			inFormat = format.FormatYAML
		}
	}

	if wa.Input != "" {
		inFormat, err = format.Parse(wa.Input)
		if err != nil {
			return fmt.Errorf("invalid argument --input: %w", err)
		}
	}

	elements, err := format.Decode(in, inFormat, cfg.ParseOpts()...)
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	buf := &bytes.Buffer{}

	err = pls.Write(buf, elements)
	if err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}

	return writeOutput(cmd, cfg, buf.String(), format.FormatPLS)
}
