// Command schemagen writes the JSON schemas of the pls configuration file and
// of the structured playlist document.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macropower/pls/pkg/config"
	"github.com/macropower/pls/pkg/format"
)

var generators = map[string]func() ([]byte, error){
	"config":   config.Schema,
	"document": format.Schema,
}

func main() {
	var outFile string

	cmd := &cobra.Command{
		Use:       "schemagen [config|document]",
		Short:     "Generate a JSON schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"config", "document"},
		RunE: func(_ *cobra.Command, args []string) error {
			jsData, err := generators[args[0]]()
			if err != nil {
				return fmt.Errorf("generate JSON schema: %w", err)
			}

			err = os.WriteFile(outFile, jsData, 0o600)
			if err != nil {
				return fmt.Errorf("write schema file: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out-file", "o", "schema.json", "Output file for the generated schema")

	if cmd.Execute() != nil {
		os.Exit(1)
	}
}
