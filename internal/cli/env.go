package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars lets every flag of cmd be set from a PLS_<FLAG> environment
// variable, e.g. --log-level from PLS_LOG_LEVEL. Values given as arguments
// are parsed after binding and therefore win over the environment.
func bindEnvVars(cmd *cobra.Command) {
	bind := func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}

		name := envName(f.Name)
		if !strings.Contains(f.Usage, "$"+name) {
			f.Usage += fmt.Sprintf(" ($%s)", name)
		}

		if f.Changed {
			return
		}

		value, ok := os.LookupEnv(name)
		if !ok {
			return
		}

		err := setFromEnv(f, value)
		if err != nil {
			slog.Error("ignoring environment variable",
				slog.String("env", name),
				slog.String("value", value),
				slog.Any("error", err),
			)
		}
	}

	cmd.Flags().VisitAll(bind)
	cmd.PersistentFlags().VisitAll(bind)
}

// setFromEnv sets f from an environment value. Slice flags take a
// comma-separated list that replaces the default.
func setFromEnv(f *pflag.Flag, value string) error {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		var items []string
		if value != "" {
			items = strings.Split(value, ",")
		}

		return sv.Replace(items) //nolint:wrapcheck // Return the original error.
	}

	return f.Value.Set(value) //nolint:wrapcheck // Return the original error.
}

// envName returns the environment variable for a flag: "log-level" becomes
// "PLS_LOG_LEVEL".
func envName(flag string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flag, "-", "_"))
}
