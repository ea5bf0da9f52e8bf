package cli_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/pls/internal/cli"
	"github.com/macropower/pls/pkg/config"
)

func TestStyleColorScheme(t *testing.T) {
	t.Parallel()

	dark := func(_, d color.Color) color.Color { return d }

	for _, name := range []string{"dracula", "monokai", "github", "nonexistent"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cs := cli.StyleColorScheme(styles.Get(name), dark)

			assert.NotNil(t, cs.Base)
			assert.NotNil(t, cs.Flag)
			assert.NotNil(t, cs.ErrorHeader[0])
			assert.NotNil(t, cs.ErrorHeader[1])
		})
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	tcs := map[string]struct {
		env  string
		want string
		args []string
	}{
		"flag with space": {
			args: []string{"parse", "--config", "/tmp/a.yaml", "list.pls"},
			want: "/tmp/a.yaml",
		},
		"flag with equals": {
			args: []string{"--output=json", "--config=/tmp/b.yaml", "show"},
			want: "/tmp/b.yaml",
		},
		"flag wins over env": {
			args: []string{"--config", "/tmp/a.yaml"},
			env:  "/tmp/env.yaml",
			want: "/tmp/a.yaml",
		},
		"env": {
			args: []string{"validate", "--log-level", "debug", "x.pls"},
			env:  "/tmp/env.yaml",
			want: "/tmp/env.yaml",
		},
		"default": {
			args: []string{"--help"},
			want: config.GetPath(),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Setenv("PLS_CONFIG", tc.env)

			assert.Equal(t, tc.want, cli.ConfigPathFromArgs(tc.args))
		})
	}
}

func TestColorSchemeFunc_UsesConfigFlag(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`apiVersion: pls.jacobcolvin.com/v1beta1
kind: Configuration
output:
  style: github
`), 0o600))

	dark := func(_, d color.Color) color.Color { return d }

	got := cli.ColorSchemeFunc([]string{"--config", path})(dark)
	assert.Equal(t, cli.StyleColorScheme(styles.Get("github"), dark), got)
	assert.NotEqual(t, cli.StyleColorScheme(styles.Get("dracula"), dark), got)
}
