package yaml_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goccyyaml "github.com/goccy/go-yaml"

	"github.com/macropower/pls/pkg/yaml"
)

func mustBuildPath(t *testing.T, parts ...string) *goccyyaml.Path {
	t.Helper()

	pb := yaml.NewPathBuilder().Root()
	for _, p := range parts {
		pb = pb.Child(p)
	}

	return pb.Build()
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want string
		err  yaml.Error
	}{
		"with path": {
			err: yaml.Error{
				Err:  errors.New("value is required"),
				Path: mustBuildPath(t, "output", "format"),
			},
			want: "error at $.output.format: value is required",
		},
		"without path": {
			err: yaml.Error{
				Err: errors.New("validation error: value is required"),
			},
			want: "validation error: value is required",
		},
		"nil error": {
			err:  yaml.Error{Path: mustBuildPath(t, "output")},
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_AnnotateSource(t *testing.T) {
	t.Parallel()

	source := []byte("output:\n  format: xml\nparse:\n  maxEntries: 10\n")

	err := yaml.NewError(
		errors.New("unknown format"),
		yaml.WithPath(mustBuildPath(t, "output", "format")),
		yaml.WithSource(source),
		yaml.WithColor(false),
	)

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "error at $.output.format: unknown format"), msg)
	assert.Contains(t, msg, "format: xml")
}

func TestErrorWrapper(t *testing.T) {
	t.Parallel()

	ew := yaml.NewErrorWrapper(yaml.WithSource([]byte("a: b\n")))

	require.NoError(t, ew.Wrap(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, ew.Wrap(plain))

	wrapped := ew.Wrap(yaml.NewError(errors.New("bad")))

	var yamlErr *yaml.Error
	require.ErrorAs(t, wrapped, &yamlErr)
	assert.Equal(t, []byte("a: b\n"), yamlErr.Source)
}

func TestDecoder_SyntaxError(t *testing.T) {
	t.Parallel()

	var v map[string]any

	err := yaml.NewDecoder(strings.NewReader("entries:\n  - path: a\n   bad: [\n")).Decode(&v)
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.NotEmpty(t, yamlErr.Error())
}
