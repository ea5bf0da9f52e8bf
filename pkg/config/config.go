package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/macropower/pls/pkg/expr"
	"github.com/macropower/pls/pkg/format"
	"github.com/macropower/pls/pkg/pls"
	"github.com/macropower/pls/pkg/yaml"
)

const (
	APIVersion = "pls.jacobcolvin.com/v1beta1"
	Kind       = "Configuration"

	DefaultMaxEntries uint64 = 100000
)

// Color modes for [OutputConfig].
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}

	ErrInvalidFilter = errors.New("invalid filter")
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Output controls how playlists are printed.
	Output *OutputConfig `json:"output,omitempty" jsonschema:"title=Output"`
	// Parse controls how playlists are read.
	Parse *ParseConfig `json:"parse,omitempty" jsonschema:"title=Parse"`
	// Filters maps names to CEL expressions usable with --filter.
	Filters map[string]string `json:"filters,omitempty" jsonschema:"title=Filters"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

type OutputConfig struct {
	// Format is the default output format.
	Format string `json:"format,omitempty" jsonschema:"title=Format,enum=pls,enum=yaml,enum=json,default=yaml"`
	// Style is the chroma style used for highlighting.
	Style string `json:"style,omitempty" jsonschema:"title=Style,default=dracula"`
	// Color selects when output is highlighted.
	Color string `json:"color,omitempty" jsonschema:"title=Color,enum=auto,enum=always,enum=never,default=auto"`
}

type ParseConfig struct {
	// RequireVersion rejects playlists without a Version key.
	RequireVersion bool `json:"requireVersion,omitempty" jsonschema:"title=Require Version"`
	// MaxEntries caps NumberOfEntries. Zero disables the limit.
	MaxEntries *uint64 `json:"maxEntries,omitempty" jsonschema:"title=Max Entries,default=100000"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Output == nil {
		c.Output = &OutputConfig{}
	}
	if c.Output.Format == "" {
		c.Output.Format = string(format.FormatYAML)
	}
	if c.Output.Style == "" {
		c.Output.Style = format.DefaultStyle
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}

	if c.Parse == nil {
		c.Parse = &ParseConfig{}
	}
	if c.Parse.MaxEntries == nil {
		n := DefaultMaxEntries
		c.Parse.MaxEntries = &n
	}

	if c.Filters == nil {
		c.Filters = map[string]string{}
	}
}

// Validate checks requirements the schema cannot express.
func (c *Config) Validate() error {
	_, err := format.Parse(c.Output.Format)
	if err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	for _, name := range slices.Sorted(maps.Keys(c.Filters)) {
		_, err := expr.Compile(c.Filters[name])
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidFilter, name, err)
		}
	}

	return nil
}

// ParseOpts returns the [pls.ParseOpt]s described by the parse section.
func (c *Config) ParseOpts() []pls.ParseOpt {
	var opts []pls.ParseOpt

	if c.Parse == nil {
		return opts
	}
	if c.Parse.RequireVersion {
		opts = append(opts, pls.WithRequireVersion())
	}
	if c.Parse.MaxEntries != nil {
		opts = append(opts, pls.WithMaxEntries(*c.Parse.MaxEntries))
	}

	return opts
}

// Filter compiles the named filter, or s itself when no filter has that name.
func (c *Config) Filter(s string) (*expr.Filter, error) {
	if e, ok := c.Filters[s]; ok {
		slog.Debug("using named filter",
			slog.String("name", s),
			slog.String("expression", e),
		)

		s = e
	}

	f, err := expr.Compile(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	return f, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	extendSchemaWithEnums(jss, ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b := &bytes.Buffer{}

	enc := yaml.NewEncoder(b)

	err := enc.Encode(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return b.Bytes(), nil
}

func extendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range apiVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range kinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}
