package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var msgPrinter = message.NewPrinter(language.English)

// Validator checks decoded documents against a compiled JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: s}, nil
}

// Validate checks data against the schema. A failure is returned as an
// [*Error] carrying the message and [*yaml.Path] of the deepest failing
// cause, so that it can be annotated against the YAML source.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("schema validation: %w", err)
	}

	leaf := deepestCause(ve)

	return &Error{
		Err:  errors.New(leaf.ErrorKind.LocalizedString(msgPrinter)),
		Path: locationPath(leaf.InstanceLocation),
	}
}

// deepestCause returns the cause with the longest instance location. Ties go
// to the first cause found.
func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := ve

	for _, cause := range ve.Causes {
		c := deepestCause(cause)
		if len(c.InstanceLocation) > len(best.InstanceLocation) {
			best = c
		}
	}

	return best
}

// locationPath converts a JSON pointer location into a [*yaml.Path].
// Numeric segments are treated as sequence indexes.
func locationPath(location []string) *yaml.Path {
	b := (&yaml.PathBuilder{}).Root()

	for _, part := range location {
		i, err := strconv.ParseUint(part, 10, 0)
		if err != nil {
			b = b.Child(part)
			continue
		}

		b = b.Index(uint(i))
	}

	return b.Build()
}
