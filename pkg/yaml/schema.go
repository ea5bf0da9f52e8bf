package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go value.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	v         any
	id        string
}

// NewSchemaGenerator creates a [SchemaGenerator] for v. The id is used as the
// schema $id.
func NewSchemaGenerator(v any, id string) *SchemaGenerator {
	return &SchemaGenerator{
		reflector: &jsonschema.Reflector{
			DoNotReference: true,
		},
		v:  v,
		id: id,
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	s := g.reflector.Reflect(g.v)
	s.ID = jsonschema.ID(g.id)

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// Validator generates the schema and compiles it into a [Validator].
func (g *SchemaGenerator) Validator() (*Validator, error) {
	b, err := g.Generate()
	if err != nil {
		return nil, err
	}

	return NewValidator(g.id, b)
}
