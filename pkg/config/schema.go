package config

import (
	"sync"

	"github.com/macropower/pls/pkg/yaml"
)

//go:generate go run ../../internal/schemagen -o config.v1beta1.json config

const SchemaFile = "config.v1beta1.json"

var schemaGenerator = yaml.NewSchemaGenerator(&Config{}, "/"+SchemaFile)

// Schema returns the JSON schema for [Config].
var Schema = sync.OnceValues(schemaGenerator.Generate)

// DefaultValidator returns the [yaml.Validator] for [Config].
var DefaultValidator = sync.OnceValues(schemaGenerator.Validator)
