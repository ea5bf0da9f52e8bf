// Package config provides configuration management for the pls CLI.
//
// Configuration files are YAML documents validated against a JSON schema
// reflected from [Config], then decoded and filled with defaults.
package config
