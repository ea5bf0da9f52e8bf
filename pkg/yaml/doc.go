// Package yaml wraps [github.com/goccy/go-yaml] with the encoder settings,
// error annotation and JSON schema tooling shared by pls.
package yaml
