package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"
)

//go:embed config.yaml
var defaultConfigYAML []byte

// DefaultYAML returns the default configuration file contents.
func DefaultYAML() []byte {
	return defaultConfigYAML
}

// WriteDefault writes the default config.yaml and its JSON schema to path.
// An existing config file is kept unless force is set, in which case it is
// moved to a timestamped backup first.
func WriteDefault(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	switch {
	case err == nil && pathInfo.Mode().IsRegular():
		configExists = true
	case err == nil && pathInfo.IsDir():
		return fmt.Errorf("%s: path is a directory", path)
	case err == nil:
		return fmt.Errorf("%s: unknown file state", path)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat file: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if configExists {
		slog.Debug("configuration file already exists, skipping write",
			slog.String("path", path),
		)
	} else {
		slog.Info("write default configuration",
			slog.String("path", path),
		)

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	schemaJSON, err := Schema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// GetPath returns the default config file path.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "pls", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "pls", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "pls", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
