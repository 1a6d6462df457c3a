package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

func configDir(path string) string {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		return filepath.Dir(path)
	}
	return path
}

// Load loads the configuration from the directory. Fields missing from the
// file keep their default values.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	path = configDir(path)

	configContents, err := afero.ReadFile(fsys, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}

	out := Default(fsys, path)
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	return out, nil
}

// LoadOrDefault is like Load but falls back to the built-in configuration if
// the directory has no config.yaml.
func LoadOrDefault(fsys afero.Fs, path string) (*Configuration, error) {
	cfg, err := Load(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(fsys, configDir(path)), nil
	}
	return cfg, err
}

// Initialize writes the default configuration into dir if it doesn't already
// contain one.
func Initialize(fsys afero.Fs, dir string, logger *log.Logger) error {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fsys, configPath)
	if err != nil {
		return err
	}
	if exists {
		logger.Printf("Config already exists: %s\n", configPath)
		return nil
	}

	logger.Printf("Writing config: %s\n", configPath)
	return afero.WriteFile(fsys, configPath, defaultConfigData, 0600)
}
