// Package config loads the backend's YAML config and the client's TOML
// config.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultAPIBase is the backend address used when nothing is configured.
const DefaultAPIBase = "http://localhost:5000/api"

const appName = "workoutbuddy"

// ClientFile is the client's TOML file. Unset keys stay nil.
type ClientFile struct {
	APIBase  *string `toml:"api_base"`
	Fallback *bool   `toml:"fallback"`
	DataDir  *string `toml:"data_dir"`
}

// Client is the resolved client configuration.
type Client struct {
	APIBase  string
	Fallback bool
	DataDir  string
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultClientConfigPath returns the default TOML config path.
func DefaultClientConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultDataDir holds the mirror database and the client log.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), appName)
}

// LoadClient reads the client config at path and applies defaults and the
// WORKOUTBUDDY_API_BASE override. A missing file is not an error.
func LoadClient(path string) (Client, error) {
	cfg := Client{
		APIBase:  DefaultAPIBase,
		Fallback: true,
		DataDir:  DefaultDataDir(),
	}

	file, err := readClientFile(path)
	if err != nil {
		return Client{}, err
	}
	if file.APIBase != nil && *file.APIBase != "" {
		cfg.APIBase = *file.APIBase
	}
	if file.Fallback != nil {
		cfg.Fallback = *file.Fallback
	}
	if file.DataDir != nil && *file.DataDir != "" {
		cfg.DataDir = *file.DataDir
	}

	if v := os.Getenv("WORKOUTBUDDY_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	return cfg, nil
}

func readClientFile(path string) (ClientFile, error) {
	if path == "" {
		return ClientFile{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ClientFile{}, nil
		}
		return ClientFile{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var file ClientFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return ClientFile{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return file, nil
}
