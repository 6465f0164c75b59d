package config

import (
	"fmt"
	"os"
	"path"
)

// Dir returns the path to the lamb configuration directory. It is
// <UserConfigDir>/.lamb, unless overridden by LAMB_CONFIG_HOME.
func Dir() (string, error) {
	if home := os.Getenv("LAMB_CONFIG_HOME"); home != "" {
		return home, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return path.Join(cfg, ".lamb"), nil
}
