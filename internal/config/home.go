package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDir returns the xerg home directory: the XERG_HOME environment
// variable if set, else ~/.xerg. The directory is created on first use.
func HomeDir() (string, error) {
	if home := os.Getenv("XERG_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create xerg home directory: %w", err)
		}
		return home, nil
	}

	u, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home directory: %w", err)
	}

	home := filepath.Join(u, ".xerg")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create xerg home directory: %w", err)
	}
	return home, nil
}
