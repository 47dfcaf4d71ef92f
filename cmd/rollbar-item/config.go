package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// tokenEnv overrides any token from the config file.
const tokenEnv = "ROLLBAR_ACCESS_TOKEN"

type project struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
}

type config struct {
	ActiveProject string    `yaml:"active_project"`
	Projects      []project `yaml:"projects"`
}

func defaultConfigPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}

	return filepath.Join(root, "rollbar-item", "config.yaml"), nil
}

// loadConfig reads the project file. A missing file yields an empty config.
func loadConfig(path string) (config, error) {
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config{}, nil
	}
	if err != nil {
		return config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg config
	if err := yaml.Unmarshal(body, &cfg); err != nil {
		return config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	return cfg, nil
}

// resolveToken picks the token for name, or for the active project when
// name is empty. It returns the token and the project it belongs to.
func (c config) resolveToken(name string) (string, string, error) {
	if token := strings.TrimSpace(os.Getenv(tokenEnv)); token != "" {
		return token, name, nil
	}

	target := strings.TrimSpace(name)
	if target == "" {
		target = strings.TrimSpace(c.ActiveProject)
	}
	if target == "" {
		return "", "", fmt.Errorf("no project given and no active project configured (or set %s)", tokenEnv)
	}

	for _, p := range c.Projects {
		if strings.TrimSpace(p.Name) != target {
			continue
		}

		token := strings.TrimSpace(p.Token)
		if token == "" {
			return "", "", fmt.Errorf("project %q has no token", target)
		}

		return token, target, nil
	}

	return "", "", fmt.Errorf("project %q not found", target)
}
