// Package config loads optional project-level defaults for the logmerge
// CLI. Flags given on the command line take precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds defaults loaded from logmerge.yml.
type ProjectConfig struct {
	Pretty  bool   `yaml:"pretty,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
	Output  string `yaml:"output,omitempty"`
}

// Load attempts to read logmerge.yml or logmerge.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"logmerge.yml", "logmerge.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
