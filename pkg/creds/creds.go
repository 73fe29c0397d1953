// Package creds loads the application credentials from client.yml and keeps
// the session token in a small bolt database so restarts skip the auth dance.
package creds

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClientCreds are the registered-application credentials the user provides
// once. They live in client.yml next to the config, never inside it.
type ClientCreds struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Port         int    `yaml:"port"`
}

// DefaultPort is the local redirect port used during initial authorization
// when client.yml does not name one.
const DefaultPort = 8888

// LoadClient reads and validates client.yml at path.
func LoadClient(path string) (ClientCreds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientCreds{}, fmt.Errorf("creds: read %s: %w", path, err)
	}
	var c ClientCreds
	if err := yaml.Unmarshal(data, &c); err != nil {
		return ClientCreds{}, fmt.Errorf("creds: parse %s: %w", path, err)
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return ClientCreds{}, fmt.Errorf("creds: %s must set client_id and client_secret", path)
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	return c, nil
}

// DefaultClientPath returns the conventional client.yml location under the
// user's config directory.
func DefaultClientPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("creds: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "strum", "client.yml"), nil
}
