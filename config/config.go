/*
Package config loads server configuration from YAML.

PURPOSE:
  Keeps policy knobs out of the code. The allocation split (20 days FT,
  10 days PT) is company policy, not an invariant; whether it should vary
  by tenure or jurisdiction is an open question upstream, so it stays a
  plain configuration point here.

FILE FORMAT:
  port: 8080
  database: pto.db
  auth:
    project_id: my-project
  allocations:
    FT: 20
    PT: 10
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warp/pto-center/engine"
)

// Config is the full server configuration.
type Config struct {
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`

	Auth struct {
		ProjectID string `yaml:"project_id"`
	} `yaml:"auth"`

	// Allocations overrides the annual PTO allocation per employment
	// type. Unset types keep the defaults.
	Allocations map[string]int `yaml:"allocations"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Port:     8080,
		Database: "pto.db",
	}
}

// Load reads a YAML configuration file, layered over Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// AllocationPolicy materializes the allocation policy: defaults overlaid
// with any configured overrides.
func (c Config) AllocationPolicy() engine.AllocationPolicy {
	policy := engine.DefaultAllocations()
	for empType, days := range c.Allocations {
		policy[engine.EmploymentType(empType)] = days
	}
	return policy
}
