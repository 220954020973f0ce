// Package configuration loads this module's process-wide defaults. The
// pkg/embed entry points do not read a Config: they take per-call
// Options, whose AddHardBinding and DistributionFanout fields carry the
// values a caller such as cmd/encypherctl fills in from a loaded Config.
package configuration

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/encypherai/encypher-ai/pkg/helpers"
)

// Config is the process-wide default configuration surface.
type Config struct {
	C2PAContextURL       string   `yaml:"c2pa_context_url" envconfig:"C2PA_CONTEXT_URL" default:"https://c2pa.org/specifications/specifications/2.2/specs/C2PA_Specification.html"`
	C2PAAcceptedContexts []string `yaml:"c2pa_accepted_contexts" envconfig:"C2PA_ACCEPTED_CONTEXTS"`
	HardBindingDefault   bool     `yaml:"hard_binding_default" envconfig:"HARD_BINDING_DEFAULT" default:"true"`
	DistributionFanout   int      `yaml:"distribution_fanout" envconfig:"DISTRIBUTION_FANOUT" default:"3" validate:"gte=1"`
}

type envVars struct {
	ConfigYAML string `envconfig:"ENCYPHER_CONFIG_YAML"`
}

// Load builds a Config from struct defaults, then environment
// variables, then an optional YAML file named by the
// ENCYPHER_CONFIG_YAML environment variable — each layer overriding the
// last. With no YAML file configured, Load returns defaults plus env
// overrides.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	var env envVars
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	if env.ConfigYAML != "" {
		if err := mergeYAMLFile(cfg, env.ConfigYAML); err != nil {
			return nil, err
		}
	}

	if err := helpers.Check(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func mergeYAMLFile(cfg *Config, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("configuration: ENCYPHER_CONFIG_YAML points at a directory")
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}

	return yaml.Unmarshal(raw, cfg)
}

// Default returns the zero-override Config: every field at its
// `default` tag value. Callers that want library defaults without
// touching the environment or filesystem should use this instead of
// Load.
func Default() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	return cfg
}
