package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/colcodec/pkg/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "COLCODEC"

// Load reads a YAML file into cfg, substituting ${VAR} references first.
// Keys missing from the file keep their current values.
func Load(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", filePath)
	}

	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("path", filePath)
	}
	return nil
}

// Save writes cfg to a YAML file
func Save(filePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", filePath)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the YAML file
// at path (skipped when empty), then COLCODEC_* environment variables, then
// any flags in flags that were set explicitly. Flags are bound by the keys
// in bindings, e.g. {"codec.backend": "backend"}.
func Resolve(path string, flags *pflag.FlagSet, bindings map[string]string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := Load(path, cfg); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only consults keys viper already knows about.
	seed := map[string]interface{}{}
	if err := toMap(cfg, &seed); err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(seed); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to seed configuration")
	}

	if flags != nil {
		for key, name := range bindings {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to bind flag").
					WithDetail("flag", name)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to apply overrides")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap flattens cfg into nested maps keyed by yaml tags
func toMap(cfg *Config, out *map[string]interface{}) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal configuration")
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to flatten configuration")
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return content
}
