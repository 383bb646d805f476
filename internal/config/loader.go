package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	dirName   = ".deskpilot"
	envPrefix = "DESKPILOT"
)

// envAliases are the well-known variable names honoured on top of the
// DESKPILOT_* ones (e.g. DESKPILOT_TOOLS_ASANA_PROJECTID).
var envAliases = map[string]string{
	"providers.openai.apiKey":     "OPENAI_API_KEY",
	"agents.defaults.model":       "OPEN_AI_MODEL",
	"tools.asana.accessToken":     "ASANA_ACCESS_TOKEN",
	"tools.asana.projectId":       "ASANA_PROJECT_ID",
	"tools.drive.credentialsFile": "GOOGLE_APPLICATION_CREDENTIALS",
}

// DataDir returns the deskpilot data directory: ~/.deskpilot.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// ConfigPath returns the config file in DataDir. JSON wins when several
// formats exist; with none, the JSON path is returned.
func ConfigPath() string {
	dir := DataDir()
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, "config.json")
}

// Load reads the config file at path and applies environment overrides.
// If path is empty, ConfigPath() is used. A missing file yields defaults;
// a malformed one prints a warning and falls back to defaults.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile is Load without environment overrides, for rewriting the file
// without copying secrets from the environment into it.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v, err := newViper(withEnv)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config %s: %v\n", path, err)
			fmt.Fprintln(os.Stderr, "Using default configuration.")
			if v, err = newViper(withEnv); err != nil {
				return nil, err
			}
		}
	} else if !os.IsNotExist(statErr) {
		return nil, fmt.Errorf("stat config %s: %w", path, statErr)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg, jsonTags); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

func newViper(withEnv bool) (*viper.Viper, error) {
	v := viper.New()

	defaults, err := toMap(DefaultConfig())
	if err != nil {
		return nil, err
	}
	setDefaults(v, "", defaults)
	if !withEnv {
		return v, nil
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return v, nil
}

// setDefaults registers every leaf of m so that AutomaticEnv can see it.
func setDefaults(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok && len(sub) > 0 {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// jsonTags makes viper decode through the json struct tags, so the same
// camelCase keys work in JSON, YAML and the environment.
func jsonTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
}

func toMap(cfg Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return m, nil
}

// Save writes cfg to path as indented JSON, or as YAML when path ends in
// .yaml or .yml. If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err := toMap(*cfg)
		if err != nil {
			return err
		}
		if data, err = yaml.Marshal(integral(m)); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	default:
		var err error
		if data, err = json.MarshalIndent(cfg, "", "  "); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = append(data, '\n')
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// integral turns whole float64 values from a JSON round trip back into
// integers, so YAML shows 20971520 rather than 2.097152e+07.
func integral(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = integral(e)
		}
	case []any:
		for i, e := range x {
			x[i] = integral(e)
		}
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
	}
	return v
}
