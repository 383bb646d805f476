package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// clearEnv hides any credentials set on the test machine. Empty values
// count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envAliases {
		t.Setenv(env, "")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
	if cfg.Agents.Defaults.MaxToolIter != 5 {
		t.Errorf("expected default tool rounds 5, got %d", cfg.Agents.Defaults.MaxToolIter)
	}
	if cfg.Tools.Drive.MaxChars != 100000 || cfg.Tools.Drive.MaxResults != 100 {
		t.Errorf("unexpected drive defaults %+v", cfg.Tools.Drive)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model":             "openai/gpt-4o-mini",
				"maxTokens":         2048,
				"maxToolIterations": 3,
			},
		},
		"providers": map[string]any{
			"openai": map[string]any{"apiKey": "sk-test"},
		},
		"tools": map[string]any{
			"asana": map[string]any{"accessToken": "tok", "projectId": "123"},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agents.Defaults.Model != "openai/gpt-4o-mini" {
		t.Errorf("expected model %q, got %q", "openai/gpt-4o-mini", cfg.Agents.Defaults.Model)
	}
	if cfg.Agents.Defaults.MaxTokens != 2048 || cfg.Agents.Defaults.MaxToolIter != 3 {
		t.Errorf("unexpected agent defaults %+v", cfg.Agents.Defaults)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected camelCase apiKey to load, got %q", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Tools.Asana.AccessToken != "tok" || cfg.Tools.Asana.ProjectID != "123" {
		t.Errorf("unexpected asana config %+v", cfg.Tools.Asana)
	}
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "agents:\n  defaults:\n    model: groq/llama-3\ngateway:\n  port: 9000\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agents.Defaults.Model != "groq/llama-3" || cfg.Gateway.Port != 9000 {
		t.Errorf("unexpected config %+v / %+v", cfg.Agents.Defaults, cfg.Gateway)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPEN_AI_MODEL", "gpt-4.1")
	t.Setenv("ASANA_ACCESS_TOKEN", "asana-env")
	t.Setenv("ASANA_PROJECT_ID", "42")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/sa.json")
	t.Setenv("DESKPILOT_GATEWAY_PORT", "8088")
	t.Setenv("DESKPILOT_AGENTS_DEFAULTS_MAXTOOLITERATIONS", "2")

	path := writeConfig(t, t.TempDir(), map[string]any{
		"agents": map[string]any{"defaults": map[string]any{"model": "from-file"}},
	})
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Providers.OpenAI.APIKey != "sk-env" {
		t.Errorf("OPENAI_API_KEY not applied: %q", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Agents.Defaults.Model != "gpt-4.1" {
		t.Errorf("OPEN_AI_MODEL should win over the file, got %q", cfg.Agents.Defaults.Model)
	}
	if cfg.Tools.Asana.AccessToken != "asana-env" || cfg.Tools.Asana.ProjectID != "42" {
		t.Errorf("asana env not applied: %+v", cfg.Tools.Asana)
	}
	if cfg.Tools.Drive.CredentialsFile != "/tmp/sa.json" {
		t.Errorf("GOOGLE_APPLICATION_CREDENTIALS not applied: %q", cfg.Tools.Drive.CredentialsFile)
	}
	if cfg.Gateway.Port != 8088 || cfg.Agents.Defaults.MaxToolIter != 2 {
		t.Errorf("prefixed env not applied: port %d, rounds %d", cfg.Gateway.Port, cfg.Agents.Defaults.MaxToolIter)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{"config.json", "config.yaml"} {
		path := filepath.Join(t.TempDir(), name)

		original := DefaultConfig()
		original.Agents.Defaults.Model = "deepseek/deepseek-chat"
		original.Agents.Defaults.MaxTokens = 1234
		original.Tools.Asana.ProjectID = "987"

		if err := Save(&original, path); err != nil {
			t.Fatalf("%s: Save failed: %v", name, err)
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("%s: Load failed: %v", name, err)
		}
		if loaded.Agents.Defaults.Model != original.Agents.Defaults.Model {
			t.Errorf("%s: model mismatch: got %q, want %q", name, loaded.Agents.Defaults.Model, original.Agents.Defaults.Model)
		}
		if loaded.Agents.Defaults.MaxTokens != original.Agents.Defaults.MaxTokens {
			t.Errorf("%s: maxTokens mismatch: got %d, want %d", name, loaded.Agents.Defaults.MaxTokens, original.Agents.Defaults.MaxTokens)
		}
		if loaded.Tools.Asana.ProjectID != "987" {
			t.Errorf("%s: projectId mismatch: got %q", name, loaded.Tools.Asana.ProjectID)
		}
	}
}

func TestSave_YAMLKeepsCamelCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "maxToolIterations: 5") {
		t.Errorf("expected camelCase keys in YAML, got:\n%s", data)
	}
}

func TestSave_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	// Only set one field; the rest should come from DefaultConfig.
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model": "custom/model",
			},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != "custom/model" {
		t.Errorf("expected model %q, got %q", "custom/model", cfg.Agents.Defaults.Model)
	}
	if cfg.Agents.Defaults.Temperature != def.Agents.Defaults.Temperature {
		t.Errorf("expected default temperature %v, got %v", def.Agents.Defaults.Temperature, cfg.Agents.Defaults.Temperature)
	}
	if cfg.Tools.Drive.MaxDownloadBytes != def.Tools.Drive.MaxDownloadBytes {
		t.Errorf("expected default maxDownloadBytes %d, got %d", def.Tools.Drive.MaxDownloadBytes, cfg.Tools.Drive.MaxDownloadBytes)
	}
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := writeConfig(t, t.TempDir(), map[string]any{})

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "" {
		t.Errorf("expected env to be ignored, got %q", cfg.Providers.OpenAI.APIKey)
	}
}

func TestLoad_EnvOverridesEmptyDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DESKPILOT_TOOLS_DRIVE_TOKENFILE", "/tmp/token.json")
	t.Setenv("DESKPILOT_AGENTS_DEFAULTS_INSTRUCTIONS", "Answer briefly.")
	t.Setenv("DESKPILOT_PROVIDERS_OPENAI_APIBASE", "http://localhost:9999/v1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Tools.Drive.TokenFile != "/tmp/token.json" {
		t.Errorf("token file env not applied: %q", cfg.Tools.Drive.TokenFile)
	}
	if cfg.Agents.Defaults.Instructions != "Answer briefly." {
		t.Errorf("instructions env not applied: %q", cfg.Agents.Defaults.Instructions)
	}
	if cfg.Providers.OpenAI.APIBase != "http://localhost:9999/v1" {
		t.Errorf("api base env not applied: %q", cfg.Providers.OpenAI.APIBase)
	}
}
