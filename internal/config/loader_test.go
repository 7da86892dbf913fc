package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// isolated returns options that never touch the real home directory or a
// stray .env in the package directory
func isolated(t *testing.T) Options {
	t.Helper()
	return Options{
		SearchPaths: []string{t.TempDir()},
		DotEnvFiles: []string{},
		Getenv:      envMap(nil),
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), isolated(t))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, 30, cfg.LLM.Timeout)
	assert.Equal(t, "duckduckgo", cfg.Search.Backend)
	assert.Equal(t, 10, cfg.Search.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Concurrency.Workers)
	assert.Contains(t, cfg.Credibility.TopDomains, "wikipedia.org")
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	opts := isolated(t)
	opts.ConfigFile = writeConfig(t, `
llm:
  model: gemini-1.5-pro
  timeout: 45
search:
  backend: searxng
  base_url: http://localhost:8888
credibility:
  top_domains: [example.org]
logging:
  format: json
`)

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.Model)
	assert.Equal(t, 45, cfg.LLM.Timeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider, "unset keys keep defaults")
	assert.Equal(t, "searxng", cfg.Search.Backend)
	assert.Equal(t, []string{"example.org"}, cfg.Credibility.TopDomains)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	opts := isolated(t)
	opts.ConfigFile = writeConfig(t, "llm:\n  model: from-file\n  api_key: file-key\n")
	t.Setenv("CHRONOS_LLM_MODEL", "from-env")
	t.Setenv("CHRONOS_SERVER_ADDR", "127.0.0.1:9999")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
}

func TestLoad_LegacyGeminiKey(t *testing.T) {
	opts := isolated(t)
	opts.Getenv = envMap(map[string]string{"GEMINI_API_KEY": "legacy"})

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.LLM.APIKey)
}

func TestLoad_ExplicitKeyBeatsLegacy(t *testing.T) {
	opts := isolated(t)
	opts.Getenv = envMap(map[string]string{"GEMINI_API_KEY": "legacy"})
	t.Setenv("CHRONOS_LLM_API_KEY", "explicit")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	opts := isolated(t)
	opts.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(viper.New(), opts)
	assert.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	opts := isolated(t)
	opts.ConfigFile = writeConfig(t, "llm:\n  provider: bard\n")

	_, err := Load(viper.New(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	base := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("CHRONOS_TEST_DOTENV_MODEL=local-model\n"), 0o600))
	require.NoError(t, os.WriteFile(base, []byte("CHRONOS_TEST_DOTENV_MODEL=base-model\nCHRONOS_TEST_DOTENV_ONLY_BASE=yes\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("CHRONOS_TEST_DOTENV_MODEL")
		_ = os.Unsetenv("CHRONOS_TEST_DOTENV_ONLY_BASE")
	})

	loaded, err := LoadDotEnv(local, base, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{local, base}, loaded)
	assert.Equal(t, "local-model", os.Getenv("CHRONOS_TEST_DOTENV_MODEL"))
	assert.Equal(t, "yes", os.Getenv("CHRONOS_TEST_DOTENV_ONLY_BASE"))
}

func TestApplyCredentialFallbacks(t *testing.T) {
	env := envMap(map[string]string{
		"GOOGLE_API_KEY":    "google",
		"OPENAI_API_KEY":    "openai",
		"ANTHROPIC_API_KEY": "anthropic",
		"OLLAMA_BASE_URL":   "http://ollama:11434",
	})

	tests := []struct {
		provider    string
		wantKey     string
		wantBaseURL string
	}{
		{provider: "gemini", wantKey: "google"},
		{provider: "openai", wantKey: "openai"},
		{provider: "claude", wantKey: "anthropic"},
		{provider: "ollama", wantBaseURL: "http://ollama:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg, err := Load(viper.New(), isolated(t))
			require.NoError(t, err)
			cfg.LLM.Provider = tt.provider

			ApplyCredentialFallbacks(cfg, env)

			assert.Equal(t, tt.wantKey, cfg.LLM.APIKey)
			assert.Equal(t, tt.wantBaseURL, cfg.LLM.BaseURL)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(viper.New(), isolated(t))
	require.NoError(t, err)

	cfg.Search.Backend = "file"
	assert.Error(t, Validate(cfg))

	cfg.Search.FilePath = "results.json"
	assert.NoError(t, Validate(cfg))

	cfg.Concurrency.Workers = 0
	assert.Error(t, Validate(cfg))
}
