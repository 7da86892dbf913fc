// Package config assembles model.Config from defaults, a YAML file,
// CHRONOS_* environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ppiankov/chronos/internal/model"
)

// EnvPrefix is the prefix for environment overrides, e.g. CHRONOS_LLM_MODEL
const EnvPrefix = "CHRONOS"

// Options controls where configuration is read from
type Options struct {
	// ConfigFile is an explicit config path (--config). When empty the
	// search paths are tried.
	ConfigFile string

	// SearchPaths are directories searched for config.yaml. Defaults to
	// $HOME/.chronos.
	SearchPaths []string

	// DotEnvFiles are loaded into the process environment before anything
	// else. Earlier files win. Defaults to .env.local and .env.
	DotEnvFiles []string

	// Getenv reads credential fallbacks. Defaults to os.Getenv.
	Getenv func(string) string
}

// DefaultConfigDir returns $HOME/.chronos
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".chronos"), nil
}

// LoadDotEnv loads the given .env files that exist and returns their paths
func LoadDotEnv(paths ...string) ([]string, error) {
	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// SetDefaults registers every configuration key with its default value.
// Keys unknown to viper are not picked up from the environment.
func SetDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)

	v.SetDefault("search.backend", d.Search.Backend)
	v.SetDefault("search.base_url", d.Search.BaseURL)
	v.SetDefault("search.api_key", d.Search.APIKey)
	v.SetDefault("search.file_path", d.Search.FilePath)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.live_limit", d.Search.LiveLimit)

	v.SetDefault("credibility.top_domains", d.Credibility.TopDomains)
	v.SetDefault("credibility.reference_domains", d.Credibility.ReferenceDomains)
	v.SetDefault("credibility.community_domains", d.Credibility.CommunityDomains)

	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
}

// Load builds the effective configuration on v. Precedence, highest first:
// flags bound to v, CHRONOS_* environment, config file, defaults. Provider
// credentials fall back to the conventional variables when still empty.
func Load(v *viper.Viper, opts Options) (*model.Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.DotEnvFiles == nil {
		opts.DotEnvFiles = []string{".env.local", ".env"}
	}

	if _, err := LoadDotEnv(opts.DotEnvFiles...); err != nil {
		return nil, err
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		paths := opts.SearchPaths
		if paths == nil {
			if dir, err := DefaultConfigDir(); err == nil {
				paths = []string{dir}
			}
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyCredentialFallbacks(cfg, opts.Getenv)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyCredentialFallbacks fills empty provider settings from the
// conventional environment variables
func ApplyCredentialFallbacks(cfg *model.Config, getenv func(string) string) {
	provider := strings.ToLower(cfg.LLM.Provider)

	if cfg.LLM.APIKey == "" {
		switch provider {
		case "gemini", "google", "":
			cfg.LLM.APIKey = firstNonEmpty(getenv("GEMINI_API_KEY"), getenv("GOOGLE_API_KEY"))
		case "openai":
			cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = getenv("ANTHROPIC_API_KEY")
		}
	}

	if provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = getenv("OLLAMA_BASE_URL")
	}
}

// Validate checks values that would otherwise fail late
func Validate(cfg *model.Config) error {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "gemini", "google", "openai", "anthropic", "claude", "ollama":
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", cfg.LLM.Provider)
	}

	switch strings.ToLower(cfg.Search.Backend) {
	case "", "duckduckgo", "ddg":
	case "searxng":
		if cfg.Search.BaseURL == "" {
			return errors.New("search.base_url is required for the searxng backend")
		}
	case "file":
		if cfg.Search.FilePath == "" {
			return errors.New("search.file_path is required for the file backend")
		}
	default:
		return fmt.Errorf("search.backend: unknown backend %q", cfg.Search.Backend)
	}

	if cfg.LLM.Timeout < 0 || cfg.Search.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if cfg.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be at least 1, got %d", cfg.Concurrency.Workers)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
