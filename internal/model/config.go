package model

// Config holds the complete Chronos configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Credibility CredibilityConfig `yaml:"credibility" mapstructure:"credibility"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// LLMConfig configures the generative-text reconstruction service
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// SearchConfig configures the live search backend
type SearchConfig struct {
	Backend   string `yaml:"backend" mapstructure:"backend"` // duckduckgo, searxng, file
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	FilePath  string `yaml:"file_path,omitempty" mapstructure:"file_path"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	LiveLimit int    `yaml:"live_limit" mapstructure:"live_limit"`
}

// CredibilityConfig lists the domain fragments for each credibility tier.
// Matching is case-insensitive substring containment against the URL.
type CredibilityConfig struct {
	TopDomains       []string `yaml:"top_domains" mapstructure:"top_domains"`             // credibility 5
	ReferenceDomains []string `yaml:"reference_domains" mapstructure:"reference_domains"` // credibility 4
	CommunityDomains []string `yaml:"community_domains" mapstructure:"community_domains"` // credibility 3
}

// HTTPConfig configures outbound HTTP clients
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     int    `yaml:"read_timeout" mapstructure:"read_timeout"`         // seconds
	WriteTimeout    int    `yaml:"write_timeout" mapstructure:"write_timeout"`       // seconds
	ShutdownTimeout int    `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
	MaxBodyBytes    int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     30,
			MaxTokens:   2048,
			Temperature: 0.4,
		},
		Search: SearchConfig{
			Backend:   "duckduckgo",
			Timeout:   10,
			LiveLimit: 4,
		},
		Credibility: DefaultCredibilityConfig(),
		HTTP: HTTPConfig{
			UserAgent: "Chronos/0.1 (+https://github.com/ppiankov/chronos)",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15,
			WriteTimeout:    90,
			ShutdownTimeout: 10,
			MaxBodyBytes:    64 << 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}

// DefaultCredibilityConfig returns the built-in domain tiers
func DefaultCredibilityConfig() CredibilityConfig {
	return CredibilityConfig{
		TopDomains:       []string{"wikipedia.org", "dictionary.com", "knowyourmeme.com", "merriam-webster.com"},
		ReferenceDomains: []string{"archive.org", "britannica.com", ".edu", ".gov"},
		CommunityDomains: []string{"reddit.com", "medium.com", "forbes.com", "theverge.com"},
	}
}
