package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
	BackendLocal  = "local"

	FetchStatic   = "static"
	FetchRendered = "rendered"
)

type Config struct {
	Token        string  `env:"TOKEN"`
	AllowedUsers []int64 `env:"ALLOWED_USERS"`
	DBPath       string  `env:"DB_PATH"       envDefault:"db.sqlite"`
	HTTPAddr     string  `env:"HTTP_ADDR"`

	Backend        string `env:"BACKEND"          envDefault:"openai"`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"`
	OpenAIModel    string `env:"OPENAI_MODEL"     envDefault:"gpt-4o-mini"`
	OllamaURL      string `env:"OLLAMA_URL"       envDefault:"http://localhost:11434/api/chat"`
	OllamaModel    string `env:"OLLAMA_MODEL"     envDefault:"llama3.2:latest"`
	LocalEncoding  string `env:"LOCAL_ENCODING"   envDefault:"cl100k_base"`
	LocalMaxTokens int    `env:"LOCAL_MAX_TOKENS" envDefault:"256"`

	FetchMode          string        `env:"FETCH_MODE"           envDefault:"static"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT"        envDefault:"20s"`
	ChromePath         string        `env:"CHROME_PATH"`
	RenderWaitSelector string        `env:"RENDER_WAIT_SELECTOR" envDefault:"body"`
	RenderSettle       time.Duration `env:"RENDER_SETTLE"        envDefault:"3s"`
	RenderTimeout      time.Duration `env:"RENDER_TIMEOUT"       envDefault:"30s"`

	HistoryRetention time.Duration `env:"HISTORY_RETENTION"  envDefault:"720h"`
	SummaryCacheTTL  time.Duration `env:"SUMMARY_CACHE_TTL"  envDefault:"1h"`
	SummaryCacheSize int           `env:"SUMMARY_CACHE_SIZE" envDefault:"0"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendOpenAI, BackendOllama, BackendLocal:
	default:
		return fmt.Errorf("unknown BACKEND %q (want %s, %s or %s)", c.Backend, BackendOpenAI, BackendOllama, BackendLocal)
	}

	switch c.FetchMode {
	case FetchStatic, FetchRendered:
	default:
		return fmt.Errorf("unknown FETCH_MODE %q (want %s or %s)", c.FetchMode, FetchStatic, FetchRendered)
	}

	if c.Backend == BackendOpenAI && strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when BACKEND is %s", BackendOpenAI)
	}

	if strings.TrimSpace(c.Token) == "" && strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("at least one of TOKEN or HTTP_ADDR must be set")
	}

	return nil
}

// CheckOpenAIKey returns human readable problems with the key's shape. An
// empty result does not mean the key works.
func CheckOpenAIKey(apiKey string) []string {
	var problems []string

	switch {
	case apiKey == "":
		problems = append(problems, "no API key was found")
	case !strings.HasPrefix(strings.TrimSpace(apiKey), "sk-"):
		problems = append(problems, "API key does not start with sk-")
	}

	if apiKey != "" && strings.TrimSpace(apiKey) != apiKey {
		problems = append(problems, "API key has whitespace at the start or end")
	}

	return problems
}
