package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load reads the .env file specified by HELIOS_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("HELIOS_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// StoreDriver returns the record store backend.
// Valid values: postgres (default), sqlite
func StoreDriver() string {
	d := strings.ToLower(os.Getenv("STORE_DRIVER"))
	if d == "" {
		return "postgres"
	}
	return d
}

func SQLitePath() string {
	p := os.Getenv("SQLITE_PATH")
	if p == "" {
		return "helios.db"
	}
	return p
}

// AutoMigrate reports whether Postgres migrations run at startup.
func AutoMigrate() bool {
	v, err := strconv.ParseBool(os.Getenv("AUTO_MIGRATE"))
	return err == nil && v
}

// NPCSource returns where NPC definitions are read from.
// Valid values: store (default), yaml
func NPCSource() string {
	s := strings.ToLower(os.Getenv("NPC_SOURCE"))
	if s == "" {
		return "store"
	}
	return s
}

func CharactersDir() string {
	d := os.Getenv("CHARACTERS_DIR")
	if d == "" {
		return "characters"
	}
	return d
}

// RedisURL returns the Redis address for conversation history.
// Empty means history is kept in process memory.
func RedisURL() string {
	return os.Getenv("REDIS_URL")
}

// HistoryMaxTurns returns how many turns are kept per player/NPC pair.
// Defaults to 20 if not set.
func HistoryMaxTurns() int {
	n, err := strconv.Atoi(os.Getenv("HISTORY_MAX_TURNS"))
	if err != nil || n <= 0 {
		return 20
	}
	return n
}

// LLMProvider returns the configured LLM provider.
// Defaults to "deepseek" if not set.
// Valid values: deepseek, openai, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "deepseek"
	}
	return p
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// LLMBaseURL overrides the provider's default endpoint.
func LLMBaseURL() string {
	return os.Getenv("LLM_BASE_URL")
}

func LLMModel() string {
	return os.Getenv("LLM_MODEL")
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// CORSOrigins returns the allowed browser origins. Defaults to all.
func CORSOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Tracing holds OpenTelemetry exporter settings.
type Tracing struct {
	Enabled     bool              `env:"OTEL_TRACES_ENABLED" envDefault:"false"`
	Endpoint    string            `env:"TRACES_ENDPOINT" envDefault:"http://localhost:4318/v1/traces"`
	Headers     map[string]string `env:"TRACES_HEADERS" envKeyValSeparator:"="`
	ServiceName string            `env:"TRACES_SERVICE_NAME" envDefault:"helios"`
	Environment string            `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadTracing parses tracing settings from the environment.
func LoadTracing() (Tracing, error) {
	var cfg Tracing
	if err := env.Parse(&cfg); err != nil {
		return Tracing{}, fmt.Errorf("parse tracing env: %w", err)
	}
	return cfg, nil
}
