package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Password     PasswordConfig
	JWT          JWTConfig
	OpenAI       OpenAIConfig
	Agent        AgentConfig
	Chain        ChainConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env         string   `envconfig:"AIVANA_APP_ENV" default:"dev"`
	Port        string   `envconfig:"AIVANA_APP_PORT" default:"3000"`
	LogLevel    string   `envconfig:"AIVANA_LOG_LEVEL" default:"info"`
	CORSOrigins []string `envconfig:"AIVANA_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "prod")
}

type DBConfig struct {
	DSN    string `envconfig:"AIVANA_DB_DSN"`
	Driver string `envconfig:"AIVANA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"AIVANA_DB_HOST"`
	Port     int    `envconfig:"AIVANA_DB_PORT" default:"5432"`
	User     string `envconfig:"AIVANA_DB_USER"`
	Password string `envconfig:"AIVANA_DB_PASSWORD"`
	Name     string `envconfig:"AIVANA_DB_NAME"`
	SSLMode  string `envconfig:"AIVANA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AIVANA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AIVANA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AIVANA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AIVANA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"AIVANA_DB_HOST": db.Host,
		"AIVANA_DB_USER": db.User,
		"AIVANA_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either AIVANA_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"AIVANA_REDIS_URL"`
	Address      string        `envconfig:"AIVANA_REDIS_ADDR"`
	Password     string        `envconfig:"AIVANA_REDIS_PASSWORD"`
	DB           int           `envconfig:"AIVANA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AIVANA_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"AIVANA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AIVANA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AIVANA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether any redis endpoint was supplied. The per-session
// settlement lock falls back to the in-process implementation when it is not.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type RateLimitConfig struct {
	ChatWindow time.Duration `envconfig:"AIVANA_CHAT_RATE_WINDOW" default:"1m"`
	ChatLimit  int           `envconfig:"AIVANA_CHAT_RATE_LIMIT" default:"30"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AIVANA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AIVANA_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"AIVANA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AIVANA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AIVANA_ARGON_KEY_LEN" default:"32"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AIVANA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AIVANA_JWT_ISSUER" default:"aivana"`
	ExpirationMinutes int    `envconfig:"AIVANA_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type OpenAIConfig struct {
	APIKey  string        `envconfig:"AIVANA_OPENAI_API_KEY" required:"true"`
	BaseURL string        `envconfig:"AIVANA_OPENAI_BASE_URL"`
	Timeout time.Duration `envconfig:"AIVANA_OPENAI_TIMEOUT" default:"30s"`
}

type AgentConfig struct {
	Model         string  `envconfig:"AIVANA_AGENT_MODEL" default:"gpt-4o-mini"`
	Temperature   float64 `envconfig:"AIVANA_AGENT_TEMPERATURE" default:"0.7"`
	MaxTokens     int64   `envconfig:"AIVANA_AGENT_MAX_TOKENS" default:"500"`
	HistoryWindow int     `envconfig:"AIVANA_AGENT_HISTORY_WINDOW" default:"10"`
}

type ChainConfig struct {
	RPCURL         string        `envconfig:"AIVANA_CHAIN_RPC_URL"`
	MerchantWallet string        `envconfig:"AIVANA_MERCHANT_WALLET"`
	Timeout        time.Duration `envconfig:"AIVANA_CHAIN_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AIVANA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AIVANA_AUTO_MIGRATE" default:"false"`
}
