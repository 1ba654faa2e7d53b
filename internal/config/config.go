package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends understood by the server.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config is the main configuration structure. It is populated once at
// startup by Load and passed down explicitly; nothing re-reads the
// environment afterwards.
type Config struct {
	Common Common `yaml:"common"`

	// Source names the file the values were merged from, or "defaults".
	Source string `yaml:"-"`
}

type Common struct {
	Log      LogConfig      `yaml:"log"`
	Http     HttpConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Lambda   LambdaConfig   `yaml:"lambda"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HttpConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxRequestSize int64  `yaml:"max_request_size"`
}

// Addr is the listen address for the HTTP server.
func (c HttpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // dynamodb, postgres, redis or memory
	Table   string `yaml:"table"`   // table / collection holding the users
}

type DynamoDBConfig struct {
	Region       string `yaml:"region"`
	Offline      bool   `yaml:"offline"`        // talk to a local endpoint instead of the regional one
	Endpoint     string `yaml:"endpoint"`       // local endpoint used when offline
	MaxAttempts  int    `yaml:"max_attempts"`   // SDK attempts per call, 1 disables retries
	ScanPageSize int32  `yaml:"scan_page_size"` // 0 lets DynamoDB size the pages
}

type PostgresConfig struct {
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Database           string `yaml:"database"`
	MaxOpenConnections int    `yaml:"max_open_connections"`
	ScanPageSize       int    `yaml:"scan_page_size"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

type RedisConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Password     string `yaml:"password"`
	Database     int    `yaml:"database"`
	ScanPageSize int64  `yaml:"scan_page_size"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LambdaConfig struct {
	PayloadVersion int `yaml:"payload_version"` // API Gateway payload format, 1 or 2
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Http: HttpConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			MaxRequestSize: 1048576,
		},
		Store: StoreConfig{
			Backend: BackendDynamoDB,
			Table:   "users",
		},
		DynamoDB: DynamoDBConfig{
			Region:      "us-east-1",
			Endpoint:    "http://localhost:8000",
			MaxAttempts: 1,
		},
		Postgres: PostgresConfig{
			User:               "postgres",
			Password:           "postgres",
			Host:               "localhost",
			Port:               5432,
			Database:           "users",
			MaxOpenConnections: 10,
			ScanPageSize:       100,
		},
		Redis: RedisConfig{
			Host:         "localhost",
			Port:         6379,
			ScanPageSize: 100,
		},
		Lambda: LambdaConfig{
			PayloadVersion: 2,
		},
	},
	Source: "defaults",
}

// Default returns a copy of the built-in defaults.
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load builds the configuration following proper precedence:
// defaults → config file → .env → environment variables.
// A missing config file is not an error; a malformed one is.
func Load() (*Config, error) {
	configFile := os.Getenv("USERS_API_CONFIG_FILE")
	if configFile == "" {
		configFile = "users-api.yaml"
	}

	cfg, err := LoadFromFile(configFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	ApplyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile merges a YAML file over the defaults.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Source = filename

	return &cfg, nil
}

// ApplyEnvOverrides overrides cfg with environment variables if present.
// USERS_TABLE, REGION and IS_OFFLINE keep the names the service was
// originally deployed with.
func ApplyEnvOverrides(cfg *Config) {
	if table := os.Getenv("USERS_TABLE"); table != "" {
		cfg.Common.Store.Table = table
	}
	if region := os.Getenv("REGION"); region != "" {
		cfg.Common.DynamoDB.Region = region
	}
	if offline, ok := os.LookupEnv("IS_OFFLINE"); ok {
		cfg.Common.DynamoDB.Offline = parseFlag(offline)
	}
	if endpoint := os.Getenv("USERS_API_DYNAMODB_ENDPOINT"); endpoint != "" {
		cfg.Common.DynamoDB.Endpoint = endpoint
	}
	if attempts := os.Getenv("USERS_API_DYNAMODB_MAX_ATTEMPTS"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil {
			cfg.Common.DynamoDB.MaxAttempts = n
		}
	}

	if backend := os.Getenv("USERS_API_STORE_BACKEND"); backend != "" {
		cfg.Common.Store.Backend = strings.ToLower(backend)
	}

	if level := os.Getenv("USERS_API_LOG_LEVEL"); level != "" {
		cfg.Common.Log.Level = level
	}
	if format := os.Getenv("USERS_API_LOG_FORMAT"); format != "" {
		cfg.Common.Log.Format = format
	}

	if httpHost := os.Getenv("USERS_API_HTTP_HOST"); httpHost != "" {
		cfg.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("USERS_API_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			cfg.Common.Http.Port = port
		}
	}

	if dbHost := os.Getenv("USERS_API_DB_HOST"); dbHost != "" {
		cfg.Common.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("USERS_API_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Common.Postgres.Port = port
		}
	}
	if dbUser := os.Getenv("USERS_API_DB_USER"); dbUser != "" {
		cfg.Common.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("USERS_API_DB_PASSWORD"); dbPassword != "" {
		cfg.Common.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("USERS_API_DB_NAME"); dbName != "" {
		cfg.Common.Postgres.Database = dbName
	}

	if redisHost := os.Getenv("USERS_API_REDIS_HOST"); redisHost != "" {
		cfg.Common.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("USERS_API_REDIS_PORT"); redisPort != "" {
		if port, err := strconv.Atoi(redisPort); err == nil {
			cfg.Common.Redis.Port = port
		}
	}
	if redisPassword := os.Getenv("USERS_API_REDIS_PASSWORD"); redisPassword != "" {
		cfg.Common.Redis.Password = redisPassword
	}

	if payload := os.Getenv("USERS_API_LAMBDA_PAYLOAD_VERSION"); payload != "" {
		if v, err := strconv.Atoi(payload); err == nil {
			cfg.Common.Lambda.PayloadVersion = v
		}
	}
}

// parseFlag accepts the usual boolean spellings. Any other non-empty value
// counts as set, matching how the offline switch has always been read.
func parseFlag(v string) bool {
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	switch c.Common.Store.Backend {
	case BackendDynamoDB, BackendPostgres, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unsupported store backend %q", c.Common.Store.Backend)
	}

	if c.Common.Store.Table == "" {
		return fmt.Errorf("store table name is required - set store.table or USERS_TABLE")
	}

	if c.Common.Http.Port <= 0 || c.Common.Http.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.Common.Http.Port)
	}

	if c.Common.Store.Backend == BackendDynamoDB {
		if c.Common.DynamoDB.Region == "" && !c.Common.DynamoDB.Offline {
			return fmt.Errorf("dynamodb region is required - set dynamodb.region or REGION")
		}
		if c.Common.DynamoDB.Offline && c.Common.DynamoDB.Endpoint == "" {
			return fmt.Errorf("dynamodb endpoint is required when offline")
		}
	}

	switch c.Common.Lambda.PayloadVersion {
	case 1, 2:
	default:
		return fmt.Errorf("unsupported lambda payload version %d", c.Common.Lambda.PayloadVersion)
	}

	return nil
}
