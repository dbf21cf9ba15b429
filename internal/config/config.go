package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrParseEnv возвращается при ошибке разбора переменных окружения
	ErrParseEnv = errors.New("config: failed to parse environment")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Режимы хранилища
const (
	StoreRemote   = "remote"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Бэкенды кэша
const (
	CacheLRU   = "lru"
	CacheRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Store      StoreConfig      `toml:"store"`
	Database   DatabaseConfig   `toml:"database"`
	Backend    BackendConfig    `toml:"backend"`
	Cache      CacheConfig      `toml:"cache"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
	// CORSAllowedOrigins разрешённые источники для UI, пусто - CORS выключен
	CORSAllowedOrigins []string `toml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type LogsConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
	File  string `toml:"file" env:"LOG_FILE"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path" env:"METRICS_PATH"`
	ServiceName string `toml:"service_name" env:"METRICS_SERVICE_NAME"`
}

// StoreConfig выбирает адаптер хранилища: remote, postgres или memory
type StoreConfig struct {
	Mode string `toml:"mode" env:"STORE_MODE"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

// DSN собирает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// BackendConfig удалённый бэкенд турнов
type BackendConfig struct {
	URL     string `toml:"url" env:"BACKEND_URL"`
	Token   string `toml:"token" env:"BACKEND_TOKEN"`
	Timeout int    `toml:"timeout" env:"BACKEND_TIMEOUT"`
	Retries int    `toml:"retries" env:"BACKEND_RETRIES"`
	// RetryBackoffMs базовая пауза между повторами чтения
	RetryBackoffMs int `toml:"retry_backoff_ms" env:"BACKEND_RETRY_BACKOFF_MS"`
	// RateLimit запросов в секунду к бэкенду, 0 - без ограничения
	RateLimit float64 `toml:"rate_limit" env:"BACKEND_RATE_LIMIT"`
	RateBurst int     `toml:"rate_burst" env:"BACKEND_RATE_BURST"`
}

func (c BackendConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c BackendConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMs) * time.Millisecond
}

type CacheConfig struct {
	Enabled bool        `toml:"enabled" env:"CACHE_ENABLED"`
	Backend string      `toml:"backend" env:"CACHE_BACKEND"`
	Size    int         `toml:"size" env:"CACHE_SIZE"`
	TTL     int         `toml:"ttl" env:"CACHE_TTL"`
	Redis   RedisConfig `toml:"redis"`
}

func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

type RedisConfig struct {
	Addr     string `toml:"addr" env:"REDIS_ADDR"`
	Password string `toml:"password" env:"REDIS_PASSWORD"`
	DB       int    `toml:"db" env:"REDIS_DB"`
	Prefix   string `toml:"prefix" env:"REDIS_PREFIX"`
}

type SchedulingConfig struct {
	Timezone string `toml:"timezone" env:"APP_TIMEZONE"`
	// MaxWeekOffset ограничивает горизонт просмотра слотов, 0 - без ограничений
	MaxWeekOffset int `toml:"max_week_offset" env:"SCHEDULING_MAX_WEEK_OFFSET"`
}

// Location возвращает часовой пояс расписания
func (c SchedulingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DotEnvFile файл с переменными окружения для локального запуска
const DotEnvFile = ".env"

// Load читает TOML-файл, накладывает переменные окружения и проставляет значения по умолчанию.
// Отсутствующий файл не является ошибкой: конфигурация может быть целиком задана окружением.
// Переменные из .env не перекрывают уже заданные в окружении.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, DotEnvFile, err)
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseEnv, err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "turnos-service"
	}

	c.Store.Mode = strings.ToLower(c.Store.Mode)
	if c.Store.Mode == "" {
		c.Store.Mode = StoreRemote
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10
	}
	if c.Backend.Retries == 0 {
		c.Backend.Retries = 3
	}
	if c.Backend.RetryBackoffMs == 0 {
		c.Backend.RetryBackoffMs = 200
	}
	if c.Backend.RateLimit > 0 && c.Backend.RateBurst == 0 {
		c.Backend.RateBurst = 1
	}

	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheLRU
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 1000
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 60
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "turnos:"
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Store.Mode {
	case StoreRemote:
		if c.Backend.URL == "" {
			return fmt.Errorf("%w: backend.url is required for store mode %q", ErrInvalidConfig, c.Store.Mode)
		}
	case StorePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for store mode %q", ErrInvalidConfig, c.Store.Mode)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store mode %q", ErrInvalidConfig, c.Store.Mode)
	}

	switch c.Cache.Backend {
	case CacheLRU, CacheRedis:
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}

	if c.Scheduling.MaxWeekOffset < 0 {
		return fmt.Errorf("%w: scheduling.max_week_offset must be >= 0", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Backend.Retries < 1 {
		return fmt.Errorf("%w: backend.retries must be >= 1", ErrInvalidConfig)
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("%w: backend.rate_limit must be >= 0", ErrInvalidConfig)
	}

	return nil
}
