package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	MySQL      MySQLConfig      `mapstructure:"mysql"`
	Database   PostgresConfig   `mapstructure:"database"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Redis      RedisConfig      `mapstructure:"redis"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type ExtractionConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MatchingConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CatalogConfig struct {
	File string `mapstructure:"file"`
}

type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	MaxSize int64  `mapstructure:"max_size"`
}

type NormalizerConfig struct {
	Strict bool `mapstructure:"strict"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"pool_size"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

var defaults = map[string]any{
	"server.port":             8080,
	"server.shutdown_timeout": 10 * time.Second,

	"db.driver":             "mysql",
	"db.max_open_conns":     50,
	"db.max_idle_conns":     10,
	"db.conn_max_lifetime":  5 * time.Minute,
	"db.conn_max_idle_time": time.Minute,

	"mysql.host":     "localhost",
	"mysql.port":     3306,
	"mysql.user":     "root",
	"mysql.password": "",
	"mysql.database": "sales_orders",

	"database.url": "",

	"extraction.api_url": "https://plankton-app-qajlk.ondigitalocean.app",
	"extraction.timeout": 60 * time.Second,
	"matching.api_url":   "https://endeavor-interview-api-gzwki.ondigitalocean.app",
	"matching.timeout":   30 * time.Second,

	"catalog.file":    "data/unique_fastener_catalog.csv",
	"upload.dir":      "uploads",
	"upload.max_size": int64(32 << 20),

	"normalizer.strict": false,

	"redis.url":         "",
	"redis.pool_size":   20,
	"rabbitmq.url":      "",
	"rabbitmq.exchange": "order.exchange",
	"cache.ttl":         30 * time.Second,

	"log.level":    "info",
	"log.encoding": "json",
}

// Load reads configuration from the environment (after loading .env when present) and,
// when configPath is not empty, from a YAML file. Environment values win over the file.
// Nested keys map to env names with dots replaced by underscores, e.g. MYSQL_HOST.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}
	switch c.DB.Driver {
	case "mysql":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Extraction.APIURL == "" || c.Matching.APIURL == "" {
		return fmt.Errorf("extraction and matching API URLs are required")
	}
	return nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}
