package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
	S3       S3Config       `mapstructure:"s3"`
	External ExternalConfig `mapstructure:"external"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	AppHost  string         `mapstructure:"host"`
	Port     string         `mapstructure:"port"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type StorageConfig struct {
	Path           string `mapstructure:"path"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// S3Config describes the bucket used by the cloud upload path. Endpoint is
// only set for S3-compatible services such as MinIO.
type S3Config struct {
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	Endpoint        string        `mapstructure:"endpoint"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type ExternalConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	DefaultUsername string        `mapstructure:"default_username"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

const (
	CachePolicyInvalidate = "invalidate"
	CachePolicyStale      = "stale"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type CacheConfig struct {
	Policy    string `mapstructure:"policy"`
	Backend   string `mapstructure:"backend"`
	RedisAddr string `mapstructure:"redis_addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("storage.path", "uploads")
	v.SetDefault("storage.max_upload_bytes", 10<<20)
	v.SetDefault("s3.timeout", 30*time.Second)
	v.SetDefault("external.base_url", "https://api.github.com")
	v.SetDefault("external.default_username", "dishagitt")
	v.SetDefault("external.timeout", 10*time.Second)
	v.SetDefault("cache.policy", CachePolicyInvalidate)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{
		"host", "db.source", "jwt.secret",
		"s3.bucket", "s3.region", "s3.access_key_id", "s3.secret_access_key", "s3.endpoint",
		"cache.redis_addr",
	} {
		v.SetDefault(key, "")
	}
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AddConfigPath("./configs")
	v.AddConfigPath("/configs")
	v.SetConfigName("settings")
	v.SetConfigType("yml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Source == "" {
		return errors.New("db.source is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	switch c.Cache.Policy {
	case CachePolicyInvalidate, CachePolicyStale:
	default:
		return fmt.Errorf("unknown cache.policy %q", c.Cache.Policy)
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}
	return nil
}
