package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/keywords"
	"github.com/cognicore/pdfdigest/pkg/digest/stoplist"
)

const envPrefix = "PDFDIGEST_"

// Store drivers
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	MongoURI   string `yaml:"mongo_uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	CacheSize int           `yaml:"cache_size"`
	UserAgent string        `yaml:"user_agent"`
}

type KeywordsConfig struct {
	Max       int `yaml:"max"`
	MinLength int `yaml:"min_length"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full runtime configuration
type Config struct {
	Store          StoreConfig    `yaml:"store"`
	Fetch          FetchConfig    `yaml:"fetch"`
	Keywords       KeywordsConfig `yaml:"keywords"`
	StoplistPath   string         `yaml:"stoplist"`
	DetectLanguage bool           `yaml:"detect_language"`
	Log            LogConfig      `yaml:"log"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:     DriverSQLite,
			Path:       "pdfdigest.db",
			Database:   "pdf_database",
			Collection: "pdf_documents",
		},
		Fetch: FetchConfig{
			Timeout:   60 * time.Second,
			MaxBytes:  64 << 20,
			CacheSize: 128,
			UserAgent: "pdfdigest/1.0",
		},
		Keywords: KeywordsConfig{
			Max:       keywords.DefaultMax,
			MinLength: keywords.DefaultMinLength,
		},
		DetectLanguage: true,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// any), dotenv files and PDFDIGEST_* environment variables, in that order
// of increasing precedence. Without envFiles a .env in the working
// directory is read when present.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Path = getEnv("SQLITE_PATH", c.Store.Path)
	c.Store.MongoURI = getEnv("MONGO_URI", c.Store.MongoURI)
	c.Store.Database = getEnv("MONGO_DATABASE", c.Store.Database)
	c.Store.Collection = getEnv("MONGO_COLLECTION", c.Store.Collection)
	c.Fetch.UserAgent = getEnv("USER_AGENT", c.Fetch.UserAgent)
	c.StoplistPath = getEnv("STOPLIST", c.StoplistPath)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	var err error
	if c.Fetch.Timeout, err = getEnvDuration("FETCH_TIMEOUT", c.Fetch.Timeout); err != nil {
		return err
	}
	if c.Fetch.MaxBytes, err = getEnvInt64("FETCH_MAX_BYTES", c.Fetch.MaxBytes); err != nil {
		return err
	}
	if c.Fetch.CacheSize, err = getEnvInt("FETCH_CACHE_SIZE", c.Fetch.CacheSize); err != nil {
		return err
	}
	if c.Keywords.Max, err = getEnvInt("KEYWORDS_MAX", c.Keywords.Max); err != nil {
		return err
	}
	if c.Keywords.MinLength, err = getEnvInt("KEYWORDS_MIN_LENGTH", c.Keywords.MinLength); err != nil {
		return err
	}
	if c.DetectLanguage, err = getEnvBool("DETECT_LANGUAGE", c.DetectLanguage); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store needs a path: %w", internalerr.ErrInvalidConfig)
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("mongo store needs mongo_uri: %w", internalerr.ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q: %w", c.Store.Driver, internalerr.ErrInvalidConfig)
	}

	if c.Keywords.Max <= 0 {
		return fmt.Errorf("keywords.max must be positive: %w", internalerr.ErrInvalidConfig)
	}
	if c.Keywords.MinLength < 0 {
		return fmt.Errorf("keywords.min_length must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Fetch.Timeout <= 0 || c.Fetch.MaxBytes <= 0 || c.Fetch.CacheSize < 0 {
		return fmt.Errorf("fetch limits must be positive: %w", internalerr.ErrInvalidConfig)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q: %w", c.Log.Level, internalerr.ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q: %w", c.Log.Format, internalerr.ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s=%q: %w", envPrefix, key, value, internalerr.ErrInvalidConfig)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s%s=%q: %w", envPrefix, key, value, internalerr.ErrInvalidConfig)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s%s=%q: %w", envPrefix, key, value, internalerr.ErrInvalidConfig)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s=%q: %w", envPrefix, key, value, internalerr.ErrInvalidConfig)
	}
	return d, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	terms, err := stoplist.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Stoplist{Terms: terms}, nil
}
