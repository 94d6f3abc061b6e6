package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Classifier  ClassifierConfig  `mapstructure:"classifier"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	Tracker     TrackerConfig     `mapstructure:"tracker"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

// StorageConfig configures the optional S3-compatible archive for
// full-resolution capture images. When disabled, meals keep only the
// base64 thumbnail in the database.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

// ClassifierConfig points the backend at the food recognition inference
// service (the model itself is an external collaborator).
type ClassifierConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SpoonacularConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TrackerConfig configures the client application.
type TrackerConfig struct {
	BackendURL    string        `mapstructure:"backend_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CameraCommand string        `mapstructure:"camera_command"`
	PreviewMaxPx  int           `mapstructure:"preview_max_px"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/meals.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "foodvision")
	v.SetDefault("classifier.endpoint", "http://localhost:9090/classify")
	v.SetDefault("classifier.timeout", 30*time.Second)
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.timeout", 15*time.Second)
	v.SetDefault("tracker.backend_url", "http://localhost:8000")
	v.SetDefault("tracker.timeout", 60*time.Second)
	v.SetDefault("tracker.preview_max_px", 320)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("spoonacular.api_key", "SPOONACULAR_API_KEY")
	v.BindEnv("classifier.endpoint", "CLASSIFIER_ENDPOINT")
	v.BindEnv("classifier.api_key", "CLASSIFIER_API_KEY")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("tracker.backend_url", "FOODVISION_BACKEND_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateTracker checks the configuration the client needs before any
// network call is attempted. A missing nutrient database key fails here,
// at process start, instead of surfacing later as a network error.
func (c *Config) ValidateTracker() error {
	if c.Spoonacular.APIKey == "" {
		return errors.New("spoonacular api key is not configured (set SPOONACULAR_API_KEY)")
	}
	if c.Tracker.BackendURL == "" {
		return errors.New("tracker backend url is not configured")
	}
	return nil
}
