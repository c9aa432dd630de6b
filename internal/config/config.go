package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "LANDEDCOST"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Ingestion  IngestionConfig  `yaml:"ingestion" envconfig:"INGESTION"`
	Allocation AllocationConfig `yaml:"allocation" envconfig:"ALLOCATION"`
	Catalog    CatalogConfig    `yaml:"catalog" envconfig:"CATALOG"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// IngestionConfig bounds what the upload pipeline accepts and reports.
type IngestionConfig struct {
	MaxFileSize       int64    `yaml:"max_file_size" envconfig:"MAX_FILE_SIZE"`
	MaxRows           int      `yaml:"max_rows" envconfig:"MAX_ROWS"`
	AllowedExtensions []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS"`
	ErrorPreview      int      `yaml:"error_preview" envconfig:"ERROR_PREVIEW"`
	FailurePreview    int      `yaml:"failure_preview" envconfig:"FAILURE_PREVIEW"`
	Currency          string   `yaml:"currency" envconfig:"CURRENCY"`
	FallbackOverwrite bool     `yaml:"fallback_overwrite" envconfig:"FALLBACK_OVERWRITE"`
	TempDir           string   `yaml:"temp_dir" envconfig:"TEMP_DIR"`

	// ColumnPatterns maps each canonical field to the header patterns
	// that identify it. Only settable from the YAML file.
	ColumnPatterns map[string][]string `yaml:"column_patterns" ignored:"true"`
}

// AllocationConfig holds defaults applied to allocation requests.
type AllocationConfig struct {
	MaxProducts int `yaml:"max_products" envconfig:"MAX_PRODUCTS"`
}

// CatalogConfig points at the suggestions catalog.
type CatalogConfig struct {
	File string `yaml:"file" envconfig:"FILE"`
}

// TelemetryConfig toggles metrics and tracing.
type TelemetryConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit YAML file. An empty path skips the
// file layer.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	// Fields carry no default tags so unset variables leave file values alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize fills partial values left by an overlay.
func (c *Config) normalize() {
	for i, ext := range c.Ingestion.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Ingestion.AllowedExtensions[i] = ext
	}

	defaults := DefaultColumnPatterns()
	if c.Ingestion.ColumnPatterns == nil {
		c.Ingestion.ColumnPatterns = defaults
		return
	}
	for field, patterns := range defaults {
		if len(c.Ingestion.ColumnPatterns[field]) == 0 {
			c.Ingestion.ColumnPatterns[field] = patterns
		}
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified when CORS is enabled")
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	if c.Ingestion.MaxFileSize <= 0 {
		return fmt.Errorf("ingestion max file size must be positive")
	}

	if c.Ingestion.MaxRows <= 0 {
		return fmt.Errorf("ingestion max rows must be positive")
	}

	if len(c.Ingestion.AllowedExtensions) == 0 {
		return fmt.Errorf("at least one allowed extension must be specified")
	}

	if c.Ingestion.ErrorPreview < 0 || c.Ingestion.FailurePreview < 0 {
		return fmt.Errorf("error preview sizes must not be negative")
	}

	if c.Allocation.MaxProducts < 0 {
		return fmt.Errorf("allocation max products must not be negative")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Ingestion: IngestionConfig{
			MaxFileSize:       MaxUploadSize,
			MaxRows:           MaxDataRows,
			AllowedExtensions: []string{".xlsx", ".xls", ".csv"},
			ErrorPreview:      SuccessErrorPreview,
			FailurePreview:    FailureErrorPreview,
			Currency:          DefaultCurrency,
			ColumnPatterns:    DefaultColumnPatterns(),
		},
		Allocation: AllocationConfig{
			MaxProducts: 0,
		},
		Telemetry: TelemetryConfig{
			MetricsEnabled: true,
			ServiceName:    AppName,
		},
	}
}

// DefaultColumnPatterns returns the built-in header patterns keyed by
// canonical field name. Each call returns a fresh map.
func DefaultColumnPatterns() map[string][]string {
	return map[string][]string{
		"produto": {
			"produto", "product", "item", "descrição", "description",
			"nome", "name", "artigo", "article", "mercadoria",
		},
		"marca": {
			"marca", "brand", "fabricante", "manufacturer",
			"fornecedor", "supplier", "make",
		},
		"quantidade": {
			"quantidade", "qtd", "qty", "quantity", "quant",
			"unidades", "units", "pcs", "peças",
		},
		"valor": {
			"valor", "price", "preço", "preco", "custo", "cost",
			"unitário", "unit", "valor_unit", "unit_price",
		},
	}
}
