package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	defaultConfigFile = "config.json"
)

type Config struct {
	ConfigFile string        `json:"-" yaml:"-"`
	LogLevel   zerolog.Level `json:"-" yaml:"-"`
	LogFile    string        `json:"log_file" yaml:"log_file"`

	// remote store
	DBDriver           string `json:"db_driver" yaml:"db_driver"`
	DBDSN              string `json:"db_dsn" yaml:"db_dsn"`
	SyncTimeoutSeconds int    `json:"sync_timeout_seconds" yaml:"sync_timeout_seconds"`

	// local fallback store (bill history mirror, client identity)
	LocalStoreDir string `json:"local_store_dir" yaml:"local_store_dir"`

	APIPort            int     `json:"api_port" yaml:"api_port"`
	DefaultRatePerUnit float64 `json:"default_rate_per_unit" yaml:"default_rate_per_unit"`

	// bill alerts
	NtfyServer string `json:"ntfy_server" yaml:"ntfy_server"`
	NtfyTopic  string `json:"ntfy_topic" yaml:"ntfy_topic"`

	EnableDatadog bool     `json:"enable_datadog" yaml:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr" yaml:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace" yaml:"dd_namespace"`
	DDTags        []string `json:"dd_tags" yaml:"dd_tags"`
}

// Load parses command-line flags, reads the config file and environment, and
// panics when the resulting configuration is unusable.
func Load() Config {
	var configFile, logLevel string

	flag.StringVar(&configFile, "config-file", defaultConfigFile, "Path to calculator config file (.json, .yaml or .yml)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg := FromFile(configFile)
	cfg.LogLevel = parseLogLevel(logLevel)
	return cfg
}

// FromFile builds a Config from a file, a .env file if present and ENERGY_*
// environment variables, in increasing order of precedence. A missing file
// is only tolerated for the default path.
func FromFile(path string) Config {
	// .env is optional
	_ = godotenv.Load()

	cfg := Config{ConfigFile: path, LogLevel: zerolog.InfoLevel}

	if err := decodeFile(path, &cfg); err != nil {
		if !(os.IsNotExist(err) && path == defaultConfigFile) {
			panic("Failed to load config file: " + err.Error())
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.validate()
	return cfg
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse json config: %w", err)
		}
	}
	return nil
}

func (cfg *Config) applyEnv() {
	if v := os.Getenv("ENERGY_DB_DRIVER"); v != "" {
		cfg.DBDriver = v
	}
	if v := os.Getenv("ENERGY_DB_DSN"); v != "" {
		cfg.DBDSN = v
	}
	if v := os.Getenv("ENERGY_LOCAL_STORE_DIR"); v != "" {
		cfg.LocalStoreDir = v
	}
	if v := os.Getenv("ENERGY_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("ENERGY_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.APIPort = port
		}
	}
	if v := os.Getenv("ENERGY_NTFY_TOPIC"); v != "" {
		cfg.NtfyTopic = v
	}
	if v := os.Getenv("ENERGY_DD_AGENT_ADDR"); v != "" {
		cfg.DDAgentAddr = v
		cfg.EnableDatadog = true
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverSQLite
	}
	if cfg.DBDSN == "" && cfg.DBDriver == DriverSQLite {
		cfg.DBDSN = "data/energy.db"
	}
	if cfg.LocalStoreDir == "" {
		cfg.LocalStoreDir = "data/local"
	}
	if cfg.APIPort == 0 {
		cfg.APIPort = 8080
	}
	if cfg.DefaultRatePerUnit == 0 {
		cfg.DefaultRatePerUnit = 6.5
	}
	if cfg.SyncTimeoutSeconds == 0 {
		cfg.SyncTimeoutSeconds = 10
	}
	if cfg.DDNamespace == "" {
		cfg.DDNamespace = "energy."
	}
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) validate() {
	var problems []string

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("db_driver %q is not supported (use %s or %s)", cfg.DBDriver, DriverSQLite, DriverPostgres))
	}
	if cfg.DBDSN == "" {
		problems = append(problems, "db_dsn is required")
	}
	if cfg.APIPort < 1 || cfg.APIPort > 65535 {
		problems = append(problems, fmt.Sprintf("api_port %d is out of range", cfg.APIPort))
	}
	if cfg.DefaultRatePerUnit < 0 {
		problems = append(problems, "default_rate_per_unit must not be negative")
	}
	if cfg.SyncTimeoutSeconds < 0 {
		problems = append(problems, "sync_timeout_seconds must not be negative")
	}
	if cfg.EnableDatadog && cfg.DDAgentAddr == "" {
		problems = append(problems, "dd_agent_addr is required when enable_datadog is set")
	}

	if len(problems) > 0 {
		panic("Invalid config: " + strings.Join(problems, "; "))
	}
}
