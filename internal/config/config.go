// Package config defines the configuration model for salesdw and how it is
// assembled: built-in defaults, then an optional JSON or YAML file (chosen by
// extension), then SALESDW_* environment variables.
//
// Example (YAML):
//
//	job: salesdw
//	source:
//	  root: ./data
//	  encoding: latin1
//	storage:
//	  kind: sqlite
//	  dsn: ./my_data_warehouse.db
//	query:
//	  matcher: suffix
//	server:
//	  addr: ":5000"
//	  theme: light
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SALESDW_STORAGE_DSN.
const EnvPrefix = "SALESDW_"

// Config is the top-level configuration.
type Config struct {
	// Job labels metrics and log lines for this deployment.
	Job string `json:"job" yaml:"job" env:"JOB"`

	Source   Source   `json:"source" yaml:"source" envPrefix:"SOURCE_"`
	Storage  Storage  `json:"storage" yaml:"storage" envPrefix:"STORAGE_"`
	Query    Query    `json:"query" yaml:"query" envPrefix:"QUERY_"`
	Server   Server   `json:"server" yaml:"server" envPrefix:"SERVER_"`
	Schedule Schedule `json:"schedule" yaml:"schedule" envPrefix:"SCHEDULE_"`
	Metrics  Metrics  `json:"metrics" yaml:"metrics" envPrefix:"METRICS_"`
	Log      Log      `json:"log" yaml:"log" envPrefix:"LOG_"`
}

// Source locates and decodes the three CSV extracts.
type Source struct {
	// Root is walked for a directory named Folder.
	Root   string `json:"root" yaml:"root" env:"ROOT"`
	Folder string `json:"folder" yaml:"folder" env:"FOLDER"`

	SalesFile     string `json:"sales_file" yaml:"sales_file" env:"SALES_FILE"`
	ProductsFile  string `json:"products_file" yaml:"products_file" env:"PRODUCTS_FILE"`
	CustomersFile string `json:"customers_file" yaml:"customers_file" env:"CUSTOMERS_FILE"`

	// Encoding is an IANA charset name ("latin1", "utf-8", "windows-1252").
	Encoding string `json:"encoding" yaml:"encoding" env:"ENCODING"`
	// Comma is the field delimiter; only its first rune is used.
	Comma string `json:"comma" yaml:"comma" env:"COMMA"`
}

// Storage selects the warehouse backend.
type Storage struct {
	// Kind is a registered storage kind: "sqlite" or "postgres".
	Kind string `json:"kind" yaml:"kind" env:"KIND"`
	DSN  string `json:"dsn" yaml:"dsn" env:"DSN"`

	// BatchSize is the number of rows per insert batch.
	BatchSize int `json:"batch_size" yaml:"batch_size" env:"BATCH_SIZE"`

	// Atomic replaces all three tables in one transaction.
	Atomic bool `json:"atomic" yaml:"atomic" env:"ATOMIC"`
}

// Query tunes the aggregation layer.
type Query struct {
	// Matcher is "suffix", "suffix-fold" or "exact".
	Matcher   string `json:"matcher" yaml:"matcher" env:"MATCHER"`
	TopLimit  int    `json:"top_limit" yaml:"top_limit" env:"TOP_LIMIT"`
	ListLimit int    `json:"list_limit" yaml:"list_limit" env:"LIST_LIMIT"`
}

// Server configures the HTTP shell.
type Server struct {
	Addr string `json:"addr" yaml:"addr" env:"ADDR"`
	// Theme is the default dashboard theme: "light" or "dark".
	Theme string `json:"theme" yaml:"theme" env:"THEME"`
}

// Schedule enables periodic reloads while serving.
type Schedule struct {
	// Every is a Go duration ("1h", "30m"); empty disables reloads.
	Every string `json:"every" yaml:"every" env:"EVERY"`
	// OnStart runs one load before the server starts listening.
	OnStart bool `json:"on_start" yaml:"on_start" env:"ON_START"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "prometheus" (Pushgateway) or "datadog".
	Backend        string `json:"backend" yaml:"backend" env:"BACKEND"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url" env:"PUSHGATEWAY_URL"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr" env:"DATADOG_ADDR"`
}

// Log configures the process logger.
type Log struct {
	Level  string `json:"level" yaml:"level" env:"LEVEL"`
	Format string `json:"format" yaml:"format" env:"FORMAT"`
}

// Default returns the configuration used when nothing else is given: a local
// SQLite warehouse fed from ./source_crm.
func Default() Config {
	return Config{
		Job: "salesdw",
		Source: Source{
			Root:          ".",
			Folder:        "source_crm",
			SalesFile:     "sales_details.csv",
			ProductsFile:  "prd_info.csv",
			CustomersFile: "cust_info.csv",
			Encoding:      "latin1",
			Comma:         ",",
		},
		Storage: Storage{
			Kind:      "sqlite",
			DSN:       "my_data_warehouse.db",
			BatchSize: 1000,
		},
		Query: Query{
			Matcher:   "suffix",
			TopLimit:  5,
			ListLimit: 50,
		},
		Server: Server{
			Addr:  ":5000",
			Theme: "light",
		},
		Metrics: Metrics{Backend: "none"},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load builds a Config from defaults, the optional file at path and the
// environment. It does not validate; call Validate for that.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: env: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("config: decode yaml %s: %w", path, err)
		}
	case ".json", "":
		if err := json.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("config: decode json %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported file extension %q", filepath.Ext(path))
	}
	return nil
}
