package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Laizra/Call-tracker-app-R2024/internal/util"
)

const (
	DataSourcePostgres = "postgres"
	DataSourceCSV      = "csv"
)

// DBConfig holds the Postgres connection parts read from the environment.
type DBConfig struct {
	Host     string
	Database string
	User     string
	Password string
	Port     string
	SSLMode  string
}

// Config centralises all environment and runtime configuration.
type Config struct {
	Logger *log.Logger
	Zap    *zap.Logger

	DataSource  string
	DB          DBConfig
	DatabaseURL string
	SeedCSV     string

	ListenAddr       string
	CORSAllowOrigins []string

	Debug       bool
	AutoMigrate bool
	DryRunSave  bool
}

// Load builds the Config struct, validating critical env vars.
// debugFlag forces debug logging on regardless of DEBUG.
func Load(debugFlag bool) *Config {
	debug := debugFlag || parseBoolEnv(os.Getenv("DEBUG"))

	z, err := util.NewZap(debug)
	if err != nil {
		log.Fatalf("❌ build logger: %v", err)
	}
	logger := util.NewLogger(z)
	logger.Println("Loading environment configuration...")

	cfg := &Config{
		Logger:           logger,
		Zap:              z,
		DataSource:       strings.ToLower(getEnvOrDefault("DATA_SOURCE", DataSourcePostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SeedCSV:          getEnvOrDefault("SEED_CSV", "data/calltracker.csv"),
		ListenAddr:       getEnvOrDefault("LISTEN_ADDR", "127.0.0.1:8050"),
		CORSAllowOrigins: splitList(os.Getenv("CORS_ALLOW_ORIGINS")),
		Debug:            debug,
		AutoMigrate:      os.Getenv("AUTO_MIGRATE") == "1",
		DryRunSave:       parseBoolEnv(os.Getenv("DRY_RUN_SAVE")),
	}

	switch cfg.DataSource {
	case DataSourcePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			cfg.DB = DBConfig{
				Host:     getEnvOrFail(logger, "HOST"),
				Database: getEnvOrFail(logger, "DATABASE"),
				User:     getEnvOrFail(logger, "USER"),
				Password: os.Getenv("PASSWORD"),
				Port:     getEnvOrDefault("DB_PORT", "5432"),
				SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
			}
		}
	case DataSourceCSV:
	default:
		logger.Fatalf("❌ DATA_SOURCE must be %q or %q, got %q", DataSourcePostgres, DataSourceCSV, cfg.DataSource)
	}

	logger.Printf("✅ Loaded config: data source=%s listen=%s", cfg.DataSource, cfg.ListenAddr)
	return cfg
}

// ActiveDatabaseURL returns DATABASE_URL when set, otherwise a DSN built from the parts.
func (c *Config) ActiveDatabaseURL() (string, error) {
	if c.DataSource != DataSourcePostgres {
		return "", fmt.Errorf("data source %q has no database", c.DataSource)
	}
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return c.DatabaseURL, nil
	}
	return c.DB.DSN()
}

// DSN renders the parts as a postgres:// URL so passwords with spaces survive.
func (d DBConfig) DSN() (string, error) {
	if strings.TrimSpace(d.Host) == "" || strings.TrimSpace(d.Database) == "" {
		return "", fmt.Errorf("HOST and DATABASE are required")
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   d.Host,
		Path:   "/" + d.Database,
	}
	if d.Port != "" {
		u.Host = d.Host + ":" + d.Port
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else if d.User != "" {
		u.User = url.User(d.User)
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func getEnvOrFail(logger *log.Logger, key string) string {
	val := os.Getenv(key)
	if val == "" {
		logger.Fatalf("❌ Environment variable %s is required but not set", key)
	}
	return val
}

func getEnvOrDefault(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseBoolEnv(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
