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
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string   `yaml:"port" env:"SERVER_PORT"`
		Mode         string   `yaml:"mode" env:"SERVER_MODE"`
		CORSDomains  []string `yaml:"cors_domains" env:"SERVER_CORS_DOMAINS"`
		UseHTTPS     bool     `yaml:"use_https" env:"SERVER_USE_HTTPS"`
		ReadTimeout  string   `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string   `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsPath  string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Security struct {
		ResetCodeExpiration string `yaml:"reset_code_expiration" env:"SECURITY_RESET_CODE_EXPIRATION"`
		BcryptCost          int    `yaml:"bcrypt_cost" env:"SECURITY_BCRYPT_COST"`
	} `yaml:"security"`

	Logging struct {
		Level     string `yaml:"level" env:"LOG_LEVEL"`
		Format    string `yaml:"format" env:"LOG_FORMAT"`
		Directory string `yaml:"directory" env:"LOG_DIRECTORY"`
	} `yaml:"logging"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Care struct {
		BeforeCareCheckInTime  string `yaml:"before_care_check_in_time" env:"CARE_BEFORE_CHECK_IN_TIME"`
		BeforeCareCheckOutTime string `yaml:"before_care_check_out_time" env:"CARE_BEFORE_CHECK_OUT_TIME"`
		AfterCareCheckInTime   string `yaml:"after_care_check_in_time" env:"CARE_AFTER_CHECK_IN_TIME"`
		AfterCareCheckOutTime  string `yaml:"after_care_check_out_time" env:"CARE_AFTER_CHECK_OUT_TIME"`
	} `yaml:"care"`

	Timesheet struct {
		RoundingIncrement float64 `yaml:"rounding_increment" env:"TIMESHEET_ROUNDING_INCREMENT"`
	} `yaml:"timesheet"`

	Reports struct {
		Directory  string `yaml:"directory" env:"REPORTS_DIRECTORY"`
		PDFTimeout string `yaml:"pdf_timeout" env:"REPORTS_PDF_TIMEOUT"`
		Archive    struct {
			Enabled         bool   `yaml:"enabled" env:"REPORTS_ARCHIVE_ENABLED"`
			Bucket          string `yaml:"bucket" env:"REPORTS_ARCHIVE_BUCKET"`
			Endpoint        string `yaml:"endpoint" env:"REPORTS_ARCHIVE_ENDPOINT"`
			AccountID       string `yaml:"account_id" env:"REPORTS_ARCHIVE_ACCOUNT_ID"`
			Region          string `yaml:"region" env:"REPORTS_ARCHIVE_REGION"`
			AccessKeyID     string `yaml:"access_key_id" env:"REPORTS_ARCHIVE_ACCESS_KEY_ID"`
			SecretAccessKey string `yaml:"secret_access_key" env:"REPORTS_ARCHIVE_SECRET_ACCESS_KEY"`
			PublicURL       string `yaml:"public_url" env:"REPORTS_ARCHIVE_PUBLIC_URL"`
		} `yaml:"archive"`
	} `yaml:"reports"`

	LeaveRequest struct {
		MailingAddress string   `yaml:"mailing_address" env:"LEAVE_REQUEST_MAILING_ADDRESS"`
		Reasons        []string `yaml:"reasons" env:"LEAVE_REQUEST_REASONS"`
	} `yaml:"leave_request"`

	Housekeeping struct {
		Interval string `yaml:"interval" env:"HOUSEKEEPING_INTERVAL"`
	} `yaml:"housekeeping"`

	Admin struct {
		EmployeeID string `yaml:"employee_id" env:"ADMIN_EMPLOYEE_ID"`
		FirstName  string `yaml:"first_name" env:"ADMIN_FIRST_NAME"`
		LastName   string `yaml:"last_name" env:"ADMIN_LAST_NAME"`
		Password   string `yaml:"password" env:"ADMIN_PASSWORD"`
		Email      string `yaml:"email" env:"ADMIN_EMAIL"`
	} `yaml:"admin"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(config, lookupEnv); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.CORSDomains = []string{"localhost"}
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "60s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "pca"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsPath = "migrations"

	config.JWT.AccessTokenExpiration = "30m"
	config.JWT.Issuer = "pca.primary.server"

	config.Security.ResetCodeExpiration = "15m"
	config.Security.BcryptCost = 12

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Port = 587

	config.Care.BeforeCareCheckInTime = "06:00"
	config.Care.BeforeCareCheckOutTime = "08:00"
	config.Care.AfterCareCheckInTime = "15:00"
	config.Care.AfterCareCheckOutTime = "18:00"

	config.Timesheet.RoundingIncrement = 0.5

	config.Reports.Directory = "reports"
	config.Reports.PDFTimeout = "30s"
	config.Reports.Archive.Region = "auto"

	config.LeaveRequest.Reasons = []string{"Sick Leave", "Personal Leave", "Professional Leave", "Other"}

	config.Housekeeping.Interval = "1h"

	config.Admin.EmployeeID = "admin"
	config.Admin.FirstName = "pca"
	config.Admin.LastName = "administrator"
	config.Admin.Password = "admin123"
	config.Admin.Email = "admin@admin.com"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"jwt.access_token_expiration":    config.JWT.AccessTokenExpiration,
		"security.reset_code_expiration": config.Security.ResetCodeExpiration,
		"database.conn_max_lifetime":     config.Database.ConnMaxLifetime,
		"reports.pdf_timeout":            config.Reports.PDFTimeout,
		"housekeeping.interval":          config.Housekeeping.Interval,
		"server.read_timeout":            config.Server.ReadTimeout,
		"server.write_timeout":           config.Server.WriteTimeout,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", key, err)
		}
	}

	if err := validateCareWindow("before-care", config.Care.BeforeCareCheckInTime, config.Care.BeforeCareCheckOutTime); err != nil {
		return err
	}
	if err := validateCareWindow("after-care", config.Care.AfterCareCheckInTime, config.Care.AfterCareCheckOutTime); err != nil {
		return err
	}

	if config.Timesheet.RoundingIncrement <= 0 || config.Timesheet.RoundingIncrement >= 1 {
		return fmt.Errorf("timesheet rounding increment must be between 0 and 1, got %v", config.Timesheet.RoundingIncrement)
	}

	if config.Reports.Archive.Enabled && config.Reports.Archive.Bucket == "" {
		return fmt.Errorf("reports archive bucket is required when the archive is enabled")
	}

	return nil
}

func validateCareWindow(name, start, end string) error {
	startTime, err := time.Parse("15:04", start)
	if err != nil {
		return fmt.Errorf("invalid %s check-in time %q: %w", name, start, err)
	}
	endTime, err := time.Parse("15:04", end)
	if err != nil {
		return fmt.Errorf("invalid %s check-out time %q: %w", name, end, err)
	}
	if !startTime.Before(endTime) {
		return fmt.Errorf("%s check-in time %s must be before its check-out time %s", name, start, end)
	}
	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// CORSOrigins expands the configured domains into allowed origins.
func (c *Config) CORSOrigins() []string {
	scheme := "http://"
	if c.Server.UseHTTPS {
		scheme = "https://"
	}
	origins := make([]string, 0, len(c.Server.CORSDomains))
	for _, domain := range c.Server.CORSDomains {
		domain = strings.TrimSpace(domain)
		if domain == "" {
			continue
		}
		if domain == "*" || strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
			origins = append(origins, domain)
			continue
		}
		origins = append(origins, scheme+domain)
	}
	return origins
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
