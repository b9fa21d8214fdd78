package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rental-backoffice/internal/contract"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Database  DatabaseConfig   `yaml:"database"`
	JWT       JWTConfig        `yaml:"jwt"`
	Storage   StorageConfig    `yaml:"storage"`
	Log       LogConfig        `yaml:"log"`
	Contract  ContractConfig   `yaml:"contract"`
	Company   contract.Company `yaml:"company"`
	Scheduler SchedulerConfig  `yaml:"scheduler"`
	Mail      MailConfig       `yaml:"mail"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	UploadDir    string `yaml:"upload_dir"`    // rental photos, as stored by the upload service
	ContractsDir string `yaml:"contracts_dir"` // generated PDFs
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// ContractConfig contains contract rendering settings
type ContractConfig struct {
	Timezone          string `yaml:"timezone"`
	CurrencySymbol    string `yaml:"currency_symbol"`
	DamageDiagramPath string `yaml:"damage_diagram_path"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RegenerateContracts string `yaml:"regenerate_contracts"`
	MarkPendingReturns  string `yaml:"mark_pending_returns"`
}

// MailConfig contains SendGrid settings. An empty API key disables mailing.
type MailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		fmt.Sscanf(val, "%d", dst)
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Database, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSL_MODE")

	// JWT
	setString(&c.JWT.Secret, "JWT_SECRET")

	// Server
	setString(&c.Server.Host, "SERVER_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")

	// Storage
	setString(&c.Storage.UploadDir, "UPLOAD_DIR")
	setString(&c.Storage.ContractsDir, "CONTRACTS_DIR")

	// Log
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	// Contract
	setString(&c.Contract.Timezone, "CONTRACT_TIMEZONE")
	setString(&c.Contract.DamageDiagramPath, "DAMAGE_DIAGRAM_PATH")

	// Company letterhead
	setString(&c.Company.Name, "COMPANY_NAME")
	setString(&c.Company.Address, "COMPANY_ADDRESS")
	setString(&c.Company.City, "COMPANY_CITY")
	setString(&c.Company.ZipCode, "COMPANY_ZIP")
	setString(&c.Company.Province, "COMPANY_PROVINCE")
	setString(&c.Company.FiscalCode, "COMPANY_CF")
	setString(&c.Company.VATNumber, "COMPANY_VAT")
	setString(&c.Company.Phone, "COMPANY_PHONE")
	setString(&c.Company.Email, "COMPANY_EMAIL")

	// Mail
	setString(&c.Mail.APIKey, "SENDGRID_API_KEY")
	setString(&c.Mail.From, "MAIL_FROM")

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 8 * 60
	}

	// Storage defaults
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}
	if c.Storage.ContractsDir == "" {
		c.Storage.ContractsDir = "./contracts"
	}

	// Contract defaults
	if c.Contract.Timezone == "" {
		c.Contract.Timezone = "Europe/Rome"
	}
	if _, err := time.LoadLocation(c.Contract.Timezone); err != nil {
		return fmt.Errorf("invalid contract timezone %q: %w", c.Contract.Timezone, err)
	}
	if c.Contract.CurrencySymbol == "" {
		c.Contract.CurrencySymbol = "€"
	}

	c.Company = c.Company.WithDefaults()

	// Scheduler defaults
	if c.Scheduler.RegenerateContracts == "" {
		c.Scheduler.RegenerateContracts = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.MarkPendingReturns == "" {
		c.Scheduler.MarkPendingReturns = "0 0 * * * *" // Hourly
	}

	// Mail validation
	if c.Mail.APIKey != "" && c.Mail.From == "" {
		return fmt.Errorf("mail sender address is required when an API key is set")
	}
	if c.Mail.FromName == "" {
		c.Mail.FromName = c.Company.Name
	}

	return nil
}

// Location returns the time zone contracts are printed in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Contract.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ContractOptions maps the configuration onto generator options.
func (c *Config) ContractOptions() contract.Options {
	return contract.Options{
		Company:           c.Company,
		Location:          c.Location(),
		CurrencySymbol:    c.Contract.CurrencySymbol,
		DamageDiagramPath: c.Contract.DamageDiagramPath,
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
