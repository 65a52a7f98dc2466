package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
	Email         EmailConfig         `yaml:"email"`
	Render        RenderConfig        `yaml:"render"`
	Workflow      WorkflowConfig      `yaml:"workflow"`
	Logging       LoggingConfig       `yaml:"logging"`
	App           AppConfig           `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// ObjectStorageConfig holds S3-compatible object storage configuration
type ObjectStorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl"`
	Bucket        string `yaml:"bucket"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// EmailConfig holds SendGrid delivery configuration
type EmailConfig struct {
	APIKey       string `yaml:"api_key"`
	SenderEmail  string `yaml:"sender_email"`
	SenderName   string `yaml:"sender_name"`
	CompanyEmail string `yaml:"company_email"`
}

// RenderConfig holds PDF renderer configuration
type RenderConfig struct {
	ChromePath string        `yaml:"chrome_path"`
	NoSandbox  bool          `yaml:"no_sandbox"`
	Timeout    time.Duration `yaml:"timeout"`
}

// WorkflowConfig holds submission workflow settings
type WorkflowConfig struct {
	// CallTimeout bounds each external call made by the workflow
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file, then applies environment
// overrides for credentials so secrets can stay out of the yaml file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvOverrides()

	return &config, nil
}

// applyEnvOverrides lets deployment environments inject credentials without
// editing the config file. Only secrets and endpoints are overridable.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.ObjectStorage.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.ObjectStorage.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.ObjectStorage.SecretKey = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.Email.APIKey = v
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		c.Email.SenderEmail = v
	}
	if v := os.Getenv("COMPANY_EMAIL"); v != "" {
		c.Email.CompanyEmail = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.ObjectStorage.Endpoint == "" {
		return fmt.Errorf("object storage endpoint is required")
	}

	if c.ObjectStorage.Bucket == "" {
		return fmt.Errorf("object storage bucket is required")
	}

	if c.Email.APIKey == "" {
		return fmt.Errorf("email api key is required")
	}

	if !strings.Contains(c.Email.SenderEmail, "@") {
		return fmt.Errorf("invalid sender email: %q", c.Email.SenderEmail)
	}

	if !strings.Contains(c.Email.CompanyEmail, "@") {
		return fmt.Errorf("invalid company email: %q", c.Email.CompanyEmail)
	}

	if c.Render.Timeout <= 0 {
		return fmt.Errorf("render timeout must be greater than 0")
	}

	if c.Workflow.CallTimeout <= 0 {
		return fmt.Errorf("workflow call_timeout must be greater than 0")
	}

	return nil
}
