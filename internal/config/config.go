package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Web form
	ListenAddr     string `yaml:"listen_addr"`
	UploadDir      string `yaml:"upload_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	// Logging
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	// SMTP (STARTTLS with plain auth)
	SMTPServer    string `yaml:"smtp_server"`
	SMTPPort      int    `yaml:"smtp_port"`
	EmailAddress  string `yaml:"email_address"`
	EmailPassword string `yaml:"email_password"`

	// Report attachments
	AttachPDF  bool   `yaml:"attach_pdf"`
	ChromePath string `yaml:"chrome_path"`

	// Optional narrative
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	NarrativeModel  string `yaml:"narrative_model"`
	Narrative       bool   `yaml:"narrative"`

	// Tracing
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

func Defaults() Config {
	return Config{
		ListenAddr:     ":8080",
		UploadDir:      "uploads",
		MaxUploadBytes: 10 << 20,
		LogFile:        "/tmp/topsis.log",
		LogLevel:       "INFO",
		SMTPServer:     "smtp.gmail.com",
		SMTPPort:       587,
		AttachPDF:      true,
		Narrative:      true,
		ServiceName:    "topsis",
	}
}

// Load starts from Defaults, applies the YAML file at path (or $TOPSIS_CONFIG
// when path is empty) and then environment variables, which win.
func Load(path string) (Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	if err := applyServerEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadCLI is Load without the web server and SMTP numeric settings, so a
// malformed SMTP_PORT or TOPSIS_MAX_UPLOAD_BYTES does not break command-line runs.
func LoadCLI(path string) (Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = os.Getenv("TOPSIS_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ListenAddr = getEnv("TOPSIS_LISTEN_ADDR", cfg.ListenAddr)
	cfg.UploadDir = getEnv("TOPSIS_UPLOAD_DIR", cfg.UploadDir)
	cfg.LogFile = getEnv("TOPSIS_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("TOPSIS_LOG_LEVEL", cfg.LogLevel)
	cfg.SMTPServer = getEnv("SMTP_SERVER", cfg.SMTPServer)
	cfg.EmailAddress = getEnv("EMAIL_ADDRESS", cfg.EmailAddress)
	cfg.EmailPassword = getEnv("EMAIL_PASSWORD", cfg.EmailPassword)
	cfg.ChromePath = getEnv("CHROME_PATH", cfg.ChromePath)
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.NarrativeModel = getEnv("TOPSIS_NARRATIVE_MODEL", cfg.NarrativeModel)
	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.ServiceName)
	if v := os.Getenv("TOPSIS_ATTACH_PDF"); v != "" {
		cfg.AttachPDF = v == "true"
	}
	if v := os.Getenv("TOPSIS_NARRATIVE"); v != "" {
		cfg.Narrative = v == "true"
	}
}

func applyServerEnv(cfg *Config) error {
	var errs []error
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("SMTP_PORT must be a port number, got %q", v))
		} else {
			cfg.SMTPPort = port
		}
	}
	if v := os.Getenv("TOPSIS_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("TOPSIS_MAX_UPLOAD_BYTES must be a positive integer, got %q", v))
		} else {
			cfg.MaxUploadBytes = n
		}
	}
	return errors.Join(errs...)
}

// Level is the parsed LogLevel.
func (c Config) Level() slog.Level { return ParseLogLevel(c.LogLevel) }

// MailConfigured reports whether SMTP credentials are present.
func (c Config) MailConfigured() bool {
	return strings.TrimSpace(c.EmailAddress) != "" && c.EmailPassword != ""
}

// NarrativeEnabled reports whether the optional narrative should be requested.
func (c Config) NarrativeEnabled() bool {
	return c.Narrative && strings.TrimSpace(c.AnthropicAPIKey) != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ParseLogLevel maps DEBUG, INFO, WARN and ERROR (any case) to a level; anything else is INFO.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
