package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TOPSIS_CONFIG", "TOPSIS_LISTEN_ADDR", "TOPSIS_UPLOAD_DIR", "TOPSIS_LOG_FILE", "TOPSIS_LOG_LEVEL",
		"SMTP_SERVER", "SMTP_PORT", "EMAIL_ADDRESS", "EMAIL_PASSWORD", "CHROME_PATH",
		"ANTHROPIC_API_KEY", "TOPSIS_NARRATIVE_MODEL", "TOPSIS_NARRATIVE", "TOPSIS_ATTACH_PDF",
		"TOPSIS_MAX_UPLOAD_BYTES", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.False(t, cfg.MailConfigured())
	assert.False(t, cfg.NarrativeEnabled())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "topsis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9000"
smtp_server: mail.example.com
smtp_port: 2525
email_address: ranker@example.com
attach_pdf: false
log_level: debug
`), 0o644))
	t.Setenv("SMTP_SERVER", "smtp.override.test")
	t.Setenv("EMAIL_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "smtp.override.test", cfg.SMTPServer)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.False(t, cfg.AttachPDF)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.True(t, cfg.MailConfigured())
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("upload_dir: /srv/runs\n"), 0o644))
	t.Setenv("TOPSIS_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/runs", cfg.UploadDir)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("TOPSIS_MAX_UPLOAD_BYTES", "-1")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PORT")
	assert.Contains(t, err.Error(), "TOPSIS_MAX_UPLOAD_BYTES")
}

func TestLoadCLIIgnoresServerSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_PORT", "smtp")
	t.Setenv("TOPSIS_MAX_UPLOAD_BYTES", "lots")
	t.Setenv("CHROME_PATH", "/opt/chrome")

	_, err := Load("")
	require.Error(t, err)

	cfg, err := LoadCLI("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/chrome", cfg.ChromePath)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNarrativeEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "k")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.NarrativeEnabled())

	t.Setenv("TOPSIS_NARRATIVE", "false")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.False(t, cfg.NarrativeEnabled())
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warning": slog.LevelWarn,
		"ERROR": slog.LevelError, "bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestSetupLoggerFansOutToFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "topsis.log")
	logger, cleanup := SetupLogger(&console, path, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("ranked", "alternatives", 3)
	require.NoError(t, cleanup())

	assert.Contains(t, console.String(), "msg=ranked")
	assert.NotContains(t, console.String(), "hidden")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(b))), &entry))
	assert.Equal(t, "ranked", entry["msg"])
	assert.EqualValues(t, 3, entry["alternatives"])
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, cleanup := SetupLogger(&console, "", slog.LevelWarn)
	logger.Info("quiet")
	logger.Warn("loud")
	require.NoError(t, cleanup())

	assert.NotContains(t, console.String(), "quiet")
	assert.Contains(t, console.String(), "msg=loud")
}

func TestSetupLoggerUnopenableFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing-dir", "topsis.log")
	logger, cleanup := SetupLogger(&console, path, slog.LevelInfo)
	logger.Info("still works")
	require.NoError(t, cleanup())

	assert.Contains(t, console.String(), "log file unavailable")
	assert.Contains(t, console.String(), "msg=\"still works\"")
}
