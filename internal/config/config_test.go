package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, env := range []string{
		"EMOTIQUEST_CONFIG", "EMOTIQUEST_DB", "EMOTIQUEST_BANK", "EMOTIQUEST_ADDR",
		"EMOTIQUEST_LOG_MODE", "EMOTIQUEST_LOG_LEVEL", "EMOTIQUEST_LOG_FILE",
		"EMOTIQUEST_LLM_PROVIDER", "EMOTIQUEST_LLM_MODEL", "EMOTIQUEST_LLM_API_KEY",
		"EMOTIQUEST_LLM_BASE_URL", "EMOTIQUEST_LLM_TIMEOUT", "EMOTIQUEST_LLM_MAX_ATTEMPTS",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(env, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /tmp/eq.db
server:
  addr: 127.0.0.1:9000
logging:
  mode: production
llm:
  provider: mock
  timeout: 5s
  retry:
    max_attempts: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/eq.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout, "unset keys keep defaults")
	assert.Equal(t, "production", cfg.Logging.Mode)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.LLM.Retry.MaxAttempts)
}

func TestLoadDefaultLocation(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "emotiquest"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "emotiquest", "config.yaml"),
		[]byte("bank_path: /srv/preguntas.json\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/preguntas.json", cfg.BankPath)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("EMOTIQUEST_DB", "/data/eq.db")
	t.Setenv("EMOTIQUEST_ADDR", ":9999")
	t.Setenv("EMOTIQUEST_LOG_LEVEL", "debug")
	t.Setenv("EMOTIQUEST_LLM_PROVIDER", "anthropic")
	t.Setenv("EMOTIQUEST_LLM_API_KEY", "sk-test")
	t.Setenv("EMOTIQUEST_LLM_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/eq.db", cfg.DBPath)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 3*time.Second, cfg.LLM.Timeout)
}

func TestEnvRejectsBadValues(t *testing.T) {
	isolate(t)
	t.Setenv("EMOTIQUEST_LLM_TIMEOUT", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestProviderWithoutKeyLoads(t *testing.T) {
	isolate(t)
	t.Setenv("EMOTIQUEST_LLM_PROVIDER", "gemini")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	// The provider reports the missing key when it is built.
	assert.ErrorContains(t, cfg.LLM.Validate(), "API key")
}

func TestDiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "g")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
}

func TestLogFile(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/data", "emotiquest.log"), cfg.LogFile("/data/eq.db"))
	cfg.Logging.File = "/var/log/eq.log"
	assert.Equal(t, "/var/log/eq.log", cfg.LogFile("/data/eq.db"))
}
