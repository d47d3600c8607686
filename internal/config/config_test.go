package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAddress, cfg.Address)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.WriteTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, int32(10), cfg.DatabaseMaxConns)
	assert.Equal(t, config.DefaultHelloName, cfg.HelloName)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.LLMAPIKey)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://localhost/invoices")
	t.Setenv("VENDORS_BASE_URL", "http://vendors.internal")
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("HELLO_NAME", "Ada")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.Equal(t, "postgres://localhost/invoices", cfg.DatabaseURL)
	assert.Equal(t, "http://vendors.internal", cfg.VendorsBaseURL)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "Ada", cfg.HelloName)
}

func TestLoad_PortOverridesAddress(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Address)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: ":7000"
debug: true
llm-model: openai/gpt-4o-mini
database-max-conns: 4
`), 0o600))

	v := config.New()
	require.NoError(t, config.ReadFile(v, path))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Address)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, int32(4), cfg.DatabaseMaxConns)
}

func TestReadFile_EnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hello-name: File\n"), 0o600))
	t.Setenv("HELLO_NAME", "Env")

	v := config.New()
	require.NoError(t, config.ReadFile(v, path))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "Env", cfg.HelloName)
}

func TestReadFile_Missing(t *testing.T) {
	err := config.ReadFile(config.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "empty address", key: "address", val: ""},
		{name: "negative upload limit", key: "max-upload-bytes", val: -1},
		{name: "negative timeout", key: "read-timeout", val: -time.Second},
		{name: "auto migrate without database", key: "auto-migrate", val: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := config.New()
			v.Set(tt.key, tt.val)

			_, err := config.Load(v)
			assert.Error(t, err)
		})
	}
}
