package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: "9000"
llm:
  api_key: dummy
  model: gemini-2.0-flash
  timeout: 30s
  history_limit: 20
persona:
  name: Ada Example
  summary_path: me/summary.txt
  profile_path: me/linkedin.pdf
store:
  path: test.db
cors:
  allowed_origins:
    - http://localhost:8080
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	require.NoError(t, err)
	_, err = tmp.WriteString(body)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	return tmp.Name()
}

// TestLoad verifies that Load unmarshals every section.
func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleConfig))
	t.Setenv("LLM_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "dummy", cfg.LLM.APIKey)
	require.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 20, cfg.LLM.HistoryLimit)
	require.Equal(t, "Ada Example", cfg.Persona.Name)
	require.Equal(t, "test.db", cfg.Store.Path)
	require.Equal(t, []string{"http://localhost:8080"}, cfg.CORS.AllowedOrigins)
}

// TestLoad_Defaults verifies the baked-in defaults survive a minimal file.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
llm:
  api_key: dummy
persona:
  name: Ada Example
`))
	t.Setenv("LLM_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	require.Equal(t, time.Minute, cfg.LLM.Timeout)
	require.Equal(t, "chatbot.db", cfg.Store.Path)
	require.Equal(t, "me/summary.txt", cfg.Persona.SummaryPath)
}

// TestLoad_EnvAPIKeyWins verifies LLM_API_KEY overrides the file value.
func TestLoad_EnvAPIKeyWins(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleConfig))
	t.Setenv("LLM_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.LLM.APIKey)
}

// TestLoad_MissingAPIKey verifies the startup-time configuration error.
func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
persona:
  name: Ada Example
`))
	t.Setenv("LLM_API_KEY", "")

	_, err := Load()
	require.ErrorContains(t, err, "api_key")
}

func TestLoad_MissingPersonaName(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
llm:
  api_key: dummy
`))
	t.Setenv("LLM_API_KEY", "")

	_, err := Load()
	require.ErrorContains(t, err, "persona.name")
}
