package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "data/test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Server.UploadDir)
	assert.Equal(t, "data/test.db", cfg.Database.Path)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.VisionModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.JudgeModel)
	assert.Equal(t, "configs/policy_rules.json", cfg.Policy.RulesPath)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  upload_dir: "incoming"
database:
  path: "data/custom.db"
worker:
  history_interval: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "incoming", cfg.Server.UploadDir)
	assert.Equal(t, "data/custom.db", cfg.Database.Path)
	assert.Equal(t, "3s", cfg.Worker.HistoryInterval.String())
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 70000
database:
  path: "data/test.db"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoadRejectsLarkIDWithoutSecret(t *testing.T) {
	t.Setenv("LARK_APP_ID", "cli_test_app")
	t.Setenv("LARK_APP_SECRET", "")

	path := writeConfig(t, `
database:
  path: "data/test.db"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lark.app_secret")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
