package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv("STAGE", "")
	t.Setenv("PORT", "")
	os.Unsetenv("STAGE")
	os.Unsetenv("PORT")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StageDev, cfg.Stage)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "", cfg.RulesFile)
	assert.Equal(t, "file://db/migration", cfg.MigrationsDir)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STAGE", "prod")
	t.Setenv("PORT", "7171")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/longship")
	t.Setenv("RULES_FILE", "rules.yaml")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StageProd, cfg.Stage)
	assert.Equal(t, 7171, cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/longship", cfg.DatabaseURL)
	assert.Equal(t, "rules.yaml", cfg.RulesFile)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("STAGE", "")
	os.Unsetenv("STAGE")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STAGE=dev\nPORT=9090\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("STAGE")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, StageDev, cfg.Stage)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_MissingEnvFileUsesDefaults(t *testing.T) {
	t.Setenv("STAGE", "dev")

	cfg, err := Load("/nonexistent/.env")
	require.NoError(t, err)
	assert.Equal(t, StageDev, cfg.Stage)
}

func TestLoad_InvalidStage(t *testing.T) {
	t.Setenv("STAGE", "staging")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type of development stage")
}

func TestValidate_InvalidPort(t *testing.T) {
	err := Config{Stage: StageDev, Port: 70000}.Validate()
	assert.Error(t, err)
}
