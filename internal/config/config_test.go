package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "assurance-data.json", cfg.Dataset.Path)
	assert.Equal(t, 1000, cfg.Dataset.MaxIndividuals)
	assert.Equal(t, 10, cfg.Dataset.MaxOrganizations)
	assert.Equal(t, "http://localhost:8000", cfg.Docstore.BaseURL)
	assert.Equal(t, "insurance_documents", cfg.Docstore.Collection)
	assert.Equal(t, 5, cfg.Docstore.TopK)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrentSessions)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: file
  database_url: feedback/feedback.json
dataset:
  path: /data/insurance.json
log:
  level: debug
  format: console
server:
  port: 9000
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "feedback/feedback.json", cfg.Store.DatabaseURL)
	assert.Equal(t, "/data/insurance.json", cfg.Dataset.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Untouched defaults survive overrides.
	assert.Equal(t, 5, cfg.Docstore.TopK)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile("config.yaml", []byte("store: [not a map"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "shouting", Format: "json"}))
}
