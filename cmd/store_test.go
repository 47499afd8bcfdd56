package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bh-assurance/agent-cli/internal/config"
	"github.com/bh-assurance/agent-cli/internal/dataset"
	"github.com/bh-assurance/agent-cli/internal/store"
)

func TestInitStore_SQLite(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "test.db"),
	}}

	st, err := initStore(t.Context())
	require.NoError(t, err)
	defer st.Close()

	assert.IsType(t, &store.SQLiteStore{}, st)
	require.NoError(t, st.Migrate(t.Context()))
}

func TestInitStore_File(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{
		Driver:      "file",
		DatabaseURL: filepath.Join(t.TempDir(), "feedback.json"),
	}}

	st, err := initStore(t.Context())
	require.NoError(t, err)
	defer st.Close()

	assert.IsType(t, &store.FileStore{}, st)
}

func TestInitStore_Unsupported(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "redis"}}

	_, err := initStore(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestInitWorkflow_DefaultCatalog(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "assurance-data.json")
	require.NoError(t, os.WriteFile(datasetPath, []byte(`{
		"individuals": [
			{"id": "P001", "full_name": "Ahmed Ben Salah", "profession": "Médecin", "marital_status": "Marié"}
		],
		"organizations": [],
		"contracts": [],
		"claims": [],
		"guarantees": []
	}`), 0o644))

	cfg = &config.Config{
		Store:   config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(dir, "test.db")},
		Dataset: config.DatasetConfig{Path: datasetPath},
		Docstore: config.DocstoreConfig{
			BaseURL:    "http://localhost:1",
			Collection: "insurance_documents",
			TopK:       5,
		},
	}

	env, err := initWorkflow(t.Context())
	require.NoError(t, err)
	defer env.Close()

	assert.Equal(t, 1, env.Records.Len())
	assert.Nil(t, env.Notion)

	// The environment can run a full workflow end to end. Document
	// lookups fail against the dead endpoint and fall back silently.
	session := env.NewSession()
	state, err := session.Execute(t.Context(), "P001")
	require.NoError(t, err)
	assert.NotEmpty(t, state.Recommendations)
}

func TestInitWorkflow_MissingDatasetServesEmptyStore(t *testing.T) {
	dir := t.TempDir()
	cfg = &config.Config{
		Store:   config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(dir, "test.db")},
		Dataset: config.DatasetConfig{Path: filepath.Join(dir, "absent.json")},
	}

	// A load failure is reported once and the command keeps running
	// over an empty store; every lookup then behaves as not-found.
	env, err := initWorkflow(t.Context())
	require.NoError(t, err)
	defer env.Close()

	assert.Equal(t, 0, env.Records.Len())
	_, err = env.Records.CustomerByID("P001")
	assert.True(t, eris.Is(err, dataset.ErrNotFound))
}
