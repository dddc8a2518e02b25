package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Precedence(t *testing.T) {
	old := config
	t.Cleanup(func() { config = old })

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "DB_HOST: db.internal\nDB_NAME: recipes\nMEDIA_ROOT: /srv/media\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	require.NoError(t, LoadConfigFile(path))

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, "5432", GetConfig("DB_PORT"), "falls back to default")

	t.Setenv("DB_NAME", "override")
	assert.Equal(t, "override", GetConfig("DB_NAME"), "environment wins over file")

	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestLoadConfigFile_Missing(t *testing.T) {
	err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
