package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

var configKeys = []string{
	"DATABASE_URL", "DATABASE_SCHEMA", "SERVER_PORT", "STORAGE_BACKEND", "UPLOAD_DIR",
	"S3_BUCKET_NAME", "DRAFT_COOKIE_NAME", "COOKIE_SECURE", "ACCEPT_LEGACY_PAYLOADS",
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, configKeys...)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, uint(8080), cfg.ServerPort)
	assert.Equal(t, "aimploy", cfg.DatabaseSchema)
	assert.Equal(t, "disk", cfg.StorageBackend)
	assert.Equal(t, "public/uploads", cfg.UploadDir)
	assert.Equal(t, "aimploy_draft", cfg.DraftCookieName)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.AcceptLegacyPayloads)

	_, err = loadDatabaseConfig()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfigStorageBackend(t *testing.T) {
	unsetEnv(t, configKeys...)

	t.Setenv("STORAGE_BACKEND", "ftp")
	_, err := loadConfig()
	assert.ErrorContains(t, err, "STORAGE_BACKEND")

	t.Setenv("STORAGE_BACKEND", "s3")
	_, err = loadConfig()
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")

	t.Setenv("S3_BUCKET_NAME", "applications")
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "applications", cfg.S3BucketName)
}

func TestReadApplyFile(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4\nbody"), 0o600))

	f, err := readApplyFile(pdf, "")
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.MediaType())

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain words"), 0o600))

	f, err = readApplyFile(txt, "")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.MediaType())

	f, err = readApplyFile("", "audio/")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = readApplyFile(filepath.Join(dir, "missing.mp3"), "audio/")
	assert.Error(t, err)
}
