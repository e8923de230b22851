package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetForTest clears key for the duration of the test and restores it after.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeEnvFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestEnvFile(t *testing.T) {
	assert.Equal(t, ".env", EnvFile("development"))
	assert.Equal(t, ".env", EnvFile(""))
	assert.Equal(t, ".env", EnvFile("qa"))
	assert.Equal(t, ".env.staging", EnvFile("staging"))
	assert.Equal(t, ".env.production", EnvFile("production"))
	assert.Equal(t, ".env.test", EnvFile("test"))
}

func TestRuntimeMode(t *testing.T) {
	assert.Equal(t, "development", RuntimeMode(MapEnv{}))
	assert.Equal(t, "development", RuntimeMode(MapEnv{"NODE_ENV": ""}))
	assert.Equal(t, "production", RuntimeMode(MapEnv{"NODE_ENV": "production"}))
}

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, LoadEnv("development", t.TempDir()))
	assert.NoError(t, LoadEnv("production", t.TempDir()))
}

func TestLoadEnv_ReadsModeOverlay(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "OVERLAY_TEST_VALUE=plain\n")
	writeEnvFile(t, dir, ".env.test", "OVERLAY_TEST_VALUE=from-test\n")
	unsetForTest(t, "OVERLAY_TEST_VALUE")

	require.NoError(t, LoadEnv("test", dir))
	assert.Equal(t, "from-test", os.Getenv("OVERLAY_TEST_VALUE"))
}

func TestLoadEnv_UnknownModeReadsPlainFile(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "OVERLAY_TEST_VALUE=plain\n")
	unsetForTest(t, "OVERLAY_TEST_VALUE")

	require.NoError(t, LoadEnv("qa", dir))
	assert.Equal(t, "plain", os.Getenv("OVERLAY_TEST_VALUE"))
}

func TestLoadEnv_ProcessEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "OVERLAY_TEST_VALUE=from-file\n")
	t.Setenv("OVERLAY_TEST_VALUE", "from-process")

	require.NoError(t, LoadEnv("development", dir))
	assert.Equal(t, "from-process", os.Getenv("OVERLAY_TEST_VALUE"))
}

func TestLoadEnv_ExpandsReferences(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "OVERLAY_TEST_HOST=cache\nOVERLAY_TEST_URL=redis://${OVERLAY_TEST_HOST}:6379\n")
	unsetForTest(t, "OVERLAY_TEST_HOST")
	unsetForTest(t, "OVERLAY_TEST_URL")

	require.NoError(t, LoadEnv("development", dir))
	assert.Equal(t, "redis://cache:6379", os.Getenv("OVERLAY_TEST_URL"))
}

func TestLoadEnv_DirectoryIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".env"), 0o755))

	err := LoadEnv("development", dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestLoadDir_AssemblesFromOverlay(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env", "MINIO_ENDPOINT=host\nMINIO_ACCESS_KEY=ak\nMINIO_SECRET_KEY=sk\nJWT_SECRET=from-file\n")
	unsetForTest(t, "NODE_ENV")
	for _, key := range []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "JWT_SECRET", "COOKIE_SECRET"} {
		unsetForTest(t, key)
	}

	cfg, err := LoadDir(dir, VariantObjectStore)
	require.NoError(t, err)

	fp, ok := cfg.FileProvider()
	require.True(t, ok)
	assert.Equal(t, FileProviderMinio, fp.Options.Kind())
	assert.Equal(t, "from-file", cfg.Project.HTTP.JWTSecret)
	assert.Equal(t, PlaceholderSecret, cfg.Project.HTTP.CookieSecret)
}
