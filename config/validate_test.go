package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeEnv() MapEnv {
	return MapEnv{
		"DATABASE_URL":       "postgres://shop:hunter2@db:5432/shop",
		"REDIS_URL":          "redis://:hunter2@cache:6379",
		"STORE_CORS":         "http://localhost:8000",
		"ADMIN_CORS":         "http://localhost:7001",
		"AUTH_CORS":          "http://localhost:7001",
		"MEDUSA_BACKEND_URL": "http://localhost:9000",
		"JWT_SECRET":         "jwt",
		"COOKIE_SECRET":      "cookie",
	}
}

func TestValidate_DuplicateSlot(t *testing.T) {
	cfg := FromEnv(completeEnv(), VariantObjectStore)
	cfg.Modules = append(cfg.Modules, Module{Key: SlotCache, Resolve: ResolveRedisCache, Options: CacheOptions{}})

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrDuplicateSlot)
	assert.Contains(t, err.Error(), "cache")
}

func TestValidate_MissingSlot(t *testing.T) {
	cfg := FromEnv(completeEnv(), VariantObjectStore)
	cfg.Modules = cfg.Modules[1:]

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrMissingSlot)
	assert.Contains(t, err.Error(), "file")
}

func TestValidate_SlotMismatch(t *testing.T) {
	cfg := FromEnv(completeEnv(), VariantObjectStore)
	cfg.Modules[1].Options = EventBusOptions{}

	assert.ErrorIs(t, cfg.Validate(), ErrSlotMismatch)
}

func TestValidate_FileProviderCount(t *testing.T) {
	cfg := FromEnv(completeEnv(), VariantObjectStore)
	cfg.Modules[0].Options = FileModuleOptions{}

	assert.ErrorIs(t, cfg.Validate(), ErrNoFileProvider)
	_, ok := cfg.FileProvider()
	assert.False(t, ok)
}

func TestValidate_WorkerMode(t *testing.T) {
	env := completeEnv()
	env["MEDUSA_WORKER_MODE"] = "everything"

	err := FromEnv(env, VariantObjectStore).Validate()
	assert.ErrorIs(t, err, ErrInvalidWorkerMode)
	assert.Contains(t, err.Error(), "everything")
}

func TestWarnings(t *testing.T) {
	assert.Empty(t, FromEnv(completeEnv(), VariantObjectStore).Warnings())

	warnings := FromEnv(MapEnv{}, VariantObjectStore).Warnings()
	assert.ElementsMatch(t, []string{
		"STORE_CORS is not set",
		"ADMIN_CORS is not set",
		"AUTH_CORS is not set",
		"MEDUSA_BACKEND_URL is not set",
	}, warnings)

	env := completeEnv()
	env["DISABLE_MEDUSA_ADMIN"] = "true"
	delete(env, "MEDUSA_BACKEND_URL")
	assert.Empty(t, FromEnv(env, VariantObjectStore).Warnings())
}

func TestWarnings_PlaceholderSecretsInProduction(t *testing.T) {
	env := completeEnv()
	delete(env, "JWT_SECRET")
	delete(env, "COOKIE_SECRET")

	assert.Empty(t, FromEnv(env, VariantObjectStore).Warnings())

	env["NODE_ENV"] = "production"
	warnings := FromEnv(env, VariantObjectStore).Warnings()
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "JWT_SECRET")
	assert.Contains(t, warnings[1], "COOKIE_SECRET")
}

func TestWarnings_IncompleteCloudinary(t *testing.T) {
	env := completeEnv()
	env["CLOUDINARY_CLOUD_NAME"] = "shop"

	assert.Contains(t, FromEnv(env, VariantMediaCDN).Warnings(), "cloudinary credentials are incomplete")
}

func TestRedacted(t *testing.T) {
	env := completeEnv()
	env["MINIO_ENDPOINT"] = "minio:9000"
	env["MINIO_ACCESS_KEY"] = "ak"
	env["MINIO_SECRET_KEY"] = "sk"
	cfg := FromEnv(env, VariantObjectStore)

	red := cfg.Redacted()

	assert.Equal(t, "postgres://shop:xxxxx@db:5432/shop", red.Project.DatabaseURL)
	assert.Equal(t, "redis://:xxxxx@cache:6379", red.Project.RedisURL)
	assert.Equal(t, redactedValue, red.Project.HTTP.JWTSecret)
	assert.Equal(t, redactedValue, red.Project.HTTP.CookieSecret)

	fp, ok := red.FileProvider()
	require.True(t, ok)
	minio := fp.Options.(MinioOptions)
	assert.Equal(t, redactedValue, minio.SecretKey)
	assert.Equal(t, "ak", minio.AccessKey)

	cache, _ := red.Module(SlotCache)
	assert.Equal(t, "redis://:xxxxx@cache:6379", cache.Options.(CacheOptions).RedisURL)
	wf, _ := red.Module(SlotWorkflow)
	assert.Equal(t, "redis://:xxxxx@cache:6379", wf.Options.(WorkflowOptions).Redis.URL)

	// the receiver is untouched
	assert.Equal(t, "jwt", cfg.Project.HTTP.JWTSecret)
	orig, _ := cfg.FileProvider()
	assert.Equal(t, "sk", orig.Options.(MinioOptions).SecretKey)
	origCache, _ := cfg.Module(SlotCache)
	assert.Equal(t, "redis://:hunter2@cache:6379", origCache.Options.(CacheOptions).RedisURL)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "", redactURL(""))
	assert.Equal(t, "redis://cache:6379", redactURL("redis://cache:6379"))
	assert.Equal(t, redactedValue, redactURL("not a url"))
}
