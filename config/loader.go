package config

import (
	"fmt"
	"os"
	"strings"
)

// PlaceholderSecret is used for the JWT and cookie secrets when they are unset.
const PlaceholderSecret = "supersecret"

// Load reads the overlay for the current runtime mode from the working
// directory and assembles the record from the process environment.
func Load(variant Variant) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return LoadDir(cwd, variant)
}

// LoadDir is Load with an explicit directory holding the .env files.
func LoadDir(dir string, variant Variant) (*Config, error) {
	if err := LoadEnv(RuntimeMode(OSEnv{}), dir); err != nil {
		return nil, err
	}
	return FromEnv(OSEnv{}, variant), nil
}

// FromEnv assembles the record from env. Required values are passed through
// as they are; use Validate and Warnings to inspect the result.
func FromEnv(env Env, variant Variant) *Config {
	redisURL := get(env, "REDIS_URL")

	return &Config{
		Mode: RuntimeMode(env),
		Project: ProjectConfig{
			DatabaseURL: get(env, "DATABASE_URL"),
			RedisURL:    redisURL,
			WorkerMode:  WorkerMode(get(env, "MEDUSA_WORKER_MODE")),
			HTTP: HTTPConfig{
				StoreCORS:    get(env, "STORE_CORS"),
				AdminCORS:    get(env, "ADMIN_CORS"),
				AuthCORS:     get(env, "AUTH_CORS"),
				JWTSecret:    orDefault(get(env, "JWT_SECRET"), PlaceholderSecret),
				CookieSecret: orDefault(get(env, "COOKIE_SECRET"), PlaceholderSecret),
			},
		},
		Admin: AdminConfig{
			Disable:    get(env, "DISABLE_MEDUSA_ADMIN") == "true",
			BackendURL: get(env, "MEDUSA_BACKEND_URL"),
		},
		Modules: buildModules(env, variant, redisURL),
		Server: ServerConfig{
			Port:         get(env, "PORT"),
			ReadTimeout:  get(env, "SERVER_READ_TIMEOUT"),
			WriteTimeout: get(env, "SERVER_WRITE_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level:       get(env, "LOG_LEVEL"),
			Format:      get(env, "LOG_FORMAT"),
			Dir:         get(env, "LOG_DIR"),
			ServiceName: get(env, "SERVICE_NAME"),
		},
		Worker: WorkerConfig{
			ProbeInterval: get(env, "WORKER_PROBE_INTERVAL"),
		},
	}
}

func buildModules(env Env, variant Variant, redisURL string) []Module {
	var modules []Module

	if provider, ok := SelectFileProvider(env, variant); ok {
		modules = append(modules, Module{
			Key:     SlotFile,
			Resolve: ResolveFileModule,
			Options: FileModuleOptions{Providers: []FileProvider{provider}},
		})
	}

	return append(modules,
		Module{
			Key:     SlotCache,
			Resolve: ResolveRedisCache,
			Options: CacheOptions{RedisURL: redisURL},
		},
		Module{
			Key:     SlotEventBus,
			Resolve: ResolveRedisEventBus,
			Options: EventBusOptions{RedisURL: redisURL},
		},
		Module{
			Key:     SlotWorkflow,
			Resolve: ResolveRedisWorkflow,
			Options: WorkflowOptions{Redis: WorkflowRedis{URL: redisURL}},
		},
	)
}

// SelectFileProvider picks the file storage implementation for variant. It
// depends only on which keys are non-empty. ok is false for an unknown variant.
func SelectFileProvider(env Env, variant Variant) (FileProvider, bool) {
	switch variant {
	case VariantObjectStore, "":
		endpoint := get(env, "MINIO_ENDPOINT")
		accessKey := get(env, "MINIO_ACCESS_KEY")
		secretKey := get(env, "MINIO_SECRET_KEY")

		if endpoint != "" && accessKey != "" && secretKey != "" {
			return FileProvider{
				Resolve: ResolveMinioFile,
				ID:      string(FileProviderMinio),
				Options: MinioOptions{
					Endpoint:  endpoint,
					AccessKey: accessKey,
					SecretKey: secretKey,
					Bucket:    get(env, "MINIO_BUCKET"),
				},
			}, true
		}

		backendURL := orDefault(get(env, "MEDUSA_BACKEND_URL"), DefaultBackendURL)
		return FileProvider{
			Resolve: ResolveLocalFile,
			ID:      string(FileProviderLocal),
			Options: LocalOptions{
				UploadDir:  DefaultUploadDir,
				BackendURL: strings.TrimSuffix(backendURL, "/") + "/" + DefaultUploadDir,
			},
		}, true

	case VariantMediaCDN:
		return FileProvider{
			Resolve: ResolveCloudinaryFile,
			ID:      string(FileProviderCloudinary),
			Options: CloudinaryOptions{
				CloudName: get(env, "CLOUDINARY_CLOUD_NAME"),
				APIKey:    get(env, "CLOUDINARY_API_KEY"),
				APISecret: get(env, "CLOUDINARY_API_SECRET"),
				Secure:    true,
			},
		}, true
	}

	return FileProvider{}, false
}

// ParseVariant validates a variant name. An empty name selects the object
// store variant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.TrimSpace(s)); v {
	case "":
		return VariantObjectStore, nil
	case VariantObjectStore, VariantMediaCDN:
		return v, nil
	default:
		return "", fmt.Errorf("unknown storage variant %q (want %s or %s)", s, VariantObjectStore, VariantMediaCDN)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
