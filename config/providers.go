package config

// Slot names a capability extension point. Each slot is bound to exactly one
// provider declaration.
type Slot string

const (
	SlotFile     Slot = "file"
	SlotCache    Slot = "cache"
	SlotEventBus Slot = "event_bus"
	SlotWorkflow Slot = "workflow_engine"
)

// Slots lists every capability slot a complete record binds.
var Slots = []Slot{SlotFile, SlotCache, SlotEventBus, SlotWorkflow}

// Implementation selectors understood by the host framework.
const (
	ResolveFileModule     = "@medusajs/file"
	ResolveMinioFile      = "./src/modules/minio-file"
	ResolveLocalFile      = "@medusajs/file-local"
	ResolveCloudinaryFile = "./src/modules/cloudinary-file"
	ResolveRedisCache     = "@medusajs/medusa/cache-redis"
	ResolveRedisEventBus  = "@medusajs/medusa/event-bus-redis"
	ResolveRedisWorkflow  = "@medusajs/medusa/workflow-engine-redis"
)

const (
	// DefaultUploadDir is the directory the local file provider writes to.
	DefaultUploadDir = "static"
	// DefaultMinioBucket is used by the MinIO provider when no bucket is set.
	DefaultMinioBucket = "medusa-media"
	// DefaultBackendURL is the public URL assumed when MEDUSA_BACKEND_URL is unset.
	DefaultBackendURL = "http://localhost:9000"
)

// Module is a provider declaration: a capability slot, the implementation
// selector and the options of that implementation.
type Module struct {
	Key     Slot          `json:"key" yaml:"key"`
	Resolve string        `json:"resolve" yaml:"resolve"`
	Options ModuleOptions `json:"options" yaml:"options"`
}

// ModuleOptions is implemented only by the option types in this package.
type ModuleOptions interface {
	slot() Slot
}

type FileModuleOptions struct {
	Providers []FileProvider `json:"providers" yaml:"providers"`
}

type CacheOptions struct {
	RedisURL string `json:"redisUrl" yaml:"redisUrl"`
}

type EventBusOptions struct {
	RedisURL string `json:"redisUrl" yaml:"redisUrl"`
}

type WorkflowOptions struct {
	Redis WorkflowRedis `json:"redis" yaml:"redis"`
}

type WorkflowRedis struct {
	URL string `json:"url" yaml:"url"`
}

func (FileModuleOptions) slot() Slot { return SlotFile }
func (CacheOptions) slot() Slot      { return SlotCache }
func (EventBusOptions) slot() Slot   { return SlotEventBus }
func (WorkflowOptions) slot() Slot   { return SlotWorkflow }

// FileProviderKind identifies which file storage implementation was chosen.
type FileProviderKind string

const (
	FileProviderMinio      FileProviderKind = "minio"
	FileProviderLocal      FileProviderKind = "local"
	FileProviderCloudinary FileProviderKind = "cloudinary"
)

type FileProvider struct {
	Resolve string              `json:"resolve" yaml:"resolve"`
	ID      string              `json:"id" yaml:"id"`
	Options FileProviderOptions `json:"options" yaml:"options"`
}

// FileProviderOptions is the tagged choice between the file storage
// implementations. Use a type switch on the concrete option types.
type FileProviderOptions interface {
	Kind() FileProviderKind
}

type MinioOptions struct {
	Endpoint  string `json:"endPoint" yaml:"endPoint"`
	AccessKey string `json:"accessKey" yaml:"accessKey"`
	SecretKey string `json:"secretKey" yaml:"secretKey"`
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// BucketName returns the configured bucket or the provider default.
func (o MinioOptions) BucketName() string {
	if o.Bucket == "" {
		return DefaultMinioBucket
	}
	return o.Bucket
}

type LocalOptions struct {
	UploadDir  string `json:"upload_dir" yaml:"upload_dir"`
	BackendURL string `json:"backend_url" yaml:"backend_url"`
}

type CloudinaryOptions struct {
	CloudName string `json:"cloud_name" yaml:"cloud_name"`
	APIKey    string `json:"api_key" yaml:"api_key"`
	APISecret string `json:"api_secret" yaml:"api_secret"`
	Secure    bool   `json:"secure" yaml:"secure"`
}

func (MinioOptions) Kind() FileProviderKind      { return FileProviderMinio }
func (LocalOptions) Kind() FileProviderKind      { return FileProviderLocal }
func (CloudinaryOptions) Kind() FileProviderKind { return FileProviderCloudinary }

// Variant selects which file storage policy the record is built with.
type Variant string

const (
	// VariantObjectStore uses MinIO when its credentials are complete and
	// falls back to local disk otherwise.
	VariantObjectStore Variant = "object-store"
	// VariantMediaCDN always uses Cloudinary.
	VariantMediaCDN Variant = "media-cdn"
)
