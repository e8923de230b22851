package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/commerce-backend/config"
	"github.com/dustin/commerce-backend/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DatabaseChecker pings the postgres database behind DATABASE_URL.
type DatabaseChecker struct {
	db      *gorm.DB
	openErr error
}

func NewDatabaseChecker(databaseURL string) *DatabaseChecker {
	db, err := database.NewConnection(databaseURL)
	return &DatabaseChecker{db: db, openErr: err}
}

func (c *DatabaseChecker) Name() string { return "database" }

func (c *DatabaseChecker) Check(ctx context.Context) error {
	if c.openErr != nil {
		return c.openErr
	}
	return database.Ping(ctx, c.db)
}

func (c *DatabaseChecker) Close() error {
	if c.db == nil {
		return nil
	}
	return database.Close(c.db)
}

// RedisChecker pings the data store shared by the redis backed slots.
type RedisChecker struct {
	name     string
	client   *redis.Client
	parseErr error
}

func NewRedisChecker(name, redisURL string) *RedisChecker {
	c := &RedisChecker{name: name}
	if redisURL == "" {
		c.parseErr = errors.New("redis url is empty")
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		c.parseErr = fmt.Errorf("invalid redis url: %w", err)
		return c
	}
	c.client = redis.NewClient(opts)
	return c
}

func (c *RedisChecker) Name() string { return c.name }

func (c *RedisChecker) Check(ctx context.Context) error {
	if c.parseErr != nil {
		return c.parseErr
	}
	return c.client.Ping(ctx).Err()
}

func (c *RedisChecker) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// MinioChecker verifies the configured bucket is reachable on the
// S3-compatible endpoint.
type MinioChecker struct {
	client *s3.Client
	bucket string
}

func NewMinioChecker(ctx context.Context, opts config.MinioOptions) (*MinioChecker, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		awsconfig.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object store config: %w", err)
	}

	endpoint := MinioEndpointURL(opts.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MinioChecker{client: client, bucket: opts.BucketName()}, nil
}

// MinioEndpointURL turns a bare host[:port] endpoint into an https URL.
func MinioEndpointURL(endpoint string) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}

func (c *MinioChecker) Name() string { return "file:minio" }

func (c *MinioChecker) Check(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s: %w", c.bucket, err)
	}
	return nil
}

// LocalDiskChecker makes sure the upload directory exists and is writable.
type LocalDiskChecker struct {
	dir string
}

// NewLocalDiskChecker resolves a relative upload dir against root.
func NewLocalDiskChecker(root string, opts config.LocalOptions) *LocalDiskChecker {
	dir := opts.UploadDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return &LocalDiskChecker{dir: dir}
}

func (c *LocalDiskChecker) Name() string { return "file:local" }

// Dir is the absolute upload directory.
func (c *LocalDiskChecker) Dir() string { return c.dir }

func (c *LocalDiskChecker) Check(ctx context.Context) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	// The dot-prefixed file lives in the served tree only until Check returns.
	f, err := os.CreateTemp(c.dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("upload dir %s is not writable: %w", c.dir, err)
	}
	name := f.Name()
	closeErr := f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", name, closeErr)
	}
	return nil
}

const defaultCloudinaryAPI = "https://api.cloudinary.com"

// CloudinaryChecker calls the admin ping endpoint with the configured
// credentials.
type CloudinaryChecker struct {
	baseURL string
	opts    config.CloudinaryOptions
	client  *http.Client
}

func NewCloudinaryChecker(opts config.CloudinaryOptions) *CloudinaryChecker {
	return &CloudinaryChecker{
		baseURL: defaultCloudinaryAPI,
		opts:    opts,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the checker at another API host.
func (c *CloudinaryChecker) WithBaseURL(baseURL string) *CloudinaryChecker {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *CloudinaryChecker) Name() string { return "file:cloudinary" }

func (c *CloudinaryChecker) Check(ctx context.Context) error {
	if c.opts.CloudName == "" || c.opts.APIKey == "" || c.opts.APISecret == "" {
		return errors.New("cloudinary credentials are incomplete")
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/ping", c.baseURL, url.PathEscape(c.opts.CloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.opts.APIKey, c.opts.APISecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach cloudinary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary ping returned status %d", resp.StatusCode)
	}
	return nil
}
