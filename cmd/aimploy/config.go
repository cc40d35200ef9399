package main

import (
	"context"
	"fmt"

	"aimploy/internal/storage"
	"aimploy/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 60
	}

	if c.DatabaseSchema == "" {
		c.DatabaseSchema = "aimploy"
	}

	if c.StorageBackend == "" {
		c.StorageBackend = "disk"
	}

	if c.UploadDir == "" {
		c.UploadDir = "public/uploads"
	}

	if c.DraftCookieName == "" {
		c.DraftCookieName = "aimploy_draft"
	}

	switch c.StorageBackend {
	case "disk", "s3":
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be disk or s3, got %q", c.StorageBackend)
	}

	if c.StorageBackend == "s3" && c.S3BucketName == "" {
		return nil, fmt.Errorf("set S3_BUCKET_NAME when STORAGE_BACKEND is s3")
	}

	return c, nil
}

// loadDatabaseConfig is loadConfig for commands that talk to postgres.
func loadDatabaseConfig() (*types.Config, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	return c, nil
}

// loadAWSConfig uses static keys when configured (R2, MinIO) and the
// default credential chain otherwise.
func loadAWSConfig(ctx context.Context, c *types.Config) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	if c.S3AccessKey != "" && c.S3SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.S3AccessKey, c.S3SecretKey, ""),
		))
	}

	region := c.S3Region
	if region == "" && c.S3Endpoint != "" {
		region = "auto"
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awsConfig, nil
}

func newFileStore(ctx context.Context, c *types.Config) (storage.Store, error) {
	if c.StorageBackend != "s3" {
		return storage.NewDiskStore(c.UploadDir)
	}

	awsConfig, err := loadAWSConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if c.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(c.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return storage.NewS3Store(client, c.S3BucketName), nil
}
