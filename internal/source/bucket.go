package source

import (
	"context"
	"fmt"
	"path"

	"github.com/jekabolt/grbpwr-dashboard/internal/tables"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BucketConfig points at CSV objects in an S3-compatible bucket.
type BucketConfig struct {
	S3AccessKey       string `mapstructure:"s3_access_key"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3BucketName      string `mapstructure:"s3_bucket_name"`
	S3BucketLocation  string `mapstructure:"s3_bucket_location"`
	BaseFolder        string `mapstructure:"base_folder"`
	Insecure          bool   `mapstructure:"insecure"`
}

// Bucket reads the tables from CSV objects.
type Bucket struct {
	*minio.Client
	c     *BucketConfig
	files map[string]string
}

// NewBucket creates a bucket source.
func NewBucket(c *BucketConfig, files map[string]string) (*Bucket, error) {
	cli, err := minio.New(c.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.S3AccessKey, c.S3SecretAccessKey, ""),
		Secure: !c.Insecure,
		Region: c.S3BucketLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("can't create s3 client: %w", err)
	}
	return &Bucket{
		Client: cli,
		c:      c,
		files:  fileNames(files),
	}, nil
}

func (b *Bucket) Name() string {
	return "bucket:" + b.c.S3BucketName + "/" + b.c.BaseFolder
}

func (b *Bucket) Close() error {
	return nil
}

func (b *Bucket) objectName(file string) string {
	if b.c.BaseFolder == "" {
		return file
	}
	return path.Join(b.c.BaseFolder, file)
}

// LoadTables downloads and parses every table object in parallel.
func (b *Bucket) LoadTables(ctx context.Context) (tables.Raw, error) {
	return loadParallel(ctx, b.files, func(ctx context.Context, table, file string) (*tables.Table, error) {
		name := b.objectName(file)
		obj, err := b.GetObject(ctx, b.c.S3BucketName, name, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("can't get object %s: %w", name, err)
		}
		defer obj.Close()
		t, err := readCSV(table, obj)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", name, err)
		}
		return t, nil
	})
}
