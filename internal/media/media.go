// Package media hands out presigned object-storage URLs so the admin UI can
// upload product images directly, without the API proxying image bytes.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Config struct {
	Endpoint   string
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	PublicBase string
}

type Uploader struct {
	cfg     Config
	presign *s3.PresignClient
}

// New builds an uploader against an S3-compatible endpoint. Returns nil (no
// error) when no endpoint is configured so callers can leave media routes
// unmounted in minimal deployments.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return &Uploader{
		cfg:     cfg,
		presign: s3.NewPresignClient(client),
	}, nil
}

// storageKey partitions objects by date so buckets stay browsable.
func storageKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("products/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.NewString())
}

type UploadTarget struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// PresignPut returns a short-lived PUT URL plus the URL the stored object will
// be served from afterwards.
func (u *Uploader) PresignPut(ctx context.Context) (*UploadTarget, error) {
	key := storageKey()
	req, err := u.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &u.cfg.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, err
	}
	base := u.cfg.PublicBase
	if base == "" {
		base = strings.TrimSuffix(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket
	}
	return &UploadTarget{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: strings.TrimSuffix(base, "/") + "/" + key,
	}, nil
}
