package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client used by S3Store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads files to an S3 bucket.
//
// Example usage:
//
//	client := export.NewS3Client(export.S3Config{Region: "eu-west-1"})
//	store := export.NewS3Store(client, "my-site", "public/")
type S3Store struct {
	client       PutObjectAPI
	bucket       string
	prefix       string
	cacheControl string
}

// NewS3Store creates a store writing to bucket, with keys under prefix.
func NewS3Store(client PutObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		cacheControl: "public, max-age=300",
	}
}

// WithCacheControl sets the Cache-Control header of uploaded objects.
func (s *S3Store) WithCacheControl(v string) *S3Store {
	s.cacheControl = v
	return s
}

// Put uploads body as prefix/key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	}
	if s.cacheControl != "" {
		input.CacheControl = aws.String(s.cacheControl)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// S3Config holds what NewS3Client needs.
type S3Config struct {
	Region string

	// Endpoint overrides the S3 endpoint, for S3 compatible services.
	// Such endpoints are addressed path style.
	Endpoint string

	// Credentials default to the AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
	// and AWS_SESSION_TOKEN environment variables.
	Credentials aws.CredentialsProvider
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(cfg S3Config) *s3.Client {
	creds := cfg.Credentials
	if creds == nil {
		creds = EnvCredentials()
	}
	return s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  aws.NewCredentialsCache(creds),
		UsePathStyle: cfg.Endpoint != "",
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
}

// EnvCredentials reads static credentials from the standard AWS
// environment variables.
func EnvCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		c := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}
		if c.AccessKeyID == "" || c.SecretAccessKey == "" {
			return aws.Credentials{}, fmt.Errorf("export: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return c, nil
	})
}
