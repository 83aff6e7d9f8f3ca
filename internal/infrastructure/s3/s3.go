package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"skinlib-api/config"
)

const textureContentType = "image/png"

// ObjectAPI is the subset of *s3.Client the blob store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client stores texture files keyed by the hex sha256 of their content.
type Client struct {
	logger *zap.Logger
	api    ObjectAPI
	bucket string
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Client, error) {
	if cfg.BucketTextures == "" {
		return nil, errors.New("S3 bucket for textures is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("s3 client configured", zap.String("bucket", cfg.BucketTextures))

	return NewWithAPI(logger, api, cfg.BucketTextures), nil
}

func NewWithAPI(logger *zap.Logger, api ObjectAPI, bucket string) *Client {
	return &Client{
		logger: logger,
		api:    api,
		bucket: bucket,
	}
}

func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Hash returns the key data is stored under.
func (c *Client) Hash(data []byte) string { return Hash(data) }

func (c *Client) Put(ctx context.Context, data []byte) (string, error) {
	hash := Hash(data)

	exists, err := c.Has(ctx, hash)
	if err != nil {
		return "", err
	}
	if exists {
		return hash, nil
	}

	if _, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(hash),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(textureContentType),
	}); err != nil {
		return "", fmt.Errorf("put texture %s: %w", hash, err)
	}

	return hash, nil
}

func (c *Client) Has(ctx context.Context, hash string) (bool, error) {
	_, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(hash),
	})
	if err != nil {
		var (
			nf  *s3types.NotFound
			nsk *s3types.NoSuchKey
		)
		if errors.As(err, &nf) || errors.As(err, &nsk) {
			return false, nil
		}
		return false, fmt.Errorf("head texture %s: %w", hash, err)
	}

	return true, nil
}

// Delete of a missing key succeeds.
func (c *Client) Delete(ctx context.Context, hash string) error {
	if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(hash),
	}); err != nil {
		return fmt.Errorf("delete texture %s: %w", hash, err)
	}

	c.logger.Info("texture file deleted", zap.String("hash", hash))

	return nil
}
