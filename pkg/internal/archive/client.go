package archive

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ClientConfig describes how to reach the archive bucket.
type ClientConfig struct {
	Region string
	// Endpoint overrides the S3 and STS endpoints, e.g. MinIO or LocalStack. It also enables
	// path-style addressing.
	Endpoint string
	// RoleARN, when set, is assumed through STS on top of the base credentials.
	RoleARN     string
	SessionName string
	Duration    time.Duration
	// Static keys replace the default credential chain when AccessKey is set.
	AccessKey    string
	SecretKey    string
	SessionToken string
}

// NewS3Client builds an S3 client from the default credential chain or static keys,
// optionally assuming RoleARN.
func NewS3Client(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	var loaders []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loaders = append(loaders, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken),
		))
	}
	base, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}

	if cfg.RoleARN != "" {
		stsClient := sts.NewFromConfig(base, func(o *sts.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		})
		provider := stscreds.NewAssumeRoleProvider(stsClient, cfg.RoleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = "tistim"
			if cfg.SessionName != "" {
				o.RoleSessionName = cfg.SessionName
			}
			if cfg.Duration > 0 {
				o.Duration = cfg.Duration
			}
		})
		base.Credentials = aws.NewCredentialsCache(provider)
	}

	return s3.NewFromConfig(base, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
