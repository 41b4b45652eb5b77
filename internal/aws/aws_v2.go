// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/csvcmp/csvcmp/internal/log"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	keyID   string
	secret  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, credentials and retryer without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s, static=%t", o.profile, o.region, o.keyID != "")

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.keyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.keyID, o.secret, ""),
		))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	return cfg, nil
}

// NewS3 constructs a v2 S3 client from the provided config. Additional service
// options can be supplied via optFns.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created: region=%s", cfg.Region)
	return client
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithStaticCredentials replaces the credential chain with a fixed key pair.
// An empty keyID leaves the chain alone.
func WithStaticCredentials(keyID, secret string) Option {
	return func(o *options) {
		o.keyID = keyID
		o.secret = secret
	}
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// WithS3Endpoint points the client at an S3-compatible service (MinIO,
// Hetzner, R2, ...). Such services generally need path-style addressing.
// A blank endpoint keeps the AWS default.
func WithS3Endpoint(endpoint string) func(*s3v2.Options) {
	return func(o *s3v2.Options) {
		if endpoint == "" {
			return
		}
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		o.BaseEndpoint = awsv2.String(endpoint)
		o.UsePathStyle = true
	}
}

// PresignGet returns a time-limited https URL for reading bucket/key.
func PresignGet(ctx context.Context, client *s3v2.Client, bucket, key string, expiry time.Duration) (string, error) {
	req, err := s3v2.NewPresignClient(client).PresignGetObject(ctx,
		&s3v2.GetObjectInput{
			Bucket: awsv2.String(bucket),
			Key:    awsv2.String(key),
		},
		s3v2.WithPresignExpires(expiry),
	)
	if err != nil {
		return "", fmt.Errorf("presign GetObject for s3://%s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}
