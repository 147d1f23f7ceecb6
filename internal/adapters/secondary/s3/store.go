// Package s3 implements the artifact store and dataset loading against an
// S3-compatible object store.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-gate-service/internal/config"
	ports "model-gate-service/internal/core/ports/output"
)

type Store struct {
	client           *s3.Client
	bucket           string
	productionPrefix string
	reportPrefix     string
}

func NewStore(ctx context.Context, cfg *config.S3Config) (*Store, error) {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		client:           client,
		bucket:           cfg.Bucket,
		productionPrefix: strings.Trim(cfg.ProductionPrefix, "/"),
		reportPrefix:     strings.Trim(cfg.ReportPrefix, "/"),
	}, nil
}

func newClient(ctx context.Context, cfg *config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

func (s *Store) Exists(ctx context.Context, location string) (bool, error) {
	bucket, key, err := s.parseLocation(location)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "NotFound", "NoSuchKey":
				return false, nil
			}
		}
		return false, fmt.Errorf("head %s: %w", location, err)
	}
	return true, nil
}

func (s *Store) ExportToProduction(ctx context.Context, location string, versionID uuid.UUID, metadata map[string]string) (string, error) {
	srcBucket, srcKey, err := s.parseLocation(location)
	if err != nil {
		return "", err
	}

	dstPrefix := path.Join(s.productionPrefix, versionID.String())
	dstKey := path.Join(dstPrefix, path.Base(srcKey))

	_, err = s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(srcBucket + "/" + srcKey),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return "", fmt.Errorf("copy %s to %s: %w", location, dstKey, err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshal export metadata: %w", err)
	}
	metadataKey := path.Join(dstPrefix, "metadata.json")
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(metadataKey),
		Body:        bytes.NewReader(metadataJSON),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put export metadata: %w", err)
	}

	productionLocation := fmt.Sprintf("s3://%s/%s", s.bucket, dstKey)
	log.WithFields(log.Fields{
		"source":     location,
		"production": productionLocation,
	}).Info("model artifact exported to production")
	return productionLocation, nil
}

func (s *Store) PutDiagnostics(ctx context.Context, key string, payload []byte) error {
	fullKey := path.Join(s.reportPrefix, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put diagnostics %s: %w", fullKey, err)
	}
	return nil
}

// parseLocation accepts "s3://bucket/key" or a bare key in the default
// bucket.
func (s *Store) parseLocation(location string) (bucket, key string, err error) {
	if location == "" {
		return "", "", fmt.Errorf("empty artifact location")
	}
	if !strings.HasPrefix(location, "s3://") {
		return s.bucket, strings.TrimPrefix(location, "/"), nil
	}

	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed s3 location %q", location)
	}
	return parts[0], parts[1], nil
}

var _ ports.ArtifactStore = (*Store)(nil)
