package exportstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/comfy-catalog/catalog-server/internal/config"
)

type S3ExportStore struct {
	client *s3.Client
	cfg    *config.S3Config
}

func NewS3ExportStore(cfg *config.Config) (*S3ExportStore, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("s3 config is not set")
	}

	credentialsProvider := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithRegion(cfg.S3.Region),
		awsConfig.WithCredentialsProvider(credentialsProvider),
	)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.EndpointUrl != "" {
			o.BaseEndpoint = &cfg.S3.EndpointUrl
		}
	})

	return &S3ExportStore{
		client: s3Client,
		cfg:    cfg.S3,
	}, nil
}

func (s *S3ExportStore) Save(file ExportFile) (string, error) {
	folder := strings.TrimSuffix(s.cfg.Folder, "/")
	key := fmt.Sprintf("%s/%s%s", folder, file.Name, file.Extension)

	mtype := mimetype.Detect(file.Content).String()

	input := s3.PutObjectInput{
		Key:         &key,
		ContentType: &mtype,
		Bucket:      &s.cfg.Bucket,
		Body:        bytes.NewReader(file.Content),
		ACL:         types.ObjectCannedACLPublicRead,
	}
	if _, err := s.client.PutObject(context.TODO(), &input); err != nil {
		return "", err
	}

	if s.cfg.PublicUrl != "" {
		publicUrl := strings.TrimSuffix(s.cfg.PublicUrl, "/")
		return fmt.Sprintf("%s/%s", publicUrl, key), nil
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key), nil
}

// Resolve has no local path for S3-backed exports; callers should use the
// URL returned by Save.
func (s *S3ExportStore) Resolve(filename string) (string, error) {
	return "", fmt.Errorf("s3 exports are not resolvable to a local path")
}
