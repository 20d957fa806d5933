package util

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nakachan-ing/dolist/internal/model"
)

var ErrSyncDisabled = errors.New("sync is not configured (set sync.enable and sync.bucket)")

func UploadToS3(ctx context.Context, s3Client *s3.Client, bucket, filePath string, s3Key string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("❌ Failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(s3Key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", s3Key, err)
	}

	log.Printf("✅ Uploaded %s to S3", s3Key)
	return nil
}

// DownloadFromS3 writes the object to a temp file first so a failed transfer
// never leaves a truncated snapshot behind.
func DownloadFromS3(ctx context.Context, s3Client *s3.Client, bucket, s3Key string, localPath string) error {
	resp, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to download %s from S3: %w", s3Key, err)
	}
	defer resp.Body.Close()

	localDir := filepath.Dir(localPath)
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return fmt.Errorf("❌ Failed to create directory %s: %w", localDir, err)
	}

	tmp := localPath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("❌ Failed to create file %s: %w", tmp, err)
	}
	if _, err := file.ReadFrom(resp.Body); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("❌ Failed to write file %s: %w", localPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("❌ Failed to write file %s: %w", localPath, err)
	}
	if err := os.Rename(tmp, localPath); err != nil {
		return fmt.Errorf("❌ Failed to replace %s: %w", localPath, err)
	}

	log.Printf("✅ Downloaded %s from S3", s3Key)
	return nil
}

// SyncFiles transfers the listed data files (paths relative to the data dir).
func SyncFiles(ctx context.Context, s3Client *s3.Client, cfg model.Config, direction string, files []string) error {
	for _, rel := range files {
		localPath := filepath.Join(cfg.DataDir, filepath.FromSlash(rel))
		key := ObjectKey(cfg.Sync.Prefix, rel)

		var err error
		switch direction {
		case "push":
			err = UploadToS3(ctx, s3Client, cfg.Sync.Bucket, localPath, key)
		case "pull":
			err = DownloadFromS3(ctx, s3Client, cfg.Sync.Bucket, key, localPath)
		default:
			return fmt.Errorf("❌ Unknown sync direction: %s", direction)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func ObjectKey(prefix, rel string) string {
	return path.Join(prefix, rel)
}

func isNotFoundErr(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}

func NewS3Client(ctx context.Context, cfg model.Config) (*s3.Client, error) {
	if !cfg.Sync.Enable || cfg.Sync.Bucket == "" {
		return nil, ErrSyncDisabled
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Sync.AWSProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Sync.AWSProfile))
	}
	if cfg.Sync.AWSRegion != "" {
		opts = append(opts, config.WithRegion(cfg.Sync.AWSRegion))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return s3.NewFromConfig(awsCfg), nil
}
