package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nakachan-ing/dolist/internal/model"
)

const MetadataFile = "metadata.json"

// syncable reports whether a data file takes part in S3 sync. Lock files,
// temp files and the metadata itself stay local.
func syncable(rel string) bool {
	base := filepath.Base(rel)
	switch {
	case base == MetadataFile:
		return false
	case strings.HasSuffix(base, ".lock"):
		return false
	case strings.HasSuffix(base, ".tmp"):
		return false
	}
	return true
}

// GenerateMetadata maps every syncable file under dir to its modification time.
func GenerateMetadata(dir string) (map[string]string, error) {
	metadata := make(map[string]string)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("⚠️ Failed to access path: %s (%v)", path, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			log.Printf("⚠️ Failed to get relative path for: %s (%v)", path, err)
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if !syncable(relPath) {
			return nil
		}

		metadata[relPath] = info.ModTime().UTC().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to scan directory: %w", err)
	}

	return metadata, nil
}

func SaveMetadata(metadataPath string, metadata map[string]string) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to marshal %s: %w", MetadataFile, err)
	}
	if err := os.WriteFile(metadataPath, data, 0o644); err != nil {
		return fmt.Errorf("❌ Failed to write %s: %w", MetadataFile, err)
	}
	return nil
}

// LoadMetadata returns an empty map when the file does not exist yet.
func LoadMetadata(metadataPath string) (map[string]string, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to read %s: %w", MetadataFile, err)
	}
	return parseMetadata(data)
}

func parseMetadata(data []byte) (map[string]string, error) {
	metadata := make(map[string]string)
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("❌ Failed to parse %s: %w", MetadataFile, err)
	}
	return metadata, nil
}

func UploadMetadataToS3(ctx context.Context, s3Client *s3.Client, config model.Config) error {
	metadataPath := filepath.Join(config.DataDir, MetadataFile)
	s3Key := ObjectKey(config.Sync.Prefix, MetadataFile)

	file, err := os.Open(metadataPath)
	if err != nil {
		return fmt.Errorf("❌ Failed to open %s: %w", metadataPath, err)
	}
	defer file.Close()

	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(config.Sync.Bucket),
		Key:    aws.String(s3Key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", s3Key, err)
	}

	log.Printf("✅ %s uploaded to S3", s3Key)
	return nil
}

// DownloadMetadataFromS3 returns an empty map when the bucket has no metadata yet.
func DownloadMetadataFromS3(ctx context.Context, s3Client *s3.Client, config model.Config) (map[string]string, error) {
	s3Key := ObjectKey(config.Sync.Prefix, MetadataFile)

	resp, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(config.Sync.Bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			log.Printf("⚠️ No %s found on S3, returning empty metadata.", s3Key)
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to download %s from S3: %w", s3Key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to read %s from S3: %w", s3Key, err)
	}
	return parseMetadata(data)
}

// DetectChanges lists the files to transfer. With source "s3" it returns
// what should be pulled, with "local" what should be pushed. Timestamps
// within one second of each other count as equal.
func DetectChanges(localMeta, remoteMeta map[string]string, source string) []string {
	var filesToSync []string

	for file, remoteTimeStr := range remoteMeta {
		if !syncable(file) {
			continue
		}

		localTimeStr, exists := localMeta[file]
		if !exists {
			if source == "s3" {
				filesToSync = append(filesToSync, file)
			}
			continue
		}

		remoteTime, err := time.Parse(time.RFC3339, remoteTimeStr)
		if err != nil {
			log.Printf("⚠️ Failed to parse remote timestamp for %s: %v", file, err)
			continue
		}
		localTime, err := time.Parse(time.RFC3339, localTimeStr)
		if err != nil {
			log.Printf("⚠️ Failed to parse local timestamp for %s: %v", file, err)
			continue
		}

		if source == "s3" && remoteTime.After(localTime.Add(time.Second)) {
			filesToSync = append(filesToSync, file)
		}
		if source == "local" && localTime.After(remoteTime.Add(time.Second)) {
			filesToSync = append(filesToSync, file)
		}
	}

	if source == "local" {
		for file := range localMeta {
			if _, exists := remoteMeta[file]; !exists && syncable(file) {
				filesToSync = append(filesToSync, file)
			}
		}
	}

	sort.Strings(filesToSync)
	return filesToSync
}
