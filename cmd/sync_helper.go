package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/util"
)

// SyncWithS3 pushes or pulls the data directory, transferring only the
// files whose modification time differs from the remote metadata.
func SyncWithS3(ctx context.Context, config model.Config, direction string) error {
	s3Client, err := util.NewS3Client(ctx, config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}
	metadataPath := filepath.Join(config.DataDir, util.MetadataFile)

	switch direction {
	case "pull":
		log.Println("🔄 Downloading metadata from S3...")
		remoteMetadata, err := util.DownloadMetadataFromS3(ctx, s3Client, config)
		if err != nil {
			return err
		}
		localMetadata, err := util.GenerateMetadata(config.DataDir)
		if err != nil {
			return err
		}

		fileList := util.DetectChanges(localMetadata, remoteMetadata, "s3")
		if len(fileList) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
		} else {
			log.Println("🔄 Downloading changed files from S3...")
			if err := util.SyncFiles(ctx, s3Client, config, "pull", fileList); err != nil {
				return fmt.Errorf("❌ Sync failed: %w", err)
			}
		}

		if err := util.SaveMetadata(metadataPath, remoteMetadata); err != nil {
			return err
		}
		return nil

	case "push":
		log.Println("🔄 Generating metadata for push...")
		localMetadata, err := util.GenerateMetadata(config.DataDir)
		if err != nil {
			return err
		}
		if err := util.SaveMetadata(metadataPath, localMetadata); err != nil {
			return err
		}

		remoteMetadata, err := util.DownloadMetadataFromS3(ctx, s3Client, config)
		if err != nil {
			return err
		}

		fileList := util.DetectChanges(localMetadata, remoteMetadata, "local")
		if len(fileList) == 0 {
			log.Println("✅ No changes detected. Everything is up-to-date.")
			return nil
		}

		log.Println("🔄 Uploading changed files to S3...")
		if err := util.SyncFiles(ctx, s3Client, config, "push", fileList); err != nil {
			return fmt.Errorf("❌ Sync failed: %w", err)
		}
		return util.UploadMetadataToS3(ctx, s3Client, config)
	}

	return fmt.Errorf("❌ Unknown sync direction: %s", direction)
}

// ShowSyncStatus lists what a push and a pull would transfer.
func ShowSyncStatus(ctx context.Context, config model.Config) error {
	s3Client, err := util.NewS3Client(ctx, config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}

	localMetadata, err := util.GenerateMetadata(config.DataDir)
	if err != nil {
		return err
	}
	remoteMetadata, err := util.DownloadMetadataFromS3(ctx, s3Client, config)
	if err != nil {
		return err
	}

	printFileList("📌 Files to be uploaded to S3:", util.DetectChanges(localMetadata, remoteMetadata, "local"))
	printFileList("📌 Files to be updated from S3:", util.DetectChanges(localMetadata, remoteMetadata, "s3"))
	return nil
}

func printFileList(header string, files []string) {
	fmt.Println(header)
	if len(files) == 0 {
		fmt.Println("   (none)")
		return
	}
	for _, file := range files {
		fmt.Println("   -", file)
	}
}
