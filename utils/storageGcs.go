package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (Cloud Run service account / GOOGLE_APPLICATION_CREDENTIALS).
	// If you need to provide explicit JSON (e.g. locally), set GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ArchiveReportToGCS writes a generated export (CSV/XML/XLSX bytes) to the
// report-archive bucket under reports/<objectName>. Archiving is optional:
// when REPORT_ARCHIVE_BUCKET is unset the export is download-only.
func ArchiveReportToGCS(ctx context.Context, objectName, contentType string, data []byte) error {
	bucketName := os.Getenv("REPORT_ARCHIVE_BUCKET")
	if bucketName == "" {
		return errors.New("REPORT_ARCHIVE_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		return fmt.Errorf("gcs bucket %q not found or not accessible: %v", bucketName, err)
	}

	wc := client.Bucket(bucketName).Object("reports/" + objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// ReportArchiveEnabled reports whether export archiving is configured.
func ReportArchiveEnabled() bool {
	return strings.TrimSpace(os.Getenv("REPORT_ARCHIVE_BUCKET")) != ""
}
