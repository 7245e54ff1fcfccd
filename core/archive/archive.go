package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader is the subset of the object storage client the archiver needs.
// It is an interface so tests can substitute a recording fake.
type Uploader interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// MakeBucket creates a new bucket.
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver stores the raw provider payload of each sync cycle in an object
// bucket, keyed by provider name, date and cycle ID, so that a cycle can be
// replayed or inspected after the fact.
type Archiver struct {
	client Uploader
	bucket string
}

// NewArchiver creates an archiver backed by a MinIO client built from the
// configuration. The bucket is created on first use if it does not exist.
func NewArchiver(cfg Config) (*Archiver, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Archiver{client: minioClient, bucket: cfg.Bucket}, nil
}

// NewArchiverWithClient creates an archiver over an existing client.
// Used by tests and by callers that manage their own client lifecycle.
func NewArchiverWithClient(client Uploader, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Archive uploads one raw snapshot payload. The object name embeds the
// provider, the fetch date and the cycle ID:
//
//	snapshots/citybikes/2026-08-30/142501_0c9d….json
func (a *Archiver) Archive(ctx context.Context, providerName, cycleID string, fetchedAt time.Time, raw []byte) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}

	objectName := ObjectName(providerName, cycleID, fetchedAt)
	reader := bytes.NewReader(raw)

	_, err = a.client.PutObject(ctx, a.bucket, objectName, reader, int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", objectName, err)
	}
	return nil
}

// ObjectName builds the deterministic object key for one snapshot.
func ObjectName(providerName, cycleID string, fetchedAt time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s/%s_%s.json",
		providerName,
		fetchedAt.UTC().Format("2006-01-02"),
		fetchedAt.UTC().Format("150405"),
		cycleID,
	)
}
