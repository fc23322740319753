package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ethleaf/internal/config"
)

// Upload folders accepted by the file-request endpoints. The folder is
// part of the object key, so the whitelist doubles as path sanitation.
const (
	FolderUserAvatar            = "user_avatar"
	FolderKYCFacePicture        = "kyc_person_face_picture"
	FolderKYCDriverLicenseFront = "kyc_person_driver_license_front_picture"
	FolderKYCDriverLicenseBack  = "kyc_person_driver_license_back_picture"
)

// UploadTarget is what a client needs to upload one file: a short-lived
// presigned PUT URL and the public URL the object will have afterwards.
type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
}

// S3 issues presigned upload URLs against an S3-compatible backend.
type S3 struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	presignTTL    time.Duration
}

func New(cfg config.S3Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	return &S3{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		presignTTL:    cfg.PresignTTL,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *S3) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// PresignUpload returns a presigned PUT URL for a server-generated object
// key. The client-provided filename is deliberately ignored: keys are
// always folder/userID/<uuid> so uploads can never collide or traverse.
func (s *S3) PresignUpload(ctx context.Context, folder, contentType string, userID int64) (*UploadTarget, error) {
	key := fmt.Sprintf("%s/%d/%s", folder, userID, uuid.NewString())

	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	signed, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, s.presignTTL, url.Values{}, headers)
	if err != nil {
		return nil, fmt.Errorf("presign upload for %q: %w", key, err)
	}

	return &UploadTarget{
		UploadURL: signed.String(),
		FileURL:   fmt.Sprintf("%s/%s", s.publicBaseURL, key),
	}, nil
}
