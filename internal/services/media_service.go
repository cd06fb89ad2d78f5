package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// MediaService stores profile pictures in object storage and hands back the
// public URL that gets saved on the user document.
type MediaService struct {
	minio     *minio.Client
	bucket    string
	publicURL string
}

func NewMediaService(m *minio.Client, bucket, publicURL string) *MediaService {
	return &MediaService{minio: m, bucket: bucket, publicURL: publicURL}
}

func (s *MediaService) UploadProfilePicture(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (string, error) {
	objectKey := fmt.Sprintf("avatar/%d_%s", time.Now().UnixNano(), filename)
	_, err := s.minio.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(s.publicURL, "/"),
		s.bucket,
		objectKey,
	), nil
}
