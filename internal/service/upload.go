package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chefshare/backend/internal/apperror"
)

// MaxUploadSize is the largest accepted image payload.
const MaxUploadSize = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// BlobRef identifies a stored blob by its public URL and storage key.
type BlobRef struct {
	URL string
	Key string
}

// BlobStore is the object storage surface the upload pipeline needs.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// UploadInput describes an incoming file from a multipart request.
type UploadInput struct {
	FileName    string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// UploadTarget names the storage folder for the blob and links the stored
// blob to its owning record. Link runs after the blob upload succeeds; if
// Link fails the blob is deleted again.
type UploadTarget struct {
	Folder string
	Link   func(ctx context.Context, ref BlobRef) error
}

// UploadService runs the two-phase image upload: stage the file locally,
// push it to blob storage, then link it to a database record. A failed
// link compensates by deleting the uploaded blob.
type UploadService struct {
	store BlobStore
}

func NewUploadService(store BlobStore) *UploadService {
	return &UploadService{store: store}
}

// UploadAndLink validates the file, stages it to a temp file, uploads it
// to blob storage under a unique key, and invokes target.Link with the
// resulting reference. The temp file is removed on every path.
func (s *UploadService) UploadAndLink(ctx context.Context, in UploadInput, target UploadTarget) (BlobRef, error) {
	if in.Reader == nil || in.FileName == "" {
		return BlobRef{}, apperror.Validation("file", "No file uploaded")
	}
	if in.Size > MaxUploadSize {
		return BlobRef{}, apperror.Validation("file", "File exceeds the 5MB size limit")
	}
	if !allowedImageTypes[strings.ToLower(in.ContentType)] {
		return BlobRef{}, apperror.Validation("file", "File type not allowed. Only JPEG and PNG files are allowed")
	}

	data, err := s.stage(in)
	if err != nil {
		return BlobRef{}, err
	}
	// Size from the multipart header is client-supplied; re-check the
	// bytes we actually read.
	if int64(len(data)) > MaxUploadSize {
		return BlobRef{}, apperror.Validation("file", "File exceeds the 5MB size limit")
	}

	ref := BlobRef{Key: objectKey(target.Folder, in.FileName)}
	steps := []SagaStep{
		{
			Name: "upload blob",
			Run: func(ctx context.Context) error {
				url, err := s.store.Upload(ctx, ref.Key, data, in.ContentType)
				if err != nil {
					return apperror.Storage("upload image", err)
				}
				ref.URL = url
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.store.Delete(ctx, ref.Key)
			},
		},
		{
			Name: "link blob",
			Run: func(ctx context.Context) error {
				return target.Link(ctx, ref)
			},
		},
	}
	if err := RunSaga(ctx, steps); err != nil {
		return BlobRef{}, err
	}
	return ref, nil
}

// DeleteBlob removes a stored blob. Failures are logged and swallowed;
// callers use this for best-effort cleanup of replaced images.
func (s *UploadService) DeleteBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete replaced blob")
	}
}

// stage copies the upload into a temp file and reads it back, so the
// request body is consumed exactly once and the bytes handed to storage
// are what landed on disk. The temp file is removed before returning.
func (s *UploadService) stage(in UploadInput) ([]byte, error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil {
			log.Warn().Err(err).Str("path", tmpName).Msg("failed to remove temp upload file")
		}
	}()

	// Copy one byte past the limit so oversized bodies are caught even
	// when the declared size lied.
	if _, err := io.Copy(tmp, io.LimitReader(in.Reader, MaxUploadSize+1)); err != nil {
		tmp.Close()
		return nil, apperror.Internal(fmt.Errorf("stage upload: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return nil, apperror.Internal(fmt.Errorf("close temp file: %w", err))
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("read staged upload: %w", err))
	}
	return data, nil
}

// objectKey builds a unique storage key: <folder>/<base>-<millis><ext>.
func objectKey(folder, fileName string) string {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s/%s-%d%s", folder, name, time.Now().UnixMilli(), ext)
}
