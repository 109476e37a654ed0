package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/townhub-api/internal/domain"
	"github.com/townhub-api/internal/pkg/id"
)

// URLTTL is how long presigned download links stay valid.
const URLTTL = 15 * time.Minute

type Service interface {
	// Upload streams a multipart file to object storage and records who
	// uploaded it. The key is derived from the generated media id.
	Upload(ctx context.Context, userID string, in UploadInput) (*domain.Media, error)
	// UploadBase64 is the JSON-body variant used by mobile clients.
	UploadBase64(ctx context.Context, userID, filename, b64Data string) (*domain.Media, error)
	URL(ctx context.Context, mediaID string) (string, error)
	Delete(ctx context.Context, mediaID, actorID, actorRole string) error
}

// UploadInput carries one multipart upload.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type mediaStore interface {
	Put(ctx context.Context, m *domain.Media) error
	Get(ctx context.Context, mediaID string) (*domain.Media, error)
	SoftDelete(ctx context.Context, mediaID string) error
}

type blobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo  mediaStore
	blobs blobStore
}

type ServiceDeps struct {
	Repo  mediaStore
	Blobs blobStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.Repo, blobs: deps.Blobs}
}

func (s *service) Upload(ctx context.Context, userID string, in UploadInput) (*domain.Media, error) {
	if in.Reader == nil {
		return nil, fmt.Errorf("empty upload: %w", domain.ErrBadRequest)
	}

	mediaID := id.New()
	ext := filepath.Ext(in.Filename)
	key := fmt.Sprintf("uploads/%s/%s%s", userID, mediaID, ext)

	contentType := in.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := s.blobs.Upload(ctx, key, in.Reader, contentType); err != nil {
		return nil, err
	}

	m := &domain.Media{
		MediaID:     mediaID,
		Key:         key,
		ContentType: contentType,
		UploadedBy:  userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) UploadBase64(ctx context.Context, userID, filename, b64Data string) (*domain.Media, error) {
	if b64Data == "" {
		return nil, fmt.Errorf("empty upload: %w", domain.ErrBadRequest)
	}

	mediaID := id.New()
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("uploads/%s/%s%s", userID, mediaID, ext)
	if _, err := s.blobs.UploadBase64(ctx, key, b64Data); err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	m := &domain.Media{
		MediaID:     mediaID,
		Key:         key,
		ContentType: contentType,
		UploadedBy:  userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) URL(ctx context.Context, mediaID string) (string, error) {
	m, err := s.repo.Get(ctx, mediaID)
	if err != nil {
		return "", err
	}
	if m.DeletedAt != nil {
		return "", domain.ErrNotFound
	}
	return s.blobs.PresignedURL(ctx, m.Key, URLTTL)
}

func (s *service) Delete(ctx context.Context, mediaID, actorID, actorRole string) error {
	m, err := s.repo.Get(ctx, mediaID)
	if err != nil {
		return err
	}
	if m.UploadedBy != actorID && actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.blobs.Delete(ctx, m.Key); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, mediaID)
}
