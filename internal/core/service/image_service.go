package service

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

// ImagePathPrefix is the public URL prefix for uploaded images.
const ImagePathPrefix = "/api/images/"

var (
	imageExtensions = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}}
	imageName       = regexp.MustCompile(`^[A-Za-z0-9-]+\.(jpg|jpeg|png|gif|webp)$`)
)

type ImageService struct {
	store    ports.ImageStore
	maxBytes int64
	logger   zerolog.Logger
}

func NewImageService(store ports.ImageStore, maxBytes int64, logger zerolog.Logger) *ImageService {
	return &ImageService{store: store, maxBytes: maxBytes, logger: logger}
}

// Upload stores r under a random name that keeps the original extension.
func (s *ImageService) Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExtensions[ext]; !ok {
		return "", "", domain.ErrInvalidImage
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return "", "", domain.ErrImageTooLarge
	}

	name := uuid.NewString() + ext
	if err := s.store.Save(ctx, name, r); err != nil {
		return "", "", err
	}
	s.logger.Info().Str("file", name).Int64("size", size).Msg("image uploaded")
	return name, ImagePathPrefix + name, nil
}

// Open returns a stored image. Names that could not have been produced by
// Upload are rejected with ErrInvalidImage.
func (s *ImageService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !imageName.MatchString(name) {
		return nil, domain.ErrInvalidImage
	}
	return s.store.Open(ctx, name)
}
