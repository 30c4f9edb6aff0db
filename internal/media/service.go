package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/storage/gcs"
)

// Uploader is the image host surface the service needs.
type Uploader interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (gcs.Object, error)
	Delete(ctx context.Context, object string) error
}

// Service uploads and removes product images.
type Service interface {
	UploadImage(ctx context.Context, file io.Reader) (*UploadResult, error)
	DeleteImage(ctx context.Context, publicID string) error
}

// UploadResult locates a stored image. PublicID is the handle DeleteImage accepts.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type service struct {
	uploader    Uploader
	folder      string
	maxBytes    int64
	placeholder UploadResult
	logg        *logger.Logger
}

// NewService builds the media service. A nil uploader means no image host is
// configured and every upload answers with the placeholder image.
func NewService(uploader Uploader, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if cfg.MaxUploadBytes() <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		uploader: uploader,
		folder:   strings.Trim(strings.TrimSpace(cfg.Folder), "/"),
		maxBytes: cfg.MaxUploadBytes(),
		placeholder: UploadResult{
			URL:      cfg.PlaceholderURL,
			PublicID: cfg.PlaceholderID,
		},
		logg: logg,
	}, nil
}

func (s *service) UploadImage(ctx context.Context, file io.Reader) (*UploadResult, error) {
	if file == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No file provided")
	}
	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read upload")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No file provided")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodePayloadTooLarge, fmt.Sprintf("File too large (max %d MB)", s.maxBytes>>20))
	}

	contentType, ext, ok := sniffImage(data[:min(len(data), sniffLen)])
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Only image files are allowed")
	}

	if s.uploader == nil {
		s.logg.Info(ctx, "image host not configured; returning placeholder image")
		result := s.placeholder
		return &result, nil
	}

	object := path.Join(s.folder, uuid.NewString()+ext)
	stored, err := s.uploader.Upload(ctx, object, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Image upload failed")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"object": stored.Name, "bytes": len(data)})
	s.logg.Info(ctx, "image uploaded")
	return &UploadResult{URL: stored.PublicURL, PublicID: stored.Name}, nil
}

// DeleteImage removes an uploaded image. Empty ids and the placeholder are
// accepted as no-ops, as are objects already gone from the host.
func (s *service) DeleteImage(ctx context.Context, publicID string) error {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" || publicID == s.placeholder.PublicID {
		return nil
	}
	if !s.owns(publicID) {
		return pkgerrors.Validation("invalid image reference", map[string]string{
			"publicId": "must reference an uploaded image",
		})
	}
	if s.uploader == nil {
		return nil
	}

	if err := s.uploader.Delete(ctx, publicID); err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "object", publicID), "image already deleted")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Delete failed")
	}
	return nil
}

// owns reports whether publicID names an object inside the upload folder.
func (s *service) owns(publicID string) bool {
	clean := path.Clean(publicID)
	if clean != publicID || strings.HasPrefix(clean, "/") || strings.Contains(clean, "..") {
		return false
	}
	if s.folder == "" {
		return true
	}
	return strings.HasPrefix(clean, s.folder+"/")
}
