package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

const DefaultUploadURLTTL = 24 * time.Hour

var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}
	imageTypes      = map[string]struct{}{
		"image/jpeg":    {},
		"image/jpg":     {},
		"image/png":     {},
		"image/gif":     {},
		"image/webp":    {},
		"image/bmp":     {},
		"image/svg+xml": {},
	}
	unsafeFilenameParts = []string{"..", "/", "\\", "\x00"}
)

// UploadService hands out pre-signed PUT URLs for note image attachments.
// A nil presigner means no bucket is configured.
type UploadService struct {
	presigner ports.ObjectPresigner
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewUploadService(presigner ports.ObjectPresigner, ttl time.Duration, logger zerolog.Logger) *UploadService {
	if ttl <= 0 {
		ttl = DefaultUploadURLTTL
	}
	return &UploadService{presigner: presigner, ttl: ttl, logger: logger, now: time.Now}
}

func (s *UploadService) Presign(ctx context.Context, in ports.PresignInput) (*ports.PresignResult, error) {
	if err := validateFilename(in.Filename); err != nil {
		return nil, err
	}
	if err := validateContentType(in.ContentType); err != nil {
		return nil, err
	}
	if s.presigner == nil {
		return nil, domain.ErrStorageNotConfigured
	}

	key := fmt.Sprintf("%s/%d/%s%s", in.UserID, s.now().Unix(), uuid.NewString()[:8], filepath.Ext(in.Filename))

	url, err := s.presigner.PresignPut(ctx, key, in.ContentType, s.ttl)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", in.UserID).Msg("failed to presign upload")
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	s.logger.Info().Str("user_id", in.UserID).Str("object_key", key).Msg("upload url issued")
	return &ports.PresignResult{UploadURL: url, ObjectKey: key, ExpiresIn: s.ttl}, nil
}

func validateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("%w: filename is required", domain.ErrValidation)
	}
	lower := strings.ToLower(name)
	valid := false
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: filename must have a valid image extension (%s)", domain.ErrValidation, strings.Join(imageExtensions, ", "))
	}
	for _, part := range unsafeFilenameParts {
		if strings.Contains(name, part) {
			return fmt.Errorf("%w: filename contains invalid characters", domain.ErrValidation)
		}
	}
	return nil
}

func validateContentType(ct string) error {
	if ct == "" {
		return fmt.Errorf("%w: content type is required", domain.ErrValidation)
	}
	if !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: only image files are allowed", domain.ErrValidation)
	}
	if _, ok := imageTypes[strings.ToLower(ct)]; !ok {
		return fmt.Errorf("%w: image type %s is not supported", domain.ErrValidation, ct)
	}
	return nil
}
