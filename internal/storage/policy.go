package storage

import "fmt"

// DefaultAllowedTypes returns the media-type allow-list covering PDF, common
// image types and Office document types (legacy and OOXML variants).
func DefaultAllowedTypes() []string {
	return []string{
		"application/pdf",
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	}
}

// UploadPolicy validates an incoming upload's declared media type and size
// before any bytes reach the file store.
type UploadPolicy struct {
	MaxSizeBytes int64
	allowed      map[string]struct{}
}

// NewUploadPolicy builds an upload gate with the given size ceiling and
// media-type allow-list.
func NewUploadPolicy(maxSizeBytes int64, allowedTypes []string) UploadPolicy {
	m := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		m[t] = struct{}{}
	}
	return UploadPolicy{MaxSizeBytes: maxSizeBytes, allowed: m}
}

// Validate checks mediaType and sizeBytes against policy. It returns
// ErrFileTooLarge or ErrUnsupportedType (wrapped with detail) on rejection.
func (p UploadPolicy) Validate(mediaType string, sizeBytes int64) error {
	if sizeBytes > p.MaxSizeBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrFileTooLarge, sizeBytes, p.MaxSizeBytes)
	}
	if _, ok := p.allowed[mediaType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
	return nil
}
