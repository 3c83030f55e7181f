package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// thumbDirName is the hidden per-category directory holding previews.
// A thumbnail always shares its source file's stored name, so lookup is
// "same name, different directory"; no separate index exists.
const thumbDirName = ".thumbnails"

// imageExtensions are the upload extensions that get a preview.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// IsImageName reports whether the file name has an image extension.
func IsImageName(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ThumbnailGenerator produces fixed-size, cover-fit JPEG previews for
// image-type uploads.
type ThumbnailGenerator struct {
	size    int
	quality int
}

// NewThumbnailGenerator returns a generator producing size x size previews.
func NewThumbnailGenerator(size int) *ThumbnailGenerator {
	if size <= 0 {
		size = 200
	}
	return &ThumbnailGenerator{size: size, quality: 80}
}

// Generate reads the image at sourcePath and writes a cropped, re-encoded
// preview to thumbPath. The output is always JPEG regardless of the source
// format; the file name (and extension) is kept identical to the source so the
// positional association holds.
func (g *ThumbnailGenerator) Generate(sourcePath, thumbPath string) error {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(sourcePath), err)
	}

	thumb := imaging.Fill(img, g.size, g.size, imaging.Center, imaging.Lanczos)

	if err := os.MkdirAll(filepath.Dir(thumbPath), 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}

	out, err := os.Create(thumbPath)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	if err := imaging.Encode(out, thumb, imaging.JPEG, imaging.JPEGQuality(g.quality)); err != nil {
		out.Close()
		os.Remove(thumbPath)
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Close()
}
