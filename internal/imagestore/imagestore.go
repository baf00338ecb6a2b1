// Package imagestore validates, transcodes and stores post images.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"maeul/internal/config"
	"maeul/internal/models"
	"maeul/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
)

const (
	DefaultMaxUploadSizeMB = 10
	DefaultMinDimension    = 10
	DefaultMaxDimension    = 5000

	// Stored images larger than this on either axis are scaled down.
	storedMaxSize = 2048
	webpQuality   = 80
)

// SavedImage describes one stored image.
type SavedImage struct {
	URL    string
	Format string
	Width  int
	Height int
	Bytes  int64
}

// Store persists validated post images and serves their public URLs.
type Store interface {
	Save(ctx context.Context, data []byte, declaredType string) (*SavedImage, error)
	Remove(ctx context.Context, url string) error
}

// LocalStore writes transcoded images to a local directory.
type LocalStore struct {
	dir          string
	baseURL      string
	maxSizeBytes int64
	minDimension int
	maxDimension int
}

// NewLocalStore builds a LocalStore from configuration, falling back to defaults.
func NewLocalStore(cfg *config.Config) *LocalStore {
	dir := "./uploads"
	baseURL := "/uploads"
	maxMB := DefaultMaxUploadSizeMB
	minDim := DefaultMinDimension
	maxDim := DefaultMaxDimension

	if cfg != nil {
		if cfg.ImageStorePath != "" {
			dir = cfg.ImageStorePath
		}
		if cfg.ImagePublicBaseURL != "" {
			baseURL = cfg.ImagePublicBaseURL
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxMB = cfg.ImageMaxUploadSizeMB
		}
		if cfg.ImageMinDimension > 0 {
			minDim = cfg.ImageMinDimension
		}
		if cfg.ImageMaxDimension > 0 {
			maxDim = cfg.ImageMaxDimension
		}
	}

	return &LocalStore{
		dir:          dir,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		maxSizeBytes: int64(maxMB) * 1024 * 1024,
		minDimension: minDim,
		maxDimension: maxDim,
	}
}

// Save validates the image, re-encodes it as WebP and writes it under a
// random filename. Returns the public URL of the stored file.
func (s *LocalStore) Save(_ context.Context, data []byte, declaredType string) (*SavedImage, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("No image data")
	}
	if int64(len(data)) > s.maxSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", s.maxSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(data)
	if !isAllowedImageMIME(detected) {
		return nil, models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(declaredType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detected) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	b := decoded.Bounds()
	if b.Dx() < s.minDimension || b.Dy() < s.minDimension {
		return nil, models.NewValidationError(fmt.Sprintf("Image too small (min %dx%d)", s.minDimension, s.minDimension))
	}
	if b.Dx() > s.maxDimension || b.Dy() > s.maxDimension {
		return nil, models.NewValidationError(fmt.Sprintf("Image too large (max %dx%d)", s.maxDimension, s.maxDimension))
	}

	stored := resizeToFit(decoded, storedMaxSize, storedMaxSize)
	encoded, err := encodeWebP(stored, webpQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name := uuid.New().String() + ".webp"
	if err := writeBytesToFile(filepath.Join(s.dir, name), encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.ImageUploadsTotal.WithLabelValues(format).Inc()

	sb := stored.Bounds()
	return &SavedImage{
		URL:    s.baseURL + "/" + name,
		Format: format,
		Width:  sb.Dx(),
		Height: sb.Dy(),
		Bytes:  int64(len(encoded)),
	}, nil
}

// Remove deletes the stored file behind a public URL. Foreign URLs are ignored.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	// The filename must be one of ours: uuid + .webp, no separators.
	if strings.ContainsAny(name, "/\\") || filepath.Base(name) != name {
		return models.NewValidationError("Invalid image URL")
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
