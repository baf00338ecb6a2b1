package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"maeul/internal/config"
	"maeul/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	return NewLocalStore(&config.Config{
		ImageStorePath:       t.TempDir(),
		ImagePublicBaseURL:   "/uploads",
		ImageMaxUploadSizeMB: 10,
		ImageMinDimension:    10,
		ImageMaxDimension:    5000,
	})
}

func TestLocalStore_SavePNG(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Save(context.Background(), encodePNG(t, 64, 48), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "png", saved.Format)
	assert.Equal(t, 64, saved.Width)
	assert.Equal(t, 48, saved.Height)
	assert.True(t, strings.HasPrefix(saved.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(saved.URL, ".webp"))

	assert.NoError(t, store.Remove(context.Background(), saved.URL))
}

func TestLocalStore_RejectsTooSmall(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), encodePNG(t, 5, 5), "image/png")
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestLocalStore_RejectsNonImage(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), []byte("definitely not an image"), "image/png")
	assert.Error(t, err)
}

func TestLocalStore_RejectsTypeMismatch(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), encodePNG(t, 32, 32), "image/gif")
	assert.Error(t, err)
}

func TestLocalStore_RemoveForeignURLIgnored(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Remove(context.Background(), "https://cdn.example.com/x.webp"))
}

func TestLocalStore_RemoveRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Remove(context.Background(), "/uploads/../etc/passwd"))
}

func TestRewriteInlineImages(t *testing.T) {
	store := newTestStore(t)
	payload := base64.StdEncoding.EncodeToString(encodePNG(t, 32, 32))
	content := `<p>봄 사진</p><img src="data:image/png;base64,` + payload + `"><p>끝</p>`

	rewritten, urls, err := RewriteInlineImages(context.Background(), store, content)
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.NotContains(t, rewritten, "base64")
	assert.Contains(t, rewritten, urls[0])
	assert.Contains(t, rewritten, "봄 사진")
}

func TestRewriteInlineImages_NoImages(t *testing.T) {
	store := newTestStore(t)
	content := "plain text only"
	rewritten, urls, err := RewriteInlineImages(context.Background(), store, content)
	require.NoError(t, err)
	assert.Empty(t, urls)
	assert.Equal(t, content, rewritten)
}

func TestRewriteInlineImages_BadBase64(t *testing.T) {
	store := newTestStore(t)
	_, _, err := RewriteInlineImages(context.Background(), store, `data:image/png;base64,%%%%`)
	// Regex won't match invalid base64 chars, so content passes through unchanged.
	assert.NoError(t, err)
}
