package imagestore

import (
	"context"
	"encoding/base64"
	"regexp"

	"maeul/internal/models"
)

var dataURIRegex = regexp.MustCompile(`data:(image/[a-zA-Z+.-]+);base64,([A-Za-z0-9+/=]+)`)

// RewriteInlineImages finds base64 data URIs embedded in post content, stores
// each one, and replaces the URI with the stored image's public URL. Returns
// the rewritten content and the URLs in order of appearance.
func RewriteInlineImages(ctx context.Context, store Store, content string) (string, []string, error) {
	matches := dataURIRegex.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil, nil
	}

	var urls []string
	var out []byte
	last := 0
	for _, m := range matches {
		declaredType := content[m[2]:m[3]]
		payload := content[m[4]:m[5]]

		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, models.NewValidationError("Invalid base64 image data")
		}

		saved, err := store.Save(ctx, data, declaredType)
		if err != nil {
			return "", nil, err
		}

		out = append(out, content[last:m[0]]...)
		out = append(out, saved.URL...)
		last = m[1]
		urls = append(urls, saved.URL)
	}
	out = append(out, content[last:]...)

	return string(out), urls, nil
}
