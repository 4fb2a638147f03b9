// marketbot/services/imagerelay/relay.go
package imagerelay

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketbot/marketbot/sources/storage"
	"marketbot/marketbot/utils/logging"
)

// Relay resolves reply image URLs to raw bytes. It is the trusted
// intermediary between the bot and arbitrary third-party image hosts, and
// keeps a MinIO cache so re-sent images don't hit the origin twice.
type Relay struct {
	client *http.Client
	cache  *storage.MinIOClient // nil disables caching
}

func New(cache *storage.MinIOClient) *Relay {
	return &Relay{
		client: &http.Client{Timeout: 20 * time.Second},
		cache:  cache,
	}
}

// Fetch returns the image bytes and content type for url. data: URIs are
// decoded inline without any network round trip.
func (r *Relay) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if strings.HasPrefix(url, "data:") {
		return decodeDataURI(url)
	}

	if r.cache != nil {
		if data, contentType, err := r.cache.GetImage(ctx, url); err == nil && len(data) > 0 {
			return data, contentType, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("image fetch bad status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if r.cache != nil {
		if _, err := r.cache.UploadImage(ctx, url, data, contentType); err != nil {
			logging.AppLogger.Info("image cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return data, contentType, nil
}

// decodeDataURI splits "data:image/png;base64,AAAA..." into bytes + mime.
func decodeDataURI(uri string) ([]byte, string, error) {
	comma := strings.Index(uri, ",")
	if comma < 0 {
		return nil, "", fmt.Errorf("malformed data uri")
	}
	header, payload := uri[:comma], uri[comma+1:]

	mime := "application/octet-stream"
	if colon := strings.Index(header, ":"); colon >= 0 {
		meta := header[colon+1:]
		if semi := strings.Index(meta, ";"); semi >= 0 {
			meta = meta[:semi]
		}
		if meta != "" {
			mime = meta
		}
	}

	if strings.Contains(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", err
		}
		return data, mime, nil
	}
	return []byte(payload), mime, nil
}
