// marketbot/utils/http/httputils.go
package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// PostJSONContext posts body as JSON and returns the raw response bytes plus
// the HTTP status. The request is tied to ctx so an in-flight call can be
// aborted by cancelling it. Non-2xx is NOT an error here; callers that care
// inspect the status themselves.
func PostJSONContext(ctx context.Context, url string, body interface{}) ([]byte, int, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, r.StatusCode, err
	}
	return data, r.StatusCode, nil
}
