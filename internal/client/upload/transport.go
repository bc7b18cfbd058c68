package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dataport/uplink/internal/client/api"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/common"
)

// Progress receives the total bytes sent so far for one transfer. Calls are
// monotonically non-decreasing.
type Progress func(bytesSent int64)

// Transport streams one file to the backend. Implementations must honor
// context cancellation promptly; an aborted call must stop emitting
// progress.
type Transport interface {
	Upload(ctx context.Context, path, filename, mimeType string, progress Progress) (*models.StoredFile, error)
}

// HTTPTransport uploads through the backend's multipart endpoint with a
// bearer token. The chunk size hint sets the copy buffer, which also paces
// progress granularity.
type HTTPTransport struct {
	baseURL   string
	http      *http.Client
	token     func() string
	chunkSize int
}

// NewHTTPTransport builds the production transport. token is consulted per
// request, so a re-login is picked up transparently. requestTimeout bounds
// the whole transfer; on expiry the item fails with a timeout detail.
func NewHTTPTransport(baseURL string, requestTimeout time.Duration, chunkSize int, token func() string) *HTTPTransport {
	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}
	return &HTTPTransport{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: requestTimeout},
		token:     token,
		chunkSize: chunkSize,
	}
}

func (t *HTTPTransport) Upload(ctx context.Context, path, filename, mimeType string, progress Progress) (*models.StoredFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		buf := make([]byte, t.chunkSize)
		var sent int64
		for {
			n, rerr := f.Read(buf)
			if n > 0 {
				if _, werr := part.Write(buf[:n]); werr != nil {
					pw.CloseWithError(werr)
					return
				}
				sent += int64(n)
				if progress != nil {
					progress(sent)
				}
			}
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				pw.CloseWithError(rerr)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/upload", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok := t.token(); tok != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, api.MapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return nil, api.MapStatus(resp.StatusCode, er.Detail)
	}

	var stored models.StoredFile
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &stored, nil
}
