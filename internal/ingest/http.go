package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AngelCh415/terrafedash/internal/utils"
)

// DefaultMaxSourceBytes caps one extract; a month of orders is far below it.
const DefaultMaxSourceBytes = 64 << 20

// IsRemote reports whether a source location is fetched over HTTP.
func IsRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// open returns the content of a local path or a remote URL. Sources larger
// than limit are refused rather than truncated.
func open(ctx context.Context, c HTTPClient, b utils.Backoff, loc string, limit int64) (io.Reader, error) {
	if !IsRemote(loc) {
		f, err := os.Open(loc)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		body, err := readCapped(f, limit)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(body), nil
	}
	body, err := GetWithRetry(ctx, c, b, loc, limit)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(body), nil
}

// GetWithRetry fetches url, retrying transport errors and 5xx responses.
// 4xx responses and bodies over limit bytes fail immediately.
func GetWithRetry(ctx context.Context, c HTTPClient, b utils.Backoff, url string, limit int64) ([]byte, error) {
	var body []byte
	err := b.Do(ctx, func(int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return utils.Permanent(err)
		}
		resp, err := c.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err = fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(snippet))
			if resp.StatusCode < 500 {
				return utils.Permanent(err)
			}
			return err
		}
		body, err = readCapped(resp.Body, limit)
		if errors.Is(err, ErrSourceTooLarge) {
			return utils.Permanent(err)
		}
		return err
	})
	return body, err
}

func readCapped(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrSourceTooLarge, limit)
	}
	return body, nil
}

// DefaultBackoff is three attempts starting at 100ms.
func DefaultBackoff() utils.Backoff {
	return utils.NewBackoff(100*time.Millisecond, 2)
}
