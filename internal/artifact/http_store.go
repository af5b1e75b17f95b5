package artifact

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPStore reads objects over plain HTTP(S) from {baseURL}/{bucket}/{path},
// which is the public object URL layout of GCS and S3 compatible stores.
type HTTPStore struct {
	client *resty.Client
	bucket string
}

func NewHTTPStore(baseURL, bucket string, timeout time.Duration, retries int) *HTTPStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})
	return &HTTPStore{client: client, bucket: bucket}
}

func (s *HTTPStore) objectURL(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/" + url.PathEscape(s.bucket) + "/" + strings.Join(segments, "/")
}

func (s *HTTPStore) Get(ctx context.Context, path string) ([]byte, error) {
	objectURL := s.objectURL(path)
	resp, err := s.client.R().
		SetContext(ctx).
		Get(objectURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", objectURL, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("download %s: %w", objectURL, ErrObjectNotFound)
	case !resp.IsSuccess():
		return nil, fmt.Errorf("download %s: unexpected status %s", objectURL, resp.Status())
	}
	return resp.Body(), nil
}

func (s *HTTPStore) Close() error {
	return nil
}
