package market

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// contains http utils to deal with remote services

// diskCache implements a simple disk cache for HTTP responses.
//
// Entries live for ttl: the key of a request includes the current ttl-long
// time slot, so entries expire when the slot changes.
type diskCache struct {
	base   http.RoundTripper
	dir    string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	slot := c.now().Truncate(c.ttl).Unix()
	key := fmt.Sprintf("%d %s %s %s", slot, req.Method, req.URL.String(), req.Header.Get(cmcKeyHeader))
	key = fmt.Sprintf("cst-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		c.logger.Debug("cache hit", zap.String("host", req.URL.Host), zap.String("path", req.URL.Path))
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.logger.Info("http request",
		zap.String("method", resp.Request.Method),
		zap.String("host", resp.Request.URL.Host),
		zap.String("path", resp.Request.URL.Path),
		zap.String("status", resp.Status),
	)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	if err := c.put(key, resp); err != nil {
		c.logger.Warn("cache write error (ignored)", zap.Error(err))
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache. The response body is left readable.
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o600)
}

// throttle delays requests so that they don't exceed a rate limit.
type throttle struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttle) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// newClient returns a client that throttles requests to requestsPerMinute (0
// is unlimited) and caches responses for ttl (0 disables the cache).
func newClient(base http.RoundTripper, requestsPerMinute int, cacheDir string, ttl time.Duration, logger *zap.Logger) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	transport := base
	if requestsPerMinute > 0 {
		every := time.Minute / time.Duration(requestsPerMinute)
		transport = &throttle{base: transport, limiter: rate.NewLimiter(rate.Every(every), 1)}
	}
	if ttl > 0 {
		transport = &diskCache{base: transport, dir: cacheDir, ttl: ttl, now: time.Now, logger: logger}
	}
	return &http.Client{Transport: transport, Timeout: 30 * time.Second}
}

// statusError is returned for a response that is not a 200 OK.
type statusError struct {
	Code   int
	Status string
	URL    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("cannot http GET %v: %v", e.URL, e.Status)
}

// httpStatus returns the status code of a statusError, or 0.
func httpStatus(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// jwget performs an HTTP GET request to the given address and decodes the
// JSON response body into a generic value, numbers kept as json.Number.
func jwget(ctx context.Context, client *http.Client, addr string, header http.Header) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			URL:    resp.Request.URL.Host + resp.Request.URL.Path,
		}
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid JSON from %v: %w", resp.Request.URL.Host, err)
	}
	return data, nil
}
