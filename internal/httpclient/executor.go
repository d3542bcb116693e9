package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arcoro/birddoghr-go/internal/metrics"
)

// HTTPError is returned for any non-2xx response. The original status code
// and body are carried through unmodified so callers can inspect them.
type HTTPError struct {
	Status int
	Body   []byte
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("birddog returned %d for %s: %s", e.Status, e.URL, string(e.Body))
}

// Executor performs single-shot HTTP execution with JSON decoding. There is
// no retry, rate limiting, or fallback: transport failures, non-2xx statuses
// and decode failures are surfaced to the caller as-is.
type Executor struct {
	logger *zap.Logger
	http   *http.Client
	apiTag string
}

// New creates an Executor. apiTag prefixes log events so multiple API clients
// can share a logger.
func New(logger *zap.Logger, httpClient *http.Client, apiTag string) *Executor {
	return &Executor{
		logger: logger,
		http:   httpClient,
		apiTag: apiTag,
	}
}

// DoJSON executes req and JSON-decodes the response body into out. The
// request carries its own context. endpoint labels metrics and log events; it
// should be the path segment, not the full URL. A nil out discards the body.
func (e *Executor) DoJSON(req *http.Request, endpoint string, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	defer metrics.ObserveRequest(endpoint, req.Method, start)

	resp, err := e.http.Do(req)
	if err != nil {
		metrics.IncRequest(endpoint, req.Method, 0)
		e.logger.Warn(e.apiTag+".http_failed",
			zap.String("url", req.URL.String()),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%s: %s %s: %w", e.apiTag, req.Method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncRequest(endpoint, req.Method, resp.StatusCode)
		return fmt.Errorf("%s: read response body: %w", e.apiTag, err)
	}
	metrics.IncRequest(endpoint, req.Method, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn(e.apiTag+".non_2xx",
			zap.Int("status", resp.StatusCode),
			zap.String("url", req.URL.String()),
			zap.String("request_id", requestID),
			zap.String("body", string(body)))
		return &HTTPError{Status: resp.StatusCode, Body: body, URL: req.URL.String()}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			e.logger.Warn(e.apiTag+".decode_failed",
				zap.Error(err),
				zap.String("url", req.URL.String()),
				zap.String("request_id", requestID))
			return fmt.Errorf("%s: decode %s response: %w", e.apiTag, endpoint, err)
		}
	}

	e.logger.Debug(e.apiTag+".http_success",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}
