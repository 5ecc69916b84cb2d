// Package reviewapi is the typed HTTP client for the externally owned
// compliance review backend. It covers annotation CRUD, per-annotation chat
// transcripts, the document blob endpoint, and session metrics.
package reviewapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/sedhha/policy-mate-sub000/internal/services/cache"
	apperrors "github.com/sedhha/policy-mate-sub000/pkg/errors"
)

// TokenProvider supplies the bearer token for each request. An empty token
// is a local precondition failure: no network call is attempted.
type TokenProvider func() string

// Config holds configuration for the review backend client
type Config struct {
	BaseURL   string
	Token     TokenProvider
	UserAgent string

	// Rate limiting
	RequestsPerMinute int // Default: 240
	BurstSize         int // Default: 5

	// Timeout applies to the underlying HTTP client. Zero means no request
	// timeout on annotation CRUD and chat calls; in-flight mutations are
	// allowed to complete.
	Timeout time.Duration

	// DocumentCache, when set, caches fetched PDF blobs by session id.
	DocumentCache cache.Cache
	DocumentTTL   time.Duration
}

// Client handles communication with the review backend
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	token       TokenProvider
	userAgent   string
	docCache    cache.Cache
	docTTL      time.Duration
}

// NewClient creates a new review backend client
func NewClient(cfg Config) *Client {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 240
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "PolicyMate/1.0"
	}
	if cfg.Token == nil {
		cfg.Token = func() string { return "" }
	}
	if cfg.DocumentTTL <= 0 {
		cfg.DocumentTTL = 30 * time.Minute
	}

	limiter := rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)),
		cfg.BurstSize,
	)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: limiter,
		baseURL:     cfg.BaseURL,
		token:       cfg.Token,
		userAgent:   cfg.UserAgent,
		docCache:    cfg.DocumentCache,
		docTTL:      cfg.DocumentTTL,
	}
}

// CreateAnnotation creates an annotation and returns the server-assigned
// record. The caller must not insert anything locally until this resolves.
func (c *Client) CreateAnnotation(ctx context.Context, req CreateAnnotationRequest) (AnnotationWire, error) {
	var resp annotationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/annotations", req, &resp); err != nil {
		return AnnotationWire{}, err
	}
	if resp.Status != StatusSuccess || resp.Annotation == nil || resp.Annotation.ID == "" {
		return AnnotationWire{}, apperrors.BackendRejected(resp.Description)
	}
	return *resp.Annotation, nil
}

// ListAnnotations fetches every annotation scoped to a session.
func (c *Client) ListAnnotations(ctx context.Context, sessionID string) ([]AnnotationWire, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)

	var resp annotationListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/annotations?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusSuccess {
		return nil, apperrors.BackendRejected(resp.Description)
	}
	return resp.Annotations, nil
}

// PatchAnnotation updates bookmark type, note and resolved state by id.
func (c *Client) PatchAnnotation(ctx context.Context, id string, patch AnnotationPatch) error {
	var resp statusResponse
	if err := c.doJSON(ctx, http.MethodPatch, "/annotations/"+url.PathEscape(id), patch, &resp); err != nil {
		return err
	}
	if resp.Status != StatusSuccess {
		return apperrors.BackendRejected(resp.Description)
	}
	return nil
}

// DeleteAnnotation deletes an annotation by id.
func (c *Client) DeleteAnnotation(ctx context.Context, id string) error {
	var resp statusResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/annotations/"+url.PathEscape(id), nil, &resp); err != nil {
		return err
	}
	if resp.Status != StatusSuccess {
		return apperrors.BackendRejected(resp.Description)
	}
	return nil
}

// GetTranscript fetches an annotation's chat transcript. sessionID is the
// chat session to address, if known; limit caps the returned history.
func (c *Client) GetTranscript(ctx context.Context, annotationID string, limit int, sessionID string) (*Transcript, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}

	var resp transcriptResponse
	path := "/annotations/" + url.PathEscape(annotationID) + "/chat?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusSuccess {
		return nil, apperrors.BackendRejected(resp.Description)
	}
	return toTranscript(resp), nil
}

// SendMessage posts a chat message and returns the full updated transcript.
func (c *Client) SendMessage(ctx context.Context, annotationID, text, sessionID string) (*Transcript, error) {
	body := map[string]string{"text": text}
	if sessionID != "" {
		body["session_id"] = sessionID
	}

	var resp transcriptResponse
	path := "/annotations/" + url.PathEscape(annotationID) + "/chat"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusSuccess {
		return nil, apperrors.BackendRejected(resp.Description)
	}
	return toTranscript(resp), nil
}

// UpdateSessionMetrics patches session-level aggregates.
func (c *Client) UpdateSessionMetrics(ctx context.Context, sessionID string, patch MetricsPatch) error {
	var resp statusResponse
	path := "/sessions/" + url.PathEscape(sessionID) + "/metrics"
	if err := c.doJSON(ctx, http.MethodPatch, path, patch, &resp); err != nil {
		return err
	}
	if resp.Status != StatusSuccess {
		return apperrors.BackendRejected(resp.Description)
	}
	return nil
}

// FetchDocument downloads the session's PDF as an opaque blob. Blobs are
// cached by session id when a cache is configured.
func (c *Client) FetchDocument(ctx context.Context, sessionID string) ([]byte, error) {
	cacheKey := "document:" + sessionID
	if c.docCache != nil {
		if blob, ok := c.docCache.Get(ctx, cacheKey); ok {
			return blob, nil
		}
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID)+"/document", nil)
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAPIRateLimit, "rate limiter wait failed")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ExternalServiceError("review backend", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, apperrors.NotFound("document", sessionID)
		}
		return nil, apperrors.Newf(apperrors.ErrCodeExternalService, "document fetch returned status %d", resp.StatusCode)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ExternalServiceError("review backend", err)
	}

	if c.docCache != nil {
		_ = c.docCache.Set(ctx, cacheKey, blob, c.docTTL)
	}
	return blob, nil
}

// newRequest builds an authenticated request, failing locally when no token
// is available.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token := c.token()
	if token == "" {
		return nil, apperrors.Unauthorized("no auth token available")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "creating request")
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doJSON issues a JSON request/response round trip with the shared
// precondition, rate limit and error mapping policy.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeAPIRateLimit, "rate limiter wait failed")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ExternalServiceError("review backend", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return apperrors.NotFound("resource", path)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		return apperrors.Unauthorized(fmt.Sprintf("backend rejected credentials (status %d)", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, "decoding backend response")
	}
	return nil
}

func toTranscript(resp transcriptResponse) *Transcript {
	t := &Transcript{SessionID: resp.SessionID}
	for _, m := range resp.Messages {
		t.Messages = append(t.Messages, m.ToModel())
	}
	return t
}
