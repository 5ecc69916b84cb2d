package reviewapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	apperrors "github.com/sedhha/policy-mate-sub000/pkg/errors"
)

// fakeCache is a minimal cache.Cache for exercising the document blob path.
type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[key]
	return v, ok
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

func (f *fakeCache) Close() error { return nil }

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL: baseURL,
		Token:   func() string { return "test-token" },
	})
}

func TestClient_CreateAnnotation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/annotations" {
			t.Errorf("Expected path /annotations, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected bearer token header, got %q", got)
		}

		var req CreateAnnotationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.SessionID != "sess-1" || req.Page != 2 {
			t.Errorf("unexpected payload: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(annotationResponse{
			Status: StatusSuccess,
			Annotation: &AnnotationWire{
				ID:        "ann-1",
				SessionID: req.SessionID,
				Page:      req.Page,
				X:         req.X,
				Y:         req.Y,
				Width:     req.Width,
				Height:    req.Height,
			},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	wire, err := client.CreateAnnotation(context.Background(), CreateAnnotationRequest{
		SessionID: "sess-1",
		Page:      2,
		X:         10, Y: 10, Width: 50, Height: 20,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if wire.ID != "ann-1" {
		t.Errorf("Expected id ann-1, got %s", wire.ID)
	}
}

func TestClient_CreateAnnotation_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(annotationResponse{
			Status:      StatusError,
			Description: "session is closed",
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.CreateAnnotation(context.Background(), CreateAnnotationRequest{SessionID: "sess-1", Page: 1})
	if err == nil {
		t.Fatal("Expected error for error-status response")
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeBackendRejected) {
		t.Errorf("Expected BACKEND_REJECTED, got %v", err)
	}
	var appErr *apperrors.AppError
	if ok := errors.As(err, &appErr); !ok || appErr.Message != "session is closed" {
		t.Errorf("Expected backend description to be carried, got %v", err)
	}
}

func TestClient_MissingToken(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL: server.URL,
		Token:   func() string { return "" },
	})

	_, err := client.ListAnnotations(context.Background(), "sess-1")
	if !apperrors.IsCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("Expected UNAUTHORIZED precondition error, got %v", err)
	}
	if called {
		t.Error("Expected no network call without a token")
	}
}

func TestClient_ListAnnotations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session_id"); got != "sess-9" {
			t.Errorf("Expected session_id=sess-9, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(annotationListResponse{
			Status: StatusSuccess,
			Annotations: []AnnotationWire{
				{ID: "a", SessionID: "sess-9", Page: 1, X: 1, Y: 2, Width: 30, Height: 10},
				{ID: "b", SessionID: "sess-9", Page: 3, Resolved: true},
			},
			Total: 2,
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	anns, err := client.ListAnnotations(context.Background(), "sess-9")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(anns) != 2 {
		t.Fatalf("Expected 2 annotations, got %d", len(anns))
	}

	model := anns[0].ToModel()
	if model.Rect.Width != 30 || model.Page != 1 {
		t.Errorf("wire mapping broken: %+v", model)
	}
}

func TestClient_GetTranscript_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.GetTranscript(context.Background(), "missing", 50, "")
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("Expected NOT_FOUND for 404, got %v", err)
	}
}

func TestClient_SendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/annotations/ann-5/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["text"] == "" {
			t.Error("Expected text in body")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(transcriptResponse{
			Status:    StatusSuccess,
			SessionID: "chat-1",
			Messages: []MessageWire{
				{ID: "m1", Text: body["text"], Role: "user", Timestamp: "2026-01-01T00:00:00Z"},
				{ID: "m2", Text: "Acknowledged.", Role: "assistant", Timestamp: "2026-01-01T00:00:01Z"},
			},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	transcript, err := client.SendMessage(context.Background(), "ann-5", "is clause 4 compliant?", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if transcript.SessionID != "chat-1" {
		t.Errorf("Expected echoed session id, got %s", transcript.SessionID)
	}
	if len(transcript.Messages) != 2 {
		t.Errorf("Expected full transcript, got %d messages", len(transcript.Messages))
	}
}

func TestClient_FetchDocument_UsesCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:       server.URL,
		Token:         func() string { return "test-token" },
		DocumentCache: newFakeCache(),
	})

	ctx := context.Background()
	first, err := client.FetchDocument(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := client.FetchDocument(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(first) != string(second) {
		t.Error("Expected identical blobs")
	}
	if hits != 1 {
		t.Errorf("Expected one backend hit, got %d", hits)
	}
}
