package stubapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sedhha/policy-mate-sub000/internal/database"
	"github.com/sedhha/policy-mate-sub000/internal/stubapi"
)

type stubSuite struct {
	t      *testing.T
	db     *gorm.DB
	deps   *stubapi.Dependencies
	router *gin.Engine
}

func setupStubSuite(t *testing.T) *stubSuite {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	err = db.AutoMigrate(&stubapi.AnnotationRecord{}, &stubapi.MessageRecord{}, &stubapi.SessionMetricsRecord{})
	require.NoError(t, err, "Failed to migrate test database")

	deps := &stubapi.Dependencies{DB: &database.DB{DB: db}}

	router := gin.New()
	router.POST("/annotations", stubapi.CreateAnnotation(deps))
	router.GET("/annotations", stubapi.ListAnnotations(deps))
	router.PATCH("/annotations/:id", stubapi.PatchAnnotation(deps))
	router.DELETE("/annotations/:id", stubapi.DeleteAnnotation(deps))
	router.GET("/annotations/:id/chat", stubapi.GetTranscript(deps))
	router.POST("/annotations/:id/chat", stubapi.SendMessage(deps))
	router.PATCH("/sessions/:id/metrics", stubapi.UpdateSessionMetrics(deps))
	router.GET("/sessions/:id/document", stubapi.GetDocument(deps))

	return &stubSuite{t: t, db: db, deps: deps, router: router}
}

func (s *stubSuite) do(method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *stubSuite) createAnnotation(sessionID string) stubapi.AnnotationRecord {
	w := s.do(http.MethodPost, "/annotations", map[string]interface{}{
		"session_id":       sessionID,
		"page":             2,
		"x":                10.0,
		"y":                20.0,
		"width":            50.0,
		"height":           15.0,
		"highlighted_text": "Data shall be retained for 90 days",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp stubapi.AnnotationResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(s.t, resp.Annotation)
	return *resp.Annotation
}

func TestCreateAnnotation(t *testing.T) {
	t.Run("assigns server ids and echoes the record", func(t *testing.T) {
		suite := setupStubSuite(t)
		ann := suite.createAnnotation("sess-1")

		assert.NotEmpty(t, ann.ID)
		assert.NotEmpty(t, ann.CommentSessionID)
		assert.NotEmpty(t, ann.Timestamp)
		assert.Equal(t, "sess-1", ann.SessionID)
		assert.Equal(t, 2, ann.Page)
		assert.Equal(t, 50.0, ann.Width)
	})

	t.Run("rejects a missing session id", func(t *testing.T) {
		suite := setupStubSuite(t)
		w := suite.do(http.MethodPost, "/annotations", map[string]interface{}{
			"page": 1, "width": 10.0, "height": 10.0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a degenerate region", func(t *testing.T) {
		suite := setupStubSuite(t)
		w := suite.do(http.MethodPost, "/annotations", map[string]interface{}{
			"session_id": "sess-1", "page": 1, "width": 0.0, "height": 10.0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp stubapi.StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
	})
}

func TestListAnnotations(t *testing.T) {
	suite := setupStubSuite(t)
	suite.createAnnotation("sess-1")
	suite.createAnnotation("sess-1")
	suite.createAnnotation("sess-2")

	w := suite.do(http.MethodGet, "/annotations?session_id=sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp stubapi.AnnotationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Annotations, 2)

	w = suite.do(http.MethodGet, "/annotations", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "session_id is required")
}

func TestPatchAnnotation(t *testing.T) {
	suite := setupStubSuite(t)
	ann := suite.createAnnotation("sess-1")

	w := suite.do(http.MethodPatch, "/annotations/"+ann.ID, map[string]interface{}{
		"bookmark_type": "verify",
		"bookmark_note": "check clause 4",
		"resolved":      true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored stubapi.AnnotationRecord
	require.NoError(t, suite.db.First(&stored, "id = ?", ann.ID).Error)
	assert.Equal(t, "verify", stored.BookmarkType)
	assert.Equal(t, "check clause 4", stored.BookmarkNote)
	assert.True(t, stored.Resolved)

	w = suite.do(http.MethodPatch, "/annotations/nope", map[string]interface{}{"resolved": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAnnotation(t *testing.T) {
	suite := setupStubSuite(t)
	ann := suite.createAnnotation("sess-1")

	// Seed a chat message so the cascade is observable
	suite.do(http.MethodPost, "/annotations/"+ann.ID+"/chat", map[string]interface{}{"text": "hello"})

	w := suite.do(http.MethodDelete, "/annotations/"+ann.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&stubapi.MessageRecord{}).Where("annotation_id = ?", ann.ID).Count(&count)
	assert.Zero(t, count, "messages deleted with the annotation")

	w = suite.do(http.MethodDelete, "/annotations/"+ann.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat(t *testing.T) {
	t.Run("stale annotation id gets a 404", func(t *testing.T) {
		suite := setupStubSuite(t)
		w := suite.do(http.MethodGet, "/annotations/gone/chat", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("send appends the reviewer turn and an assistant reply", func(t *testing.T) {
		suite := setupStubSuite(t)
		ann := suite.createAnnotation("sess-1")

		w := suite.do(http.MethodPost, "/annotations/"+ann.ID+"/chat", map[string]interface{}{
			"text": "Does this clause conflict with GDPR retention limits?",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp stubapi.TranscriptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, ann.CommentSessionID, resp.SessionID)
		require.Len(t, resp.Messages, 2)
		assert.Equal(t, "user", resp.Messages[0].Role)
		assert.Equal(t, "assistant", resp.Messages[1].Role)
		assert.Contains(t, resp.Messages[1].Text, "page 2")
	})

	t.Run("transcript round trips through a second fetch", func(t *testing.T) {
		suite := setupStubSuite(t)
		ann := suite.createAnnotation("sess-1")

		suite.do(http.MethodPost, "/annotations/"+ann.ID+"/chat", map[string]interface{}{"text": "first"})
		suite.do(http.MethodPost, "/annotations/"+ann.ID+"/chat", map[string]interface{}{"text": "second"})

		w := suite.do(http.MethodGet, "/annotations/"+ann.ID+"/chat?limit=50", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp stubapi.TranscriptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Messages, 4)
	})
}

func TestUpdateSessionMetrics(t *testing.T) {
	suite := setupStubSuite(t)

	w := suite.do(http.MethodPatch, "/sessions/sess-1/metrics", map[string]interface{}{
		"total_findings_delta": 1,
		"progress":             20.0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPatch, "/sessions/sess-1/metrics", map[string]interface{}{
		"total_findings_delta":    1,
		"resolved_findings_delta": 1,
		"progress":                40.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var record stubapi.SessionMetricsRecord
	require.NoError(t, suite.db.First(&record, "session_id = ?", "sess-1").Error)
	assert.Equal(t, 2, record.TotalFindings)
	assert.Equal(t, 1, record.ResolvedFindings)
	assert.Equal(t, 40.0, record.Progress)
}

func TestGetDocument(t *testing.T) {
	suite := setupStubSuite(t)

	w := suite.do(http.MethodGet, "/sessions/sess-1/document", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestBearerAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/guarded", stubapi.BearerAuth("secret-token"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("matching token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer secret-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
