package stubapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Wire status values for the response envelope.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// StatusResponse is the bare envelope for mutations with no payload.
type StatusResponse struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// AnnotationResponse wraps a single annotation.
type AnnotationResponse struct {
	Status      string            `json:"status"`
	Annotation  *AnnotationRecord `json:"annotation,omitempty"`
	Description string            `json:"description,omitempty"`
}

// AnnotationListResponse wraps a session's annotation list.
type AnnotationListResponse struct {
	Status      string             `json:"status"`
	Annotations []AnnotationRecord `json:"annotations"`
	Total       int                `json:"total"`
	Description string             `json:"description,omitempty"`
}

// TranscriptResponse wraps an annotation's chat history.
type TranscriptResponse struct {
	Status      string        `json:"status"`
	SessionID   string        `json:"session_id,omitempty"`
	Messages    []MessageWire `json:"messages"`
	Description string        `json:"description,omitempty"`
}

// MessageWire is the chat message shape on the wire.
type MessageWire struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Role      string `json:"role,omitempty"`
	Timestamp string `json:"timestamp"`
}

// SendOK sends a success envelope with no payload
func SendOK(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: statusSuccess})
}

// SendBadRequest sends a 400 error envelope
func SendBadRequest(c *gin.Context, description string) {
	c.JSON(http.StatusBadRequest, StatusResponse{Status: statusError, Description: description})
}

// SendNotFound sends a 404 error envelope
func SendNotFound(c *gin.Context, description string) {
	c.JSON(http.StatusNotFound, StatusResponse{Status: statusError, Description: description})
}

// SendUnauthorized sends a 401 error envelope
func SendUnauthorized(c *gin.Context, description string) {
	c.JSON(http.StatusUnauthorized, StatusResponse{Status: statusError, Description: description})
}

// SendInternalError sends a 500 error envelope
func SendInternalError(c *gin.Context, description string) {
	c.JSON(http.StatusInternalServerError, StatusResponse{Status: statusError, Description: description})
}

// BindJSONOrError binds the request body, sending a 400 envelope on failure
func BindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		SendBadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func toMessageWire(m MessageRecord) MessageWire {
	return MessageWire{
		ID:        m.ID,
		Text:      m.Text,
		Role:      m.Role,
		Timestamp: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
