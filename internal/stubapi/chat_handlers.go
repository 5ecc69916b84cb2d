package stubapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// sendMessageRequest is the POST body for a chat turn.
type sendMessageRequest struct {
	Text      string `json:"text" binding:"required"`
	SessionID string `json:"session_id"`
}

// GetTranscript returns an annotation's chat history, oldest first. The
// annotation must exist; a stale id gets a 404 so clients can run their
// re-create repair path.
func GetTranscript(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		annotationID := c.Param("id")

		annotation, ok := findAnnotation(c, deps, annotationID)
		if !ok {
			return
		}

		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		var records []MessageRecord
		err := deps.DB.WithContext(c.Request.Context()).
			Where("annotation_id = ?", annotationID).
			Order("created_at ASC").
			Limit(limit).
			Find(&records).Error
		if err != nil {
			SendInternalError(c, "Failed to retrieve transcript")
			return
		}

		c.JSON(http.StatusOK, transcriptOf(annotation.CommentSessionID, records))
	}
}

// SendMessage appends a reviewer message to the thread, produces the
// assistant's reply, and returns the full updated transcript.
func SendMessage(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		annotationID := c.Param("id")

		annotation, ok := findAnnotation(c, deps, annotationID)
		if !ok {
			return
		}

		var req sendMessageRequest
		if !BindJSONOrError(c, &req) {
			return
		}

		ctx := c.Request.Context()
		userMsg := MessageRecord{
			AnnotationID: annotationID,
			SessionID:    annotation.CommentSessionID,
			Role:         "user",
			Text:         req.Text,
		}
		if err := deps.DB.WithContext(ctx).Create(&userMsg).Error; err != nil {
			SendInternalError(c, "Failed to store message")
			return
		}

		reply := MessageRecord{
			AnnotationID: annotationID,
			SessionID:    annotation.CommentSessionID,
			Role:         "assistant",
			Text:         assistantReply(annotation),
		}
		if err := deps.DB.WithContext(ctx).Create(&reply).Error; err != nil {
			SendInternalError(c, "Failed to store reply")
			return
		}

		var records []MessageRecord
		err := deps.DB.WithContext(ctx).
			Where("annotation_id = ?", annotationID).
			Order("created_at ASC").
			Find(&records).Error
		if err != nil {
			SendInternalError(c, "Failed to retrieve transcript")
			return
		}

		c.JSON(http.StatusOK, transcriptOf(annotation.CommentSessionID, records))
	}
}

// assistantReply is the stub's stand-in for the compliance analysis model.
func assistantReply(annotation AnnotationRecord) string {
	if annotation.HighlightedText != "" {
		return fmt.Sprintf(
			"Reviewed the highlighted passage on page %d. No immediate conflicts found; verify against your framework checklist before resolving.",
			annotation.Page,
		)
	}
	return fmt.Sprintf(
		"Reviewed the region on page %d. Select a passage with text for a more specific assessment.",
		annotation.Page,
	)
}

func findAnnotation(c *gin.Context, deps *Dependencies, id string) (AnnotationRecord, bool) {
	var annotation AnnotationRecord
	err := deps.DB.WithContext(c.Request.Context()).First(&annotation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			SendNotFound(c, "Annotation not found")
		} else {
			SendInternalError(c, "Failed to load annotation")
		}
		return AnnotationRecord{}, false
	}
	return annotation, true
}

func transcriptOf(sessionID string, records []MessageRecord) TranscriptResponse {
	messages := make([]MessageWire, 0, len(records))
	for _, record := range records {
		messages = append(messages, toMessageWire(record))
	}
	return TranscriptResponse{
		Status:    statusSuccess,
		SessionID: sessionID,
		Messages:  messages,
	}
}
