package stubapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sedhha/policy-mate-sub000/internal/database"
)

// Dependencies holds what the handlers need.
type Dependencies struct {
	DB *database.DB
}

// createAnnotationRequest is the POST body for annotation creation.
type createAnnotationRequest struct {
	SessionID       string  `json:"session_id" binding:"required"`
	Page            int     `json:"page" binding:"required,min=1"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Resolved        bool    `json:"resolved"`
	BookmarkType    string  `json:"bookmark_type"`
	BookmarkNote    string  `json:"bookmark_note"`
	HighlightedText string  `json:"highlighted_text"`
}

// annotationPatchRequest is the PATCH body. All three fields are always
// sent by the client, so no pointer dance is needed here.
type annotationPatchRequest struct {
	BookmarkType string `json:"bookmark_type"`
	BookmarkNote string `json:"bookmark_note"`
	Resolved     bool   `json:"resolved"`
}

// CreateAnnotation persists a new annotation and returns the stored record,
// ids and all. Clients must wait for this response before rendering.
func CreateAnnotation(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAnnotationRequest
		if !BindJSONOrError(c, &req) {
			return
		}
		if req.Width <= 0 || req.Height <= 0 {
			SendBadRequest(c, "Annotation region must have positive width and height")
			return
		}

		record := AnnotationRecord{
			SessionID:       req.SessionID,
			Page:            req.Page,
			X:               req.X,
			Y:               req.Y,
			Width:           req.Width,
			Height:          req.Height,
			Resolved:        req.Resolved,
			BookmarkType:    req.BookmarkType,
			BookmarkNote:    req.BookmarkNote,
			HighlightedText: req.HighlightedText,
		}
		if err := deps.DB.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
			SendInternalError(c, "Failed to create annotation")
			return
		}

		c.JSON(http.StatusCreated, AnnotationResponse{
			Status:     statusSuccess,
			Annotation: &record,
		})
	}
}

// ListAnnotations returns every annotation for the session, oldest first.
func ListAnnotations(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			SendBadRequest(c, "session_id query parameter is required")
			return
		}

		var records []AnnotationRecord
		err := deps.DB.WithContext(c.Request.Context()).
			Where("session_id = ?", sessionID).
			Order("created_at ASC").
			Find(&records).Error
		if err != nil {
			SendInternalError(c, "Failed to retrieve annotations")
			return
		}

		c.JSON(http.StatusOK, AnnotationListResponse{
			Status:      statusSuccess,
			Annotations: records,
			Total:       len(records),
		})
	}
}

// PatchAnnotation updates bookmark type, note and resolved state by id.
func PatchAnnotation(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var req annotationPatchRequest
		if !BindJSONOrError(c, &req) {
			return
		}

		var record AnnotationRecord
		err := deps.DB.WithContext(c.Request.Context()).First(&record, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				SendNotFound(c, "Annotation not found")
			} else {
				SendInternalError(c, "Failed to load annotation")
			}
			return
		}

		updates := map[string]interface{}{
			"bookmark_type": req.BookmarkType,
			"bookmark_note": req.BookmarkNote,
			"resolved":      req.Resolved,
		}
		if err := deps.DB.WithContext(c.Request.Context()).Model(&record).Updates(updates).Error; err != nil {
			SendInternalError(c, "Failed to update annotation")
			return
		}

		SendOK(c)
	}
}

// DeleteAnnotation removes an annotation and its chat thread.
func DeleteAnnotation(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result := deps.DB.WithContext(c.Request.Context()).Delete(&AnnotationRecord{}, "id = ?", id)
		if result.Error != nil {
			SendInternalError(c, "Failed to delete annotation")
			return
		}
		if result.RowsAffected == 0 {
			SendNotFound(c, "Annotation not found")
			return
		}

		// Messages go with the annotation
		deps.DB.WithContext(c.Request.Context()).Delete(&MessageRecord{}, "annotation_id = ?", id)

		SendOK(c)
	}
}
