package reviewapi

import (
	"github.com/sedhha/policy-mate-sub000/internal/models"
	"github.com/sedhha/policy-mate-sub000/pkg/geometry"
)

// Wire status values used by the review backend envelope.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AnnotationWire is the backend's snake_case annotation shape.
type AnnotationWire struct {
	ID               string  `json:"id"`
	SessionID        string  `json:"session_id"`
	Page             int     `json:"page"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Timestamp        string  `json:"timestamp,omitempty"`
	Action           string  `json:"action,omitempty"`
	BookmarkType     string  `json:"bookmark_type,omitempty"`
	BookmarkNote     string  `json:"bookmark_note,omitempty"`
	Resolved         bool    `json:"resolved"`
	CommentSessionID string  `json:"comment_session_id,omitempty"`
	HighlightedText  string  `json:"highlighted_text,omitempty"`
	CreatedAt        string  `json:"created_at,omitempty"`
	UpdatedAt        string  `json:"updated_at,omitempty"`
}

// ToModel maps the wire shape to the client shape.
func (w AnnotationWire) ToModel() models.Annotation {
	return models.Annotation{
		ID:        w.ID,
		SessionID: w.SessionID,
		Page:      w.Page,
		Rect: geometry.Rect{
			X:      w.X,
			Y:      w.Y,
			Width:  w.Width,
			Height: w.Height,
		},
		Action:           models.ActionKind(w.Action),
		BookmarkType:     models.BookmarkType(w.BookmarkType),
		BookmarkNote:     w.BookmarkNote,
		Resolved:         w.Resolved,
		HighlightedText:  w.HighlightedText,
		CommentSessionID: w.CommentSessionID,
		Timestamp:        w.Timestamp,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

// CreateAnnotationRequest is the POST body for annotation creation.
type CreateAnnotationRequest struct {
	SessionID       string  `json:"session_id"`
	Page            int     `json:"page"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Resolved        bool    `json:"resolved"`
	BookmarkType    string  `json:"bookmark_type,omitempty"`
	BookmarkNote    string  `json:"bookmark_note,omitempty"`
	HighlightedText string  `json:"highlighted_text,omitempty"`
}

// AnnotationPatch is the PATCH body for annotation updates. All three
// fields are always sent; callers fall back to current values for fields
// not present in the user's edit.
type AnnotationPatch struct {
	BookmarkType string `json:"bookmark_type"`
	BookmarkNote string `json:"bookmark_note"`
	Resolved     bool   `json:"resolved"`
}

// MetricsPatch carries session-level aggregate deltas.
type MetricsPatch struct {
	TotalFindingsDelta    int     `json:"total_findings_delta"`
	ResolvedFindingsDelta int     `json:"resolved_findings_delta"`
	Progress              float64 `json:"progress"`
}

// MessageWire is the backend's chat message shape.
type MessageWire struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Role      string `json:"role,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ToModel maps a wire message to the client shape.
func (w MessageWire) ToModel() models.Comment {
	return models.Comment{
		ID:        w.ID,
		Text:      w.Text,
		Role:      w.Role,
		Timestamp: w.Timestamp,
	}
}

// Transcript is the chat transcript response for one annotation.
type Transcript struct {
	SessionID string
	Messages  []models.Comment
}

// envelope types

type annotationResponse struct {
	Status      string          `json:"status"`
	Annotation  *AnnotationWire `json:"annotation,omitempty"`
	Description string          `json:"description,omitempty"`
}

type annotationListResponse struct {
	Status      string           `json:"status"`
	Annotations []AnnotationWire `json:"annotations"`
	Total       int              `json:"total,omitempty"`
	Limit       int              `json:"limit,omitempty"`
	Offset      int              `json:"offset,omitempty"`
	Description string           `json:"description,omitempty"`
}

type transcriptResponse struct {
	Status      string        `json:"status"`
	SessionID   string        `json:"session_id,omitempty"`
	Messages    []MessageWire `json:"messages"`
	Description string        `json:"description,omitempty"`
}

type statusResponse struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}
