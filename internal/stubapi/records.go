package stubapi

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnotationRecord is the stub backend's persisted annotation row, matching
// the wire contract's snake_case fields.
type AnnotationRecord struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	SessionID        string    `json:"session_id" gorm:"index;not null"`
	Page             int       `json:"page" gorm:"not null"`
	X                float64   `json:"x"`
	Y                float64   `json:"y"`
	Width            float64   `json:"width"`
	Height           float64   `json:"height"`
	Action           string    `json:"action,omitempty"`
	BookmarkType     string    `json:"bookmark_type,omitempty"`
	BookmarkNote     string    `json:"bookmark_note,omitempty"`
	Resolved         bool      `json:"resolved" gorm:"default:false"`
	CommentSessionID string    `json:"comment_session_id,omitempty"`
	HighlightedText  string    `json:"highlighted_text,omitempty"`
	Timestamp        string    `json:"timestamp,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate assigns ids before inserting a new annotation
func (a *AnnotationRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CommentSessionID == "" {
		a.CommentSessionID = uuid.New().String()
	}
	if a.Timestamp == "" {
		a.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return nil
}

// TableName returns the table name for the AnnotationRecord model
func (AnnotationRecord) TableName() string {
	return "annotations"
}

// MessageRecord is one chat message in an annotation's thread.
type MessageRecord struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	AnnotationID string    `json:"annotation_id" gorm:"index;not null"`
	SessionID    string    `json:"session_id" gorm:"index"`
	Role         string    `json:"role"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate generates an id before inserting a new message
func (m *MessageRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the MessageRecord model
func (MessageRecord) TableName() string {
	return "messages"
}

// SessionMetricsRecord aggregates review progress per analysis session.
type SessionMetricsRecord struct {
	SessionID        string    `json:"session_id" gorm:"primaryKey"`
	TotalFindings    int       `json:"total_findings"`
	ResolvedFindings int       `json:"resolved_findings"`
	Progress         float64   `json:"progress"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the table name for the SessionMetricsRecord model
func (SessionMetricsRecord) TableName() string {
	return "session_metrics"
}
