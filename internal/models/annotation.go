package models

import "github.com/sedhha/policy-mate-sub000/pkg/geometry"

// ActionKind is the comment-vs-bookmark intent of an annotation. It is
// transient UI state until the user picks one: before that it is empty,
// and changing it alone never triggers a network call.
type ActionKind string

const (
	ActionComment  ActionKind = "comment"
	ActionBookmark ActionKind = "bookmark"
)

// BookmarkType classifies a bookmarked region.
type BookmarkType string

const (
	BookmarkReviewLater BookmarkType = "review-later"
	BookmarkVerify      BookmarkType = "verify"
	BookmarkImportant   BookmarkType = "important"
	BookmarkQuestion    BookmarkType = "question"
)

// Valid reports whether the bookmark type is one of the fixed enumeration.
func (b BookmarkType) Valid() bool {
	switch b {
	case BookmarkReviewLater, BookmarkVerify, BookmarkImportant, BookmarkQuestion:
		return true
	}
	return false
}

// HighlightStyle is the visual treatment for rendered annotation regions.
type HighlightStyle string

const (
	StyleClassic  HighlightStyle = "classic"
	StyleGradient HighlightStyle = "gradient"
	StyleNeon     HighlightStyle = "neon"
	StyleGlass    HighlightStyle = "glass"
	StyleAcademic HighlightStyle = "academic"
)

// Annotation is one user-marked rectangular region on one page of one
// analysis session. Geometry is stored in unscaled page units so it
// survives zoom changes; rendering multiplies by the current scale.
type Annotation struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`

	Page int           `json:"page"` // 1-based
	Rect geometry.Rect `json:"rect"` // unscaled page units

	Action       ActionKind   `json:"action,omitempty"`
	BookmarkType BookmarkType `json:"bookmarkType,omitempty"`
	BookmarkNote string       `json:"bookmarkNote,omitempty"`

	Resolved        bool   `json:"resolved"`
	HighlightedText string `json:"highlightedText,omitempty"`

	// CommentSessionID addresses this annotation's chat thread; created
	// lazily by the backend on first chat interaction.
	CommentSessionID string `json:"commentSessionId,omitempty"`

	Timestamp string `json:"timestamp,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`

	// Dirty marks an annotation whose optimistic patch failed to reach the
	// backend. The local value is kept; nothing is rolled back.
	Dirty bool `json:"-"`
}
