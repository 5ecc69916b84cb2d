package models

// Comment is one chat message in an annotation's compliance thread.
// Ordering is by arrival sequence (append-only), never re-sorted by
// timestamp.
type Comment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Role      string `json:"role,omitempty"`
	Timestamp string `json:"timestamp"` // ISO 8601

	// Pending marks an optimistic local message that has not been
	// acknowledged by the backend yet.
	Pending bool `json:"-"`
}
