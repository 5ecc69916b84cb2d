package models

// SessionMetrics aggregates review progress for one analysis session.
// Progress is derived from the deepest annotated page over the page count.
type SessionMetrics struct {
	SessionID        string  `json:"sessionId"`
	NumPages         int     `json:"numPages"`
	TotalFindings    int     `json:"totalFindings"`
	ResolvedFindings int     `json:"resolvedFindings"`
	MaxPageCovered   int     `json:"maxPageCovered"`
	Progress         float64 `json:"progress"` // 0..100
}

// ComputeProgress returns the review progress percentage.
func (m SessionMetrics) ComputeProgress() float64 {
	if m.NumPages <= 0 {
		return 0
	}
	p := float64(m.MaxPageCovered) / float64(m.NumPages) * 100
	if p > 100 {
		p = 100
	}
	return p
}
