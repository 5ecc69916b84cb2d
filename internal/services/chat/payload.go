package chat

import (
	"fmt"
	"strings"

	"github.com/sedhha/policy-mate-sub000/internal/models"
)

const (
	// ContextHeaderTag opens the structured context block sent on the first
	// turn of every compliance conversation.
	ContextHeaderTag = "[[COMPLIANCE_CONTEXT_V1]]"

	// TruncationMarker is appended when a payload is cut at the cap.
	TruncationMarker = "… [message truncated]"

	// maxPayloadChars is the hard cap on a combined chat payload.
	maxPayloadChars = 8000
	// truncateAt is where an over-cap payload is cut before the marker.
	truncateAt = 7800
)

// ReviewContext carries the compliance framing prepended to the first turn
// of each annotation's conversation.
type ReviewContext struct {
	Frameworks       []string
	Jurisdiction     string
	RequireCitations bool
	AnswerStyle      string
}

// pageReference is the lightweight context block for follow-up turns.
func pageReference(page int) string {
	return fmt.Sprintf("Regarding: page %d", page)
}

// BuildPayload assembles the composite text sent to the backend for one
// chat turn. The structured header goes out exactly once, on the first
// turn. Follow-up turns re-include only the page reference, and skip even
// that when the first stored message already starts with the exact
// reference prefix. The result is hard-capped at 8000 characters.
func BuildPayload(rc ReviewContext, ann models.Annotation, history []models.Comment, text string) string {
	var b strings.Builder

	if len(history) == 0 {
		citations := "optional"
		if rc.RequireCitations {
			citations = "required"
		}
		b.WriteString(ContextHeaderTag)
		b.WriteString("\n")
		b.WriteString("Frameworks: " + strings.Join(rc.Frameworks, ", ") + "\n")
		b.WriteString("Jurisdiction: " + rc.Jurisdiction + "\n")
		b.WriteString("Citations: " + citations + "\n")
		b.WriteString("Answer style: " + rc.AnswerStyle + "\n")
		fmt.Fprintf(&b, "Page: %d\n", ann.Page)
		if ann.HighlightedText != "" {
			b.WriteString("Highlighted text: " + ann.HighlightedText + "\n")
		}
		b.WriteString("\n")
	} else if !strings.HasPrefix(history[0].Text, pageReference(ann.Page)) {
		b.WriteString(pageReference(ann.Page))
		b.WriteString("\n\n")
	}

	b.WriteString(text)

	return capPayload(b.String())
}

// capPayload enforces the payload size cap, truncating with a visible
// marker. Cutting happens on runes so multibyte text is never split.
func capPayload(payload string) string {
	runes := []rune(payload)
	if len(runes) <= maxPayloadChars {
		return payload
	}
	return string(runes[:truncateAt]) + TruncationMarker
}
