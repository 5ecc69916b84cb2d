package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sedhha/policy-mate-sub000/internal/models"
)

var testReview = ReviewContext{
	Frameworks:       []string{"SOC2", "GDPR"},
	Jurisdiction:     "EU",
	RequireCitations: true,
	AnswerStyle:      "concise",
}

var testAnnotation = models.Annotation{
	ID:              "ann-1",
	Page:            2,
	HighlightedText: "Data retention",
}

func TestBuildPayload_FirstTurnHeader(t *testing.T) {
	payload := BuildPayload(testReview, testAnnotation, nil, "is this clause compliant?")

	assert.True(t, strings.HasPrefix(payload, ContextHeaderTag))
	assert.Contains(t, payload, "Frameworks: SOC2, GDPR")
	assert.Contains(t, payload, "Jurisdiction: EU")
	assert.Contains(t, payload, "Citations: required")
	assert.Contains(t, payload, "Answer style: concise")
	assert.Contains(t, payload, "Page: 2")
	assert.Contains(t, payload, "Highlighted text: Data retention")
	assert.True(t, strings.HasSuffix(payload, "is this clause compliant?"))
}

func TestBuildPayload_FollowUpTurnsReferenceOnly(t *testing.T) {
	history := []models.Comment{
		{ID: "m1", Text: BuildPayload(testReview, testAnnotation, nil, "first question")},
	}

	payload := BuildPayload(testReview, testAnnotation, history, "second question")

	assert.NotContains(t, payload, ContextHeaderTag)
	assert.True(t, strings.HasPrefix(payload, "Regarding: page 2"))
	assert.True(t, strings.HasSuffix(payload, "second question"))
}

func TestBuildPayload_SkipsReferenceWhenFirstMessageCarriesIt(t *testing.T) {
	history := []models.Comment{
		{ID: "m1", Text: "Regarding: page 2\n\nfirst question"},
	}

	payload := BuildPayload(testReview, testAnnotation, history, "second question")

	assert.Equal(t, "second question", payload)
}

func TestBuildPayload_HeaderExactlyOnceAcrossThreeTurns(t *testing.T) {
	var history []models.Comment
	headerCount := 0

	for i, text := range []string{"turn one", "turn two", "turn three"} {
		payload := BuildPayload(testReview, testAnnotation, history, text)
		occurrences := strings.Count(payload, ContextHeaderTag)
		if i == 0 {
			assert.Equal(t, 1, occurrences)
		} else {
			assert.Zero(t, occurrences)
		}
		headerCount += occurrences
		history = append(history, models.Comment{Text: payload})
	}

	assert.Equal(t, 1, headerCount)
}

func TestBuildPayload_Truncation(t *testing.T) {
	longText := strings.Repeat("compliance ", 1000) // well past the cap

	payload := BuildPayload(testReview, testAnnotation, nil, longText)

	assert.LessOrEqual(t, utf8.RuneCountInString(payload), 7800+utf8.RuneCountInString(TruncationMarker))
	assert.True(t, strings.HasSuffix(payload, TruncationMarker))
}

func TestBuildPayload_NoTruncationUnderCap(t *testing.T) {
	payload := BuildPayload(testReview, testAnnotation, nil, "short question")
	assert.False(t, strings.Contains(payload, TruncationMarker))
}

func TestBuildPayload_MultibyteSafeTruncation(t *testing.T) {
	longText := strings.Repeat("ü", 9000)

	payload := BuildPayload(testReview, testAnnotation, nil, longText)

	assert.True(t, utf8.ValidString(payload))
	assert.True(t, strings.HasSuffix(payload, TruncationMarker))
}
