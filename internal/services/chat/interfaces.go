package chat

import (
	"context"

	"github.com/sedhha/policy-mate-sub000/internal/models"
	"github.com/sedhha/policy-mate-sub000/internal/services/reviewapi"
)

// Backend is the slice of the review backend API the chat service uses.
// CreateAnnotation is needed for the transcript repair path: chat threads
// are addressed by annotation id, and the annotation may not exist
// server-side if client and server state diverged.
type Backend interface {
	GetTranscript(ctx context.Context, annotationID string, limit int, sessionID string) (*reviewapi.Transcript, error)
	SendMessage(ctx context.Context, annotationID, text, sessionID string) (*reviewapi.Transcript, error)
	CreateAnnotation(ctx context.Context, req reviewapi.CreateAnnotationRequest) (reviewapi.AnnotationWire, error)
}

// AnnotationSource is the slice of the annotation store the chat service
// reads from and reports chat-session ids back to.
type AnnotationSource interface {
	Get(id string) (models.Annotation, bool)
	SetCommentSession(id, chatSessionID string)
}
