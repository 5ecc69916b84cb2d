// Package chat manages per-annotation compliance conversation threads:
// transcript loading with a one-shot repair path for diverged client and
// server state, and optimistic-then-reconciled message sending.
package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sedhha/policy-mate-sub000/internal/models"
	"github.com/sedhha/policy-mate-sub000/internal/services/reviewapi"
	apperrors "github.com/sedhha/policy-mate-sub000/pkg/errors"
)

// Service holds chat transcripts keyed by annotation id.
type Service struct {
	mu           sync.Mutex
	backend      Backend
	store        AnnotationSource
	review       ReviewContext
	historyLimit int
	transcripts  map[string][]models.Comment

	now   func() time.Time
	newID func() string
}

// NewService creates a chat service.
func NewService(backend Backend, store AnnotationSource, review ReviewContext, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Service{
		backend:      backend,
		store:        store,
		review:       review,
		historyLimit: historyLimit,
		transcripts:  make(map[string][]models.Comment),
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

// Transcript returns a copy of the locally known transcript for an
// annotation.
func (s *Service) Transcript(annotationID string) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.transcripts[annotationID]
	out := make([]models.Comment, len(msgs))
	copy(out, msgs)
	return out
}

// Load fetches an annotation's transcript. It first tries the known chat
// session id (or an externally supplied one); if the backend reports the
// thread as not found, the annotation is re-created server-side to
// guarantee it exists and the fetch is retried once with the newly
// returned id. No other failure is retried.
func (s *Service) Load(ctx context.Context, annotationID, externalSessionID string) ([]models.Comment, error) {
	ann, ok := s.store.Get(annotationID)
	if !ok {
		return nil, apperrors.NotFound("annotation", annotationID)
	}

	sessionID := externalSessionID
	if sessionID == "" {
		sessionID = ann.CommentSessionID
	}

	transcript, err := s.backend.GetTranscript(ctx, annotationID, s.historyLimit, sessionID)
	if err != nil && apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		transcript, err = s.repairAndRetry(ctx, ann)
	}
	if err != nil {
		log.Printf("[ERROR] Loading transcript for annotation %s failed: %v", annotationID, err)
		return nil, err
	}

	if transcript.SessionID != "" {
		s.store.SetCommentSession(annotationID, transcript.SessionID)
	}

	s.mu.Lock()
	s.transcripts[annotationID] = transcript.Messages
	s.mu.Unlock()
	return s.Transcript(annotationID), nil
}

// repairAndRetry re-creates the annotation server-side and retries the
// transcript fetch with the id the backend handed back.
func (s *Service) repairAndRetry(ctx context.Context, ann models.Annotation) (*reviewapi.Transcript, error) {
	wire, err := s.backend.CreateAnnotation(ctx, reviewapi.CreateAnnotationRequest{
		SessionID:       ann.SessionID,
		Page:            ann.Page,
		X:               ann.Rect.X,
		Y:               ann.Rect.Y,
		Width:           ann.Rect.Width,
		Height:          ann.Rect.Height,
		Resolved:        ann.Resolved,
		BookmarkType:    string(ann.BookmarkType),
		BookmarkNote:    ann.BookmarkNote,
		HighlightedText: ann.HighlightedText,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalService, "recreating annotation for chat repair")
	}

	s.store.SetCommentSession(ann.ID, wire.CommentSessionID)
	return s.backend.GetTranscript(ctx, wire.ID, s.historyLimit, wire.CommentSessionID)
}

// Send posts one chat turn. The user's message is appended optimistically,
// then the whole local transcript is replaced by whatever the server
// returns; on failure the optimistic message is filtered back out by its
// generated id.
func (s *Service) Send(ctx context.Context, annotationID, text string) ([]models.Comment, error) {
	ann, ok := s.store.Get(annotationID)
	if !ok {
		return nil, apperrors.NotFound("annotation", annotationID)
	}

	s.mu.Lock()
	history := s.transcripts[annotationID]
	payload := BuildPayload(s.review, ann, history, text)

	optimistic := models.Comment{
		ID:        s.newID(),
		Text:      text,
		Role:      "user",
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Pending:   true,
	}
	s.transcripts[annotationID] = append(s.transcripts[annotationID], optimistic)
	s.mu.Unlock()

	transcript, err := s.backend.SendMessage(ctx, annotationID, payload, ann.CommentSessionID)
	if err != nil {
		log.Printf("[ERROR] Sending chat message for annotation %s failed: %v", annotationID, err)
		s.removeMessage(annotationID, optimistic.ID)
		return nil, err
	}

	if transcript.SessionID != "" {
		s.store.SetCommentSession(annotationID, transcript.SessionID)
	}

	s.mu.Lock()
	s.transcripts[annotationID] = transcript.Messages
	s.mu.Unlock()
	return s.Transcript(annotationID), nil
}

func (s *Service) removeMessage(annotationID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.transcripts[annotationID]
	filtered := msgs[:0]
	for _, m := range msgs {
		if m.ID != messageID {
			filtered = append(filtered, m)
		}
	}
	s.transcripts[annotationID] = filtered
}
