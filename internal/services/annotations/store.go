// Package annotations holds the client-side annotation store: the canonical
// in-memory annotation list for the active analysis session, the transient
// per-annotation UI state, and the command methods that keep local state
// consistent with the review backend.
//
// Mutation policy is deliberately asymmetric: updates are optimistic (fast
// bookmark and note edits), while creates and deletes wait for the backend
// so a ghost annotation is never rendered and a deleted one never reappears.
package annotations

import (
	"context"
	"log"
	"sync"

	"github.com/sedhha/policy-mate-sub000/internal/models"
	"github.com/sedhha/policy-mate-sub000/internal/services/reviewapi"
	apperrors "github.com/sedhha/policy-mate-sub000/pkg/errors"
	"github.com/sedhha/policy-mate-sub000/pkg/geometry"
)

// CreateInput describes a new annotation from a completed drag gesture.
type CreateInput struct {
	Page            int
	Rect            geometry.Rect
	Resolved        bool
	HighlightedText string
	BookmarkType    models.BookmarkType
	BookmarkNote    string
}

// Patch is a partial annotation update. Nil fields are left unchanged.
type Patch struct {
	Action       *models.ActionKind
	BookmarkType *models.BookmarkType
	BookmarkNote *string
	Resolved     *bool
}

// actionOnly reports whether the patch touches nothing but the transient
// comment-vs-bookmark selector, which is pure UI state.
func (p Patch) actionOnly() bool {
	return p.Action != nil && p.BookmarkType == nil && p.BookmarkNote == nil && p.Resolved == nil
}

// uiState tracks which transient surfaces are open, keyed by annotation id.
// At most one of each kind is open at a time.
type uiState struct {
	creationMenuFor    string
	commentPanelFor    string
	bookmarkPopoverFor string
	expandedChipFor    string

	currentPage    int
	scale          float64
	highlightStyle models.HighlightStyle
}

// Store owns the canonical annotation list. Rendering consumers hold only
// derived state.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	token   TokenProvider

	sessionID   string
	annotations []models.Annotation
	metrics     models.SessionMetrics
	ui          uiState
	lastErr     error
}

// NewStore creates an annotation store bound to a backend and token source.
func NewStore(backend Backend, token TokenProvider) *Store {
	if token == nil {
		token = func() string { return "" }
	}
	return &Store{
		backend: backend,
		token:   token,
		ui: uiState{
			currentPage:    1,
			scale:          1.0,
			highlightStyle: models.StyleClassic,
		},
	}
}

// SetSession switches the store to a new analysis session, dropping all
// prior state.
func (s *Store) SetSession(sessionID string, numPages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = sessionID
	s.annotations = nil
	s.metrics = models.SessionMetrics{SessionID: sessionID, NumPages: numPages}
	s.ui.creationMenuFor = ""
	s.ui.commentPanelFor = ""
	s.ui.bookmarkPopoverFor = ""
	s.ui.expandedChipFor = ""
	s.ui.currentPage = 1
	s.lastErr = nil
}

// Create persists a new annotation. Nothing is inserted locally until the
// backend responds with a success status and an assigned id; that id is
// returned to the caller.
func (s *Store) Create(ctx context.Context, in CreateInput) (string, error) {
	if s.token() == "" {
		return "", apperrors.Unauthorized("not signed in")
	}

	s.mu.RLock()
	sessionID := s.sessionID
	s.mu.RUnlock()
	if sessionID == "" {
		return "", apperrors.New(apperrors.ErrCodeMissingField, "no active analysis session")
	}

	wire, err := s.backend.CreateAnnotation(ctx, reviewapi.CreateAnnotationRequest{
		SessionID:       sessionID,
		Page:            in.Page,
		X:               in.Rect.X,
		Y:               in.Rect.Y,
		Width:           in.Rect.Width,
		Height:          in.Rect.Height,
		Resolved:        in.Resolved,
		BookmarkType:    string(in.BookmarkType),
		BookmarkNote:    in.BookmarkNote,
		HighlightedText: in.HighlightedText,
	})
	if err != nil {
		return "", err
	}

	ann := wire.ToModel()

	s.mu.Lock()
	s.annotations = append(s.annotations, ann)
	s.metrics.TotalFindings++
	if ann.Page > s.metrics.MaxPageCovered {
		s.metrics.MaxPageCovered = ann.Page
	}
	s.metrics.Progress = s.metrics.ComputeProgress()
	s.mu.Unlock()

	return ann.ID, nil
}

// Update applies a patch optimistically and, unless the patch is
// action-only, forwards it to the backend together with a session metrics
// update. Backend failures are logged and the annotation is marked dirty;
// the optimistic change stays in place.
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.NotFound("annotation", id)
	}

	ann := &s.annotations[idx]
	resolvedDelta := 0
	if patch.Action != nil {
		ann.Action = *patch.Action
	}
	if patch.BookmarkType != nil {
		ann.BookmarkType = *patch.BookmarkType
	}
	if patch.BookmarkNote != nil {
		ann.BookmarkNote = *patch.BookmarkNote
	}
	if patch.Resolved != nil && *patch.Resolved != ann.Resolved {
		ann.Resolved = *patch.Resolved
		if ann.Resolved {
			resolvedDelta = 1
		} else {
			resolvedDelta = -1
		}
	}

	if patch.actionOnly() {
		s.mu.Unlock()
		return nil
	}

	// Snapshot after applying: fields absent from the patch fall back to
	// their current values.
	wirePatch := reviewapi.AnnotationPatch{
		BookmarkType: string(ann.BookmarkType),
		BookmarkNote: ann.BookmarkNote,
		Resolved:     ann.Resolved,
	}
	s.metrics.ResolvedFindings += resolvedDelta
	s.metrics.Progress = s.metrics.ComputeProgress()
	metricsPatch := reviewapi.MetricsPatch{
		TotalFindingsDelta:    0,
		ResolvedFindingsDelta: resolvedDelta,
		Progress:              s.metrics.Progress,
	}
	sessionID := s.sessionID
	s.mu.Unlock()

	// Both calls must be issued even if the first fails.
	if err := s.backend.PatchAnnotation(ctx, id, wirePatch); err != nil {
		log.Printf("[ERROR] Patch for annotation %s failed, keeping local change: %v", id, err)
		s.markDirty(id, err)
	}
	if err := s.backend.UpdateSessionMetrics(ctx, sessionID, metricsPatch); err != nil {
		log.Printf("[ERROR] Session metrics update for %s failed: %v", sessionID, err)
		s.setLastErr(err)
	}
	return nil
}

// Delete removes an annotation. The local list is only mutated after the
// backend call resolves; a failed delete leaves everything in place.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.token() == "" {
		return apperrors.Unauthorized("not signed in")
	}

	if err := s.backend.DeleteAnnotation(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	if s.annotations[idx].Resolved {
		s.metrics.ResolvedFindings--
	}
	s.metrics.TotalFindings--
	s.annotations = append(s.annotations[:idx], s.annotations[idx+1:]...)
	s.recomputeMaxPageLocked()

	// A deleted annotation must not leave a panel referencing it
	s.clearTransientForLocked(id)
	return nil
}

// Load replaces the annotation list wholesale with the backend's view of
// the session. On failure the list degrades to empty rather than keeping
// stale data.
func (s *Store) Load(ctx context.Context) error {
	s.mu.RLock()
	sessionID := s.sessionID
	s.mu.RUnlock()
	if sessionID == "" {
		return apperrors.New(apperrors.ErrCodeMissingField, "no active analysis session")
	}

	wires, err := s.backend.ListAnnotations(ctx, sessionID)
	if err != nil {
		log.Printf("[ERROR] Loading annotations for session %s failed: %v", sessionID, err)
		s.mu.Lock()
		s.annotations = nil
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	anns := make([]models.Annotation, 0, len(wires))
	resolved := 0
	for _, w := range wires {
		m := w.ToModel()
		if m.Resolved {
			resolved++
		}
		anns = append(anns, m)
	}

	s.mu.Lock()
	s.annotations = anns
	s.metrics.TotalFindings = len(anns)
	s.metrics.ResolvedFindings = resolved
	s.recomputeMaxPageLocked()
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// SetCommentSession records the chat-session id the backend assigned to an
// annotation's thread.
func (s *Store) SetCommentSession(id, chatSessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		s.annotations[idx].CommentSessionID = chatSessionID
	}
}

// Get returns a copy of one annotation.
func (s *Store) Get(id string) (models.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.annotations[idx], true
	}
	return models.Annotation{}, false
}

// Annotations returns a copy of the canonical list.
func (s *Store) Annotations() []models.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// ByPage returns the annotations on one page.
func (s *Store) ByPage(page int) []models.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Annotation
	for _, a := range s.annotations {
		if a.Page == page {
			out = append(out, a)
		}
	}
	return out
}

// Metrics returns a snapshot of the session metrics.
func (s *Store) Metrics() models.SessionMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// LastError returns the store-level error state, if any.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Transient UI state

// OpenCreationMenu opens the creation-choice popover for one annotation.
func (s *Store) OpenCreationMenu(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.creationMenuFor = id
}

// OpenCommentPanel opens the comment thread panel for one annotation.
func (s *Store) OpenCommentPanel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.commentPanelFor = id
}

// OpenBookmarkPopover opens the bookmark editor for one annotation.
func (s *Store) OpenBookmarkPopover(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.bookmarkPopoverFor = id
}

// ExpandChip expands the action chip for one annotation.
func (s *Store) ExpandChip(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.expandedChipFor = id
}

// CloseTransient closes every open popover, panel and expanded chip.
func (s *Store) CloseTransient() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.creationMenuFor = ""
	s.ui.commentPanelFor = ""
	s.ui.bookmarkPopoverFor = ""
	s.ui.expandedChipFor = ""
}

// HasOpenSurface reports whether any transient surface is open. A new drag
// gesture must not start while one is.
func (s *Store) HasOpenSurface() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.creationMenuFor != "" ||
		s.ui.commentPanelFor != "" ||
		s.ui.bookmarkPopoverFor != "" ||
		s.ui.expandedChipFor != ""
}

// CreationMenuFor returns the annotation id the creation menu is open for.
func (s *Store) CreationMenuFor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.creationMenuFor
}

// CommentPanelFor returns the annotation id the comment panel is open for.
func (s *Store) CommentPanelFor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.commentPanelFor
}

// BookmarkPopoverFor returns the annotation id the bookmark editor is open for.
func (s *Store) BookmarkPopoverFor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.bookmarkPopoverFor
}

// ExpandedChipFor returns the annotation id whose chip is expanded.
func (s *Store) ExpandedChipFor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.expandedChipFor
}

// SetPage sets the currently visible page.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page >= 1 {
		s.ui.currentPage = page
	}
}

// CurrentPage returns the currently visible page.
func (s *Store) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.currentPage
}

// SetScale sets the current zoom scale. Stored geometry is untouched.
func (s *Store) SetScale(scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scale > 0 {
		s.ui.scale = scale
	}
}

// Scale returns the current zoom scale.
func (s *Store) Scale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.scale
}

// SetHighlightStyle selects the highlight visual treatment.
func (s *Store) SetHighlightStyle(style models.HighlightStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.highlightStyle = style
}

// HighlightStyle returns the selected highlight visual treatment.
func (s *Store) HighlightStyle() models.HighlightStyle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ui.highlightStyle
}

// internal helpers; callers hold the lock where noted

func (s *Store) indexOf(id string) int {
	for i := range s.annotations {
		if s.annotations[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) recomputeMaxPageLocked() {
	maxPage := 0
	for i := range s.annotations {
		if s.annotations[i].Page > maxPage {
			maxPage = s.annotations[i].Page
		}
	}
	s.metrics.MaxPageCovered = maxPage
	s.metrics.Progress = s.metrics.ComputeProgress()
}

func (s *Store) clearTransientForLocked(id string) {
	if s.ui.creationMenuFor == id {
		s.ui.creationMenuFor = ""
	}
	if s.ui.commentPanelFor == id {
		s.ui.commentPanelFor = ""
	}
	if s.ui.bookmarkPopoverFor == id {
		s.ui.bookmarkPopoverFor = ""
	}
	if s.ui.expandedChipFor == id {
		s.ui.expandedChipFor = ""
	}
}

func (s *Store) markDirty(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		s.annotations[idx].Dirty = true
	}
	s.lastErr = err
}

func (s *Store) setLastErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}
