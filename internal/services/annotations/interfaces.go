package annotations

import (
	"context"

	"github.com/sedhha/policy-mate-sub000/internal/services/reviewapi"
)

// Backend is the slice of the review backend API the store depends on.
type Backend interface {
	CreateAnnotation(ctx context.Context, req reviewapi.CreateAnnotationRequest) (reviewapi.AnnotationWire, error)
	ListAnnotations(ctx context.Context, sessionID string) ([]reviewapi.AnnotationWire, error)
	PatchAnnotation(ctx context.Context, id string, patch reviewapi.AnnotationPatch) error
	DeleteAnnotation(ctx context.Context, id string) error
	UpdateSessionMetrics(ctx context.Context, sessionID string, patch reviewapi.MetricsPatch) error
}

// TokenProvider reports the current bearer token; empty means signed out.
type TokenProvider func() string
