package overlay

import (
	"context"

	"github.com/sedhha/policy-mate-sub000/internal/models"
	"github.com/sedhha/policy-mate-sub000/internal/services/annotations"
	"github.com/sedhha/policy-mate-sub000/pkg/geometry"
)

// AnnotationStore is the slice of the annotation store the overlay drives.
type AnnotationStore interface {
	Create(ctx context.Context, in annotations.CreateInput) (string, error)
	Delete(ctx context.Context, id string) error
	ByPage(page int) []models.Annotation
	OpenCreationMenu(id string)
	CloseTransient()
	HasOpenSurface() bool
	CurrentPage() int
	Scale() float64
	HighlightStyle() models.HighlightStyle
}

// TextExtractor pulls the text under a scaled region of a page.
type TextExtractor interface {
	TextUnderRegion(pageID int, region geometry.Rect) string
}

// Alerter surfaces a blocking alert to the user. Creation failures go
// through here; everything else is logged.
type Alerter interface {
	Alert(message string)
}
