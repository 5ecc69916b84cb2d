package stubapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// metricsPatchRequest carries session-level aggregate deltas.
type metricsPatchRequest struct {
	TotalFindingsDelta    int     `json:"total_findings_delta"`
	ResolvedFindingsDelta int     `json:"resolved_findings_delta"`
	Progress              float64 `json:"progress"`
}

// UpdateSessionMetrics applies deltas to the session's aggregate counters
// and overwrites the reported progress. The row is created on first touch.
func UpdateSessionMetrics(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")

		var req metricsPatchRequest
		if !BindJSONOrError(c, &req) {
			return
		}

		ctx := c.Request.Context()
		record := SessionMetricsRecord{SessionID: sessionID}
		err := deps.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&record).Error
		if err != nil {
			SendInternalError(c, "Failed to initialize session metrics")
			return
		}

		if err := deps.DB.WithContext(ctx).First(&record, "session_id = ?", sessionID).Error; err != nil {
			SendInternalError(c, "Failed to load session metrics")
			return
		}

		record.TotalFindings += req.TotalFindingsDelta
		record.ResolvedFindings += req.ResolvedFindingsDelta
		if record.TotalFindings < 0 {
			record.TotalFindings = 0
		}
		if record.ResolvedFindings < 0 {
			record.ResolvedFindings = 0
		}
		record.Progress = req.Progress

		if err := deps.DB.WithContext(ctx).Save(&record).Error; err != nil {
			SendInternalError(c, "Failed to update session metrics")
			return
		}

		SendOK(c)
	}
}

// GetDocument serves the session's PDF blob. The stub keeps a tiny valid
// one-page PDF in memory so clients can exercise the download path.
func GetDocument(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")
		if sessionID == "" {
			SendBadRequest(c, "session id is required")
			return
		}

		c.Header("Content-Disposition", `inline; filename="document.pdf"`)
		c.Data(http.StatusOK, "application/pdf", stubDocument)
	}
}

// stubDocument is a minimal single-page PDF.
var stubDocument = []byte("%PDF-1.4\n" +
	"1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
	"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj\n" +
	"trailer<</Root 1 0 R>>\n" +
	"%%EOF\n")
