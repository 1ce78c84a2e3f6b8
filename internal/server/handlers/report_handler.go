package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportService is the reporting use-case consumed by the HTTP layer.
type ReportService interface {
	WeeklyDigest(ctx context.Context, now time.Time) (string, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
}

// ReportHandler serves digest and export endpoints.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger, now: time.Now}
}

// Digest returns the purchase digest of the last seven days.
func (h *ReportHandler) Digest(c *gin.Context) {
	digest, err := h.svc.WeeklyDigest(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, "failed to build digest", err)
		return
	}
	c.String(http.StatusOK, digest)
}

// Export streams the ledger as an xlsx workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportWorkbook(c.Request.Context(), &buf); err != nil {
		respondError(c, h.logger, "failed to export ledger", err)
		return
	}

	filename := fmt.Sprintf("purchases-%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
