package http

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/claimguard/claimguard/internal/models"
	"github.com/claimguard/claimguard/internal/normalizer"
	"github.com/claimguard/claimguard/internal/repository"
	"github.com/claimguard/claimguard/internal/review"
	"github.com/claimguard/claimguard/internal/service"
)

// AnalysisRunner runs the adjudication pipeline for an uploaded document.
type AnalysisRunner interface {
	AnalyzeDocument(ctx context.Context, documentPath string) (*models.ClaimResult, error)
	Session() *review.Session
}

// HistoryProvider serves the persisted claim history.
type HistoryProvider interface {
	Recent(limit int) ([]*models.ClaimRecord, error)
	Get(id int64) (*models.ClaimRecord, error)
	Healthy() bool
}

// ReportExporter renders a normalized result as a report file.
type ReportExporter interface {
	Export(result *models.ClaimResult) (string, error)
}

// Handlers contains all HTTP request handlers.
type Handlers struct {
	analysis   AnalysisRunner
	history    HistoryProvider
	exporter   ReportExporter
	normalizer *normalizer.ResultNormalizer
	uploadDir  string
	logger     *zap.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(
	analysis AnalysisRunner,
	history HistoryProvider,
	exporter ReportExporter,
	resultNormalizer *normalizer.ResultNormalizer,
	uploadDir string,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		analysis:   analysis,
		history:    history,
		exporter:   exporter,
		normalizer: resultNormalizer,
		uploadDir:  uploadDir,
		logger:     logger,
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	dbStatus := "up"
	status := "healthy"
	code := http.StatusOK
	if !h.history.Healthy() {
		dbStatus = "down"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, Response{
		Success: code == http.StatusOK,
		Data: HealthResponse{
			Status:    status,
			Database:  dbStatus,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// AnalyzeClaim handles POST /api/analyze. It accepts a multipart "document"
// upload, runs the pipeline and returns the normalized result.
func (h *Handlers) AnalyzeClaim(c *gin.Context) {
	file, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "missing document upload",
		})
		return
	}

	savedPath := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, savedPath); err != nil {
		h.logger.Error("Failed to save uploaded document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to store uploaded document",
		})
		return
	}

	result, err := h.analysis.AnalyzeDocument(c.Request.Context(), savedPath)
	if err != nil {
		h.logger.Error("Analysis failed",
			zap.String("document", file.Filename),
			zap.Error(err))

		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrAnalysisInProgress):
			status = http.StatusConflict
		case errors.Is(err, normalizer.ErrMalformedPayload):
			status = http.StatusBadGateway
		}
		c.JSON(status, Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ListClaims handles GET /api/claims.
func (h *Handlers) ListClaims(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	claims, err := h.history.Recent(limit)
	if err != nil {
		h.logger.Error("Failed to list claims", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve claims",
		})
		return
	}

	if claims == nil {
		claims = []*models.ClaimRecord{}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// GetClaim handles GET /api/claims/:id.
func (h *Handlers) GetClaim(c *gin.Context) {
	record, ok := h.claimByID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: record})
}

// GenerateReport handles POST /api/claims/:id/report. The stored raw payload
// is re-normalized and rendered as an Excel workbook.
func (h *Handlers) GenerateReport(c *gin.Context) {
	record, ok := h.claimByID(c)
	if !ok {
		return
	}

	result, err := h.normalizer.Normalize([]byte(record.FullData))
	if err != nil {
		h.logger.Error("Stored payload failed normalization",
			zap.Int64("id", record.ID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "stored claim data is malformed",
		})
		return
	}

	path, err := h.exporter.Export(result)
	if err != nil {
		h.logger.Error("Report export failed",
			zap.String("claim_id", result.ClaimID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "report generation failed",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"report_path": path},
	})
}

// SessionState handles GET /api/session.
func (h *Handlers) SessionState(c *gin.Context) {
	session := h.analysis.Session()
	data := gin.H{"state": session.State().String()}
	if err := session.Err(); err != nil {
		data["error"] = err.Error()
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func (h *Handlers) claimByID(c *gin.Context) (*models.ClaimRecord, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid claim ID",
		})
		return nil, false
	}

	record, err := h.history.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			c.JSON(http.StatusNotFound, Response{
				Success: false,
				Error:   "claim not found",
			})
			return nil, false
		}
		h.logger.Error("Failed to get claim", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve claim",
		})
		return nil, false
	}
	return record, true
}
