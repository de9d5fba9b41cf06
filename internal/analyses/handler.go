package analyses

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/extract"
	"bizplan-backend/internal/report"
	"bizplan-backend/internal/shared/server/middleware"
	"bizplan-backend/internal/shared/server/respond"
	"bizplan-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses/text", h.analyzeText)
	rg.POST("/analyses/pdf", h.analyzeUpload)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.PATCH("/analyses/:id/review", h.reviewAnalysis)
	rg.GET("/analyses/:id/export", h.exportAnalysis)
}

type textRequest struct {
	Text   string `json:"text"`
	Enrich *bool  `json:"enrich"`
}

type reviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// analysisResponse is the envelope returned for a single analysis.
type analysisResponse struct {
	Success       bool                      `json:"success"`
	ID            string                    `json:"id"`
	Filename      string                    `json:"filename"`
	Analysis      assessment.AnalysisResult `json:"analysis"`
	Metadata      Metadata                  `json:"metadata"`
	ExtractedText string                    `json:"extractedText"`
	ReviewStatus  string                    `json:"reviewStatus"`
	ReviewNotes   string                    `json:"reviewNotes"`
}

func newAnalysisResponse(a Analysis) analysisResponse {
	return analysisResponse{
		Success:       true,
		ID:            a.ID,
		Filename:      a.Filename,
		Analysis:      a.Result,
		Metadata:      a.Metadata,
		ExtractedText: util.Truncate(a.ExtractedText, ExtractedTextPreview),
		ReviewStatus:  a.ReviewStatus,
		ReviewNotes:   a.ReviewNotes,
	}
}

func (h *Handler) analyzeText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	enrich := true
	if req.Enrich != nil {
		enrich = *req.Enrich
	}

	analysis, err := h.Svc.AnalyzeText(h.requestContext(c), req.Text, enrich)
	if err != nil {
		h.writeAnalyzeError(c, err)
		return
	}
	h.markCompleted(c, analysis)
	respond.JSON(c, http.StatusCreated, newAnalysisResponse(analysis))
}

func (h *Handler) analyzeUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", []map[string]string{
			{"field": "file", "issue": "required"},
		})
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "file too large", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}

	enrich := true
	if raw := strings.TrimSpace(c.PostForm("enrich")); raw != "" {
		parsed, perr := strconv.ParseBool(raw)
		if perr != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "enrich must be a boolean", []map[string]string{
				{"field": "enrich", "issue": "invalid"},
			})
			return
		}
		enrich = parsed
	}

	analysis, err := h.Svc.AnalyzeUpload(h.requestContext(c), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, enrich)
	if err != nil {
		h.writeAnalyzeError(c, err)
		return
	}
	h.markCompleted(c, analysis)
	respond.JSON(c, http.StatusCreated, newAnalysisResponse(analysis))
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		h.writeLookupError(c, err, "failed to fetch analysis")
		return
	}
	respond.OK(c, newAnalysisResponse(analysis))
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	analyses, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list analyses", nil)
		return
	}

	items := make([]Summary, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, a.Summary())
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) reviewAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	analysis, err := h.Svc.Review(h.requestContext(c), analysisID, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, ErrInvalidReviewStatus) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "status must be one of pending, reviewed, approved, needs_improvement", []map[string]string{
				{"field": "status", "issue": "invalid"},
			})
			return
		}
		h.writeLookupError(c, err, "failed to update review")
		return
	}
	c.Set("statusTransition", "review->"+analysis.ReviewStatus)
	respond.OK(c, newAnalysisResponse(analysis))
}

func (h *Handler) exportAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	format := c.DefaultQuery("format", string(report.FormatMarkdown))
	export, err := h.Svc.Export(c.Request.Context(), analysisID, format)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrUnknownFormat):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "format must be one of md, html, xlsx, pdf", nil)
		case errors.Is(err, report.ErrPDFUnavailable):
			respond.Error(c, http.StatusNotImplemented, respond.CodeInternal, "pdf export is not available on this server", nil)
		default:
			h.writeLookupError(c, err, "failed to export analysis")
		}
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Body)
}

func (h *Handler) requestContext(c *gin.Context) context.Context {
	return WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}

func (h *Handler) markCompleted(c *gin.Context, a Analysis) {
	c.Set("analysisId", a.ID)
	c.Set("enhanced", a.Metadata.Enhanced)
	c.Set("statusTransition", "processing->completed")
}

func (h *Handler) writeAnalyzeError(c *gin.Context, err error) {
	var failure *assessment.AnalysisFailure
	switch {
	case errors.Is(err, ErrEmptyText):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "text is required", []map[string]string{
			{"field": "text", "issue": "required"},
		})
	case errors.Is(err, assessment.ErrNoContent):
		respond.Error(c, http.StatusBadRequest, respond.CodeNoContent, "No text could be extracted", nil)
	case errors.Is(err, ErrFileTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "file too large", nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, respond.CodeUnsupportedMedia, "only PDF, DOCX and XLSX files are supported", nil)
	case errors.As(err, &failure):
		respond.Error(c, http.StatusInternalServerError, respond.CodeAnalysisFailed, "analysis failed", gin.H{"stage": failure.Stage})
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to analyze document", nil)
	}
}

func (h *Handler) writeLookupError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "analysis not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, message, nil)
}
