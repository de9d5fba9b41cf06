package respond

import (
	"github.com/gin-gonic/gin"

	"bizplan-backend/internal/shared/telemetry"
)

// Error codes returned in the error envelope.
const (
	CodeValidation       = "validation_error"
	CodeNoContent        = "no_content"
	CodeNotFound         = "not_found"
	CodeUnsupportedMedia = "unsupported_media_type"
	CodeAnalysisFailed   = "analysis_failed"
	CodeInternal         = "internal_error"
	CodeRateLimited      = "rate_limited"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if analysisID := c.GetString("analysisId"); analysisID != "" {
		fields["analysis_id"] = analysisID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
