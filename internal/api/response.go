package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/validation"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// abortWithError writes err as an errorResponse and aborts the chain. Only
// the code's public message reaches the caller unless the code exposes its
// own message; the full chain is logged for 5xx responses.
func abortWithError(c *gin.Context, logg *logger.Logger, err error) {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Internal(err)
	}
	meta := apperr.MetadataFor(typed.Code())

	body := errorResponse{Error: meta.PublicMessage, Code: string(typed.Code())}
	if meta.ExposeMessage && typed.Message() != "" {
		body.Error = typed.Message()
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if logg != nil && meta.HTTPStatus >= http.StatusInternalServerError {
		ctx := logg.WithField(c.Request.Context(), "error_code", string(typed.Code()))
		logg.Error(ctx, "request.failed", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(meta.HTTPStatus, body)
}

// bindJSON decodes and validates the body into obj, writing a validation
// error when it fails.
func bindJSON(c *gin.Context, logg *logger.Logger, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithError(c, logg, validation.FromError(err))
		return false
	}
	return true
}
