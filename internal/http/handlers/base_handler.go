// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roam/internal/ai"
	"roam/internal/modules/plan"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, plan.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrCredentialsMissing):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, plan.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, plan.ErrGenerationFailed):
		writeError(c, http.StatusBadGateway, plan.ErrGenerationFailed.Error())
	case errors.Is(err, plan.ErrStoreUnavailable):
		writeError(c, http.StatusServiceUnavailable, plan.ErrStoreUnavailable.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
