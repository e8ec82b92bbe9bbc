package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ebios-rm/internal/analysis"
	"ebios-rm/internal/heatmap"
	"ebios-rm/internal/scoring"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusOf сопоставляет ошибку домена с HTTP-кодом.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, scoring.ErrDanglingReference):
		return http.StatusConflict, "dangling_reference"
	case errors.Is(err, analysis.ErrDerivedMismatch):
		return http.StatusUnprocessableEntity, "derived_mismatch"
	case errors.Is(err, heatmap.ErrEmpty):
		return http.StatusNotFound, "empty"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		zap.L().Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: err.Error()})
}

// bindJSON разбирает тело запроса; ошибки валидации возвращаются по полям.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Fields: fields})
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
	return false
}
