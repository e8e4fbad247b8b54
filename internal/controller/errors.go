package controller

import (
	"errors"
	"net/http"

	"github.com/MartellOnell/testwork/internal/dto"
	"github.com/MartellOnell/testwork/internal/service"
	"github.com/gin-gonic/gin"
)

// WriteError maps the service error taxonomy to status codes. Anything
// outside the taxonomy is a server error; the descriptive message then goes
// into Details instead of leaking as the top-level message.
func WriteError(ctx *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallbackMessage, Details: []string{err.Error()}})
	}
}
