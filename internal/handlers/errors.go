package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, draw.ErrAwardNotFound):
		return http.StatusNotFound
	case errors.Is(err, draw.ErrInvalidPool),
		errors.Is(err, draw.ErrInvalidAwardConfig),
		errors.Is(err, utils.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, draw.ErrAwardCompleted),
		errors.Is(err, draw.ErrInsufficientPool),
		errors.Is(err, draw.ErrAwardExists),
		errors.Is(err, draw.ErrRoundInProgress),
		errors.Is(err, draw.ErrNoRoundInProgress),
		errors.Is(err, draw.ErrPoolInUse),
		errors.Is(err, draw.ErrNothingToExport):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
