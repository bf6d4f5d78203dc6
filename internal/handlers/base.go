package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"citylink/internal/services"
	"citylink/internal/store"
)

// writeError 把业务错误映射成 HTTP 状态码
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrOptionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidVariant),
		errors.Is(err, services.ErrMultipleAnswersNotAllowed),
		errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrExpired):
		status = http.StatusGone
	case errors.Is(err, services.ErrTooManyConflicts),
		errors.Is(err, store.ErrExists):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
