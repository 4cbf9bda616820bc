package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eld_tracker/internal/hos"
	"eld_tracker/internal/service"
)

// statusForError maps service-layer errors onto HTTP status codes. Rule
// violations never surface here: a transition that breaches a rule still
// succeeds and carries its violations in the response body.
func statusForError(err error) int {
	switch {
	case errors.Is(err, hos.ErrOutOfOrderEvent):
		return http.StatusConflict
	case errors.Is(err, hos.ErrInvalidLocation),
		errors.Is(err, hos.ErrInvalidStatus),
		errors.Is(err, service.ErrDriverNameRequired),
		errors.Is(err, service.ErrBadTimezone),
		errors.Is(err, service.ErrBadRuleVariant):
		return http.StatusBadRequest
	case errors.Is(err, hos.ErrUnknownDriver),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrViolationNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs server-side failures and writes the mapped JSON error.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusForError(err)
	if h.log != nil && code >= http.StatusInternalServerError {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
