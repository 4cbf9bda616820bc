package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

var logDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// @Summary      Daily log
// @Description  24-hour duty grid, per-status totals, remaining budgets and that day's violations. The day runs midnight to midnight in the driver's timezone. Served from cache; regenerated when events changed since the last build.
// @Tags         logs
// @Produce      json
// @Param        id    path  string  true  "Driver ID"
// @Param        date  path  string  true  "Calendar date (YYYY-MM-DD)"  example(2025-03-10)
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/drivers/{id}/daily-logs/{date} [get]
// @Security     BearerAuth
func (h *Handler) getDailyLog(c *gin.Context) {
	date := c.Param("date")
	if !logDatePattern.MatchString(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date; use YYYY-MM-DD"})
		return
	}

	summary, err := h.services.Logbook.GetDailyLog(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		h.respondError(c, "daily_log_failed", err, "driver_id", c.Param("id"), "date", date)
		return
	}
	c.JSON(http.StatusOK, summary)
}
