package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eld_tracker/internal/service"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List violations
// @Description  A driver's recorded violations by occurrence time, oldest first. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         violations
// @Produce      json
// @Param        id    path   string  true   "Driver ID"
// @Param        from  query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-03-01)
// @Param        to    query  string  false  "End of range. Date-only treated as end of day."  example(2025-03-10)
// @Success      200   {object}  map[string]interface{}  "count, violations"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/drivers/{id}/violations [get]
// @Security     BearerAuth
func (h *Handler) listViolations(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		// If the user didn't include a time component, treat "to" as the end of that day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	violations, err := h.services.Violations.List(c.Request.Context(), service.ViolationFilter{
		DriverID: c.Param("id"),
		From:     from,
		To:       to,
	})
	if err != nil {
		h.respondError(c, "violations_list_failed", err, "driver_id", c.Param("id"), "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":      len(violations),
		"violations": violations,
	})
}

// @Summary      Resolve a violation
// @Description  Marks a violation reviewed. The record itself is never deleted.
// @Tags         violations
// @Produce      json
// @Param        id  path  string  true  "Violation ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/violations/{id}/resolve [post]
// @Security     BearerAuth
func (h *Handler) resolveViolation(c *gin.Context) {
	if err := h.services.Violations.Resolve(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "violation_resolve_failed", err, "violation_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
