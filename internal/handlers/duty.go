package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eld_tracker/internal/models"
	"eld_tracker/internal/service"
)

// Request DTO for logging a duty status change.
type dutyStatusRequest struct {
	Status    string    `json:"status" binding:"required"` // off_duty | sleeper_berth | driving | on_duty_not_driving
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Location  string    `json:"location,omitempty"` // required for driving / on_duty_not_driving
	Remarks   string    `json:"remarks,omitempty"`
}

// DutyStatusRequest is the exported model for Swagger docs of the transition payload.
type DutyStatusRequest struct {
	// Target duty status. Allowed: off_duty, sleeper_berth, driving, on_duty_not_driving
	Status string `json:"status" example:"driving"`
	// Event timestamp; must be strictly after the driver's last event
	Timestamp time.Time `json:"timestamp" example:"2025-03-10T14:00:00Z"`
	// Free-form location (required when status is driving or on_duty_not_driving)
	Location string `json:"location,omitempty" example:"Tulsa, OK"`
	Remarks  string `json:"remarks,omitempty" example:"fuel stop"`
}

// Request DTO for amending a recorded event. The timestamp is immutable.
type amendEventRequest struct {
	Status   string  `json:"status,omitempty"`
	Location *string `json:"location,omitempty"`
	Remarks  *string `json:"remarks,omitempty"`
}

// @Summary      Log a duty status change
// @Description  Validates, evaluates HOS rules and appends the event. A rule breach does not reject the event; detected violations are returned alongside it.
// @Tags         duty
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Driver ID"
// @Param        body  body  DutyStatusRequest  true  "Transition payload"
// @Success      201   {object}  map[string]interface{}  "event, snapshot, violations"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "timestamp not after last event"
// @Router       /api/v1/drivers/{id}/duty-status [post]
// @Security     BearerAuth
func (h *Handler) postDutyStatus(c *gin.Context) {
	var req dutyStatusRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	res, err := h.services.Duty.RequestTransition(c.Request.Context(), service.TransitionParams{
		DriverID:  c.Param("id"),
		Status:    models.DutyStatus(req.Status),
		Timestamp: req.Timestamp,
		Location:  req.Location,
		Remarks:   req.Remarks,
	})
	if err != nil {
		h.respondError(c, "duty_transition_failed", err, "driver_id", c.Param("id"), "status", req.Status)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Amend a recorded event
// @Description  Corrects status, location or remarks. The timestamp cannot change; affected daily logs are invalidated.
// @Tags         duty
// @Accept       json
// @Produce      json
// @Param        id        path  string  true  "Driver ID"
// @Param        event_id  path  string  true  "Event ID"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/drivers/{id}/duty-status/{event_id} [patch]
// @Security     BearerAuth
func (h *Handler) amendDutyStatus(c *gin.Context) {
	var req amendEventRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	event, err := h.services.Logbook.AmendEvent(c.Request.Context(), service.AmendParams{
		DriverID: c.Param("id"),
		EventID:  c.Param("event_id"),
		Status:   models.DutyStatus(req.Status),
		Location: req.Location,
		Remarks:  req.Remarks,
	})
	if err != nil {
		h.respondError(c, "duty_amend_failed", err, "driver_id", c.Param("id"), "event_id", c.Param("event_id"))
		return
	}
	c.JSON(http.StatusOK, event)
}

// @Summary      Rolling HOS status
// @Description  Current rolling-window totals and remaining budgets for a driver. Pass as_of (RFC3339) to evaluate at a past instant.
// @Tags         duty
// @Produce      json
// @Param        id     path   string  true   "Driver ID"
// @Param        as_of  query  string  false  "Reference instant (RFC3339); defaults to now"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/drivers/{id}/hos-status [get]
// @Security     BearerAuth
func (h *Handler) getHOSStatus(c *gin.Context) {
	var asOf time.Time
	if qs := c.Query("as_of"); qs != "" {
		t, err := time.Parse(time.RFC3339, qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'as_of'; use RFC3339"})
			return
		}
		asOf = t
	}

	snap, err := h.services.Status.GetRollingStatus(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		h.respondError(c, "hos_status_failed", err, "driver_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, snap)
}
