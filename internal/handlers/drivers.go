package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eld_tracker/internal/service"
)

// Request DTO for onboarding a driver.
type createDriverRequest struct {
	Name                string `json:"name" binding:"required"`
	LicenseNumber       string `json:"license_number,omitempty"`
	LicenseState        string `json:"license_state,omitempty"`
	CarrierName         string `json:"carrier_name,omitempty"`
	HomeTerminalAddress string `json:"home_terminal_address,omitempty"`
	Timezone            string `json:"timezone,omitempty"`      // IANA name, defaults to UTC
	HOSRule             string `json:"hos_rule_type,omitempty"` // 70_8 (default) | 60_7
}

// CreateDriverRequest is the exported model for Swagger docs of the onboarding payload.
type CreateDriverRequest struct {
	Name string `json:"name" example:"Jordan Ellis"`
	// IANA timezone of the driver's home terminal
	Timezone string `json:"timezone,omitempty" example:"America/Chicago"`
	// HOS rule variant. Allowed: 70_8, 60_7
	HOSRule string `json:"hos_rule_type,omitempty" example:"70_8"`
}

// @Summary      Onboard a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        body  body  CreateDriverRequest  true  "Driver profile"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/drivers [post]
// @Security     BearerAuth
func (h *Handler) createDriver(c *gin.Context) {
	var req createDriverRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	driver, err := h.services.Drivers.Create(c.Request.Context(), service.CreateDriverParams{
		Name:                req.Name,
		LicenseNumber:       req.LicenseNumber,
		LicenseState:        req.LicenseState,
		CarrierName:         req.CarrierName,
		HomeTerminalAddress: req.HomeTerminalAddress,
		Timezone:            req.Timezone,
		HOSRule:             req.HOSRule,
	})
	if err != nil {
		h.respondError(c, "driver_create_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, driver)
}

// @Summary      Get a driver
// @Tags         drivers
// @Produce      json
// @Param        id  path  string  true  "Driver ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/drivers/{id} [get]
// @Security     BearerAuth
func (h *Handler) getDriver(c *gin.Context) {
	driver, err := h.services.Drivers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "driver_get_failed", err, "driver_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, driver)
}
