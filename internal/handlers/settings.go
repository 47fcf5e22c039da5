package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SettingsRequest updates the system settings.
type SettingsRequest struct {
	// Fallback target in Celsius, 5..20
	EcoTempC *float64 `json:"eco_temp_c" binding:"required" example:"17"`
}

// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Settings
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	st, err := h.services.GetSettings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "settings_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      SettingsRequest  true  "Settings"
// @Success      200   {object}  models.Settings
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/settings [put]
// @Security     BearerAuth
func (h *Handler) updateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	st, err := h.services.UpdateEcoTemp(c.Request.Context(), *req.EcoTempC)
	if err != nil {
		h.respondServiceError(c, "settings_update_failed", err, "eco_temp_c", *req.EcoTempC)
		return
	}
	h.log.Infow("settings_updated", "eco_temp_c", st.EcoTempC)
	c.JSON(http.StatusOK, st)
}
