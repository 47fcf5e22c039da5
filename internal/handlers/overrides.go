package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdjustRequest is the payload of POST /api/v1/overrides/adjust.
type AdjustRequest struct {
	// Zone ID
	Zone int `json:"zone" binding:"required" example:"1"`
	// Degrees to add to the current target, may be negative
	Delta *float64 `json:"delta" binding:"required" example:"0.5"`
}

// AdjustResponse reports the target now in effect.
type AdjustResponse struct {
	Success   bool    `json:"success" example:"true"`
	NewTarget float64 `json:"new_target" example:"21.5"`
	Zone      int     `json:"zone" example:"1"`
	Clamped   bool    `json:"clamped" example:"false"`
}

// @Summary      Adjust target
// @Description  Moves the zone's target by delta through a manual override. The active override is
// @Description  updated, otherwise a new indefinite one is created. Targets are clamped to the
// @Description  configured range.
// @Tags         overrides
// @Accept       json
// @Produce      json
// @Param        body  body      AdjustRequest  true  "Adjustment"
// @Success      200   {object}  AdjustResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]interface{}
// @Router       /api/v1/overrides/adjust [post]
// @Security     BearerAuth
func (h *Handler) adjustOverride(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errInvalidBodyPref + err.Error()})
		return
	}

	res, err := h.services.AdjustOverride(c.Request.Context(), req.Zone, *req.Delta)
	if err != nil {
		h.respondServiceError(c, "override_adjust_failed", err, "zone_id", req.Zone, "delta", *req.Delta)
		return
	}
	c.JSON(http.StatusOK, AdjustResponse{
		Success:   true,
		NewTarget: res.NewTargetC,
		Zone:      res.ZoneID,
		Clamped:   res.Clamped,
	})
}
