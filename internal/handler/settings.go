package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NabirasulA/Galaxy/internal/service"
)

type SettingsHandler struct {
	Settings *service.SystemSettingsService
}

func (h *SettingsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/settings")
	g.GET("/switches", h.listSwitches)
	g.GET("/switches/:name", h.getSwitch)
	g.PUT("/switches/:name", h.putSwitch)
}

// switchKey accepts both "ai_chat" and "feature.ai_chat".
func switchKey(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if !strings.HasPrefix(name, "feature.") {
		name = "feature." + name
	}
	return name
}

// @Summary List feature switches
// @Tags settings
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/settings/switches [get]
func (h *SettingsHandler) listSwitches(c *gin.Context) {
	items, err := h.Settings.Switches(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary Get a feature switch
// @Tags settings
// @Produce json
// @Param name path string true "switch name, e.g. ai_chat"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/settings/switches/{name} [get]
func (h *SettingsHandler) getSwitch(c *gin.Context) {
	key := switchKey(c.Param("name"))
	if !service.IsKnownSwitch(key) {
		Error(c, http.StatusNotFound, "unknown switch", nil)
		return
	}
	sw, err := h.Settings.Switch(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}
	Ok(c, sw, nil)
}

type putSwitchRequest struct {
	Enabled *bool `json:"enabled"`
}

// @Summary Turn a feature switch on or off
// @Tags settings
// @Accept json
// @Produce json
// @Param name path string true "switch name"
// @Param body body putSwitchRequest true "state"
// @Success 200 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/settings/switches/{name} [put]
func (h *SettingsHandler) putSwitch(c *gin.Context) {
	key := switchKey(c.Param("name"))
	if !service.IsKnownSwitch(key) {
		Error(c, http.StatusNotFound, "unknown switch", nil)
		return
	}
	var req putSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Settings.SetEnabled(c.Request.Context(), key, *req.Enabled); err != nil {
		writeError(c, err)
		return
	}
	sw, err := h.Settings.Switch(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}
	Ok(c, sw, nil)
}
