package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"cardocs/internal/models"
	"cardocs/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettingsHandler reads and updates the caller's notification preferences
type SettingsHandler struct {
	settings *services.SettingsService
	logger   *zap.Logger
}

func NewSettingsHandler(settings *services.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

// Get returns the caller's settings, creating the default row on first read
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")

	setting, err := h.settings.Resolve(userID)
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// Update applies the explicitly provided fields to the caller's settings.
// Omitted fields stay untouched; quiet hours with empty bounds clear the
// window.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.UpdateReminderSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()), err)
		return
	}

	setting, err := h.settings.Update(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSetting) {
			handleError(c, h.logger, http.StatusBadRequest, err.Error(), err)
			return
		}
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to update settings", err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
