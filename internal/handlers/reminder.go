package handlers

import (
	"errors"
	"net/http"
	"time"

	"cardocs/internal/models"
	"cardocs/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderHandler exposes the engine's thin HTTP boundary: the manual
// trigger, the pending-reminder listing and the mark-sent correction.
type ReminderHandler struct {
	db     *gorm.DB
	engine *services.ExpiryEngine
	logger *zap.Logger
}

func NewReminderHandler(db *gorm.DB, engine *services.ExpiryEngine, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{db: db, engine: engine, logger: logger}
}

// RunCheck triggers a full expiry pass, equivalent to a scheduled run.
// Overlap with the cron worker is safe.
func (h *ReminderHandler) RunCheck(c *gin.Context) {
	summary, err := h.engine.RunExpiryCheck(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Expiry check aborted", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListPending returns the caller's unsent reminders, earliest due date first
func (h *ReminderHandler) ListPending(c *gin.Context) {
	userID := c.GetString("user_id")

	var reminders []models.Reminder
	if err := h.db.
		Where("user_id = ? AND sent = ?", userID, false).
		Order("due_date asc").
		Find(&reminders).Error; err != nil {
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to fetch pending reminders", err)
		return
	}

	if reminders == nil {
		reminders = []models.Reminder{}
	}
	c.JSON(http.StatusOK, reminders)
}

// MarkSent marks one of the caller's reminders as sent, for example after a
// document was renewed early. Reminders belonging to other users are
// reported as not found rather than forbidden.
func (h *ReminderHandler) MarkSent(c *gin.Context) {
	userID := c.GetString("user_id")
	reminderID := c.Param("id")

	var reminder models.Reminder
	if err := h.db.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, h.logger, http.StatusNotFound, "Reminder not found", services.ErrReminderNotFound)
			return
		}
		handleError(c, h.logger, http.StatusInternalServerError, "Failed to load reminder", err)
		return
	}

	// sent only ever moves from false to true, so re-marking is a no-op
	if !reminder.Sent {
		now := time.Now()
		reminder.Sent = true
		reminder.SentAt = &now
		if err := h.db.Save(&reminder).Error; err != nil {
			handleError(c, h.logger, http.StatusInternalServerError, "Failed to mark reminder as sent", err)
			return
		}
	}

	c.JSON(http.StatusOK, reminder)
}
