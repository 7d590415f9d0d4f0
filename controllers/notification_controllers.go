package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB       *gorm.DB
	Notifier services.Notifier
}

func NewNotificationController(db *gorm.DB, notifier services.Notifier) *NotificationController {
	return &NotificationController{DB: db, Notifier: notifier}
}

// Resend queues the same mail again for the reservation of a recorded outcome.
func (nc *NotificationController) Resend(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var notif models.Notification
	if err := nc.DB.WithContext(c.Request.Context()).First(&notif, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if !notif.Action.Valid() {
		respondServiceError(c, fmt.Errorf("resend notification %d: %w %q", notif.ID, services.ErrUnknownAction, notif.Action))
		return
	}

	if err := nc.Notifier.Notify(c.Request.Context(), notif.ReservationID, notif.Action); err != nil {
		utils.ErrorLogger.Printf("Failed to requeue notification %d: %v", notif.ID, err)
		utils.RespondError(c, http.StatusServiceUnavailable, err)
		return
	}

	utils.InfoLogger.Printf("Notification %d requeued for reservation %d", notif.ID, notif.ReservationID)
	utils.RespondStatus(c, http.StatusAccepted, "queued")
}
