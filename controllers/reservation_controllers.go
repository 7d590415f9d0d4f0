package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

type ReservationController struct {
	Status   *services.StatusService
	Notifier services.Notifier
}

func NewReservationController(status *services.StatusService, notifier services.Notifier) *ReservationController {
	return &ReservationController{Status: status, Notifier: notifier}
}

// Cancel -> CONFIRMED to CANCELLED, the table is freed
func (rc *ReservationController) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	status, err := rc.Status.CancelReservation(actorContext(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondStatus(c, http.StatusOK, string(status))
}

// Created queues the confirmation mail for a freshly booked reservation.
func (rc *ReservationController) Created(c *gin.Context, r *models.Reservation) {
	if rc.Notifier == nil {
		return
	}
	if err := rc.Notifier.Notify(c.Request.Context(), r.ID, models.ActionConfirmed); err != nil {
		utils.ErrorLogger.Printf("Failed to queue confirmation for reservation %d: %v", r.ID, err)
	}
}
