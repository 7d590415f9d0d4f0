package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

type OrderController struct {
	Status *services.StatusService
}

func NewOrderController(status *services.StatusService) *OrderController {
	return &OrderController{Status: status}
}

// Complete -> PENDING to COMPLETED
func (oc *OrderController) Complete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	status, err := oc.Status.CompleteOrder(actorContext(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondStatus(c, http.StatusOK, string(status))
}
