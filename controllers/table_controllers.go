package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

type TableController struct {
	Status *services.StatusService
}

func NewTableController(status *services.StatusService) *TableController {
	return &TableController{Status: status}
}

// SetStatus -> overwrite the table status with any valid value
func (tc *TableController) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	status, err := tc.Status.SetTableStatus(actorContext(c), id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondStatus(c, http.StatusOK, string(status))
}
