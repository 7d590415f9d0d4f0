package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wasabi52ngg/restaurant-chain/middlewares"
	"github.com/wasabi52ngg/restaurant-chain/services"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

// actorContext carries the authenticated user into the audit trail.
func actorContext(c *gin.Context) context.Context {
	return services.WithActor(c.Request.Context(), c.GetUint(middlewares.ContextUserID))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusNotFound, errNotFound)
		return 0, false
	}
	return uint(id), true
}
