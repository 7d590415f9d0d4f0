package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wasabi52ngg/restaurant-chain/hub"
	"github.com/wasabi52ngg/restaurant-chain/middlewares"
	"github.com/wasabi52ngg/restaurant-chain/utils"
)

// StatusStreamController upgrades floor screens to a websocket that receives
// every table, reservation and order status event.
type StatusStreamController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewStatusStreamController(h *hub.Hub, allowedOrigin string) *StatusStreamController {
	return &StatusStreamController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (sc *StatusStreamController) Stream(c *gin.Context) {
	userID := c.GetUint(middlewares.ContextUserID)

	ws, err := sc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed for user %d: %v", userID, err)
		return
	}
	sc.Hub.Register(ws, userID)

	// clients only listen; reading detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	sc.Hub.Unregister(ws)
}
