package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/loopwhile/firstppt-sub000/kds"
	"github.com/loopwhile/firstppt-sub000/ledger"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/utils"
	"github.com/loopwhile/firstppt-sub000/views"
)

type KitchenController struct {
	Ledger *ledger.Ledger
}

func NewKitchenController(l *ledger.Ledger) *KitchenController {
	return &KitchenController{Ledger: l}
}

// GetQueue -> the kitchen display's poll endpoint. The projection is
// recomputed from a fresh snapshot on every call.
func (kc *KitchenController) GetQueue(c *gin.Context) {
	queue := views.KitchenQueue(kc.Ledger.Snapshot())
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", gin.H{
		"orders": queue,
		"counts": views.CountKitchen(queue),
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Subscribe -> websocket endpoint for kitchen displays. Pushed frames are a
// convenience on top of polling; a client that drops the socket falls back to
// GetQueue with the same staleness bound.
func (kc *KitchenController) Subscribe(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)
	if role != models.RoleKitchen && role != models.RoleManager {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kds.RegisterClient(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kds.UnregisterClient(ws)
}
