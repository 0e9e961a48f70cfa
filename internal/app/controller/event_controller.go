package controller

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/gin-gonic/gin"
	apperrors "github.com/crownpawn/titlepawn-backend/internal/errors"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
	ws "github.com/crownpawn/titlepawn-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin allow-list is enforced by the CORS layer; the socket itself
		// requires a valid JWT (query token), so all origins may attempt it.
		return true
	},
}

// EventController upgrades authenticated dashboard connections onto the
// lifecycle event hub.
type EventController struct {
	hub *ws.Hub
}

func NewEventController(hub *ws.Hub) *EventController {
	return &EventController{hub: hub}
}

// Subscribe upgrades the connection and streams the company's loan events
// GET /api/v1/events/ws?token=
func (ctrl *EventController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	companyID, _ := middleware.GetCompanyID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, nil)
		return
	}

	client := &ws.Client{
		Hub:       ctrl.hub,
		Conn:      &ws.Conn{Conn: conn},
		UserID:    userID,
		CompanyID: companyID,
		Send:      make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
	})
}
