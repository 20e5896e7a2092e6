package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/table-order/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventStreamController mengekspos hub broadcast lewat satu endpoint
// websocket publik. Channel ini tanpa auth dan tanpa replay: client yang
// telat connect harus query state lewat REST.
type EventStreamController struct {
	Hub *events.Hub
}

func NewEventStreamController(hub *events.Hub) *EventStreamController {
	return &EventStreamController{Hub: hub}
}

// Stream -> upgrade ke websocket dan dengarkan sampai client disconnect.
func (ec *EventStreamController) Stream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ec.Hub.Register(ws)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	ec.Hub.Unregister(ws)
}
