package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/table-order/utils"
)

// Event types yang disiarkan ke channel realtime.
const (
	EventNewOrder       = "new_order"
	EventOrderStarted   = "order_started"
	EventOrderReady     = "order_ready"
	EventOrderCancelled = "order_cancelled"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderStatusEvent adalah payload minimum untuk event perubahan status.
type OrderStatusEvent struct {
	OrderID     uint   `json:"order_id"`
	TableNumber int    `json:"table_number"`
	Status      string `json:"status"`
}

// Publisher adalah capability broadcast yang di-inject ke controller, supaya
// test bisa menangkap event tanpa koneksi websocket sungguhan.
type Publisher interface {
	Publish(msg Message)
}

// Hub menampung semua client websocket yang sedang terhubung. Delivery
// best-effort: client yang connect setelah event terbit tidak mendapat replay.
type Hub struct {
	clients map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Register -> menambahkan connection ke set
func (h *Hub) Register(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = struct{}{}
}

// Unregister -> melepaskan connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Publish menyiarkan pesan ke semua client. Error pengiriman hanya di-log;
// state change yang memicu event sudah committed, jadi tidak pernah
// dipropagasi balik ke request asal.
func (h *Hub) Publish(msg Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling event %s: %v", msg.Event, err)
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to client: %v", msg.Event, err)
		}
	}
}
