package ws

import (
	"net/http"
	"sync"

	"safri360/internal/driver-service/core/domain/websocketdto"
	"safri360/internal/mylogger"

	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub holds the connected drivers keyed by PIN. A PIN may hold several
// connections; every one of them gets the push.
type Hub struct {
	mu      sync.RWMutex
	clients map[string][]*Client // pin -> connections
	log     mylogger.Logger
}

func NewHub(log mylogger.Logger) *Hub {
	return &Hub{
		clients: map[string][]*Client{},
		log:     log,
	}
}

// DriverHandler upgrades a driver's subscription connection.
func (h *Hub) DriverHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log.Action("wsSubscribe")

		pin := r.PathValue("pin_code")
		if pin == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(r.Context(), conn, pin)
		h.add(client)
		log.Info("driver subscribed", "pin", pin)

		go client.WriteLoop()
		go func() {
			client.ReadLoop()
			h.remove(client)
			log.Info("driver unsubscribed", "pin", pin)
		}()
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.pin] = append(h.clients[c.pin], c)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[c.pin]
	for i, cc := range conns {
		if cc == c {
			h.clients[c.pin] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.clients[c.pin]) == 0 {
		delete(h.clients, c.pin)
	}
	c.Close()
}

func (h *Hub) WriteToDriver(pinCode string, msg websocketdto.Event) {
	h.mu.RLock()
	conns := append([]*Client(nil), h.clients[pinCode]...)
	h.mu.RUnlock()

	for _, c := range conns {
		c.Send(msg)
	}
}
