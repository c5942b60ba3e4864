package ws

import (
	"net/http"
	"sync"

	"safri360/internal/dispatch-service/core/domain/websocketdto"
	"safri360/internal/mylogger"

	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type audience string

const (
	audienceOwner audience = "owner"
	audienceRider audience = "rider"
)

// Dispatcher keeps one client set per audience and pushes events to members
// by uid. A uid may hold several connections (phone + tablet); every one of
// them gets the event.
type Dispatcher struct {
	mu      sync.RWMutex
	clients map[audience]map[string][]*Client // audience -> uid -> connections
	log     mylogger.Logger
}

func NewDispatcher(log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		clients: map[audience]map[string][]*Client{
			audienceOwner: {},
			audienceRider: {},
		},
		log: log,
	}
}

// OwnerHandler upgrades a rent-a-car owner's subscription connection.
func (d *Dispatcher) OwnerHandler() http.HandlerFunc {
	return d.subscribeHandler(audienceOwner, "owner_uid")
}

// RiderHandler upgrades a rider's subscription connection.
func (d *Dispatcher) RiderHandler() http.HandlerFunc {
	return d.subscribeHandler(audienceRider, "customer_id")
}

func (d *Dispatcher) subscribeHandler(aud audience, pathKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsSubscribe").With("audience", string(aud))

		uid := r.PathValue(pathKey)
		if uid == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(r.Context(), conn, uid)
		d.add(aud, client)
		log.Info("client subscribed", "uid", uid)

		go client.WriteLoop()
		go func() {
			client.ReadLoop()
			d.remove(aud, client)
			log.Info("client unsubscribed", "uid", uid)
		}()
	}
}

func (d *Dispatcher) add(aud audience, c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[aud][c.uid] = append(d.clients[aud][c.uid], c)
}

func (d *Dispatcher) remove(aud audience, c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()

	conns := d.clients[aud][c.uid]
	for i, cc := range conns {
		if cc == c {
			d.clients[aud][c.uid] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(d.clients[aud][c.uid]) == 0 {
		delete(d.clients[aud], c.uid)
	}
	c.Close()
}

func (d *Dispatcher) WriteToOwner(ownerUID string, msg websocketdto.Event) {
	d.writeTo(audienceOwner, ownerUID, msg)
}

func (d *Dispatcher) WriteToRider(customerID string, msg websocketdto.Event) {
	d.writeTo(audienceRider, customerID, msg)
}

func (d *Dispatcher) writeTo(aud audience, uid string, msg websocketdto.Event) {
	d.mu.RLock()
	conns := append([]*Client(nil), d.clients[aud][uid]...)
	d.mu.RUnlock()

	for _, c := range conns {
		c.Send(msg)
	}
}
