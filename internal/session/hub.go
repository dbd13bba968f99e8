package session

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/seatmap/internal/engine"
	"github.com/inamate/seatmap/internal/venue"
)

// Room groups the live sessions viewing one venue.
type Room struct {
	venueID string
	clients map[string]*Client // clientID -> client
}

func NewRoom(venueID string) *Room {
	return &Room{
		venueID: venueID,
		clients: make(map[string]*Client),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // venueID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	origins []string
	opts    engine.Options
}

// NewHub creates a hub whose sessions run engines with opts. origins are the
// websocket origin patterns accepted besides same-host requests.
func NewHub(opts engine.Options, origins []string) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		origins:    origins,
		opts:       opts,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Sessions reports how many sessions are open on a venue.
func (h *Hub) Sessions(venueID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[venueID]; ok {
		return len(room.clients)
	}
	return 0
}

// Serve upgrades the request and runs a session on v until the connection
// closes. The caller has already authenticated sessionID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, v *venue.Venue, sessionID string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	s := New(sessionID, v, h.opts)
	client := NewClient(h, conn, s, uuid.New().String())
	client.Send(s.Welcome())

	h.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.VenueID()]
	if !ok {
		room = NewRoom(client.VenueID())
		h.rooms[client.VenueID()] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	slog.Info("session opened", "session", client.SessionID(), "venue", client.VenueID())
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.VenueID()]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)

	if len(room.clients) == 0 {
		delete(h.rooms, client.VenueID())
	}
	h.mu.Unlock()

	slog.Info("session closed", "session", client.SessionID(), "venue", client.VenueID())
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for _, c := range room.clients {
			c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}
