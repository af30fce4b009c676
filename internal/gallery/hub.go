// Package gallery runs shared scene rooms over WebSockets.
package gallery

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/metrics"
	"github.com/inamate/fractalscape/internal/scene"
)

type Hub struct {
	cfg       scene.Config
	fixedSeed uint64

	mu         sync.RWMutex
	rooms      map[string]*Room // roomID -> room
	register   chan *Client
	unregister chan *Client

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub whose rooms compose scenes from cfg. A non-zero
// fixedSeed replaces random seeds, which makes every room reproducible.
func NewHub(cfg scene.Config, fixedSeed uint64) *Hub {
	return &Hub{
		cfg:        cfg,
		fixedSeed:  fixedSeed,
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
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

// Stop ends Run and disconnects every viewer.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Viewers returns the number of viewers in a room.
func (h *Hub) Viewers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[roomID]; ok {
		return len(room.clients)
	}
	return 0
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		room = NewRoom(client.RoomID, h.cfg)
		h.rooms[client.RoomID] = room
		metrics.RoomOpened()
	}
	room.clients[client.ViewerID] = client
	viewers := len(room.clients)
	h.mu.Unlock()
	metrics.ViewerJoined()

	// Generating the first scene can take a while; keep it off the Run loop.
	go h.welcome(room, client, viewers)
}

// welcome sends the newcomer the room's current scene before anyone hears
// about them.
func (h *Hub) welcome(room *Room, client *Client, viewers int) {
	seed, _ := engine.ResolveSeed("", h.fixedSeed)
	frame, err := room.Frame(seed)
	if err != nil {
		slog.Error("initial scene", "room", client.RoomID, "error", err)
		client.Send(newMessage(TypeError, client.RoomID, ErrorPayload{Message: err.Error()}))
	} else {
		client.Send(newMessage(TypeSceneFrame, client.RoomID, frame))
	}

	joinMsg := newMessage(TypeViewerJoin, client.RoomID, ViewerPayload{ViewerID: client.ViewerID, Viewers: viewers})
	joinMsg.ViewerID = client.ViewerID
	h.broadcastToRoom(client.RoomID, joinMsg, client.ViewerID)

	slog.Info("viewer joined", "viewer", client.ViewerID, "room", client.RoomID, "viewers", viewers)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ViewerID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ViewerID)
	client.closeSend()
	viewers := len(room.clients)
	if viewers == 0 {
		delete(h.rooms, client.RoomID)
		metrics.RoomClosed()
	}
	h.mu.Unlock()
	metrics.ViewerLeft()

	leaveMsg := newMessage(TypeViewerLeave, client.RoomID, ViewerPayload{ViewerID: client.ViewerID, Viewers: viewers})
	leaveMsg.ViewerID = client.ViewerID
	h.broadcastToRoom(client.RoomID, leaveMsg, "")

	slog.Info("viewer left", "viewer", client.ViewerID, "room", client.RoomID, "viewers", viewers)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	var clients []*Client
	for id, room := range h.rooms {
		for _, c := range room.clients {
			clients = append(clients, c)
		}
		delete(h.rooms, id)
		metrics.RoomClosed()
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.closeGoingAway()
		metrics.ViewerLeft()
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeSceneRegenerate:
		h.handleRegenerate(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "viewer", sender.ViewerID)
		sender.Send(newMessage(TypeError, sender.RoomID, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) handleRegenerate(sender *Client, msg *Message) {
	var req RegeneratePayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			sender.Send(newMessage(TypeError, sender.RoomID, ErrorPayload{Message: "invalid regenerate payload"}))
			return
		}
	}

	frame, err := h.regenerate(sender.RoomID, req)
	if err != nil {
		if !errors.Is(err, scene.ErrInvalidConfig) {
			slog.Error("regenerate", "room", sender.RoomID, "error", err)
		}
		sender.Send(newMessage(TypeError, sender.RoomID, ErrorPayload{Message: err.Error()}))
		return
	}

	h.broadcastToRoom(sender.RoomID, newMessage(TypeSceneFrame, sender.RoomID, frame), "")
}

func (h *Hub) regenerate(roomID string, req RegeneratePayload) (engine.Frame, error) {
	kind, err := scene.ParseKind(req.Kind)
	if err != nil {
		return engine.Frame{}, err
	}
	seed, err := engine.ResolveSeed(req.Seed, h.fixedSeed)
	if err != nil {
		return engine.Frame{}, err
	}

	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return engine.Frame{}, errors.New("room closed")
	}
	return room.Regenerate(kind, seed)
}

func (h *Hub) broadcastToRoom(roomID string, msg *Message, excludeViewerID string) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ViewerID != excludeViewerID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
