package gallery

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/metrics"
	"github.com/inamate/fractalscape/internal/scene"
	"github.com/inamate/fractalscape/internal/typeid"
)

// LobbyRoom is always accepted as a room ID, alongside room_ typeids.
const LobbyRoom = "lobby"

// ValidateRoomID accepts the lobby or a typeid with the room prefix.
func ValidateRoomID(id string) error {
	if id == LobbyRoom {
		return nil
	}
	if err := typeid.Validate(id, typeid.PrefixRoom); err != nil {
		return fmt.Errorf("room id: %w", err)
	}
	return nil
}

// Room is one shared scene. Every viewer sees the same frame; a regeneration
// by any viewer replaces it for all of them.
type Room struct {
	id      string
	clients map[string]*Client // viewerID -> client

	// mu guards engine; the engine itself is single-threaded.
	mu     sync.Mutex
	engine *engine.Engine
}

func NewRoom(id string, cfg scene.Config) *Room {
	return &Room{
		id:      id,
		clients: make(map[string]*Client),
		engine:  engine.NewEngine(cfg, engine.WithObserver(metrics.Generation{})),
	}
}

// Frame returns the current frame, generating the first scene on demand.
func (r *Room) Frame(seed uint64) (engine.Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.engine.Frame(); ok {
		return f, nil
	}
	if err := r.engine.Regenerate(seed); err != nil {
		return engine.Frame{}, err
	}
	f, _ := r.engine.Frame()
	return f, nil
}

// Regenerate replaces the room's scene. On error the previous scene stays.
func (r *Room) Regenerate(kind scene.Kind, seed uint64) (engine.Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.engine.Generate(kind, seed); err != nil {
		return engine.Frame{}, err
	}
	f, _ := r.engine.Frame()
	slog.Info("room regenerated", "room", r.id, "scene", f.ID, "kind", kind, "seed", seed)
	return f, nil
}
