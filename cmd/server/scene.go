package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/metrics"
	"github.com/inamate/fractalscape/internal/scene"
	"github.com/inamate/fractalscape/internal/typeid"
)

type sceneHandler struct {
	cfg       scene.Config
	fixedSeed uint64
}

// Get composes a scene for ?seed=&kind= and returns its frame.
func (h *sceneHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := engine.ParseSceneRequest(r.URL.Query(), h.fixedSeed)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	e := engine.NewEngine(h.cfg, engine.WithObserver(metrics.Generation{}))
	if err := e.Generate(req.Kind, req.Seed); err != nil {
		if errors.Is(err, scene.ErrInvalidConfig) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("generate scene", "seed", req.Seed, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	frame, _ := e.Frame()
	writeJSON(w, http.StatusOK, frame)
}

// createRoom hands out a fresh gallery room ID. Rooms themselves open when
// the first viewer connects.
func createRoom(w http.ResponseWriter, r *http.Request) {
	roomID := typeid.NewRoomID()
	writeJSON(w, http.StatusCreated, map[string]string{
		"roomId": roomID,
		"path":   "/ws/gallery/" + roomID,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
