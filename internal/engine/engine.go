package engine

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/inamate/fractalscape/internal/scene"
	"github.com/inamate/fractalscape/internal/typeid"
)

// Observer is told about every generation attempt. internal/metrics provides
// the Prometheus implementation.
type Observer interface {
	SceneGenerated(kind string, elapsed time.Duration, counts map[string]int)
	SceneFailed(kind string)
}

// Engine owns the current scene and its scene graph. It is not safe for
// concurrent use; callers serialise access.
type Engine struct {
	cfg      scene.Config
	observer Observer

	scene   *scene.Scene
	sceneID string

	// Retained scene graph
	sceneGraph *SceneGraph

	// Viewport size in pixels; zero means draw in scene units.
	viewW, viewH int

	selection []string

	// Dirty flag - scene graph needs rebuild
	dirty bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver reports generation outcomes to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine creates an engine with no scene loaded.
func NewEngine(cfg scene.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:        cfg,
		sceneGraph: NewSceneGraph(),
		dirty:      true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands ---

// Regenerate replaces the current scene with a freshly composed landscape.
func (e *Engine) Regenerate(seed uint64) error {
	return e.Generate(scene.KindScene, seed)
}

// RegenerateShowcase replaces the current scene with the showcase layout.
func (e *Engine) RegenerateShowcase(seed uint64) error {
	return e.Generate(scene.KindShowcase, seed)
}

// Generate builds a scene of the given kind. On failure the previous scene
// is kept.
func (e *Engine) Generate(kind scene.Kind, seed uint64) error {
	start := time.Now()
	s, err := scene.Generate(e.cfg, kind, seed)
	if err != nil {
		if e.observer != nil {
			e.observer.SceneFailed(string(kind))
		}
		return err
	}
	elapsed := time.Since(start)

	e.scene = s
	e.sceneID = typeid.NewSceneID()
	e.selection = nil
	e.dirty = true

	counts := s.Counts()
	if e.observer != nil {
		e.observer.SceneGenerated(string(s.Kind), elapsed, counts)
	}
	slog.Debug("scene generated", "id", e.sceneID, "kind", s.Kind, "seed", seed, "shapes", len(s.Shapes), "elapsed", elapsed)
	return nil
}

// SetViewport fits the scene into a w x h pixel viewport. Zero sizes reset
// to scene units.
func (e *Engine) SetViewport(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w != e.viewW || h != e.viewH {
		e.viewW, e.viewH = w, h
		e.dirty = true
	}
}

// SetSelection sets the selected object IDs.
func (e *Engine) SetSelection(ids []string) {
	e.selection = ids
}

// --- Queries ---

func (e *Engine) viewport() Matrix2D {
	if e.scene == nil || e.viewW == 0 || e.viewH == 0 {
		return Identity()
	}
	return FitViewport(float64(e.scene.Width), float64(e.scene.Height), float64(e.viewW), float64(e.viewH))
}

func (e *Engine) graph() *SceneGraph {
	if e.dirty {
		e.sceneGraph = BuildSceneGraph(e.scene, e.viewport())
		e.dirty = false
	}
	return e.sceneGraph
}

// Commands compiles the current scene graph to draw commands.
func (e *Engine) Commands() []DrawCommand {
	if e.scene == nil {
		return nil
	}
	return CompileDrawCommands(e.graph())
}

// Render returns the draw commands as JSON.
func (e *Engine) Render() string {
	result, _ := DrawCommandsToJSON(e.Commands())
	return result
}

// Frame is everything a client needs to draw the current scene.
type Frame struct {
	ID       string        `json:"id"`
	Seed     uint64        `json:"seed,string"`
	Kind     scene.Kind    `json:"kind"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Commands []DrawCommand `json:"commands"`
}

// Frame returns the current scene with its draw commands. ok is false when no
// scene has been generated.
func (e *Engine) Frame() (f Frame, ok bool) {
	if e.scene == nil {
		return Frame{}, false
	}
	commands := e.Commands()
	if commands == nil {
		commands = []DrawCommand{}
	}
	return Frame{
		ID:       e.sceneID,
		Seed:     e.scene.Seed,
		Kind:     e.scene.Kind,
		Width:    e.scene.Width,
		Height:   e.scene.Height,
		Commands: commands,
	}, true
}

// HitTest performs a hit test at the given viewport coordinates.
// Returns the object ID of the topmost hit, or empty string.
func (e *Engine) HitTest(x, y float64) string {
	if e.scene == nil {
		return ""
	}
	return HitTest(e.graph(), x, y)
}

// GetSelectionBounds returns the bounding box of the current selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	if e.scene == nil || len(e.selection) == 0 {
		return RectToJSON(Rect{})
	}
	return RectToJSON(GetSelectionBounds(e.graph(), e.selection))
}

// GetSelection returns the current selection as JSON.
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(e.selection)
	return string(data)
}

// SceneInfo summarises the current scene.
type SceneInfo struct {
	ID     string         `json:"id"`
	Kind   scene.Kind     `json:"kind"`
	Seed   uint64         `json:"seed,string"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Counts map[string]int `json:"counts"`
	Nodes  int            `json:"nodes"`
}

// Info returns the current scene summary; ok is false before the first
// generation.
func (e *Engine) Info() (SceneInfo, bool) {
	if e.scene == nil {
		return SceneInfo{}, false
	}
	return SceneInfo{
		ID:     e.sceneID,
		Kind:   e.scene.Kind,
		Seed:   e.scene.Seed,
		Width:  e.scene.Width,
		Height: e.scene.Height,
		Counts: e.scene.Counts(),
		Nodes:  len(e.graph().NodesById) - 1,
	}, true
}

// GetSceneInfo returns the current scene summary as JSON.
func (e *Engine) GetSceneInfo() string {
	info, ok := e.Info()
	if !ok {
		return "{}"
	}
	data, _ := json.Marshal(info)
	return string(data)
}

// Scene returns the current scene, or nil.
func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

// SceneID returns the identifier issued for the current scene.
func (e *Engine) SceneID() string {
	return e.sceneID
}
