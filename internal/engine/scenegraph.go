package engine

import (
	"github.com/inamate/fractalscape/internal/fractal"
	"github.com/inamate/fractalscape/internal/geom"
)

// SceneGraph is the render-ready state of the current scene. It is rebuilt
// whenever the scene or the viewport changes.
type SceneGraph struct {
	Root      *SceneNode
	NodesById map[string]*SceneNode
	Dirty     bool
}

// SceneNode is one generated shape (or the root that groups them).
type SceneNode struct {
	ID   string
	Type string // "scene", "background", "mountain", "tree", "bush", "flower"

	// Scene space to viewport space.
	WorldTransform Matrix2D

	Visible bool

	Parent   *SceneNode
	Children []*SceneNode

	// Geometry in scene space, in draw order.
	Primitives []fractal.Primitive

	// Hit testing, in viewport space.
	Bounds Rect
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Z"].
type PathCommand []interface{}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSceneGraph creates an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		NodesById: make(map[string]*SceneNode),
		Dirty:     true,
	}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has no area. Horizontal or vertical segments
// give degenerate rects, so only negative extents and the zero rect count.
func (r Rect) IsEmpty() bool {
	return r.Width < 0 || r.Height < 0 || (r.Width == 0 && r.Height == 0)
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the center point of the rect.
func (r Rect) Center() geom.Point {
	return geom.Pt(r.X+r.Width/2, r.Y+r.Height/2)
}

// Inflate grows the rect by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// boundsOf returns the points' bounding box; ok is false for no points.
func boundsOf(pts []geom.Point) (r Rect, ok bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// primitiveBounds is the scene-space extent of p, including stroke width.
func primitiveBounds(p fractal.Primitive) (Rect, bool) {
	switch p.Kind {
	case fractal.PrimitiveCircle:
		return Rect{X: p.Center.X - p.Radius, Y: p.Center.Y - p.Radius, Width: 2 * p.Radius, Height: 2 * p.Radius}, true
	case fractal.PrimitivePolyline:
		r, ok := boundsOf(p.Points)
		return r.Inflate(float64(p.Width) / 2), ok
	default:
		return boundsOf(p.Points)
	}
}
