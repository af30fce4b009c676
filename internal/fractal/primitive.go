// Package fractal builds natural-scene geometry by randomized recursive
// subdivision: branching trees and bushes, midpoint-displaced mountains and
// stylized flowers.
package fractal

import (
	"errors"

	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
)

// ErrInvalidConfig is wrapped by every generator parameter rejection.
var ErrInvalidConfig = errors.New("invalid configuration")

// PrimitiveKind names a renderer drawing operation.
type PrimitiveKind string

const (
	PrimitivePolyline PrimitiveKind = "polyline" // stroked open path
	PrimitivePolygon  PrimitiveKind = "polygon"  // filled closed path
	PrimitiveCircle   PrimitiveKind = "circle"   // filled disc
)

// Primitive is a single draw instruction handed to the renderer.
type Primitive struct {
	Kind   PrimitiveKind
	Points []geom.Point // polyline and polygon vertices
	Center geom.Point   // circle center
	Radius float64      // circle radius
	Color  palette.RGB
	Width  int // stroke width for polylines
}

// Drawable is implemented by every generated shape.
type Drawable interface {
	Kind() string
	Primitives() []Primitive
}
