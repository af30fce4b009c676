package fractal

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
)

// MaxMountainDepth bounds subdivision; depth d inserts 2^d - 1 points.
const MaxMountainDepth = 16

// Mountain is a silhouette polygon whose points are sorted by x.
type Mountain struct {
	Points []geom.Point
	Depth  int
	Color  palette.RGB
}

// MountainParams configures midpoint displacement between Start and End.
type MountainParams struct {
	Start      geom.Point
	End        geom.Point
	Height     param.Param // displacement magnitude for secondary ridges
	Decay      float64     // multiplier applied to Height at every level, in (0, 1)
	PeakHeight param.Param // upward displacement of the first midpoint
	Depth      int
	Color      palette.RGB
}

func (p MountainParams) Validate() error {
	if p.Start.X >= p.End.X {
		return fmt.Errorf("%w: mountain start x (%g) must be left of end x (%g)", ErrInvalidConfig, p.Start.X, p.End.X)
	}
	if p.Depth < 0 || p.Depth > MaxMountainDepth {
		return fmt.Errorf("%w: mountain depth must be within [0, %d], got %d", ErrInvalidConfig, MaxMountainDepth, p.Depth)
	}
	if p.Decay <= 0 || p.Decay >= 1 {
		return fmt.Errorf("%w: mountain height decay must be inside (0, 1), got %g", ErrInvalidConfig, p.Decay)
	}
	if p.Height.Min() < 0 || p.PeakHeight.Min() < 0 {
		return fmt.Errorf("%w: mountain heights cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// NewMountain builds a mountain by recursively displacing segment midpoints.
// The first midpoint is pushed up by PeakHeight; deeper midpoints move up or
// down by a shrinking Height. No point ever drops below the start point.
func NewMountain(r *rand.Rand, p MountainParams) (*Mountain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := &Mountain{
		Points: make([]geom.Point, 0, (1<<p.Depth)+1),
		Depth:  p.Depth,
		Color:  p.Color,
	}
	m.Points = append(m.Points, p.Start, p.End)

	if err := m.subdivide(r, p.Start, p.End, p.Height, p.Decay, p.PeakHeight, true, 0); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mountain) subdivide(r *rand.Rand, left, right geom.Point, height param.Param, decay float64, peak param.Param, first bool, count int) error {
	if count >= m.Depth {
		return nil
	}

	x := (left.X + right.X) / 2
	baseY, err := geom.Line{From: left, To: right}.YAt(x)
	if err != nil {
		return fmt.Errorf("mountain midpoint at x=%g: %w", x, err)
	}

	var y float64
	if first {
		y = baseY - peak.Resolve(r)
	} else {
		sign := 1.0
		if r.IntN(2) == 0 {
			sign = -1
		}
		y = baseY + height.Resolve(r)*sign
	}

	// Screen y grows downwards: never sink below the base line.
	if ground := m.Points[0].Y; y > ground {
		y = ground
	}

	mid := geom.Point{X: x, Y: y}
	idx, _ := slices.BinarySearchFunc(m.Points, right.X, func(pt geom.Point, target float64) int {
		return cmp.Compare(pt.X, target)
	})
	m.Points = slices.Insert(m.Points, idx, mid)

	next := height.Scale(decay)
	if err := m.subdivide(r, left, mid, next, decay, peak, false, count+1); err != nil {
		return err
	}
	return m.subdivide(r, mid, right, next, decay, peak, false, count+1)
}

// Interior returns the points strictly between the two base points.
func (m *Mountain) Interior() []geom.Point {
	if len(m.Points) <= 2 {
		return nil
	}
	return m.Points[1 : len(m.Points)-1]
}

func (m *Mountain) Kind() string {
	return "mountain"
}

func (m *Mountain) Primitives() []Primitive {
	return []Primitive{{
		Kind:   PrimitivePolygon,
		Points: slices.Clone(m.Points),
		Color:  m.Color,
	}}
}
