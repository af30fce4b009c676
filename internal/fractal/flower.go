package fractal

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
)

// Flower is a segmented stem topped with two concentric petal discs.
type Flower struct {
	Stem        []geom.Point // base first, petal center last
	PetalCenter geom.Point
	Radius      float64
	StemWidth   int
	StemColor   palette.RGB
	PetalColor  palette.RGB
	CenterColor palette.RGB
}

type FlowerParams struct {
	Start       geom.Point
	Length      float64     // total stem length
	Radius      float64     // outer petal radius
	Tilt        param.Param // per-segment deviation from vertical, degrees
	Segments    int
	StemWidth   int
	StemColor   palette.RGB
	PetalColor  palette.RGB
	CenterColor palette.RGB
}

func (p FlowerParams) Validate() error {
	if p.Segments <= 0 {
		return fmt.Errorf("%w: flower needs at least one stem segment, got %d", ErrInvalidConfig, p.Segments)
	}
	if p.Length < 0 || p.Radius < 0 {
		return fmt.Errorf("%w: flower length and radius cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// NewFlower builds the stem from Segments equal sub-segments, each tilted from
// vertical by its own random angle.
func NewFlower(r *rand.Rand, p FlowerParams) (*Flower, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	width := p.StemWidth
	if width < 1 {
		width = 1
	}

	f := &Flower{
		Stem:        make([]geom.Point, 0, p.Segments+1),
		Radius:      p.Radius,
		StemWidth:   width,
		StemColor:   p.StemColor,
		PetalColor:  p.PetalColor,
		CenterColor: p.CenterColor,
	}

	segment := p.Length / float64(p.Segments)
	pos := p.Start
	f.Stem = append(f.Stem, pos)
	for i := 0; i < p.Segments; i++ {
		pos = pos.PointAt(270-p.Tilt.Resolve(r), segment)
		f.Stem = append(f.Stem, pos)
	}
	f.PetalCenter = pos
	return f, nil
}

func (f *Flower) Kind() string {
	return "flower"
}

func (f *Flower) Primitives() []Primitive {
	return []Primitive{
		{Kind: PrimitivePolyline, Points: slices.Clone(f.Stem), Color: f.StemColor, Width: f.StemWidth},
		{Kind: PrimitiveCircle, Center: f.PetalCenter, Radius: f.Radius, Color: f.PetalColor},
		{Kind: PrimitiveCircle, Center: f.PetalCenter, Radius: f.Radius / 2, Color: f.CenterColor},
	}
}
