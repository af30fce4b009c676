package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/inamate/fractalscape/internal/fractal"
	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
)

// Kind selects which composition to build.
type Kind string

const (
	KindScene    Kind = "scene"
	KindShowcase Kind = "showcase"
)

// ParseKind maps an empty string to KindScene.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindScene:
		return KindScene, nil
	case KindShowcase:
		return KindShowcase, nil
	}
	return "", fmt.Errorf("%w: unknown scene kind %q", ErrInvalidConfig, s)
}

// Showcase layout: one of each strategy side by side on a shared baseline.
const (
	showcaseBase         = 600
	showcaseMountainX    = 250
	showcaseTreeX        = 550
	showcaseBushX        = 800
	showcaseMinMountainW = 200
	showcaseMaxMountainW = 500
)

const streamSalt = 0x9e3779b97f4a7c15

// NewRand returns the random stream every composition for seed draws from.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamSalt))
}

// Background is the sky fill plus an optional ground band.
type Background struct {
	Width     int
	Height    int
	Sky       palette.RGB
	Ground    palette.RGB
	GroundTop int // ground covers [GroundTop, Height); no ground when >= Height
}

func (b *Background) Kind() string {
	return "background"
}

func (b *Background) Primitives() []fractal.Primitive {
	w, h := float64(b.Width), float64(b.Height)
	prims := []fractal.Primitive{{
		Kind:   fractal.PrimitivePolygon,
		Points: rect(0, 0, w, h),
		Color:  b.Sky,
	}}
	if b.GroundTop < b.Height {
		prims = append(prims, fractal.Primitive{
			Kind:   fractal.PrimitivePolygon,
			Points: rect(0, float64(b.GroundTop), w, h),
			Color:  b.Ground,
		})
	}
	return prims
}

func rect(x0, y0, x1, y1 float64) []geom.Point {
	return []geom.Point{geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1)}
}

// Scene is one composition. Shapes are in painter order: mountains first,
// then foreground objects from the back row to the front row.
type Scene struct {
	Kind       Kind
	Seed       uint64
	Width      int
	Height     int
	Background *Background
	Shapes     []fractal.Drawable
}

// Drawables returns the background followed by every shape.
func (s *Scene) Drawables() []fractal.Drawable {
	out := make([]fractal.Drawable, 0, len(s.Shapes)+1)
	if s.Background != nil {
		out = append(out, s.Background)
	}
	return append(out, s.Shapes...)
}

// Counts tallies shapes by kind.
func (s *Scene) Counts() map[string]int {
	counts := make(map[string]int)
	for _, d := range s.Shapes {
		counts[d.Kind()]++
	}
	return counts
}

// Generate builds the composition of the given kind from a fresh stream
// seeded with seed.
func Generate(cfg Config, kind Kind, seed uint64) (*Scene, error) {
	r := NewRand(seed)
	var (
		s   *Scene
		err error
	)
	switch kind {
	case KindShowcase:
		s, err = Showcase(r, cfg)
	case KindScene, "":
		s, err = Compose(r, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown scene kind %q", ErrInvalidConfig, kind)
	}
	if err != nil {
		return nil, err
	}
	s.Seed = seed
	return s, nil
}

// Compose builds the full landscape: one mountain per mountain-band row step,
// then per foreground row a chance of a tree and, in the secondary band, of a
// bush and a flower.
func Compose(r *rand.Rand, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		Kind:   KindScene,
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: &Background{
			Width:     cfg.Width,
			Height:    cfg.Height,
			Sky:       palette.Sky,
			Ground:    palette.DarkGreen,
			GroundTop: cfg.MountainStart,
		},
	}

	for y := cfg.MountainStart; y < cfg.MountainEnd; y += cfg.MountainFrequency {
		m, err := cfg.Mountain(r, r.IntN(cfg.Width), y, 100+r.IntN(700))
		if err != nil {
			return nil, fmt.Errorf("mountain at row %d: %w", y, err)
		}
		s.Shapes = append(s.Shapes, m)
	}

	final := cfg.Height
	for y := cfg.ForegroundStart; y < cfg.ForegroundEnd; y++ {
		if y > cfg.SecondaryForegroundStart {
			if r.IntN(cfg.BushChance) == 0 {
				b, err := cfg.Bush(r, r.IntN(cfg.Width), y, final)
				if err != nil {
					return nil, fmt.Errorf("bush at row %d: %w", y, err)
				}
				s.Shapes = append(s.Shapes, b)
			}
			if r.IntN(cfg.FlowerChance) == 0 {
				f, err := cfg.Flower(r, r.IntN(cfg.Width), y, final)
				if err != nil {
					return nil, fmt.Errorf("flower at row %d: %w", y, err)
				}
				s.Shapes = append(s.Shapes, f)
			}
		}
		if r.IntN(cfg.TreeChance) == 0 {
			t, err := cfg.Tree(r, r.IntN(cfg.Width), y, final)
			if err != nil {
				return nil, fmt.Errorf("tree at row %d: %w", y, err)
			}
			s.Shapes = append(s.Shapes, t)
		}
	}
	return s, nil
}

// Showcase builds the side-by-side comparison of one mountain, one
// health-based tree and one uniform bush, all at full scale.
func Showcase(r *rand.Rand, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if max(cfg.TreeScaleOrigin, cfg.UnderstoryScaleOrigin, cfg.TintHorizon) >= showcaseBase {
		return nil, fmt.Errorf("%w: showcase needs every scale origin above row %d", ErrInvalidConfig, showcaseBase)
	}

	tree, err := cfg.Tree(r, showcaseTreeX, showcaseBase, showcaseBase)
	if err != nil {
		return nil, fmt.Errorf("showcase tree: %w", err)
	}
	bush, err := cfg.Bush(r, showcaseBushX, showcaseBase, showcaseBase)
	if err != nil {
		return nil, fmt.Errorf("showcase bush: %w", err)
	}
	width := showcaseMinMountainW + r.IntN(showcaseMaxMountainW-showcaseMinMountainW)
	mountain, err := cfg.Mountain(r, showcaseMountainX, showcaseBase, width)
	if err != nil {
		return nil, fmt.Errorf("showcase mountain: %w", err)
	}

	return &Scene{
		Kind:   KindShowcase,
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: &Background{
			Width:     cfg.Width,
			Height:    cfg.Height,
			Sky:       palette.Black,
			GroundTop: cfg.Height,
		},
		Shapes: []fractal.Drawable{mountain, tree, bush},
	}, nil
}
