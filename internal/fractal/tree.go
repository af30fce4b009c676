package fractal

import (
	"math/rand/v2"

	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
)

// Branch is one recorded segment of a tree.
type Branch struct {
	geom.Line
	Color   palette.RGB
	Width   int
	Level   int     // recursion depth, trunk = 0
	Health  float64 // fraction in (0, 1]; always 1 for uniform trees
	Heading float64 // degrees, 270 is straight up

	// Main marks the dominant trunk lineage of a health-based tree.
	Main bool
}

func newBranch(from, to geom.Point, heading, width, health float64, level int) Branch {
	w := int(width * health)
	if w < 1 {
		w = 1
	}
	return Branch{
		Line:    geom.Line{From: from, To: to},
		Color:   palette.White,
		Width:   w,
		Level:   level,
		Health:  health,
		Heading: heading,
	}
}

// Leaf is a colored dot at a branch tip.
type Leaf struct {
	Pos   geom.Point
	Color palette.RGB
	Size  int
}

// LeafStyle describes how leaf colors are drawn.
type LeafStyle struct {
	Hue     palette.Hue
	LowBri  int // brightness range [LowBri, HighBri)
	HighBri int
}

// Tree owns the branches and leaves produced by one generation call. Branches
// are stored in generation (depth-first) order.
type Tree struct {
	Branches   []Branch
	Leaves     []Leaf
	MaxLevel   int
	TrunkColor palette.RGB
	TipColor   palette.RGB
	Leaf       LeafStyle

	kind string
}

// NewTree returns an empty tree with the given gradient endpoints and leaf
// style. kind labels the tree for renderers ("tree", "bush").
func NewTree(kind string, trunk, tip palette.RGB, leaf LeafStyle) *Tree {
	if kind == "" {
		kind = "tree"
	}
	return &Tree{
		TrunkColor: trunk,
		TipColor:   tip,
		Leaf:       leaf,
		kind:       kind,
	}
}

func (t *Tree) Kind() string {
	return t.kind
}

func (t *Tree) addBranch(b Branch) {
	t.Branches = append(t.Branches, b)
	if b.Level > t.MaxLevel {
		t.MaxLevel = b.Level
	}
}

func (t *Tree) addLeaf(r *rand.Rand, pos geom.Point, hue palette.Hue, maxSize int) {
	color := palette.Random(r, hue, t.Leaf.LowBri, t.Leaf.HighBri, 50+r.IntN(50))
	t.Leaves = append(t.Leaves, Leaf{Pos: pos, Color: color, Size: r.IntN(maxSize)})
}

// ApplyGradient colors every branch between TrunkColor and TipColor by its
// level relative to MaxLevel.
func (t *Tree) ApplyGradient() {
	for i := range t.Branches {
		strength := 0.0
		if t.MaxLevel > 0 {
			strength = float64(t.Branches[i].Level) / float64(t.MaxLevel)
		}
		t.Branches[i].Color = palette.Lerp(t.TrunkColor, t.TipColor, strength)
	}
}

// Tint fades every branch and leaf towards ambient.
func (t *Tree) Tint(ambient palette.RGB, strength float64) {
	for i := range t.Branches {
		t.Branches[i].Color = palette.DepthTint(t.Branches[i].Color, ambient, strength)
	}
	for i := range t.Leaves {
		t.Leaves[i].Color = palette.DepthTint(t.Leaves[i].Color, ambient, strength)
	}
}

// Primitives draws branches first and leaves on top.
func (t *Tree) Primitives() []Primitive {
	prims := make([]Primitive, 0, len(t.Branches)+len(t.Leaves))
	for _, b := range t.Branches {
		prims = append(prims, Primitive{
			Kind:   PrimitivePolyline,
			Points: []geom.Point{b.From, b.To},
			Color:  b.Color,
			Width:  b.Width,
		})
	}
	for _, l := range t.Leaves {
		prims = append(prims, Primitive{
			Kind:   PrimitiveCircle,
			Center: l.Pos,
			Radius: float64(l.Size),
			Color:  l.Color,
		})
	}
	return prims
}
