package fractal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
)

// MaxUniformDepth bounds the worst-case recursion depth a uniform tree may be
// configured for. Each level doubles the branch count.
const MaxUniformDepth = 20

// UniformParams configures the uniform branching strategy. Decay values are
// percentages applied to the parent length/width at every level.
type UniformParams struct {
	Start       geom.Point
	Heading     float64 // degrees, 270 is straight up
	Length      float64
	MinLength   float64
	Angle       param.Param
	LengthDecay param.Param
	WidthDecay  param.Param
	Width       float64
}

// Validate rejects parameters that would divide by zero or never terminate.
func (p UniformParams) Validate() error {
	if p.MinLength <= 0 {
		return fmt.Errorf("%w: minimum length must be positive, got %g", ErrInvalidConfig, p.MinLength)
	}
	if p.Length < 0 || math.IsInf(p.Length, 0) || math.IsNaN(p.Length) {
		return fmt.Errorf("%w: start length must be a finite non-negative value, got %g", ErrInvalidConfig, p.Length)
	}
	if p.Width < 0 {
		return fmt.Errorf("%w: width cannot be negative", ErrInvalidConfig)
	}
	if p.LengthDecay.Min() <= 0 || p.LengthDecay.Max() >= 100 {
		return fmt.Errorf("%w: length decay %s must resolve inside (0, 100)", ErrInvalidConfig, p.LengthDecay)
	}
	if p.WidthDecay.Min() <= 0 || p.WidthDecay.Max() > 100 {
		return fmt.Errorf("%w: width decay %s must resolve inside (0, 100]", ErrInvalidConfig, p.WidthDecay)
	}
	if p.Length > p.MinLength {
		depth := math.Ceil(math.Log(p.Length/p.MinLength) / math.Log(100/p.LengthDecay.Max()))
		if depth > MaxUniformDepth {
			return fmt.Errorf("%w: uniform tree could recurse %g levels (max %d)", ErrInvalidConfig, depth, MaxUniformDepth)
		}
	}
	return nil
}

// GrowUniform grows t with two children per branch until the branch length
// reaches p.MinLength, then applies the trunk-to-tip gradient. A start length
// already at or below the minimum yields no branches.
func (t *Tree) GrowUniform(r *rand.Rand, p UniformParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	t.growUniform(r, &p, p.Start, p.Heading, p.Length, p.Width, 0)
	t.ApplyGradient()
	return nil
}

func (t *Tree) growUniform(r *rand.Rand, p *UniformParams, start geom.Point, heading, length, width float64, level int) {
	if length <= p.MinLength {
		// 1 in 4 tips carry a leaf, 1 in 5 of those in the accent hue.
		if r.IntN(4) == 0 {
			t.addLeaf(r, start, t.Leaf.Hue, 6)
			if r.IntN(5) == 0 {
				last := &t.Leaves[len(t.Leaves)-1]
				last.Color = palette.Random(r, palette.HueBlue, t.Leaf.LowBri, t.Leaf.HighBri, 10+r.IntN(90))
			}
		}
		return
	}

	end := start.PointAt(heading, length)
	t.addBranch(newBranch(start, end, heading, width, 1, level))

	t.growUniform(r, p, end,
		heading-p.Angle.Resolve(r),
		length*p.LengthDecay.Resolve(r)/100,
		width*p.WidthDecay.Resolve(r)/100,
		level+1)
	t.growUniform(r, p, end,
		heading+p.Angle.Resolve(r),
		length*p.LengthDecay.Resolve(r)/100,
		width*p.WidthDecay.Resolve(r)/100,
		level+1)
}
