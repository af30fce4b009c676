package fractal

import (
	"fmt"
	"math/rand/v2"

	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/param"
)

const (
	DefaultHealth      = 100.0
	DefaultHealthLimit = 3.0
	DefaultHealthSplit = 140.0

	// MaxHealthSplit caps the health handed to both children combined. The
	// branch count grows steeply with the split: 150 already yields a few
	// thousand branches per tree.
	MaxHealthSplit = 150.0
)

// HealthParams configures the health-based branching strategy. Health is a
// percentage that scales both branch length and width; it is split unevenly
// between the two children at every fork.
type HealthParams struct {
	Start       geom.Point
	Heading     float64
	Length      float64
	TrunkLength float64 // replaces Length for the first branch when > 0
	Angle       param.Param
	HealthSplit param.Param // combined child health, in percent of the parent
	HealthLimit float64     // zero means DefaultHealthLimit
	Health      float64     // zero means DefaultHealth
	Width       float64
}

func (p *HealthParams) applyDefaults() {
	if p.HealthLimit == 0 {
		p.HealthLimit = DefaultHealthLimit
	}
	if p.Health == 0 {
		p.Health = DefaultHealth
	}
}

// Validate checks the parameters after defaults have been applied.
func (p HealthParams) Validate() error {
	p.applyDefaults()
	if p.HealthLimit <= 0 {
		return fmt.Errorf("%w: health limit must be positive, got %g", ErrInvalidConfig, p.HealthLimit)
	}
	if p.Health < 0 || p.Health > 100 {
		return fmt.Errorf("%w: starting health must be within [0, 100], got %g", ErrInvalidConfig, p.Health)
	}
	if p.Length < 0 || p.TrunkLength < 0 {
		return fmt.Errorf("%w: branch lengths cannot be negative", ErrInvalidConfig)
	}
	if p.Width < 0 {
		return fmt.Errorf("%w: width cannot be negative", ErrInvalidConfig)
	}
	if p.HealthSplit.Min() < 1 || p.HealthSplit.Max() > MaxHealthSplit {
		return fmt.Errorf("%w: health split %s must resolve inside [1, %g]", ErrInvalidConfig, p.HealthSplit, MaxHealthSplit)
	}
	return nil
}

// GrowHealth grows t from a single dominant trunk. Every branch passes less
// health to each child than it had, so recursion always ends; tips at or below
// the health limit always get a leaf.
func (t *Tree) GrowHealth(r *rand.Rand, p HealthParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.applyDefaults()
	t.growHealth(r, &p, p.Start, p.Heading, p.Health, 0, true, true)
	t.ApplyGradient()
	return nil
}

func (t *Tree) growHealth(r *rand.Rand, p *HealthParams, start geom.Point, heading, health float64, level int, main, first bool) {
	if health <= p.HealthLimit {
		t.addLeaf(r, start, t.Leaf.Hue, 4)
		return
	}

	length := p.Length
	if first && p.TrunkLength > 0 {
		length = p.TrunkLength
	}
	end := start.PointAt(heading, length*health/100)
	b := newBranch(start, end, heading, p.Width, health/100, level)
	b.Main = main
	t.addBranch(b)

	h1, h2 := splitHealth(r, p.HealthSplit.Resolve(r))
	main1, main2 := false, false
	if main {
		// The trunk continues with the child that turns back toward vertical:
		// heading+angle when leaning left, heading-angle when leaning right.
		switch {
		case heading < 270:
			h1, h2 = min(h1, h2), max(h1, h2)
			main2 = true
		case heading > 270:
			h1, h2 = max(h1, h2), min(h1, h2)
			main1 = true
		default:
			main1 = h1 >= h2
			main2 = !main1
		}
	}

	t.growHealth(r, p, end, heading-p.Angle.Resolve(r), health*h1/100, level+1, main1, false)
	t.growHealth(r, p, end, heading+p.Angle.Resolve(r), health*h2/100, level+1, main2, false)
}

// splitHealth partitions total into two whole percentages, each at most 99 and
// never negative.
func splitHealth(r *rand.Rand, total float64) (float64, float64) {
	sum := int(total)
	lo := max(sum-99, 0)
	hi := min(sum, 99)
	h1 := lo + r.IntN(hi-lo+1)
	return float64(h1), float64(sum - h1)
}
