package scene

import (
	"math/rand/v2"

	"github.com/inamate/fractalscape/internal/fractal"
	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
)

// depthRatio is how far y sits between origin (0) and final (1).
func depthRatio(y, origin, final int) float64 {
	return float64(y-origin) / float64(final-origin)
}

// Mountain builds a ridge centered on center whose base sits on row y. The
// peak height is proportional to the half width.
func (c Config) Mountain(r *rand.Rand, center, y, width int) (*fractal.Mountain, error) {
	half := width / 2
	peak := float64(50+r.IntN(100)) / 100 * float64(half)
	variation := param.Range(float64(5+r.IntN(15)), float64(20+r.IntN(20)))

	return fractal.NewMountain(r, fractal.MountainParams{
		Start:      geom.Pt(float64(center-half), float64(y)),
		End:        geom.Pt(float64(center+half), float64(y)),
		Height:     variation,
		Decay:      0.8,
		PeakHeight: param.Scalar(peak),
		Depth:      5,
		Color:      palette.RandomGrey(r, 50, 200),
	})
}

// Tree grows a health-based tree rooted at (x, y), scaled and faded by its
// depth relative to final.
func (c Config) Tree(r *rand.Rand, x, y, final int) (*fractal.Tree, error) {
	ratio := depthRatio(y, c.TreeScaleOrigin, final)
	trunk := float64(40+r.IntN(30)) * ratio
	hue := c.TreeLeafHues[r.IntN(len(c.TreeLeafHues))]

	t := fractal.NewTree("tree", palette.Brown, palette.DarkGreen, fractal.LeafStyle{Hue: hue, LowBri: 100, HighBri: 255})
	err := t.GrowHealth(r, fractal.HealthParams{
		Start:       geom.Pt(float64(x), float64(y)),
		Heading:     270,
		Length:      40 * ratio,
		TrunkLength: trunk,
		Angle:       c.TreeAngle,
		HealthSplit: c.TreeHealthSplit,
		Width:       10 * ratio,
	})
	if err != nil {
		return nil, err
	}
	t.Tint(palette.Sky, 1-depthRatio(y, c.TintHorizon, final))
	return t, nil
}

// Bush grows a small uniform tree with green leaves.
func (c Config) Bush(r *rand.Rand, x, y, final int) (*fractal.Tree, error) {
	ratio := depthRatio(y, c.UnderstoryScaleOrigin, final)

	b := fractal.NewTree("bush", palette.DarkerGreen, palette.DarkGreen, fractal.LeafStyle{Hue: c.BushLeafHue, LowBri: 50, HighBri: 100})
	err := b.GrowUniform(r, fractal.UniformParams{
		Start:       geom.Pt(float64(x), float64(y)),
		Heading:     270,
		Length:      20 * ratio,
		MinLength:   2,
		Angle:       c.BushAngle,
		LengthDecay: c.BushLengthDecay,
		WidthDecay:  c.BushWidthDecay,
		Width:       10 * ratio,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Flower plants a five segment flower with random petal colors.
func (c Config) Flower(r *rand.Rand, x, y, final int) (*fractal.Flower, error) {
	ratio := depthRatio(y, c.UnderstoryScaleOrigin, final)
	petal := palette.RandomAny(r, 100)
	center := palette.RandomAny(r, 100)

	return fractal.NewFlower(r, fractal.FlowerParams{
		Start:       geom.Pt(float64(x), float64(y)),
		Length:      40 * ratio,
		Radius:      float64(int(15 * ratio)),
		Tilt:        c.FlowerTilt,
		Segments:    5,
		StemWidth:   3,
		StemColor:   palette.Green,
		PetalColor:  petal,
		CenterColor: center,
	})
}
