package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/fractalscape/internal/fractal"
	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
)

// smallConfig keeps the foreground short so tests stay fast.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.MountainEnd = 470
	cfg.ForegroundStart = 700
	cfg.SecondaryForegroundStart = 720
	cfg.ForegroundEnd = 760
	return cfg
}

func allPrimitives(s *Scene) []fractal.Primitive {
	var prims []fractal.Primitive
	for _, d := range s.Drawables() {
		prims = append(prims, d.Primitives()...)
	}
	return prims
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestComposeIsDeterministic(t *testing.T) {
	a, err := Generate(smallConfig(), KindScene, 42)
	require.NoError(t, err)
	b, err := Generate(smallConfig(), KindScene, 42)
	require.NoError(t, err)

	assert.Equal(t, allPrimitives(a), allPrimitives(b))
	assert.Equal(t, uint64(42), a.Seed)

	c, err := Generate(smallConfig(), KindScene, 43)
	require.NoError(t, err)
	assert.NotEqual(t, allPrimitives(a), allPrimitives(c))
}

func TestComposeOrdering(t *testing.T) {
	cfg := smallConfig()
	s, err := Compose(NewRand(7), cfg)
	require.NoError(t, err)

	drawables := s.Drawables()
	require.NotEmpty(t, drawables)
	assert.Equal(t, "background", drawables[0].Kind())

	mountains := cfg.MountainEnd - cfg.MountainStart
	require.GreaterOrEqual(t, len(s.Shapes), mountains)
	for i := 0; i < mountains; i++ {
		assert.Equal(t, "mountain", s.Shapes[i].Kind())
	}
	for _, d := range s.Shapes[mountains:] {
		assert.Contains(t, []string{"tree", "bush", "flower"}, d.Kind())
	}
	assert.Equal(t, mountains, s.Counts()["mountain"])
}

func TestComposeMountainFrequency(t *testing.T) {
	cfg := smallConfig()
	cfg.MountainFrequency = 7
	s, err := Compose(NewRand(1), cfg)
	require.NoError(t, err)
	// Rows 450, 457, 464.
	assert.Equal(t, 3, s.Counts()["mountain"])
}

func TestComposeUnderstoryOnlyInSecondaryBand(t *testing.T) {
	cfg := smallConfig()
	cfg.BushChance = 1
	cfg.FlowerChance = 1
	cfg.TreeChance = 100
	s, err := Compose(NewRand(3), cfg)
	require.NoError(t, err)

	// Every row strictly below the secondary start spawns one of each.
	rows := cfg.ForegroundEnd - cfg.SecondaryForegroundStart - 1
	counts := s.Counts()
	assert.Equal(t, rows, counts["bush"])
	assert.Equal(t, rows, counts["flower"])

	for _, d := range s.Shapes {
		if f, ok := d.(*fractal.Flower); ok {
			assert.Greater(t, f.Stem[0].Y, float64(cfg.SecondaryForegroundStart))
		}
	}
}

func TestBackgroundBands(t *testing.T) {
	s, err := Compose(NewRand(5), smallConfig())
	require.NoError(t, err)

	prims := s.Background.Primitives()
	require.Len(t, prims, 2)
	assert.Equal(t, palette.Sky, prims[0].Color)
	assert.Equal(t, palette.DarkGreen, prims[1].Color)
	assert.Equal(t, 450.0, prims[1].Points[0].Y)
	assert.Equal(t, 800.0, prims[1].Points[2].Y)
}

func TestShowcase(t *testing.T) {
	s, err := Generate(DefaultConfig(), KindShowcase, 9)
	require.NoError(t, err)

	require.Len(t, s.Shapes, 3)
	assert.Equal(t, []string{"mountain", "tree", "bush"}, []string{s.Shapes[0].Kind(), s.Shapes[1].Kind(), s.Shapes[2].Kind()})

	m := s.Shapes[0].(*fractal.Mountain)
	width := m.Points[len(m.Points)-1].X - m.Points[0].X
	assert.GreaterOrEqual(t, width, 198.0)
	assert.Less(t, width, 500.0)
	assert.Equal(t, 600.0, m.Points[0].Y)

	tree := s.Shapes[1].(*fractal.Tree)
	require.NotEmpty(t, tree.Branches)
	assert.Equal(t, 550.0, tree.Branches[0].From.X)
	// At the front row the tree is untinted, so the trunk keeps its color.
	assert.Equal(t, palette.Brown, tree.Branches[0].Color)

	assert.Len(t, s.Background.Primitives(), 1)
}

func TestTreePresetFadesWithDistance(t *testing.T) {
	cfg := DefaultConfig()
	far, err := cfg.Tree(NewRand(11), 100, 300, 800)
	require.NoError(t, err)
	for _, b := range far.Branches {
		assert.Equal(t, palette.Sky, b.Color)
	}

	near, err := cfg.Tree(NewRand(11), 100, 800, 800)
	require.NoError(t, err)
	assert.Equal(t, palette.Brown, near.Branches[0].Color)
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	_, err := Generate(DefaultConfig(), Kind("forest"), 1)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseKind("forest")
	require.ErrorIs(t, err, ErrInvalidConfig)

	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindScene, k)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero width", mutate: func(c *Config) { c.Width = 0 }},
		{name: "huge canvas", mutate: func(c *Config) { c.Height = maxCanvas + 1 }},
		{name: "inverted mountain band", mutate: func(c *Config) { c.MountainStart = 600 }},
		{name: "mountain band off canvas", mutate: func(c *Config) { c.MountainEnd = 900 }},
		{name: "zero frequency", mutate: func(c *Config) { c.MountainFrequency = 0 }},
		{name: "inverted foreground", mutate: func(c *Config) { c.ForegroundEnd = 400 }},
		{name: "zero bush chance", mutate: func(c *Config) { c.BushChance = 0 }},
		{name: "zero flower chance", mutate: func(c *Config) { c.FlowerChance = 0 }},
		{name: "negative tree chance", mutate: func(c *Config) { c.TreeChance = -2 }},
		{name: "tint horizon at canvas bottom", mutate: func(c *Config) { c.TintHorizon = c.Height }},
		{name: "foreground above tree origin", mutate: func(c *Config) { c.ForegroundStart = 100; c.MountainStart = 50; c.MountainEnd = 100 }},
		{name: "understory above its origin", mutate: func(c *Config) { c.SecondaryForegroundStart = 300 }},
		{name: "secondary past foreground end", mutate: func(c *Config) { c.SecondaryForegroundStart = 801 }},
		{name: "tree angle too wide", mutate: func(c *Config) { c.TreeAngle = param.Range(10, 120) }},
		{name: "tree split too large", mutate: func(c *Config) { c.TreeHealthSplit = param.Scalar(180) }},
		{name: "bush decay never shrinks", mutate: func(c *Config) { c.BushLengthDecay = param.Scalar(100) }},
		{name: "zero bush width decay", mutate: func(c *Config) { c.BushWidthDecay = param.Scalar(0) }},
		{name: "flower tilt past horizontal", mutate: func(c *Config) { c.FlowerTilt = param.Range(-100, 15) }},
		{name: "no tree hues", mutate: func(c *Config) { c.TreeLeafHues = nil }},
		{name: "unknown tree hue", mutate: func(c *Config) { c.TreeLeafHues = []palette.Hue{"purple"} }},
		{name: "unknown bush hue", mutate: func(c *Config) { c.BushLeafHue = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

			_, err := Compose(NewRand(1), cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestPresetsFollowConfiguredShapes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TreeAngle = param.Scalar(0)
	cfg.TreeLeafHues = []palette.Hue{palette.HueBlue}
	cfg.BushLeafHue = palette.HueRed
	cfg.FlowerTilt = param.Scalar(0)
	r := NewRand(4)

	tree, err := cfg.Tree(r, 500, 790, cfg.Height)
	require.NoError(t, err)
	assert.Equal(t, palette.HueBlue, tree.Leaf.Hue)
	for _, b := range tree.Branches {
		// With no angle every branch keeps growing straight up.
		assert.Equal(t, 270.0, b.Heading)
	}

	bush, err := cfg.Bush(r, 300, 790, cfg.Height)
	require.NoError(t, err)
	assert.Equal(t, palette.HueRed, bush.Leaf.Hue)

	flower, err := cfg.Flower(r, 100, 790, cfg.Height)
	require.NoError(t, err)
	for _, p := range flower.Stem {
		assert.InDelta(t, 100, p.X, 1e-9)
	}
}
