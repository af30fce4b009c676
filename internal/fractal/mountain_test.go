package fractal

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/fractalscape/internal/geom"
	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
)

func exampleMountain(depth int) MountainParams {
	return MountainParams{
		Start:      geom.Pt(0, 600),
		End:        geom.Pt(200, 600),
		Height:     param.Range(50, 150),
		Decay:      0.8,
		PeakHeight: param.Scalar(60),
		Depth:      depth,
		Color:      palette.Grey(120),
	}
}

func TestMountainExample(t *testing.T) {
	m, err := NewMountain(rand.New(rand.NewPCG(2019, 11)), exampleMountain(2))
	require.NoError(t, err)

	interior := m.Interior()
	require.Len(t, interior, 3)
	for _, p := range interior {
		assert.Greater(t, p.X, 0.0)
		assert.Less(t, p.X, 200.0)
	}
	assert.Equal(t, []float64{50, 100, 150}, []float64{interior[0].X, interior[1].X, interior[2].X})

	// The first midpoint is the peak, lifted by exactly the start height.
	assert.Equal(t, 540.0, interior[1].Y)
}

func TestMountainInvariantsAcrossSeeds(t *testing.T) {
	for seed := uint64(0); seed < 40; seed++ {
		depth := int(seed % 9)
		p := exampleMountain(depth)
		p.PeakHeight = param.Range(20, 200)
		p.Height = param.Range(5, 40)

		m, err := NewMountain(rand.New(rand.NewPCG(seed, seed*31)), p)
		require.NoError(t, err)

		require.Len(t, m.Interior(), (1<<depth)-1, "seed %d depth %d", seed, depth)
		assert.Equal(t, p.Start, m.Points[0])
		assert.Equal(t, p.End, m.Points[len(m.Points)-1])

		ground := m.Points[0].Y
		for i, pt := range m.Points {
			require.LessOrEqual(t, pt.Y, ground, "point %d below the base", i)
			if i > 0 {
				require.Greater(t, pt.X, m.Points[i-1].X, "points must stay sorted by x")
			}
		}
	}
}

func TestMountainDepthZeroIsFlat(t *testing.T) {
	m, err := NewMountain(rand.New(rand.NewPCG(1, 1)), exampleMountain(0))
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{geom.Pt(0, 600), geom.Pt(200, 600)}, m.Points)
	assert.Empty(t, m.Interior())
}

func TestMountainRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MountainParams)
	}{
		{name: "negative depth", mutate: func(p *MountainParams) { p.Depth = -1 }},
		{name: "excessive depth", mutate: func(p *MountainParams) { p.Depth = MaxMountainDepth + 1 }},
		{name: "vertical base", mutate: func(p *MountainParams) { p.End.X = p.Start.X }},
		{name: "reversed base", mutate: func(p *MountainParams) { p.Start, p.End = p.End, p.Start }},
		{name: "zero decay", mutate: func(p *MountainParams) { p.Decay = 0 }},
		{name: "decay of one", mutate: func(p *MountainParams) { p.Decay = 1 }},
		{name: "negative height", mutate: func(p *MountainParams) { p.Height = param.Range(-5, 5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := exampleMountain(3)
			tt.mutate(&p)
			_, err := NewMountain(rand.New(rand.NewPCG(1, 1)), p)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestMountainPrimitiveIsFilledPolygon(t *testing.T) {
	m, err := NewMountain(rand.New(rand.NewPCG(3, 3)), exampleMountain(3))
	require.NoError(t, err)

	prims := m.Primitives()
	require.Len(t, prims, 1)
	assert.Equal(t, PrimitivePolygon, prims[0].Kind)
	assert.Equal(t, m.Points, prims[0].Points)
	assert.Equal(t, palette.Grey(120), prims[0].Color)
	assert.Equal(t, "mountain", m.Kind())
}
