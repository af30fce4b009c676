// Package scene composes generated mountains, trees, bushes and flowers into
// a full landscape, and holds the presets that size each shape by its depth.
package scene

import (
	"fmt"
	"slices"

	"github.com/inamate/fractalscape/internal/fractal"
	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
)

// ErrInvalidConfig is the generator sentinel; scene validation wraps it too.
var ErrInvalidConfig = fractal.ErrInvalidConfig

const maxCanvas = 8192

// Config is the composer's configuration bundle. Band coordinates are screen
// rows; chance fields are 1-in-N denominators rolled once per row.
type Config struct {
	Width  int `envconfig:"WIDTH" default:"1000" json:"width"`
	Height int `envconfig:"HEIGHT" default:"800" json:"height"`

	MountainStart     int `envconfig:"MOUNTAIN_START" default:"450" json:"mountainStart"`
	MountainEnd       int `envconfig:"MOUNTAIN_END" default:"500" json:"mountainEnd"`
	MountainFrequency int `envconfig:"MOUNTAIN_FREQUENCY" default:"1" json:"mountainFrequency"`

	ForegroundStart          int `envconfig:"FOREGROUND_START" default:"500" json:"foregroundStart"`
	ForegroundEnd            int `envconfig:"FOREGROUND_END" default:"800" json:"foregroundEnd"`
	SecondaryForegroundStart int `envconfig:"SECONDARY_FOREGROUND_START" default:"700" json:"secondaryForegroundStart"`

	BushChance   int `envconfig:"BUSH_CHANCE" default:"3" json:"bushChance"`
	FlowerChance int `envconfig:"FLOWER_CHANCE" default:"2" json:"flowerChance"`
	TreeChance   int `envconfig:"TREE_CHANCE" default:"3" json:"treeChance"`

	// Rows at which trees and understory (bushes, flowers) shrink to nothing,
	// and the row beyond which trees are fully faded into the sky.
	TreeScaleOrigin       int `envconfig:"TREE_SCALE_ORIGIN" default:"200" json:"treeScaleOrigin"`
	UnderstoryScaleOrigin int `envconfig:"UNDERSTORY_SCALE_ORIGIN" default:"400" json:"understoryScaleOrigin"`
	TintHorizon           int `envconfig:"TINT_HORIZON" default:"350" json:"tintHorizon"`

	// Shape ranges take "40" or "10:40" from the environment and 40 or
	// [10, 40] from JSON. Hues are palette categories: r, g, b or rg.
	TreeAngle       param.Param   `envconfig:"TREE_ANGLE" default:"10:40" json:"treeAngle"`
	TreeHealthSplit param.Param   `envconfig:"TREE_HEALTH_SPLIT" default:"140" json:"treeHealthSplit"`
	TreeLeafHues    []palette.Hue `envconfig:"TREE_LEAF_HUES" default:"r,g,rg" json:"treeLeafHues"`
	BushAngle       param.Param   `envconfig:"BUSH_ANGLE" default:"40:80" json:"bushAngle"`
	BushLengthDecay param.Param   `envconfig:"BUSH_LENGTH_DECAY" default:"70:80" json:"bushLengthDecay"`
	BushWidthDecay  param.Param   `envconfig:"BUSH_WIDTH_DECAY" default:"90" json:"bushWidthDecay"`
	BushLeafHue     palette.Hue   `envconfig:"BUSH_LEAF_HUE" default:"g" json:"bushLeafHue"`
	FlowerTilt      param.Param   `envconfig:"FLOWER_TILT" default:"-15:15" json:"flowerTilt"`
}

// DefaultConfig matches the envconfig defaults above.
func DefaultConfig() Config {
	return Config{
		Width:                    1000,
		Height:                   800,
		MountainStart:            450,
		MountainEnd:              500,
		MountainFrequency:        1,
		ForegroundStart:          500,
		ForegroundEnd:            800,
		SecondaryForegroundStart: 700,
		BushChance:               3,
		FlowerChance:             2,
		TreeChance:               3,
		TreeScaleOrigin:          200,
		UnderstoryScaleOrigin:    400,
		TintHorizon:              350,
		TreeAngle:                param.Range(10, 40),
		TreeHealthSplit:          param.Scalar(fractal.DefaultHealthSplit),
		TreeLeafHues:             []palette.Hue{palette.HueRed, palette.HueGreen, palette.HueYellow},
		BushAngle:                param.Range(40, 80),
		BushLengthDecay:          param.Range(70, 80),
		BushWidthDecay:           param.Scalar(90),
		BushLeafHue:              palette.HueGreen,
		FlowerTilt:               param.Range(-15, 15),
	}
}

// Validate rejects values that would produce inverted bands, divide by zero
// in the depth ratios, or draw nothing but noise.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Width > maxCanvas || c.Height > maxCanvas {
		return fmt.Errorf("%w: canvas %dx%d must be within 1..%d", ErrInvalidConfig, c.Width, c.Height, maxCanvas)
	}
	if c.MountainStart < 0 || c.MountainStart > c.MountainEnd || c.MountainEnd > c.Height {
		return fmt.Errorf("%w: mountain band [%d, %d) must be ordered and inside the canvas", ErrInvalidConfig, c.MountainStart, c.MountainEnd)
	}
	if c.MountainFrequency < 1 {
		return fmt.Errorf("%w: mountain frequency must be at least 1, got %d", ErrInvalidConfig, c.MountainFrequency)
	}
	if c.ForegroundStart < 0 || c.ForegroundStart > c.ForegroundEnd || c.ForegroundEnd > c.Height {
		return fmt.Errorf("%w: foreground band [%d, %d) must be ordered and inside the canvas", ErrInvalidConfig, c.ForegroundStart, c.ForegroundEnd)
	}
	if c.SecondaryForegroundStart > c.ForegroundEnd {
		return fmt.Errorf("%w: secondary foreground start %d is past the foreground end %d", ErrInvalidConfig, c.SecondaryForegroundStart, c.ForegroundEnd)
	}
	chances := []struct {
		name  string
		value int
	}{{"bush", c.BushChance}, {"flower", c.FlowerChance}, {"tree", c.TreeChance}}
	for _, ch := range chances {
		if ch.value < 1 {
			return fmt.Errorf("%w: %s chance denominator must be at least 1, got %d", ErrInvalidConfig, ch.name, ch.value)
		}
	}
	origins := []struct {
		name  string
		value int
	}{{"tree scale origin", c.TreeScaleOrigin}, {"understory scale origin", c.UnderstoryScaleOrigin}, {"tint horizon", c.TintHorizon}}
	for _, o := range origins {
		if o.value < 0 || o.value >= c.Height {
			return fmt.Errorf("%w: %s %d must be inside [0, %d)", ErrInvalidConfig, o.name, o.value, c.Height)
		}
	}
	// Shapes above their scale origin would get negative lengths.
	if c.ForegroundStart < c.TreeScaleOrigin {
		return fmt.Errorf("%w: foreground start %d is above the tree scale origin %d", ErrInvalidConfig, c.ForegroundStart, c.TreeScaleOrigin)
	}
	if c.SecondaryForegroundStart < c.UnderstoryScaleOrigin {
		return fmt.Errorf("%w: secondary foreground start %d is above the understory scale origin %d", ErrInvalidConfig, c.SecondaryForegroundStart, c.UnderstoryScaleOrigin)
	}
	return c.validateShapes()
}

func (c Config) validateShapes() error {
	ranges := []struct {
		name   string
		value  param.Param
		lo, hi float64
	}{
		{"tree angle", c.TreeAngle, 0, 90},
		{"tree health split", c.TreeHealthSplit, 1, fractal.MaxHealthSplit},
		{"bush angle", c.BushAngle, 0, 90},
		{"bush length decay", c.BushLengthDecay, 1, 99},
		{"bush width decay", c.BushWidthDecay, 1, 100},
		{"flower tilt", c.FlowerTilt, -90, 90},
	}
	for _, rg := range ranges {
		if !rg.value.Within(rg.lo, rg.hi) {
			return fmt.Errorf("%w: %s %s must resolve inside [%g, %g]", ErrInvalidConfig, rg.name, rg.value, rg.lo, rg.hi)
		}
	}
	if len(c.TreeLeafHues) == 0 {
		return fmt.Errorf("%w: at least one tree leaf hue is required", ErrInvalidConfig)
	}
	for _, h := range append(slices.Clone(c.TreeLeafHues), c.BushLeafHue) {
		if !h.Valid() {
			return fmt.Errorf("%w: unknown leaf hue %q", ErrInvalidConfig, h)
		}
	}
	return nil
}
