// Package palette provides the colors used by the generators and the blending
// helpers for gradients and atmospheric depth.
package palette

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// RGB is a color with channels in [0, 255]. Channels stay fractional until the
// color is encoded so repeated blends do not accumulate rounding.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

var (
	Sky         = RGB{135, 206, 235}
	White       = RGB{255, 255, 255}
	Black       = RGB{0, 0, 0}
	Green       = RGB{34, 139, 34}
	DarkGreen   = RGB{0, 100, 0}
	DarkerGreen = RGB{0, 60, 0}
	Brown       = RGB{101, 67, 33}
)

// Grey returns a neutral color with every channel set to v.
func Grey(v int) RGB {
	c := float64(clampChannel(v))
	return RGB{c, c, c}
}

// Lerp interpolates from a to b. t = 0 yields a, t = 1 yields b.
func Lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// DepthTint fades c towards the ambient color by strength, clamped to [0, 1].
func DepthTint(c, ambient RGB, strength float64) RGB {
	if strength <= 0 {
		return c
	}
	if strength >= 1 {
		return ambient
	}
	return Lerp(c, ambient, strength)
}

// Hex encodes the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B))
}

func (c RGB) String() string {
	return c.Hex()
}

func channelByte(v float64) int {
	return clampChannel(int(math.Round(v)))
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Hue selects which channels carry the brightness of a random color.
type Hue string

const (
	HueRed    Hue = "r"
	HueGreen  Hue = "g"
	HueBlue   Hue = "b"
	HueYellow Hue = "rg"
)

// Valid reports whether h is one of the known categories.
func (h Hue) Valid() bool {
	switch h {
	case HueRed, HueGreen, HueBlue, HueYellow:
		return true
	}
	return false
}

func (h Hue) channels() (r, g, b bool) {
	switch h {
	case HueRed:
		return true, false, false
	case HueBlue:
		return false, false, true
	case HueYellow:
		return true, true, false
	default:
		return false, true, false
	}
}

// Random draws a color of the given hue. The hue channels get a brightness in
// [lo, hi); the other channels get that brightness reduced by saturation
// percent, so saturation 100 yields a pure hue and 0 a grey.
func Random(r *rand.Rand, hue Hue, lo, hi, saturation int) RGB {
	brightness := float64(randBetween(r, lo, hi))
	muted := math.Floor(brightness * float64(100-saturation) / 100)

	useR, useG, useB := hue.channels()
	pick := func(on bool) float64 {
		if on {
			return brightness
		}
		return muted
	}
	return RGB{R: pick(useR), G: pick(useG), B: pick(useB)}
}

// RandomAny draws every channel independently from [lo, 256).
func RandomAny(r *rand.Rand, lo int) RGB {
	return RGB{
		R: float64(randBetween(r, lo, 256)),
		G: float64(randBetween(r, lo, 256)),
		B: float64(randBetween(r, lo, 256)),
	}
}

// RandomGrey draws a grey with a level in [lo, hi).
func RandomGrey(r *rand.Rand, lo, hi int) RGB {
	return Grey(randBetween(r, lo, hi))
}

func randBetween(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo)
}
