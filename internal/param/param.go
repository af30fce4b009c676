// Package param holds the "scalar or range" configuration values used by the
// generators.
package param

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Param is either a fixed value or a half-open integer range [Lo, Hi) that is
// sampled every time it is resolved.
type Param struct {
	Lo     float64
	Hi     float64
	ranged bool
}

// Scalar returns a Param that always resolves to v.
func Scalar(v float64) Param {
	return Param{Lo: v, Hi: v}
}

// Range returns a Param resolving to a uniformly drawn integer in [lo, hi).
// An empty range resolves to lo.
func Range(lo, hi float64) Param {
	return Param{Lo: lo, Hi: hi, ranged: true}
}

// IsRange reports whether p samples a value on each resolution.
func (p Param) IsRange() bool {
	return p.ranged
}

// Resolve returns a concrete value for p, drawing from r for ranges.
func (p Param) Resolve(r *rand.Rand) float64 {
	if !p.sampled() {
		return p.Lo
	}
	lo, hi := int(p.Lo), int(p.Hi)
	return float64(lo + r.IntN(hi-lo))
}

// Min is the smallest value Resolve can return.
func (p Param) Min() float64 {
	if !p.sampled() {
		return p.Lo
	}
	return float64(int(p.Lo))
}

// Max is the largest value Resolve can return.
func (p Param) Max() float64 {
	if !p.sampled() {
		return p.Lo
	}
	return float64(int(p.Hi) - 1)
}

// Scale multiplies both bounds by f.
func (p Param) Scale(f float64) Param {
	return Param{Lo: p.Lo * f, Hi: p.Hi * f, ranged: p.ranged}
}

// Within reports whether every value Resolve can return lies in [lo, hi].
func (p Param) Within(lo, hi float64) bool {
	return p.Min() >= lo && p.Max() <= hi
}

func (p Param) sampled() bool {
	return p.ranged && int(p.Lo) < int(p.Hi)
}

func (p Param) String() string {
	if p.IsRange() {
		return fmt.Sprintf("%g:%g", p.Lo, p.Hi)
	}
	return strconv.FormatFloat(p.Lo, 'g', -1, 64)
}

// MarshalJSON encodes scalars as a number and ranges as [lo, hi].
func (p Param) MarshalJSON() ([]byte, error) {
	if p.IsRange() {
		return json.Marshal([2]float64{p.Lo, p.Hi})
	}
	return json.Marshal(p.Lo)
}

// UnmarshalJSON accepts either a number or a two element array.
func (p *Param) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("param: empty value")
	}
	if b[0] == '[' {
		var bounds []float64
		if err := json.Unmarshal(b, &bounds); err != nil {
			return fmt.Errorf("param: decode range: %w", err)
		}
		if len(bounds) != 2 {
			return fmt.Errorf("param: range needs 2 values, got %d", len(bounds))
		}
		*p = Range(bounds[0], bounds[1])
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("param: decode scalar: %w", err)
	}
	*p = Scalar(v)
	return nil
}

// Decode implements envconfig.Decoder. Accepted forms are "40" and "10:40".
func (p *Param) Decode(value string) error {
	lo, hi, isRange := strings.Cut(strings.TrimSpace(value), ":")
	loV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return fmt.Errorf("param: parse %q: %w", value, err)
	}
	if !isRange {
		*p = Scalar(loV)
		return nil
	}
	hiV, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return fmt.Errorf("param: parse %q: %w", value, err)
	}
	*p = Range(loV, hiV)
	return nil
}
