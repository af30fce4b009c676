package engine

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"

	"github.com/inamate/fractalscape/internal/scene"
)

// SceneRequest is the composition a client asked for.
type SceneRequest struct {
	Kind scene.Kind
	Seed uint64
}

// ParseSceneRequest reads "kind" and "seed" from q. A missing seed falls back
// to fixedSeed, or to a fresh random seed when fixedSeed is zero.
func ParseSceneRequest(q url.Values, fixedSeed uint64) (SceneRequest, error) {
	kind, err := scene.ParseKind(q.Get("kind"))
	if err != nil {
		return SceneRequest{}, err
	}
	seed, err := ResolveSeed(q.Get("seed"), fixedSeed)
	if err != nil {
		return SceneRequest{}, err
	}
	return SceneRequest{Kind: kind, Seed: seed}, nil
}

// ResolveSeed parses raw, falling back like ParseSceneRequest does.
func ResolveSeed(raw string, fixedSeed uint64) (uint64, error) {
	if raw == "" {
		if fixedSeed != 0 {
			return fixedSeed, nil
		}
		return rand.Uint64(), nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: seed %q is not an unsigned integer", scene.ErrInvalidConfig, raw)
	}
	return seed, nil
}
