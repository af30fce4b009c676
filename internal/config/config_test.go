package config

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/fractalscape/internal/palette"
	"github.com/inamate/fractalscape/internal/param"
	"github.com/inamate/fractalscape/internal/scene"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, scene.DefaultConfig(), cfg.Scene)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Origins())
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.OriginPatterns())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEED", "1234")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCENE_TREE_CHANCE", "7")
	t.Setenv("SCENE_MOUNTAIN_FREQUENCY", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.Equal(t, 7, cfg.Scene.TreeChance)
	assert.Equal(t, 5, cfg.Scene.MountainFrequency)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadShapeRangesFromEnvironment(t *testing.T) {
	t.Setenv("SCENE_TREE_ANGLE", "5:25")
	t.Setenv("SCENE_TREE_HEALTH_SPLIT", "120")
	t.Setenv("SCENE_TREE_LEAF_HUES", "g,b")
	t.Setenv("SCENE_BUSH_LEAF_HUE", "rg")
	t.Setenv("SCENE_FLOWER_TILT", "-30:30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, param.Range(5, 25), cfg.Scene.TreeAngle)
	assert.Equal(t, param.Scalar(120), cfg.Scene.TreeHealthSplit)
	assert.Equal(t, []palette.Hue{palette.HueGreen, palette.HueBlue}, cfg.Scene.TreeLeafHues)
	assert.Equal(t, palette.HueYellow, cfg.Scene.BushLeafHue)
	assert.Equal(t, param.Range(-30, 30), cfg.Scene.FlowerTilt)
	assert.Equal(t, param.Range(40, 80), cfg.Scene.BushAngle)
}

func TestLoadRejectsBadShapeRanges(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SCENE_TREE_ANGLE", "ten"},
		{"SCENE_TREE_HEALTH_SPLIT", "200"},
		{"SCENE_BUSH_LENGTH_DECAY", "70:120"},
		{"SCENE_TREE_LEAF_HUES", "r,purple"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestSceneConfigFromJSON(t *testing.T) {
	cfg := scene.DefaultConfig()
	require.NoError(t, json.Unmarshal([]byte(`{"treeAngle": 20, "bushAngle": [30, 60], "treeLeafHues": ["r"]}`), &cfg))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, param.Scalar(20), cfg.TreeAngle)
	assert.Equal(t, param.Range(30, 60), cfg.BushAngle)
	assert.Equal(t, []palette.Hue{palette.HueRed}, cfg.TreeLeafHues)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"bushAngle":[30,60]`)
	assert.Contains(t, string(out), `"treeHealthSplit":140`)
}

func TestLoadRejectsInvalidScene(t *testing.T) {
	t.Setenv("SCENE_BUSH_CHANCE", "0")
	_, err := Load()
	require.ErrorIs(t, err, scene.ErrInvalidConfig)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	_, err := Load()
	require.Error(t, err)
}
