package magmavk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUsages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	payload := `{
		"Config": {
			"strings": {"Display": "Window"},
			"bools": {"Validation": true},
			"ints": {"Frames": 3},
			"floats": {"Scale": 1.5}
		},
		"Shaders": {
			"name": "CustomShaders",
			"strings": {"Vertex": "shaders/vert.spv"}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	usages, err := LoadUsages(path)
	require.NoError(t, err)
	require.Contains(t, usages, "Config")
	require.Contains(t, usages, "Shaders")

	config := usages["Config"]
	// Unnamed bags inherit their map key.
	assert.Equal(t, "Config", config.Name)
	assert.Equal(t, "Window", config.String("Display", ""))
	assert.True(t, config.Bool("Validation", false))
	assert.Equal(t, 3, config.Int("Frames", 0))
	assert.InDelta(t, 1.5, config.Float("Scale", 0), 1e-6)

	assert.Equal(t, "CustomShaders", usages["Shaders"].Name)
}

func TestLoadUsagesMissingFile(t *testing.T) {
	_, err := LoadUsages(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestUsageDefaults(t *testing.T) {
	u := NewUsage("Test")
	assert.Equal(t, "fallback", u.String("missing", "fallback"))
	assert.Equal(t, 7, u.Int("missing", 7))
	assert.False(t, u.Bool("missing", false))
	assert.InDelta(t, 2.5, u.Float("missing", 2.5), 1e-6)

	assert.False(t, u.HasNext())
	_, err := u.GetLinkedUsage()
	assert.Error(t, err)

	u.Linked = NewUsage("Next")
	linked, err := u.GetLinkedUsage()
	require.NoError(t, err)
	assert.Equal(t, "Next", linked.Name)
}
