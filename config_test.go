package hologram

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
update_interval: 2s
holograms:
  - name: spawn
    position: [0.5, 66, 0.5]
    lines:
      - "<gold>Welcome</gold>"
      - "%player%"
  - name: portal
    dimension: nether
    position: [10, 70, -4]
    lines: ["Back to spawn"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holograms.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Second, cfg.UpdateInterval)
	require.Len(t, cfg.Holograms, 2)
	assert.Equal(t, "spawn", cfg.Holograms[0].Name)
	assert.Equal(t, [3]float64{0.5, 66, 0.5}, cfg.Holograms[0].Position)
	assert.Equal(t, "<gold>Welcome</gold>\n%player%", cfg.Holograms[0].Text())
	assert.Equal(t, DimensionNether, cfg.Holograms[1].Dimension)
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "holograms: {"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{
		UpdateInterval: -time.Second,
		Holograms: []HologramConfig{
			{Name: "a", Lines: []string{"x"}},
			{Name: "a", Lines: []string{"y"}},
			{Name: "", Lines: []string{"z"}},
			{Name: "b", Dimension: "moon", Lines: []string{"w"}},
			{Name: "c"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "update_interval")
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), `unknown dimension "moon"`)
	assert.Contains(t, err.Error(), "at least one line")
}

func TestManager_Load(t *testing.T) {
	m := newTestManager(t)
	overworld, nether := new(world.World), new(world.World)

	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	var asked []string
	err = m.Load(cfg, func(dim string) *world.World {
		asked = append(asked, dim)
		if dim == DimensionNether {
			return nether
		}
		return overworld
	})
	require.NoError(t, err)

	assert.Equal(t, []string{DimensionOverworld, DimensionNether}, asked)
	spawn := m.Hologram("spawn")
	require.NotNil(t, spawn)
	assert.Same(t, overworld, spawn.World())
	assert.Equal(t, mgl64.Vec3{0.5, 66, 0.5}, spawn.Location().Pos)
	assert.Same(t, nether, m.Hologram("portal").World())

	err = m.Load(cfg, func(string) *world.World { return overworld })
	assert.ErrorIs(t, err, ErrDuplicate)
}
