package hologram

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Dimension names accepted in HologramConfig.Dimension.
const (
	DimensionOverworld = "overworld"
	DimensionNether    = "nether"
	DimensionEnd       = "end"
)

// Config holds the holograms loaded at startup.
type Config struct {
	// UpdateInterval is how often hologram text is refreshed. Zero disables it.
	UpdateInterval time.Duration `yaml:"update_interval"`

	Holograms []HologramConfig `yaml:"holograms"`
}

// HologramConfig describes a single hologram.
type HologramConfig struct {
	Name      string     `yaml:"name"`
	Dimension string     `yaml:"dimension"` // defaults to overworld
	Position  [3]float64 `yaml:"position"`
	Lines     []string   `yaml:"lines"`
}

// Text returns the text template of the hologram.
func (c HologramConfig) Text() string {
	return strings.Join(c.Lines, "\n")
}

// DefaultConfig returns a Config with sensible defaults and no holograms.
func DefaultConfig() Config {
	return Config{
		UpdateInterval: DefaultUpdateInterval,
	}
}

// LoadConfig loads the hologram config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every problem found in the config.
func (c Config) Validate() error {
	var errs []error
	if c.UpdateInterval < 0 {
		errs = append(errs, fmt.Errorf("update_interval must not be negative, got %s", c.UpdateInterval))
	}

	seen := make(map[string]struct{}, len(c.Holograms))
	for i, h := range c.Holograms {
		if h.Name == "" {
			errs = append(errs, fmt.Errorf("holograms[%d]: name is required", i))
		} else if _, ok := seen[h.Name]; ok {
			errs = append(errs, fmt.Errorf("holograms[%d]: %w: %q", i, ErrDuplicate, h.Name))
		}
		seen[h.Name] = struct{}{}

		switch h.Dimension {
		case "", DimensionOverworld, DimensionNether, DimensionEnd:
		default:
			errs = append(errs, fmt.Errorf("holograms[%d]: unknown dimension %q", i, h.Dimension))
		}
		if len(h.Lines) == 0 {
			errs = append(errs, fmt.Errorf("holograms[%d]: at least one line is required", i))
		}
	}
	return errors.Join(errs...)
}

// Load adds every hologram of cfg to m. worlds resolves a dimension name to the
// world holograms of that dimension are placed in.
func (m *Manager) Load(cfg Config, worlds func(dimension string) *world.World) error {
	var errs []error
	for _, hc := range cfg.Holograms {
		dim := hc.Dimension
		if dim == "" {
			dim = DimensionOverworld
		}

		loc := Location{World: worlds(dim), Pos: mgl64.Vec3(hc.Position)}
		if _, err := m.Add(hc.Name, loc, hc.Text()); err != nil {
			errs = append(errs, fmt.Errorf("loading hologram %q: %w", hc.Name, err))
		}
	}
	return errors.Join(errs...)
}
