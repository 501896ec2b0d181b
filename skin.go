package hologram

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/df-mc/dragonfly/server/player/skin"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	skinID       = "Standard_Custom"
	skinGeometry = "geometry.humanoid.custom"
	skinWidth    = 64
	skinHeight   = 32
)

// appearance returns the blank skin shared by every hologram. It is built once
// per process.
var appearance = sync.OnceValues(func() (protocol.Skin, error) {
	s := skin.New(skinWidth, skinHeight)
	s.ModelConfig.Default = skinGeometry
	return encodeSkin(s)
})

// resourcePatch is the skin resource patch document sent with a skin.
type resourcePatch struct {
	Geometry struct {
		Default string `json:"default"`
	} `json:"geometry"`
}

// encodeSkin converts s to its network representation.
func encodeSkin(s skin.Skin) (protocol.Skin, error) {
	b := s.Bounds()
	if want := b.Dx() * b.Dy() * 4; len(s.Pix) != want {
		return protocol.Skin{}, fmt.Errorf("%w: skin has %d pixel bytes, want %d", ErrEncoding, len(s.Pix), want)
	}

	var patch resourcePatch
	patch.Geometry.Default = s.ModelConfig.Default
	data, err := json.Marshal(patch)
	if err != nil {
		return protocol.Skin{}, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	return protocol.Skin{
		SkinID:            skinID,
		FullID:            skinID,
		SkinResourcePatch: data,
		SkinImageWidth:    uint32(b.Dx()),
		SkinImageHeight:   uint32(b.Dy()),
		SkinData:          s.Pix,
		SkinGeometry:      s.Model,
	}, nil
}
