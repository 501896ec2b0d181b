package hologram

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

const (
	// nameTagScale shrinks the body out of sight. Zero breaks debug clients.
	nameTagScale float32 = 0.01

	// gameTypeSurvival is the game type the fake player is added with.
	gameTypeSurvival int32 = 0
)

// spawnPackets returns the packets that make the hologram appear with text as
// its name tag.
//
// A custom name tag is only accepted through a player list entry, so the entry
// is added right before the player and removed right after it. The client never
// renders the entry in the list.
func (h *Hologram) spawnPackets(text string) []packet.Packet {
	return []packet.Packet{
		&packet.PlayerList{
			ActionType: packet.PlayerListActionAdd,
			Entries: []protocol.PlayerListEntry{{
				UUID:           h.uuid,
				EntityUniqueID: h.id,
				Username:       text,
				Skin:           h.appearance,
			}},
		},
		&packet.AddPlayer{
			UUID:            h.uuid,
			Username:        text,
			EntityRuntimeID: uint64(h.id),
			Position:        vec64To32(h.loc.Pos),
			GameType:        gameTypeSurvival,
			HeldItem:        protocol.ItemInstance{},
			AbilityData: protocol.AbilityData{
				EntityUniqueID: h.id,
			},
			EntityMetadata: map[uint32]any{
				protocol.EntityDataKeyFlags: int64(1) << protocol.EntityDataFlagNoAI,
				protocol.EntityDataKeyScale: nameTagScale,
			},
		},
		&packet.PlayerList{
			ActionType: packet.PlayerListActionRemove,
			Entries: []protocol.PlayerListEntry{{
				UUID: h.uuid,
			}},
		},
	}
}

// nameTagPacket returns a packet that sets only the name tag of the hologram.
func (h *Hologram) nameTagPacket(text string) packet.Packet {
	return &packet.SetActorData{
		EntityRuntimeID: uint64(h.id),
		EntityMetadata: map[uint32]any{
			protocol.EntityDataKeyName: text,
		},
	}
}

// removePacket returns a packet that removes the hologram entity.
func (h *Hologram) removePacket() packet.Packet {
	return &packet.RemoveActor{EntityUniqueID: h.id}
}

// vec64To32 converts a world position to its network representation.
func vec64To32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
