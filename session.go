package hologram

import (
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// PacketWriter is the outbound side of a client connection. Both Dragonfly's
// session.Conn and gophertunnel's *minecraft.Conn implement it.
type PacketWriter interface {
	WritePacket(pk packet.Packet) error
}

// Session represents a connected player as seen by holograms.
// It is keyed by the player's UUID, which stays the same across reconnects,
// so holograms never mistake one connection for another by name.
//
// Sessions are created when players join and closed when they leave.
type Session struct {
	// uuid is the identity issued by the client's login chain
	uuid uuid.UUID

	// name is the display name used for PlayerPlaceholder
	name string

	// xuid is empty for offline-mode players
	xuid string

	// conn receives all hologram packets for this session
	conn PacketWriter

	// worldCache is the world the player is currently in
	worldCache atomic.Pointer[world.World]

	// closed indicates if the session has been closed
	closed atomic.Bool

	// manager is the manager that owns this session
	manager *Manager
}

// UUID returns the player's UUID.
func (s *Session) UUID() uuid.UUID {
	return s.uuid
}

// Name returns the player's name.
func (s *Session) Name() string {
	return s.name
}

// XUID returns the player's XUID.
func (s *Session) XUID() string {
	return s.xuid
}

// World returns the world the player is currently in.
func (s *Session) World() *world.World {
	return s.worldCache.Load()
}

// Manager returns the manager that owns this session.
func (s *Session) Manager() *Manager {
	return s.manager
}

// Online returns true until the session is closed.
func (s *Session) Online() bool {
	return !s.closed.Load()
}

// WritePacket sends pk to the player.
func (s *Session) WritePacket(pk packet.Packet) error {
	return s.conn.WritePacket(pk)
}

// String returns a string representation of the session for debugging.
func (s *Session) String() string {
	return "Session{Name: " + s.name + ", XUID: " + s.xuid + ", UUID: " + s.uuid.String() + "}"
}

// setWorld updates the cached world.
func (s *Session) setWorld(w *world.World) {
	s.worldCache.Store(w)
}

// close marks the session closed. It returns false if it already was.
func (s *Session) close() bool {
	return !s.closed.Swap(true)
}
