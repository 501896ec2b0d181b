package hologram

import (
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// Handler keeps a session's holograms in sync with the player it belongs to.
// Every event is forwarded to the wrapped handler.
//
// Concurrency:
// Handlers are executed synchronously by Dragonfly within the world's
// transaction. Holograms do their own locking, so no world state is touched.
type Handler struct {
	player.Handler
	session *Session
}

// NewHandler creates a player.Handler for s that forwards every event to next.
// A nil next is replaced by player.NopHandler.
func NewHandler(s *Session, next player.Handler) *Handler {
	if next == nil {
		next = player.NopHandler{}
	}
	return &Handler{Handler: next, session: s}
}

// Compile-time check that Handler implements player.Handler.
var _ player.Handler = (*Handler)(nil)

// Session returns the session associated with this handler.
func (h *Handler) Session() *Session {
	return h.session
}

// HandleChangeWorld handles the player changing worlds.
func (h *Handler) HandleChangeWorld(p *player.Player, before, after *world.World) {
	if m := h.session.manager; m != nil {
		m.MoveSession(h.session, before, after)
	}
	h.Handler.HandleChangeWorld(p, before, after)
}

// HandleQuit handles the player leaving the server.
func (h *Handler) HandleQuit(p *player.Player) {
	h.Handler.HandleQuit(p)
	if m := h.session.manager; m != nil {
		m.Quit(h.session)
	}
}
