package hologram

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
)

// SessionOf extracts the session from a player's handler.
// Returns nil if the player isn't handled by a hologram Handler.
func SessionOf(p *player.Player) *Session {
	if p == nil {
		return nil
	}
	h, ok := p.Handler().(*Handler)
	if !ok {
		return nil
	}
	return h.session
}

// Command extracts the player and session from a command source.
// Returns (nil, nil) if the source is not a player, and a nil session if the
// player has no session.
//
// Usage:
//
//	func (c MyCommand) Run(src cmd.Source, out *cmd.Output, tx *world.Tx) {
//	    p, sess := hologram.Command(src)
//	    if sess == nil {
//	        out.Error("Player-only command")
//	        return
//	    }
//	}
func Command(src cmd.Source) (*player.Player, *Session) {
	p, ok := src.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, SessionOf(p)
}
