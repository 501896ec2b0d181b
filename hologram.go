// Package hologram provides client-side text holograms for Dragonfly servers.
//
// A hologram is a fake, immobile player entity whose name tag carries the
// hologram text. Nothing about it is simulated server-side: every viewer is
// sent the packets that make the entity appear, and later the packets that
// refresh or remove its name tag.
//
// # Quick Start
//
//	mngr := hologram.NewBuilder().
//	    UpdateInterval(time.Second).
//	    Decorator(hologram.DecoratorFunc(placeholders)).
//	    Init()
//
//	mngr.WrapListeners(&conf)
//	srv := conf.New()
//	srv.Listen()
//
//	mngr.Add("spawn", hologram.Location{World: srv.World(), Pos: mgl64.Vec3{0, 66, 0}},
//	    "<gold>Welcome</gold>\n%player%")
//
//	for p := range srv.Accept() {
//	    sess, err := mngr.NewSession(p)
//	    if err != nil {
//	        p.Disconnect("failed to initialise session")
//	        continue
//	    }
//	    p.Handle(hologram.NewHandler(sess, nil))
//	}
//
// # Visibility
//
// Each hologram tracks, per session, whether it is Hidden or Visible. SpawnTo
// moves a session from Hidden to Visible, DespawnFrom moves it back and
// UpdateFor refreshes the name tag of a Visible session. Every other call is a
// no-op, so callers never need to check state first.
package hologram

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Version is the hologram package version.
const Version = "1.0.0"

// ErrEncoding is returned by New when the shared appearance payload cannot be
// serialised.
var ErrEncoding = errors.New("hologram: appearance encoding failed")

// entityIDBase is far above any runtime id Dragonfly hands out per session.
const entityIDBase int64 = 1 << 48

var entityIDs atomic.Int64

// nextEntityID returns a process-unique entity id.
func nextEntityID() int64 {
	return entityIDBase + entityIDs.Add(1)
}

// Location anchors a hologram in a world.
type Location struct {
	World *world.World
	Pos   mgl64.Vec3
}

// Roster enumerates the sessions currently connected to the server.
type Roster interface {
	Sessions() []*Session
}

// Option configures a Hologram.
type Option func(*Hologram)

// WithDecorator sets the hook used to substitute external placeholders.
func WithDecorator(d Decorator) Option {
	return func(h *Hologram) {
		h.decorator = d
	}
}

// WithRoster sets the roster DespawnFromAll iterates.
func WithRoster(r Roster) Option {
	return func(h *Hologram) {
		h.roster = r
	}
}

// WithLogger sets the logger used to report transport failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hologram) {
		h.log = l
	}
}

// Hologram is a name-tagged fake entity shown to a set of sessions.
//
// Concurrency:
// All methods are safe for concurrent use. Packets for one session are always
// written in the order the operations were called.
type Hologram struct {
	// id is the entity runtime and unique id
	id int64

	// uuid is the identity used in the player list
	uuid uuid.UUID

	loc Location

	appearance protocol.Skin
	decorator  Decorator
	roster     Roster
	log        *slog.Logger

	// mu protects text and visibleTo
	mu        sync.Mutex
	text      string
	visibleTo map[uuid.UUID]*Session
}

// New creates a hologram anchored at loc showing text. The returned error wraps
// ErrEncoding if the shared appearance could not be built.
func New(loc Location, text string, opts ...Option) (*Hologram, error) {
	skin, err := appearance()
	if err != nil {
		return nil, err
	}

	h := &Hologram{
		id:         nextEntityID(),
		uuid:       uuid.New(),
		loc:        loc,
		appearance: skin,
		text:       text,
		visibleTo:  make(map[uuid.UUID]*Session),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ID returns the entity id of the hologram.
func (h *Hologram) ID() int64 {
	return h.id
}

// UUID returns the player list identity of the hologram.
func (h *Hologram) UUID() uuid.UUID {
	return h.uuid
}

// Location returns where the hologram is anchored.
func (h *Hologram) Location() Location {
	return h.loc
}

// World returns the world the hologram is anchored in.
func (h *Hologram) World() *world.World {
	return h.loc.World
}

// Text returns the raw text template.
func (h *Hologram) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

// SetText replaces the text template. Viewers see the new text on the next
// UpdateFor or DoUpdate.
func (h *Hologram) SetText(text string) {
	h.mu.Lock()
	h.text = text
	h.mu.Unlock()
}

// Visible reports whether the hologram is currently shown to s.
func (h *Hologram) Visible(s *Session) bool {
	if s == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.visibleTo[s.uuid]
	return ok
}

// Viewers returns the number of sessions the hologram is shown to.
func (h *Hologram) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.visibleTo)
}

// SpawnTo shows the hologram to s. It returns false without sending anything
// if s is offline or already sees the hologram.
func (h *Hologram) SpawnTo(s *Session) bool {
	if s == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Quit closes a session before it is forgotten, so a session seen online
	// here cannot be left behind in visibleTo.
	if !s.Online() {
		return false
	}
	if _, ok := h.visibleTo[s.uuid]; ok {
		return false
	}

	text := Render(h.text, s, h.decorator)
	for _, pk := range h.spawnPackets(text) {
		h.send(s, pk)
	}
	h.visibleTo[s.uuid] = s
	return true
}

// UpdateFor re-renders the text for s and sends the new name tag. It returns
// false if s is offline or does not see the hologram.
func (h *Hologram) UpdateFor(s *Session) bool {
	if s == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !s.Online() {
		return false
	}
	if _, ok := h.visibleTo[s.uuid]; !ok {
		return false
	}

	h.send(s, h.nameTagPacket(Render(h.text, s, h.decorator)))
	return true
}

// DespawnFrom removes the hologram from s. It returns false if s is offline or
// does not see the hologram.
func (h *Hologram) DespawnFrom(s *Session) bool {
	if s == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !s.Online() {
		return false
	}
	if _, ok := h.visibleTo[s.uuid]; !ok {
		return false
	}

	h.send(s, h.removePacket())
	delete(h.visibleTo, s.uuid)
	return true
}

// DespawnFromAll removes the hologram from every online session of the
// roster. Sessions that never saw the hologram are skipped by DespawnFrom.
// Without a roster only the current viewers are visited.
func (h *Hologram) DespawnFromAll() {
	var sessions []*Session
	if h.roster != nil {
		sessions = h.roster.Sessions()
	} else {
		sessions = h.viewers()
	}

	for _, s := range sessions {
		h.DespawnFrom(s)
	}
}

// DoUpdate refreshes the name tag for every viewer. It is meant to be called
// periodically so that dynamic placeholders stay current.
func (h *Hologram) DoUpdate() {
	for _, s := range h.viewers() {
		h.UpdateFor(s)
	}
}

// viewers returns a snapshot of the sessions the hologram is shown to.
func (h *Hologram) viewers() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions := make([]*Session, 0, len(h.visibleTo))
	for _, s := range h.visibleTo {
		sessions = append(sessions, s)
	}
	return sessions
}

// forget drops s from the viewers without sending anything. It is used once the
// connection of s is gone and the client state went with it.
func (h *Hologram) forget(s *Session) {
	h.mu.Lock()
	delete(h.visibleTo, s.uuid)
	h.mu.Unlock()
}

// send writes pk to s. Transport failures are the transport's concern and are
// only logged.
func (h *Hologram) send(s *Session, pk packet.Packet) {
	if err := s.WritePacket(pk); err != nil {
		h.log.Debug("hologram: packet write failed",
			"hologram", h.id,
			"player", s.name,
			"packet", pk.ID(),
			"error", err)
	}
}
