package hologram

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

var (
	// ErrDuplicate is returned by Manager.Add when the name is already taken.
	ErrDuplicate = errors.New("hologram: duplicate name")

	// ErrNoConnection is returned by Manager.NewSession when no connection was
	// tracked for the player. See Manager.WrapListeners.
	ErrNoConnection = errors.New("hologram: no connection tracked")
)

// Manager is the central hologram coordinator.
// It owns the sessions of connected players, the registered holograms and the
// scheduler that keeps their text current. It implements Roster.
// Multiple Manager instances can coexist in the same process.
type Manager struct {
	// sessions holds all active sessions
	sessions   map[uuid.UUID]*Session
	sessionsMu sync.RWMutex

	// sessionsByName provides Name-based session lookup
	sessionsByName   map[string]*Session
	sessionsByNameMu sync.RWMutex

	// holograms holds all registered holograms by name
	holograms   map[string]*Hologram
	hologramsMu sync.RWMutex

	// conns holds connections accepted by wrapped listeners
	conns *connRegistry

	decorator Decorator
	log       *slog.Logger

	// scheduler refreshes hologram text periodically
	scheduler *Scheduler
}

// newManager creates a new manager.
func newManager(log *slog.Logger, decorator Decorator) *Manager {
	m := &Manager{
		sessions:       make(map[uuid.UUID]*Session),
		sessionsByName: make(map[string]*Session),
		holograms:      make(map[string]*Hologram),
		conns:          newConnRegistry(),
		decorator:      decorator,
		log:            log,
	}
	m.scheduler = newScheduler(m)
	return m
}

// NewSession creates a new session for a player and shows it the holograms of
// its world. The player's connection must have been accepted by a listener
// wrapped with WrapListeners.
func (m *Manager) NewSession(p *player.Player) (*Session, error) {
	conn, ok := m.conns.lookup(p.UUID())
	if !ok {
		return nil, fmt.Errorf("%w: player %s", ErrNoConnection, p.Name())
	}
	return m.Connect(p.UUID(), p.Name(), p.XUID(), p.Tx().World(), conn), nil
}

// Connect creates a session for a player in world w whose packets are written
// to conn, and shows it the holograms of w. An open session with the same UUID
// is closed first.
func (m *Manager) Connect(id uuid.UUID, name, xuid string, w *world.World, conn PacketWriter) *Session {
	if old := m.Session(id); old != nil {
		m.Quit(old)
	}

	s := &Session{
		uuid:    id,
		name:    name,
		xuid:    xuid,
		conn:    conn,
		manager: m,
	}
	s.setWorld(w)
	m.addSession(s)

	for _, h := range m.Holograms() {
		if h.World() == w {
			h.SpawnTo(s)
		}
	}
	m.log.Debug("hologram: session opened", "player", name, "uuid", id)
	return s
}

// Quit closes s. Holograms forget s without sending anything, since its
// connection is gone.
func (m *Manager) Quit(s *Session) {
	if s == nil || !s.close() {
		return
	}

	for _, h := range m.Holograms() {
		h.forget(s)
	}
	m.removeSession(s)
	m.conns.release(s.uuid, s.conn)
	m.log.Debug("hologram: session closed", "player", s.name, "uuid", s.uuid)
}

// MoveSession updates the world of s, despawning the holograms of the world it
// left and spawning those of the world it entered.
func (m *Manager) MoveSession(s *Session, from, to *world.World) {
	s.setWorld(to)
	if from == to {
		return
	}

	for _, h := range m.Holograms() {
		switch h.World() {
		case from:
			h.DespawnFrom(s)
		case to:
			h.SpawnTo(s)
		}
	}
}

// addSession registers a session with the manager.
func (m *Manager) addSession(s *Session) {
	m.sessionsMu.Lock()
	m.sessions[s.uuid] = s
	m.sessionsMu.Unlock()

	m.sessionsByNameMu.Lock()
	m.sessionsByName[s.name] = s
	m.sessionsByNameMu.Unlock()
}

// removeSession unregisters a session from the manager.
func (m *Manager) removeSession(s *Session) {
	m.sessionsMu.Lock()
	if m.sessions[s.uuid] == s {
		delete(m.sessions, s.uuid)
	}
	m.sessionsMu.Unlock()

	m.sessionsByNameMu.Lock()
	if m.sessionsByName[s.name] == s {
		delete(m.sessionsByName, s.name)
	}
	m.sessionsByNameMu.Unlock()
}

// Session retrieves a session by UUID.
func (m *Manager) Session(id uuid.UUID) *Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return m.sessions[id]
}

// SessionByName retrieves a session by player name.
func (m *Manager) SessionByName(name string) *Session {
	m.sessionsByNameMu.RLock()
	defer m.sessionsByNameMu.RUnlock()
	return m.sessionsByName[name]
}

// Sessions returns all online sessions.
func (m *Manager) Sessions() []*Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.Online() {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return len(m.sessions)
}

// Add creates a hologram under name and spawns it to every session in its
// world.
func (m *Manager) Add(name string, loc Location, text string) (*Hologram, error) {
	h, err := New(loc, text,
		WithDecorator(m.decorator),
		WithRoster(m),
		WithLogger(m.log))
	if err != nil {
		return nil, err
	}

	m.hologramsMu.Lock()
	if _, ok := m.holograms[name]; ok {
		m.hologramsMu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	m.holograms[name] = h
	m.hologramsMu.Unlock()

	for _, s := range m.Sessions() {
		if s.World() == loc.World {
			h.SpawnTo(s)
		}
	}
	m.log.Info("hologram: added", "name", name, "id", h.ID(), "pos", loc.Pos)
	return h, nil
}

// Hologram retrieves a hologram by name.
func (m *Manager) Hologram(name string) *Hologram {
	m.hologramsMu.RLock()
	defer m.hologramsMu.RUnlock()
	return m.holograms[name]
}

// HologramNames returns the names of all holograms in sorted order.
func (m *Manager) HologramNames() []string {
	m.hologramsMu.RLock()
	defer m.hologramsMu.RUnlock()
	return slices.Sorted(maps.Keys(m.holograms))
}

// Holograms returns a snapshot of all holograms.
func (m *Manager) Holograms() []*Hologram {
	m.hologramsMu.RLock()
	defer m.hologramsMu.RUnlock()
	return slices.Collect(maps.Values(m.holograms))
}

// Remove unregisters the hologram with the given name and despawns it from
// every session. It returns false if no such hologram exists.
func (m *Manager) Remove(name string) bool {
	m.hologramsMu.Lock()
	h, ok := m.holograms[name]
	delete(m.holograms, name)
	m.hologramsMu.Unlock()

	if !ok {
		return false
	}
	h.DespawnFromAll()
	m.log.Info("hologram: removed", "name", name, "id", h.ID())
	return true
}

// Refresh updates the text of every hologram for all of its viewers.
func (m *Manager) Refresh() {
	for _, h := range m.Holograms() {
		h.DoUpdate()
	}
}

// Scheduler returns the scheduler of the manager.
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// Start starts the scheduler.
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Shutdown stops the scheduler, despawns every hologram from every session and
// closes all sessions.
func (m *Manager) Shutdown() {
	m.scheduler.Stop()

	m.hologramsMu.Lock()
	holograms := slices.Collect(maps.Values(m.holograms))
	clear(m.holograms)
	m.hologramsMu.Unlock()

	for _, h := range holograms {
		h.DespawnFromAll()
	}

	m.sessionsMu.RLock()
	sessions := slices.Collect(maps.Values(m.sessions))
	m.sessionsMu.RUnlock()

	for _, s := range sessions {
		m.Quit(s)
	}
}
