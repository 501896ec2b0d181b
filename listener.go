package hologram

import (
	"sync"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/session"
	"github.com/google/uuid"
)

// connRegistry maps player UUIDs to the connections they were accepted on.
type connRegistry struct {
	mu    sync.Mutex
	conns map[uuid.UUID]PacketWriter
}

// newConnRegistry creates an empty registry.
func newConnRegistry() *connRegistry {
	return &connRegistry{conns: make(map[uuid.UUID]PacketWriter)}
}

// track records conn as the connection of the player with the given UUID,
// replacing any previous one.
func (r *connRegistry) track(id uuid.UUID, conn PacketWriter) {
	r.mu.Lock()
	r.conns[id] = conn
	r.mu.Unlock()
}

// lookup returns the connection of the player with the given UUID.
func (r *connRegistry) lookup(id uuid.UUID) (PacketWriter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// release forgets the connection of the player with the given UUID if it is
// still conn. A newer connection of the same player is kept.
func (r *connRegistry) release(id uuid.UUID, conn PacketWriter) {
	r.mu.Lock()
	if cur, ok := r.conns[id]; ok && cur == conn {
		delete(r.conns, id)
	}
	r.mu.Unlock()
}

// trackingListener records every connection it accepts.
type trackingListener struct {
	server.Listener
	manager *Manager
}

// Accept accepts the next connection and records it by the identity in its
// login chain.
func (l *trackingListener) Accept() (session.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	identity := conn.IdentityData().Identity
	id, err := uuid.Parse(identity)
	if err != nil {
		l.manager.log.Warn("hologram: connection has invalid identity",
			"identity", identity,
			"error", err)
		return conn, nil
	}
	l.manager.conns.track(id, conn)
	return conn, nil
}

// WrapListeners wraps every listener of conf so that the connections they
// accept can be resolved by NewSession. It must be called before conf.New.
func (m *Manager) WrapListeners(conf *server.Config) {
	for i, f := range conf.Listeners {
		conf.Listeners[i] = func(c server.Config) (server.Listener, error) {
			l, err := f(c)
			if err != nil {
				return nil, err
			}
			return &trackingListener{Listener: l, manager: m}, nil
		}
	}
}
