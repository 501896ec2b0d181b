package hologram

import (
	"log/slog"
	"time"

	"github.com/df-mc/dragonfly/server/cmd"
)

// Builder configures a Manager before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	interval  time.Duration
	decorator Decorator
	log       *slog.Logger
	command   bool
}

// NewBuilder creates a new hologram builder.
func NewBuilder() *Builder {
	return &Builder{interval: DefaultUpdateInterval}
}

// UpdateInterval sets how often holograms are refreshed. Zero disables
// periodic refreshes.
func (b *Builder) UpdateInterval(d time.Duration) *Builder {
	b.interval = d
	return b
}

// Decorator sets the placeholder hook applied to every hologram.
//
// Example:
//
//	builder.Decorator(hologram.DecoratorFunc(func(text string, s *hologram.Session) string {
//	    return strings.ReplaceAll(text, "%online%", strconv.Itoa(srv.PlayerCount()))
//	}))
func (b *Builder) Decorator(d Decorator) *Builder {
	b.decorator = d
	return b
}

// Logger sets the logger. Defaults to slog.Default().
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.log = l
	return b
}

// Command registers the /hologram command with Dragonfly's command system.
func (b *Builder) Command() *Builder {
	b.command = true
	return b
}

// Init creates the Manager and starts its scheduler.
func (b *Builder) Init() *Manager {
	log := b.log
	if log == nil {
		log = slog.Default()
	}

	m := newManager(log, b.decorator)
	m.scheduler.SetTickRate(b.interval)

	if b.command {
		cmd.Register(NewCommand(m))
	}

	m.Start()
	return m
}
