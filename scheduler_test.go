package hologram

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RefreshesHolograms(t *testing.T) {
	m := NewBuilder().
		UpdateInterval(5 * time.Millisecond).
		Logger(discardLogger()).
		Init()
	defer m.Shutdown()

	require.True(t, m.Scheduler().Running())

	_, err := m.Add("spawn", Location{}, "Hello %player%")
	require.NoError(t, err)
	_, rec := connect(m, "Alice", nil)

	require.Eventually(t, func() bool {
		for _, pk := range rec.take() {
			if _, ok := pk.(*packet.SetActorData); ok {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
	assert.NotZero(t, m.Scheduler().TickNumber())
}

func TestScheduler_Disabled(t *testing.T) {
	m := NewBuilder().
		UpdateInterval(0).
		Logger(discardLogger()).
		Init()
	defer m.Shutdown()

	assert.False(t, m.Scheduler().Running())
}

func TestScheduler_StartStopIdempotent(t *testing.T) {
	m := newManager(discardLogger(), nil)
	s := m.Scheduler()
	s.SetTickRate(time.Millisecond)

	s.Start()
	s.Start()
	assert.True(t, s.Running())

	s.Stop()
	s.Stop()
	assert.False(t, s.Running())

	s.Start()
	assert.True(t, s.Running())
	s.Stop()
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	var explode atomic.Bool
	m := NewBuilder().
		UpdateInterval(5 * time.Millisecond).
		Logger(discardLogger()).
		Decorator(DecoratorFunc(func(text string, s *Session) string {
			if explode.Load() {
				panic("placeholder failed")
			}
			return text
		})).
		Init()
	defer m.Shutdown()

	_, err := m.Add("spawn", Location{}, "x")
	require.NoError(t, err)
	connect(m, "Alice", nil)

	explode.Store(true)
	start := m.Scheduler().TickNumber()
	require.Eventually(t, func() bool {
		return m.Scheduler().TickNumber() > start+2
	}, time.Second, 5*time.Millisecond)
	assert.True(t, m.Scheduler().Running())
}
