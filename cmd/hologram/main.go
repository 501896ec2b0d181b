// Command hologram runs a Dragonfly server with the holograms of a YAML config.
package main

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/player/chat"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/hologram"
	"golang.org/x/sync/errgroup"
)

// ConfigPath is the default path of the hologram config.
const ConfigPath = "holograms.yml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(log)

	cfgPath := ConfigPath
	if p := os.Getenv("HOLOGRAM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := hologram.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}
	slog.Info("config loaded", "path", cfgPath, "holograms", len(cfg.Holograms), "update_interval", cfg.UpdateInterval)

	chat.Global.Subscribe(chat.StdoutSubscriber{})
	conf, err := server.DefaultConfig().Config(log)
	if err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	mngr := hologram.NewBuilder().
		UpdateInterval(cfg.UpdateInterval).
		Decorator(onlinePlaceholder{}).
		Logger(log).
		Command().
		Init()
	mngr.WrapListeners(&conf)

	srv := conf.New()
	srv.Listen()

	if err := mngr.Load(cfg, dimensions(srv)); err != nil {
		return fmt.Errorf("loading holograms: %w", err)
	}

	return serve(ctx, srv.Accept(), func(p *player.Player) {
		sess, err := mngr.NewSession(p)
		if err != nil {
			slog.Warn("session init failed", "player", p.Name(), "err", err)
			p.Disconnect("failed to initialise session")
			return
		}
		p.Handle(hologram.NewHandler(sess, nil))
	}, mngr.Shutdown, srv.Close)
}

// serve hands every accepted player to handle until ctx is cancelled or accept
// ends. stop runs in both cases, closeServer only if accept is still running.
func serve(ctx context.Context, accept iter.Seq[*player.Player], handle func(*player.Player), stop func(), closeServer func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	accepted := make(chan struct{})
	g.Go(func() error {
		// The server may close without a signal.
		defer cancel()
		defer close(accepted)
		for p := range accept {
			handle(p)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		stop()
		select {
		case <-accepted:
			return nil
		default:
		}
		if err := closeServer(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// dimensions resolves dimension names to the worlds of srv.
func dimensions(srv *server.Server) func(string) *world.World {
	return func(dim string) *world.World {
		switch dim {
		case hologram.DimensionNether:
			return srv.Nether()
		case hologram.DimensionEnd:
			return srv.End()
		default:
			return srv.World()
		}
	}
}

// onlinePlaceholder replaces %online% with the number of connected players.
type onlinePlaceholder struct{}

func (onlinePlaceholder) Decorate(text string, s *hologram.Session) string {
	if s == nil || !strings.Contains(text, "%online%") {
		return text
	}
	return strings.ReplaceAll(text, "%online%", strconv.Itoa(s.Manager().SessionCount()))
}
