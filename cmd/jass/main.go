// Command jass plays local games between simulated, random and remote
// players until one team reaches 1000 points.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	engine "github.com/jason-s-yu/jass/engine"
	"github.com/jason-s-yu/jass/engine/agent"
	"github.com/jason-s-yu/jass/internal/cache"
	"github.com/jason-s-yu/jass/internal/config"
	"github.com/jason-s-yu/jass/internal/database"
	"github.com/jason-s-yu/jass/internal/game"
	"github.com/jason-s-yu/jass/internal/player"
	"github.com/jason-s-yu/jass/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("jass: configuration")
	}
	log := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("jass: failed")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	specs := make([]player.Spec, len(cfg.Players))
	anyRemote := false
	for i, s := range cfg.Players {
		spec, err := player.ParseSpec(s)
		if err != nil {
			return err
		}
		specs[i] = spec
		anyRemote = anyRemote || spec.Kind == player.KindRemote
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.WithFields(logrus.Fields{"seed": seed, "games": cfg.Games}).Info("jass: starting")

	var opts []game.Option
	opts = append(opts, game.WithLogger(log))
	var shared cache.Store
	if cfg.RedisAddr != "" {
		r, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisTTL)
		if err != nil {
			return err
		}
		defer r.Close()
		shared = r
	}
	var db *database.DB
	if cfg.DatabaseURL != "" {
		var err error
		if db, err = database.Open(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, game.WithResultStore(db))
	}

	g, gctx := errgroup.WithContext(ctx)
	if anyRemote {
		// A remote server hosts one session at a time.
		g.SetLimit(1)
	}
	wins := make([]engine.TeamID, cfg.Games)
	for i := range cfg.Games {
		gameSeed := seed + uint64(i)
		gameOpts := append(slices.Clip(opts), game.WithSnapshotStore(gameStore(shared)))
		g.Go(func() error {
			w, err := playOne(gctx, cfg, log, specs, gameSeed, gameOpts)
			wins[i] = w
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var perTeam [engine.NumTeams]int
	for _, w := range wins {
		perTeam[w]++
	}
	log.WithFields(logrus.Fields{"team1_wins": perTeam[engine.Team1], "team2_wins": perTeam[engine.Team2]}).Info("jass: done")

	if db != nil {
		recent, err := db.RecentResults(ctx, cfg.Games)
		if err != nil {
			return err
		}
		log.WithField("stored", len(recent)).Debug("jass: results stored")
	}
	return nil
}

// gameStore returns the shared store, or an in-memory one that lives only
// as long as a single game.
func gameStore(shared cache.Store) cache.Store {
	if shared != nil {
		return shared
	}
	return cache.NewMemory()
}

func playOne(ctx context.Context, cfg config.Config, log *logrus.Logger, specs []player.Spec, seed uint64, opts []game.Option) (engine.TeamID, error) {
	var players [engine.NumPlayers]engine.Player
	names := make(map[engine.PlayerID]string, engine.NumPlayers)
	for i, spec := range specs {
		seat := engine.Players[i]
		names[seat] = spec.Name
		p, closeFn, err := newPlayer(ctx, cfg, log, spec, seed*engine.NumPlayers+uint64(i))
		if err != nil {
			return 0, fmt.Errorf("seat %s (%s): %w", seat, spec.Name, err)
		}
		if closeFn != nil {
			defer closeFn()
		}
		if cfg.Games == 1 && spec.Kind != player.KindRemote {
			p = player.NewPrinting(p, log.WithField("name", spec.Name))
		}
		players[seat] = p
	}
	gm, err := game.New(seed, players, names, opts...)
	if err != nil {
		return 0, err
	}
	return gm.Play(ctx)
}

func newPlayer(ctx context.Context, cfg config.Config, log *logrus.Logger, spec player.Spec, seed uint64) (engine.Player, func(), error) {
	switch spec.Kind {
	case player.KindSimulated:
		iterations := spec.Iterations
		if iterations == 0 {
			iterations = cfg.Iterations
		}
		m, err := agent.NewMCTSPlayer(seed, iterations, log.WithField("name", spec.Name))
		if err != nil {
			return nil, nil, err
		}
		p, err := player.NewPaced(m, cfg.Pace)
		return p, nil, err
	case player.KindRandom:
		return agent.NewRandomPlayer(seed), nil, nil
	case player.KindRemote:
		addr := spec.Addr
		if addr == "" {
			addr = cfg.RemoteAddr
		}
		c, err := remote.Dial(ctx, addr, remote.DialOptions{
			Secret:  cfg.JWTSecret,
			Subject: spec.Name,
			Log:     log.WithField("name", spec.Name),
		})
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	}
	return nil, nil, fmt.Errorf("%w: kind %q", player.ErrBadSpec, spec.Kind)
}
