// Command jass-remote serves an MCTS player to a remote jass table.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jason-s-yu/jass/engine/agent"
	"github.com/jason-s-yu/jass/internal/config"
	"github.com/jason-s-yu/jass/internal/player"
	"github.com/jason-s-yu/jass/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("jass-remote: configuration")
	}
	log := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	mcts, err := agent.NewMCTSPlayer(seed, cfg.Iterations, log)
	if err != nil {
		log.WithError(err).Fatal("jass-remote: player")
	}
	srv := remote.NewServer(player.NewPrinting(mcts, log), cfg.JWTSecret, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.ListenAddr) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info("jass-remote: shutting down")
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("jass-remote: server")
	}
}
