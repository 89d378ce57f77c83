package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/jass/engine"
)

// MCTSPlayer chooses cards with Search. Each decision draws a fresh seed
// from a generator seeded once at construction, so a game replays
// identically for the same seed.
type MCTSPlayer struct {
	engine.NopObserver

	iterations int
	seeds      *rand.Rand
	log        logrus.FieldLogger
}

// NewMCTSPlayer validates the iteration budget and returns a player.
func NewMCTSPlayer(seed uint64, iterations int, log logrus.FieldLogger) (*MCTSPlayer, error) {
	if iterations < MinIterations {
		return nil, fmt.Errorf("%w: %d iterations, need at least %d",
			engine.ErrInvalidConfiguration, iterations, MinIterations)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MCTSPlayer{
		iterations: iterations,
		seeds:      rand.New(rand.NewPCG(seed, seed^0x5bd1e995)),
		log:        log,
	}, nil
}

// CardToPlay implements engine.Player. The search itself is not
// interruptible; ctx is only checked before it starts.
func (p *MCTSPlayer) CardToPlay(ctx context.Context, state engine.TurnState, hand engine.CardSet) (engine.Card, error) {
	if err := ctx.Err(); err != nil {
		return engine.CardInvalid, err
	}
	start := time.Now()
	r, err := Search(state, hand, p.seeds.Uint64(), p.iterations)
	if err != nil {
		return engine.CardInvalid, err
	}
	p.log.WithFields(logrus.Fields{
		"card":       r.Card.String(),
		"nodes":      r.Nodes,
		"iterations": r.Iterations,
		"elapsed":    time.Since(start),
	}).Debug("mcts: card chosen")
	return r.Card, nil
}

// RandomPlayer plays a uniformly random legal card.
type RandomPlayer struct {
	engine.NopObserver

	rng *rand.Rand
}

// NewRandomPlayer returns a player seeded with seed.
func NewRandomPlayer(seed uint64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewPCG(seed, seed^0xc2b2ae35))}
}

// CardToPlay implements engine.Player.
func (p *RandomPlayer) CardToPlay(ctx context.Context, state engine.TurnState, hand engine.CardSet) (engine.Card, error) {
	if err := ctx.Err(); err != nil {
		return engine.CardInvalid, err
	}
	legal := state.Trick().LegalPlays(hand)
	if legal.IsEmpty() {
		return engine.CardInvalid, fmt.Errorf("%w: no playable card in %s", engine.ErrIllegalState, hand)
	}
	return legal.Get(p.rng.IntN(legal.Size()))
}

var (
	_ engine.Player = (*MCTSPlayer)(nil)
	_ engine.Player = (*RandomPlayer)(nil)
)
