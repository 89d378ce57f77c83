// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/jass/engine"
	"github.com/jason-s-yu/jass/internal/cache"
	"github.com/jason-s-yu/jass/internal/database"
)

var (
	// ErrGameOver is returned when advancing a finished game.
	ErrGameOver = errors.New("game: game is over")
	// ErrIllegalCard is returned when a player answers with a card it may
	// not play.
	ErrIllegalCard = errors.New("game: illegal card")
)

// OnGameEndFunc is called once when a team reaches the winning total.
type OnGameEndFunc func(gameID uuid.UUID, winner engine.TeamID, final engine.Score)

// openingCard is held by the player who opens the first turn.
var openingCard = engine.NewCard(engine.SuitDiamond, engine.RankSeven)

// Game runs a Jass game between four players until one team reaches
// engine.WinningPoints.
type Game struct {
	ID uuid.UUID

	players [engine.NumPlayers]engine.Player
	names   map[engine.PlayerID]string

	shuffler *engine.Shuffler
	trumpRng *rand.Rand

	state     engine.TurnState
	hands     [engine.NumPlayers]engine.CardSet
	opener    engine.PlayerID
	turns     int
	needsDeal bool

	over   bool
	winner engine.TeamID
	final  engine.Score

	baseLog     logrus.FieldLogger
	log         *logrus.Entry
	snapshots   cache.Store
	results     database.ResultStore
	onGameEnd   OnGameEndFunc
	actionIndex int

	mu sync.Mutex
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the parent logger; the game adds its id field.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Game) { g.baseLog = l }
}

// WithSnapshotStore saves the turn state after every trick and publishes
// the action log.
func WithSnapshotStore(s cache.Store) Option { return func(g *Game) { g.snapshots = s } }

// WithResultStore saves the result when the game ends.
func WithResultStore(s database.ResultStore) Option { return func(g *Game) { g.results = s } }

// WithOnGameEnd registers a callback run when the game ends.
func WithOnGameEnd(fn OnGameEndFunc) Option { return func(g *Game) { g.onGameEnd = fn } }

// WithID overrides the random game id.
func WithID(id uuid.UUID) Option { return func(g *Game) { g.ID = id } }

// New prepares a game. The seed drives both shuffling and trump choice, so
// the same seed and players replay the same game.
func New(seed uint64, players [engine.NumPlayers]engine.Player, names map[engine.PlayerID]string, opts ...Option) (*Game, error) {
	for _, p := range engine.Players {
		if players[p] == nil {
			return nil, fmt.Errorf("game: no player in seat %s", p)
		}
	}
	master := rand.New(rand.NewPCG(seed, seed^0x243f6a8885a308d3))
	g := &Game{
		ID:        uuid.New(),
		players:   players,
		names:     make(map[engine.PlayerID]string, engine.NumPlayers),
		shuffler:  engine.NewShuffler(master.Uint64()),
		trumpRng:  rand.New(rand.NewPCG(master.Uint64(), master.Uint64())),
		needsDeal: true,
		baseLog:   logrus.StandardLogger(),
	}
	for _, p := range engine.Players {
		g.names[p] = names[p]
		if g.names[p] == "" {
			g.names[p] = p.String()
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.baseLog.WithField("game_id", g.ID.String())
	return g, nil
}

// IsGameOver reports whether a team has reached the winning total.
func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.over
}

// Winner returns the winning team once the game is over.
func (g *Game) Winner() (engine.TeamID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner, g.over
}

// TurnState returns the current state of the turn in progress.
func (g *Game) TurnState() engine.TurnState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Score returns the final score once the game is over and the running
// score before that.
func (g *Game) Score() engine.Score {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.over {
		return g.final
	}
	return g.state.Score()
}

// Turns returns how many turns have been dealt.
func (g *Game) Turns() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turns
}

// Hand returns the cards a player still holds.
func (g *Game) Hand(p engine.PlayerID) engine.CardSet {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hands[p]
}

// Play advances trick by trick until the game is over.
func (g *Game) Play(ctx context.Context) (engine.TeamID, error) {
	for {
		if err := g.AdvanceToEndOfNextTrick(ctx); err != nil {
			return 0, err
		}
		if w, over := g.Winner(); over {
			return w, nil
		}
	}
}

// AdvanceToEndOfNextTrick deals a new turn if needed, plays one trick and
// collects it. If that brings a team to the winning total the game ends
// at once, even in the middle of a turn.
func (g *Game) AdvanceToEndOfNextTrick(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.over {
		return ErrGameOver
	}
	if g.needsDeal {
		if err := g.startTurn(ctx); err != nil {
			return err
		}
	}
	if err := g.playTrick(ctx); err != nil {
		return err
	}
	if err := g.collectTrick(ctx); err != nil {
		return err
	}
	if g.reachedWinningPoints() {
		g.declareWinner(ctx)
	}
	return nil
}

// startTurn shuffles, deals and picks trump. The first turn is opened by
// the holder of the seven of diamonds, every later one by the next seat.
// Assumes lock is held by caller.
func (g *Game) startTurn(ctx context.Context) error {
	hands, err := engine.Deal(g.shuffler.Deck())
	if err != nil {
		return fmt.Errorf("game %s: deal: %w", g.ID, err)
	}
	g.hands = hands
	trump := engine.Suits[g.trumpRng.IntN(engine.NumSuits)]

	score := engine.ScoreInitial
	if g.turns == 0 {
		for _, p := range engine.Players {
			g.players[p].SetPlayers(p, g.names)
			if hands[p].Contains(openingCard) {
				g.opener = p
			}
		}
	} else {
		score = g.state.Score().NextTurn()
		g.opener = g.opener.Next(1)
	}
	g.state = engine.InitialTurnState(trump, score, g.opener)
	g.turns++
	g.needsDeal = false

	for _, p := range engine.Players {
		g.players[p].UpdateHand(g.hands[p])
		g.players[p].SetTrump(trump)
	}
	g.log.WithFields(logrus.Fields{"turn": g.turns, "trump": trump.String(), "opener": g.opener.String()}).Debug("turn started")
	g.logAction(ctx, -1, "turn_started", map[string]any{
		"turn": g.turns, "trump": int(trump), "opener": int(g.opener), "score": uint64(score),
	})
	return nil
}

// playTrick asks the players for their cards in order until the trick is
// full. Each card must be in the player's hand and legal on the current
// trick. A trick left partial by an error resumes with the next seat.
// Assumes lock is held by caller.
func (g *Game) playTrick(ctx context.Context) error {
	if g.state.Trick().IsEmpty() {
		g.broadcast(func(p engine.Player) {
			p.UpdateScore(g.state.Score())
			p.UpdateTrick(g.state.Trick())
		})
	}
	for !g.state.Trick().IsFull() {
		seat, err := g.state.NextPlayer()
		if err != nil {
			return fmt.Errorf("game %s: %w", g.ID, err)
		}
		hand := g.hands[seat]
		c, err := g.players[seat].CardToPlay(ctx, g.state, hand)
		if err != nil {
			return fmt.Errorf("game %s: %s (%s): %w", g.ID, seat, g.names[seat], err)
		}
		if !g.state.Trick().LegalPlays(hand).Contains(c) {
			return fmt.Errorf("%w: %s (%s) played %s holding %s on %s",
				ErrIllegalCard, seat, g.names[seat], c, hand, g.state.Trick())
		}
		g.hands[seat] = hand.Remove(c)
		g.players[seat].UpdateHand(g.hands[seat])
		if g.state, err = g.state.WithCardPlayed(c); err != nil {
			return fmt.Errorf("game %s: %w", g.ID, err)
		}
		g.broadcast(func(p engine.Player) { p.UpdateTrick(g.state.Trick()) })
		g.logAction(ctx, int(seat), "card_played", map[string]any{"card": int(c), "trick": g.state.Trick().Index()})
	}
	return nil
}

// collectTrick credits the full trick and saves a snapshot.
// Assumes lock is held by caller.
func (g *Game) collectTrick(ctx context.Context) error {
	trick := g.state.Trick()
	winner, err := trick.Winner()
	if err != nil {
		return fmt.Errorf("game %s: %w", g.ID, err)
	}
	if g.state, err = g.state.WithTrickCollected(); err != nil {
		return fmt.Errorf("game %s: %w", g.ID, err)
	}
	g.needsDeal = g.state.IsTerminal()

	g.log.WithFields(logrus.Fields{
		"trick":  trick.Index(),
		"winner": winner.String(),
		"points": trick.Points(),
		"score":  g.state.Score().String(),
	}).Debug("trick collected")
	g.logAction(ctx, int(winner), "trick_collected", map[string]any{
		"trick": trick.Index(), "points": trick.Points(), "score": uint64(g.state.Score()),
	})
	g.saveSnapshot(ctx)
	return nil
}

func (g *Game) reachedWinningPoints() bool {
	s := g.state.Score()
	return s.TotalPoints(engine.Team1) >= engine.WinningPoints || s.TotalPoints(engine.Team2) >= engine.WinningPoints
}

// declareWinner closes the game on the current score.
// Assumes lock is held by caller.
func (g *Game) declareWinner(ctx context.Context) {
	g.final = g.state.Score().NextTurn()
	g.winner = engine.Team2
	if g.final.TotalPoints(engine.Team1) >= engine.WinningPoints {
		g.winner = engine.Team1
	}
	g.over = true

	g.broadcast(func(p engine.Player) {
		p.UpdateScore(g.final)
		p.SetWinningTeam(g.winner)
	})
	g.log.WithFields(logrus.Fields{
		"winner": g.winner.String(),
		"score":  g.final.String(),
		"turns":  g.turns,
	}).Info("game over")
	g.logAction(ctx, -1, "game_end", map[string]any{"winner": int(g.winner), "score": uint64(g.final)})
	g.persistResult(ctx)
	if g.onGameEnd != nil {
		g.onGameEnd(g.ID, g.winner, g.final)
	}
}

func (g *Game) broadcast(fn func(engine.Player)) {
	for _, p := range engine.Players {
		fn(g.players[p])
	}
}

// logAction appends an entry to the game's action log in the snapshot
// store. Failures are logged and do not stop the game.
// Assumes lock is held by caller.
func (g *Game) logAction(ctx context.Context, seat int, actionType string, payload map[string]any) {
	g.actionIndex++
	if g.snapshots == nil {
		return
	}
	rec := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorSeat:     seat,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := g.snapshots.PublishGameAction(ctx, rec); err != nil {
		g.log.WithError(err).WithField("action", actionType).Warn("failed publishing action")
	}
}

func (g *Game) saveSnapshot(ctx context.Context) {
	if g.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := g.snapshots.SaveSnapshot(ctx, g.ID, g.state); err != nil {
		g.log.WithError(err).Warn("failed saving snapshot")
	}
}

func (g *Game) persistResult(ctx context.Context) {
	if g.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := g.results.SaveResult(ctx, database.Result{
		GameID:      g.ID,
		Winner:      g.winner,
		Team1Points: g.final.TotalPoints(engine.Team1),
		Team2Points: g.final.TotalPoints(engine.Team2),
		Turns:       g.turns,
		FinishedAt:  time.Now(),
	})
	if err != nil {
		g.log.WithError(err).Warn("failed saving result")
	}
}
