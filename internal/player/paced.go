// Package player holds engine.Player decorators used by the harness.
package player

import (
	"context"
	"fmt"
	"time"

	engine "github.com/jason-s-yu/jass/engine"
)

// Paced forwards to an inner player and makes every CardToPlay take at
// least a minimum wall-clock duration, so fast strategies stay watchable.
type Paced struct {
	inner   engine.Player
	minTime time.Duration
}

// NewPaced wraps inner. minTime must not be negative.
func NewPaced(inner engine.Player, minTime time.Duration) (*Paced, error) {
	if minTime < 0 {
		return nil, fmt.Errorf("%w: negative pace %s", engine.ErrInvalidConfiguration, minTime)
	}
	return &Paced{inner: inner, minTime: minTime}, nil
}

// CardToPlay returns the inner player's card once minTime has elapsed since
// the call started, or ctx's error if it is cancelled while waiting.
func (p *Paced) CardToPlay(ctx context.Context, state engine.TurnState, hand engine.CardSet) (engine.Card, error) {
	start := time.Now()
	c, err := p.inner.CardToPlay(ctx, state, hand)
	if err != nil {
		return c, err
	}
	remaining := p.minTime - time.Since(start)
	if remaining <= 0 {
		return c, nil
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C:
		return c, nil
	case <-ctx.Done():
		return engine.CardInvalid, ctx.Err()
	}
}

func (p *Paced) SetPlayers(own engine.PlayerID, names map[engine.PlayerID]string) {
	p.inner.SetPlayers(own, names)
}
func (p *Paced) UpdateHand(hand engine.CardSet)      { p.inner.UpdateHand(hand) }
func (p *Paced) SetTrump(trump engine.Suit)          { p.inner.SetTrump(trump) }
func (p *Paced) UpdateTrick(trick engine.Trick)      { p.inner.UpdateTrick(trick) }
func (p *Paced) UpdateScore(score engine.Score)      { p.inner.UpdateScore(score) }
func (p *Paced) SetWinningTeam(winner engine.TeamID) { p.inner.SetWinningTeam(winner) }
