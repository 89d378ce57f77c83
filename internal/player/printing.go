package player

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/jass/engine"
)

// Printing forwards to an inner player and logs every call at info level.
type Printing struct {
	inner engine.Player
	log   logrus.FieldLogger
	own   engine.PlayerID
}

// NewPrinting wraps inner. A nil log uses the standard logger.
func NewPrinting(inner engine.Player, log logrus.FieldLogger) *Printing {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Printing{inner: inner, log: log}
}

func (p *Printing) CardToPlay(ctx context.Context, state engine.TurnState, hand engine.CardSet) (engine.Card, error) {
	c, err := p.inner.CardToPlay(ctx, state, hand)
	if err != nil {
		p.log.WithError(err).WithField("player", p.own.String()).Warn("no card played")
		return c, err
	}
	p.log.WithFields(logrus.Fields{"player": p.own.String(), "card": c.String()}).Info("my turn, playing")
	return c, nil
}

func (p *Printing) SetPlayers(own engine.PlayerID, names map[engine.PlayerID]string) {
	p.own = own
	fields := logrus.Fields{"player": own.String()}
	for _, id := range engine.Players {
		label := names[id]
		if id == own {
			label += " (me)"
		}
		fields[fmt.Sprintf("seat_%d", int(id)+1)] = label
	}
	p.log.WithFields(fields).Info("players assigned")
	p.inner.SetPlayers(own, names)
}

func (p *Printing) UpdateHand(hand engine.CardSet) {
	p.log.WithFields(logrus.Fields{"player": p.own.String(), "hand": hand.String()}).Info("new hand")
	p.inner.UpdateHand(hand)
}

func (p *Printing) SetTrump(trump engine.Suit) {
	p.log.WithFields(logrus.Fields{"player": p.own.String(), "trump": trump.String()}).Info("trump chosen")
	p.inner.SetTrump(trump)
}

func (p *Printing) UpdateTrick(trick engine.Trick) {
	p.log.WithFields(logrus.Fields{
		"player": p.own.String(),
		"trick":  trick.Index(),
		"leader": trick.Leader().String(),
		"cards":  trick.String(),
	}).Info("trick updated")
	p.inner.UpdateTrick(trick)
}

func (p *Printing) UpdateScore(score engine.Score) {
	p.log.WithFields(logrus.Fields{"player": p.own.String(), "score": score.String()}).Info("score updated")
	p.inner.UpdateScore(score)
}

func (p *Printing) SetWinningTeam(winner engine.TeamID) {
	p.log.WithFields(logrus.Fields{"player": p.own.String(), "winner": winner.String()}).Info("winning team")
	p.inner.SetWinningTeam(winner)
}

var (
	_ engine.Player = (*Paced)(nil)
	_ engine.Player = (*Printing)(nil)
)
