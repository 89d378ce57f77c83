package engine

import "context"

// Player is a strategy seated at the table. CardToPlay must return a
// member of state.Trick().LegalPlays(hand); the other methods are
// notifications a strategy may ignore.
type Player interface {
	CardToPlay(ctx context.Context, state TurnState, hand CardSet) (Card, error)

	SetPlayers(own PlayerID, names map[PlayerID]string)
	UpdateHand(hand CardSet)
	SetTrump(trump Suit)
	UpdateTrick(trick Trick)
	UpdateScore(score Score)
	SetWinningTeam(winner TeamID)
}

// NopObserver implements every notification of Player as a no-op. Embed it
// in strategies that only choose cards.
type NopObserver struct{}

func (NopObserver) SetPlayers(PlayerID, map[PlayerID]string) {}
func (NopObserver) UpdateHand(CardSet)                       {}
func (NopObserver) SetTrump(Suit)                            {}
func (NopObserver) UpdateTrick(Trick)                        {}
func (NopObserver) UpdateScore(Score)                        {}
func (NopObserver) SetWinningTeam(TeamID)                    {}
