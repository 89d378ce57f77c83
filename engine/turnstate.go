package engine

import "fmt"

// TurnState is the state of one turn (nine tricks with a fixed trump): the
// score, the cards not yet played by anyone, and the current trick. It is
// a flat value type; transitions return a new value.
type TurnState struct {
	score    Score
	unplayed CardSet
	trick    Trick
}

// InitialTurnState returns the state at the start of a turn.
func InitialTurnState(trump Suit, score Score, first PlayerID) TurnState {
	return TurnState{score: score, unplayed: AllCards, trick: FirstTrick(trump, first)}
}

// TurnStateFromPacked rebuilds a state from its three packed components.
// The trick may be TrickInvalid for a finished turn.
func TurnStateFromPacked(score uint64, unplayed uint64, trick uint32) (TurnState, error) {
	s, err := ScoreFromPacked(score)
	if err != nil {
		return TurnState{}, err
	}
	u, err := CardSetFromPacked(unplayed)
	if err != nil {
		return TurnState{}, err
	}
	t := Trick(trick)
	if t != TrickInvalid {
		if t, err = TrickFromPacked(trick); err != nil {
			return TurnState{}, err
		}
	}
	return TurnState{score: s, unplayed: u, trick: t}, nil
}

func (ts TurnState) Score() Score           { return ts.score }
func (ts TurnState) UnplayedCards() CardSet { return ts.unplayed }
func (ts TurnState) Trick() Trick           { return ts.trick }
func (ts TurnState) PackedScore() uint64    { return uint64(ts.score) }
func (ts TurnState) PackedUnplayed() uint64 { return uint64(ts.unplayed) }
func (ts TurnState) PackedTrick() uint32    { return uint32(ts.trick) }
func (ts TurnState) IsTerminal() bool       { return ts.trick == TrickInvalid }

// NextPlayer returns the player who plays the next card of the trick.
func (ts TurnState) NextPlayer() (PlayerID, error) {
	if ts.IsTerminal() || ts.trick.IsFull() {
		return 0, fmt.Errorf("%w: no card to play on a full trick", ErrIllegalState)
	}
	return ts.trick.Player(ts.trick.Size()), nil
}

// WithCardPlayed plays c on the current trick.
func (ts TurnState) WithCardPlayed(c Card) (TurnState, error) {
	if ts.IsTerminal() {
		return ts, fmt.Errorf("%w: turn is over", ErrIllegalState)
	}
	t, err := ts.trick.WithAddedCard(c)
	if err != nil {
		return ts, err
	}
	return TurnState{score: ts.score, unplayed: ts.unplayed.Remove(c), trick: t}, nil
}

// WithTrickCollected credits the full current trick to its winner's team
// and moves on to the next trick, or ends the turn after the ninth.
func (ts TurnState) WithTrickCollected() (TurnState, error) {
	if ts.IsTerminal() || !ts.trick.IsFull() {
		return ts, fmt.Errorf("%w: trick is not full", ErrIllegalState)
	}
	score, err := ts.score.WithAdditionalTrick(ts.trick.winner().Team(), ts.trick.Points())
	if err != nil {
		return ts, err
	}
	return TurnState{score: score, unplayed: ts.unplayed, trick: ts.trick.nextEmpty()}, nil
}

// WithCardPlayedAndCollected plays c and, if that fills the trick,
// collects it.
func (ts TurnState) WithCardPlayedAndCollected(c Card) (TurnState, error) {
	next, err := ts.WithCardPlayed(c)
	if err != nil || !next.trick.IsFull() {
		return next, err
	}
	return next.WithTrickCollected()
}

// String returns a one-line summary for logs.
func (ts TurnState) String() string {
	return fmt.Sprintf("score=%s unplayed=%d trick=%s", ts.score, ts.unplayed.Size(), ts.trick)
}
