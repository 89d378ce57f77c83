package engine

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Packed trick layout (32 bits, least significant first):
//   bits  0-23  four 6-bit card slots, filled from slot 0, empty = CardInvalid
//   bits 24-27  trick index within the turn (0-8)
//   bits 28-29  player who led
//   bits 30-31  trump suit
// ---------------------------------------------------------------------------

const (
	CardsPerTrick = 4

	trickIndexStart  = CardsPerTrick * cardSize
	trickIndexSize   = 4
	trickLeaderStart = trickIndexStart + trickIndexSize
	trickLeaderSize  = 2
	trickTrumpStart  = trickLeaderStart + trickLeaderSize
	trickTrumpSize   = 2

	maxTrickIndex = TricksPerTurn - 1

	emptySlots = Trick(1<<(CardsPerTrick*cardSize) - 1)
)

// Trick is a packed trick.
type Trick uint32

// TrickInvalid follows the last trick of a turn; a turn whose current
// trick is TrickInvalid is over.
const TrickInvalid Trick = 0xFFFF_FFFF

// FirstTrick returns the empty first trick of a turn.
func FirstTrick(trump Suit, leader PlayerID) Trick {
	return emptySlots |
		Trick(leader&0b11)<<trickLeaderStart |
		Trick(trump&0b11)<<trickTrumpStart
}

// TrickFromPacked validates a packed trick coming from outside the engine.
func TrickFromPacked(v uint32) (Trick, error) {
	t := Trick(v)
	if !t.Valid() {
		return TrickInvalid, fmt.Errorf("%w: trick %#x", ErrInvalidEncoding, v)
	}
	return t, nil
}

// Valid reports whether the index is at most 8 and the slots hold a run
// of valid cards followed only by empty slots.
func (t Trick) Valid() bool {
	if t.Index() > maxTrickIndex {
		return false
	}
	empty := false
	for i := 0; i < CardsPerTrick; i++ {
		c := t.card(i)
		switch {
		case c == CardInvalid:
			empty = true
		case empty || !c.Valid():
			return false
		}
	}
	return true
}

func (t Trick) card(i int) Card {
	return Card(Extract(uint32(t), uint(i)*cardSize, cardSize))
}

// Card returns the i-th card played.
func (t Trick) Card(i int) (Card, error) {
	if i < 0 || i >= t.Size() {
		return CardInvalid, fmt.Errorf("%w: card %d of trick with %d", ErrIndexOutOfRange, i, t.Size())
	}
	return t.card(i), nil
}

// Size returns how many cards have been played.
func (t Trick) Size() int {
	for i := 0; i < CardsPerTrick; i++ {
		if t.card(i) == CardInvalid {
			return i
		}
	}
	return CardsPerTrick
}

// IsEmpty reports whether no card has been played.
func (t Trick) IsEmpty() bool { return t.card(0) == CardInvalid }

// IsFull reports whether all four cards have been played.
func (t Trick) IsFull() bool { return t.card(CardsPerTrick-1) != CardInvalid }

// IsLast reports whether this is the ninth trick of the turn.
func (t Trick) IsLast() bool { return t.Index() == maxTrickIndex }

// Index returns the position of the trick within the turn.
func (t Trick) Index() int { return int(Extract(uint32(t), trickIndexStart, trickIndexSize)) }

// Trump returns the trump suit.
func (t Trick) Trump() Suit { return Suit(Extract(uint32(t), trickTrumpStart, trickTrumpSize)) }

// Leader returns the player who plays the first card.
func (t Trick) Leader() PlayerID {
	return PlayerID(Extract(uint32(t), trickLeaderStart, trickLeaderSize))
}

// Player returns the player who plays (or played) the i-th card.
func (t Trick) Player(i int) PlayerID { return t.Leader().Next(i) }

// BaseSuit returns the suit of the first card. The trick must not be empty.
func (t Trick) BaseSuit() Suit { return t.card(0).Suit() }

// WithAddedCard returns t with c in the first empty slot.
func (t Trick) WithAddedCard(c Card) (Trick, error) {
	if !c.Valid() {
		return t, fmt.Errorf("%w: card %#x", ErrInvalidEncoding, uint8(c))
	}
	if t.IsFull() {
		return t, fmt.Errorf("%w: trick is full", ErrIllegalState)
	}
	return t.withAddedCard(c), nil
}

func (t Trick) withAddedCard(c Card) Trick {
	shift := uint(t.Size()) * cardSize
	return t&^(Trick(CardInvalid)<<shift) | Trick(c)<<shift
}

// NextEmpty returns the empty trick that follows a full trick: next index,
// led by the winner, same trump. After the last trick it returns
// TrickInvalid.
func (t Trick) NextEmpty() (Trick, error) {
	if !t.IsFull() {
		return t, fmt.Errorf("%w: trick %d is not full", ErrIllegalState, t.Index())
	}
	return t.nextEmpty(), nil
}

func (t Trick) nextEmpty() Trick {
	if t.IsLast() {
		return TrickInvalid
	}
	return emptySlots |
		Trick(t.Index()+1)<<trickIndexStart |
		Trick(t.winner())<<trickLeaderStart |
		Trick(t.Trump())<<trickTrumpStart
}

// Winner returns the player whose card takes the trick so far.
func (t Trick) Winner() (PlayerID, error) {
	if t.IsEmpty() {
		return 0, fmt.Errorf("%w: empty trick has no winner", ErrIllegalState)
	}
	return t.winner(), nil
}

func (t Trick) winner() PlayerID {
	trump := t.Trump()
	best, bestIdx := t.card(0), 0
	for i := 1; i < t.Size(); i++ {
		if c := t.card(i); c.Beats(trump, best) {
			best, bestIdx = c, i
		}
	}
	return t.Player(bestIdx)
}

// Points returns the value of the cards played, plus the last-trick bonus
// on the ninth trick.
func (t Trick) Points() int {
	trump := t.Trump()
	pts := 0
	if t.IsLast() {
		pts += LastTrickBonus
	}
	for i := 0; i < t.Size(); i++ {
		pts += t.card(i).Points(trump)
	}
	return pts
}

// String returns the played cards separated by commas.
func (t Trick) String() string {
	if t == TrickInvalid {
		return "<end of turn>"
	}
	parts := make([]string, 0, CardsPerTrick)
	for i := 0; i < t.Size(); i++ {
		parts = append(parts, t.card(i).String())
	}
	return fmt.Sprintf("#%d %s led, trump %s: %s", t.Index(), t.Leader(), t.Trump(), strings.Join(parts, ","))
}
