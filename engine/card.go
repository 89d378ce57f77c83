package engine

import "fmt"

// Suit is one of the four suits, in ordinal order Spade, Heart, Diamond, Club.
type Suit uint8

const (
	SuitSpade   Suit = 0
	SuitHeart   Suit = 1
	SuitDiamond Suit = 2
	SuitClub    Suit = 3

	NumSuits = 4
)

// Suits lists every suit in ordinal order.
var Suits = [NumSuits]Suit{SuitSpade, SuitHeart, SuitDiamond, SuitClub}

// String returns the suit symbol.
func (s Suit) String() string {
	switch s {
	case SuitSpade:
		return "♠"
	case SuitHeart:
		return "♡"
	case SuitDiamond:
		return "♢"
	case SuitClub:
		return "♣"
	}
	return "?"
}

// Rank is one of the nine ranks, in ordinal order 6 through Ace.
type Rank uint8

const (
	RankSix   Rank = 0
	RankSeven Rank = 1
	RankEight Rank = 2
	RankNine  Rank = 3
	RankTen   Rank = 4
	RankJack  Rank = 5
	RankQueen Rank = 6
	RankKing  Rank = 7
	RankAce   Rank = 8

	NumRanks = 9
)

// trumpOrder lists ranks from weakest to strongest when their suit is trump.
var trumpOrder = [NumRanks]Rank{
	RankSix, RankSeven, RankEight, RankTen, RankQueen, RankKing, RankAce, RankNine, RankJack,
}

// trumpOrdinals is the inverse of trumpOrder.
var trumpOrdinals = [NumRanks]uint8{
	RankSix:   0,
	RankSeven: 1,
	RankEight: 2,
	RankNine:  7,
	RankTen:   3,
	RankJack:  8,
	RankQueen: 4,
	RankKing:  5,
	RankAce:   6,
}

// TrumpOrdinal returns the position of the rank in the trump order.
func (r Rank) TrumpOrdinal() uint8 { return trumpOrdinals[r] }

// String returns the rank label.
func (r Rank) String() string {
	labels := [NumRanks]string{"6", "7", "8", "9", "10", "J", "Q", "K", "A"}
	if r >= NumRanks {
		return "?"
	}
	return labels[r]
}

// ---------------------------------------------------------------------------
// Packed card: bits 0-3 = rank, bits 4-5 = suit.
// ---------------------------------------------------------------------------

const (
	cardRankStart = 0
	cardRankSize  = 4
	cardSuitStart = cardRankStart + cardRankSize
	cardSuitSize  = 2
	cardSize      = cardRankSize + cardSuitSize
)

// Card is a packed 6-bit card.
type Card uint8

// CardInvalid is the reserved all-ones pattern marking an absent card.
const CardInvalid Card = 0b11_1111

// NewCard packs a suit and a rank. Both must be in range; an out-of-range
// rank yields an invalid card. Use CardOf for values from outside the
// engine.
func NewCard(suit Suit, rank Rank) Card {
	return Card(uint8(suit)<<cardSuitStart | uint8(rank)&0x0F)
}

// CardOf is NewCard with range checks.
func CardOf(suit Suit, rank Rank) (Card, error) {
	if suit >= NumSuits || rank >= NumRanks {
		return CardInvalid, fmt.Errorf("%w: suit %d rank %d", ErrInvalidEncoding, suit, rank)
	}
	return NewCard(suit, rank), nil
}

// CardFromPacked validates a packed value coming from outside the engine.
func CardFromPacked(v uint32) (Card, error) {
	if v > 0xFF || !Card(v).Valid() {
		return CardInvalid, fmt.Errorf("%w: card %#x", ErrInvalidEncoding, v)
	}
	return Card(v), nil
}

// Valid reports whether c encodes one of the 36 cards.
func (c Card) Valid() bool {
	return c < CardInvalid && Extract(uint32(c), cardRankStart, cardRankSize) < NumRanks
}

// Suit returns the suit bits.
func (c Card) Suit() Suit { return Suit(Extract(uint32(c), cardSuitStart, cardSuitSize)) }

// Rank returns the rank bits.
func (c Card) Rank() Rank { return Rank(Extract(uint32(c), cardRankStart, cardRankSize)) }

// Decode returns the rank and suit of c, or ErrInvalidEncoding.
func (c Card) Decode() (Rank, Suit, error) {
	if !c.Valid() {
		return 0, 0, fmt.Errorf("%w: card %#x", ErrInvalidEncoding, uint8(c))
	}
	return c.Rank(), c.Suit(), nil
}

// Beats reports whether c beats other when trump is the trump suit.
// A trump beats any non-trump; within one suit the ordinary rank order
// applies, or the trump order if that suit is trump. Cards of two
// different non-trump suits never beat each other.
func (c Card) Beats(trump Suit, other Card) bool {
	cs, os := c.Suit(), other.Suit()
	if cs == trump && os != trump {
		return true
	}
	if cs != os {
		return false
	}
	if cs == trump {
		return c.Rank().TrumpOrdinal() > other.Rank().TrumpOrdinal()
	}
	return c.Rank() > other.Rank()
}

// Points returns the value of c in a turn with the given trump.
func (c Card) Points(trump Suit) int {
	isTrump := c.Suit() == trump
	switch c.Rank() {
	case RankNine:
		if isTrump {
			return 14
		}
		return 0
	case RankTen:
		return 10
	case RankJack:
		if isTrump {
			return 20
		}
		return 2
	case RankQueen:
		return 3
	case RankKing:
		return 4
	case RankAce:
		return 11
	}
	return 0
}

// String returns the suit symbol followed by the rank, e.g. "♠J".
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return c.Suit().String() + c.Rank().String()
}
