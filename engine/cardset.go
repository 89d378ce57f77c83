package engine

import (
	"fmt"
	"math/bits"
	"strings"
)

// CardSet is a packed subset of the 36 cards: four 16-bit lanes, one per
// suit, with bit (16*suit + rank) set when the card is present. Since the
// packed card value equals that bit index, singleton(c) is 1 << c.
type CardSet uint64

const (
	suitLaneSize = 16
	laneMask     = CardSet(1<<NumRanks - 1)
)

const (
	// EmptySet contains no card.
	EmptySet CardSet = 0

	// AllCards contains the 36 cards of the deck.
	AllCards = laneMask | laneMask<<suitLaneSize | laneMask<<(2*suitLaneSize) | laneMask<<(3*suitLaneSize)
)

// trumpAbove[suit][trumpOrdinal] holds every card of suit that beats the
// card of the same suit at trumpOrdinal when suit is trump.
var trumpAbove [NumSuits][NumRanks]CardSet

func init() {
	for _, s := range Suits {
		for i := 0; i < NumRanks; i++ {
			var above CardSet
			for j := i + 1; j < NumRanks; j++ {
				above |= Singleton(NewCard(s, trumpOrder[j]))
			}
			trumpAbove[s][i] = above
		}
	}
}

// CardSetFromPacked validates a packed set coming from outside the engine.
func CardSetFromPacked(v uint64) (CardSet, error) {
	s := CardSet(v)
	if !s.Valid() {
		return EmptySet, fmt.Errorf("%w: card set %#x has bits outside the deck", ErrInvalidEncoding, v)
	}
	return s, nil
}

// NewCardSet returns the set of the given cards.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

// Singleton returns the set holding only c.
func Singleton(c Card) CardSet { return CardSet(1) << c }

// TrumpAbove returns the cards of c's suit that beat c when that suit is
// trump.
func TrumpAbove(c Card) CardSet {
	return trumpAbove[c.Suit()][c.Rank().TrumpOrdinal()]
}

// Valid reports whether no bit outside the 36 addressable positions is set.
func (s CardSet) Valid() bool { return s&^AllCards == 0 }

// IsEmpty reports whether s has no card.
func (s CardSet) IsEmpty() bool { return s == EmptySet }

// Size returns the number of cards in s.
func (s CardSet) Size() int { return bits.OnesCount64(uint64(s)) }

// Get returns the i-th card of s in ascending packed order.
func (s CardSet) Get(i int) (Card, error) {
	if i < 0 || i >= s.Size() {
		return CardInvalid, fmt.Errorf("%w: card %d of %d", ErrIndexOutOfRange, i, s.Size())
	}
	return s.at(i), nil
}

// at is Get without the bounds check.
func (s CardSet) at(i int) Card {
	for ; i > 0; i-- {
		s &= s - 1
	}
	return Card(bits.TrailingZeros64(uint64(s)))
}

// IndexOf returns the position of c in ascending order, or -1.
func (s CardSet) IndexOf(c Card) int {
	if !s.Contains(c) {
		return -1
	}
	return bits.OnesCount64(uint64(s & (Singleton(c) - 1)))
}

// Add returns s with c added.
func (s CardSet) Add(c Card) CardSet { return s | Singleton(c) }

// Remove returns s without c.
func (s CardSet) Remove(c Card) CardSet { return s &^ Singleton(c) }

// Contains reports whether c is in s.
func (s CardSet) Contains(c Card) bool { return s&Singleton(c) != 0 }

// Complement returns the cards of the deck not in s.
func (s CardSet) Complement() CardSet { return ^s & AllCards }

// Union returns the cards in s or o.
func (s CardSet) Union(o CardSet) CardSet { return s | o }

// Intersection returns the cards in both s and o.
func (s CardSet) Intersection(o CardSet) CardSet { return s & o }

// Difference returns the cards in s but not in o.
func (s CardSet) Difference(o CardSet) CardSet { return s &^ o }

// OfSuit returns the cards of s in the given suit.
func (s CardSet) OfSuit(suit Suit) CardSet {
	return s & (laneMask << (suitLaneSize * uint(suit)))
}

// Cards returns the cards of s in ascending order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Size())
	for w := uint64(s); w != 0; w &= w - 1 {
		out = append(out, Card(bits.TrailingZeros64(w)))
	}
	return out
}

// String returns the cards of s as "{♠6,♠7}".
func (s CardSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range s.Cards() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.String())
	}
	b.WriteByte('}')
	return b.String()
}
