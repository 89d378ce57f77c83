package engine

import "fmt"

// Shuffler is an xorshift64 generator used for dealing. The zero value is
// not usable; construct with NewShuffler.
type Shuffler struct {
	state uint64
}

// NewShuffler seeds a shuffler. xorshift cannot start at zero, so a zero
// seed is replaced by 1.
func NewShuffler(seed uint64) *Shuffler {
	if seed == 0 {
		seed = 1
	}
	return &Shuffler{state: seed}
}

func (s *Shuffler) next() uint64 {
	x := s.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.state = x
	return x
}

// IntN returns a number in [0, n).
func (s *Shuffler) IntN(n int) int {
	return int(s.next() % uint64(n))
}

// Deck returns the 36 cards shuffled with Fisher-Yates.
func (s *Shuffler) Deck() []Card {
	deck := AllCards.Cards()
	for i := len(deck) - 1; i > 0; i-- {
		j := s.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// Deal splits a full deck into four hands of nine: the first nine cards go
// to Player1, the next nine to Player2, and so on.
func Deal(deck []Card) ([NumPlayers]CardSet, error) {
	var hands [NumPlayers]CardSet
	if len(deck) != NumPlayers*HandSize {
		return hands, fmt.Errorf("%w: deck has %d cards", ErrInvalidEncoding, len(deck))
	}
	var seen CardSet
	for i, c := range deck {
		if !c.Valid() || seen.Contains(c) {
			return hands, fmt.Errorf("%w: card %d (%#x) invalid or repeated", ErrInvalidEncoding, i, uint8(c))
		}
		seen = seen.Add(c)
		hands[i/HandSize] = hands[i/HandSize].Add(c)
	}
	return hands, nil
}
