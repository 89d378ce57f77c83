package engine

import (
	"errors"
	"testing"
)

// card is shorthand for NewCard in table tests.
func card(s Suit, r Rank) Card { return NewCard(s, r) }

// buildTrick returns a trick at the given index with the cards played in
// order.
func buildTrick(t *testing.T, trump Suit, leader PlayerID, index int, cards ...Card) Trick {
	t.Helper()
	tr := FirstTrick(trump, leader)
	tr = tr&^Trick(Mask[uint32](trickIndexStart, trickIndexSize)) | Trick(index)<<trickIndexStart
	for _, c := range cards {
		var err error
		if tr, err = tr.WithAddedCard(c); err != nil {
			t.Fatalf("WithAddedCard(%v): %v", c, err)
		}
	}
	if !tr.Valid() {
		t.Fatalf("built an invalid trick %#x", uint32(tr))
	}
	return tr
}

func TestFirstTrick(t *testing.T) {
	tr := FirstTrick(SuitDiamond, Player3)
	if !tr.Valid() || !tr.IsEmpty() || tr.IsFull() {
		t.Fatalf("FirstTrick is not an empty valid trick: %#x", uint32(tr))
	}
	if tr.Trump() != SuitDiamond || tr.Leader() != Player3 || tr.Index() != 0 {
		t.Errorf("FirstTrick fields = (%v,%v,%d)", tr.Trump(), tr.Leader(), tr.Index())
	}
	if tr.Size() != 0 {
		t.Errorf("Size() = %d", tr.Size())
	}
	if tr.Player(1) != Player4 || tr.Player(2) != Player1 || tr.Player(3) != Player2 {
		t.Error("Player(i) does not wrap around the table")
	}
}

func TestTrickFromPacked(t *testing.T) {
	tests := []struct {
		name string
		v    uint32
		ok   bool
	}{
		{"empty first trick", uint32(FirstTrick(SuitClub, Player2)), true},
		{"terminal sentinel", uint32(TrickInvalid), false},
		{"index 9", uint32(emptySlots) | 9<<trickIndexStart, false},
		{"gap after first card", uint32(emptySlots)&^0b111111_000000 | 0b000001_000000 | 0b11_1111, false},
		{"slot 0 holds rank 9", uint32(emptySlots)&^0b111111 | 0b00_1001, false},
		{"one card", uint32(emptySlots)&^0b111111 | 0b01_0011, true},
	}
	for _, tt := range tests {
		_, err := TrickFromPacked(tt.v)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("%s: error = %v, want ErrInvalidEncoding", tt.name, err)
		}
	}
}

func TestTrickWithAddedCard(t *testing.T) {
	tr := buildTrick(t, SuitSpade, Player1, 0,
		card(SuitHeart, RankSix), card(SuitHeart, RankSeven), card(SuitHeart, RankEight), card(SuitHeart, RankNine))
	if !tr.IsFull() || tr.Size() != 4 {
		t.Fatalf("trick of four not full: size %d", tr.Size())
	}
	if _, err := tr.WithAddedCard(card(SuitClub, RankSix)); !errors.Is(err, ErrIllegalState) {
		t.Errorf("adding to a full trick: err = %v", err)
	}
	if _, err := FirstTrick(SuitSpade, Player1).WithAddedCard(CardInvalid); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("adding the invalid card: err = %v", err)
	}
	c, err := tr.Card(2)
	if err != nil || c != card(SuitHeart, RankEight) {
		t.Errorf("Card(2) = %v, %v", c, err)
	}
	if _, err := buildTrick(t, SuitSpade, Player1, 0, card(SuitHeart, RankSix)).Card(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Card(1) on one-card trick: err = %v", err)
	}
}

func TestTrickWinner(t *testing.T) {
	tests := []struct {
		name   string
		trump  Suit
		leader PlayerID
		cards  []Card
		want   PlayerID
	}{
		{"leader holds", SuitSpade, Player1,
			[]Card{card(SuitHeart, RankAce), card(SuitHeart, RankKing), card(SuitDiamond, RankAce), card(SuitClub, RankAce)}, Player1},
		{"smallest trump wins", SuitSpade, Player2,
			[]Card{card(SuitHeart, RankSix), card(SuitHeart, RankAce), card(SuitSpade, RankSix), card(SuitHeart, RankKing)}, Player4},
		{"trump jack over nine", SuitClub, Player4,
			[]Card{card(SuitClub, RankNine), card(SuitClub, RankAce), card(SuitClub, RankJack), card(SuitClub, RankKing)}, Player2},
		{"partial trick", SuitHeart, Player3,
			[]Card{card(SuitDiamond, RankSix), card(SuitDiamond, RankTen)}, Player4},
	}
	for _, tt := range tests {
		tr := buildTrick(t, tt.trump, tt.leader, 0, tt.cards...)
		got, err := tr.Winner()
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: Winner() = %v, want %v", tt.name, got, tt.want)
		}
	}
	if _, err := FirstTrick(SuitSpade, Player1).Winner(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Winner of empty trick: err = %v", err)
	}
}

func TestTrickPoints(t *testing.T) {
	cards := []Card{card(SuitHeart, RankSix), card(SuitHeart, RankAce), card(SuitSpade, RankNine), card(SuitHeart, RankKing)}
	if got := buildTrick(t, SuitSpade, Player1, 0, cards...).Points(); got != 0+11+14+4 {
		t.Errorf("Points() = %d, want 29", got)
	}
	if got := buildTrick(t, SuitSpade, Player1, 8, cards...).Points(); got != 29+LastTrickBonus {
		t.Errorf("last trick Points() = %d, want 34", got)
	}
	if got := buildTrick(t, SuitSpade, Player1, 3, card(SuitClub, RankJack)).Points(); got != 2 {
		t.Errorf("partial trick Points() = %d, want 2", got)
	}
}

func TestTrickNextEmpty(t *testing.T) {
	tr := buildTrick(t, SuitHeart, Player1, 2,
		card(SuitClub, RankSix), card(SuitClub, RankSeven), card(SuitHeart, RankSix), card(SuitClub, RankAce))
	next, err := tr.NextEmpty()
	if err != nil {
		t.Fatalf("NextEmpty: %v", err)
	}
	if !next.IsEmpty() || next.Index() != 3 || next.Leader() != Player3 || next.Trump() != SuitHeart {
		t.Errorf("NextEmpty = %v", next)
	}

	last := buildTrick(t, SuitHeart, Player1, 8,
		card(SuitClub, RankSix), card(SuitClub, RankSeven), card(SuitHeart, RankSix), card(SuitClub, RankAce))
	if next, _ := last.NextEmpty(); next != TrickInvalid {
		t.Errorf("NextEmpty after last trick = %#x", uint32(next))
	}
	if _, err := buildTrick(t, SuitHeart, Player1, 0, card(SuitClub, RankSix)).NextEmpty(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("NextEmpty on partial trick: err = %v", err)
	}
}
