package engine

import (
	"errors"
	"testing"
)

func TestNewScore(t *testing.T) {
	s, err := NewScore(3, 120, 500, 6, 37, 1999)
	if err != nil {
		t.Fatalf("NewScore: %v", err)
	}
	if s.TurnTricks(Team1) != 3 || s.TurnPoints(Team1) != 120 || s.GamePoints(Team1) != 500 {
		t.Errorf("team 1 = %s", s)
	}
	if s.TurnTricks(Team2) != 6 || s.TurnPoints(Team2) != 37 || s.GamePoints(Team2) != 1999 {
		t.Errorf("team 2 = %s", s)
	}
	if s.TotalPoints(Team1) != 620 {
		t.Errorf("TotalPoints(Team1) = %d", s.TotalPoints(Team1))
	}
	if got := s.String(); got != "(3,120,500)/(6,37,1999)" {
		t.Errorf("String() = %q", got)
	}

	bad := [][6]int{
		{10, 0, 0, 0, 0, 0},
		{0, 258, 0, 0, 0, 0},
		{0, 0, 2001, 0, 0, 0},
		{0, 0, 0, -1, 0, 0},
	}
	for _, b := range bad {
		if _, err := NewScore(b[0], b[1], b[2], b[3], b[4], b[5]); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("NewScore(%v) error = %v", b, err)
		}
	}
}

func TestScoreFromPacked(t *testing.T) {
	if _, err := ScoreFromPacked(1 << 24); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("unused bit accepted: %v", err)
	}
	if _, err := ScoreFromPacked(10); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("10 tricks accepted: %v", err)
	}
	if _, err := ScoreFromPacked(uint64(258) << (32 + 4)); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("258 turn points accepted: %v", err)
	}
	want, _ := NewScore(1, 2, 3, 4, 5, 6)
	got, err := ScoreFromPacked(uint64(want))
	if err != nil || got != want {
		t.Errorf("ScoreFromPacked round trip = %v, %v", got, err)
	}
}

func TestWithAdditionalTrick(t *testing.T) {
	s, err := ScoreInitial.WithAdditionalTrick(Team2, 27)
	if err != nil {
		t.Fatalf("WithAdditionalTrick: %v", err)
	}
	if s.TurnTricks(Team2) != 1 || s.TurnPoints(Team2) != 27 || s.TurnTricks(Team1) != 0 {
		t.Errorf("score = %s", s)
	}
	if _, err := s.WithAdditionalTrick(Team1, -1); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("negative points: err = %v", err)
	}
}

// TestMatchBonus gives one team all nine tricks of a turn; the ninth trick
// adds the match bonus and the standard deck totals 257.
func TestMatchBonus(t *testing.T) {
	s := ScoreInitial
	points := []int{20, 25, 15, 17, 10, 14, 21, 13, 17} // 152 card points
	raw := 0
	var err error
	for i, p := range points {
		if i == len(points)-1 {
			p += LastTrickBonus
		}
		raw += p
		if s, err = s.WithAdditionalTrick(Team1, p); err != nil {
			t.Fatalf("trick %d: %v", i, err)
		}
		if i < len(points)-1 && s.TurnPoints(Team1) != raw {
			t.Fatalf("bonus added early at trick %d: %s", i, s)
		}
	}
	if s.TurnTricks(Team1) != 9 {
		t.Errorf("tricks = %d", s.TurnTricks(Team1))
	}
	if s.TurnPoints(Team1) != raw+MatchBonus || s.TurnPoints(Team1) != MaxTurnPoints {
		t.Errorf("turn points = %d, want %d", s.TurnPoints(Team1), MaxTurnPoints)
	}
	if _, err := s.WithAdditionalTrick(Team1, 0); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("tenth trick: err = %v", err)
	}
}

// TestNoMatchBonusForSplitTurn: eight tricks to one team and the last to
// the other is not a match.
func TestNoMatchBonusForSplitTurn(t *testing.T) {
	s := ScoreInitial
	var err error
	for i := 0; i < 8; i++ {
		if s, err = s.WithAdditionalTrick(Team1, 10); err != nil {
			t.Fatal(err)
		}
	}
	if s, err = s.WithAdditionalTrick(Team2, 20); err != nil {
		t.Fatal(err)
	}
	if s.TurnPoints(Team1) != 80 || s.TurnPoints(Team2) != 20 {
		t.Errorf("score = %s, want no bonus", s)
	}
}

func TestNextTurn(t *testing.T) {
	s, err := NewScore(4, 80, 300, 5, 77, 410)
	if err != nil {
		t.Fatal(err)
	}
	n := s.NextTurn()
	for _, team := range []TeamID{Team1, Team2} {
		if n.TurnTricks(team) != 0 || n.TurnPoints(team) != 0 {
			t.Errorf("team %v: turn counters not reset: %s", team, n)
		}
	}
	if n.GamePoints(Team1) != 380 || n.GamePoints(Team2) != 487 {
		t.Errorf("NextTurn = %s", n)
	}
	if !n.Valid() {
		t.Error("NextTurn produced an invalid score")
	}
}

func TestNextTurnSaturates(t *testing.T) {
	s, err := NewScore(9, MaxTurnPoints, 1900, 0, 0, MaxGamePoints)
	if err != nil {
		t.Fatal(err)
	}
	n := s.NextTurn()
	if n.GamePoints(Team1) != MaxGamePoints || n.GamePoints(Team2) != MaxGamePoints {
		t.Errorf("NextTurn = %s, want game points capped at %d", n, MaxGamePoints)
	}
	if !n.Valid() {
		t.Errorf("NextTurn produced an invalid score %#x", uint64(n))
	}
	if _, err := ScoreFromPacked(uint64(n)); err != nil {
		t.Errorf("ScoreFromPacked(NextTurn) = %v", err)
	}
}
