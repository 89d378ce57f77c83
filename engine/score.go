package engine

import "fmt"

// ---------------------------------------------------------------------------
// Packed score layout: Team1 in bits 0-31, Team2 in bits 32-63. Each team
// block holds, from bit 0: tricks won this turn (4 bits), turn points
// (9 bits), game points (11 bits); the top 8 bits stay zero.
// ---------------------------------------------------------------------------

const (
	teamBlockSize = 32

	scoreTricksStart     = 0
	scoreTricksSize      = 4
	scoreTurnPointsStart = scoreTricksStart + scoreTricksSize
	scoreTurnPointsSize  = 9
	scoreGamePointsStart = scoreTurnPointsStart + scoreTurnPointsSize
	scoreGamePointsSize  = 11
	scoreUsedSize        = scoreGamePointsStart + scoreGamePointsSize

	MaxTurnPoints = 257
	MaxGamePoints = 2000
)

// Score is a packed two-team score.
type Score uint64

// ScoreInitial is the score at the start of a game.
const ScoreInitial Score = 0

// NewScore packs the six counters, validating each against its range.
func NewScore(tricks1, turn1, game1, tricks2, turn2, game2 int) (Score, error) {
	b1, err := packTeamBlock(tricks1, turn1, game1)
	if err != nil {
		return ScoreInitial, fmt.Errorf("team 1: %w", err)
	}
	b2, err := packTeamBlock(tricks2, turn2, game2)
	if err != nil {
		return ScoreInitial, fmt.Errorf("team 2: %w", err)
	}
	packed, err := Pack(Field[uint64]{uint64(b1), teamBlockSize}, Field[uint64]{uint64(b2), teamBlockSize})
	if err != nil {
		return ScoreInitial, err
	}
	return Score(packed), nil
}

func packTeamBlock(tricks, turn, game int) (uint32, error) {
	if tricks < 0 || tricks > TricksPerTurn || turn < 0 || turn > MaxTurnPoints || game < 0 || game > MaxGamePoints {
		return 0, fmt.Errorf("%w: (%d,%d,%d) out of range", ErrInvalidEncoding, tricks, turn, game)
	}
	return Pack(
		Field[uint32]{uint32(tricks), scoreTricksSize},
		Field[uint32]{uint32(turn), scoreTurnPointsSize},
		Field[uint32]{uint32(game), scoreGamePointsSize},
	)
}

// ScoreFromPacked validates a packed score coming from outside the engine.
func ScoreFromPacked(v uint64) (Score, error) {
	s := Score(v)
	if !s.Valid() {
		return ScoreInitial, fmt.Errorf("%w: score %#x", ErrInvalidEncoding, v)
	}
	return s, nil
}

// Valid reports whether every counter is within range and the unused bits
// are zero.
func (s Score) Valid() bool {
	for _, t := range [NumTeams]TeamID{Team1, Team2} {
		if Extract(s.block(t), scoreUsedSize, teamBlockSize-scoreUsedSize) != 0 {
			return false
		}
		if s.TurnTricks(t) > TricksPerTurn || s.TurnPoints(t) > MaxTurnPoints || s.GamePoints(t) > MaxGamePoints {
			return false
		}
	}
	return true
}

func (s Score) block(t TeamID) uint64 {
	return Extract(uint64(s), uint(t)*teamBlockSize, teamBlockSize)
}

func (s Score) field(t TeamID, start, size uint) int {
	return int(Extract(s.block(t), start, size))
}

// TurnTricks returns how many tricks the team has won this turn.
func (s Score) TurnTricks(t TeamID) int { return s.field(t, scoreTricksStart, scoreTricksSize) }

// TurnPoints returns the team's points in the current turn.
func (s Score) TurnPoints(t TeamID) int {
	return s.field(t, scoreTurnPointsStart, scoreTurnPointsSize)
}

// GamePoints returns the team's points from completed turns.
func (s Score) GamePoints(t TeamID) int {
	return s.field(t, scoreGamePointsStart, scoreGamePointsSize)
}

// TotalPoints returns game points plus turn points.
func (s Score) TotalPoints(t TeamID) int { return s.GamePoints(t) + s.TurnPoints(t) }

// WithAdditionalTrick credits the winning team with one trick worth
// trickPoints. A team taking its ninth trick of the turn also gets the
// match bonus.
func (s Score) WithAdditionalTrick(winner TeamID, trickPoints int) (Score, error) {
	if trickPoints < 0 {
		return s, fmt.Errorf("%w: negative trick points %d", ErrInvalidEncoding, trickPoints)
	}
	tricks := s.TurnTricks(winner)
	if tricks >= TricksPerTurn {
		return s, fmt.Errorf("%w: team %s already has %d tricks", ErrInvalidEncoding, winner, tricks)
	}
	if tricks == TricksPerTurn-1 {
		trickPoints += MatchBonus
	}
	if s.TurnPoints(winner)+trickPoints > MaxTurnPoints {
		return s, fmt.Errorf("%w: turn points %d exceed %d", ErrInvalidEncoding, s.TurnPoints(winner)+trickPoints, MaxTurnPoints)
	}
	shift := uint(winner) * teamBlockSize
	return s + Score(1)<<(shift+scoreTricksStart) + Score(trickPoints)<<(shift+scoreTurnPointsStart), nil
}

// NextTurn moves each team's turn points into its game points and resets
// the per-turn counters. Game points saturate at MaxGamePoints.
func (s Score) NextTurn() Score {
	var out Score
	for _, t := range [NumTeams]TeamID{Team1, Team2} {
		game := min(s.GamePoints(t)+s.TurnPoints(t), MaxGamePoints)
		out |= Score(game) << (uint(t)*teamBlockSize + scoreGamePointsStart)
	}
	return out
}

// String returns "(tricks,turn,game)/(tricks,turn,game)".
func (s Score) String() string {
	return fmt.Sprintf("(%d,%d,%d)/(%d,%d,%d)",
		s.TurnTricks(Team1), s.TurnPoints(Team1), s.GamePoints(Team1),
		s.TurnTricks(Team2), s.TurnPoints(Team2), s.GamePoints(Team2))
}
