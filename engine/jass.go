// Package engine implements the rules of four-player Jass.
//
// Every piece of game state is a packed fixed-width integer: a Card fits
// in 6 bits, a CardSet in 64, a Trick in 32 and a Score in 64. The values
// are immutable, so they are safe to share across goroutines and cheap to
// copy during tree search.
package engine

const (
	NumPlayers     = 4
	NumTeams       = 2
	HandSize       = 9
	TricksPerTurn  = 9
	WinningPoints  = 1000
	MatchBonus     = 100
	LastTrickBonus = 5
)

// PlayerID identifies a seat, 0 through 3. Seats 0 and 2 form Team1.
type PlayerID uint8

const (
	Player1 PlayerID = iota
	Player2
	Player3
	Player4
)

// Players lists every seat in playing order.
var Players = [NumPlayers]PlayerID{Player1, Player2, Player3, Player4}

// Team returns the team the player belongs to.
func (p PlayerID) Team() TeamID {
	if p == Player1 || p == Player3 {
		return Team1
	}
	return Team2
}

// Next returns the player n seats after p.
func (p PlayerID) Next(n int) PlayerID {
	return PlayerID((int(p) + n%NumPlayers + NumPlayers) % NumPlayers)
}

// String returns "P1".."P4".
func (p PlayerID) String() string {
	return [NumPlayers]string{"P1", "P2", "P3", "P4"}[p%NumPlayers]
}

// TeamID identifies one of the two teams.
type TeamID uint8

const (
	Team1 TeamID = iota
	Team2
)

// Other returns the opposing team.
func (t TeamID) Other() TeamID { return t ^ 1 }

// String returns "T1" or "T2".
func (t TeamID) String() string {
	if t == Team1 {
		return "T1"
	}
	return "T2"
}
