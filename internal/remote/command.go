package remote

import (
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/jass/engine"
)

// ErrProtocol reports a malformed or unexpected message.
var ErrProtocol = errors.New("remote: protocol error")

// Command is the first word of every message.
type Command string

const (
	CmdPlayers Command = "PLRS" // own id, four names
	CmdTrump   Command = "TRMP" // trump suit
	CmdHand    Command = "HAND" // packed hand
	CmdTrick   Command = "TRCK" // packed trick
	CmdCard    Command = "CARD" // score,unplayed,trick and hand; answered with a card
	CmdScore   Command = "SCOR" // packed score
	CmdWinner  Command = "WINR" // winning team
)

// arity is the number of arguments after the command word.
var arity = map[Command]int{
	CmdPlayers: 2,
	CmdTrump:   1,
	CmdHand:    1,
	CmdTrick:   1,
	CmdCard:    2,
	CmdScore:   1,
	CmdWinner:  1,
}

// Message is one decoded command.
type Message struct {
	Cmd  Command
	Args []string
}

func (m Message) String() string {
	return Combine(" ", append([]string{string(m.Cmd)}, m.Args...)...)
}

// ParseMessage splits a raw message and checks the command and its
// argument count.
func ParseMessage(raw string) (Message, error) {
	parts := Split(" ", raw)
	cmd := Command(parts[0])
	n, ok := arity[cmd]
	if !ok {
		return Message{}, fmt.Errorf("%w: unknown command %q", ErrProtocol, parts[0])
	}
	if len(parts)-1 != n {
		return Message{}, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrProtocol, cmd, n, len(parts)-1)
	}
	return Message{Cmd: cmd, Args: parts[1:]}, nil
}

func playersMessage(own engine.PlayerID, names map[engine.PlayerID]string) Message {
	encoded := make([]string, engine.NumPlayers)
	for i, p := range engine.Players {
		encoded[i] = SerializeString(names[p])
	}
	return Message{CmdPlayers, []string{SerializeInt(uint32(own)), Combine(",", encoded...)}}
}

func cardMessage(state engine.TurnState, hand engine.CardSet) Message {
	return Message{CmdCard, []string{
		Combine(",", SerializeLong(state.PackedScore()), SerializeLong(state.PackedUnplayed()), SerializeInt(state.PackedTrick())),
		SerializeLong(uint64(hand)),
	}}
}

func decodePlayers(args []string) (engine.PlayerID, map[engine.PlayerID]string, error) {
	own, err := decodePlayer(args[0])
	if err != nil {
		return 0, nil, err
	}
	fields := Split(",", args[1])
	if len(fields) != engine.NumPlayers {
		return 0, nil, fmt.Errorf("%w: %d player names", ErrProtocol, len(fields))
	}
	names := make(map[engine.PlayerID]string, engine.NumPlayers)
	for i, f := range fields {
		if names[engine.Players[i]], err = DeserializeString(f); err != nil {
			return 0, nil, err
		}
	}
	return own, names, nil
}

func decodePlayer(s string) (engine.PlayerID, error) {
	v, err := DeserializeInt(s)
	if err != nil {
		return 0, err
	}
	if v >= engine.NumPlayers {
		return 0, fmt.Errorf("%w: player %d", ErrProtocol, v)
	}
	return engine.PlayerID(v), nil
}

func decodeSuit(s string) (engine.Suit, error) {
	v, err := DeserializeInt(s)
	if err != nil {
		return 0, err
	}
	if v >= uint32(len(engine.Suits)) {
		return 0, fmt.Errorf("%w: suit %d", ErrProtocol, v)
	}
	return engine.Suit(v), nil
}

func decodeTeam(s string) (engine.TeamID, error) {
	v, err := DeserializeInt(s)
	if err != nil {
		return 0, err
	}
	if v >= engine.NumTeams {
		return 0, fmt.Errorf("%w: team %d", ErrProtocol, v)
	}
	return engine.TeamID(v), nil
}

func decodeCardSet(s string) (engine.CardSet, error) {
	v, err := DeserializeLong(s)
	if err != nil {
		return engine.EmptySet, err
	}
	return engine.CardSetFromPacked(v)
}

func decodeTrick(s string) (engine.Trick, error) {
	v, err := DeserializeInt(s)
	if err != nil {
		return engine.TrickInvalid, err
	}
	if engine.Trick(v) == engine.TrickInvalid {
		return engine.TrickInvalid, nil
	}
	return engine.TrickFromPacked(v)
}

func decodeScore(s string) (engine.Score, error) {
	v, err := DeserializeLong(s)
	if err != nil {
		return engine.ScoreInitial, err
	}
	return engine.ScoreFromPacked(v)
}

func decodeCardRequest(args []string) (engine.TurnState, engine.CardSet, error) {
	parts := Split(",", args[0])
	if len(parts) != 3 {
		return engine.TurnState{}, engine.EmptySet, fmt.Errorf("%w: turn state %q", ErrProtocol, args[0])
	}
	score, err := DeserializeLong(parts[0])
	if err != nil {
		return engine.TurnState{}, engine.EmptySet, err
	}
	unplayed, err := DeserializeLong(parts[1])
	if err != nil {
		return engine.TurnState{}, engine.EmptySet, err
	}
	trick, err := DeserializeInt(parts[2])
	if err != nil {
		return engine.TurnState{}, engine.EmptySet, err
	}
	state, err := engine.TurnStateFromPacked(score, unplayed, trick)
	if err != nil {
		return engine.TurnState{}, engine.EmptySet, err
	}
	hand, err := decodeCardSet(args[1])
	if err != nil {
		return engine.TurnState{}, engine.EmptySet, err
	}
	return state, hand, nil
}

func decodeCard(s string) (engine.Card, error) {
	v, err := DeserializeInt(s)
	if err != nil {
		return engine.CardInvalid, err
	}
	return engine.CardFromPacked(v)
}
