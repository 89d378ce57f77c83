package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadSpec is returned for a player spec that cannot be parsed.
var ErrBadSpec = errors.New("player: bad spec")

// Kind selects the strategy behind a seat.
type Kind byte

const (
	KindSimulated Kind = 's' // MCTS, paced
	KindRemote    Kind = 'r' // remote player server
	KindRandom    Kind = 'n' // uniform random legal card
)

// Spec describes one seat: "s:<name>[:<iterations>]",
// "r:<name>[:<host:port>]" or "n:<name>".
type Spec struct {
	Kind       Kind
	Name       string
	Iterations int    // KindSimulated; 0 means the configured default
	Addr       string // KindRemote; empty means the configured default
}

// ParseSpec parses one seat spec.
func ParseSpec(s string) (Spec, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || len(parts[0]) != 1 || parts[1] == "" {
		return Spec{}, fmt.Errorf("%w: %q", ErrBadSpec, s)
	}
	spec := Spec{Kind: Kind(parts[0][0]), Name: parts[1]}
	extra := ""
	if len(parts) == 3 {
		extra = parts[2]
	}
	switch spec.Kind {
	case KindSimulated:
		if extra != "" {
			n, err := strconv.Atoi(extra)
			if err != nil || n <= 0 {
				return Spec{}, fmt.Errorf("%w: iterations in %q", ErrBadSpec, s)
			}
			spec.Iterations = n
		}
	case KindRemote:
		spec.Addr = extra
	case KindRandom:
		if extra != "" {
			return Spec{}, fmt.Errorf("%w: %q takes no options", ErrBadSpec, s)
		}
	default:
		return Spec{}, fmt.Errorf("%w: unknown kind %q", ErrBadSpec, parts[0])
	}
	return spec, nil
}
