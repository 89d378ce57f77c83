package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/jason-s-yu/jass/engine"
)

func TestSerializerRoundTrip(t *testing.T) {
	assert.Equal(t, "ffffffff", SerializeInt(0xFFFFFFFF))
	v, err := DeserializeInt("ffffffff")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), v)

	assert.Equal(t, "1ff01ff01ff01ff", SerializeLong(uint64(engine.AllCards)))
	l, err := DeserializeLong("1ff01ff01ff01ff")
	require.NoError(t, err)
	assert.Equal(t, uint64(engine.AllCards), l)

	assert.Equal(t, "QXVyw6lsaWU=", SerializeString("Aurélie"))
	s, err := DeserializeString("QXVyw6lsaWU=")
	require.NoError(t, err)
	assert.Equal(t, "Aurélie", s)

	_, err = DeserializeInt("-1")
	assert.ErrorIs(t, err, ErrProtocol)
	_, err = DeserializeInt("100000000")
	assert.ErrorIs(t, err, ErrProtocol)
	_, err = DeserializeString("***")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestParseMessage(t *testing.T) {
	m, err := ParseMessage("CARD 0,1ff01ff01ff01ff,fffff hand")
	require.NoError(t, err)
	assert.Equal(t, CmdCard, m.Cmd)
	assert.Equal(t, []string{"0,1ff01ff01ff01ff,fffff", "hand"}, m.Args)
	assert.Equal(t, "CARD 0,1ff01ff01ff01ff,fffff hand", m.String())

	for _, raw := range []string{"", "NOPE 1", "TRMP", "TRMP 1 2", "PLRS 0"} {
		_, err := ParseMessage(raw)
		assert.ErrorIs(t, err, ErrProtocol, raw)
	}
}

func TestDecodeRejectsBadPackedValues(t *testing.T) {
	_, _, err := decodeCardRequest([]string{"0,1ff01ff01ff01ff,ff000000", "0"})
	assert.ErrorIs(t, err, engine.ErrInvalidEncoding, "trick index out of range")
	_, err = decodeCardSet("8000")
	assert.ErrorIs(t, err, engine.ErrInvalidEncoding)
	_, err = decodeCard("9")
	assert.ErrorIs(t, err, engine.ErrInvalidEncoding)
	_, err = decodeSuit("4")
	assert.ErrorIs(t, err, ErrProtocol)
	_, err = decodeTeam("2")
	assert.ErrorIs(t, err, ErrProtocol)

	trick, err := decodeTrick("ffffffff")
	require.NoError(t, err)
	assert.Equal(t, engine.TrickInvalid, trick)
}

func TestTokens(t *testing.T) {
	tok, err := IssueToken("s3cret", "seat-2", time.Minute)
	require.NoError(t, err)
	sub, err := VerifyToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "seat-2", sub)

	_, err = VerifyToken("other", tok)
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired, err := IssueToken("s3cret", "seat-2", -time.Minute)
	require.NoError(t, err)
	_, err = VerifyToken("s3cret", expired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// recorder plays the lowest legal card and records notifications.
type recorder struct {
	engine.NopObserver

	mu     sync.Mutex
	own    engine.PlayerID
	names  map[engine.PlayerID]string
	trump  engine.Suit
	hand   engine.CardSet
	trick  engine.Trick
	score  engine.Score
	winner engine.TeamID
	done   chan struct{}
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{})} }

func (r *recorder) CardToPlay(_ context.Context, state engine.TurnState, hand engine.CardSet) (engine.Card, error) {
	return state.Trick().LegalPlays(hand).Get(0)
}
func (r *recorder) SetPlayers(own engine.PlayerID, names map[engine.PlayerID]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.own, r.names = own, names
}
func (r *recorder) SetTrump(s engine.Suit) { r.mu.Lock(); r.trump = s; r.mu.Unlock() }
func (r *recorder) UpdateHand(h engine.CardSet) {
	r.mu.Lock()
	r.hand = h
	r.mu.Unlock()
}
func (r *recorder) UpdateTrick(t engine.Trick) { r.mu.Lock(); r.trick = t; r.mu.Unlock() }
func (r *recorder) UpdateScore(s engine.Score) { r.mu.Lock(); r.score = s; r.mu.Unlock() }
func (r *recorder) SetWinningTeam(t engine.TeamID) {
	r.mu.Lock()
	r.winner = t
	r.mu.Unlock()
	close(r.done)
}

func startServer(t *testing.T, p engine.Player, secret string) string {
	t.Helper()
	log, _ := test.NewNullLogger()
	srv := httptest.NewServer(NewServer(p, secret, log).Routes())
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestHealthz(t *testing.T) {
	addr := startServer(t, newRecorder(), "")
	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientServerSession(t *testing.T) {
	rec := newRecorder()
	addr := startServer(t, rec, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, addr, DialOptions{})
	require.NoError(t, err)
	defer c.Close()

	hand := engine.NewCardSet(engine.NewCard(engine.SuitHeart, engine.RankAce), engine.NewCard(engine.SuitClub, engine.RankSix))
	state := engine.InitialTurnState(engine.SuitDiamond, engine.ScoreInitial, engine.Player2)
	score, err := engine.NewScore(1, 20, 300, 2, 17, 400)
	require.NoError(t, err)

	c.SetPlayers(engine.Player2, map[engine.PlayerID]string{
		engine.Player1: "Aline", engine.Player2: "Bastien", engine.Player3: "Colette", engine.Player4: "Donatien",
	})
	c.SetTrump(engine.SuitDiamond)
	c.UpdateHand(hand)
	c.UpdateTrick(state.Trick())
	c.UpdateScore(score)

	card, err := c.CardToPlay(ctx, state, hand)
	require.NoError(t, err)
	assert.Equal(t, engine.NewCard(engine.SuitHeart, engine.RankAce), card)

	c.SetWinningTeam(engine.Team2)
	select {
	case <-rec.done:
	case <-ctx.Done():
		t.Fatal("winner never delivered")
	}
	require.NoError(t, c.Err())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, engine.Player2, rec.own)
	assert.Equal(t, "Colette", rec.names[engine.Player3])
	assert.Equal(t, engine.SuitDiamond, rec.trump)
	assert.Equal(t, hand, rec.hand)
	assert.Equal(t, state.Trick(), rec.trick)
	assert.Equal(t, score, rec.score)
	assert.Equal(t, engine.Team2, rec.winner)
}

func TestServerRequiresToken(t *testing.T) {
	addr := startServer(t, newRecorder(), "s3cret")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Dial(ctx, addr, DialOptions{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = Dial(ctx, addr, DialOptions{Secret: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	c, err := Dial(ctx, addr, DialOptions{Secret: "s3cret", Subject: "P1"})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestServerClosesOnBadMessage(t *testing.T) {
	addr := startServer(t, newRecorder(), "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, addr, DialOptions{})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.send(ctx, Message{Cmd: "HAND", Args: []string{"8000"}}))
	state := engine.InitialTurnState(engine.SuitDiamond, engine.ScoreInitial, engine.Player1)
	_, err = c.CardToPlay(ctx, state, engine.NewCardSet(engine.NewCard(engine.SuitClub, engine.RankSix)))
	assert.Error(t, err)
	assert.Error(t, c.Err())
}
