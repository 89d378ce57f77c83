package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/jass/engine"
)

// DefaultWriteTimeout bounds each notification write.
const DefaultWriteTimeout = 5 * time.Second

// Client is an engine.Player whose decisions are made by a Server on the
// other end of a websocket. Notifications cannot return errors, so the
// first failure is kept and reported by the next CardToPlay and by Err.
type Client struct {
	conn *websocket.Conn
	log  logrus.FieldLogger

	WriteTimeout time.Duration

	mu  sync.Mutex
	err error
}

// DialOptions configures Dial.
type DialOptions struct {
	Secret  string // signs a bearer token when set
	Subject string // token subject, usually the seat name
	Log     logrus.FieldLogger
}

// Dial connects to a Server's /play endpoint at addr (host:port or a full
// ws:// URL).
func Dial(ctx context.Context, addr string, opts DialOptions) (*Client, error) {
	url := addr
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + addr + "/play"
	}
	header := http.Header{}
	if opts.Secret != "" {
		token, err := IssueToken(opts.Secret, opts.Subject, time.Hour)
		if err != nil {
			return nil, err
		}
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("remote: dial %s: %w", url, ErrUnauthorized)
		}
		return nil, fmt.Errorf("remote: dial %s: %w", url, err)
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{conn: conn, log: log.WithField("remote", addr), WriteTimeout: DefaultWriteTimeout}, nil
}

// Err returns the first transport error, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close ends the session.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

func (c *Client) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
		c.log.WithError(err).Warn("remote: session broken")
	}
	return c.err
}

func (c *Client) send(ctx context.Context, msg Message) error {
	if err := c.Err(); err != nil {
		return err
	}
	if err := c.conn.Write(ctx, websocket.MessageText, []byte(msg.String())); err != nil {
		return c.fail(fmt.Errorf("remote: send %s: %w", msg.Cmd, err))
	}
	return nil
}

func (c *Client) notify(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), c.WriteTimeout)
	defer cancel()
	_ = c.send(ctx, msg)
}

// CardToPlay sends the state and hand and waits for the card. The card is
// validated as a packed value; legality is the caller's check.
func (c *Client) CardToPlay(ctx context.Context, state engine.TurnState, hand engine.CardSet) (engine.Card, error) {
	if err := c.send(ctx, cardMessage(state, hand)); err != nil {
		return engine.CardInvalid, err
	}
	typ, data, err := c.conn.Read(ctx)
	if err != nil {
		return engine.CardInvalid, c.fail(fmt.Errorf("remote: read card: %w", err))
	}
	if typ != websocket.MessageText {
		return engine.CardInvalid, c.fail(fmt.Errorf("%w: binary reply", ErrProtocol))
	}
	card, err := decodeCard(string(data))
	if err != nil {
		return engine.CardInvalid, c.fail(fmt.Errorf("remote: read card: %w", err))
	}
	return card, nil
}

func (c *Client) SetPlayers(own engine.PlayerID, names map[engine.PlayerID]string) {
	c.notify(playersMessage(own, names))
}

func (c *Client) UpdateHand(hand engine.CardSet) {
	c.notify(Message{CmdHand, []string{SerializeLong(uint64(hand))}})
}

func (c *Client) SetTrump(trump engine.Suit) {
	c.notify(Message{CmdTrump, []string{SerializeInt(uint32(trump))}})
}

func (c *Client) UpdateTrick(trick engine.Trick) {
	c.notify(Message{CmdTrick, []string{SerializeInt(uint32(trick))}})
}

func (c *Client) UpdateScore(score engine.Score) {
	c.notify(Message{CmdScore, []string{SerializeLong(uint64(score))}})
}

func (c *Client) SetWinningTeam(winner engine.TeamID) {
	c.notify(Message{CmdWinner, []string{SerializeInt(uint32(winner))}})
}

var _ engine.Player = (*Client)(nil)
