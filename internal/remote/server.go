package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/jass/engine"
)

// Server exposes a local player to one remote game at a time.
type Server struct {
	player engine.Player
	secret string
	log    logrus.FieldLogger

	mu sync.Mutex // one session drives the player at a time
}

// NewServer hosts player. A non-empty secret requires HS256 bearer tokens.
func NewServer(player engine.Player, secret string, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{player: player, secret: secret, log: log}
}

// Routes returns the HTTP handler: GET /healthz and GET /play.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	r.With(requireToken(s.secret)).Get("/play", s.handlePlay)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.WithField("addr", addr).Info("remote: listening")

	select {
	case err := <-errc:
		return fmt.Errorf("remote: serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("remote: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if !s.mu.TryLock() {
		http.Error(w, "player busy", http.StatusConflict)
		return
	}
	defer s.mu.Unlock()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("remote: accept failed")
		return
	}
	log := s.log.WithField("request_id", middleware.GetReqID(r.Context()))
	log.Info("remote: session started")

	err = s.serve(r.Context(), conn)
	switch {
	case err == nil, websocket.CloseStatus(err) == websocket.StatusNormalClosure:
		log.Info("remote: session ended")
		conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, ErrProtocol), errors.Is(err, engine.ErrInvalidEncoding):
		log.WithError(err).Warn("remote: bad message")
		conn.Close(websocket.StatusPolicyViolation, "bad message")
	default:
		log.WithError(err).Warn("remote: session failed")
		conn.Close(websocket.StatusInternalError, "")
	}
}

// serve dispatches messages to the player until the peer closes or sends
// the winner.
func (s *Server) serve(ctx context.Context, conn *websocket.Conn) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			return fmt.Errorf("%w: binary message", ErrProtocol)
		}
		msg, err := ParseMessage(string(data))
		if err != nil {
			return err
		}
		reply, err := s.dispatch(ctx, msg)
		if err != nil {
			return fmt.Errorf("%s: %w", msg.Cmd, err)
		}
		if reply != "" {
			if err := conn.Write(ctx, websocket.MessageText, []byte(reply)); err != nil {
				return err
			}
		}
		if msg.Cmd == CmdWinner {
			return nil
		}
	}
}

func (s *Server) dispatch(ctx context.Context, msg Message) (string, error) {
	a := msg.Args
	switch msg.Cmd {
	case CmdPlayers:
		own, names, err := decodePlayers(a)
		if err != nil {
			return "", err
		}
		s.player.SetPlayers(own, names)
	case CmdTrump:
		suit, err := decodeSuit(a[0])
		if err != nil {
			return "", err
		}
		s.player.SetTrump(suit)
	case CmdHand:
		hand, err := decodeCardSet(a[0])
		if err != nil {
			return "", err
		}
		s.player.UpdateHand(hand)
	case CmdTrick:
		trick, err := decodeTrick(a[0])
		if err != nil {
			return "", err
		}
		s.player.UpdateTrick(trick)
	case CmdCard:
		state, hand, err := decodeCardRequest(a)
		if err != nil {
			return "", err
		}
		c, err := s.player.CardToPlay(ctx, state, hand)
		if err != nil {
			return "", err
		}
		return SerializeInt(uint32(c)), nil
	case CmdScore:
		score, err := decodeScore(a[0])
		if err != nil {
			return "", err
		}
		s.player.UpdateScore(score)
	case CmdWinner:
		team, err := decodeTeam(a[0])
		if err != nil {
			return "", err
		}
		s.player.SetWinningTeam(team)
	}
	return "", nil
}
