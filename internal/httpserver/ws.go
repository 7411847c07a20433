// internal/httpserver/ws.go
//
// Live play over WebSocket: GET /games/{id}/ws.
//
// Envelopes are JSON objects tagged by "t":
//   client → server: {"t":"guess","guess":"ABCD"} | {"t":"restart"} | {"t":"state"}
//   server → client: {"t":"feedback",...} | {"t":"restarted"} | {"t":"state",...} | {"t":"error",...}
//
// A bad envelope or a rejected guess yields an "error" reply; the socket stays open.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/store"
)

type wsIn struct {
	T     string `json:"t"`
	Guess string `json:"guess,omitempty"`
}

type wsOut struct {
	T          string         `json:"t"`
	Guess      *game.Feedback `json:"guess,omitempty"`
	Game       *gameView      `json:"game,omitempty"`
	GuessCount int            `json:"guessCount"`
	Solved     bool           `json:"solved,omitempty"`
	Error      map[string]any `json:"error,omitempty"`
}

const wsWriteTimeout = 5 * time.Second

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	opts := &websocket.AcceptOptions{}
	if u, err := url.Parse(s.cfg.ClientOrigin); err == nil && u.Host != "" {
		opts.OriginPatterns = []string{u.Host}
	}
	c, err := websocket.Accept(w, r, opts)
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("ws accept")
		return
	}
	defer c.Close(websocket.StatusInternalError, "unexpected close")

	ctx := r.Context()
	log.Debug().Str("gameId", id).Msg("ws connected")
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				_ = c.Close(websocket.StatusNormalClosure, "")
			default:
				log.Debug().Err(err).Str("gameId", id).Msg("ws read")
			}
			return
		}

		var in wsIn
		if err := json.Unmarshal(data, &in); err != nil {
			in = wsIn{T: "invalid"}
		}
		out, done := s.wsDispatch(ctx, id, in)
		wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
		err = wsjson.Write(wctx, c, out)
		cancel()
		if err != nil {
			return
		}
		if done {
			_ = c.Close(websocket.StatusNormalClosure, "game closed")
			return
		}
	}
}

// wsDispatch handles one client envelope. done reports that the session is gone.
func (s *Server) wsDispatch(ctx context.Context, id string, in wsIn) (out wsOut, done bool) {
	switch in.T {
	case "guess":
		res, err := s.applyGuess(ctx, id, in.Guess)
		if err != nil {
			return wsError(err), errors.Is(err, store.ErrNotFound)
		}
		return wsOut{T: "feedback", Guess: &res.Guess, GuessCount: res.GuessCount, Solved: res.Solved}, false

	case "restart":
		if err := s.restartGame(ctx, id); err != nil {
			return wsError(err), true
		}
		return wsOut{T: "restarted"}, false

	case "state":
		var view gameView
		err := s.store.Update(ctx, id, func(sess *store.Session) error {
			view = viewOf(sess)
			return nil
		})
		if err != nil {
			return wsError(err), true
		}
		return wsOut{T: "state", Game: &view, GuessCount: view.GuessCount, Solved: view.Solved}, false

	case "invalid":
		return wsOut{T: "error", Error: map[string]any{"error": "bad_json"}}, false
	}
	return wsOut{T: "error", Error: map[string]any{"error": "unknown_type", "type": in.T}}, false
}

func wsError(err error) wsOut {
	if body, ok := guessError(err); ok {
		return wsOut{T: "error", Error: body}
	}
	if errors.Is(err, store.ErrNotFound) {
		return wsOut{T: "error", Error: map[string]any{"error": "not_found"}}
	}
	return wsOut{T: "error", Error: map[string]any{"error": "internal"}}
}
