// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily code
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Every player gets the same code on a given date (seeded by date + salt).
// Each player can solve once per day (enforced by DB + in-memory session).

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/pools"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	pool     string
	length   int
	sessions map[string]*dailySession // active sessions keyed by player|date
	mu       sync.Mutex               // guards sessions and their games
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	GameID   string
	PlayerID string
	Date     string
	Game     *game.Game
	Start    time.Time
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		pool:     pools.Resolve(s.cfg.DailyPool),
		length:   s.cfg.DailyLength,
		sessions: make(map[string]*dailySession),
	}
	if err := game.ValidateConfig(dd.pool, dd.length); err != nil {
		log.Error().Err(err).Msg("daily challenge disabled")
		return
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the authenticated user ID if logged in,
// otherwise the anonymous cookie ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	userID, anonID := d.srv.requester(w, r)
	if userID != "" {
		return userID
	}
	return anonID
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Pool   string `json:"pool"`
	Length int    `json:"length"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.playerID(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)
	res := newRes{Date: date, Pool: d.pool, Length: d.length}

	if played, err := d.store.AlreadyPlayed(r.Context(), pid, date); err == nil && played {
		res.Played = true
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	d.pruneLocked(date)
	sess, ok := d.sessions[key]
	if !ok {
		sess = &dailySession{
			GameID:   genID(),
			PlayerID: pid,
			Date:     date,
			Game:     game.WithSecret(d.pool, daily.Secret(now, d.salt, d.pool, d.length)),
			Start:    now,
		}
		d.sessions[key] = sess
	}
	res.GameID = sess.GameID
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(res)
}

// pruneLocked drops sessions from dates other than today. d.mu must be held.
func (d *dailyServer) pruneLocked(today string) {
	for key, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, key)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Guess   *game.Feedback `json:"guess,omitempty"`
	State   string         `json:"state"` // in_progress | solved | locked
	Guesses int            `json:"guesses"`
}

// handleGuess validates and applies a guess for today's daily session.
//   - Rejects if no session, or answers "locked" once solved.
//   - Validation errors carry the same details as /games/{id}/guesses.
//   - Persists the result to the DB on the first solve.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	pid := d.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}

	now := d.srv.now()
	date := daily.DateKey(now)
	key := pid + "|" + date

	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.GameID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	if sess.Finished {
		n := sess.Game.GuessCount()
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyGuessRes{State: "locked", Guesses: n})
		return
	}
	fb, err := sess.Game.Guess(p.Guess)
	if err != nil {
		d.mu.Unlock()
		if body, ok := guessError(err); ok {
			writeJSON(w, http.StatusBadRequest, body)
			return
		}
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	guesses := sess.Game.GuessCount()
	solved := fb.Solved(sess.Game.Length())
	if solved {
		sess.Finished = true
	}
	start := sess.Start
	d.mu.Unlock()

	if !solved {
		_ = json.NewEncoder(w).Encode(dailyGuessRes{Guess: &fb, State: "in_progress", Guesses: guesses})
		return
	}
	err = d.store.InsertResult(r.Context(), daily.Result{
		UserID:    pid,
		Date:      date,
		Guesses:   guesses,
		ElapsedMs: int(now.Sub(start).Milliseconds()),
	})
	if err != nil {
		log.Warn().Err(err).Str("player", pid).Msg("insert daily result")
	}
	_ = json.NewEncoder(w).Encode(dailyGuessRes{Guess: &fb, State: "solved", Guesses: guesses})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
