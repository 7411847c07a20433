// internal/httpserver/server.go
//
// HTTP server wiring for the Codebreaker backend.
// Responsibilities:
//   - Router + middleware (CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/pools".
//   - Game endpoints (optional auth): /games, /games/{id}, guesses, restart, give-up, ws.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: see auth.go.
//
// Notes:
//   - Live sessions sit in the in-memory store; the DB keeps one summary row
//     per game (owner, pool, length, status, guess count).
//   - The secret is never part of a response, except after give-up.
//   - "Solved" is judged here (latest feedback matched every position); the
//     engine itself reports counts only.

package httpserver

import (
	"context"
	crand "crypto/rand"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/config"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/pools"
	"github.com/robalobadob/codebreaker/internal/store"
)

// Server bundles router, in-memory session store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	cfg   config.Config
	now   func() time.Time
	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // zerolog access log
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	s.r.Route("/games", func(r chi.Router) {
		r.Use(s.withOptionalAuth()) // guests can play

		// WebSocket play is long-lived, so it sits outside the timeout group.
		r.Get("/{id}/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Use(jsonContentType)
			r.Post("/", s.handleNewGame)
			r.With(s.requireAuth()).Get("/mine", s.handleMyGames)
			r.Get("/{id}", s.handleGetGame)
			r.Post("/{id}/guesses", s.handleGuess)
			r.Post("/{id}/restart", s.handleRestart)
			r.Post("/{id}/give-up", s.handleGiveUp)
		})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"codebreaker","endpoints":["/health","/pools","POST /games","POST /games/{id}/guesses","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/pools", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(pools.All())
		})

		// Daily Challenge: OPTIONAL AUTH (guests can play; result persisted on solve)
		s.mountDaily(r.With(s.withOptionalAuth()))

		// Auth + profile/stats
		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// guessError converts engine validation errors into a 400 body that carries
// the structured details. ok is false for any other error.
func guessError(err error) (body map[string]any, ok bool) {
	var le *game.GuessLengthError
	if errors.As(err, &le) {
		return map[string]any{"error": "invalid_guess_length", "expected": le.Expected, "actual": le.Actual}, true
	}
	var ce *game.GuessCharacterError
	if errors.As(err, &ce) {
		return map[string]any{"error": "invalid_guess_characters", "pool": ce.Pool, "invalid": ce.Invalid}, true
	}
	return nil, false
}

// newSource returns a rand source seeded from seed, or from crypto/rand when nil.
func newSource(seed *int64) code.Source {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	var b [8]byte
	_, _ = crand.Read(b[:])
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /games.
type newGameReq struct {
	Pool   string `json:"pool"`   // pool name or literal symbols; default DEFAULT_POOL
	Length int    `json:"length"` // default DEFAULT_LENGTH
	Seed   *int64 `json:"seed"`   // optional fixed seed (testing)
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Pool   string `json:"pool"`
	Length int    `json:"length"`
}

// handleNewGame creates an in-memory session and persists a DB summary row
// owned by the user or the anonymous cookie.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Pool == "" {
		req.Pool = s.cfg.DefaultPool
	}
	if req.Length == 0 {
		req.Length = s.cfg.DefaultLength
	}
	pool := pools.Resolve(req.Pool)
	if err := game.ValidateConfig(pool, req.Length); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_configuration", "detail": err.Error()})
		return
	}
	if req.Length > s.cfg.MaxLength {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_configuration", "maxLength": s.cfg.MaxLength})
		return
	}

	userID, anonID := s.requester(w, r)
	sess := &store.Session{
		ID:        genID(),
		Game:      game.New(pool, req.Length, newSource(req.Seed)),
		UserID:    userID,
		AnonID:    anonID,
		StartedAt: s.now().UTC(),
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.insertGameRow(r.Context(), sess)

	writeJSON(w, http.StatusCreated, newGameRes{GameID: sess.ID, Pool: pool, Length: req.Length})
}

// gameView is the public shape of a session.
type gameView struct {
	GameID     string          `json:"gameId"`
	Pool       string          `json:"pool"`
	Length     int             `json:"length"`
	GuessCount int             `json:"guessCount"`
	Guesses    []game.Feedback `json:"guesses"`
	Solved     bool            `json:"solved"`
}

func viewOf(sess *store.Session) gameView {
	g := sess.Game
	return gameView{
		GameID:     sess.ID,
		Pool:       g.Pool(),
		Length:     g.Length(),
		GuessCount: g.GuessCount(),
		Guesses:    g.Guesses(),
		Solved:     g.Solved(),
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var view gameView
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *store.Session) error {
		view = viewOf(sess)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// guessReq/Res payloads for POST /games/{id}/guesses.
type guessReq struct {
	Guess string `json:"guess"`
}
type guessRes struct {
	Guess      game.Feedback `json:"guess"`
	GuessCount int           `json:"guessCount"`
	Solved     bool          `json:"solved"`
}

// applyGuess scores text against session id and, on the first solve,
// records a win. Shared by HTTP and WebSocket play.
func (s *Server) applyGuess(ctx context.Context, id, text string) (guessRes, error) {
	var (
		res    guessRes
		record *store.Session
	)
	err := s.store.Update(ctx, id, func(sess *store.Session) error {
		fb, err := sess.Game.Guess(text)
		if err != nil {
			return err
		}
		res = guessRes{Guess: fb, GuessCount: sess.Game.GuessCount(), Solved: fb.Solved(sess.Game.Length())}
		if res.Solved && !sess.Recorded {
			sess.Recorded = true
			snapshot := *sess
			record = &snapshot
		}
		return nil
	})
	if err != nil {
		return guessRes{}, err
	}
	s.bumpGuessCount(ctx, id)
	if record != nil {
		s.finishGame(ctx, record, res.GuessCount, true)
	}
	return res, nil
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, err := s.applyGuess(r.Context(), chi.URLParam(r, "id"), req.Guess)
	if err != nil {
		if body, ok := guessError(err); ok {
			writeJSON(w, http.StatusBadRequest, body)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		log.Error().Err(err).Msg("apply guess")
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// restartGame clears a session's history; the secret stays.
func (s *Server) restartGame(ctx context.Context, id string) error {
	err := s.store.Update(ctx, id, func(sess *store.Session) error {
		sess.Game.Restart()
		return nil
	})
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET guesses = 0 WHERE id=? AND status='playing'`, id); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("reset guesses")
	}
	return nil
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.restartGame(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": id, "guessCount": 0})
}

// handleGiveUp ends the session, records a loss unless already solved,
// and reveals the secret.
func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		snapshot store.Session
		guesses  int
		record   bool
	)
	err := s.store.Update(r.Context(), id, func(sess *store.Session) error {
		record = !sess.Recorded
		sess.Recorded = true
		snapshot = *sess
		guesses = sess.Game.GuessCount()
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if record {
		s.finishGame(r.Context(), &snapshot, guesses, false)
	}
	_ = s.store.Delete(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"gameId": id, "secret": snapshot.Game.Secret().String(), "guessCount": guesses})
}

// --------------------------- game summaries --------------------------------

func (s *Server) insertGameRow(ctx context.Context, sess *store.Session) {
	var owner any = sess.AnonID
	col := "anonymous_id"
	if sess.UserID != "" {
		owner, col = sess.UserID, "user_id"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, `+col+`, pool, length, started_at, status, guesses) VALUES (?,?,?,?,?,?,0)`,
		sess.ID, owner, sess.Game.Pool(), sess.Game.Length(), sess.StartedAt.Format(time.RFC3339), "playing")
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}
}

func (s *Server) bumpGuessCount(ctx context.Context, id string) {
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=? AND status='playing'`, id); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("update guesses")
	}
}

// finishGame marks the summary row won or lost and, for account owners,
// updates their stats in the same transaction. Best effort.
func (s *Server) finishGame(ctx context.Context, sess *store.Session, guesses int, won bool) {
	status := "lost"
	if won {
		status = "won"
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, guesses=?, finished_at=? WHERE id=?`,
		status, guesses, s.now().UTC().Format(time.RFC3339), sess.ID); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("finish game")
		return
	}
	if sess.UserID != "" {
		if err := bumpStats(ctx, tx, sess.UserID, won); err != nil {
			log.Warn().Err(err).Str("user", sess.UserID).Msg("bump stats")
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("commit finish")
		return
	}
	log.Info().Str("gameId", sess.ID).Str("status", status).Int("guesses", guesses).Msg("game finished")
}
