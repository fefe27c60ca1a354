// Package api serves the tutor over HTTP. Each browser gets its own
// tutor.Session, found through a signed session cookie.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/abhisek/edututor/internal/tutor"
)

const (
	cookieName = "edututor"
	sidKey     = "sid"
)

// Server is the HTTP front end for a tutor.Service.
type Server struct {
	svc      *tutor.Service
	cfg      Config
	cookies  *sessions.CookieStore
	schemas  schemaSet
	sessions *registry
	mux      *http.ServeMux
	now      func() time.Time
}

// NewServer wires routes for svc.
func NewServer(svc *tutor.Service, cfg Config) (*Server, error) {
	if svc == nil {
		return nil, errors.New("api: tutor service is nil")
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	key := []byte(cfg.SessionSecret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		slog.Warn("no session secret configured, sessions will not survive a restart")
	}
	cookies := sessions.NewCookieStore(key)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		svc:      svc,
		cfg:      cfg,
		cookies:  cookies,
		schemas:  schemas,
		sessions: newRegistry(cfg.SessionTTL),
		mux:      http.NewServeMux(),
		now:      time.Now,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/session", s.withSession(s.handleSession))
	s.mux.HandleFunc("POST /api/role", s.withSession(s.handleRole))
	s.mux.HandleFunc("POST /api/personalize", s.withSession(s.handlePersonalize))
	s.mux.HandleFunc("POST /api/quiz", s.withSession(s.handleQuiz))
	s.mux.HandleFunc("POST /api/simplify", s.withSession(s.handleSimplify))
	s.mux.HandleFunc("POST /api/process", s.withSession(s.handleProcess))
	s.mux.HandleFunc("POST /api/ask", s.withSession(s.handleAsk))
	s.mux.HandleFunc("POST /api/grade", s.withSession(s.handleGrade))
	s.mux.HandleFunc("POST /api/upload", s.withSession(s.handleUpload))
}

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Serve listens on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	slog.Info("server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}

// entry is one visitor's session. mu serializes that visitor's requests.
type entry struct {
	mu   sync.Mutex
	sess tutor.Session

	// lastSeen is guarded by the registry's mu.
	lastSeen time.Time
}

type registry struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]*entry
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{ttl: ttl, m: make(map[string]*entry)}
}

// get returns the session for id and marks it seen at now. The mark is
// made under the registry lock so a concurrent create cannot evict the
// entry before the caller locks it.
func (r *registry) get(id string, now time.Time) (*entry, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.m[id]
	if ok {
		e.lastSeen = now
	}
	return e, ok
}

func (r *registry) touch(e *entry, now time.Time) {
	r.mu.Lock()
	e.lastSeen = now
	r.mu.Unlock()
}

// create registers a fresh session and drops idle ones.
func (r *registry) create(now time.Time) (string, *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ttl > 0 {
		for id, e := range r.m {
			if now.Sub(e.lastSeen) <= r.ttl {
				continue
			}
			// A locked entry is serving a request.
			if e.mu.TryLock() {
				delete(r.m, id)
				e.mu.Unlock()
			}
		}
	}

	id := uuid.NewString()
	e := &entry{sess: tutor.NewSession(tutor.RoleNone), lastSeen: now}
	r.m[id] = e
	return id, e
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, e *entry)

// withSession resolves the caller's session from the cookie, creating one
// when the cookie is missing, undecodable or names an evicted session.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := s.cookies.Get(r, cookieName)
		if err != nil {
			slog.DebugContext(r.Context(), "discarding session cookie", "error", err)
		}
		id, _ := cs.Values[sidKey].(string)

		e, ok := s.sessions.get(id, s.now())
		if !ok {
			id, e = s.sessions.create(s.now())
			cs.Values[sidKey] = id
			if err := cs.Save(r, w); err != nil {
				writeError(w, http.StatusInternalServerError, "could not save session")
				return
			}
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		h(w, r, e)
		s.sessions.touch(e, s.now())
	}
}
