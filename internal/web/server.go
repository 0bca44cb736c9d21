package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"codeflow/internal/editor"
	"codeflow/internal/model"
	"codeflow/internal/session"
)

//go:embed static/*
var staticFS embed.FS

// DefaultPort is used when no port is configured.
const DefaultPort = 8080

// TickInterval is how often the server ticks the session.
const TickInterval = 100 * time.Millisecond

const maxBody = 1 << 20

// Server exposes one session over HTTP. All session access goes through mu;
// the ticker goroutine and the handlers share it.
type Server struct {
	mu     sync.Mutex
	sess   *session.Session
	ctx    context.Context
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer wires the routes. ctx bounds narration requests started over
// the API.
func NewServer(ctx context.Context, sess *session.Session, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{sess: sess, ctx: ctx, logger: logger, mux: http.NewServeMux()}

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/source", s.handleSource)
	s.mux.HandleFunc("POST /api/command", s.handleCommand)
	s.mux.HandleFunc("GET /api/help", s.handleHelp)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Tick advances the session once, as the background ticker does.
func (s *Server) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Tick(now)
}

func (s *Server) runTicker(ctx context.Context) {
	t := time.NewTicker(TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Tick(now)
		}
	}
}

// StartServer serves on port until ctx ends.
func StartServer(ctx context.Context, sess *session.Session, port int, logger *slog.Logger) error {
	if port == 0 {
		port = DefaultPort
	}
	s := NewServer(ctx, sess, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go s.runTicker(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Starting codeflow web server at http://localhost:%d\n", port)
	fmt.Printf("Go to http://localhost:%d in your browser.\n", port)
	s.logger.Info("web server listening", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

type stateResponse struct {
	session.State
	Version string `json:"version"`
}

// writeState encodes the session state. Callers hold mu.
func (s *Server) writeState(w http.ResponseWriter, status int) {
	resp := stateResponse{State: s.sess.Snapshot(), Version: model.Version}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("encode state", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeState(w, http.StatusOK)
}

type sourceRequest struct {
	Source string `json:"source"`
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.sess.Edit(func(b *editor.Buffer) { b.SetText(req.Source) })
	if errors.Is(err, session.ErrReadOnly) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.writeState(w, http.StatusOK)
}

type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.sess.Apply(s.ctx, session.Command(req.Command), time.Now())
	switch {
	case errors.Is(err, session.ErrUnknownCommand):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, session.ErrNotVisualizing):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Debug("command applied", "command", req.Command)
	s.writeState(w, http.StatusOK)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown")
	_, _ = w.Write([]byte(model.HelpText()))
}
