// Package web provides an HTTP status and control server for the timer daemon.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sweeney/pomodoro-timer/internal/logic"
	"github.com/sweeney/pomodoro-timer/internal/status"
)

const httpTimeout = 5 * time.Second

// Server serves the status page over HTTP and accepts remote commands.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	commands   chan<- logic.Command
	now        func() time.Time
}

// New creates a Server that reads state from tracker and queues commands on
// commands. A nil commands channel disables the control endpoints.
func New(addr string, tracker *status.Tracker, commands chan<- logic.Command, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{tracker: tracker, commands: commands, now: now}

	router := httprouter.New()
	router.GET("/", s.handleIndex)
	router.GET("/index.html", s.handleIndex)
	router.GET("/index.json", s.handleJSON)
	router.POST("/api/press/:button", s.handlePress)
	router.POST("/api/command/:command", s.handleCommand)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       httpTimeout,
		ReadHeaderTimeout: httpTimeout,
		WriteTimeout:      httpTimeout,
		IdleTimeout:       2 * httpTimeout,
	}
	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	button := p.ByName("button")
	if !slices.Contains(s.tracker.Snapshot().Config.Buttons, button) {
		http.Error(w, "unknown button", http.StatusNotFound)
		return
	}
	s.enqueue(w, r, logic.Command{Type: logic.CommandPress, Button: button, Time: s.now()})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	cmd := logic.Command{
		Type: logic.CommandType(strings.ToUpper(p.ByName("command"))),
		Time: s.now(),
	}

	switch cmd.Type {
	case logic.CommandStart:
		mode := r.URL.Query().Get("mode")
		if mode == "" {
			mode = r.FormValue("mode")
		}
		if !hasMode(s.tracker.Snapshot().Config.Modes, mode) {
			http.Error(w, "unknown mode", http.StatusBadRequest)
			return
		}
		cmd.Mode = logic.Mode(mode)
	case logic.CommandPause, logic.CommandResume, logic.CommandReset:
	default:
		http.Error(w, "unknown command", http.StatusNotFound)
		return
	}
	s.enqueue(w, r, cmd)
}

type acceptedJSON struct {
	Accepted string `json:"accepted"`
	Button   string `json:"button,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

func (s *Server) enqueue(w http.ResponseWriter, r *http.Request, cmd logic.Command) {
	if s.commands == nil {
		http.Error(w, "control disabled", http.StatusServiceUnavailable)
		return
	}
	select {
	case s.commands <- cmd:
	default:
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}

	// Forms on the status page come back to it.
	if r.FormValue("redirect") != "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(acceptedJSON{
		Accepted: string(cmd.Type),
		Button:   cmd.Button,
		Mode:     string(cmd.Mode),
	})
}

func hasMode(modes []logic.ModeConfig, name string) bool {
	for _, m := range modes {
		if string(m.Name) == name {
			return true
		}
	}
	return false
}
