// Package web serves the comment board widget: a server-rendered page,
// form handlers for submissions and the deletion flow, and a server-sent
// event stream that pushes re-renders on store changes.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/arduinolearn/commentboard/internal/app"
	"github.com/arduinolearn/commentboard/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the widget HTTP server.
type Server struct {
	ctrl      *app.Controller
	templates *template.Template
	mux       *http.ServeMux

	clientMu sync.Mutex
	clients  map[chan struct{}]struct{}
}

// NewServer creates a widget server over the given controller.
func NewServer(ctrl *app.Controller) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		ctrl:      ctrl,
		templates: tmpl,
		mux:       http.NewServeMux(),
		clients:   make(map[chan struct{}]struct{}),
	}

	s.mux.HandleFunc("/", s.handleBoard)
	s.mux.HandleFunc("/comments", s.handleCommentPost)
	s.mux.HandleFunc("/comments/", s.handleCommentRoute)
	s.mux.HandleFunc("/delete/verify", s.handleDeleteVerify)
	s.mux.HandleFunc("/delete/confirm", s.handleDeleteConfirm)
	s.mux.HandleFunc("/delete/cancel", s.handleDeleteCancel)
	s.mux.HandleFunc("/events", s.handleEvents)

	ctrl.OnChange(s.broadcast)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server with request logging.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Comment board on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, logging.RequestLogger(s))
}

// broadcast wakes every connected event stream.
func (s *Server) broadcast() {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- struct{}{}:
		default:
			// Client is slow; it will catch up on its next tick.
		}
	}
}

// handleEvents streams a server-sent event on every board change so the
// page can reload its view.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan struct{}, 1)
	s.clientMu.Lock()
	s.clients[ch] = struct{}{}
	s.clientMu.Unlock()
	defer func() {
		s.clientMu.Lock()
		delete(s.clients, ch)
		s.clientMu.Unlock()
	}()

	fmt.Fprint(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			fmt.Fprint(w, "data: changed\n\n")
			flusher.Flush()
		}
	}
}
