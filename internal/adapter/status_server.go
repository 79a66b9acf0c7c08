// Package adapter connects the framework to the outside world: the HTTP
// status endpoint and record files on disk.
package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"htf.dev/pkg/htf/pkg/record"
)

// ErrServerStarted is returned by a second call to Start.
var ErrServerStarted = errors.New("status server already started")

// StatusSnapshot is what the status endpoint reports about the live run.
type StatusSnapshot struct {
	// State is empty until the executor has a state.
	State  string
	Record *record.TestRecord
}

// StatusSource returns the current snapshot.
type StatusSource func() StatusSnapshot

type statusResponse struct {
	State   string          `json:"state"`
	Summary *record.Summary `json:"summary,omitempty"`
}

// StatusServer serves the live executor state over HTTP.
type StatusServer struct {
	port   int
	source StatusSource
	router *mux.Router

	lock     sync.Mutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewStatusServer returns a server for port. Port 0 picks a free port.
func NewStatusServer(port int, source StatusSource) *StatusServer {
	s := &StatusServer{port: port, source: source}

	router := mux.NewRouter()
	router.HandleFunc("/status", s.serveStatus).Methods("GET")
	router.HandleFunc("/status/record", s.serveRecord).Methods("GET")
	router.HandleFunc("/status/logs", s.serveLogs).Methods("GET")
	s.router = router

	return s
}

// ServeHTTP implements http.Handler.
func (s *StatusServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens and serves in the background.
func (s *StatusServer) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.server != nil {
		return ErrServerStarted
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		slog.Error("Failed to start status server", "port", s.port, "error", err)
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	s.listener = listener
	s.server = &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	s.done = make(chan struct{})

	go func(srv *http.Server, done chan struct{}) {
		defer close(done)

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Status server failed", "error", err)
		}
	}(s.server, s.done)

	slog.Info("Status server listening", "addr", listener.Addr().String())

	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *StatusServer) Addr() string {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Stop shuts the server down. Stopping a server that never started is a no-op.
func (s *StatusServer) Stop() error {
	s.lock.Lock()
	srv, done := s.server, s.done
	s.server, s.listener, s.done = nil, nil, nil
	s.lock.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(ctx)
	<-done

	if err != nil {
		return fmt.Errorf("failed to stop status server: %w", err)
	}

	return nil
}

func (s *StatusServer) serveStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.source()

	resp := statusResponse{State: snap.State}
	if snap.Record != nil {
		summary := snap.Record.Summarize()
		resp.Summary = &summary
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *StatusServer) serveRecord(w http.ResponseWriter, _ *http.Request) {
	snap := s.source()
	if snap.Record == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, snap.Record.Snapshot())
}

// serveLogs returns the log records after the "since" index.
func (s *StatusServer) serveLogs(w http.ResponseWriter, r *http.Request) {
	snap := s.source()
	if snap.Record == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	since := 0

	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		since = n
	}

	logs := snap.Record.Logs()
	if since > len(logs) {
		since = len(logs)
	}

	writeJSON(w, http.StatusOK, logs[since:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode status response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
