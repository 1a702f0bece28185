// Package control exposes the orrery over HTTP: a JSON state snapshot, a
// WebSocket remote control mirroring the on-screen widgets, and Prometheus
// metrics.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"git.c3pb.de/farhaven/solarsystem/orrery"
)

// Command is sent by remote control clients.
type Command struct {
	Op    string  `json:"op"`
	Body  string  `json:"body,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Message is sent to remote control clients: either a periodic state push
// (Op empty) or the reply to a command.
type Message struct {
	Op    string        `json:"op,omitempty"`
	Error string        `json:"error,omitempty"`
	State *orrery.State `json:"state,omitempty"`
}

const (
	OpSpeed  = "speed"
	OpPause  = "pause"
	OpResume = "resume"
	OpToggle = "toggle"
)

type Server struct {
	o *orrery.Orrery
	m *Metrics

	upgrader websocket.Upgrader
	mux      *http.ServeMux
	log      *log.Logger

	// Interval between state pushes on a WebSocket.
	Interval time.Duration
	// Per connection command rate.
	Limit rate.Limit
	Burst int
}

func NewServer(o *orrery.Orrery, m *Metrics) *Server {
	s := &Server{
		o: o,
		m: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux:      http.NewServeMux(),
		log:      log.New(os.Stderr, "control: ", log.LstdFlags),
		Interval: 100 * time.Millisecond,
		Limit:    20,
		Burst:    40,
	}

	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.Handle("/metrics", m.Handler())

	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}

	errc := make(chan error, 1)
	go func() {
		s.log.Printf(`listening on %s`, addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Apply performs one command against the orrery.
func (s *Server) Apply(c Command) error {
	err := s.apply(c)
	s.m.RecordCommand(c.Op, err)
	return err
}

func (s *Server) apply(c Command) error {
	switch c.Op {
	case OpSpeed:
		k, err := orrery.ParseKind(c.Body)
		if err != nil {
			return err
		}
		return s.o.SetSpeed(k, c.Value)
	case OpPause:
		s.o.SetPaused(true)
	case OpResume:
		s.o.SetPaused(false)
	case OpToggle:
		s.o.TogglePause()
	default:
		return fmt.Errorf(`unknown op %q`, c.Op)
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.o.Snapshot()); err != nil {
		s.log.Printf(`can't encode state: %s`, err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf(`websocket upgrade error: %s`, err)
		return
	}
	defer conn.Close()

	s.m.clients.Inc()
	defer s.m.clients.Dec()

	out := make(chan Message, 16)
	done := make(chan struct{})

	go s.readCommands(conn, out, done)

	t := time.NewTicker(s.Interval)
	defer t.Stop()

	for {
		var msg Message
		select {
		case <-done:
			return
		case msg = <-out:
		case <-t.C:
			st := s.o.Snapshot()
			msg = Message{State: &st}
		}

		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Printf(`write to %s failed: %s`, conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) readCommands(conn *websocket.Conn, out chan<- Message, done chan<- struct{}) {
	defer close(done)

	lim := rate.NewLimiter(s.Limit, s.Burst)
	for {
		var c Command
		if err := conn.ReadJSON(&c); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Printf(`read from %s failed: %s`, conn.RemoteAddr(), err)
			}
			return
		}

		reply := Message{Op: c.Op}
		if !lim.Allow() {
			reply.Error = "rate limited"
			s.m.RecordCommand(c.Op, errors.New(reply.Error))
		} else if err := s.Apply(c); err != nil {
			reply.Error = err.Error()
		}

		select {
		case out <- reply:
		default:
			s.log.Printf(`dropping reply to %s, client too slow`, conn.RemoteAddr())
		}
	}
}
