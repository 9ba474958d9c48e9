// Package viewer streams simulation frames to WebSocket clients.
package viewer

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MinRegret/brax"
	"github.com/MinRegret/brax/body"
)

// Frame is one snapshot sent to clients.
type Frame struct {
	Step   int         `json:"step"`
	Time   float64     `json:"time"`
	Bodies []BodyState `json:"bodies"`
}

// BodyState is one body's pose inside a Frame. Rot is w, x, y, z.
type BodyState struct {
	Name string     `json:"name"`
	Pos  [3]float64 `json:"pos"`
	Rot  [4]float64 `json:"rot"`
}

// Server steps a scene on a fixed interval and broadcasts a Frame to
// every connected client. The zero action is replayed each step until
// SetAction changes it.
type Server struct {
	sys      *brax.System
	interval time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	qp      body.QP
	action  []float64
	step    int
	clients map[*client]struct{}
}

// client serializes concurrent writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// NewServer starts the scene at its default state.
func NewServer(sys *brax.System, interval time.Duration) *Server {
	return &Server{
		sys:      sys,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		qp:      sys.DefaultQP(),
		action:  make([]float64, sys.ActionSize()),
		clients: make(map[*client]struct{}),
	}
}

// SetAction replaces the action applied on every following step.
func (s *Server) SetAction(action []float64) error {
	if len(action) != s.sys.ActionSize() {
		return fmt.Errorf("viewer: action has %d entries, system actuates %d", len(action), s.sys.ActionSize())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.action, action)
	return nil
}

// Run steps the scene on the configured interval and broadcasts frames
// until ctx is done or a step fails.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.advance(); err != nil {
				return err
			}
		}
	}
}

func (s *Server) advance() error {
	s.mu.Lock()
	qp, _, err := s.sys.Step(s.qp, s.action)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.qp = qp
	s.step++
	frame := s.frameLocked()
	conns := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.writeJSON(frame); err != nil {
			s.drop(c)
		}
	}
	return nil
}

// ServeHTTP upgrades the connection, sends the current frame and keeps
// the client subscribed until it disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("viewer: upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	frame := s.frameLocked()
	s.mu.Unlock()
	log.Printf("viewer: client %s connected", r.RemoteAddr)

	// drain reads so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(c)
				return
			}
		}
	}()

	if err := c.writeJSON(frame); err != nil {
		s.drop(c)
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if ok {
		c.conn.Close()
		log.Print("viewer: client disconnected")
	}
}

func (s *Server) frameLocked() Frame {
	f := Frame{
		Step:   s.step,
		Time:   sanitize(float64(s.step) * s.sys.Dt()),
		Bodies: make([]BodyState, s.sys.NumBodies()),
	}
	for i := range f.Bodies {
		pos, rot := s.qp.Pos[i], s.qp.Rot[i]
		f.Bodies[i] = BodyState{
			Name: s.sys.BodyName(i),
			Pos:  [3]float64{sanitize(pos.X()), sanitize(pos.Y()), sanitize(pos.Z())},
			Rot:  [4]float64{sanitize(rot.W), sanitize(rot.V.X()), sanitize(rot.V.Y()), sanitize(rot.V.Z())},
		}
	}
	return f
}

// sanitize replaces NaN with zero so frames always encode to valid JSON.
func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
