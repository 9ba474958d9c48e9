package viewer

import (
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MinRegret/brax"
)

func fallingBallSystem(t *testing.T) *brax.System {
	t.Helper()
	sys, err := brax.NewSystem(&brax.Config{
		Dt:       0.1,
		Substeps: 10,
		Gravity:  brax.Vec3Config{Z: -9.8},
		Bodies:   []brax.BodyConfig{{Name: "Ball", Mass: 1}},
	})
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}
	return sys
}

func TestServer_FrameSnapshot(t *testing.T) {
	s := NewServer(fallingBallSystem(t), time.Millisecond)

	if err := s.advance(); err != nil {
		t.Fatalf("advance() error = %v", err)
	}
	s.mu.Lock()
	frame := s.frameLocked()
	s.mu.Unlock()

	if frame.Step != 1 {
		t.Errorf("frame.Step = %d, want 1", frame.Step)
	}
	if math.Abs(frame.Time-0.1) > 1e-12 {
		t.Errorf("frame.Time = %v, want 0.1", frame.Time)
	}
	if len(frame.Bodies) != 1 || frame.Bodies[0].Name != "Ball" {
		t.Fatalf("frame.Bodies = %+v, want the single Ball", frame.Bodies)
	}
	if frame.Bodies[0].Pos[2] >= 0 {
		t.Errorf("ball z = %v, want below zero after falling", frame.Bodies[0].Pos[2])
	}
	if frame.Bodies[0].Rot != ([4]float64{1, 0, 0, 0}) {
		t.Errorf("ball rot = %v, want identity", frame.Bodies[0].Rot)
	}
}

func TestServer_SetAction(t *testing.T) {
	s := NewServer(fallingBallSystem(t), time.Millisecond)

	if err := s.SetAction([]float64{1}); err == nil {
		t.Error("SetAction() expected an error for a wrong length")
	}
	if err := s.SetAction(nil); err != nil {
		t.Errorf("SetAction() error = %v", err)
	}
}

func TestServer_StreamsFrames(t *testing.T) {
	s := NewServer(fallingBallSystem(t), time.Millisecond)
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// the current frame arrives on connect
	var first Frame
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if first.Step != 0 || len(first.Bodies) != 1 {
		t.Errorf("first frame = %+v, want step 0 with one body", first)
	}

	if err := s.advance(); err != nil {
		t.Fatalf("advance() error = %v", err)
	}
	var second Frame
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if second.Step != 1 {
		t.Errorf("second frame step = %d, want 1", second.Step)
	}
	if second.Bodies[0].Pos[2] >= first.Bodies[0].Pos[2] {
		t.Errorf("ball did not fall between frames: %v then %v", first.Bodies[0].Pos[2], second.Bodies[0].Pos[2])
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize(math.NaN()); got != 0 {
		t.Errorf("sanitize(NaN) = %v, want 0", got)
	}
	if got := sanitize(-2.5); got != -2.5 {
		t.Errorf("sanitize(-2.5) = %v, want -2.5", got)
	}
}
