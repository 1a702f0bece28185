package control

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"git.c3pb.de/farhaven/solarsystem/orrery"
)

func newTestServer(t *testing.T) (*httptest.Server, *orrery.Orrery) {
	o := orrery.New()
	o.Tick(0)

	s := NewServer(o, NewMetrics(o))
	s.Interval = 20 * time.Millisecond

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return srv, o
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf(`dial %s: %s`, url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// roundTrip sends c and skips state pushes until the reply arrives.
func roundTrip(t *testing.T, conn *websocket.Conn, c Command) Message {
	if err := conn.WriteJSON(c); err != nil {
		t.Fatalf(`write: %s`, err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf(`read: %s`, err)
		}
		if msg.Op != "" {
			return msg
		}
	}
}

func TestState(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf(`get state: %s`, err)
	}
	defer resp.Body.Close()

	var st orrery.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf(`decode: %s`, err)
	}
	if len(st.Bodies) != 9 {
		t.Errorf(`expected 9 bodies, got %d`, len(st.Bodies))
	}
	if st.Paused {
		t.Errorf(`paused at start`)
	}
	if b, ok := st.Body(orrery.Earth); !ok || b.Speed != 1 {
		t.Errorf(`earth speed %v`, b.Speed)
	}

	resp, err = http.Post(srv.URL+"/state", "application/json", nil)
	if err != nil {
		t.Fatalf(`post state: %s`, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf(`post state answered %d`, resp.StatusCode)
	}
}

func TestSpeedCommand(t *testing.T) {
	srv, o := newTestServer(t)
	conn := dial(t, srv)

	msg := roundTrip(t, conn, Command{Op: OpSpeed, Body: "earth", Value: 2.5})
	if msg.Error != "" {
		t.Fatalf(`speed command failed: %s`, msg.Error)
	}
	if v := o.Speed(orrery.Earth); v != 2.5 {
		t.Errorf(`earth speed %v`, v)
	}
	if v := o.Speed(orrery.Mars); v != 0.8 {
		t.Errorf(`mars speed changed to %v`, v)
	}

	roundTrip(t, conn, Command{Op: OpSpeed, Body: "Neptune", Value: 42})
	if v := o.Speed(orrery.Neptune); v != orrery.MaxSpeed {
		t.Errorf(`neptune speed not clamped: %v`, v)
	}
}

func TestCommandErrors(t *testing.T) {
	srv, o := newTestServer(t)
	conn := dial(t, srv)

	for _, c := range []Command{
		{Op: OpSpeed, Body: "Pluto", Value: 1},
		{Op: OpSpeed, Body: "Sun", Value: 1},
		{Op: "warp"},
	} {
		if msg := roundTrip(t, conn, c); msg.Error == "" {
			t.Errorf(`%+v: expected an error`, c)
		}
	}

	if b, _ := o.Snapshot().Body(orrery.Sun); b.Speed != 0 {
		t.Errorf(`sun got a speed`)
	}
}

func TestPauseCommands(t *testing.T) {
	srv, o := newTestServer(t)
	conn := dial(t, srv)

	roundTrip(t, conn, Command{Op: OpPause})
	if !o.Paused() {
		t.Errorf(`not paused`)
	}
	roundTrip(t, conn, Command{Op: OpPause})
	if !o.Paused() {
		t.Errorf(`pause isn't idempotent`)
	}
	roundTrip(t, conn, Command{Op: OpToggle})
	if o.Paused() {
		t.Errorf(`toggle didn't resume`)
	}
	roundTrip(t, conn, Command{Op: OpToggle})
	roundTrip(t, conn, Command{Op: OpResume})
	if o.Paused() {
		t.Errorf(`still paused after resume`)
	}
}

func TestStatePush(t *testing.T) {
	srv, o := newTestServer(t)
	o.SetPaused(true)
	conn := dial(t, srv)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf(`read: %s`, err)
	}
	if msg.State == nil || !msg.State.Paused {
		t.Errorf(`unexpected push %+v`, msg)
	}
}

func TestRateLimit(t *testing.T) {
	o := orrery.New()
	s := NewServer(o, NewMetrics(o))
	s.Limit, s.Burst = 0, 1

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	conn := dial(t, srv)

	if msg := roundTrip(t, conn, Command{Op: OpPause}); msg.Error != "" {
		t.Errorf(`first command failed: %s`, msg.Error)
	}
	if msg := roundTrip(t, conn, Command{Op: OpResume}); msg.Error == "" {
		t.Errorf(`second command not limited`)
	}
	if !o.Paused() {
		t.Errorf(`limited command was applied`)
	}
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	roundTrip(t, conn, Command{Op: OpSpeed, Body: "Mars", Value: 3})

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf(`get metrics: %s`, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf(`read metrics: %s`, err)
	}

	for _, want := range []string{
		`solarsystem_commands_total{op="speed",result="ok"} 1`,
		`solarsystem_body_speed{body="Mars"} 3`,
		`solarsystem_ws_clients 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf(`metrics lack %q`, want)
		}
	}
}

func TestMetricsFollowLocalSpeedChanges(t *testing.T) {
	srv, o := newTestServer(t)

	// What the on-screen sliders do.
	if err := o.SetSpeed(orrery.Earth, 4.2); err != nil {
		t.Fatalf(`set speed: %s`, err)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf(`get metrics: %s`, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf(`read metrics: %s`, err)
	}

	for _, want := range []string{
		`solarsystem_body_speed{body="Earth"} 4.2`,
		`solarsystem_body_speed{body="Mars"} 0.8`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf(`metrics lack %q`, want)
		}
	}
	if strings.Contains(string(body), `body="Sun"`) {
		t.Errorf(`the sun has a speed metric`)
	}
}
