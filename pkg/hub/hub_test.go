package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
)

type fakeConn struct {
	mu      sync.Mutex
	written []Message
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch messageType {
	case websocket.TextMessage:
		f.written = append(f.written, NewJSONMessage(data))
	case websocket.BinaryMessage:
		f.written = append(f.written, NewBinaryMessage(data))
	}
	return nil
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.written...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	waitFor(t, h.IsRunning)
	t.Cleanup(cancel)
	return h, cancel
}

func TestHubBroadcastReachesClients(t *testing.T) {
	h, _ := startHub(t)

	conns := []*fakeConn{newFakeConn(), newFakeConn()}
	for _, conn := range conns {
		c := NewClient(h, conn)
		go c.Run()
	}
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.BroadcastBinary([]byte{0xff, 0xd8})

	for i, conn := range conns {
		waitFor(t, func() bool { return len(conn.messages()) == 1 })
		msg := conn.messages()[0]
		if msg.Type != BinaryMessage || len(msg.Data) != 2 {
			t.Errorf("client %d got %+v", i, msg)
		}
	}
}

func TestHubReplaysLastMessage(t *testing.T) {
	h, _ := startHub(t)

	if err := h.BroadcastJSON(map[string]float64{"angleToTurn": 1.5}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}
	// Broadcast is queued; give the hub a moment to record it.
	time.Sleep(20 * time.Millisecond)

	conn := newFakeConn()
	go NewClient(h, conn).Run()

	waitFor(t, func() bool { return len(conn.messages()) == 1 })
	got := conn.messages()[0]
	if got.Type != JSONMessage || string(got.Data) != `{"angleToTurn":1.5}` {
		t.Errorf("replayed %q", got.Data)
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	h, _ := startHub(t)

	conn := newFakeConn()
	go NewClient(h, conn).Run()
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestHubStopsOnCancel(t *testing.T) {
	h, cancel := startHub(t)

	conn := newFakeConn()
	go NewClient(h, conn).Run()
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	waitFor(t, func() bool { return !h.IsRunning() })
	if n := h.ClientCount(); n != 0 {
		t.Errorf("ClientCount after stop = %d", n)
	}
	if c := NewClient(h, newFakeConn()); c != nil {
		t.Error("NewClient on stopped hub should return nil")
	}
}

func TestBroadcastJSONRejectsUnencodable(t *testing.T) {
	h := New("test")
	if err := h.BroadcastJSON(make(chan int)); err == nil {
		t.Error("expected encode error")
	}
}
