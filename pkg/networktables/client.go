package networktables

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/nerdyvision/internal/log"
)

// Config holds client connection settings.
type Config struct {
	Host           string        // Server host, usually the roboRIO mDNS name
	Port           int           // NT4 websocket port
	Name           string        // Client name prefix; a short unique suffix is added
	DialTimeout    time.Duration // Websocket handshake timeout
	WriteTimeout   time.Duration // Deadline for each frame write
	RedialInterval time.Duration // Minimum gap between background reconnects
}

// DefaultConfig returns client settings for the given host.
func DefaultConfig(host string) Config {
	return Config{
		Host:           host,
		Port:           DefaultPort,
		Name:           "nerdyvision",
		DialTimeout:    2 * time.Second,
		WriteTimeout:   500 * time.Millisecond,
		RedialInterval: 2 * time.Second,
	}
}

// topic is a published topic and the pubuid it was announced with.
type topic struct {
	name      string
	typ       Type
	pubuid    int64
	announced bool
}

// Client publishes values to one NT4 server.
// Writes are serialized; Client is safe for concurrent use.
type Client struct {
	config Config
	name   string
	start  time.Time

	mu       sync.Mutex
	conn     *websocket.Conn
	topics   map[string]*topic
	nextUID  int64
	offset   int64 // server micros minus local micros
	synced   bool
	dialing  bool
	lastDial time.Time
	closed   bool
}

// NewClient creates a disconnected client. Call Connect to dial.
func NewClient(cfg Config) *Client {
	return &Client{
		config: cfg,
		name:   fmt.Sprintf("%s-%s", cfg.Name, uuid.NewString()[:8]),
		start:  time.Now(),
		topics: make(map[string]*topic),
	}
}

// Name returns the client name presented to the server.
func (c *Client) Name() string {
	return c.name
}

// URL returns the websocket URL the client dials.
func (c *Client) URL() string {
	host := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
	return fmt.Sprintf("ws://%s/nt/%s", host, c.name)
}

// Connected reports whether a server connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Synced reports whether a time sync reply has been received.
func (c *Client) Synced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.synced
}

// Connect dials the server, re-announces known topics and starts time
// sync. It replaces any existing connection.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.lastDial = time.Now()
	c.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.DialTimeout,
		Subprotocols:     []string{Subprotocol},
	}

	conn, _, err := dialer.DialContext(ctx, c.URL(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.URL(), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		conn.Close()
		return ErrClosed
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.synced = false

	pending := make([]*topic, 0, len(c.topics))
	for _, t := range c.topics {
		t.announced = false
		pending = append(pending, t)
	}
	if err := c.announceLocked(pending); err != nil {
		c.dropLocked(conn)
		return err
	}
	if err := c.sendTimeSyncLocked(); err != nil {
		c.dropLocked(conn)
		return err
	}

	go c.readLoop(conn)

	log.Info("networktables connected", "url", c.URL())
	return nil
}

// Set publishes entries in a single binary frame, announcing any topic not
// yet known to the server. When disconnected it returns ErrNotConnected at
// once and may start a background reconnect; the write itself is never
// retried.
func (c *Client) Set(entries ...Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.conn == nil {
		c.redialLocked()
		return ErrNotConnected
	}

	var pending []*topic
	frames := make([]valueFrame, 0, len(entries))
	now := c.serverTimeLocked()

	for _, e := range entries {
		t, ok := c.topics[e.Name]
		if !ok {
			t = &topic{name: e.Name, typ: e.Type, pubuid: c.nextUID}
			c.nextUID++
			c.topics[e.Name] = t
		} else if t.typ != e.Type {
			return fmt.Errorf("%w: %s is %v, not %v", ErrTypeMismatch, e.Name, t.typ, e.Type)
		}
		if !t.announced {
			pending = append(pending, t)
		}
		frames = append(frames, valueFrame{ID: t.pubuid, Timestamp: now, Type: e.Type, Value: e.Value})
	}

	data, err := encodeValues(frames)
	if err != nil {
		return err
	}

	conn := c.conn
	if err := c.announceLocked(pending); err != nil {
		c.dropLocked(conn)
		return err
	}
	if err := c.writeLocked(websocket.BinaryMessage, data); err != nil {
		c.dropLocked(conn)
		return err
	}
	return nil
}

// Table returns a handle for writing keys under /name/.
func (c *Client) Table(name string) *Table {
	return &Table{client: c, name: name}
}

// Close shuts the connection down. A closed client cannot reconnect.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn != nil {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.config.WriteTimeout))
		c.conn.Close()
		c.conn = nil
	}
	return nil
}

// announceLocked sends publish messages for topics and marks them announced.
func (c *Client) announceLocked(topics []*topic) error {
	if len(topics) == 0 {
		return nil
	}
	data, err := encodePublish(topics)
	if err != nil {
		return err
	}
	if err := c.writeLocked(websocket.TextMessage, data); err != nil {
		return err
	}
	for _, t := range topics {
		t.announced = true
	}
	return nil
}

// sendTimeSyncLocked asks the server for its clock.
func (c *Client) sendTimeSyncLocked() error {
	data, err := encodeValues([]valueFrame{{
		ID:        timeSyncID,
		Timestamp: 0,
		Type:      TypeInt,
		Value:     c.localMicros(),
	}})
	if err != nil {
		return err
	}
	return c.writeLocked(websocket.BinaryMessage, data)
}

func (c *Client) writeLocked(msgType int, data []byte) error {
	if c.config.WriteTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	}
	if err := c.conn.WriteMessage(msgType, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// dropLocked forgets conn if it is still the current connection.
func (c *Client) dropLocked(conn *websocket.Conn) {
	if c.conn == conn && conn != nil {
		conn.Close()
		c.conn = nil
		c.synced = false
	}
}

// redialLocked starts one background Connect if none is running and the
// last attempt is older than RedialInterval.
func (c *Client) redialLocked() {
	if c.dialing || c.config.RedialInterval <= 0 {
		return
	}
	if time.Since(c.lastDial) < c.config.RedialInterval {
		return
	}
	c.dialing = true
	c.lastDial = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.config.DialTimeout+time.Second)
		defer cancel()

		if err := c.Connect(ctx); err != nil {
			log.Debug("networktables redial failed", "error", err)
		}

		c.mu.Lock()
		c.dialing = false
		c.mu.Unlock()
	}()
}

// readLoop drains server frames until conn fails.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			wasCurrent := c.conn == conn
			c.dropLocked(conn)
			closed := c.closed
			c.mu.Unlock()

			if wasCurrent && !closed {
				log.Warn("networktables disconnected", "error", err)
			}
			return
		}

		switch msgType {
		case websocket.TextMessage:
			c.handleControl(data)
		case websocket.BinaryMessage:
			c.handleValues(data)
		}
	}
}

func (c *Client) handleControl(data []byte) {
	msgs, err := decodeControl(data)
	if err != nil {
		log.Debug("networktables bad control frame", "error", err)
		return
	}
	for _, m := range msgs {
		if m.Method == "announce" {
			log.Debug("networktables announce", "params", string(m.Params))
		}
	}
}

func (c *Client) handleValues(data []byte) {
	frames, err := decodeValues(data)
	if err != nil {
		log.Debug("networktables bad value frame", "error", err)
	}
	for _, f := range frames {
		if f.ID != timeSyncID {
			continue
		}
		sent, ok := asInt64(f.Value)
		if !ok {
			continue
		}
		c.applyTimeSync(sent, f.Timestamp)
	}
}

// applyTimeSync updates the clock offset from a sync reply. The server
// stamped the reply at serverMicros; half the round trip has elapsed since.
func (c *Client) applyTimeSync(sentMicros, serverMicros int64) {
	now := c.localMicros()
	rtt := now - sentMicros

	c.mu.Lock()
	c.offset = serverMicros + rtt/2 - now
	c.synced = true
	c.mu.Unlock()
}

func (c *Client) localMicros() int64 {
	return time.Since(c.start).Microseconds()
}

// serverTimeLocked returns the current time on the server clock, or 0
// before the first sync so the server stamps the value itself.
func (c *Client) serverTimeLocked() int64 {
	if !c.synced {
		return 0
	}
	return c.localMicros() + c.offset
}
