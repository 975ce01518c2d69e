package transport

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// Identity is the connection metadata resolved during the upgrade/attach
// handshake: a room id, an optional reconnection token, and the playerId it
// is bound to once authenticated (spec §4.1/§4.2).
type Identity struct {
	RoomID   string
	Token    string
	PlayerID string
	IsMaster bool
}

// Socket is the duplex channel contract the Hub and Engine depend on.
// gorilla/websocket backs the production implementation (Conn below); tests
// use a fake that satisfies the same interface.
type Socket interface {
	Send(msg Message) error
	Close() error
	Identity() Identity
	SetIdentity(Identity)
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 16
)

// ErrPeerGone is returned by Send when the peer's outbound queue is full or
// the connection already closed; per spec §4.1 this is surfaced but never
// retried.
var ErrPeerGone = errors.New("transport: peer gone")

// Conn is the gorilla/websocket-backed Socket implementation. It owns one
// reader goroutine and one writer goroutine per connection, following the
// teacher's readPump/writePump split in celebrity.go.
type Conn struct {
	ws       *websocket.Conn
	send     chan Message
	identity Identity
}

// NewConn wraps an upgraded websocket connection. The caller must start
// ReadPump and WritePump in their own goroutines.
func NewConn(ws *websocket.Conn, identity Identity) *Conn {
	ws.SetReadLimit(maxMessageSize)
	return &Conn{
		ws:       ws,
		send:     make(chan Message, 16),
		identity: identity,
	}
}

func (c *Conn) Identity() Identity       { return c.identity }
func (c *Conn) SetIdentity(id Identity)  { c.identity = id }

// Send enqueues msg for delivery. Per spec §4.1, failure is surfaced but
// never retried; the peer is considered gone.
func (c *Conn) Send(msg Message) (err error) {
	defer func() {
		// the send queue is closed once Close has run
		if recover() != nil {
			err = ErrPeerGone
		}
	}()
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrPeerGone
	}
}

func (c *Conn) Close() error {
	defer func() {
		// closing twice is a caller bug in tests only; guard defensively
		recover()
	}()
	close(c.send)
	return c.ws.Close()
}

// ReadPump decodes inbound frames and delivers them to onMessage until the
// connection errors or closes, then calls onClose exactly once. Malformed
// JSON is reported via onDecodeError rather than terminating the
// connection (spec §4.1: "connection remains open").
func (c *Conn) ReadPump(onMessage func(Message), onDecodeError func(error), onClose func()) {
	defer onClose()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				return
			}
			if _, ok := err.(*websocket.CloseError); ok {
				return
			}
			// malformed JSON / decode failure: report and keep reading
			onDecodeError(err)
			continue
		}
		onMessage(msg)
	}
}

// WritePump drains the send channel to the socket and pings on idle,
// mirroring the teacher's writePump but adding the standard gorilla
// keepalive ticker.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.ws.Close()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
