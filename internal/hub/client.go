package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
)

const (
	// Buffer for max events per scan cycle.
	sendBuffer   = 100
	writeTimeout = 10 * time.Second
	readLimit    = 512
)

// WSClient adapts a websocket connection to the Subscriber interface. The
// websocket package allows only one concurrent writer, so all writes go
// through a single pump goroutine fed by a buffered channel.
type WSClient struct {
	conn *websocket.Conn
	send chan models.Event
	done chan struct{}
	once sync.Once
}

func NewWSClient(conn *websocket.Conn) *WSClient {
	return &WSClient{
		conn: conn,
		send: make(chan models.Event, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues e for delivery. A closed client reports ErrClosed so the hub
// drops it; a full buffer drops the event instead of blocking the publisher.
func (c *WSClient) Send(e models.Event) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- e:
	default:
		// Skip slow subscribers
	}
	return nil
}

func (c *WSClient) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// WritePump drains the send queue onto the connection until the client is
// closed or a write fails. Runs in its own goroutine per connection.
func (c *WSClient) WritePump() {
	for {
		select {
		case <-c.done:
			return
		case e := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(e); err != nil {
				c.Close()
				return
			}
		}
	}
}

// ReadPump consumes inbound frames until the peer disconnects. Clients may
// send a subscribe acknowledgment after connecting; no filtering is applied
// to it, so frames are simply drained.
func (c *WSClient) ReadPump() {
	c.conn.SetReadLimit(readLimit)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.Close()
			return
		}
	}
}
