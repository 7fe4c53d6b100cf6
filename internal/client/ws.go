package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// WSClient subscribes to the server's collection-changed feed and delivers
// the events as Bubble Tea messages.
type WSClient struct {
	url    string
	cookie string

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSClient creates a client for the given websocket URL. cookie is the
// session cookie header value used to authenticate the upgrade.
func NewWSClient(url, cookie string) *WSClient {
	return &WSClient{url: url, cookie: cookie}
}

// --- Bubble Tea messages ---

// WSConnectedMsg is sent when the WebSocket connects.
type WSConnectedMsg struct{}

// WSDisconnectedMsg is sent when the connection drops.
type WSDisconnectedMsg struct{ Err error }

// CollectionChangedMsg signals that the collection was mutated elsewhere and
// the view should reload.
type CollectionChangedMsg struct {
	Count int       `json:"count"`
	At    time.Time `json:"at"`
}

// Listen returns a command that connects and reports WSConnectedMsg. It
// retries with backoff until the context is cancelled.
func (c *WSClient) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			header := http.Header{}
			if c.cookie != "" {
				header.Set("Cookie", c.cookie)
			}
			conn, _, err := websocket.DefaultDialer.Dial(c.url, header)
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(delay):
				}
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
			return WSConnectedMsg{}
		}
	}
}

// ReadLoop returns a command that blocks for the next event. The root model
// re-issues it after handling each message.
func (c *WSClient) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return WSDisconnectedMsg{}
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return WSDisconnectedMsg{Err: err}
			}
			var ev struct {
				Type  string    `json:"type"`
				Count int       `json:"count"`
				At    time.Time `json:"at"`
			}
			if err := json.Unmarshal(data, &ev); err != nil {
				continue
			}
			if ev.Type == "collection_changed" {
				return CollectionChangedMsg{Count: ev.Count, At: ev.At}
			}
		}
	}
}

// Close tears the connection down.
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
