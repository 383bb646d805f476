package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/deskpilot/deskpilot/internal/agent"
	"github.com/deskpilot/deskpilot/internal/schema"
	"github.com/deskpilot/deskpilot/internal/session"
)

const (
	writeTimeout = 10 * time.Second
	maxFrameSize = 1 << 20
)

// client is one websocket connection bound to its own session.
// At most one turn runs at a time.
type client struct {
	conn  *websocket.Conn
	agent *agent.Agent
	sess  *session.Session
	log   *slog.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc // set while a turn runs
	turns  sync.WaitGroup
}

func newClient(conn *websocket.Conn, a *agent.Agent, log *slog.Logger) *client {
	key := "ws:" + uuid.NewString()
	return &client{
		conn:  conn,
		agent: a,
		sess:  a.Session(key),
		log:   log.With("session", key),
	}
}

// send writes one event. gorilla/websocket allows a single concurrent writer.
func (c *client) send(ev ServerEvent) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(ev); err != nil {
		c.log.Debug("Write failed", "type", ev.Type, "err", err)
	}
}

func (c *client) sendError(kind, msg string) {
	c.send(ServerEvent{Type: EventError, Kind: kind, Message: msg})
}

// serve reads client events until the connection or ctx ends.
func (c *client) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer func() {
		cancel()
		stop()
		c.turns.Wait()
		_ = c.conn.Close()
		c.agent.Sessions().Delete(c.sess.Key)
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.send(ServerEvent{Type: EventSession, Session: c.sess.Key})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var ev ClientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			c.sendError(KindBadRequest, "invalid JSON event")
			continue
		}
		switch ev.Type {
		case EventMessage:
			c.startTurn(ctx, ev.Content)
		case EventCancel:
			c.cancelTurn()
		default:
			c.sendError(KindBadRequest, "unknown event type: "+ev.Type)
		}
	}
}

func (c *client) startTurn(ctx context.Context, content string) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		c.sendError(KindBusy, "a turn is already running")
		return
	}
	turnCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.turns.Add(1)
	go func() {
		defer c.turns.Done()

		final, err := c.agent.Chat(turnCtx, c.sess, content, c.hooks())

		c.mu.Lock()
		c.cancel = nil
		c.mu.Unlock()
		cancel()

		if err != nil {
			c.sendError(schema.ErrorKind(err), err.Error())
			return
		}
		c.send(ServerEvent{Type: EventDone, Content: final})
	}()
}

func (c *client) cancelTurn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *client) hooks() agent.TurnHooks {
	return agent.TurnHooks{
		OnFragment: func(f schema.Fragment) {
			if f.Content != "" {
				c.send(ServerEvent{Type: EventFragment, Content: f.Content})
			}
		},
		OnToolCall: func(tc schema.ToolCall) {
			c.send(ServerEvent{Type: EventToolCall, Tool: tc.Name, Args: tc.Arguments})
		},
		OnToolResult: func(tc schema.ToolCall, result string) {
			c.send(ServerEvent{Type: EventToolResult, Tool: tc.Name, Content: result})
		},
	}
}
