// Package realtime keeps collaborating sessions' views of one board
// loosely consistent. Delivery is at-most-once and best effort: a dropped
// connection is not replayed, the view simply stays stale until the next
// refetch.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plankhq/plank/internal/types"
)

// Event names on the /boards channel
const (
	EventJoinBoard    = "joinBoard"
	EventLeaveBoard   = "leaveBoard"
	EventIssueMoved   = "issue-moved"
	EventIssueCreated = "issue-created"
	EventIssueDeleted = "issue-deleted"
	EventNotification = "notification"
)

// Event is the wire envelope on the board channel. Issue carries a minimal
// projection for moved/created; deleted only carries IssueID.
type Event struct {
	Event   string       `json:"event"`
	BoardID string       `json:"boardId,omitempty"`
	UserID  string       `json:"userId,omitempty"`
	Issue   *types.Issue `json:"issue,omitempty"`
	IssueID string       `json:"issueId,omitempty"`
	Context string       `json:"context,omitempty"` // notification scope, e.g. an issue id
	Message string       `json:"message,omitempty"`
}

// Handler receives remote events that survived the self-event filter.
// Any nil callback is skipped.
type Handler struct {
	OnIssueMoved   func(Event)
	OnIssueCreated func(Event)
	OnIssueDeleted func(Event)
	OnNotification func(Event)
}

// Conn is one websocket connection to the /boards namespace
type Conn struct {
	ws     *websocket.Conn
	userID string

	mu     sync.Mutex // guards writes; gorilla allows one concurrent writer
	joined map[string]bool
}

// Dial connects to the server's /boards namespace with bearer auth.
// userID is the local user; their own events are filtered out on receipt
// since the local optimistic update already reflects them.
func Dial(ctx context.Context, baseURL, token, userID string) (*Conn, error) {
	wsURL := strings.Replace(baseURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.TrimRight(wsURL, "/") + "/boards"

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (%d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	return &Conn{ws: ws, userID: userID, joined: make(map[string]bool)}, nil
}

// JoinBoard subscribes this connection to a board's events
func (c *Conn) JoinBoard(boardID string) error {
	if err := c.emit(Event{Event: EventJoinBoard, BoardID: boardID}); err != nil {
		return err
	}
	c.mu.Lock()
	c.joined[boardID] = true
	c.mu.Unlock()
	return nil
}

// LeaveBoard unsubscribes this connection from a board's events
func (c *Conn) LeaveBoard(boardID string) error {
	if err := c.emit(Event{Event: EventLeaveBoard, BoardID: boardID}); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.joined, boardID)
	c.mu.Unlock()
	return nil
}

func (c *Conn) emit(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Listen reads events until the context is cancelled or the connection
// drops, dispatching each through h. No reconnect, no replay: an error
// return means events may have been missed.
func (c *Conn) Listen(ctx context.Context, h Handler) error {
	go func() {
		<-ctx.Done()
		c.ws.Close()
	}()

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("websocket read failed: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			// Unknown frames are skipped, not fatal
			continue
		}
		c.Dispatch(ev, h)
	}
}

// Dispatch routes one event through h, applying the self-event policy:
// the three issue events are dropped when the acting user is the local
// user, because the local optimistic update already applied the change.
func (c *Conn) Dispatch(ev Event, h Handler) {
	switch ev.Event {
	case EventIssueMoved:
		if ev.UserID == c.userID {
			return
		}
		if h.OnIssueMoved != nil {
			h.OnIssueMoved(ev)
		}
	case EventIssueCreated:
		if ev.UserID == c.userID {
			return
		}
		if h.OnIssueCreated != nil {
			h.OnIssueCreated(ev)
		}
	case EventIssueDeleted:
		if ev.UserID == c.userID {
			return
		}
		if h.OnIssueDeleted != nil {
			h.OnIssueDeleted(ev)
		}
	case EventNotification:
		if h.OnNotification != nil {
			h.OnNotification(ev)
		}
	}
}

// Close leaves all joined boards and closes the connection
func (c *Conn) Close() error {
	c.mu.Lock()
	boards := make([]string, 0, len(c.joined))
	for id := range c.joined {
		boards = append(boards, id)
	}
	c.mu.Unlock()

	for _, id := range boards {
		_ = c.LeaveBoard(id)
	}
	return c.ws.Close()
}
