package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plankhq/plank/internal/types"
)

var upgrader = websocket.Upgrader{}

// boardServer upgrades one connection and pushes the given events after
// reading the client's joinBoard frame.
func boardServer(t *testing.T, push []Event) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/boards" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()

		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var join Event
		if err := json.Unmarshal(payload, &join); err != nil || join.Event != EventJoinBoard {
			t.Errorf("expected joinBoard, got %s", payload)
			return
		}

		for _, ev := range push {
			data, _ := json.Marshal(ev)
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away
		ws.ReadMessage()
	}))
}

func TestListenDispatchesRemoteEvents(t *testing.T) {
	srv := boardServer(t, []Event{
		{Event: EventIssueCreated, BoardID: "board-1", UserID: "u-2", Issue: &types.Issue{ID: "iss-9", Title: "Remote issue"}},
		{Event: EventIssueMoved, BoardID: "board-1", UserID: "u-2", Issue: &types.Issue{ID: "iss-9", StatusID: "col-2"}},
		{Event: EventIssueDeleted, BoardID: "board-1", UserID: "u-2", IssueID: "iss-9"},
	})
	defer srv.Close()

	conn, err := Dial(context.Background(), srv.URL, "tok", "u-1")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.JoinBoard("board-1"); err != nil {
		t.Fatalf("JoinBoard: %v", err)
	}

	got := make(chan string, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go conn.Listen(ctx, Handler{
		OnIssueCreated: func(ev Event) { got <- "created:" + ev.Issue.ID },
		OnIssueMoved:   func(ev Event) { got <- "moved:" + ev.Issue.StatusID },
		OnIssueDeleted: func(ev Event) { got <- "deleted:" + ev.IssueID },
	})

	want := []string{"created:iss-9", "moved:col-2", "deleted:iss-9"}
	for _, w := range want {
		select {
		case g := <-got:
			if g != w {
				t.Errorf("got %q, want %q", g, w)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %q", w)
		}
	}
}

func TestDispatchIgnoresOwnEvents(t *testing.T) {
	conn := &Conn{userID: "u-1", joined: make(map[string]bool)}

	fired := false
	h := Handler{
		OnIssueMoved:   func(Event) { fired = true },
		OnIssueCreated: func(Event) { fired = true },
		OnIssueDeleted: func(Event) { fired = true },
	}

	for _, name := range []string{EventIssueMoved, EventIssueCreated, EventIssueDeleted} {
		conn.Dispatch(Event{Event: name, UserID: "u-1", Issue: &types.Issue{ID: "iss-1"}}, h)
	}
	if fired {
		t.Error("events from the local user must be no-ops")
	}

	conn.Dispatch(Event{Event: EventIssueMoved, UserID: "u-2", Issue: &types.Issue{ID: "iss-1"}}, h)
	if !fired {
		t.Error("events from other users must dispatch")
	}
}

func TestDispatchNotificationNotFiltered(t *testing.T) {
	// The generic notification event fires regardless of actor; the view
	// decides whether its context matches the open issue.
	conn := &Conn{userID: "u-1", joined: make(map[string]bool)}

	var got Event
	conn.Dispatch(Event{Event: EventNotification, UserID: "u-1", Context: "iss-3", Message: "new comment"}, Handler{
		OnNotification: func(ev Event) { got = ev },
	})
	if got.Context != "iss-3" {
		t.Errorf("notification not dispatched: %+v", got)
	}
}

func TestDialSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))
	defer srv.Close()

	conn, err := Dial(context.Background(), srv.URL, "tok-77", "u-1")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	conn.Close()

	if gotAuth != "Bearer tok-77" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestDialRejectedHandshake(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := Dial(context.Background(), srv.URL, "", "u-1")
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !strings.Contains(err.Error(), "websocket dial failed") {
		t.Errorf("unexpected error: %v", err)
	}
}
