package snapshot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plankhq/plank/internal/types"
)

func testBoard() (*types.Board, []*types.Issue) {
	b := &types.Board{
		ID:   "board-1",
		Name: "Sprint Board",
		Columns: []*types.Column{
			{ID: "col-1", Name: "To Do", Order: 0},
			{ID: "col-2", Name: "In Progress", Order: 1},
		},
	}
	issues := []*types.Issue{
		{ID: "iss-1", Key: "PLK-1", Title: "First", Type: types.TypeStory, StatusID: "col-1", Position: "m"},
		{ID: "iss-2", Key: "PLK-2", Title: "Second", Type: types.TypeBug, StatusID: "col-2", Position: "f"},
	}
	return b, issues
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	b, issues := testBoard()
	if err := store.SaveBoard(ctx, b, issues); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}

	gotBoard, gotIssues, fetchedAt, err := store.LoadBoard(ctx, "board-1")
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if gotBoard.Name != "Sprint Board" || len(gotBoard.Columns) != 2 {
		t.Errorf("board = %+v", gotBoard)
	}
	if gotBoard.Columns[0].Name != "To Do" {
		t.Errorf("columns out of order: %+v", gotBoard.Columns)
	}
	if len(gotIssues) != 2 {
		t.Fatalf("got %d issues", len(gotIssues))
	}
	// Ordered by position: "f" before "m"
	if gotIssues[0].ID != "iss-2" || gotIssues[1].ID != "iss-1" {
		t.Errorf("issues out of position order: %s, %s", gotIssues[0].ID, gotIssues[1].ID)
	}
	if gotIssues[1].Title != "First" || gotIssues[1].Key != "PLK-1" {
		t.Errorf("issue fields lost: %+v", gotIssues[1])
	}
	if fetchedAt.IsZero() {
		t.Error("fetchedAt should be set")
	}
}

func TestSaveReplacesPriorSnapshot(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	b, issues := testBoard()
	if err := store.SaveBoard(ctx, b, issues); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}

	// Second save with one issue gone must not leave the deleted row behind
	if err := store.SaveBoard(ctx, b, issues[:1]); err != nil {
		t.Fatalf("SaveBoard again: %v", err)
	}
	_, gotIssues, _, err := store.LoadBoard(ctx, "board-1")
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if len(gotIssues) != 1 || gotIssues[0].ID != "iss-1" {
		t.Errorf("stale rows survived the replace: %+v", gotIssues)
	}
}

func TestLoadMissingBoard(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, _, _, err = store.LoadBoard(context.Background(), "board-nope")
	if err == nil || !strings.Contains(err.Error(), "no snapshot") {
		t.Errorf("expected no-snapshot error, got %v", err)
	}
}

func TestBoardsList(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	b, issues := testBoard()
	store.SaveBoard(ctx, b, issues)
	b2 := &types.Board{ID: "board-2", Name: "Other"}
	store.SaveBoard(ctx, b2, nil)

	ids, err := store.Boards(ctx)
	if err != nil {
		t.Fatalf("Boards: %v", err)
	}
	if len(ids) != 2 || ids[0] != "board-1" || ids[1] != "board-2" {
		t.Errorf("ids = %v", ids)
	}
}
