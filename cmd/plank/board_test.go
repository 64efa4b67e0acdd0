package main

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/plankhq/plank/internal/types"
)

func testBoard() *types.Board {
	return &types.Board{
		ID:   "b1",
		Name: "Delivery",
		Columns: []*types.Column{
			{ID: "c2", Name: "In Progress", Order: 1},
			{ID: "c1", Name: "To Do", Order: 0},
			{ID: "c3", Name: "Done", Order: 2},
		},
	}
}

func TestRenderBoard(t *testing.T) {
	color.NoColor = true

	issues := []*types.Issue{
		{ID: "i1", Key: "PLK-1", Title: "Set up repo", StatusID: "c3", Position: "a"},
		{ID: "i2", Key: "PLK-2", Title: "Wire login", StatusID: "c2", Position: "a"},
		{ID: "i3", Key: "PLK-3", Title: "Board view", StatusID: "c1", Position: "b"},
		{ID: "i4", Key: "PLK-4", Title: "Realtime", StatusID: "c1", Position: "a"},
	}

	out := renderBoard(testBoard(), issues)

	if !strings.Contains(out, "Delivery") {
		t.Errorf("expected board name in output, got:\n%s", out)
	}

	// Columns render in Order, not slice order
	todo := strings.Index(out, "To Do (2)")
	inProgress := strings.Index(out, "In Progress (1)")
	done := strings.Index(out, "Done (1)")
	if todo == -1 || inProgress == -1 || done == -1 {
		t.Fatalf("expected all column headers with counts, got:\n%s", out)
	}
	if !(todo < inProgress && inProgress < done) {
		t.Errorf("expected columns ordered To Do < In Progress < Done, got:\n%s", out)
	}

	// Within a column, issues render in rank order
	plk4 := strings.Index(out, "PLK-4")
	plk3 := strings.Index(out, "PLK-3")
	if plk4 == -1 || plk3 == -1 || plk4 > plk3 {
		t.Errorf("expected PLK-4 (rank a) before PLK-3 (rank b), got:\n%s", out)
	}

	if strings.Contains(out, "No column") {
		t.Errorf("did not expect an unmatched section, got:\n%s", out)
	}
}

func TestRenderBoardUnmatched(t *testing.T) {
	color.NoColor = true

	issues := []*types.Issue{
		{ID: "i1", Key: "PLK-1", Title: "Orphan", StatusID: "nope", Position: "a"},
	}

	out := renderBoard(testBoard(), issues)
	if !strings.Contains(out, "No column (1)") {
		t.Errorf("expected unmatched section, got:\n%s", out)
	}
	if !strings.Contains(out, "PLK-1") {
		t.Errorf("expected orphan issue listed, got:\n%s", out)
	}
}

func TestIssueBadges(t *testing.T) {
	tests := []struct {
		name  string
		issue *types.Issue
		want  string
	}{
		{
			name:  "no badges",
			issue: &types.Issue{},
			want:  "",
		},
		{
			name:  "assignee only",
			issue: &types.Issue{Assignee: &types.UserRef{Name: "dana"}},
			want:  "  [@dana]",
		},
		{
			name: "all badges",
			issue: &types.Issue{
				Assignee:    &types.UserRef{Name: "dana"},
				StoryPoints: 5,
				Labels:      []types.Label{{Name: "infra"}},
			},
			want: "  [@dana 5pt #infra]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := issueBadges(tt.issue); got != tt.want {
				t.Errorf("issueBadges() = %q, want %q", got, tt.want)
			}
		})
	}
}
