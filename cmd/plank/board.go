package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/board"
	"github.com/plankhq/plank/internal/snapshot"
	"github.com/plankhq/plank/internal/types"
)

var boardOffline bool

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Work with kanban boards",
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the boards of a project",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		boards, err := client.Boards(context.Background(), requireProject())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(boards)
			return
		}
		for _, b := range boards {
			fmt.Printf("%s  %s\n", b.ID, b.Name)
		}
	},
}

var boardShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a board's columns and issues",
	Run: func(cmd *cobra.Command, args []string) {
		id := requireBoard()
		ctx := context.Background()

		if boardOffline {
			showOfflineBoard(ctx, id)
			return
		}

		store := sessionStore()
		client := apiClient(store)

		b, err := client.GetBoard(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		issues, err := client.BoardIssues(ctx, id, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Refresh the offline snapshot on every successful fetch
		if snap, err := snapshot.Open(snapshotPath()); err == nil {
			_ = snap.SaveBoard(ctx, b, issues)
			snap.Close()
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"board": b, "issues": issues})
			return
		}
		fmt.Print(renderBoard(b, issues))
	},
}

// showOfflineBoard renders the last snapshot without touching the network
func showOfflineBoard(ctx context.Context, id string) {
	snap, err := snapshot.Open(snapshotPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer snap.Close()

	b, issues, fetchedAt, err := snap.LoadBoard(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{"board": b, "issues": issues, "fetchedAt": fetchedAt})
		return
	}
	fmt.Print(renderBoard(b, issues))
	fmt.Printf("\n(offline snapshot from %s)\n", fetchedAt.Local().Format(time.RFC822))
}

// renderBoard lays out columns left to right with their issues beneath
func renderBoard(b *types.Board, issues []*types.Issue) string {
	cols := append([]*types.Column(nil), b.Columns...)
	sort.Slice(cols, func(i, j int) bool { return cols[i].Order < cols[j].Order })

	grouped := board.GroupByColumn(cols, issues)

	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", bold(b.Name))

	for _, col := range cols {
		list := grouped.ByColumn[col.ID]
		fmt.Fprintf(&sb, "%s (%d)\n", cyan(col.Name), len(list))
		for _, iss := range list {
			fmt.Fprintf(&sb, "  %-10s %s%s\n", iss.Key, iss.Title, issueBadges(iss))
		}
		sb.WriteString("\n")
	}

	if len(grouped.Unmatched) > 0 {
		fmt.Fprintf(&sb, "%s (%d)\n", cyan("No column"), len(grouped.Unmatched))
		for _, iss := range grouped.Unmatched {
			fmt.Fprintf(&sb, "  %-10s %s\n", iss.Key, iss.Title)
		}
	}
	return sb.String()
}

func issueBadges(iss *types.Issue) string {
	var parts []string
	if iss.Assignee != nil && iss.Assignee.Name != "" {
		parts = append(parts, "@"+iss.Assignee.Name)
	}
	if iss.StoryPoints > 0 {
		parts = append(parts, fmt.Sprintf("%dpt", iss.StoryPoints))
	}
	for _, l := range iss.Labels {
		parts = append(parts, "#"+l.Name)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  [" + strings.Join(parts, " ") + "]"
}

func init() {
	boardShowCmd.Flags().BoolVar(&boardOffline, "offline", false, "Render the last snapshot without contacting the server")
	boardCmd.AddCommand(boardListCmd)
	boardCmd.AddCommand(boardShowCmd)
	rootCmd.AddCommand(boardCmd)
}
