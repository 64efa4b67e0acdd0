package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/sync"
	"github.com/plankhq/plank/internal/types"
)

var (
	issueType     string
	issuePriority string
	issuePoints   int
	issueParent   string
	issueAssignee string
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Manage issues",
}

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the issues on the selected board",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		issues, err := client.BoardIssues(context.Background(), requireBoard(), nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(issues)
			return
		}
		for _, iss := range issues {
			status := iss.Status
			if status == "" {
				status = iss.StatusID
			}
			fmt.Printf("%-10s %-12s %s\n", iss.Key, status, iss.Title)
		}
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show [issue-id]",
	Short: "Show one issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		iss, err := client.GetIssue(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(iss)
			return
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %s\n", bold(iss.Key), iss.Title)
		fmt.Printf("  type: %-8s status: %s\n", iss.Type, iss.Status)
		if iss.Priority != "" {
			fmt.Printf("  priority: %s\n", iss.Priority)
		}
		if iss.Assignee != nil {
			fmt.Printf("  assignee: %s\n", iss.Assignee.Name)
		}
		if iss.StoryPoints > 0 {
			fmt.Printf("  points: %d\n", iss.StoryPoints)
		}
		if len(iss.Labels) > 0 {
			fmt.Print("  labels:")
			for _, l := range iss.Labels {
				fmt.Printf(" %s", l.Name)
			}
			fmt.Println()
		}
		if iss.Description != "" {
			fmt.Printf("\n%s\n", iss.Description)
		}
	},
}

var issueCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create an issue on the selected board",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))

		iss := &types.Issue{
			Title:       args[0],
			Type:        types.IssueType(issueType),
			Priority:    types.Priority(issuePriority),
			StoryPoints: issuePoints,
			ParentID:    issueParent,
			BoardID:     requireBoard(),
		}
		if issueAssignee != "" {
			iss.Assignee = &types.UserRef{ID: issueAssignee, Name: issueAssignee}
		}

		created, err := syncStore.CreateIssue(context.Background(), iss.BoardID, iss)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(created)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created %s: %s\n", green("✓"), created.Key, created.Title)
	},
}

var issueMoveCmd = &cobra.Command{
	Use:   "move [issue-id] [column-name]",
	Short: "Move an issue into a board column",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		issueID, columnName := args[0], args[1]
		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))
		ctx := context.Background()
		id := requireBoard()

		b, err := client.GetBoard(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		var target *types.Column
		for _, col := range b.Columns {
			if col.Name == columnName || col.ID == columnName {
				target = col
				break
			}
		}
		if target == nil {
			fmt.Fprintf(os.Stderr, "Error: board has no column %q\n", columnName)
			os.Exit(1)
		}

		// Warm the cache so the optimistic update has something to patch
		if _, err := syncStore.BoardIssues(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := syncStore.UpdateIssueStatus(ctx, id, issueID, target); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Moved %s to %s\n", green("✓"), issueID, target.Name)
	},
}

var issueAssignCmd = &cobra.Command{
	Use:   "assign [issue-id] [user-id]",
	Short: "Assign an issue to a user",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		_, err := client.UpdateIssue(context.Background(), args[0], map[string]interface{}{
			"assigneeId": args[1],
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Assigned %s to %s\n", green("✓"), args[0], args[1])
	},
}

var issueDeleteCmd = &cobra.Command{
	Use:   "delete [issue-id]",
	Short: "Delete an issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		if err := client.DeleteIssue(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", args[0])
	},
}

var issueHistoryCmd = &cobra.Command{
	Use:   "history [issue-id]",
	Short: "Show an issue's change history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		entries, err := client.History(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			if entries == nil {
				entries = []*types.HistoryEntry{}
			}
			outputJSON(entries)
			return
		}
		for _, e := range entries {
			actor := "someone"
			if e.Actor != nil {
				actor = e.Actor.Name
			}
			fmt.Printf("%s  %s changed %s: %q -> %q\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04"), actor, e.Field, e.Before, e.After)
		}
	},
}

func init() {
	issueCreateCmd.Flags().StringVar(&issueType, "type", "task", "Issue type (epic|story|task|bug|subtask)")
	issueCreateCmd.Flags().StringVar(&issuePriority, "priority", "", "Priority (highest|high|medium|low|lowest)")
	issueCreateCmd.Flags().IntVar(&issuePoints, "points", 0, "Story points")
	issueCreateCmd.Flags().StringVar(&issueParent, "parent", "", "Parent issue id (for subtasks and epic children)")
	issueCreateCmd.Flags().StringVar(&issueAssignee, "assignee", "", "Assignee user id")

	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueShowCmd)
	issueCmd.AddCommand(issueCreateCmd)
	issueCmd.AddCommand(issueMoveCmd)
	issueCmd.AddCommand(issueAssignCmd)
	issueCmd.AddCommand(issueDeleteCmd)
	issueCmd.AddCommand(issueHistoryCmd)
	rootCmd.AddCommand(issueCmd)
}
