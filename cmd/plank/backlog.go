package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/sync"
)

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Manage the project backlog",
}

var backlogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show backlog issues in rank order",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))

		issues, err := syncStore.BacklogIssues(context.Background(), requireProject())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(issues)
			return
		}
		if len(issues) == 0 {
			fmt.Println("Backlog is empty")
			return
		}
		for i, iss := range issues {
			fmt.Printf("%3d. %-10s %s%s\n", i, iss.Key, iss.Title, issueBadges(iss))
		}
	},
}

var backlogMoveCmd = &cobra.Command{
	Use:   "move [from-index] [to-index]",
	Short: "Move a backlog issue to a new position",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid index %q\n", args[0])
			os.Exit(1)
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid index %q\n", args[1])
			os.Exit(1)
		}

		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))
		ctx := context.Background()
		projectID := requireProject()

		// Warm the cache so the move has an ordering to splice.
		if _, err := syncStore.BacklogIssues(ctx, projectID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := syncStore.ReorderBacklog(ctx, projectID, from, to); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Moved backlog position %d to %d\n", green("✓"), from, to)
	},
}

var backlogToSprintCmd = &cobra.Command{
	Use:   "to-sprint [issue-id] [sprint-id]",
	Short: "Move a backlog issue into a sprint",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))

		err := syncStore.MoveIssueToSprint(context.Background(), requireProject(), args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Issue %s moved to sprint %s\n", green("✓"), args[0], args[1])
	},
}

var backlogFromSprintCmd = &cobra.Command{
	Use:   "from-sprint [issue-id] [sprint-id]",
	Short: "Move a sprint issue back to the backlog",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))

		err := syncStore.MoveIssueToBacklog(context.Background(), requireProject(), args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Issue %s moved to backlog\n", green("✓"), args[0])
	},
}

func init() {
	backlogCmd.AddCommand(backlogShowCmd)
	backlogCmd.AddCommand(backlogMoveCmd)
	backlogCmd.AddCommand(backlogToSprintCmd)
	backlogCmd.AddCommand(backlogFromSprintCmd)
	rootCmd.AddCommand(backlogCmd)
}
