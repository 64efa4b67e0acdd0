package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/board"
	"github.com/plankhq/plank/internal/summarize"
	"github.com/plankhq/plank/internal/sync"
	"github.com/plankhq/plank/internal/types"
)

var summarizeAPIKey string

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints",
}

var sprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sprints grouped by state",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		sprints, err := client.Sprints(context.Background(), requireProject())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(sprints)
			return
		}

		grouped := board.GroupSprints(sprints)
		printSprintBucket("Active", grouped.Active)
		printSprintBucket("Planned", grouped.Planned)
		printSprintBucket("Completed", grouped.Completed)
		printSprintBucket("Cancelled", grouped.Cancelled)
	},
}

func printSprintBucket(title string, sprints []*types.Sprint) {
	if len(sprints) == 0 {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s\n", cyan(title))
	for _, s := range sprints {
		dates := ""
		if s.StartDate != nil && s.EndDate != nil {
			dates = fmt.Sprintf("  %s - %s", s.StartDate.Format("Jan 2"), s.EndDate.Format("Jan 2"))
		}
		fmt.Printf("  %s  %s%s\n", s.ID, s.Name, dates)
	}
	fmt.Println()
}

var sprintStartCmd = &cobra.Command{
	Use:   "start [sprint-id]",
	Short: "Start a planned sprint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		if err := client.StartSprint(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Sprint %s is now active\n", green("✓"), args[0])
	},
}

var sprintCompleteCmd = &cobra.Command{
	Use:   "complete [sprint-id]",
	Short: "Complete the active sprint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		if err := client.CompleteSprint(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Sprint %s completed\n", green("✓"), args[0])
	},
}

var sprintActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active sprint and its issues",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)
		ctx := context.Background()

		sprints, err := client.Sprints(ctx, requireProject())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		active := board.ActiveSprint(sprints)
		if active == nil {
			fmt.Println("No active sprint")
			return
		}

		issues, err := client.SprintIssues(ctx, active.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"sprint": active, "issues": issues})
			return
		}
		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s", bold(active.Name))
		if active.Goal != "" {
			fmt.Printf(" — %s", active.Goal)
		}
		fmt.Println()
		for _, iss := range issues {
			fmt.Printf("  %-10s %-12s %s\n", iss.Key, iss.Status, iss.Title)
		}
	},
}

var sprintReorderCmd = &cobra.Command{
	Use:   "reorder [sprint-id] [from-index] [to-index]",
	Short: "Move a sprint issue to a new position",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		from, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid index %q\n", args[1])
			os.Exit(1)
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid index %q\n", args[2])
			os.Exit(1)
		}

		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))
		ctx := context.Background()

		// Warm the cache so the move has an ordering to splice.
		if _, err := syncStore.SprintIssues(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := syncStore.ReorderSprint(ctx, args[0], from, to); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Moved sprint position %d to %d\n", green("✓"), from, to)
	},
}

var sprintSummarizeCmd = &cobra.Command{
	Use:   "summarize [sprint-id]",
	Short: "Generate a sprint report with Claude",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)
		ctx := context.Background()

		sprints, err := client.Sprints(ctx, requireProject())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		var sprint *types.Sprint
		for _, s := range sprints {
			if s.ID == args[0] {
				sprint = s
				break
			}
		}
		if sprint == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown sprint %s\n", args[0])
			os.Exit(1)
		}

		issues, err := client.SprintIssues(ctx, sprint.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		summarizer, err := summarize.NewClient(summarizeAPIKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		report, err := summarizer.SprintReport(ctx, sprint, issues)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(report)
	},
}

func init() {
	sprintSummarizeCmd.Flags().StringVar(&summarizeAPIKey, "api-key", "", "Anthropic API key (default $ANTHROPIC_API_KEY)")
	sprintCmd.AddCommand(sprintListCmd)
	sprintCmd.AddCommand(sprintStartCmd)
	sprintCmd.AddCommand(sprintCompleteCmd)
	sprintCmd.AddCommand(sprintActiveCmd)
	sprintCmd.AddCommand(sprintReorderCmd)
	sprintCmd.AddCommand(sprintSummarizeCmd)
	rootCmd.AddCommand(sprintCmd)
}
