package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage issue comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add [issue-id] [body...]",
	Short: "Add a comment to an issue",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		body := strings.Join(args[1:], " ")
		comment, err := client.AddComment(context.Background(), args[0], body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			outputJSON(comment)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Comment %s added to %s\n", green("✓"), comment.ID, args[0])
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list [issue-id]",
	Short: "List comments on an issue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		comments, err := client.Comments(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			outputJSON(comments)
			return
		}
		if len(comments) == 0 {
			fmt.Println("No comments")
			return
		}
		bold := color.New(color.Bold).SprintFunc()
		for _, c := range comments {
			author := "unknown"
			if c.Author != nil {
				author = c.Author.Name
			}
			fmt.Printf("%s  %s\n", bold(author), c.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Printf("  %s\n\n", c.Body)
		}
	},
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
	rootCmd.AddCommand(commentCmd)
}
