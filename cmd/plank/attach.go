package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/sync"
	"github.com/plankhq/plank/internal/types"
)

var attachScope string

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Manage attachments",
}

var attachUploadCmd = &cobra.Command{
	Use:   "upload [owner-id] [file...]",
	Short: "Upload one or more files to an issue, comment, epic, sprint, or release",
	Long: `Upload attaches files to the given owner. Files upload one at a
time in the order given; a failure stops the batch and reports which
file failed. Files uploaded earlier in the batch are kept.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		scope := types.AttachmentScope(attachScope)
		if !scope.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: invalid scope %q\n", attachScope)
			os.Exit(1)
		}

		ownerID := args[0]
		paths := args[1:]

		files := make(map[string]io.Reader, len(paths))
		order := make([]string, 0, len(paths))
		var handles []*os.File
		for _, p := range paths {
			f, err := os.Open(p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			handles = append(handles, f)
			name := filepath.Base(p)
			files[name] = f
			order = append(order, name)
		}
		defer func() {
			for _, f := range handles {
				f.Close()
			}
		}()

		store := sessionStore()
		client := apiClient(store)
		syncStore := sync.NewStore(client, currentUserID(store))

		uploaded, err := syncStore.Upload(context.Background(), scope, ownerID, files, order)
		green := color.New(color.FgGreen).SprintFunc()
		for _, att := range uploaded {
			fmt.Printf("%s Uploaded %s (%s)\n", green("✓"), att.Filename, att.ID)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var attachListCmd = &cobra.Command{
	Use:   "list [owner-id]",
	Short: "List attachments on an owner",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		scope := types.AttachmentScope(attachScope)
		if !scope.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: invalid scope %q\n", attachScope)
			os.Exit(1)
		}

		store := sessionStore()
		client := apiClient(store)

		attachments, err := client.Attachments(context.Background(), scope, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(attachments)
			return
		}
		if len(attachments) == 0 {
			fmt.Println("No attachments")
			return
		}
		for _, att := range attachments {
			uploader := ""
			if att.Uploader != nil {
				uploader = "  by " + att.Uploader.Name
			}
			fmt.Printf("  %s  %s  %s%s\n", att.ID, att.Filename, att.UploadedAt.Format("2006-01-02 15:04"), uploader)
		}
	},
}

var attachDeleteCmd = &cobra.Command{
	Use:   "delete [attachment-id]",
	Short: "Delete an attachment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		client := apiClient(store)

		if err := client.DeleteAttachment(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Attachment %s deleted\n", green("✓"), args[0])
	},
}

func init() {
	attachCmd.PersistentFlags().StringVar(&attachScope, "scope", "issue", "Attachment scope (issue, comment, epic, sprint, release)")
	attachCmd.AddCommand(attachUploadCmd)
	attachCmd.AddCommand(attachListCmd)
	attachCmd.AddCommand(attachDeleteCmd)
	rootCmd.AddCommand(attachCmd)
}
