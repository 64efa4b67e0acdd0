// Package main implements the plank CLI, a terminal client for a
// sprint/kanban tracker backend.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/api"
	"github.com/plankhq/plank/internal/config"
	"github.com/plankhq/plank/internal/session"
)

// Version is the CLI version, overridable at build time
var Version = api.ClientVersion

var (
	serverURL  string
	boardID    string
	projectID  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "plank",
	Short: "plank - Terminal client for your sprint board",
	Long:  `Boards, sprints, and backlog from the terminal, kept in sync with your team in real time.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("server") && serverURL == "" {
			serverURL = config.GetString("server")
		}
		if !cmd.Flags().Changed("board") && boardID == "" {
			boardID = config.GetString("board")
		}
		if !cmd.Flags().Changed("project") && projectID == "" {
			projectID = config.GetString("project")
		}
	},
}

// sessionStore opens the on-device session state (token, onboarding flag)
func sessionStore() session.Store {
	store, err := session.NewFileStore(config.SessionDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}

// apiClient builds a client with the stored bearer token. Commands that
// need auth call this; login does not.
func apiClient(store session.Store) *api.Client {
	token, err := store.Get(session.KeyToken)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: not logged in (run 'plank login')")
		os.Exit(1)
	}
	client := api.New(serverURL, token)
	if timeout := config.GetDuration("request-timeout"); timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

// currentUserID returns the stored user id, or empty when unknown
func currentUserID(store session.Store) string {
	id, err := store.Get(session.KeyUserID)
	if err != nil {
		return ""
	}
	return id
}

// requireBoard resolves the board id from flag/config or exits
func requireBoard() string {
	if boardID == "" {
		fmt.Fprintln(os.Stderr, "Error: no board selected (use --board or set 'board' in config)")
		os.Exit(1)
	}
	return boardID
}

// requireProject resolves the project id from flag/config or exits
func requireProject() string {
	if projectID == "" {
		fmt.Fprintln(os.Stderr, "Error: no project selected (use --project or set 'project' in config)")
		os.Exit(1)
	}
	return projectID
}

func outputJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// snapshotPath is where the offline board snapshot database lives
func snapshotPath() string {
	return filepath.Join(config.SessionDir(), "snapshot.db")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (default from config or PLANK_SERVER)")
	rootCmd.PersistentFlags().StringVar(&boardID, "board", "", "Board id for board-scoped commands")
	rootCmd.PersistentFlags().StringVar(&projectID, "project", "", "Project id for project-scoped commands")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
