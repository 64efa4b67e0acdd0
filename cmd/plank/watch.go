package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/plankhq/plank/internal/config"
	"github.com/plankhq/plank/internal/realtime"
	"github.com/plankhq/plank/internal/session"
	"github.com/plankhq/plank/internal/sync"
)

// watchLogger wraps a logging function for the watch loop
type watchLogger struct {
	logFunc func(string, ...interface{})
}

func (w *watchLogger) log(format string, args ...interface{}) {
	w.logFunc(format, args...)
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// setupWatchLogger creates a rotating log file for the watch loop
func setupWatchLogger(logPath string) (*lumberjack.Logger, watchLogger) {
	maxSizeMB := getEnvInt("PLANK_WATCH_LOG_MAX_SIZE", 10)
	maxBackups := getEnvInt("PLANK_WATCH_LOG_MAX_BACKUPS", 3)
	maxAgeDays := getEnvInt("PLANK_WATCH_LOG_MAX_AGE", 7)
	compress := getEnvBool("PLANK_WATCH_LOG_COMPRESS", true)

	logF := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   compress,
	}

	logger := watchLogger{
		logFunc: func(format string, args ...interface{}) {
			msg := fmt.Sprintf(format, args...)
			timestamp := time.Now().Format("2006-01-02 15:04:05")
			_, _ = fmt.Fprintf(logF, "[%s] %s\n", timestamp, msg)
		},
	}

	return logF, logger
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live board events to the terminal",
	Long: `Watch connects to the server's board channel and prints remote
changes as they happen. Your own changes are not echoed back; the
local view already reflects them. Events are also appended to a
rotating log file under the session directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if config.GetBool("no-realtime") {
			fmt.Fprintln(os.Stderr, "Error: realtime is disabled (no-realtime is set)")
			os.Exit(1)
		}

		store := sessionStore()
		client := apiClient(store)
		userID := currentUserID(store)
		board := requireBoard()

		token, err := store.Get(session.KeyToken)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: not logged in (run 'plank login')")
			os.Exit(1)
		}

		logPath := config.GetString("watch-log")
		if logPath == "" {
			logPath = filepath.Join(config.SessionDir(), "watch.log")
		}
		logF, logger := setupWatchLogger(logPath)
		defer logF.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		conn, err := realtime.Dial(ctx, serverURL, token, userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := conn.JoinBoard(board); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Watching board %s (Ctrl-C to stop)\n", green("✓"), board)
		logger.log("watch started: board=%s user=%s", board, userID)

		syncStore := sync.NewStore(client, userID)
		syncStore.Notify = func(msg string) {
			fmt.Printf("%s %s\n", yellow("•"), msg)
		}
		handler := syncStore.Handler()

		// Wrap the cache-patching handler so every surviving event also
		// lands in the rotating log.
		logged := realtime.Handler{
			OnIssueMoved: func(ev realtime.Event) {
				logger.log("issue-moved: %s", ev.IssueID)
				if handler.OnIssueMoved != nil {
					handler.OnIssueMoved(ev)
				}
			},
			OnIssueCreated: func(ev realtime.Event) {
				id := ev.IssueID
				if ev.Issue != nil {
					id = ev.Issue.ID
				}
				logger.log("issue-created: %s", id)
				if handler.OnIssueCreated != nil {
					handler.OnIssueCreated(ev)
				}
			},
			OnIssueDeleted: func(ev realtime.Event) {
				logger.log("issue-deleted: %s", ev.IssueID)
				if handler.OnIssueDeleted != nil {
					handler.OnIssueDeleted(ev)
				}
			},
			OnNotification: func(ev realtime.Event) {
				logger.log("notification: %s", ev.Message)
				if handler.OnNotification != nil {
					handler.OnNotification(ev)
				}
			},
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			logger.log("watch stopped")
			cancel()
		}()

		if err := conn.Listen(ctx, logged); err != nil && ctx.Err() == nil {
			logger.log("watch error: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
