package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/api"
	"github.com/plankhq/plank/internal/session"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the bearer token on this device",
	Run: func(cmd *cobra.Command, args []string) {
		reader := bufio.NewReader(os.Stdin)

		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		password := strings.TrimSpace(line)

		client := api.New(serverURL, "")
		result, err := client.Login(context.Background(), email, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store := sessionStore()
		if err := store.Set(session.KeyToken, result.Token); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.Set(session.KeyUserID, result.User.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		warnIfIncompatible(client)

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Logged in as %s\n", green("✓"), result.User.Name)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored bearer token",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		if err := store.Clear(session.KeyToken); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.Clear(session.KeyUserID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Logged out")
	},
}

// warnIfIncompatible checks the server's minimum client version. Network
// failure here is not fatal; the handshake is advisory.
func warnIfIncompatible(client *api.Client) {
	info, err := client.Info(context.Background())
	if err != nil {
		return
	}
	if !info.Compatible(Version) {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s plank %s is older than the server's minimum %s; some commands may fail\n",
			yellow("!"), Version, info.MinClientVersion)
	}
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email to log in with (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
