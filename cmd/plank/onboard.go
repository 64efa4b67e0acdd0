package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/api"
	"github.com/plankhq/plank/internal/onboarding"
	"github.com/plankhq/plank/internal/session"
)

// keyOnboardingSteps persists the statuses of finished walkthrough steps
// between invocations, in order, comma-joined
const keyOnboardingSteps = "onboarding_steps"

// loadFlow rebuilds the walkthrough flow from the session store, replaying
// each finished step with the status it actually had
func loadFlow(store session.Store) *onboarding.Flow {
	flow := onboarding.New(onboarding.DefaultSteps(), store)
	if v, err := store.Get(keyOnboardingSteps); err == nil && v != "" {
		for _, st := range strings.Split(v, ",") {
			var err error
			if onboarding.StepStatus(st) == onboarding.StepSkipped {
				err = flow.Skip()
			} else {
				err = flow.Advance()
			}
			if err != nil {
				break
			}
		}
	}
	return flow
}

func saveFlow(store session.Store, flow *onboarding.Flow) {
	var parts []string
	for _, step := range flow.Steps() {
		if step.Status == onboarding.StepPending {
			break
		}
		parts = append(parts, string(step.Status))
	}
	if err := store.Set(keyOnboardingSteps, strings.Join(parts, ",")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// onboardingClient returns an API client when a token is stored; the
// walkthrough stays usable before login, so no token is not an error
func onboardingClient(store session.Store) *api.Client {
	token, err := store.Get(session.KeyToken)
	if err != nil {
		return nil
	}
	return api.New(serverURL, token)
}

// pullFlow merges the backend's walkthrough record into the flow.
// Best-effort: network failure leaves the local state authoritative.
func pullFlow(store session.Store, flow *onboarding.Flow) {
	client := onboardingClient(store)
	if client == nil {
		return
	}
	state, err := client.Onboarding(context.Background())
	if err != nil {
		return
	}
	if state.Dismissed {
		flow.Dismiss()
		return
	}
	flow.SyncFromServer(state.CurrentStep)
}

// pushFlow persists the flow's state server-side so other sessions pick
// up from the same step. Best-effort, like pullFlow.
func pushFlow(store session.Store, flow *onboarding.Flow) {
	client := onboardingClient(store)
	if client == nil {
		return
	}
	_ = client.SetOnboarding(context.Background(), &api.OnboardingState{
		CurrentStep: flow.Current(),
		Dismissed:   flow.Completed(),
	})
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "First-run walkthrough",
}

var onboardStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show walkthrough progress",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		flow := loadFlow(store)
		pullFlow(store, flow)

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"steps":     flow.Steps(),
				"current":   flow.Current(),
				"completed": flow.Completed(),
			})
			return
		}

		if flow.Completed() {
			fmt.Println("Walkthrough completed")
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cur := flow.Current()
		for i, step := range flow.Steps() {
			switch {
			case step.Status == onboarding.StepCompleted:
				fmt.Printf("  %s %s\n", green("✓"), step.Name)
			case step.Status == onboarding.StepSkipped:
				fmt.Printf("  - %s (skipped)\n", step.Name)
			case i == cur:
				fmt.Printf("  %s %s\n", yellow("→"), step.Name)
			default:
				fmt.Printf("    %s\n", step.Name)
			}
		}
	},
}

var onboardNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Mark the current step done and move on",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		flow := loadFlow(store)
		pullFlow(store, flow)

		if err := flow.Advance(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		saveFlow(store, flow)
		pushFlow(store, flow)

		green := color.New(color.FgGreen).SprintFunc()
		if flow.Completed() {
			fmt.Printf("%s Walkthrough completed\n", green("✓"))
			return
		}
		steps := flow.Steps()
		fmt.Printf("%s Next up: %s\n", green("✓"), steps[flow.Current()].Name)
	},
}

var onboardSkipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Skip the current step",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		flow := loadFlow(store)
		pullFlow(store, flow)

		if err := flow.Skip(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		saveFlow(store, flow)
		pushFlow(store, flow)

		if flow.Completed() {
			fmt.Println("Walkthrough completed")
			return
		}
		steps := flow.Steps()
		fmt.Printf("Skipped. Next up: %s\n", steps[flow.Current()].Name)
	},
}

var onboardDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss the walkthrough for good",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore()
		flow := loadFlow(store)

		if err := flow.Dismiss(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		pushFlow(store, flow)
		fmt.Println("Walkthrough dismissed")
	},
}

func init() {
	onboardCmd.AddCommand(onboardStatusCmd)
	onboardCmd.AddCommand(onboardNextCmd)
	onboardCmd.AddCommand(onboardSkipCmd)
	onboardCmd.AddCommand(onboardDismissCmd)
	rootCmd.AddCommand(onboardCmd)
}
