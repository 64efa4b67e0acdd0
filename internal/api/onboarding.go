package api

import (
	"context"
	"net/http"
)

// OnboardingState is the backend's record of a user's walkthrough progress
type OnboardingState struct {
	CurrentStep int  `json:"currentStep"`
	Dismissed   bool `json:"dismissed"`
}

// Onboarding fetches the server-confirmed walkthrough state
func (c *Client) Onboarding(ctx context.Context) (*OnboardingState, error) {
	var state OnboardingState
	if err := c.do(ctx, http.MethodGet, "/onboarding", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SetOnboarding persists the walkthrough state server-side so other
// sessions pick up from the same step
func (c *Client) SetOnboarding(ctx context.Context, state *OnboardingState) error {
	return c.do(ctx, http.MethodPut, "/onboarding", state, nil)
}
