// Package summarize generates sprint reports with Claude.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/plankhq/plank/internal/types"
)

// ErrAPIKeyRequired is returned when no API key is available
var ErrAPIKeyRequired = errors.New("API key required: set ANTHROPIC_API_KEY or pass --api-key")

// maxReportTokens bounds the generated report length
const maxReportTokens = 1024

// Client wraps the Anthropic API for sprint reports
type Client struct {
	anthropic anthropic.Client
	model     anthropic.Model
}

// NewClient creates a summarize client. The ANTHROPIC_API_KEY environment
// variable takes precedence over the explicit key.
func NewClient(apiKey string) (*Client, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		key = apiKey
	}
	if key == "" {
		return nil, ErrAPIKeyRequired
	}
	return &Client{
		anthropic: anthropic.NewClient(option.WithAPIKey(key)),
		model:     anthropic.ModelClaude3_5HaikuLatest,
	}, nil
}

// SprintReport produces a short natural-language report of a sprint from
// its issues' titles, types, and statuses
func (c *Client) SprintReport(ctx context.Context, sprint *types.Sprint, issues []*types.Issue) (string, error) {
	msg, err := c.anthropic.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxReportTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(sprint, issues))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("sprint report request failed: %w", err)
	}

	var report strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			report.WriteString(block.Text)
		}
	}
	if report.Len() == 0 {
		return "", fmt.Errorf("empty report response")
	}
	return report.String(), nil
}

func buildPrompt(sprint *types.Sprint, issues []*types.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a concise sprint report for %q", sprint.Name)
	if sprint.Goal != "" {
		fmt.Fprintf(&b, " (goal: %s)", sprint.Goal)
	}
	b.WriteString(".\nSummarize what was delivered, what is still in flight, and any notable bug load. Issues:\n")
	for _, iss := range issues {
		status := iss.Status
		if status == "" {
			status = "unknown"
		}
		fmt.Fprintf(&b, "- [%s] %s (%s, %s)\n", iss.Key, iss.Title, iss.Type, status)
	}
	return b.String()
}
