package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plankhq/plank/internal/types"
)

// Boards lists the boards of a project
func (c *Client) Boards(ctx context.Context, projectID string) ([]*types.Board, error) {
	var boards []*types.Board
	path := "/boards?projectId=" + url.QueryEscape(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetBoard fetches one board with its columns
func (c *Client) GetBoard(ctx context.Context, boardID string) (*types.Board, error) {
	var board types.Board
	if err := c.do(ctx, http.MethodGet, "/boards/"+url.PathEscape(boardID), nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// Sprints lists the sprints of a project
func (c *Client) Sprints(ctx context.Context, projectID string) ([]*types.Sprint, error) {
	var sprints []*types.Sprint
	path := "/sprints?projectId=" + url.QueryEscape(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &sprints); err != nil {
		return nil, err
	}
	return sprints, nil
}

// CreateSprint creates a sprint in PLANNED state
func (c *Client) CreateSprint(ctx context.Context, sprint *types.Sprint) (*types.Sprint, error) {
	if err := sprint.Validate(); err != nil {
		return nil, err
	}
	var created types.Sprint
	if err := c.do(ctx, http.MethodPost, "/sprints", sprint, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// StartSprint transitions a sprint to ACTIVE
func (c *Client) StartSprint(ctx context.Context, sprintID string) error {
	return c.do(ctx, http.MethodPut, "/sprints/"+url.PathEscape(sprintID)+"/start", nil, nil)
}

// CompleteSprint transitions a sprint to COMPLETED
func (c *Client) CompleteSprint(ctx context.Context, sprintID string) error {
	return c.do(ctx, http.MethodPut, "/sprints/"+url.PathEscape(sprintID)+"/complete", nil, nil)
}
