package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/plankhq/plank/internal/types"
)

// Comments lists an issue's comments, oldest first
func (c *Client) Comments(ctx context.Context, issueID string) ([]*types.Comment, error) {
	var comments []*types.Comment
	path := "/issues/" + url.PathEscape(issueID) + "/comments"
	if err := c.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to an issue
func (c *Client) AddComment(ctx context.Context, issueID, body string) (*types.Comment, error) {
	var created types.Comment
	path := "/issues/" + url.PathEscape(issueID) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"body": body}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// History lists an issue's change history, newest first
func (c *Client) History(ctx context.Context, issueID string) ([]*types.HistoryEntry, error) {
	var entries []*types.HistoryEntry
	path := "/issues/" + url.PathEscape(issueID) + "/history"
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
