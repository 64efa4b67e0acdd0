package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/plankhq/plank/internal/types"
)

// filterQuery encodes an IssueFilter as URL query parameters
func filterQuery(filter *types.IssueFilter) string {
	if filter == nil {
		return ""
	}
	q := url.Values{}
	if filter.Type != nil {
		q.Set("type", string(*filter.Type))
	}
	if filter.Priority != nil {
		q.Set("priority", string(*filter.Priority))
	}
	if filter.Assignee != nil {
		q.Set("assignee", *filter.Assignee)
	}
	for _, l := range filter.Labels {
		q.Add("label", l)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// BoardIssues lists the issues on a board
func (c *Client) BoardIssues(ctx context.Context, boardID string, filter *types.IssueFilter) ([]*types.Issue, error) {
	var issues []*types.Issue
	path := fmt.Sprintf("/boards/%s/issues%s", url.PathEscape(boardID), filterQuery(filter))
	if err := c.do(ctx, http.MethodGet, path, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// SprintIssues lists the issues assigned to a sprint
func (c *Client) SprintIssues(ctx context.Context, sprintID string) ([]*types.Issue, error) {
	var issues []*types.Issue
	path := fmt.Sprintf("/sprints/%s/issues", url.PathEscape(sprintID))
	if err := c.do(ctx, http.MethodGet, path, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// BacklogIssues lists the issues of a project that sit in no sprint
func (c *Client) BacklogIssues(ctx context.Context, projectID string) ([]*types.Issue, error) {
	var issues []*types.Issue
	path := "/backlog?projectId=" + url.QueryEscape(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// GetIssue fetches one issue by id
func (c *Client) GetIssue(ctx context.Context, issueID string) (*types.Issue, error) {
	var issue types.Issue
	if err := c.do(ctx, http.MethodGet, "/issues/"+url.PathEscape(issueID), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CreateIssue creates an issue and returns the server's copy, with the
// assigned id, key, and position
func (c *Client) CreateIssue(ctx context.Context, issue *types.Issue) (*types.Issue, error) {
	if err := issue.Validate(); err != nil {
		return nil, err
	}
	var created types.Issue
	if err := c.do(ctx, http.MethodPost, "/issues", issue, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIssue patches arbitrary issue fields
func (c *Client) UpdateIssue(ctx context.Context, issueID string, updates map[string]interface{}) (*types.Issue, error) {
	var updated types.Issue
	if err := c.do(ctx, http.MethodPatch, "/issues/"+url.PathEscape(issueID), updates, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateIssueStatus moves an issue into a column, sending both the status
// label and the relational id
func (c *Client) UpdateIssueStatus(ctx context.Context, issueID, status, statusID string) error {
	path := fmt.Sprintf("/issues/%s/status", url.PathEscape(issueID))
	return c.do(ctx, http.MethodPut, path, map[string]string{
		"status":   status,
		"statusId": statusID,
	}, nil)
}

// AssignToSprint moves an issue into a sprint. An empty sprintID sends it
// back to the backlog.
func (c *Client) AssignToSprint(ctx context.Context, issueID, sprintID string) error {
	path := fmt.Sprintf("/issues/%s/sprint", url.PathEscape(issueID))
	return c.do(ctx, http.MethodPut, path, map[string]string{"sprintId": sprintID}, nil)
}

// DeleteIssue removes an issue
func (c *Client) DeleteIssue(ctx context.Context, issueID string) error {
	return c.do(ctx, http.MethodDelete, "/issues/"+url.PathEscape(issueID), nil, nil)
}

// ReorderBacklog persists a full backlog ordering as an id list
func (c *Client) ReorderBacklog(ctx context.Context, projectID string, issueIDs []string) error {
	return c.do(ctx, http.MethodPut, "/backlog/reorder", map[string]interface{}{
		"projectId": projectID,
		"issueIds":  issueIDs,
	}, nil)
}

// ReorderSprint persists a full sprint ordering as an id list
func (c *Client) ReorderSprint(ctx context.Context, sprintID string, issueIDs []string) error {
	path := fmt.Sprintf("/sprints/%s/reorder", url.PathEscape(sprintID))
	return c.do(ctx, http.MethodPut, path, map[string]interface{}{"issueIds": issueIDs}, nil)
}
