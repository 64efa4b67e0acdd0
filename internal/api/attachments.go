package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/plankhq/plank/internal/types"
)

// Upload posts one file as a multipart form with a single "file" field.
// The bearer token is attached by hand since the body is not JSON.
func (c *Client) Upload(ctx context.Context, scope types.AttachmentScope, ownerID, filename string, content io.Reader) (*types.Attachment, error) {
	if !scope.IsValid() {
		return nil, fmt.Errorf("invalid attachment scope: %s", scope)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	path := fmt.Sprintf("%s/attachments/%s/%s", c.baseURL, scope, url.PathEscape(ownerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var att types.Attachment
	if err := json.Unmarshal(respBody, &att); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &att, nil
}

// Attachments lists the attachments of one entity
func (c *Client) Attachments(ctx context.Context, scope types.AttachmentScope, ownerID string) ([]*types.Attachment, error) {
	var atts []*types.Attachment
	path := fmt.Sprintf("/attachments/%s/%s", scope, url.PathEscape(ownerID))
	if err := c.do(ctx, http.MethodGet, path, nil, &atts); err != nil {
		return nil, err
	}
	return atts, nil
}

// DeleteAttachment removes an attachment by id
func (c *Client) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return c.do(ctx, http.MethodDelete, "/attachments/"+url.PathEscape(attachmentID), nil, nil)
}
