// Package plank provides a minimal public API for building custom tooling
// on top of the plank client.
//
// Most automation should drive the plank CLI directly. This package exports
// only the essential types and constructors needed for Go programs that want
// to talk to a plank backend or read an offline board snapshot
// programmatically.
package plank

import (
	"github.com/plankhq/plank/internal/api"
	"github.com/plankhq/plank/internal/snapshot"
	"github.com/plankhq/plank/internal/sync"
	"github.com/plankhq/plank/internal/types"
)

// Core types for working with issues and sprints
type (
	Issue        = types.Issue
	IssueType    = types.IssueType
	Priority     = types.Priority
	Sprint       = types.Sprint
	SprintStatus = types.SprintStatus
	Board        = types.Board
	Column       = types.Column
	Attachment   = types.Attachment
	IssueFilter  = types.IssueFilter
)

// IssueType constants
const (
	TypeEpic    = types.TypeEpic
	TypeStory   = types.TypeStory
	TypeTask    = types.TypeTask
	TypeBug     = types.TypeBug
	TypeSubtask = types.TypeSubtask
)

// SprintStatus constants
const (
	SprintPlanned   = types.SprintPlanned
	SprintActive    = types.SprintActive
	SprintCompleted = types.SprintCompleted
	SprintCancelled = types.SprintCancelled
)

// Client is the REST client for a plank backend
type Client = api.Client

// NewClient builds a client for the given backend with a bearer token
func NewClient(baseURL, token string) *Client {
	return api.New(baseURL, token)
}

// Store layers the optimistic cache over a client. userID is used to drop
// the caller's own events when wired to a realtime connection.
func NewStore(client *Client, userID string) *sync.Store {
	return sync.NewStore(client, userID)
}

// OpenSnapshot opens an offline board snapshot database for reading or
// refreshing outside the CLI.
func OpenSnapshot(path string) (*snapshot.Store, error) {
	return snapshot.Open(path)
}
