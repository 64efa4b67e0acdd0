// Package types defines the tracker entities as the backend serves them.
package types

import (
	"fmt"
	"time"
)

// Issue represents a trackable work item on a board, in a sprint, or in the backlog
type Issue struct {
	ID          string    `json:"id"`
	Key         string    `json:"key,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        IssueType `json:"type"`

	// Status carries the column name; StatusID the column's relational id.
	// Older backend rows only have the string form, so both are kept on the
	// wire and StatusID wins when both are present.
	Status   string `json:"status,omitempty"`
	StatusID string `json:"statusId,omitempty"`

	Priority    Priority `json:"priority,omitempty"`
	Assignee    *UserRef `json:"assignee,omitempty"`
	StoryPoints int      `json:"storyPoints,omitempty"`
	Labels      []Label  `json:"labels,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`

	SprintID string `json:"sprintId,omitempty"`
	BoardID  string `json:"boardId,omitempty"`

	// Position is a lexorank key ordering the issue within its container
	Position string `json:"position,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks if the issue has valid field values
func (i *Issue) Validate() error {
	if len(i.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(i.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(i.Title))
	}
	if !i.Type.IsValid() {
		return fmt.Errorf("invalid issue type: %s", i.Type)
	}
	if i.Priority != "" && !i.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", i.Priority)
	}
	if i.StoryPoints < 0 {
		return fmt.Errorf("storyPoints cannot be negative")
	}
	return nil
}

// ColumnKey returns the identity of the column the issue sits in,
// preferring the relational id over the status label.
func (i *Issue) ColumnKey() string {
	if i.StatusID != "" {
		return i.StatusID
	}
	return i.Status
}

// IssueType categorizes the kind of work
type IssueType string

const (
	TypeEpic    IssueType = "epic"
	TypeStory   IssueType = "story"
	TypeTask    IssueType = "task"
	TypeBug     IssueType = "bug"
	TypeSubtask IssueType = "subtask"
)

// IsValid checks if the issue type value is valid
func (t IssueType) IsValid() bool {
	switch t {
	case TypeEpic, TypeStory, TypeTask, TypeBug, TypeSubtask:
		return true
	}
	return false
}

// Priority indicates how urgent an issue is
type Priority string

const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
	PriorityLowest  Priority = "lowest"
)

// IsValid checks if the priority value is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest:
		return true
	}
	return false
}

// Sprint represents a time-boxed iteration
type Sprint struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Goal      string       `json:"goal,omitempty"`
	Status    SprintStatus `json:"status"`
	StartDate *time.Time   `json:"startDate,omitempty"`
	EndDate   *time.Time   `json:"endDate,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Validate checks if the sprint has valid field values
func (s *Sprint) Validate() error {
	if len(s.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("invalid sprint status: %s", s.Status)
	}
	if s.StartDate != nil && s.EndDate != nil && s.EndDate.Before(*s.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	return nil
}

// SprintStatus represents the lifecycle state of a sprint
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "PLANNED"
	SprintActive    SprintStatus = "ACTIVE"
	SprintCompleted SprintStatus = "COMPLETED"
	SprintCancelled SprintStatus = "CANCELLED"
)

// IsValid checks if the sprint status value is valid
func (s SprintStatus) IsValid() bool {
	switch s {
	case SprintPlanned, SprintActive, SprintCompleted, SprintCancelled:
		return true
	}
	return false
}

// Board represents a kanban board within a project
type Board struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId,omitempty"`
	Name      string    `json:"name"`
	Columns   []*Column `json:"columns,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Column represents one board column. The column name doubles as the
// status label of every issue sitting in it.
type Column struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId,omitempty"`
	Name    string `json:"name"`
	Order   int    `json:"order"`
}

// AttachmentScope names the entity kind an attachment hangs off
type AttachmentScope string

const (
	ScopeIssue   AttachmentScope = "issue"
	ScopeComment AttachmentScope = "comment"
	ScopeEpic    AttachmentScope = "epic"
	ScopeSprint  AttachmentScope = "sprint"
	ScopeRelease AttachmentScope = "release"
)

// IsValid checks if the attachment scope value is valid
func (s AttachmentScope) IsValid() bool {
	switch s {
	case ScopeIssue, ScopeComment, ScopeEpic, ScopeSprint, ScopeRelease:
		return true
	}
	return false
}

// Attachment represents an uploaded file scoped to one entity.
// Created on upload, deleted explicitly; no versioning.
type Attachment struct {
	ID         string          `json:"id"`
	Scope      AttachmentScope `json:"scope"`
	OwnerID    string          `json:"ownerId"`
	Uploader   *UserRef        `json:"uploader,omitempty"`
	Filename   string          `json:"filename"`
	Filepath   string          `json:"filepath,omitempty"`
	UploadedAt time.Time       `json:"uploadedAt"`
}

// Comment is an append-only note on an issue
type Comment struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issueId"`
	Author    *UserRef  `json:"author,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryEntry records one field change with before/after snapshots for diffing
type HistoryEntry struct {
	ID        string    `json:"id"`
	IssueID   string    `json:"issueId"`
	Actor     *UserRef  `json:"actor,omitempty"`
	Field     string    `json:"field"`
	Before    string    `json:"before,omitempty"`
	After     string    `json:"after,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IssueFilter is used to filter issue queries
type IssueFilter struct {
	Type     *IssueType
	Priority *Priority
	Assignee *string
	Labels   []string
	Search   string
	Limit    int
}
