// Package sync is the client-side synchronization layer: one Store keeps
// the cached board projection consistent across optimistic local
// mutations, server-confirmed responses, and realtime events from other
// sessions.
package sync

import (
	"context"
	"fmt"
	"io"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/plankhq/plank/internal/api"
	"github.com/plankhq/plank/internal/cache"
	"github.com/plankhq/plank/internal/realtime"
	"github.com/plankhq/plank/internal/reorder"
	"github.com/plankhq/plank/internal/types"
)

// HighlightWindow is how long a freshly uploaded attachment keeps its
// highlight before it clears
const HighlightWindow = 1200 * time.Millisecond

// Store coordinates the cache with the backend and the realtime channel
type Store struct {
	client *api.Client
	cache  *cache.Cache
	clock  Clock
	userID string

	mu         stdsync.Mutex
	highlights map[string]bool // attachment ids inside the highlight window

	// Notify, when set, receives transient messages raised by remote events
	Notify func(string)
}

// NewStore builds a store around an API client. userID is the local user,
// used to drop echo events from the realtime channel.
func NewStore(client *api.Client, userID string) *Store {
	return &Store{
		client:     client,
		cache:      cache.New(),
		clock:      RealClock(),
		userID:     userID,
		highlights: make(map[string]bool),
	}
}

// SetClock replaces the clock, for tests
func (s *Store) SetClock(clock Clock) { s.clock = clock }

// Cache exposes the underlying cache for read paths
func (s *Store) Cache() *cache.Cache { return s.cache }

// BoardIssues returns a board's issues, from cache when fresh
func (s *Store) BoardIssues(ctx context.Context, boardID string) ([]*types.Issue, error) {
	key := cache.BoardKey(boardID)
	if issues, ok := s.cache.Issues(key); ok {
		return issues, nil
	}
	issues, err := s.client.BoardIssues(ctx, boardID, nil)
	if err != nil {
		return nil, err
	}
	s.cache.SetIssues(key, issues)
	return issues, nil
}

// SprintIssues returns a sprint's issues, from cache when fresh
func (s *Store) SprintIssues(ctx context.Context, sprintID string) ([]*types.Issue, error) {
	key := cache.SprintKey(sprintID)
	if issues, ok := s.cache.Issues(key); ok {
		return issues, nil
	}
	issues, err := s.client.SprintIssues(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	s.cache.SetIssues(key, issues)
	return issues, nil
}

// BacklogIssues returns a project's backlog, from cache when fresh
func (s *Store) BacklogIssues(ctx context.Context, projectID string) ([]*types.Issue, error) {
	key := cache.BacklogKey(projectID)
	if issues, ok := s.cache.Issues(key); ok {
		return issues, nil
	}
	issues, err := s.client.BacklogIssues(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.cache.SetIssues(key, issues)
	return issues, nil
}

// Sprints returns a project's sprints, from cache when fresh
func (s *Store) Sprints(ctx context.Context, projectID string) ([]*types.Sprint, error) {
	key := cache.SprintsKey(projectID)
	if sprints, ok := s.cache.Sprints(key); ok {
		return sprints, nil
	}
	sprints, err := s.client.Sprints(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.cache.SetSprints(key, sprints)
	return sprints, nil
}

// UpdateIssueStatus optimistically moves an issue into a column. On a
// failed server call the cached board is restored to its prior state. An
// unfetched board is persisted directly and invalidated for the next read.
func (s *Store) UpdateIssueStatus(ctx context.Context, boardID, issueID string, col *types.Column) error {
	key := cache.BoardKey(boardID)
	if _, ok := s.cache.Issues(key); !ok {
		if err := s.client.UpdateIssueStatus(ctx, issueID, col.Name, col.ID); err != nil {
			return err
		}
		s.cache.Invalidate(key)
		return nil
	}
	return s.cache.Optimistic(ctx, key,
		func(list []*types.Issue) []*types.Issue {
			for _, iss := range list {
				if iss.ID == issueID {
					iss.Status = col.Name
					iss.StatusID = col.ID
				}
			}
			return list
		},
		func(ctx context.Context) error {
			return s.client.UpdateIssueStatus(ctx, issueID, col.Name, col.ID)
		},
	)
}

// ReorderBacklog optimistically splice-moves a backlog row and persists
// the resulting full id order
func (s *Store) ReorderBacklog(ctx context.Context, projectID string, fromIndex, toIndex int) error {
	mv := reorder.Move{
		From:      reorder.Container{Kind: reorder.ContainerBacklog, ID: projectID},
		FromIndex: fromIndex,
		To:        reorder.Container{Kind: reorder.ContainerBacklog, ID: projectID},
		ToIndex:   toIndex,
	}
	if mv.IsNoop() {
		return nil
	}

	// A reorder is meaningless without the current ordering; refuse before
	// predicting rather than persist an order invented from nothing.
	key := cache.BacklogKey(projectID)
	if _, ok := s.cache.Issues(key); !ok {
		return fmt.Errorf("backlog for %s not loaded", projectID)
	}
	return s.cache.Optimistic(ctx, key,
		func(list []*types.Issue) []*types.Issue {
			return reorder.ArrayMove(list, fromIndex, toIndex)
		},
		func(ctx context.Context) error {
			issues, ok := s.cache.Issues(key)
			if !ok {
				return fmt.Errorf("backlog for %s not loaded", projectID)
			}
			ids := make([]string, len(issues))
			for i, iss := range issues {
				ids[i] = iss.ID
			}
			return s.client.ReorderBacklog(ctx, projectID, ids)
		},
	)
}

// ReorderSprint optimistically splice-moves a row within a sprint and
// persists the resulting full id order
func (s *Store) ReorderSprint(ctx context.Context, sprintID string, fromIndex, toIndex int) error {
	mv := reorder.Move{
		From:      reorder.Container{Kind: reorder.ContainerSprint, ID: sprintID},
		FromIndex: fromIndex,
		To:        reorder.Container{Kind: reorder.ContainerSprint, ID: sprintID},
		ToIndex:   toIndex,
	}
	if mv.IsNoop() {
		return nil
	}

	key := cache.SprintKey(sprintID)
	if _, ok := s.cache.Issues(key); !ok {
		return fmt.Errorf("sprint %s not loaded", sprintID)
	}
	return s.cache.Optimistic(ctx, key,
		func(list []*types.Issue) []*types.Issue {
			return reorder.ArrayMove(list, fromIndex, toIndex)
		},
		func(ctx context.Context) error {
			issues, ok := s.cache.Issues(key)
			if !ok {
				return fmt.Errorf("sprint %s not loaded", sprintID)
			}
			ids := make([]string, len(issues))
			for i, iss := range issues {
				ids[i] = iss.ID
			}
			return s.client.ReorderSprint(ctx, sprintID, ids)
		},
	)
}

// MoveIssueToSprint moves an issue across containers: out of the backlog
// into a sprint, or between sprints. The issue ends up in exactly one
// cached container; a failed call restores both.
func (s *Store) MoveIssueToSprint(ctx context.Context, projectID, issueID, sprintID string) error {
	backlogKey := cache.BacklogKey(projectID)
	sprintKey := cache.SprintKey(sprintID)

	issues, ok := s.cache.Issues(backlogKey)
	if !ok {
		// Nothing cached to patch; just persist and let the next read fetch
		if err := s.client.AssignToSprint(ctx, issueID, sprintID); err != nil {
			return err
		}
		s.cache.Invalidate(backlogKey, sprintKey)
		return nil
	}

	var moved *types.Issue
	for _, iss := range issues {
		if iss.ID == issueID {
			moved = iss
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("issue %s not in backlog", issueID)
	}

	return s.cache.Optimistic(ctx, backlogKey,
		func(list []*types.Issue) []*types.Issue {
			next := list[:0]
			for _, iss := range list {
				if iss.ID != issueID {
					next = append(next, iss)
				}
			}
			return next
		},
		func(ctx context.Context) error {
			if err := s.client.AssignToSprint(ctx, issueID, sprintID); err != nil {
				return err
			}
			moved.SprintID = sprintID
			s.cache.Append(sprintKey, moved)
			return nil
		},
	)
}

// MoveIssueToBacklog removes an issue from its sprint back into the backlog
func (s *Store) MoveIssueToBacklog(ctx context.Context, projectID, issueID, sprintID string) error {
	backlogKey := cache.BacklogKey(projectID)
	sprintKey := cache.SprintKey(sprintID)

	issues, ok := s.cache.Issues(sprintKey)
	if !ok {
		if err := s.client.AssignToSprint(ctx, issueID, ""); err != nil {
			return err
		}
		s.cache.Invalidate(backlogKey, sprintKey)
		return nil
	}

	var moved *types.Issue
	for _, iss := range issues {
		if iss.ID == issueID {
			moved = iss
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("issue %s not in sprint %s", issueID, sprintID)
	}

	return s.cache.Optimistic(ctx, sprintKey,
		func(list []*types.Issue) []*types.Issue {
			next := list[:0]
			for _, iss := range list {
				if iss.ID != issueID {
					next = append(next, iss)
				}
			}
			return next
		},
		func(ctx context.Context) error {
			if err := s.client.AssignToSprint(ctx, issueID, ""); err != nil {
				return err
			}
			moved.SprintID = ""
			s.cache.Append(backlogKey, moved)
			return nil
		},
	)
}

// CreateIssue appends the issue to the cached board under a temp id
// immediately, then reconciles the row with the server's confirmed copy.
// On failure the temp row is removed.
func (s *Store) CreateIssue(ctx context.Context, boardID string, issue *types.Issue) (*types.Issue, error) {
	key := cache.BoardKey(boardID)
	_, cached := s.cache.Issues(key)

	tempID := TempID()
	if cached {
		temp := *issue
		temp.ID = tempID
		temp.BoardID = boardID
		s.cache.Append(key, &temp)
	}

	created, err := s.client.CreateIssue(ctx, issue)
	if err != nil {
		if cached {
			s.cache.Remove(key, tempID)
		}
		return nil, err
	}
	if cached {
		s.cache.Patch(key, func(iss *types.Issue) *types.Issue {
			if iss.ID == tempID {
				confirmed := *created
				return &confirmed
			}
			return iss
		})
	}
	return created, nil
}

// DeleteIssue optimistically filters the issue out of the board cache. An
// unfetched board is persisted directly and invalidated for the next read.
func (s *Store) DeleteIssue(ctx context.Context, boardID, issueID string) error {
	key := cache.BoardKey(boardID)
	if _, ok := s.cache.Issues(key); !ok {
		if err := s.client.DeleteIssue(ctx, issueID); err != nil {
			return err
		}
		s.cache.Invalidate(key)
		return nil
	}
	return s.cache.Optimistic(ctx, key,
		func(list []*types.Issue) []*types.Issue {
			next := list[:0]
			for _, iss := range list {
				if iss.ID != issueID {
					next = append(next, iss)
				}
			}
			return next
		},
		func(ctx context.Context) error {
			return s.client.DeleteIssue(ctx, issueID)
		},
	)
}

// Upload sends files one at a time, in order. Each confirmed attachment is
// tagged recently-uploaded for HighlightWindow, then the tag clears.
// Uploads are serialized intentionally; a failure stops the batch and
// reports which file failed.
func (s *Store) Upload(ctx context.Context, scope types.AttachmentScope, ownerID string, files map[string]io.Reader, order []string) ([]*types.Attachment, error) {
	var uploaded []*types.Attachment
	for _, name := range order {
		att, err := s.client.Upload(ctx, scope, ownerID, name, files[name])
		if err != nil {
			return uploaded, fmt.Errorf("upload %s failed: %w", name, err)
		}
		s.markRecent(att.ID)
		uploaded = append(uploaded, att)
	}
	return uploaded, nil
}

func (s *Store) markRecent(attachmentID string) {
	s.mu.Lock()
	s.highlights[attachmentID] = true
	s.mu.Unlock()
	s.clock.AfterFunc(HighlightWindow, func() {
		s.mu.Lock()
		delete(s.highlights, attachmentID)
		s.mu.Unlock()
	})
}

// RecentlyUploaded reports whether an attachment is still inside its
// highlight window
func (s *Store) RecentlyUploaded(attachmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlights[attachmentID]
}

// TempID returns a client-generated id for rows awaiting server confirmation
func TempID() string {
	return "tmp-" + uuid.NewString()
}

// Handler returns the realtime handler that patches remote users' changes
// straight into the cache, bypassing refetch
func (s *Store) Handler() realtime.Handler {
	return realtime.Handler{
		OnIssueMoved: func(ev realtime.Event) {
			if ev.Issue == nil {
				return
			}
			s.cache.Patch(cache.BoardKey(ev.BoardID), func(iss *types.Issue) *types.Issue {
				if iss.ID == ev.Issue.ID {
					iss.Status = ev.Issue.Status
					iss.StatusID = ev.Issue.StatusID
					iss.Position = ev.Issue.Position
				}
				return iss
			})
			s.notify(fmt.Sprintf("%s was moved by another user", ev.Issue.Key))
		},
		OnIssueCreated: func(ev realtime.Event) {
			if ev.Issue == nil {
				return
			}
			s.cache.Append(cache.BoardKey(ev.BoardID), ev.Issue)
			s.notify(fmt.Sprintf("%s was created by another user", ev.Issue.Key))
		},
		OnIssueDeleted: func(ev realtime.Event) {
			s.cache.Remove(cache.BoardKey(ev.BoardID), ev.IssueID)
			s.notify("an issue was deleted by another user")
		},
		OnNotification: func(ev realtime.Event) {
			s.notify(ev.Message)
		},
	}
}

func (s *Store) notify(msg string) {
	if s.Notify != nil && msg != "" {
		s.Notify(msg)
	}
}
