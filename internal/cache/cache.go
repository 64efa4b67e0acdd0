// Package cache is the client-side projection of backend collections. Each
// entry is keyed by what was fetched (resource, scope, filter) and holds the
// last known server state, possibly rewritten ahead of the server by an
// optimistic mutation. All patches are synchronous and run under one lock,
// so a socket callback and an in-flight mutation can never interleave
// inside a single update.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/plankhq/plank/internal/types"
)

// ErrNotLoaded is returned when an optimistic mutation targets a collection
// that was never fetched. Predicting from nothing would store a fabricated
// entry that later reads as fresh server state.
var ErrNotLoaded = errors.New("collection not loaded")

// Resource names for cache keys
const (
	ResourceBoardIssues  = "board-issues"
	ResourceSprintIssues = "sprint-issues"
	ResourceBacklog      = "backlog"
	ResourceSprints      = "sprints"
)

// Key identifies one cached collection
type Key struct {
	Resource string
	Scope    string // board, sprint, or project id
	Filter   string // canonicalized filter params, empty for none
}

// BoardKey returns the key for a board's issue collection
func BoardKey(boardID string) Key {
	return Key{Resource: ResourceBoardIssues, Scope: boardID}
}

// SprintKey returns the key for a sprint's issue collection
func SprintKey(sprintID string) Key {
	return Key{Resource: ResourceSprintIssues, Scope: sprintID}
}

// BacklogKey returns the key for a project's backlog collection
func BacklogKey(projectID string) Key {
	return Key{Resource: ResourceBacklog, Scope: projectID}
}

// SprintsKey returns the key for a project's sprint list
func SprintsKey(projectID string) Key {
	return Key{Resource: ResourceSprints, Scope: projectID}
}

// Cache holds issue and sprint collections keyed by fetch identity
type Cache struct {
	mu      sync.RWMutex
	issues  map[Key][]*types.Issue
	sprints map[Key][]*types.Sprint
	stale   map[Key]bool
}

// New returns an empty cache
func New() *Cache {
	return &Cache{
		issues:  make(map[Key][]*types.Issue),
		sprints: make(map[Key][]*types.Sprint),
		stale:   make(map[Key]bool),
	}
}

// Issues returns the cached collection for key and whether it is present
// and fresh. The returned slice is a copy; callers may not mutate cached
// state except through patch functions.
func (c *Cache) Issues(key Key) ([]*types.Issue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.issues[key]
	if !ok || c.stale[key] {
		return nil, false
	}
	return cloneIssues(list), true
}

// SetIssues replaces the collection for key with fresh server state
func (c *Cache) SetIssues(key Key, issues []*types.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues[key] = cloneIssues(issues)
	delete(c.stale, key)
}

// Sprints returns the cached sprint list for key
func (c *Cache) Sprints(key Key) ([]*types.Sprint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.sprints[key]
	if !ok || c.stale[key] {
		return nil, false
	}
	return cloneSprints(list), true
}

// SetSprints replaces the sprint list for key
func (c *Cache) SetSprints(key Key, sprints []*types.Sprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sprints[key] = cloneSprints(sprints)
	delete(c.stale, key)
}

// Invalidate marks a key stale, forcing the next read to refetch
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if _, ok := c.issues[key]; ok {
			c.stale[key] = true
			continue
		}
		if _, ok := c.sprints[key]; ok {
			c.stale[key] = true
		}
	}
}

// InvalidateResource marks every key of one resource type stale
func (c *Cache) InvalidateResource(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.issues {
		if key.Resource == resource {
			c.stale[key] = true
		}
	}
	for key := range c.sprints {
		if key.Resource == resource {
			c.stale[key] = true
		}
	}
}

// Patch rewrites the cached collection for key by mapping each issue
// through fn. Unknown keys are a no-op.
func (c *Cache) Patch(key Key, fn func(*types.Issue) *types.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.issues[key]
	if !ok {
		return
	}
	next := make([]*types.Issue, 0, len(list))
	for _, iss := range list {
		clone := *iss
		next = append(next, fn(&clone))
	}
	c.issues[key] = next
}

// Remove filters one issue out of the cached collection for key
func (c *Cache) Remove(key Key, issueID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.issues[key]
	if !ok {
		return
	}
	next := make([]*types.Issue, 0, len(list))
	for _, iss := range list {
		if iss.ID != issueID {
			next = append(next, iss)
		}
	}
	c.issues[key] = next
}

// Append adds one issue to the cached collection for key. Unknown keys are
// a no-op: there is nothing to keep consistent until a fetch happens.
func (c *Cache) Append(key Key, issue *types.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.issues[key]
	if !ok {
		return
	}
	clone := *issue
	c.issues[key] = append(list, &clone)
}

// Optimistic rewrites the collection for key to the predicted post-mutation
// state, runs the server call, and restores the prior snapshot verbatim if
// the call fails. The cache is therefore always in either the pre- or the
// post-mutation state, never a mix. A key that was never fetched is refused
// with ErrNotLoaded before the call runs.
func (c *Cache) Optimistic(ctx context.Context, key Key, predict func([]*types.Issue) []*types.Issue, call func(context.Context) error) error {
	c.mu.Lock()
	prev, had := c.issues[key]
	if !had {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s/%s", ErrNotLoaded, key.Resource, key.Scope)
	}
	snapshot := cloneIssues(prev)
	c.issues[key] = predict(cloneIssues(prev))
	c.mu.Unlock()

	if err := call(ctx); err != nil {
		c.mu.Lock()
		c.issues[key] = snapshot
		c.mu.Unlock()
		return err
	}
	return nil
}

func cloneIssues(list []*types.Issue) []*types.Issue {
	if list == nil {
		return nil
	}
	out := make([]*types.Issue, len(list))
	for i, iss := range list {
		clone := *iss
		if iss.Assignee != nil {
			a := *iss.Assignee
			clone.Assignee = &a
		}
		if iss.Labels != nil {
			clone.Labels = append([]types.Label(nil), iss.Labels...)
		}
		out[i] = &clone
	}
	return out
}

func cloneSprints(list []*types.Sprint) []*types.Sprint {
	if list == nil {
		return nil
	}
	out := make([]*types.Sprint, len(list))
	for i, s := range list {
		clone := *s
		if s.StartDate != nil {
			d := *s.StartDate
			clone.StartDate = &d
		}
		if s.EndDate != nil {
			d := *s.EndDate
			clone.EndDate = &d
		}
		out[i] = &clone
	}
	return out
}
