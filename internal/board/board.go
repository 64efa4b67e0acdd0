// Package board builds view projections of cached issues and sprints.
package board

import (
	"sort"

	"github.com/plankhq/plank/internal/types"
)

// Columns is the partition of a board's issues across its columns
type Columns struct {
	ByColumn  map[string][]*types.Issue // column id -> ordered issues
	Unmatched []*types.Issue
}

// GroupByColumn partitions issues into the given columns. An issue matches
// a column by StatusID first, then by the status label (the column name).
// Issues matching no column are returned under Unmatched rather than
// dropped. Each column's issues are ordered by position key, then id so
// rows without a rank stay deterministic.
func GroupByColumn(columns []*types.Column, issues []*types.Issue) *Columns {
	byID := make(map[string]string, len(columns))   // column id -> column id
	byName := make(map[string]string, len(columns)) // column name -> column id
	for _, col := range columns {
		byID[col.ID] = col.ID
		byName[col.Name] = col.ID
	}

	out := &Columns{ByColumn: make(map[string][]*types.Issue, len(columns))}
	for _, col := range columns {
		out.ByColumn[col.ID] = nil
	}

	for _, iss := range issues {
		colID, ok := "", false
		if iss.StatusID != "" {
			colID, ok = byID[iss.StatusID]
		}
		if !ok && iss.Status != "" {
			colID, ok = byName[iss.Status]
		}
		if !ok {
			out.Unmatched = append(out.Unmatched, iss)
			continue
		}
		out.ByColumn[colID] = append(out.ByColumn[colID], iss)
	}

	for id := range out.ByColumn {
		sortByPosition(out.ByColumn[id])
	}
	return out
}

func sortByPosition(issues []*types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Position != issues[j].Position {
			return issues[i].Position < issues[j].Position
		}
		return issues[i].ID < issues[j].ID
	})
}

// GroupedSprints buckets a sprint list by lifecycle state
type GroupedSprints struct {
	Planned   []*types.Sprint
	Active    []*types.Sprint
	Completed []*types.Sprint
	Cancelled []*types.Sprint
}

// GroupSprints places each sprint in exactly one bucket. Unknown statuses
// land in Planned so nothing silently disappears from the view.
func GroupSprints(sprints []*types.Sprint) *GroupedSprints {
	out := &GroupedSprints{}
	for _, s := range sprints {
		switch s.Status {
		case types.SprintActive:
			out.Active = append(out.Active, s)
		case types.SprintCompleted:
			out.Completed = append(out.Completed, s)
		case types.SprintCancelled:
			out.Cancelled = append(out.Cancelled, s)
		default:
			out.Planned = append(out.Planned, s)
		}
	}
	return out
}

// ActiveSprint returns the sprint driving the "Active Sprint" view, or nil.
// At most one sprint is ACTIVE at a time; if the backend ever serves more,
// the first wins.
func ActiveSprint(sprints []*types.Sprint) *types.Sprint {
	for _, s := range sprints {
		if s.Status == types.SprintActive {
			return s
		}
	}
	return nil
}
