// Package dashboard holds the grid state of one browser session and the
// reducer that applies user events to it.
package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

const (
	MsgInvalidID        = "Please enter a valid ID"
	MsgSelectToDelete   = "Select at least one row to delete"
	MsgStoreUnavailable = "Could not load saved calls; showing an empty grid"
)

// State is everything the page renders. Rows is the grid in display order and
// Pending holds ids removed from the grid but not yet deleted from the store.
type State struct {
	Rows    []models.CallRecord `json:"rows"`
	Pending []string            `json:"pending_deletions"`
	Day     models.Day          `json:"day"`

	FieldError  string `json:"field_error,omitempty"`
	Notice      string `json:"notice,omitempty"`
	NoticeError bool   `json:"notice_error,omitempty"`

	LastSave *services.CommitResult `json:"last_save,omitempty"`
}

type EventKind string

const (
	AddRow      EventKind = "add_row"
	DeleteRow   EventKind = "delete_row"
	SaveChanges EventKind = "save_changes"
	DaySelected EventKind = "day_selected"
	GridEdited  EventKind = "grid_edited"

	// SaveCompleted is raised by the dispatcher once the store has answered.
	SaveCompleted EventKind = "save_completed"
)

// Event carries the payload of one user action. Only the fields relevant to
// Kind are read.
type Event struct {
	Kind     EventKind           `json:"kind"`
	Row      models.CallRecord   `json:"row"`
	Selected []int               `json:"selected"`
	Day      models.Day          `json:"day"`
	Rows     []models.CallRecord `json:"rows"`

	Result services.CommitResult `json:"-"`
	Err    error                 `json:"-"`
}

// Effect is work the reducer asks the dispatcher to perform.
type Effect int

const (
	EffectNone Effect = iota
	EffectCommit
)

// Reduce applies ev to s and returns the next state. It never mutates s.
func Reduce(s State, ev Event) (State, Effect) {
	next := s.clone()

	switch ev.Kind {
	case AddRow:
		row := ev.Row
		row.SubmissionID = strings.TrimSpace(row.SubmissionID)
		if row.SubmissionID == "" {
			next.FieldError = MsgInvalidID
			return next, EffectNone
		}
		next.FieldError = ""
		next.clearNotice()
		next.Rows = append(next.Rows, row)

	case DeleteRow:
		picked := selectedIndexes(ev.Selected, len(next.Rows))
		if len(picked) == 0 {
			next.setNotice(MsgSelectToDelete, false)
			return next, EffectNone
		}
		var kept, removed []models.CallRecord
		for i, r := range next.Rows {
			if _, ok := picked[i]; ok {
				removed = append(removed, r)
				continue
			}
			kept = append(kept, r)
		}
		next.Rows = kept
		next.Pending = services.StageDeletion(next.Pending, removed)
		next.clearNotice()

	case SaveChanges:
		return next, EffectCommit

	case SaveCompleted:
		r := ev.Result
		next.LastSave = &r
		if ev.Err != nil {
			next.setNotice(fmt.Sprintf("Save failed: %v", ev.Err), true)
			return next, EffectNone
		}
		next.Pending = nil
		next.setNotice(saveSummary(r), false)

	case DaySelected:
		if d, ok := models.ParseDay(string(ev.Day)); ok {
			next.Day = d
		}

	case GridEdited:
		next.Rows = append([]models.CallRecord(nil), ev.Rows...)
	}

	return next, EffectNone
}

// Chart aggregates the current rows for the selected day.
func (s State) Chart() services.ChartSeries {
	return services.Aggregate(s.Rows, s.Day)
}

func (s State) clone() State {
	c := s
	c.Rows = append([]models.CallRecord(nil), s.Rows...)
	c.Pending = append([]string(nil), s.Pending...)
	if s.Day == "" {
		c.Day = models.DefaultDay
	}
	return c
}

func (s *State) setNotice(msg string, isErr bool) {
	s.Notice = msg
	s.NoticeError = isErr
}

func (s *State) clearNotice() { s.setNotice("", false) }

func selectedIndexes(sel []int, n int) map[int]struct{} {
	out := make(map[int]struct{}, len(sel))
	for _, i := range sel {
		if i >= 0 && i < n {
			out[i] = struct{}{}
		}
	}
	return out
}

func saveSummary(r services.CommitResult) string {
	if r.DryRun {
		return "Dry run: nothing was written"
	}
	parts := []string{
		fmt.Sprintf("%d inserted", len(r.Inserted)),
		fmt.Sprintf("%d deleted", r.Deleted),
	}
	if len(r.Skipped) > 0 {
		skipped := append([]string(nil), r.Skipped...)
		sort.Strings(skipped)
		parts = append(parts, fmt.Sprintf("already saved: %s", strings.Join(skipped, ", ")))
	}
	return "Changes saved: " + strings.Join(parts, ", ")
}
