package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
	"github.com/Laizra/Call-tracker-app-R2024/internal/repos"
)

// CallRecordStore is the persistence surface reconciliation needs.
// repos.CallRecordsRepo and repos.MemoryCallRecordsRepo both satisfy it.
type CallRecordStore interface {
	FetchAll(ctx context.Context) ([]models.CallRecord, error)
	FetchSubmissionIDs(ctx context.Context) ([]string, error)
	InsertNew(ctx context.Context, rows []models.CallRecord) (repos.InsertResult, error)
	DeleteBySubmissionIDs(ctx context.Context, ids []string) (int64, error)
}

// CommitResult summarises one save.
type CommitResult struct {
	Inserted []string `json:"inserted"`
	Skipped  []string `json:"skipped,omitempty"`
	Deleted  int64    `json:"deleted"`

	// DeleteRequested is the number of distinct ids sent to the store.
	DeleteRequested int  `json:"delete_requested"`
	DryRun          bool `json:"dry_run,omitempty"`
}

type CallReconcileService struct {
	Store  CallRecordStore
	Logger *log.Logger

	// DryRun classifies and logs without writing.
	DryRun bool
}

func (s CallReconcileService) lg() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// StageDeletion appends the ids of selected to pending. Repeats are kept.
func StageDeletion(pending []string, selected []models.CallRecord) []string {
	out := make([]string, 0, len(pending)+len(selected))
	out = append(out, pending...)
	return append(out, models.SubmissionIDs(selected)...)
}

// ClassifyNewRows returns the grid rows whose submission_id is not in knownIDs,
// in grid order.
func ClassifyNewRows(gridRows []models.CallRecord, knownIDs []string) []models.CallRecord {
	known := make(map[string]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = struct{}{}
	}
	var out []models.CallRecord
	for _, r := range gridRows {
		if _, ok := known[r.SubmissionID]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Save fetches the stored ids, classifies the grid against them and commits.
func (s CallReconcileService) Save(ctx context.Context, gridRows []models.CallRecord, pending []string) (CommitResult, error) {
	if s.Store == nil {
		return CommitResult{}, fmt.Errorf("reconcile: store is nil")
	}

	var newRows []models.CallRecord
	if len(gridRows) > 0 {
		known, err := s.Store.FetchSubmissionIDs(ctx)
		if err != nil {
			return CommitResult{}, fmt.Errorf("fetch known ids: %w", err)
		}
		newRows = ClassifyNewRows(gridRows, known)
		if len(newRows) == 0 {
			s.lg().Printf("[reconcile] nothing to insert")
		}
	}

	return s.Commit(ctx, newRows, pending)
}

// Commit inserts newRows then deletes each distinct id in pending. The two
// batches are independent: a failed insert batch does not stop deletions.
func (s CallReconcileService) Commit(ctx context.Context, newRows []models.CallRecord, pending []string) (CommitResult, error) {
	if s.Store == nil {
		return CommitResult{}, fmt.Errorf("reconcile: store is nil")
	}

	ids := distinct(pending)
	res := CommitResult{DeleteRequested: len(ids), DryRun: s.DryRun}

	if s.DryRun {
		s.lg().Printf("[reconcile] dry-run=true: would insert %d rows %v, would delete %d ids %v",
			len(newRows), models.SubmissionIDs(newRows), len(ids), ids)
		return res, nil
	}

	var errs []error

	if len(newRows) > 0 {
		ins, err := s.Store.InsertNew(ctx, newRows)
		if err != nil {
			s.lg().Printf("[reconcile] insert batch failed, rolled back: %v", err)
			errs = append(errs, fmt.Errorf("insert new rows: %w", err))
		} else {
			res.Inserted = ins.Inserted
			res.Skipped = ins.Skipped
			s.lg().Printf("[reconcile] inserted=%v skipped=%v", ins.Inserted, ins.Skipped)
		}
	}

	if len(ids) > 0 {
		n, err := s.Store.DeleteBySubmissionIDs(ctx, ids)
		if err != nil {
			s.lg().Printf("[reconcile] delete batch failed, rolled back: %v", err)
			errs = append(errs, fmt.Errorf("delete rows: %w", err))
		} else {
			res.Deleted = n
			s.lg().Printf("[reconcile] deleted %d rows for ids %v", n, ids)
		}
	}

	return res, errors.Join(errs...)
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
