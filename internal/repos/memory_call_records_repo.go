package repos

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
)

// MemoryCallRecordsRepo backs the delimited-file data source: the dataset is
// loaded once at startup and saves apply to process memory only.
type MemoryCallRecordsRepo struct {
	mu   sync.Mutex
	rows []models.CallRecord
	lg   *log.Logger
}

func NewMemoryCallRecordsRepo(seed []models.CallRecord, lg *log.Logger) *MemoryCallRecordsRepo {
	if lg == nil {
		lg = log.Default()
	}
	rows := make([]models.CallRecord, len(seed))
	copy(rows, seed)
	return &MemoryCallRecordsRepo{rows: rows, lg: lg}
}

func (r *MemoryCallRecordsRepo) FetchAll(ctx context.Context) ([]models.CallRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.CallRecord, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *MemoryCallRecordsRepo) FetchSubmissionIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.SubmissionIDs(r.rows), nil
}

func (r *MemoryCallRecordsRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

// InsertNew mirrors CallRecordsRepo.InsertNew: validation happens before any
// row is applied, so a bad batch leaves the dataset untouched.
func (r *MemoryCallRecordsRepo) InsertNew(ctx context.Context, rows []models.CallRecord) (InsertResult, error) {
	var res InsertResult
	if len(rows) == 0 {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	known := make(map[string]struct{}, len(r.rows))
	for _, row := range r.rows {
		known[row.SubmissionID] = struct{}{}
	}

	var staged []models.CallRecord
	for _, row := range rows {
		if strings.TrimSpace(row.SubmissionID) == "" {
			return InsertResult{}, fmt.Errorf("invalid call record: empty submission_id: %+v", row)
		}
		if _, ok := known[row.SubmissionID]; ok {
			res.Skipped = append(res.Skipped, row.SubmissionID)
			continue
		}
		known[row.SubmissionID] = struct{}{}
		staged = append(staged, row)
		res.Inserted = append(res.Inserted, row.SubmissionID)
	}

	r.rows = append(r.rows, staged...)
	r.lg.Printf("Inserted %d in-memory rows (skipped %d already stored)", len(res.Inserted), len(res.Skipped))
	return res, nil
}

func (r *MemoryCallRecordsRepo) DeleteBySubmissionIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := r.rows[:0:0]
	var deleted int64
	for _, row := range r.rows {
		if _, ok := drop[row.SubmissionID]; ok {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	r.lg.Printf("Deleted %d in-memory rows for %d ids", deleted, len(ids))
	return deleted, nil
}
