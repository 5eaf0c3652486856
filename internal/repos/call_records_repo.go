package repos

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
)

// InsertResult reports which submission ids were written and which were
// already present in the store at insert time.
type InsertResult struct {
	Inserted []string
	Skipped  []string
}

type CallRecordsRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewCallRecordsRepo(db *gorm.DB, lg *log.Logger) *CallRecordsRepo {
	if lg == nil {
		lg = log.Default()
	}
	return &CallRecordsRepo{db: db, lg: lg}
}

// FetchAll is SELECT * FROM calltracker_table.
func (r *CallRecordsRepo) FetchAll(ctx context.Context) ([]models.CallRecord, error) {
	var rows []models.CallRecord
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch call records: %w", err)
	}
	return rows, nil
}

// FetchSubmissionIDs is SELECT submission_id FROM calltracker_table.
func (r *CallRecordsRepo) FetchSubmissionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.CallRecord{}).Pluck("submission_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("fetch submission ids: %w", err)
	}
	return ids, nil
}

func (r *CallRecordsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CallRecord{}).Count(&n).Error
	return n, err
}

// InsertNew inserts rows inside one transaction. A row whose submission_id is
// already stored (including one inserted earlier in the same batch) is skipped.
// Any statement error rolls the whole batch back.
func (r *CallRecordsRepo) InsertNew(ctx context.Context, rows []models.CallRecord) (InsertResult, error) {
	var res InsertResult
	if len(rows) == 0 {
		return res, nil
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return InsertResult{}, fmt.Errorf("begin tx: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	for _, row := range rows {
		if strings.TrimSpace(row.SubmissionID) == "" {
			_ = tx.Rollback()
			return InsertResult{}, fmt.Errorf("invalid call record: empty submission_id: %+v", row)
		}

		var n int64
		if err := tx.Model(&models.CallRecord{}).Where("submission_id = ?", row.SubmissionID).Count(&n).Error; err != nil {
			_ = tx.Rollback()
			return InsertResult{}, fmt.Errorf("count submission_id=%s: %w", row.SubmissionID, err)
		}
		if n > 0 {
			res.Skipped = append(res.Skipped, row.SubmissionID)
			continue
		}

		rec := row
		if err := tx.Create(&rec).Error; err != nil {
			_ = tx.Rollback()
			return InsertResult{}, fmt.Errorf("insert submission_id=%s: %w", row.SubmissionID, err)
		}
		res.Inserted = append(res.Inserted, row.SubmissionID)
	}

	if err := tx.Commit().Error; err != nil {
		return InsertResult{}, fmt.Errorf("commit: %w", err)
	}
	r.lg.Printf("Inserted %d calltracker rows (skipped %d already stored)", len(res.Inserted), len(res.Skipped))
	return res, nil
}

// DeleteBySubmissionIDs issues one DELETE per id inside one transaction and
// returns the number of rows removed.
func (r *CallRecordsRepo) DeleteBySubmissionIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			res := tx.Where("submission_id = ?", id).Delete(&models.CallRecord{})
			if res.Error != nil {
				return fmt.Errorf("delete submission_id=%s: %w", id, res.Error)
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.lg.Printf("Deleted %d calltracker rows for %d ids", deleted, len(ids))
	return deleted, nil
}
