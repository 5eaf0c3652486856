package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/Laizra/Call-tracker-app-R2024/internal/repos"
)

// CountingCallRecordStore is a store that can report its size.
type CountingCallRecordStore interface {
	CallRecordStore
	Count(ctx context.Context) (int64, error)
}

// BootstrapFromCSVIfNeeded imports csvPath into an empty store. A missing file
// or a non-empty table is a no-op.
func BootstrapFromCSVIfNeeded(ctx context.Context, store CountingCallRecordStore, csvPath string, lg *log.Logger) error {
	if lg == nil {
		lg = log.Default()
	}
	if csvPath == "" {
		return nil
	}

	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count stored rows: %w", err)
	}
	if n > 0 {
		lg.Printf("Store already holds %d rows; skipping CSV bootstrap", n)
		return nil
	}

	rows, err := repos.LoadCallRecordsCSV(csvPath, lg)
	if errors.Is(err, fs.ErrNotExist) {
		lg.Printf("⚠️  Seed CSV %s not found; starting with an empty table", csvPath)
		return nil
	}
	if err != nil {
		return err
	}

	res, err := store.InsertNew(ctx, rows)
	if err != nil {
		return fmt.Errorf("bootstrap insert: %w", err)
	}
	lg.Printf("✅ Bootstrapped %d rows from %s (%d duplicate ids skipped)", len(res.Inserted), csvPath, len(res.Skipped))
	return nil
}
