package dashboard

import (
	"context"
	"errors"
	"log"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

// Saver is the reconciliation step run by SaveChanges.
type Saver interface {
	Save(ctx context.Context, gridRows []models.CallRecord, pending []string) (services.CommitResult, error)
}

// Loader provides the rows a new session starts from.
type Loader interface {
	FetchAll(ctx context.Context) ([]models.CallRecord, error)
}

type Dispatcher struct {
	Saver  Saver
	Loader Loader
	Logger *log.Logger
}

func (d Dispatcher) lg() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}

// Dispatch reduces ev and runs any effect it asks for. The returned error is
// the save error, if any; the state already carries it as a notice.
func (d Dispatcher) Dispatch(ctx context.Context, s State, ev Event) (State, error) {
	next, eff := Reduce(s, ev)
	if eff != EffectCommit {
		return next, nil
	}

	if d.Saver == nil {
		err := errors.New("dashboard: no saver configured")
		next, _ = Reduce(next, Event{Kind: SaveCompleted, Err: err})
		return next, err
	}

	res, err := d.Saver.Save(ctx, next.Rows, next.Pending)
	if err != nil {
		d.lg().Printf("[dashboard] save failed: %v", err)
	}
	next, _ = Reduce(next, Event{Kind: SaveCompleted, Result: res, Err: err})
	return next, err
}

// InitialState loads the stored rows. A store failure degrades to an empty
// grid with a notice so the page still renders.
func (d Dispatcher) InitialState(ctx context.Context) State {
	s := State{Day: models.DefaultDay}
	if d.Loader == nil {
		return s
	}
	rows, err := d.Loader.FetchAll(ctx)
	if err != nil {
		d.lg().Printf("[dashboard] load rows failed: %v", err)
		s.setNotice(MsgStoreUnavailable, true)
		return s
	}
	s.Rows = rows
	return s
}
