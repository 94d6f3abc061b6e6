// Package viewstate holds the tracker's transient view state: the active
// mode, the selected date, and the last applied history snapshot.
package viewstate

import (
	"context"
	"sync"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/logger"
)

// Mode is the active view.
type Mode string

const (
	ModeCapture Mode = "capture"
	ModeHistory Mode = "history"
	ModeTrends  Mode = "trends"
)

// HistoryStore serves the per-date queries the history view needs.
type HistoryStore interface {
	ListByDate(ctx context.Context, date string) ([]domain.Meal, error)
	SummaryByDate(ctx context.Context, date string) (*domain.DailySummary, error)
}

// Snapshot is one atomically applied history view: the meal list and the
// daily summary for the same date, fetched together. The two are never
// rendered from different fetches.
type Snapshot struct {
	Date    string
	Meals   []domain.Meal
	Summary *domain.DailySummary
}

// State is the externally visible view state.
type State struct {
	Mode         Mode
	SelectedDate string
	IsSubmitting bool
}

// Controller owns the view state. Transitions are unconditional; entering
// history, or changing the selected date while in history, refreshes the
// meal list and daily summary for that date.
type Controller struct {
	mu           sync.Mutex
	mode         Mode
	selectedDate string
	snapshot     *Snapshot
	gen          uint64 // bumped per refresh; stale responses are discarded

	store      HistoryStore
	submitting func() bool
	logger     *logger.Logger
}

// NewController creates a controller starting in capture mode on the given
// date. submitting reports whether a submission pipeline run is in flight;
// it may be nil.
func NewController(store HistoryStore, date string, submitting func() bool, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Controller{
		mode:         ModeCapture,
		selectedDate: date,
		store:        store,
		submitting:   submitting,
		logger:       log,
	}
}

// State returns the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	isSubmitting := false
	if c.submitting != nil {
		isSubmitting = c.submitting()
	}
	return State{
		Mode:         c.mode,
		SelectedDate: c.selectedDate,
		IsSubmitting: isSubmitting,
	}
}

// Snapshot returns the last applied history snapshot, or nil when none has
// been applied yet. Query failures retain the previous snapshot.
func (c *Controller) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// SetMode transitions to the given mode. Any mode can follow any other;
// no transition is blocked by an in-flight submission. Entering history
// triggers a refresh for the selected date.
func (c *Controller) SetMode(ctx context.Context, mode Mode) {
	c.mu.Lock()
	c.mode = mode
	refresh := mode == ModeHistory
	date := c.selectedDate
	var gen uint64
	if refresh {
		c.gen++
		gen = c.gen
	}
	c.mu.Unlock()

	if refresh {
		c.refresh(ctx, date, gen)
	}
}

// SelectDate changes the selected date. While in history mode this
// refreshes both queries for the new date.
func (c *Controller) SelectDate(ctx context.Context, date string) {
	c.mu.Lock()
	c.selectedDate = date
	refresh := c.mode == ModeHistory
	var gen uint64
	if refresh {
		c.gen++
		gen = c.gen
	}
	c.mu.Unlock()

	if refresh {
		c.refresh(ctx, date, gen)
	}
}

// Refresh re-runs the history queries for the current selected date, used
// after a mutation (persist or delete) that may affect the viewed date.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	date := c.selectedDate
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.refresh(ctx, date, gen)
}

// refresh fetches the meal list and daily summary concurrently, then
// applies both under the lock as one snapshot. A response for a date that
// is no longer selected, or one superseded by a later refresh, is
// discarded rather than overwriting newer state.
func (c *Controller) refresh(ctx context.Context, date string, gen uint64) {
	var (
		meals   []domain.Meal
		summary *domain.DailySummary
		listErr error
		sumErr  error
		wg      sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		meals, listErr = c.store.ListByDate(ctx, date)
	}()
	go func() {
		defer wg.Done()
		summary, sumErr = c.store.SummaryByDate(ctx, date)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || date != c.selectedDate {
		c.logger.WithField(logger.FieldDate, date).Debug("Discarding stale history response")
		return
	}
	if listErr != nil || sumErr != nil {
		// Keep the previously displayed snapshot on query failure.
		if listErr != nil {
			c.logger.WithError(listErr).WithField(logger.FieldDate, date).Error("Failed to load meal history")
		}
		if sumErr != nil {
			c.logger.WithError(sumErr).WithField(logger.FieldDate, date).Error("Failed to load daily summary")
		}
		return
	}

	c.snapshot = &Snapshot{
		Date:    date,
		Meals:   meals,
		Summary: summary,
	}
}
