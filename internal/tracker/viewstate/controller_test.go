package viewstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/annvu/foodvision/internal/domain"
)

// fakeStore serves canned per-date responses and can hold a date's
// responses until released, to exercise the stale-response guard.
type fakeStore struct {
	mu      sync.Mutex
	meals   map[string][]domain.Meal
	summary map[string]*domain.DailySummary
	errs    map[string]error
	hold    map[string]chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		meals:   map[string][]domain.Meal{},
		summary: map[string]*domain.DailySummary{},
		errs:    map[string]error{},
		hold:    map[string]chan struct{}{},
	}
}

func (f *fakeStore) wait(date string) {
	f.mu.Lock()
	ch := f.hold[date]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (f *fakeStore) ListByDate(ctx context.Context, date string) ([]domain.Meal, error) {
	f.wait(date)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[date]; err != nil {
		return nil, err
	}
	return f.meals[date], nil
}

func (f *fakeStore) SummaryByDate(ctx context.Context, date string) (*domain.DailySummary, error) {
	f.wait(date)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[date]; err != nil {
		return nil, err
	}
	return f.summary[date], nil
}

func (f *fakeStore) set(date string, meals []domain.Meal, summary *domain.DailySummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meals[date] = meals
	f.summary[date] = summary
}

func TestEnteringHistoryLoadsSnapshot(t *testing.T) {
	store := newFakeStore()
	store.set("2026-09-01",
		[]domain.Meal{{ID: "m1", FoodName: "toast", Calories: 300}},
		&domain.DailySummary{Date: "2026-09-01", TotalCalories: 300, MealCount: 1},
	)

	c := NewController(store, "2026-09-01", nil, nil)
	if snap := c.Snapshot(); snap != nil {
		t.Fatalf("expected no snapshot before entering history, got %+v", snap)
	}

	c.SetMode(context.Background(), ModeHistory)

	snap := c.Snapshot()
	if snap == nil {
		t.Fatal("expected a snapshot after entering history")
	}
	if snap.Date != "2026-09-01" {
		t.Errorf("snapshot date: got %q", snap.Date)
	}
	if len(snap.Meals) != 1 || snap.Meals[0].ID != "m1" {
		t.Errorf("snapshot meals: %+v", snap.Meals)
	}
	if snap.Summary == nil || snap.Summary.MealCount != 1 {
		t.Errorf("snapshot summary: %+v", snap.Summary)
	}
}

func TestDateChangeRefreshesBothQueries(t *testing.T) {
	store := newFakeStore()
	store.set("2026-09-01", []domain.Meal{{ID: "m1"}}, &domain.DailySummary{MealCount: 1})
	store.set("2026-08-31",
		[]domain.Meal{{ID: "a"}, {ID: "b"}},
		&domain.DailySummary{MealCount: 2},
	)

	c := NewController(store, "2026-09-01", nil, nil)
	ctx := context.Background()
	c.SetMode(ctx, ModeHistory)
	c.SelectDate(ctx, "2026-08-31")

	snap := c.Snapshot()
	if snap == nil || snap.Date != "2026-08-31" {
		t.Fatalf("expected snapshot for 2026-08-31, got %+v", snap)
	}
	// List and summary always come from the same fetch.
	if len(snap.Meals) != 2 || snap.Summary.MealCount != 2 {
		t.Errorf("list and summary disagree: %d meals, count %d", len(snap.Meals), snap.Summary.MealCount)
	}
}

func TestQueryFailureRetainsPreviousSnapshot(t *testing.T) {
	store := newFakeStore()
	store.set("2026-09-01", []domain.Meal{{ID: "m1"}}, &domain.DailySummary{MealCount: 1})

	c := NewController(store, "2026-09-01", nil, nil)
	ctx := context.Background()
	c.SetMode(ctx, ModeHistory)

	store.mu.Lock()
	store.errs["2026-08-31"] = errors.New("backend down")
	store.mu.Unlock()

	c.SelectDate(ctx, "2026-08-31")

	snap := c.Snapshot()
	if snap == nil || snap.Date != "2026-09-01" {
		t.Fatalf("failed query must retain the previous snapshot, got %+v", snap)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	store := newFakeStore()
	hold := make(chan struct{})
	store.hold["2026-09-01"] = hold
	store.set("2026-09-01", []domain.Meal{{ID: "old"}}, &domain.DailySummary{MealCount: 1})
	store.set("2026-08-31", []domain.Meal{{ID: "new"}, {ID: "newer"}}, &domain.DailySummary{MealCount: 2})

	c := NewController(store, "2026-09-01", nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SetMode(ctx, ModeHistory) // blocks on the held date
	}()

	// The mode flips before the blocking refresh starts.
	for c.State().Mode != ModeHistory {
		time.Sleep(time.Millisecond)
	}

	// Supersede the in-flight refresh with a newer date selection.
	c.SelectDate(ctx, "2026-08-31")

	snap := c.Snapshot()
	if snap == nil || snap.Date != "2026-08-31" {
		t.Fatalf("expected snapshot for 2026-08-31, got %+v", snap)
	}

	// Release the stale response; it must not overwrite the newer one.
	close(hold)
	wg.Wait()

	snap = c.Snapshot()
	if snap.Date != "2026-08-31" {
		t.Errorf("stale response overwrote newer snapshot: %+v", snap)
	}
	if len(snap.Meals) != 2 {
		t.Errorf("snapshot meals: %+v", snap.Meals)
	}
}

func TestStateReportsSubmission(t *testing.T) {
	submitting := false
	c := NewController(newFakeStore(), "2026-09-01", func() bool { return submitting }, nil)

	if c.State().IsSubmitting {
		t.Error("expected no submission in flight")
	}
	submitting = true
	if !c.State().IsSubmitting {
		t.Error("expected submission in flight")
	}

	// Mode changes are never blocked by an in-flight submission.
	c.SetMode(context.Background(), ModeTrends)
	if got := c.State().Mode; got != ModeTrends {
		t.Errorf("mode: got %s, want %s", got, ModeTrends)
	}
}
