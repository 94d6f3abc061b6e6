package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/tracker/nutrition"
)

type fakeRecognizer struct {
	mu    sync.Mutex
	calls int
	pred  *domain.Prediction
	err   error
	block chan struct{} // when set, Predict waits until closed
}

func (f *fakeRecognizer) Predict(ctx context.Context, asset *domain.ImageAsset) (*domain.Prediction, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.pred, f.err
}

type fakeResolver struct {
	mu      sync.Mutex
	calls   int
	profile *domain.NutrientProfile
	err     error
}

func (f *fakeResolver) Resolve(ctx context.Context, label string) (*domain.NutrientProfile, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.profile, f.err
}

type fakeStore struct {
	mu     sync.Mutex
	calls  int
	mealID string
	err    error
}

func (f *fakeStore) Save(ctx context.Context, pred *domain.Prediction, profile *domain.NutrientProfile) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.mealID, f.err
}

func testAsset() *domain.ImageAsset {
	return &domain.ImageAsset{Data: []byte("fake-jpeg"), ContentType: "image/jpeg", FileName: "lunch.jpg"}
}

func testPrediction() *domain.Prediction {
	return &domain.Prediction{FoodLabel: "ramen", ImageBase64: "aGk=", CapturedAt: time.Now()}
}

func TestSubmitPersisted(t *testing.T) {
	recognizer := &fakeRecognizer{pred: testPrediction()}
	resolver := &fakeResolver{profile: &domain.NutrientProfile{Calories: 436, Protein: 20}}
	store := &fakeStore{mealID: "meal-1"}
	s := NewSubmitter(recognizer, resolver, store, nil)

	outcome, err := s.Submit(context.Background(), testAsset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusPersisted {
		t.Fatalf("status: got %s, want %s", outcome.Status, StatusPersisted)
	}
	if outcome.MealID != "meal-1" {
		t.Errorf("meal id: got %q, want meal-1", outcome.MealID)
	}
	if outcome.Prediction.FoodLabel != "ramen" {
		t.Errorf("prediction label: got %q", outcome.Prediction.FoodLabel)
	}
	if outcome.Profile == nil || outcome.Profile.Calories != 436 {
		t.Errorf("profile not carried through: %+v", outcome.Profile)
	}
	if s.IsSubmitting() {
		t.Error("submitter still marked in flight after completion")
	}
}

func TestSubmitPredictionFailureAbortsPipeline(t *testing.T) {
	recognizer := &fakeRecognizer{err: errors.New("model unavailable")}
	resolver := &fakeResolver{}
	store := &fakeStore{}
	s := NewSubmitter(recognizer, resolver, store, nil)

	outcome, err := s.Submit(context.Background(), testAsset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != StatusPredictionFailed {
		t.Fatalf("status: got %s, want %s", outcome.Status, StatusPredictionFailed)
	}
	if outcome.Prediction != nil {
		t.Error("failed prediction must not surface a prediction")
	}
	if resolver.calls != 0 {
		t.Errorf("resolver called %d times after prediction failure, want 0", resolver.calls)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times after prediction failure, want 0", store.calls)
	}
}

func TestSubmitUnknownNutrients(t *testing.T) {
	tests := []struct {
		name       string
		resolveErr error
	}{
		{name: "no ingredient match", resolveErr: nutrition.ErrNoMatch},
		{name: "resolver failure", resolveErr: errors.New("connection refused")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recognizer := &fakeRecognizer{pred: testPrediction()}
			resolver := &fakeResolver{err: tc.resolveErr}
			store := &fakeStore{}
			s := NewSubmitter(recognizer, resolver, store, nil)

			outcome, err := s.Submit(context.Background(), testAsset())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Status != StatusNutrientUnknown {
				t.Fatalf("status: got %s, want %s", outcome.Status, StatusNutrientUnknown)
			}
			if outcome.Prediction == nil || outcome.Prediction.FoodLabel != "ramen" {
				t.Error("the recognized label must still be surfaced")
			}
			if outcome.Profile != nil {
				t.Errorf("unknown nutrients must yield a nil profile, got %+v", outcome.Profile)
			}
			if store.calls != 0 {
				t.Errorf("store called %d times with unknown nutrients, want 0", store.calls)
			}
		})
	}
}

func TestSubmitPersistenceFailureKeepsValues(t *testing.T) {
	recognizer := &fakeRecognizer{pred: testPrediction()}
	resolver := &fakeResolver{profile: &domain.NutrientProfile{Calories: 436}}
	store := &fakeStore{err: errors.New("backend down")}
	s := NewSubmitter(recognizer, resolver, store, nil)

	outcome, err := s.Submit(context.Background(), testAsset())
	if err != nil {
		t.Fatalf("persistence failure must not be an error: %v", err)
	}
	if outcome.Status != StatusNotPersisted {
		t.Fatalf("status: got %s, want %s", outcome.Status, StatusNotPersisted)
	}
	if outcome.Prediction == nil || outcome.Profile == nil {
		t.Error("label and profile must remain visible when the save fails")
	}
	if outcome.MealID != "" {
		t.Errorf("unsaved meal must have no id, got %q", outcome.MealID)
	}
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	block := make(chan struct{})
	recognizer := &fakeRecognizer{pred: testPrediction(), block: block}
	resolver := &fakeResolver{profile: &domain.NutrientProfile{}}
	store := &fakeStore{mealID: "meal-1"}
	s := NewSubmitter(recognizer, resolver, store, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Submit(context.Background(), testAsset()); err != nil {
			t.Errorf("first submission failed: %v", err)
		}
	}()

	// Wait until the first submission holds the in-flight slot.
	for !s.IsSubmitting() {
		time.Sleep(time.Millisecond)
	}

	_, err := s.Submit(context.Background(), testAsset())
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(block)
	<-done

	if recognizer.calls != 1 {
		t.Errorf("rejected submission must not reach the recognizer, got %d calls", recognizer.calls)
	}

	// The slot is free again once the first submission finishes.
	outcome, err := s.Submit(context.Background(), testAsset())
	if err != nil {
		t.Fatalf("follow-up submission failed: %v", err)
	}
	if outcome.Status != StatusPersisted {
		t.Errorf("follow-up status: got %s, want %s", outcome.Status, StatusPersisted)
	}
}
