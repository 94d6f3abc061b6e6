package nutrition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestResolver(t *testing.T, handler http.Handler) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewResolver(&Config{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestResolveExtractsMacros(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/food/ingredients/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "pizza" {
			t.Errorf("unexpected query param: %q", got)
		}
		if got := r.URL.Query().Get("apiKey"); got != "test-key" {
			t.Errorf("api key not forwarded: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":1022,"name":"pizza"},{"id":9999,"name":"pizza crust"}],"totalResults":2}`))
	})
	mux.HandleFunc("/food/ingredients/1022/information", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("amount"); got != "100" {
			t.Errorf("unexpected amount: %q", got)
		}
		if got := r.URL.Query().Get("unit"); got != "g" {
			t.Errorf("unexpected unit: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1022,"name":"pizza","nutrition":{"nutrients":[
			{"name":"Calories","amount":266,"unit":"kcal"},
			{"name":"Protein","amount":11,"unit":"g"},
			{"name":"Carbohydrates","amount":33,"unit":"g"},
			{"name":"Fat","amount":10,"unit":"g"},
			{"name":"Sodium","amount":598,"unit":"mg"}
		]}}`))
	})

	resolver := newTestResolver(t, mux)
	profile, err := resolver.Resolve(context.Background(), "pizza")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Calories != 266 {
		t.Errorf("calories: got %v, want 266", profile.Calories)
	}
	if profile.Protein != 11 {
		t.Errorf("protein: got %v, want 11", profile.Protein)
	}
	if profile.Carbs != 33 {
		t.Errorf("carbs: got %v, want 33", profile.Carbs)
	}
	if profile.Fat != 10 {
		t.Errorf("fat: got %v, want 10", profile.Fat)
	}
}

func TestResolveMissingNutrientDefaultsToZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/food/ingredients/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":1,"name":"mystery"}],"totalResults":1}`))
	})
	mux.HandleFunc("/food/ingredients/1/information", func(w http.ResponseWriter, r *http.Request) {
		// Carbohydrates absent from the breakdown.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"name":"mystery","nutrition":{"nutrients":[
			{"name":"Calories","amount":266,"unit":"kcal"},
			{"name":"Protein","amount":11,"unit":"g"},
			{"name":"Fat","amount":10,"unit":"g"}
		]}}`))
	})

	resolver := newTestResolver(t, mux)
	profile, err := resolver.Resolve(context.Background(), "mystery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile == nil {
		t.Fatal("matched ingredient must not yield a nil profile")
	}
	if profile.Carbs != 0 {
		t.Errorf("absent carbs must default to 0, got %v", profile.Carbs)
	}
	if profile.Calories != 266 || profile.Protein != 11 || profile.Fat != 10 {
		t.Errorf("present nutrients mangled: %+v", profile)
	}
}

func TestResolveNoMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/food/ingredients/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[],"totalResults":0}`))
	})

	resolver := newTestResolver(t, mux)
	profile, err := resolver.Resolve(context.Background(), "xyzzy")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if profile != nil {
		t.Errorf("no match must yield a nil profile, got %+v", profile)
	}
}

func TestResolveSearchError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/food/ingredients/search", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, http.StatusPaymentRequired)
	})

	resolver := newTestResolver(t, mux)
	_, err := resolver.Resolve(context.Background(), "pizza")
	if err == nil {
		t.Fatal("expected an error for a failed search")
	}
	if errors.Is(err, ErrNoMatch) {
		t.Error("a transport-level failure must not be reported as ErrNoMatch")
	}
}
