// Package nutrition resolves a food label to a macro-nutrient profile via
// the Spoonacular ingredient database.
package nutrition

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/go-resty/resty/v2"
)

// ErrNoMatch reports that the database has no ingredient for the label at
// all. It maps to the Unknown profile sentinel, which is distinct from a
// matched ingredient whose response omits individual nutrients (those
// default to zero).
var ErrNoMatch = errors.New("no ingredient match")

// referenceAmount is the fixed reference quantity nutrient breakdowns are
// requested for, in grams.
const referenceAmount = "100"

// Config holds the resolver's connection settings. The API key must be
// validated present before the resolver is constructed.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Resolver queries the ingredient database.
type Resolver struct {
	client *resty.Client
	apiKey string
}

// NewResolver creates a resolver for the configured nutrient database.
func NewResolver(cfg *Config) *Resolver {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	client.SetTimeout(timeout)

	return &Resolver{
		client: client,
		apiKey: cfg.APIKey,
	}
}

type searchResponse struct {
	Results []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"results"`
	TotalResults int `json:"totalResults"`
}

type informationResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Nutrition struct {
		Nutrients []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
			Unit   string  `json:"unit"`
		} `json:"nutrients"`
	} `json:"nutrition"`
}

// Resolve looks up the label and extracts the four macro nutrients for a
// 100 g reference quantity. The first search result is used as-is; there
// is deliberately no secondary ranking.
func (r *Resolver) Resolve(ctx context.Context, label string) (*domain.NutrientProfile, error) {
	var search searchResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("query", label).
		SetQueryParam("apiKey", r.apiKey).
		SetResult(&search).
		Get("/food/ingredients/search")
	if err != nil {
		return nil, fmt.Errorf("ingredient search failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ingredient search returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(search.Results) == 0 {
		return nil, ErrNoMatch
	}

	ingredientID := search.Results[0].ID

	var info informationResponse
	resp, err = r.client.R().
		SetContext(ctx).
		SetQueryParam("amount", referenceAmount).
		SetQueryParam("unit", "g").
		SetQueryParam("apiKey", r.apiKey).
		SetResult(&info).
		Get("/food/ingredients/" + strconv.Itoa(ingredientID) + "/information")
	if err != nil {
		return nil, fmt.Errorf("ingredient information failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ingredient information returned status %d: %s", resp.StatusCode(), resp.String())
	}

	// A nutrient absent from the breakdown maps to 0, never to Unknown.
	profile := &domain.NutrientProfile{}
	for _, n := range info.Nutrition.Nutrients {
		switch n.Name {
		case domain.NutrientCalories:
			profile.Calories = n.Amount
		case domain.NutrientProtein:
			profile.Protein = n.Amount
		case domain.NutrientCarbs:
			profile.Carbs = n.Amount
		case domain.NutrientFat:
			profile.Fat = n.Amount
		}
	}

	return profile, nil
}
