// Package mealstore is the client for the FoodVision backend's meal
// persistence and aggregation endpoints.
package mealstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/go-resty/resty/v2"
)

// ErrNotFound reports a delete for an identifier the store does not hold.
// Deleting the same record twice yields ErrNotFound the second time.
var ErrNotFound = errors.New("meal not found")

// Client talks to the backend meal store.
type Client struct {
	client *resty.Client
}

// NewClient creates a meal store client for the given backend base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	return &Client{client: client}
}

type saveMealPayload struct {
	FoodName  string    `json:"food_name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Image     string    `json:"image"`
	Timestamp time.Time `json:"timestamp"`
}

type saveMealResponse struct {
	Message string `json:"message"`
	MealID  string `json:"meal_id"`
}

// Save persists one meal record built from a prediction and its resolved
// profile, and returns the identifier the store assigned.
func (c *Client) Save(ctx context.Context, pred *domain.Prediction, profile *domain.NutrientProfile) (string, error) {
	payload := saveMealPayload{
		FoodName:  pred.FoodLabel,
		Calories:  profile.Calories,
		Protein:   profile.Protein,
		Carbs:     profile.Carbs,
		Fat:       profile.Fat,
		Image:     pred.ImageBase64,
		Timestamp: pred.CapturedAt,
	}

	var result saveMealResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/save-meal")
	if err != nil {
		return "", fmt.Errorf("save meal request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("save meal returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return result.MealID, nil
}

type historyResponse struct {
	Meals []domain.Meal `json:"meals"`
}

// ListByDate returns all meals for a calendar date in the order the store
// returns them.
func (c *Client) ListByDate(ctx context.Context, date string) ([]domain.Meal, error) {
	var result historyResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		SetResult(&result).
		Get("/meal-history")
	if err != nil {
		return nil, fmt.Errorf("meal history request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("meal history returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return result.Meals, nil
}

// SummaryByDate returns the daily aggregate for a calendar date. The store
// computes it from current persisted state; nothing is cached client-side.
func (c *Client) SummaryByDate(ctx context.Context, date string) (*domain.DailySummary, error) {
	var result domain.DailySummary
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		SetResult(&result).
		Get("/daily-summary")
	if err != nil {
		return nil, fmt.Errorf("daily summary request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("daily summary returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return &result, nil
}

// Delete removes a meal by identifier. A 404 maps to ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/meal/" + id)
	if err != nil {
		return fmt.Errorf("delete meal request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("delete meal returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
