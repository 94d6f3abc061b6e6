package domain

import (
	"time"
)

// DateLayout is the calendar-date format used for meal grouping and
// history queries (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Meal is one persisted, dated, nutrient-annotated food entry.
// A meal is immutable after creation and removed only by explicit delete.
type Meal struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	FoodName   string    `gorm:"type:text;not null" json:"food_name"`
	Calories   float64   `json:"calories"`
	Protein    float64   `json:"protein"`
	Carbs      float64   `json:"carbs"`
	Fat        float64   `json:"fat"`
	Image      string    `gorm:"type:text" json:"image"` // base64 JPEG thumbnail
	StorageKey string    `gorm:"type:text" json:"-"`     // object storage key of the archived original, if any
	Timestamp  time.Time `json:"timestamp"`
	Date       string    `gorm:"type:text;index:idx_meals_date" json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for Meal.
func (Meal) TableName() string {
	return "meals"
}

// DailySummary is the aggregate of all meals for one calendar date.
// It is never stored; it is recomputed from the meal records at query time
// so it always equals the element-wise sum of that date's meals.
type DailySummary struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
	MealCount     int64   `json:"meal_count"`
}

// MealDate derives the calendar date for a meal from its capture timestamp.
func MealDate(ts time.Time) string {
	return ts.Format(DateLayout)
}
