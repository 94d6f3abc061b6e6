package repository

import (
	"context"
	"errors"

	"github.com/annvu/foodvision/internal/domain"
	"gorm.io/gorm"
)

// ErrMealNotFound is returned when a meal lookup or delete finds no record.
var ErrMealNotFound = errors.New("meal not found")

// MealRepository handles meal record persistence.
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new MealRepository.
func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Create inserts a new meal record.
func (r *MealRepository) Create(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

// GetByID retrieves a meal by its ID.
func (r *MealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	var meal domain.Meal
	if err := r.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return &meal, nil
}

// ListByDate retrieves all meals whose date equals the given calendar date,
// in insertion order. The order is stable across repeated calls absent
// mutation.
func (r *MealRepository) ListByDate(ctx context.Context, date string) ([]domain.Meal, error) {
	var meals []domain.Meal
	if err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at ASC, id ASC").
		Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

// SummaryByDate computes the daily aggregate for a date directly in SQL.
// It always reflects the persisted state at call time; nothing is cached.
func (r *MealRepository) SummaryByDate(ctx context.Context, date string) (*domain.DailySummary, error) {
	summary := domain.DailySummary{Date: date}
	if err := r.db.WithContext(ctx).
		Model(&domain.Meal{}).
		Select("COALESCE(SUM(calories), 0) AS total_calories, "+
			"COALESCE(SUM(protein), 0) AS total_protein, "+
			"COALESCE(SUM(carbs), 0) AS total_carbs, "+
			"COALESCE(SUM(fat), 0) AS total_fat, "+
			"COUNT(*) AS meal_count").
		Where("date = ?", date).
		Scan(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

// Delete removes a meal by ID. Returns ErrMealNotFound when no record with
// that ID exists, so a second delete of the same ID reports not-found
// instead of silently succeeding.
func (r *MealRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Meal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMealNotFound
	}
	return nil
}
