package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/repository"
	"github.com/annvu/foodvision/internal/service"
	"github.com/gin-gonic/gin"
)

// MealHandler handles meal history endpoints.
type MealHandler struct {
	meals *service.MealService
}

// NewMealHandler creates a new meal handler.
func NewMealHandler(meals *service.MealService) *MealHandler {
	return &MealHandler{
		meals: meals,
	}
}

// SaveMeal handles POST /save-meal.
func (h *MealHandler) SaveMeal(c *gin.Context) {
	var req service.SaveMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	meal, err := h.meals.Save(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save meal: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Meal saved successfully",
		"meal_id": meal.ID,
	})
}

// History handles GET /meal-history?date=YYYY-MM-DD.
func (h *MealHandler) History(c *gin.Context) {
	date := queryDate(c)

	meals, err := h.meals.HistoryByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load meal history: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// Summary handles GET /daily-summary?date=YYYY-MM-DD.
func (h *MealHandler) Summary(c *gin.Context) {
	date := queryDate(c)

	summary, err := h.meals.SummaryByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute daily summary: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Delete handles DELETE /meal/:id.
func (h *MealHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Meal ID is required",
		})
		return
	}

	if err := h.meals.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Meal not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete meal: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal deleted successfully"})
}

// queryDate returns the date query parameter, defaulting to today.
func queryDate(c *gin.Context) string {
	if date := c.Query("date"); date != "" {
		return date
	}
	return domain.MealDate(time.Now())
}
