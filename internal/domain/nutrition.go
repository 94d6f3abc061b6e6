package domain

// NutrientProfile is the four-field macro-nutrient summary for a food
// label at a 100 g reference quantity.
//
// A nil *NutrientProfile is the "Unknown" sentinel: the nutrient database
// had no ingredient match at all. That is distinct from a profile with
// zero-valued fields, which means the ingredient matched but the response
// omitted individual nutrients. The two must never be conflated.
type NutrientProfile struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Nutrient names extracted from the nutrient database response.
const (
	NutrientCalories = "Calories"
	NutrientProtein  = "Protein"
	NutrientCarbs    = "Carbohydrates"
	NutrientFat      = "Fat"
)
