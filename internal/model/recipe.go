package model

import "time"

// MealType classifies when a recipe is typically served. A recipe may carry
// several meal types at once.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealDessert   MealType = "dessert"
)

// ValidMealType reports whether s is one of the known meal types.
func ValidMealType(s string) bool {
	switch MealType(s) {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealDessert:
		return true
	}
	return false
}

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type Recipe struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	MealTypes   []MealType   `json:"meal_types"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	PrepMinutes int          `json:"prep_minutes"`
	CookMinutes int          `json:"cook_minutes"`
	Servings    int          `json:"servings"`
	Calories    *int         `json:"calories"`
	ImageURL    string       `json:"image_url,omitempty"`
	SourceURL   string       `json:"source_url,omitempty"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
