package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/eco-abhi/hearth/internal/model"
)

// ExtractedRecipe is the model's structured reading of free-form recipe text.
type ExtractedRecipe struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	MealTypes   []string           `json:"meal_types"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Steps       []string           `json:"steps"`
	PrepMinutes int                `json:"prep_minutes"`
	CookMinutes int                `json:"cook_minutes"`
	Servings    int                `json:"servings"`
	Calories    *int               `json:"calories"`
	Tags        []string           `json:"tags"`
}

const extractRecipePrompt = `Extract the recipe from the text below into JSON with this shape:
{
  "title": string,
  "description": string (one or two sentences),
  "meal_types": array of strings from [breakfast, lunch, dinner, snack, dessert],
  "ingredients": array of {"name": string, "amount": string, "unit": string},
  "steps": array of strings, one per step,
  "prep_minutes": integer,
  "cook_minutes": integer,
  "servings": integer,
  "calories": integer per serving or null if unknown,
  "tags": array of short lowercase strings
}
Use empty strings and zero for anything the text does not state. Respond with JSON only.

Text:
%s`

// ExtractRecipe asks the model to structure recipe text scraped from a page
// or pasted by the user. Unknown meal types are dropped; an extraction with
// no title is rejected.
func (c *Client) ExtractRecipe(ctx context.Context, text string) (*ExtractedRecipe, error) {
	raw, err := c.generateJSON(ctx, fmt.Sprintf(extractRecipePrompt, text))
	if err != nil {
		return nil, err
	}

	var out ExtractedRecipe
	if err := decodeResponse(raw, &out); err != nil {
		return nil, err
	}

	if strings.TrimSpace(out.Title) == "" {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("extraction has no title")}
	}

	valid := out.MealTypes[:0]
	for _, mt := range out.MealTypes {
		mt = strings.ToLower(strings.TrimSpace(mt))
		if model.ValidMealType(mt) {
			valid = append(valid, mt)
		} else {
			c.logger.Warn("dropping unknown meal type", "meal_type", mt)
		}
	}
	out.MealTypes = valid

	return &out, nil
}
