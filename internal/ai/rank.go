package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/eco-abhi/hearth/internal/model"
)

const rankRecipesPrompt = `Given this request: %q

Pick the best matching recipes from the list below and respond with a JSON
object {"recipe_ids": [...]} holding up to %d ids, best match first. Only use
ids from the list. Respond with JSON only.

Recipes:
%s`

// RankRecipes asks the model to order the given recipes against a free-form
// request ("something light for a hot evening"). Ids the model invents are
// discarded. Callers fall back to a recency list when this errors.
func (c *Client) RankRecipes(ctx context.Context, request string, recipes []model.Recipe, limit int) ([]int64, error) {
	if len(recipes) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	known := make(map[int64]bool, len(recipes))
	for _, r := range recipes {
		known[r.ID] = true
		fmt.Fprintf(&sb, "- id=%d title=%q tags=%s\n", r.ID, r.Title, strings.Join(r.Tags, ","))
	}

	raw, err := c.generateJSON(ctx, fmt.Sprintf(rankRecipesPrompt, request, limit, sb.String()))
	if err != nil {
		return nil, err
	}

	var out struct {
		RecipeIDs []int64 `json:"recipe_ids"`
	}
	if err := decodeResponse(raw, &out); err != nil {
		return nil, err
	}

	var ids []int64
	seen := make(map[int64]bool)
	for _, id := range out.RecipeIDs {
		if !known[id] {
			c.logger.Warn("model returned unknown recipe id", "id", id)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}
