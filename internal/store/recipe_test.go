package store

import (
	"testing"

	"github.com/eco-abhi/hearth/internal/model"
)

func TestRecipeCreateWithChildren(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeStore(db)

	r, err := recipes.Create(RecipeFields{
		Title:       "Shakshuka",
		Description: "Eggs poached in spiced tomato sauce",
		MealTypes:   []model.MealType{model.MealBreakfast, model.MealDinner},
		Ingredients: []model.Ingredient{
			{Name: "eggs", Amount: "4", Unit: ""},
			{Name: "crushed tomatoes", Amount: "28", Unit: "oz"},
		},
		Steps:       []string{"Simmer the sauce", "Crack in the eggs", "Cover until set"},
		PrepMinutes: 10,
		CookMinutes: 25,
		Servings:    2,
		Calories:    intPtr(420),
		Tags:        []string{"vegetarian", "one-pan"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(r.MealTypes) != 2 {
		t.Errorf("got %d meal types, want 2", len(r.MealTypes))
	}
	if len(r.Ingredients) != 2 || r.Ingredients[0].Name != "eggs" {
		t.Errorf("got ingredients %+v, want order preserved", r.Ingredients)
	}
	if len(r.Steps) != 3 || r.Steps[2] != "Cover until set" {
		t.Errorf("got steps %+v, want order preserved", r.Steps)
	}
	if r.Calories == nil || *r.Calories != 420 {
		t.Errorf("got calories %v, want 420", r.Calories)
	}
}

func TestRecipeUpdateRewritesChildren(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeStore(db)

	r, err := recipes.Create(RecipeFields{
		Title:       "Pancakes",
		Ingredients: []model.Ingredient{{Name: "flour", Amount: "2", Unit: "cups"}},
		Steps:       []string{"Mix", "Fry"},
		Tags:        []string{"breakfast"},
		Servings:    4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := recipes.Update(r.ID, RecipeFields{
		Title:       "Buttermilk Pancakes",
		Ingredients: []model.Ingredient{{Name: "flour", Amount: "2", Unit: "cups"}, {Name: "buttermilk", Amount: "1.5", Unit: "cups"}},
		Steps:       []string{"Whisk dry", "Whisk wet", "Combine", "Fry"},
		Tags:        []string{"weekend"},
		Servings:    4,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Buttermilk Pancakes" {
		t.Errorf("got title %q", updated.Title)
	}
	if len(updated.Ingredients) != 2 {
		t.Errorf("got %d ingredients, want 2", len(updated.Ingredients))
	}
	if len(updated.Steps) != 4 {
		t.Errorf("got %d steps, want 4", len(updated.Steps))
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "weekend" {
		t.Errorf("got tags %+v, want old tags replaced", updated.Tags)
	}
}

func TestRecipeGetMissing(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeStore(db)

	got, err := recipes.GetByID(404)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for missing recipe", got)
	}
}

func TestRecipeSearch(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeStore(db)

	fixtures := []RecipeFields{
		{Title: "Chicken Curry", Description: "Weeknight staple", Tags: []string{"spicy"}},
		{Title: "Beef Stew", Description: "Slow cooker", Tags: []string{"comfort"}},
		{Title: "Tofu Stir Fry", Description: "A quick spicy dinner", Tags: []string{}},
	}
	for _, f := range fixtures {
		if _, err := recipes.Create(f); err != nil {
			t.Fatalf("Create %s: %v", f.Title, err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"chicken", 1},
		{"spicy", 2}, // tag on one, description on another
		{"stew", 1},
		{"pizza", 0},
	}
	for _, tc := range tests {
		got, err := recipes.Search(tc.query)
		if err != nil {
			t.Fatalf("Search(%q): %v", tc.query, err)
		}
		if len(got) != tc.want {
			t.Errorf("Search(%q): got %d results, want %d", tc.query, len(got), tc.want)
		}
	}
}

func TestRecipeListRecent(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeStore(db)

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := recipes.Create(RecipeFields{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	recent, err := recipes.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("got %d recipes, want 2", len(recent))
	}
}

func TestRecipeDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeStore(db)

	r, err := recipes.Create(RecipeFields{
		Title:       "Soup",
		Ingredients: []model.Ingredient{{Name: "stock", Amount: "4", Unit: "cups"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := recipes.Delete(r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM recipe_ingredients WHERE recipe_id = ?`, r.ID).Scan(&count); err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if count != 0 {
		t.Errorf("got %d orphan ingredient rows, want 0", count)
	}
}
