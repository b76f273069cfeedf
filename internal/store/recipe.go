package store

import (
	"database/sql"
	"fmt"

	"github.com/eco-abhi/hearth/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

const recipeCols = `id, title, description, prep_minutes, cook_minutes, servings, calories, image_url, source_url, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var calories sql.NullInt64

	err := scanner.Scan(
		&r.ID, &r.Title, &r.Description, &r.PrepMinutes, &r.CookMinutes,
		&r.Servings, &calories, &r.ImageURL, &r.SourceURL, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if calories.Valid {
		v := int(calories.Int64)
		r.Calories = &v
	}
	return &r, nil
}

// RecipeFields carries the mutable attributes of a recipe, children included.
type RecipeFields struct {
	Title       string
	Description string
	MealTypes   []model.MealType
	Ingredients []model.Ingredient
	Steps       []string
	PrepMinutes int
	CookMinutes int
	Servings    int
	Calories    *int
	ImageURL    string
	SourceURL   string
	Tags        []string
}

func (s *RecipeStore) Create(f RecipeFields) (*model.Recipe, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO recipes (title, description, prep_minutes, cook_minutes, servings, calories, image_url, source_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Title, f.Description, f.PrepMinutes, f.CookMinutes, f.Servings, nullInt(f.Calories), f.ImageURL, f.SourceURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := writeRecipeChildren(tx, id, f); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// Update rewrites the recipe row and all child rows in one transaction.
func (s *RecipeStore) Update(id int64, f RecipeFields) (*model.Recipe, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE recipes SET title = ?, description = ?, prep_minutes = ?, cook_minutes = ?, servings = ?, calories = ?, image_url = ?, source_url = ? WHERE id = ?`,
		f.Title, f.Description, f.PrepMinutes, f.CookMinutes, f.Servings, nullInt(f.Calories), f.ImageURL, f.SourceURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	for _, table := range []string{"recipe_meal_types", "recipe_ingredients", "recipe_steps", "recipe_tags"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE recipe_id = ?`, id); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := writeRecipeChildren(tx, id, f); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func writeRecipeChildren(tx *sql.Tx, id int64, f RecipeFields) error {
	for _, mt := range f.MealTypes {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO recipe_meal_types (recipe_id, meal_type) VALUES (?, ?)`, id, string(mt)); err != nil {
			return fmt.Errorf("insert meal type: %w", err)
		}
	}
	for i, ing := range f.Ingredients {
		if _, err := tx.Exec(`INSERT INTO recipe_ingredients (recipe_id, pos, name, amount, unit) VALUES (?, ?, ?, ?, ?)`, id, i, ing.Name, ing.Amount, ing.Unit); err != nil {
			return fmt.Errorf("insert ingredient: %w", err)
		}
	}
	for i, step := range f.Steps {
		if _, err := tx.Exec(`INSERT INTO recipe_steps (recipe_id, pos, instruction) VALUES (?, ?, ?)`, id, i, step); err != nil {
			return fmt.Errorf("insert step: %w", err)
		}
	}
	for _, tag := range f.Tags {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO recipe_tags (recipe_id, tag) VALUES (?, ?)`, id, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

func (s *RecipeStore) GetByID(id int64) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if err := s.loadChildren(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RecipeStore) loadChildren(r *model.Recipe) error {
	rows, err := s.db.Query(`SELECT meal_type FROM recipe_meal_types WHERE recipe_id = ? ORDER BY meal_type`, r.ID)
	if err != nil {
		return fmt.Errorf("load meal types: %w", err)
	}
	defer rows.Close()
	r.MealTypes = []model.MealType{}
	for rows.Next() {
		var mt string
		if err := rows.Scan(&mt); err != nil {
			return fmt.Errorf("scan meal type: %w", err)
		}
		r.MealTypes = append(r.MealTypes, model.MealType(mt))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	ingRows, err := s.db.Query(`SELECT name, amount, unit FROM recipe_ingredients WHERE recipe_id = ? ORDER BY pos`, r.ID)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	defer ingRows.Close()
	r.Ingredients = []model.Ingredient{}
	for ingRows.Next() {
		var ing model.Ingredient
		if err := ingRows.Scan(&ing.Name, &ing.Amount, &ing.Unit); err != nil {
			return fmt.Errorf("scan ingredient: %w", err)
		}
		r.Ingredients = append(r.Ingredients, ing)
	}
	if err := ingRows.Err(); err != nil {
		return err
	}

	stepRows, err := s.db.Query(`SELECT instruction FROM recipe_steps WHERE recipe_id = ? ORDER BY pos`, r.ID)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}
	defer stepRows.Close()
	r.Steps = []string{}
	for stepRows.Next() {
		var step string
		if err := stepRows.Scan(&step); err != nil {
			return fmt.Errorf("scan step: %w", err)
		}
		r.Steps = append(r.Steps, step)
	}
	if err := stepRows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.Query(`SELECT tag FROM recipe_tags WHERE recipe_id = ? ORDER BY tag`, r.ID)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer tagRows.Close()
	r.Tags = []string{}
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		r.Tags = append(r.Tags, tag)
	}
	return tagRows.Err()
}

func (s *RecipeStore) listIDs(query string, args ...any) ([]model.Recipe, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recipe id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var recipes []model.Recipe
	for _, id := range ids {
		r, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if r != nil {
			recipes = append(recipes, *r)
		}
	}
	return recipes, nil
}

func (s *RecipeStore) List() ([]model.Recipe, error) {
	return s.listIDs(`SELECT id FROM recipes ORDER BY title ASC`)
}

// ListRecent returns the n most recently created recipes.
func (s *RecipeStore) ListRecent(n int) ([]model.Recipe, error) {
	return s.listIDs(`SELECT id FROM recipes ORDER BY created_at DESC LIMIT ?`, n)
}

// Search matches q case-insensitively against titles, descriptions, and tags.
func (s *RecipeStore) Search(q string) ([]model.Recipe, error) {
	pattern := "%" + q + "%"
	return s.listIDs(
		`SELECT DISTINCT r.id FROM recipes r
		 LEFT JOIN recipe_tags t ON t.recipe_id = r.id
		 WHERE r.title LIKE ? OR r.description LIKE ? OR t.tag LIKE ?
		 ORDER BY r.id`,
		pattern, pattern, pattern,
	)
}

// SetImageURL records the uploaded image location.
func (s *RecipeStore) SetImageURL(id int64, url string) error {
	_, err := s.db.Exec(`UPDATE recipes SET image_url = ? WHERE id = ?`, url, id)
	if err != nil {
		return fmt.Errorf("set image url: %w", err)
	}
	return nil
}

func (s *RecipeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
