package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/eco-abhi/hearth/internal/images"
	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/store"
	"github.com/eco-abhi/hearth/internal/websocket"
)

// Recommender is what the recipe handler needs from the AI client; nil when
// no API key is configured.
type Recommender interface {
	RankRecipes(ctx context.Context, request string, recipes []model.Recipe, limit int) ([]int64, error)
}

const maxImageBytes = 10 << 20

type RecipeHandler struct {
	store    *store.RecipeStore
	uploader *images.Uploader
	ai       Recommender
	hub      *websocket.Hub
}

func NewRecipeHandler(s *store.RecipeStore, uploader *images.Uploader, aiClient Recommender, hub *websocket.Hub) *RecipeHandler {
	return &RecipeHandler{store: s, uploader: uploader, ai: aiClient, hub: hub}
}

func (h *RecipeHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type recipeRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	MealTypes   []string           `json:"meal_types"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Steps       []string           `json:"steps"`
	PrepMinutes int                `json:"prep_minutes"`
	CookMinutes int                `json:"cook_minutes"`
	Servings    int                `json:"servings"`
	Calories    *int               `json:"calories"`
	ImageURL    string             `json:"image_url"`
	SourceURL   string             `json:"source_url"`
	Tags        []string           `json:"tags"`
}

func (req *recipeRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	for _, mt := range req.MealTypes {
		if !model.ValidMealType(mt) {
			return "unrecognized meal type: " + mt
		}
	}
	return ""
}

func (req *recipeRequest) fields() store.RecipeFields {
	mealTypes := make([]model.MealType, 0, len(req.MealTypes))
	for _, mt := range req.MealTypes {
		mealTypes = append(mealTypes, model.MealType(mt))
	}
	return store.RecipeFields{
		Title:       req.Title,
		Description: req.Description,
		MealTypes:   mealTypes,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		PrepMinutes: req.PrepMinutes,
		CookMinutes: req.CookMinutes,
		Servings:    req.Servings,
		Calories:    req.Calories,
		ImageURL:    req.ImageURL,
		SourceURL:   req.SourceURL,
		Tags:        req.Tags,
	}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		recipes []model.Recipe
		err     error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		recipes, err = h.store.Search(q)
	} else {
		recipes, err = h.store.List()
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list recipes"})
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	recipe, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if recipe == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	recipe, err := h.store.Create(req.fields())
	if err != nil {
		log.Printf("failed to create recipe: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create recipe"})
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "created", recipe.ID, nil))
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	recipe, err := h.store.Update(id, req.fields())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update recipe"})
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "updated", recipe.ID, nil))
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete recipe"})
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage accepts a multipart image, stores it, and records the URL on
// the recipe.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	if h.uploader == nil || !h.uploader.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "image storage not configured"})
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	_, url, err := h.uploader.UploadRecipeImage(r.Context(), id, contentType, file, header.Size)
	if err != nil {
		log.Printf("failed to upload recipe image: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.store.SetImageURL(id, url); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save image url"})
		return
	}

	h.broadcast(websocket.NewMessage("recipe", "updated", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

// Recommend returns recipes matching a free-form request, ranked by the
// model. When AI is unconfigured or the model response is unusable the
// fallback is the most recent recipes, so the endpoint always answers.
func (h *RecipeHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
		Limit  int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Limit <= 0 || req.Limit > 20 {
		req.Limit = 5
	}

	all, err := h.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list recipes"})
		return
	}

	if h.ai != nil && strings.TrimSpace(req.Prompt) != "" {
		ids, err := h.ai.RankRecipes(r.Context(), req.Prompt, all, req.Limit)
		if err == nil && len(ids) > 0 {
			byID := make(map[int64]model.Recipe, len(all))
			for _, rec := range all {
				byID[rec.ID] = rec
			}
			ranked := make([]model.Recipe, 0, len(ids))
			for _, id := range ids {
				ranked = append(ranked, byID[id])
			}
			writeJSON(w, http.StatusOK, map[string]any{"recipes": ranked, "source": "ai"})
			return
		}
		if err != nil {
			log.Printf("recipe recommendation failed, falling back to recent: %v", err)
		}
	}

	recent, err := h.store.ListRecent(req.Limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list recipes"})
		return
	}
	if recent == nil {
		recent = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recent, "source": "recent"})
}
