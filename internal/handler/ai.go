package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/eco-abhi/hearth/internal/ai"
	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/store"
)

type AIHandler struct {
	client        *ai.Client
	memberStore   *store.MemberStore
	exerciseStore *store.ExerciseStore
}

func NewAIHandler(client *ai.Client, ms *store.MemberStore, es *store.ExerciseStore) *AIHandler {
	return &AIHandler{client: client, memberStore: ms, exerciseStore: es}
}

func (h *AIHandler) unavailable(w http.ResponseWriter) bool {
	if h.client == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "AI features are not configured"})
		return true
	}
	return false
}

// writeAIError distinguishes a garbage model response from everything else.
// Parse failures are not retried; the client may simply try again.
func writeAIError(w http.ResponseWriter, err error) {
	var pe *ai.ParseError
	if errors.As(err, &pe) {
		log.Printf("ai response unusable: %v (raw: %.200s)", pe.Err, pe.Raw)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "the model returned an unusable response, please try again"})
		return
	}
	log.Printf("ai request failed: %v", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "AI request failed"})
}

// ExtractRecipe turns a URL or pasted text into structured recipe data. The
// result is returned for review, not saved; the client posts it to the
// recipes endpoint once the user confirms.
func (h *AIHandler) ExtractRecipe(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	var req struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	text := req.Content
	sourceURL := ""
	switch req.Type {
	case "url":
		parsed, err := url.Parse(req.Content)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content must be an http(s) URL"})
			return
		}
		sourceURL = req.Content
		text, err = ai.FetchReadableText(r.Context(), req.Content)
		if err != nil {
			log.Printf("failed to fetch recipe page: %v", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "could not read the page"})
			return
		}
	case "text":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type must be \"url\" or \"text\""})
		return
	}

	extracted, err := h.client.ExtractRecipe(r.Context(), text)
	if err != nil {
		writeAIError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recipe":     extracted,
		"source_url": sourceURL,
	})
}

// GenerateExercises produces a workout plan from a free-form prompt. With a
// member_id the plan is persisted as that member's templates, scheduled on
// day_of_week when one is given; without it the plan is only returned.
func (h *AIHandler) GenerateExercises(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	var req struct {
		Prompt    string `json:"prompt"`
		MemberID  *int64 `json:"member_id"`
		DayOfWeek string `json:"day_of_week"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt is required"})
		return
	}
	req.DayOfWeek = strings.ToLower(strings.TrimSpace(req.DayOfWeek))
	if req.DayOfWeek != "" && !validDays[req.DayOfWeek] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unrecognized day of week: " + req.DayOfWeek})
		return
	}

	if req.MemberID != nil {
		member, err := h.memberStore.GetByID(*req.MemberID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get member"})
			return
		}
		if member == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member not found"})
			return
		}
	}

	plan, err := h.client.GenerateExercises(r.Context(), req.Prompt)
	if err != nil {
		writeAIError(w, err)
		return
	}

	saved := 0
	if req.MemberID != nil {
		for i, ex := range plan {
			template, err := h.exerciseStore.CreateTemplate(*req.MemberID, store.TemplateFields{
				Name:            ex.Name,
				BodyPart:        model.BodyPart(ex.BodyPart),
				Sets:            ex.Sets,
				Reps:            ex.Reps,
				Weight:          ex.Weight,
				DurationMinutes: ex.DurationMinutes,
				Notes:           ex.Notes,
			})
			if err != nil {
				log.Printf("failed to save generated exercise: %v", err)
				continue
			}
			if req.DayOfWeek != "" {
				if _, err := h.exerciseStore.Schedule(template.ID, req.DayOfWeek, i); err != nil {
					log.Printf("failed to schedule generated exercise: %v", err)
					continue
				}
			}
			saved++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"exercises": plan,
		"saved":     saved,
	})
}
