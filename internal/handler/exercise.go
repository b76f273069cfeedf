package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/store"
	"github.com/eco-abhi/hearth/internal/websocket"
)

var validDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

type ExerciseHandler struct {
	exerciseStore *store.ExerciseStore
	memberStore   *store.MemberStore
	hub           *websocket.Hub
}

func NewExerciseHandler(es *store.ExerciseStore, ms *store.MemberStore, hub *websocket.Hub) *ExerciseHandler {
	return &ExerciseHandler{exerciseStore: es, memberStore: ms, hub: hub}
}

func (h *ExerciseHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type exerciseRequest struct {
	Name            string   `json:"name"`
	BodyPart        string   `json:"body_part"`
	Sets            *int     `json:"sets"`
	Reps            *int     `json:"reps"`
	Weight          *float64 `json:"weight"`
	DurationMinutes *int     `json:"duration_minutes"`
	Notes           string   `json:"notes"`
	Link            string   `json:"link"`
	DayOfWeek       string   `json:"day_of_week"`
	SortOrder       int      `json:"sort_order"`
}

func (req *exerciseRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	req.BodyPart = strings.ToLower(strings.TrimSpace(req.BodyPart))
	if !model.ValidBodyPart(req.BodyPart) {
		return "unrecognized body part: " + req.BodyPart
	}
	req.DayOfWeek = strings.ToLower(strings.TrimSpace(req.DayOfWeek))
	if req.DayOfWeek != "" && !validDays[req.DayOfWeek] {
		return "unrecognized day of week: " + req.DayOfWeek
	}
	return ""
}

func (req *exerciseRequest) fields() store.TemplateFields {
	return store.TemplateFields{
		Name:            req.Name,
		BodyPart:        model.BodyPart(req.BodyPart),
		Sets:            req.Sets,
		Reps:            req.Reps,
		Weight:          req.Weight,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Link:            req.Link,
	}
}

func (h *ExerciseHandler) memberOr404(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	member, err := h.memberStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get member"})
		return 0, false
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
		return 0, false
	}
	return id, true
}

// List returns a member's exercises, optionally filtered to one day.
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	day := strings.ToLower(r.URL.Query().Get("day"))
	var (
		exercises []model.Exercise
		err       error
	)
	if day != "" {
		if !validDays[day] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unrecognized day of week: " + day})
			return
		}
		exercises, err = h.exerciseStore.ListByMemberDay(memberID, day)
	} else {
		exercises, err = h.exerciseStore.ListByMember(memberID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list exercises"})
		return
	}
	if exercises == nil {
		exercises = []model.Exercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

// Library returns a member's templates that are not on the schedule.
func (h *ExerciseHandler) Library(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	templates, err := h.exerciseStore.ListLibrary(memberID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list library"})
		return
	}
	if templates == nil {
		templates = []model.ExerciseTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Create adds a template for the member and, when day_of_week is given,
// schedules it in one go.
func (h *ExerciseHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	template, err := h.exerciseStore.CreateTemplate(memberID, req.fields())
	if err != nil {
		log.Printf("failed to create exercise: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create exercise"})
		return
	}

	if req.DayOfWeek != "" {
		if _, err := h.exerciseStore.Schedule(template.ID, req.DayOfWeek, req.SortOrder); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to schedule exercise"})
			return
		}
	}

	h.broadcast(websocket.NewMessage("exercise", "created", template.ID, map[string]any{"member_id": memberID}))
	writeJSON(w, http.StatusCreated, template)
}

func (h *ExerciseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.exerciseStore.GetTemplateByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get exercise"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	template, err := h.exerciseStore.UpdateTemplate(id, req.fields())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update exercise"})
		return
	}

	h.broadcast(websocket.NewMessage("exercise", "updated", template.ID, map[string]any{"member_id": template.MemberID}))
	writeJSON(w, http.StatusOK, template)
}

func (h *ExerciseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.exerciseStore.GetTemplateByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get exercise"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}

	if err := h.exerciseStore.DeleteTemplate(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete exercise"})
		return
	}

	h.broadcast(websocket.NewMessage("exercise", "deleted", id, map[string]any{"member_id": existing.MemberID}))
	w.WriteHeader(http.StatusNoContent)
}

// Schedule places an existing template on a day of the week.
func (h *ExerciseHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	template, err := h.exerciseStore.GetTemplateByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get exercise"})
		return
	}
	if template == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}

	var req struct {
		DayOfWeek string `json:"day_of_week"`
		SortOrder int    `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.DayOfWeek = strings.ToLower(strings.TrimSpace(req.DayOfWeek))
	if !validDays[req.DayOfWeek] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unrecognized day of week: " + req.DayOfWeek})
		return
	}

	sched, err := h.exerciseStore.Schedule(id, req.DayOfWeek, req.SortOrder)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to schedule exercise"})
		return
	}

	h.broadcast(websocket.NewMessage("exercise", "scheduled", id, map[string]any{"member_id": template.MemberID}))
	writeJSON(w, http.StatusCreated, sched)
}

func (h *ExerciseHandler) Unschedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.exerciseStore.Unschedule(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to unschedule exercise"})
		return
	}

	h.broadcast(websocket.NewMessage("exercise", "unscheduled", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ExerciseHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	sched, err := h.exerciseStore.SetCompleted(id, req.Completed)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update completion"})
		return
	}
	if sched == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheduled exercise not found"})
		return
	}

	h.broadcast(websocket.NewMessage("exercise", "updated", sched.TemplateID, nil))
	writeJSON(w, http.StatusOK, sched)
}

type bulkTarget struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	BodyPart string `json:"body_part"`
}

// validate rejects a partial triple before any row is touched.
func (t *bulkTarget) validate() string {
	t.Name = strings.TrimSpace(t.Name)
	t.BodyPart = strings.ToLower(strings.TrimSpace(t.BodyPart))
	if t.MemberID == 0 || t.Name == "" || t.BodyPart == "" {
		return "member_id, name, and body_part are all required"
	}
	if !model.ValidBodyPart(t.BodyPart) {
		return "unrecognized body part: " + t.BodyPart
	}
	return ""
}

// BulkUpdate edits every copy of an exercise across the member's week.
// Copies are matched by the (member, name, body part) triple.
func (h *ExerciseHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		bulkTarget
		Fields exerciseRequest `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if msg := req.bulkTarget.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	if msg := req.Fields.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	count, err := h.exerciseStore.BulkUpdate(req.MemberID, req.Name, model.BodyPart(req.BodyPart), req.Fields.fields())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to bulk update"})
		return
	}

	h.broadcast(websocket.NewMessage("exercise", "bulk_updated", req.MemberID, map[string]any{"count": count}))
	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

// BulkDelete removes every copy of an exercise across the member's week.
// A triple that matches nothing deletes zero rows and is not an error.
func (h *ExerciseHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkTarget
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	count, err := h.exerciseStore.BulkDelete(req.MemberID, req.Name, model.BodyPart(req.BodyPart))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to bulk delete"})
		return
	}

	h.broadcast(websocket.NewMessage("exercise", "bulk_deleted", req.MemberID, map[string]any{"count": count}))
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}
