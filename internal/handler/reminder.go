package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/recurrence"
	"github.com/eco-abhi/hearth/internal/store"
	"github.com/eco-abhi/hearth/internal/websocket"
)

type ReminderHandler struct {
	reminderStore *store.ReminderStore
	memberStore   *store.MemberStore
	hub           *websocket.Hub
}

func NewReminderHandler(rs *store.ReminderStore, ms *store.MemberStore, hub *websocket.Hub) *ReminderHandler {
	return &ReminderHandler{reminderStore: rs, memberStore: ms, hub: hub}
}

func (h *ReminderHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type reminderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
	Recurrence  string `json:"recurrence"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Points      *int   `json:"points"`
	AssigneeID  *int64 `json:"assignee_id"`
}

// validate normalizes the request in place, returning a client-facing error
// message or "".
func (h *ReminderHandler) validate(req *reminderRequest) string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if req.DueDate == "" {
		return "due_date is required"
	}
	if _, err := time.Parse(time.RFC3339, req.DueDate); err != nil {
		return "due_date must be RFC 3339 (e.g. 2024-06-01T09:00:00Z)"
	}

	if _, err := recurrence.Parse(req.Recurrence); err != nil {
		return "unrecognized recurrence: " + req.Recurrence
	}

	if req.Category == "" {
		req.Category = string(model.CategoryGeneral)
	}
	if !model.ValidReminderCategory(req.Category) {
		return "unrecognized category: " + req.Category
	}
	if req.Priority == "" {
		req.Priority = string(model.PriorityMedium)
	}
	if !model.ValidReminderPriority(req.Priority) {
		return "unrecognized priority: " + req.Priority
	}
	if req.Points != nil && (*req.Points < 1 || *req.Points > 10) {
		return "points must be between 1 and 10"
	}
	return ""
}

// checkAssignee resolves the assignee, if any, to a real member.
func (h *ReminderHandler) checkAssignee(assigneeID *int64) (string, error) {
	if assigneeID == nil {
		return "", nil
	}
	member, err := h.memberStore.GetByID(*assigneeID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "assignee not found", nil
	}
	return "", nil
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	includeCompleted := r.URL.Query().Get("include_completed") == "true"

	reminders, err := h.reminderStore.List(includeCompleted)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list reminders"})
		return
	}
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	reminder, err := h.reminderStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get reminder"})
		return
	}
	if reminder == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reminder not found"})
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if msg := h.validate(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	if msg, err := h.checkAssignee(req.AssigneeID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check assignee"})
		return
	} else if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	dueDate, _ := time.Parse(time.RFC3339, req.DueDate)
	rec, _ := recurrence.Parse(req.Recurrence)
	points := model.DefaultReminderPoints
	if req.Points != nil {
		points = *req.Points
	}

	reminder, err := h.reminderStore.Create(req.Title, req.Description, dueDate, rec,
		model.ReminderCategory(req.Category), model.ReminderPriority(req.Priority), points, req.AssigneeID)
	if err != nil {
		log.Printf("failed to create reminder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create reminder"})
		return
	}

	h.broadcast(websocket.NewMessage("reminder", "created", reminder.ID, nil))
	writeJSON(w, http.StatusCreated, reminder)
}

// Update applies field edits and, when the payload marks the reminder
// completed, runs the completion workflow: the row is completed as of now
// and a recurring reminder yields a successor due one interval from now.
// The response body is the live reminder, which for a recurring completion
// is the successor, not the row addressed in the URL. Sending
// completed=false re-opens a completed reminder and clears its completion
// timestamp.
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.reminderStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get reminder"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reminder not found"})
		return
	}

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if msg := h.validate(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	if msg, err := h.checkAssignee(req.AssigneeID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check assignee"})
		return
	} else if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	dueDate, _ := time.Parse(time.RFC3339, req.DueDate)
	rec, _ := recurrence.Parse(req.Recurrence)
	points := model.DefaultReminderPoints
	if req.Points != nil {
		points = *req.Points
	}

	// An absent assignee_id unassigns; there is no "keep previous" spelling.
	u := store.ReminderUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Completed:   req.Completed,
		Recurrence:  rec,
		Category:    model.ReminderCategory(req.Category),
		Priority:    model.ReminderPriority(req.Priority),
		Points:      points,
		AssigneeID:  req.AssigneeID,
	}

	var reminder *model.Reminder
	if req.Completed && !existing.Completed {
		reminder, err = h.reminderStore.Complete(id, time.Now().UTC(), u)
	} else {
		reminder, err = h.reminderStore.Update(id, u)
	}
	if err != nil {
		log.Printf("failed to update reminder %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update reminder"})
		return
	}
	if reminder == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reminder not found"})
		return
	}

	h.broadcast(websocket.NewMessage("reminder", "updated", reminder.ID, nil))
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.reminderStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get reminder"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reminder not found"})
		return
	}

	if err := h.reminderStore.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete reminder"})
		return
	}

	h.broadcast(websocket.NewMessage("reminder", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReminderHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reminderStore.Leaderboard()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load leaderboard"})
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
