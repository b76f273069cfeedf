package model

import "time"

type ReminderCategory string

const (
	CategoryReplace     ReminderCategory = "replace"
	CategoryMaintenance ReminderCategory = "maintenance"
	CategoryGeneral     ReminderCategory = "general"
)

// ValidReminderCategory reports whether s is a known category.
func ValidReminderCategory(s string) bool {
	switch ReminderCategory(s) {
	case CategoryReplace, CategoryMaintenance, CategoryGeneral:
		return true
	}
	return false
}

type ReminderPriority string

const (
	PriorityLow    ReminderPriority = "low"
	PriorityMedium ReminderPriority = "medium"
	PriorityHigh   ReminderPriority = "high"
)

// ValidReminderPriority reports whether s is a known priority.
func ValidReminderPriority(s string) bool {
	switch ReminderPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DefaultReminderPoints is awarded when the caller doesn't supply a value.
const DefaultReminderPoints = 5

type Reminder struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	DueDate     time.Time        `json:"due_date"`
	Completed   bool             `json:"completed"`
	CompletedAt *time.Time       `json:"completed_at"`
	Recurrence  string           `json:"recurrence"`
	Category    ReminderCategory `json:"category"`
	Priority    ReminderPriority `json:"priority"`
	Points      int              `json:"points"`
	AssigneeID  *int64           `json:"assignee_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// LeaderboardEntry aggregates completed-reminder points per member.
type LeaderboardEntry struct {
	MemberID *int64 `json:"member_id"`
	Points   int    `json:"points"`
	Count    int    `json:"count"`
}
