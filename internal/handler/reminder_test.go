package handler

import "testing"

func intPtr(v int) *int { return &v }

func TestReminderValidate(t *testing.T) {
	h := NewReminderHandler(nil, nil, nil)

	base := reminderRequest{
		Title:   "Replace furnace filter",
		DueDate: "2024-06-01T09:00:00Z",
	}

	tests := []struct {
		name    string
		mutate  func(*reminderRequest)
		wantMsg string
	}{
		{"defaults pass", func(r *reminderRequest) {}, ""},
		{"points floor", func(r *reminderRequest) { r.Points = intPtr(1) }, ""},
		{"points ceiling", func(r *reminderRequest) { r.Points = intPtr(10) }, ""},
		{"points zero", func(r *reminderRequest) { r.Points = intPtr(0) }, "points must be between 1 and 10"},
		{"points negative", func(r *reminderRequest) { r.Points = intPtr(-50) }, "points must be between 1 and 10"},
		{"points too high", func(r *reminderRequest) { r.Points = intPtr(9999) }, "points must be between 1 and 10"},
		{"missing title", func(r *reminderRequest) { r.Title = "  " }, "title is required"},
		{"bad due date", func(r *reminderRequest) { r.DueDate = "tomorrow" }, "due_date must be RFC 3339 (e.g. 2024-06-01T09:00:00Z)"},
		{"unknown recurrence", func(r *reminderRequest) { r.Recurrence = "fortnightly" }, "unrecognized recurrence: fortnightly"},
		{"unknown priority", func(r *reminderRequest) { r.Priority = "urgent" }, "unrecognized priority: urgent"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			if got := h.validate(&req); got != tc.wantMsg {
				t.Errorf("got %q, want %q", got, tc.wantMsg)
			}
		})
	}
}
