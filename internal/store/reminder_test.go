package store

import (
	"testing"
	"time"

	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/recurrence"
)

func reminderUpdateFrom(r *model.Reminder) ReminderUpdate {
	return ReminderUpdate{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Completed:   r.Completed,
		Recurrence:  recurrence.Interval(r.Recurrence),
		Category:    r.Category,
		Priority:    r.Priority,
		Points:      r.Points,
		AssigneeID:  r.AssigneeID,
	}
}

func TestReminderCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	reminders := NewReminderStore(db)

	due := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	r, err := reminders.Create("Change furnace filter", "3 month filter", due, recurrence.Quarterly, model.CategoryMaintenance, model.PriorityMedium, 10, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Completed {
		t.Error("new reminder should not be completed")
	}
	if r.Recurrence != string(recurrence.Quarterly) {
		t.Errorf("got recurrence %q, want %q", r.Recurrence, recurrence.Quarterly)
	}

	list, err := reminders.List(false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d reminders, want 1", len(list))
	}
}

func TestReminderCompleteNonRecurring(t *testing.T) {
	db := setupTestDB(t)
	reminders := NewReminderStore(db)

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r, err := reminders.Create("Renew passport", "", due, recurrence.None, model.CategoryGeneral, model.PriorityHigh, 5, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	live, err := reminders.Complete(r.ID, now, reminderUpdateFrom(r))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if live.ID != r.ID {
		t.Errorf("got live id %d, want same row %d", live.ID, r.ID)
	}
	if !live.Completed {
		t.Error("expected completed")
	}
	if live.CompletedAt == nil || !live.CompletedAt.Equal(now) {
		t.Errorf("got completed_at %v, want %v", live.CompletedAt, now)
	}

	// No successor row appears for a non-recurring reminder.
	all, err := reminders.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d reminders, want 1", len(all))
	}
}

func TestReminderCompleteRecurringAdvancesFromNow(t *testing.T) {
	db := setupTestDB(t)
	reminders := NewReminderStore(db)

	// A weekly reminder two months overdue. Completing it today schedules
	// the successor a week from today, not a week from the stale due date.
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := reminders.Create("Water the plants", "", due, recurrence.Weekly, model.CategoryGeneral, model.PriorityLow, 5, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	live, err := reminders.Complete(r.ID, now, reminderUpdateFrom(r))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if live.ID == r.ID {
		t.Fatal("expected successor to be a new row")
	}
	if live.Completed {
		t.Error("successor should be pending")
	}
	wantDue := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	if !live.DueDate.Equal(wantDue) {
		t.Errorf("got successor due %v, want %v", live.DueDate, wantDue)
	}

	original, err := reminders.GetByID(r.ID)
	if err != nil {
		t.Fatalf("GetByID original: %v", err)
	}
	if !original.Completed {
		t.Error("original should be completed")
	}
	if original.CompletedAt == nil || !original.CompletedAt.Equal(now) {
		t.Errorf("got original completed_at %v, want %v", original.CompletedAt, now)
	}
}

func TestReminderCompleteCopiesFields(t *testing.T) {
	db := setupTestDB(t)
	members := NewMemberStore(db)
	reminders := NewReminderStore(db)

	m, err := members.Create("Asha", "", "#ff8800", "")
	if err != nil {
		t.Fatalf("Create member: %v", err)
	}

	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	r, err := reminders.Create("Mow the lawn", "front and back", due, recurrence.Biweekly, model.CategoryMaintenance, model.PriorityMedium, 15, &m.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	u := reminderUpdateFrom(r)
	u.Description = "front, back, and the strip by the fence"
	live, err := reminders.Complete(r.ID, now, u)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if live.Description != u.Description {
		t.Errorf("got description %q, want caller's edit carried to successor", live.Description)
	}
	if live.AssigneeID == nil || *live.AssigneeID != m.ID {
		t.Errorf("got assignee %v, want %d", live.AssigneeID, m.ID)
	}
	if live.Points != 15 {
		t.Errorf("got points %d, want 15", live.Points)
	}
}

func TestReminderReopen(t *testing.T) {
	db := setupTestDB(t)
	reminders := NewReminderStore(db)

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r, err := reminders.Create("Clean gutters", "", due, recurrence.None, model.CategoryMaintenance, model.PriorityLow, 5, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	done, err := reminders.Complete(r.ID, now, reminderUpdateFrom(r))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// An edit that keeps completed=true preserves the timestamp.
	u := reminderUpdateFrom(done)
	u.Description = "done with the ladder borrowed from Ben"
	edited, err := reminders.Update(r.ID, u)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !edited.Completed {
		t.Error("edit should not re-open the reminder")
	}
	if edited.CompletedAt == nil || !edited.CompletedAt.Equal(now) {
		t.Errorf("got completed_at %v, want %v preserved", edited.CompletedAt, now)
	}

	// Flipping completed back to false re-opens and clears the timestamp.
	u.Completed = false
	reopened, err := reminders.Update(r.ID, u)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if reopened.Completed {
		t.Error("reminder should be pending after re-open")
	}
	if reopened.CompletedAt != nil {
		t.Errorf("got completed_at %v, want nil after re-open", reopened.CompletedAt)
	}
}

func TestReminderCompleteMissing(t *testing.T) {
	db := setupTestDB(t)
	reminders := NewReminderStore(db)

	live, err := reminders.Complete(42, time.Now(), ReminderUpdate{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if live != nil {
		t.Errorf("got %+v, want nil for missing reminder", live)
	}
}

func TestReminderListDueBefore(t *testing.T) {
	db := setupTestDB(t)
	reminders := NewReminderStore(db)

	early := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if _, err := reminders.Create("Early", "", early, recurrence.None, model.CategoryGeneral, model.PriorityLow, 5, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := reminders.Create("Late", "", late, recurrence.None, model.CategoryGeneral, model.PriorityLow, 5, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	due, err := reminders.ListDueBefore(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListDueBefore: %v", err)
	}
	if len(due) != 1 || due[0].Title != "Early" {
		t.Errorf("got %+v, want only the early reminder", due)
	}
}

func TestReminderLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	members := NewMemberStore(db)
	reminders := NewReminderStore(db)

	asha, err := members.Create("Asha", "", "#ff8800", "")
	if err != nil {
		t.Fatalf("Create member: %v", err)
	}
	ben, err := members.Create("Ben", "", "#0088ff", "")
	if err != nil {
		t.Fatalf("Create member: %v", err)
	}

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		title    string
		points   int
		assignee *int64
	}{
		{"Dishes", 5, &asha.ID},
		{"Laundry", 10, &asha.ID},
		{"Trash", 5, &ben.ID},
	} {
		r, err := reminders.Create(tc.title, "", due, recurrence.None, model.CategoryGeneral, model.PriorityLow, tc.points, tc.assignee)
		if err != nil {
			t.Fatalf("Create %s: %v", tc.title, err)
		}
		if _, err := reminders.Complete(r.ID, now, reminderUpdateFrom(r)); err != nil {
			t.Fatalf("Complete %s: %v", tc.title, err)
		}
	}
	// Pending reminders stay off the board.
	if _, err := reminders.Create("Unfinished", "", due, recurrence.None, model.CategoryGeneral, model.PriorityLow, 100, &ben.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entries, err := reminders.Leaderboard()
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].MemberID == nil || *entries[0].MemberID != asha.ID {
		t.Errorf("got top entry %+v, want Asha", entries[0])
	}
	if entries[0].Points != 15 || entries[0].Count != 2 {
		t.Errorf("got points=%d count=%d, want 15/2", entries[0].Points, entries[0].Count)
	}
}
