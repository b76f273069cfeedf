package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/recurrence"
)

type ReminderStore struct {
	db *sql.DB
}

func NewReminderStore(db *sql.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

const reminderCols = `id, title, description, due_date, completed, completed_at, recurrence, category, priority, points, assignee_id, created_at, updated_at`

func scanReminder(scanner interface{ Scan(...any) error }) (*model.Reminder, error) {
	var r model.Reminder
	var completed int
	var completedAt sql.NullTime
	var assignee sql.NullInt64

	err := scanner.Scan(
		&r.ID, &r.Title, &r.Description, &r.DueDate, &completed, &completedAt,
		&r.Recurrence, &r.Category, &r.Priority, &r.Points, &assignee,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Completed = completed != 0
	if completedAt.Valid {
		r.CompletedAt = &completedAt.Time
	}
	if assignee.Valid {
		r.AssigneeID = &assignee.Int64
	}
	return &r, nil
}

func (s *ReminderStore) Create(title, description string, dueDate time.Time, rec recurrence.Interval, category model.ReminderCategory, priority model.ReminderPriority, points int, assigneeID *int64) (*model.Reminder, error) {
	var aID sql.NullInt64
	if assigneeID != nil {
		aID = sql.NullInt64{Int64: *assigneeID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO reminders (title, description, due_date, recurrence, category, priority, points, assignee_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title, description, dueDate.UTC(), string(rec), string(category), string(priority), points, aID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ReminderStore) GetByID(id int64) (*model.Reminder, error) {
	row := s.db.QueryRow(`SELECT `+reminderCols+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

// List returns reminders, pending first, ordered by due date.
func (s *ReminderStore) List(includeCompleted bool) ([]model.Reminder, error) {
	query := `SELECT ` + reminderCols + ` FROM reminders`
	if !includeCompleted {
		query += ` WHERE completed = 0`
	}
	query += ` ORDER BY completed ASC, due_date ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// ListDueBefore returns pending reminders whose due date is before cutoff.
func (s *ReminderStore) ListDueBefore(cutoff time.Time) ([]model.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT `+reminderCols+` FROM reminders WHERE completed = 0 AND due_date < ? ORDER BY due_date ASC`,
		cutoff.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// ReminderUpdate carries the caller-supplied field changes for Update and
// Complete. AssigneeID nil means "leave unassigned".
type ReminderUpdate struct {
	Title       string
	Description string
	DueDate     time.Time
	Completed   bool
	Recurrence  recurrence.Interval
	Category    model.ReminderCategory
	Priority    model.ReminderPriority
	Points      int
	AssigneeID  *int64
}

// Update applies a plain field update. Completed false re-opens the reminder
// and clears completed_at; Completed true keeps the existing timestamp. New
// completions go through Complete, which stamps it.
func (s *ReminderStore) Update(id int64, u ReminderUpdate) (*model.Reminder, error) {
	var aID sql.NullInt64
	if u.AssigneeID != nil {
		aID = sql.NullInt64{Int64: *u.AssigneeID, Valid: true}
	}
	c := 0
	if u.Completed {
		c = 1
	}

	_, err := s.db.Exec(
		`UPDATE reminders SET title = ?, description = ?, due_date = ?, completed = ?, completed_at = CASE WHEN ? = 1 THEN completed_at ELSE NULL END, recurrence = ?, category = ?, priority = ?, points = ?, assignee_id = ? WHERE id = ?`,
		u.Title, u.Description, u.DueDate.UTC(), c, c, string(u.Recurrence), string(u.Category), string(u.Priority), u.Points, aID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}
	return s.GetByID(id)
}

// Complete marks the reminder done as of now, applying any caller-supplied
// field changes at the same time. When the reminder has a repeating
// recurrence a successor row is created with its due date advanced from now
// (not from the stale due date) and the descriptive fields copied; the
// successor is returned as the live reminder. Both writes happen in one
// transaction so a crash can never leave a completed reminder without its
// next occurrence.
//
// For non-recurring reminders the same row is updated and returned.
func (s *ReminderStore) Complete(id int64, now time.Time, u ReminderUpdate) (*model.Reminder, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	now = now.UTC()

	var aID sql.NullInt64
	if u.AssigneeID != nil {
		aID = sql.NullInt64{Int64: *u.AssigneeID, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE reminders SET title = ?, description = ?, due_date = ?, completed = 1, completed_at = ?, recurrence = ?, category = ?, priority = ?, points = ?, assignee_id = ? WHERE id = ?`,
		u.Title, u.Description, u.DueDate.UTC(), now, string(u.Recurrence), string(u.Category), string(u.Priority), u.Points, aID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("complete reminder: %w", err)
	}

	liveID := id
	rec := recurrence.Interval(existing.Recurrence)
	if rec.Repeats() {
		nextDue, err := recurrence.Next(now, rec)
		if err != nil {
			return nil, fmt.Errorf("advance recurrence: %w", err)
		}

		result, err := tx.Exec(
			`INSERT INTO reminders (title, description, due_date, recurrence, category, priority, points, assignee_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.Title, u.Description, nextDue, string(u.Recurrence), string(u.Category), string(u.Priority), u.Points, aID,
		)
		if err != nil {
			return nil, fmt.Errorf("insert successor: %w", err)
		}
		liveID, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(liveID)
}

func (s *ReminderStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

// Leaderboard sums the points of completed reminders per assignee.
func (s *ReminderStore) Leaderboard() ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT assignee_id, COALESCE(SUM(points), 0), COUNT(*)
		 FROM reminders WHERE completed = 1
		 GROUP BY assignee_id ORDER BY SUM(points) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var assignee sql.NullInt64
		if err := rows.Scan(&assignee, &e.Points, &e.Count); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		if assignee.Valid {
			e.MemberID = &assignee.Int64
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
