package store

import (
	"database/sql"
	"fmt"

	"github.com/eco-abhi/hearth/internal/model"
)

type ExerciseStore struct {
	db *sql.DB
}

func NewExerciseStore(db *sql.DB) *ExerciseStore {
	return &ExerciseStore{db: db}
}

// --- Template methods ---

const templateCols = `id, member_id, name, body_part, sets, reps, weight, duration_minutes, notes, link, created_at, updated_at`

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.ExerciseTemplate, error) {
	var t model.ExerciseTemplate
	var sets, reps, duration sql.NullInt64
	var weight sql.NullFloat64

	err := scanner.Scan(
		&t.ID, &t.MemberID, &t.Name, &t.BodyPart, &sets, &reps, &weight,
		&duration, &t.Notes, &t.Link, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sets.Valid {
		v := int(sets.Int64)
		t.Sets = &v
	}
	if reps.Valid {
		v := int(reps.Int64)
		t.Reps = &v
	}
	if weight.Valid {
		t.Weight = &weight.Float64
	}
	if duration.Valid {
		v := int(duration.Int64)
		t.DurationMinutes = &v
	}
	return &t, nil
}

// TemplateFields carries the mutable attributes of a template.
type TemplateFields struct {
	Name            string
	BodyPart        model.BodyPart
	Sets            *int
	Reps            *int
	Weight          *float64
	DurationMinutes *int
	Notes           string
	Link            string
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func (s *ExerciseStore) CreateTemplate(memberID int64, f TemplateFields) (*model.ExerciseTemplate, error) {
	result, err := s.db.Exec(
		`INSERT INTO exercise_templates (member_id, name, body_part, sets, reps, weight, duration_minutes, notes, link) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		memberID, f.Name, string(f.BodyPart), nullInt(f.Sets), nullInt(f.Reps), nullFloat(f.Weight), nullInt(f.DurationMinutes), f.Notes, f.Link,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetTemplateByID(id)
}

func (s *ExerciseStore) GetTemplateByID(id int64) (*model.ExerciseTemplate, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM exercise_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// FindTemplates returns every template matching the (member, name, body part)
// triple. Duplicates are possible: the planner never enforced uniqueness.
func (s *ExerciseStore) FindTemplates(memberID int64, name string, bodyPart model.BodyPart) ([]model.ExerciseTemplate, error) {
	rows, err := s.db.Query(
		`SELECT `+templateCols+` FROM exercise_templates WHERE member_id = ? AND name = ? AND body_part = ?`,
		memberID, name, string(bodyPart),
	)
	if err != nil {
		return nil, fmt.Errorf("find templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ExerciseTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *ExerciseStore) UpdateTemplate(id int64, f TemplateFields) (*model.ExerciseTemplate, error) {
	_, err := s.db.Exec(
		`UPDATE exercise_templates SET name = ?, body_part = ?, sets = ?, reps = ?, weight = ?, duration_minutes = ?, notes = ?, link = ? WHERE id = ?`,
		f.Name, string(f.BodyPart), nullInt(f.Sets), nullInt(f.Reps), nullFloat(f.Weight), nullInt(f.DurationMinutes), f.Notes, f.Link, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetTemplateByID(id)
}

// DeleteTemplate removes a template and, via cascade, its schedule.
func (s *ExerciseStore) DeleteTemplate(id int64) error {
	_, err := s.db.Exec(`DELETE FROM exercise_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// --- Schedule methods ---

func (s *ExerciseStore) Schedule(templateID int64, dayOfWeek string, sortOrder int) (*model.ScheduledExercise, error) {
	result, err := s.db.Exec(
		`INSERT INTO scheduled_exercises (template_id, day_of_week, sort_order) VALUES (?, ?, ?)`,
		templateID, dayOfWeek, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getScheduleByID(id)
}

func (s *ExerciseStore) getScheduleByID(id int64) (*model.ScheduledExercise, error) {
	var se model.ScheduledExercise
	var completed int
	err := s.db.QueryRow(
		`SELECT id, template_id, day_of_week, completed, sort_order, created_at FROM scheduled_exercises WHERE id = ?`, id,
	).Scan(&se.ID, &se.TemplateID, &se.DayOfWeek, &completed, &se.SortOrder, &se.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	se.Completed = completed != 0
	return &se, nil
}

func (s *ExerciseStore) Unschedule(scheduleID int64) error {
	_, err := s.db.Exec(`DELETE FROM scheduled_exercises WHERE id = ?`, scheduleID)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func (s *ExerciseStore) SetCompleted(scheduleID int64, completed bool) (*model.ScheduledExercise, error) {
	c := 0
	if completed {
		c = 1
	}
	_, err := s.db.Exec(`UPDATE scheduled_exercises SET completed = ? WHERE id = ?`, c, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}
	return s.getScheduleByID(scheduleID)
}

// --- Joined views ---

const exerciseJoin = `SELECT t.id, t.member_id, t.name, t.body_part, t.sets, t.reps, t.weight, t.duration_minutes, t.notes, t.link, t.created_at, t.updated_at,
	s.id, s.day_of_week, s.completed, s.sort_order
	FROM exercise_templates t`

func scanExercise(scanner interface{ Scan(...any) error }) (*model.Exercise, error) {
	var e model.Exercise
	var sets, reps, duration sql.NullInt64
	var weight sql.NullFloat64
	var schedID sql.NullInt64
	var day sql.NullString
	var completed sql.NullInt64
	var sortOrder sql.NullInt64

	err := scanner.Scan(
		&e.ID, &e.MemberID, &e.Name, &e.BodyPart, &sets, &reps, &weight,
		&duration, &e.Notes, &e.Link, &e.CreatedAt, &e.UpdatedAt,
		&schedID, &day, &completed, &sortOrder,
	)
	if err != nil {
		return nil, err
	}

	if sets.Valid {
		v := int(sets.Int64)
		e.Sets = &v
	}
	if reps.Valid {
		v := int(reps.Int64)
		e.Reps = &v
	}
	if weight.Valid {
		e.Weight = &weight.Float64
	}
	if duration.Valid {
		v := int(duration.Int64)
		e.DurationMinutes = &v
	}
	if schedID.Valid {
		e.ScheduleID = &schedID.Int64
		e.DayOfWeek = day.String
		e.Completed = completed.Int64 != 0
		e.SortOrder = int(sortOrder.Int64)
	}
	return &e, nil
}

// ListByMember returns the member's exercises: one row per scheduled
// instance, plus one unscheduled row per library template.
func (s *ExerciseStore) ListByMember(memberID int64) ([]model.Exercise, error) {
	rows, err := s.db.Query(
		exerciseJoin+` LEFT JOIN scheduled_exercises s ON s.template_id = t.id
		 WHERE t.member_id = ?
		 ORDER BY s.day_of_week ASC, s.sort_order ASC, t.name ASC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []model.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, *e)
	}
	return exercises, rows.Err()
}

// ListByMemberDay returns the member's exercises scheduled on a day.
func (s *ExerciseStore) ListByMemberDay(memberID int64, dayOfWeek string) ([]model.Exercise, error) {
	rows, err := s.db.Query(
		exerciseJoin+` JOIN scheduled_exercises s ON s.template_id = t.id
		 WHERE t.member_id = ? AND s.day_of_week = ?
		 ORDER BY s.sort_order ASC, t.name ASC`,
		memberID, dayOfWeek,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises by day: %w", err)
	}
	defer rows.Close()

	var exercises []model.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, *e)
	}
	return exercises, rows.Err()
}

// ListLibrary returns the member's templates with no scheduled instance.
func (s *ExerciseStore) ListLibrary(memberID int64) ([]model.ExerciseTemplate, error) {
	rows, err := s.db.Query(
		`SELECT `+templateCols+` FROM exercise_templates
		 WHERE member_id = ? AND id NOT IN (SELECT template_id FROM scheduled_exercises)
		 ORDER BY name ASC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	defer rows.Close()

	var templates []model.ExerciseTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// --- Bulk operations ---

// BulkUpdate applies the field update to every template matching the
// (member, name, body part) triple and returns how many were modified.
// Scheduled instances follow their template, so the edit shows up on every
// day the exercise appears, including the library copy.
func (s *ExerciseStore) BulkUpdate(memberID int64, name string, bodyPart model.BodyPart, f TemplateFields) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE exercise_templates SET name = ?, body_part = ?, sets = ?, reps = ?, weight = ?, duration_minutes = ?, notes = ?, link = ?
		 WHERE member_id = ? AND name = ? AND body_part = ?`,
		f.Name, string(f.BodyPart), nullInt(f.Sets), nullInt(f.Reps), nullFloat(f.Weight), nullInt(f.DurationMinutes), f.Notes, f.Link,
		memberID, name, string(bodyPart),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk update: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// BulkDelete removes every template matching the triple, cascading their
// scheduled instances. Deleting an already-empty match set is not an error;
// the count is simply zero.
func (s *ExerciseStore) BulkDelete(memberID int64, name string, bodyPart model.BodyPart) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM exercise_templates WHERE member_id = ? AND name = ? AND body_part = ?`,
		memberID, name, string(bodyPart),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
