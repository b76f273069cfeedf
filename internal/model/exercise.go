package model

import "time"

// BodyPart categorizes an exercise. The eight values mirror the workout
// planner's category picker.
type BodyPart string

const (
	BodyPartChest     BodyPart = "chest"
	BodyPartBack      BodyPart = "back"
	BodyPartShoulders BodyPart = "shoulders"
	BodyPartArms      BodyPart = "arms"
	BodyPartLegs      BodyPart = "legs"
	BodyPartCore      BodyPart = "core"
	BodyPartCardio    BodyPart = "cardio"
	BodyPartFullBody  BodyPart = "full_body"
)

// ValidBodyPart reports whether s is one of the known body parts.
func ValidBodyPart(s string) bool {
	switch BodyPart(s) {
	case BodyPartChest, BodyPartBack, BodyPartShoulders, BodyPartArms,
		BodyPartLegs, BodyPartCore, BodyPartCardio, BodyPartFullBody:
		return true
	}
	return false
}

// ExerciseTemplate is the member-owned definition of an exercise. A template
// with no scheduled instances acts as a reusable library entry.
type ExerciseTemplate struct {
	ID              int64     `json:"id"`
	MemberID        int64     `json:"member_id"`
	Name            string    `json:"name"`
	BodyPart        BodyPart  `json:"body_part"`
	Sets            *int      `json:"sets"`
	Reps            *int      `json:"reps"`
	Weight          *float64  `json:"weight"`
	DurationMinutes *int      `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
	Link            string    `json:"link,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ScheduledExercise places a template on a specific day of the week.
type ScheduledExercise struct {
	ID         int64     `json:"id"`
	TemplateID int64     `json:"template_id"`
	DayOfWeek  string    `json:"day_of_week"`
	Completed  bool      `json:"completed"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// Exercise is the joined view handed to clients: a template plus, when
// scheduled, its placement. DayOfWeek is empty for library entries.
type Exercise struct {
	ExerciseTemplate
	ScheduleID *int64 `json:"schedule_id"`
	DayOfWeek  string `json:"day_of_week,omitempty"`
	Completed  bool   `json:"completed"`
	SortOrder  int    `json:"sort_order"`
}
