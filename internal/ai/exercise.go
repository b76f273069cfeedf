package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/eco-abhi/hearth/internal/model"
)

// GeneratedExercise is one entry of a model-produced workout plan.
type GeneratedExercise struct {
	Name            string   `json:"name"`
	BodyPart        string   `json:"body_part"`
	Sets            *int     `json:"sets"`
	Reps            *int     `json:"reps"`
	Weight          *float64 `json:"weight"`
	DurationMinutes *int     `json:"duration_minutes"`
	Notes           string   `json:"notes"`
}

const generateExercisesPrompt = `Design a workout from this request: %q

Respond with a JSON array of exercises, each shaped:
{
  "name": string,
  "body_part": one of [chest, back, shoulders, arms, legs, core, cardio, full_body],
  "sets": integer or null,
  "reps": integer or null,
  "weight": number in pounds or null for bodyweight,
  "duration_minutes": integer or null (for timed work like cardio or planks),
  "notes": short form cue or empty string
}
Respond with JSON only.`

// GenerateExercises asks the model for a workout plan matching the request.
// Exercises with an unrecognized body part fall back to full_body rather
// than being dropped, so the plan keeps its shape.
func (c *Client) GenerateExercises(ctx context.Context, request string) ([]GeneratedExercise, error) {
	raw, err := c.generateJSON(ctx, fmt.Sprintf(generateExercisesPrompt, request))
	if err != nil {
		return nil, err
	}

	var out []GeneratedExercise
	if err := decodeResponse(raw, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("plan has no exercises")}
	}

	for i := range out {
		if strings.TrimSpace(out[i].Name) == "" {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("exercise %d has no name", i)}
		}
		bp := strings.ToLower(strings.TrimSpace(out[i].BodyPart))
		if !model.ValidBodyPart(bp) {
			c.logger.Warn("unknown body part, defaulting", "name", out[i].Name, "body_part", out[i].BodyPart)
			bp = string(model.BodyPartFullBody)
		}
		out[i].BodyPart = bp
	}
	return out, nil
}
