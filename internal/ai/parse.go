package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports a model response that was not the JSON we asked for.
// The raw text is kept so handlers can log what actually came back.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// decodeResponse unmarshals a model response into v. Models sometimes wrap
// JSON output in a markdown code fence even in JSON mode, so fences are
// stripped first; anything else malformed is a hard error, never a guess.
func decodeResponse(raw string, v any) error {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}
