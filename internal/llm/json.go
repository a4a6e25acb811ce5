package llm

import (
	"errors"
	"strings"
)

// ErrNoJSONObject reports that the completion text contains no JSON object.
var ErrNoJSONObject = errors.New("no JSON object in model output")

// ExtractJSONObject returns the outermost {...} span of raw model output.
// Models occasionally wrap the object in prose or a markdown fence even when
// asked for JSON; everything outside the braces is discarded.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", ErrNoJSONObject
	}
	return raw[start : end+1], nil
}
