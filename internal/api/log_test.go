package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	input := `time=2026-08-29T09:15:02.074+02:00 level=INFO msg="Lesson switched" lesson=projects session="child-a " longparam=thisvalueiswaytoolongforthefooter`
	expected := "09:15:02 Lesson switched (lesson=projects, session=child-a)"

	result := formatLogLine(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestFormatLogLinePassthrough(t *testing.T) {
	raw := "plain text without structure"
	if got := formatLogLine(raw); got != raw {
		t.Errorf("Expected passthrough, got '%s'", got)
	}
}
