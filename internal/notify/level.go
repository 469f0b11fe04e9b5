package notify

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a message severity. Higher is more severe.
type Level int

const (
	Informational Level = 1
	Warning       Level = 2
	Critical      Level = 3
)

func (l Level) String() string {
	switch l {
	case Informational:
		return "informational"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Meets reports whether a message at level l reaches threshold.
func (l Level) Meets(threshold Level) bool { return l >= threshold }

// ParseLevel accepts a level name or a plain integer.
func ParseLevel(raw string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "info", "informational", "ok":
		return Informational, nil
	case "warn", "warning", "smthwrong":
		return Warning, nil
	case "critical", "problem":
		return Critical, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid level %q (use info, warning, critical or an integer)", raw)
	}
	return Level(n), nil
}
