package types

import "fmt"

// Priority levels for tasks.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// validPriorities is the set of recognized priority values.
var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// ParsePriority validates a priority string.
// Returns ErrInvalidPriority for anything outside the closed set.
func ParsePriority(s string) (string, error) {
	if !validPriorities[s] {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return s, nil
}
