package target

import "fmt"

// Action is the copy direction.
type Action string

const (
	// Push copies from the local machine to the backup root.
	Push Action = "push"
	// Pull copies from the backup root to the local machine.
	Pull Action = "pull"
)

// ParseAction converts an action name. Matching is exact.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case Push:
		return Push, nil
	case Pull:
		return Pull, nil
	default:
		return "", fmt.Errorf("invalid action '%s' — must be one of: push, pull", s)
	}
}

func (a Action) String() string { return string(a) }
