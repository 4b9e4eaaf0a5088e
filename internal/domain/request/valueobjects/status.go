package valueobjects

import "fmt"

type Status int

const (
	StatusPending    Status = 1
	StatusInProgress Status = 2
	StatusResolved   Status = 3
)

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
}

func (s Status) Int() int {
	return int(s)
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

func (s Status) IsInProgress() bool {
	return s == StatusInProgress
}

func (s Status) IsResolved() bool {
	return s == StatusResolved
}

func NewStatus(code int) (Status, error) {
	s := Status(code)
	if !s.IsValid() {
		return 0, fmt.Errorf("invalid status code: %d", code)
	}
	return s, nil
}

// StatusFromCode converts a nullable status code. A nil code means the
// backend has not assigned a status yet and is treated as pending.
func StatusFromCode(code *int) Status {
	if code == nil {
		return StatusPending
	}
	return Status(*code)
}

// StatusLabelForCode renders a nullable status code as a display label.
func StatusLabelForCode(code *int) string {
	return StatusFromCode(code).Label()
}
