package entity

import "fmt"

type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInReview   ProjectStatus = "in_review"
	StatusApproved   ProjectStatus = "approved"
	StatusRejected   ProjectStatus = "rejected"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []ProjectStatus{
	StatusPending,
	StatusInReview,
	StatusApproved,
	StatusRejected,
	StatusInProgress,
	StatusCompleted,
}

var transitions = map[ProjectStatus][]ProjectStatus{
	StatusPending:    {StatusInReview, StatusApproved, StatusRejected},
	StatusInReview:   {StatusApproved, StatusRejected},
	StatusApproved:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

var statusLabels = map[ProjectStatus]string{
	StatusPending:    "Pending review",
	StatusInReview:   "In review",
	StatusApproved:   "Approved",
	StatusRejected:   "Rejected",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
}

func (s ProjectStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal statuses accept no further transitions.
func (s ProjectStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

func (s ProjectStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// CanTransitionTo reports whether s -> next is a legal lifecycle move.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	From ProjectStatus
	To   ProjectStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move project from %s to %s", e.From, e.To)
}

// Transition returns a *TransitionError when s -> next is not allowed.
func (s ProjectStatus) Transition(next ProjectStatus) error {
	if !next.Valid() || !s.CanTransitionTo(next) {
		return &TransitionError{From: s, To: next}
	}
	return nil
}
