// Package workflow holds the repair job state machine.
//
// The rule table is built once at package initialization and never mutated, so it is
// safe for concurrent reads without synchronization. Lookups depend on the current
// status only.
package workflow

import (
	"time"

	"github.com/motorepair/admin/internal/apperrors"
	"github.com/motorepair/admin/internal/db/models"
)

// Rule describes what a job in a given status may do next
type Rule struct {
	// AllowedTransitions are the statuses reachable from this one
	AllowedTransitions []models.RepairJobStatus
	// CanCancel reports whether a job in this status may be cancelled
	CanCancel bool
	// RequiresConfirmation reports whether leaving this status for its terminal
	// successor needs explicit user confirmation
	RequiresConfirmation bool
	// Description is shown to shop staff
	Description string
}

var rules = map[models.RepairJobStatus]Rule{
	models.RepairJobStatusPending: {
		AllowedTransitions: []models.RepairJobStatus{models.RepairJobStatusInRepair, models.RepairJobStatusCancelled},
		CanCancel:          true,
		Description:        "Job received, waiting for a mechanic",
	},
	models.RepairJobStatusInRepair: {
		AllowedTransitions: []models.RepairJobStatus{
			models.RepairJobStatusWaitingForParts,
			models.RepairJobStatusReadyForPickup,
			models.RepairJobStatusCancelled,
		},
		CanCancel:   true,
		Description: "Motorcycle is being repaired",
	},
	models.RepairJobStatusWaitingForParts: {
		AllowedTransitions: []models.RepairJobStatus{models.RepairJobStatusInRepair, models.RepairJobStatusCancelled},
		CanCancel:          true,
		Description:        "Repair paused until parts arrive",
	},
	models.RepairJobStatusReadyForPickup: {
		AllowedTransitions:   []models.RepairJobStatus{models.RepairJobStatusCompleted},
		RequiresConfirmation: true,
		Description:          "Repair finished, waiting for the customer",
	},
	models.RepairJobStatusCompleted: {
		Description: "Motorcycle delivered to the customer",
	},
	models.RepairJobStatusCancelled: {
		Description: "Job cancelled",
	},
}

// deletable statuses; anything else must be cancelled first
var deletable = map[models.RepairJobStatus]bool{
	models.RepairJobStatusPending:   true,
	models.RepairJobStatusCancelled: true,
}

// InitialStatus is the status every new job starts in
const InitialStatus = models.RepairJobStatusPending

// Lookup returns the rule for status. The returned rule owns a fresh copy of the
// transition slice.
func Lookup(status models.RepairJobStatus) (Rule, bool) {
	rule, ok := rules[status]
	if !ok {
		return Rule{}, false
	}
	rule.AllowedTransitions = append([]models.RepairJobStatus(nil), rule.AllowedTransitions...)
	return rule, true
}

// AllowedTransitions returns the statuses reachable from status
func AllowedTransitions(status models.RepairJobStatus) []models.RepairJobStatus {
	rule, _ := Lookup(status)
	return rule.AllowedTransitions
}

// CanTransition reports whether from -> to is an edge of the workflow
func CanTransition(from, to models.RepairJobStatus) bool {
	for _, allowed := range rules[from].AllowedTransitions {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether a job in status may be cancelled
func CanCancel(status models.RepairJobStatus) bool {
	return rules[status].CanCancel
}

// RequiresConfirmation reports whether the transition out of status needs confirmation
func RequiresConfirmation(status models.RepairJobStatus) bool {
	return rules[status].RequiresConfirmation
}

// IsTerminal reports whether status has no outgoing transitions
func IsTerminal(status models.RepairJobStatus) bool {
	rule, ok := rules[status]
	return ok && len(rule.AllowedTransitions) == 0
}

// IsDeletable reports whether a job in status may be deleted
func IsDeletable(status models.RepairJobStatus) bool {
	return deletable[status]
}

// Transition moves job to target, stamping StartedAt on the first entry into
// IN_REPAIR and CompletedAt on the first entry into COMPLETED. The job is left
// untouched when the edge is not allowed.
func Transition(job *models.RepairJob, target models.RepairJobStatus, now time.Time) error {
	if !target.IsValid() {
		return apperrors.BadRequest("invalid repair job status: %s", target)
	}
	if !CanTransition(job.Status, target) {
		return apperrors.BadRequest("cannot change repair job status from %s to %s", job.Status, target)
	}

	job.Status = target
	switch target {
	case models.RepairJobStatusInRepair:
		if job.StartedAt == nil {
			job.StartedAt = &now
		}
	case models.RepairJobStatusCompleted:
		if job.CompletedAt == nil {
			job.CompletedAt = &now
		}
	}
	return nil
}

// Cancel moves job to CANCELLED when its current status allows it. CompletedAt is
// set as the end marker if it is still empty.
func Cancel(job *models.RepairJob, now time.Time) error {
	if !CanCancel(job.Status) {
		return apperrors.BadRequest("a repair job in status %s cannot be cancelled", job.Status)
	}

	job.Status = models.RepairJobStatusCancelled
	if job.CompletedAt == nil {
		job.CompletedAt = &now
	}
	return nil
}

// CheckDeletable returns a BadRequest error unless job may be deleted
func CheckDeletable(job *models.RepairJob) error {
	if !IsDeletable(job.Status) {
		return apperrors.BadRequest("a repair job in status %s cannot be deleted, only %s or %s jobs can",
			job.Status, models.RepairJobStatusPending, models.RepairJobStatusCancelled)
	}
	return nil
}

// Info is the workflow view of a single job
type Info struct {
	Status               models.RepairJobStatus   `json:"status"`
	Description          string                   `json:"description"`
	AllowedTransitions   []models.RepairJobStatus `json:"allowed_transitions"`
	CanCancel            bool                     `json:"can_cancel"`
	RequiresConfirmation bool                     `json:"requires_confirmation"`
	CanDelete            bool                     `json:"can_delete"`
	IsTerminal           bool                     `json:"is_terminal"`
}

// Describe returns the workflow view of status
func Describe(status models.RepairJobStatus) Info {
	rule, _ := Lookup(status)
	if rule.AllowedTransitions == nil {
		rule.AllowedTransitions = []models.RepairJobStatus{}
	}
	return Info{
		Status:               status,
		Description:          rule.Description,
		AllowedTransitions:   rule.AllowedTransitions,
		CanCancel:            rule.CanCancel,
		RequiresConfirmation: rule.RequiresConfirmation,
		CanDelete:            IsDeletable(status),
		IsTerminal:           IsTerminal(status),
	}
}
