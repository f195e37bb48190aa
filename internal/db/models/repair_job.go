package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Field names for the repair job model
const (
	// RepairJobStatusField is the column holding the job status
	RepairJobStatusField = "status"
	// RepairJobCompletedAtField is the column holding the end timestamp
	RepairJobCompletedAtField = "completed_at"
	// RepairJobMotorcycleIDField is the foreign key to the motorcycle
	RepairJobMotorcycleIDField = "motorcycle_id"
)

// RepairJobStatus represents the current state of a repair job
type RepairJobStatus string

// Repair job status constants
const (
	// RepairJobStatusPending is the initial state of every job
	RepairJobStatusPending RepairJobStatus = "PENDING"
	// RepairJobStatusInRepair means a mechanic is working on the motorcycle
	RepairJobStatusInRepair RepairJobStatus = "IN_REPAIR"
	// RepairJobStatusWaitingForParts means work is blocked on parts
	RepairJobStatusWaitingForParts RepairJobStatus = "WAITING_FOR_PARTS"
	// RepairJobStatusReadyForPickup means work is done and the customer can collect
	RepairJobStatusReadyForPickup RepairJobStatus = "READY_FOR_PICKUP"
	// RepairJobStatusCompleted means the customer collected the motorcycle
	RepairJobStatusCompleted RepairJobStatus = "COMPLETED"
	// RepairJobStatusCancelled means the job was abandoned
	RepairJobStatusCancelled RepairJobStatus = "CANCELLED"
)

// RepairJobStatuses lists every status in workflow order
var RepairJobStatuses = []RepairJobStatus{
	RepairJobStatusPending,
	RepairJobStatusInRepair,
	RepairJobStatusWaitingForParts,
	RepairJobStatusReadyForPickup,
	RepairJobStatusCompleted,
	RepairJobStatusCancelled,
}

// ClosedRepairJobStatuses are the statuses shown in the history view
var ClosedRepairJobStatuses = []RepairJobStatus{
	RepairJobStatusCompleted,
	RepairJobStatusCancelled,
}

// ParseRepairJobStatus converts a string to a RepairJobStatus. Matching ignores case
// and accepts dashes or spaces in place of underscores.
func ParseRepairJobStatus(str string) (RepairJobStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(str))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for _, status := range RepairJobStatuses {
		if string(status) == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid repair job status: %s", str)
}

// String returns the string representation of the status
func (s RepairJobStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s RepairJobStatus) IsValid() bool {
	for _, status := range RepairJobStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler for RepairJobStatus
func (s *RepairJobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseRepairJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// RepairJob is one repair engagement for one motorcycle
type RepairJob struct {
	Base
	MotorcycleID        string          `json:"motorcycle_id" gorm:"type:varchar(36);not null;index"`
	Motorcycle          *Motorcycle     `json:"motorcycle,omitempty"`
	Status              RepairJobStatus `json:"status" gorm:"type:varchar(32);not null;index"`
	Notes               *string         `json:"notes,omitempty" gorm:"type:text"`
	EstimatedCompletion *time.Time      `json:"estimated_completion,omitempty"`
	TotalCost           float64         `json:"total_cost" gorm:"not null;default:0"`
	StartedAt           *time.Time      `json:"started_at,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty" gorm:"index"`
	Services            []Service       `json:"services,omitempty" gorm:"many2many:repair_job_services;"`
}

// RepairJobFilter narrows active job listings
type RepairJobFilter struct {
	Status       *RepairJobStatus `json:"status,omitempty"`
	MotorcycleID string           `json:"motorcycle_id,omitempty"`
}

// RepairJobHistoryFilter narrows the closed job history.
// From and To are inclusive bounds on the completion date.
type RepairJobHistoryFilter struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Search string     `json:"search,omitempty"`
	Order  SortOrder  `json:"order,omitempty"`
}
