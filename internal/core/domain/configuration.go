package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ConfigStatus string

const (
	ConfigStatusDraft  ConfigStatus = "draft"
	ConfigStatusActive ConfigStatus = "active"
	ConfigStatusPaused ConfigStatus = "paused"
)

const DefaultMaxNominations = 1

// Classification values accepted by the criteria allow-list.
const (
	ClassificationFrequent    = "frequent"
	ClassificationNotFrequent = "not-frequent"
	ClassificationToRecover   = "to-recover"
)

// EligibilityCriteria is the closed set of candidate rules an admin can toggle
// on a configuration. All enabled rules must pass. Zero values disable a rule.
type EligibilityCriteria struct {
	RequireRecurringTithe    bool     `json:"require_recurring_tithe,omitempty"`
	RequireRecurringOffering bool     `json:"require_recurring_offering,omitempty"`
	MinAttendance            int      `json:"min_attendance,omitempty"`
	MinMonthsInChurch        int      `json:"min_months_in_church,omitempty"`
	ExcludeLowEngagement     bool     `json:"exclude_low_engagement,omitempty"`
	ExcludeNotFrequent       bool     `json:"exclude_not_frequent,omitempty"`
	AllowedClassifications   []string `json:"allowed_classifications,omitempty"`
	MinYearsBaptized         int      `json:"min_years_baptized,omitempty"`
	// TeenPositions lists position names restricted to the 10-15 age band.
	// Age-banded positions bypass every other rule.
	TeenPositions []string `json:"teen_positions,omitempty"`
}

func (c EligibilityCriteria) Validate() error {
	if c.MinAttendance < 0 {
		return fmt.Errorf("%w: min_attendance must not be negative", ErrValidation)
	}
	if c.MinMonthsInChurch < 0 {
		return fmt.Errorf("%w: min_months_in_church must not be negative", ErrValidation)
	}
	if c.MinYearsBaptized < 0 {
		return fmt.Errorf("%w: min_years_baptized must not be negative", ErrValidation)
	}
	for _, cl := range c.AllowedClassifications {
		switch cl {
		case ClassificationFrequent, ClassificationNotFrequent, ClassificationToRecover:
		default:
			return fmt.Errorf("%w: unknown classification %q", ErrValidation, cl)
		}
	}
	return nil
}

// IsTeenPosition reports whether the position is age-banded.
func (c EligibilityCriteria) IsTeenPosition(position string) bool {
	for _, p := range c.TeenPositions {
		if p == position {
			return true
		}
	}
	return false
}

// Configuration is the admin-defined campaign template: the positions being
// filled, who may vote and the candidate eligibility rules.
type Configuration struct {
	ID             uuid.UUID           `json:"id"`
	ChurchID       uuid.UUID           `json:"church_id"`
	ChurchName     string              `json:"church_name"`
	Title          string              `json:"title"`
	Positions      []string            `json:"positions"`
	Voters         []uuid.UUID         `json:"voters"`
	Criteria       EligibilityCriteria `json:"criteria"`
	MaxNominations int                 `json:"max_nominations"`
	Status         ConfigStatus        `json:"status"`
	// RemovedCandidates are member ids manually excluded by the admin.
	RemovedCandidates []uuid.UUID `json:"removed_candidates,omitempty"`
	// CurrentLeaders is an advisory cache of announced winners by position.
	// It may be stale and must never be used as a source of truth.
	CurrentLeaders map[string]string `json:"current_leaders,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (c *Configuration) IsVoter(memberID uuid.UUID) bool {
	for _, v := range c.Voters {
		if v == memberID {
			return true
		}
	}
	return false
}

func (c *Configuration) IsRemoved(memberID uuid.UUID) bool {
	for _, r := range c.RemovedCandidates {
		if r == memberID {
			return true
		}
	}
	return false
}

// Position returns the position name at the given index.
func (c *Configuration) Position(index int) (string, error) {
	if index < 0 || index >= len(c.Positions) {
		return "", fmt.Errorf("%w: position index %d out of range", ErrInvalidState, index)
	}
	return c.Positions[index], nil
}
