package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVoter    Role = "voter"
	RoleReadOnly Role = "readonly"
)

type Member struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email,omitempty"`
	ChurchID          uuid.UUID  `json:"church_id"`
	ChurchName        string     `json:"church_name"`
	Role              Role       `json:"role"`
	Approved          bool       `json:"approved"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	BaptismDate       *time.Time `json:"baptism_date,omitempty"`
	RecurringTithe    bool       `json:"recurring_tithe"`
	RecurringOffering bool       `json:"recurring_offering"`
	Attendance        int        `json:"attendance"`
	Engagement        string     `json:"engagement"`
	Classification    string     `json:"classification"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Age computes the member's age in full years at the given instant.
// Members without a birth date have age 0.
func (m *Member) Age(at time.Time) int {
	if m.BirthDate == nil {
		return 0
	}
	years := at.Year() - m.BirthDate.Year()
	anniversary := m.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// MonthsInChurch is the tenure in full months since the member record was
// created.
func (m *Member) MonthsInChurch(at time.Time) int {
	if m.CreatedAt.IsZero() || m.CreatedAt.After(at) {
		return 0
	}
	months := int(at.Month()) - int(m.CreatedAt.Month()) + 12*(at.Year()-m.CreatedAt.Year())
	if at.Day() < m.CreatedAt.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// YearsBaptized is the number of full years since baptism, 0 when unknown.
func (m *Member) YearsBaptized(at time.Time) int {
	if m.BaptismDate == nil {
		return 0
	}
	years := at.Year() - m.BaptismDate.Year()
	anniversary := m.BaptismDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
