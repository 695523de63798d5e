package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a member materialized for a position of a running election.
// Nominations/Votes are convenience counters kept alongside the action ledger;
// the ledger is authoritative for every tally.
type Candidate struct {
	ID                uuid.UUID  `json:"id"`
	ElectionID        uuid.UUID  `json:"election_id"`
	Position          string     `json:"position"`
	MemberID          uuid.UUID  `json:"member_id"`
	Name              string     `json:"name"`
	ChurchName        string     `json:"church_name"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	Nominations       int        `json:"nominations"`
	Votes             int        `json:"votes"`
	RecurringTithe    bool       `json:"recurring_tithe"`
	RecurringOffering bool       `json:"recurring_offering"`
	Attendance        int        `json:"attendance"`
	MonthsInChurch    int        `json:"months_in_church"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Age mirrors Member.Age for the candidate's eligibility snapshot.
func (c *Candidate) Age(at time.Time) int {
	if c.BirthDate == nil {
		return 0
	}
	years := at.Year() - c.BirthDate.Year()
	anniversary := c.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
