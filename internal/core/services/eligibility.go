package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/nomeacao/api/internal/core/domain"
)

// Age band for teen positions, inclusive.
const (
	teenMinAge = 10
	teenMaxAge = 15
)

// TeenAgeEligible reports whether a computed age falls inside the teen band.
func TeenAgeEligible(age int) bool {
	return age >= teenMinAge && age <= teenMaxAge
}

// EvaluateEligibility decides whether a member may be a candidate for a
// position under the configuration's criteria. The returned reason names the
// first failing rule for auditing; it is empty when the member is eligible.
//
// Age-banded (teen) positions use only the age test and bypass every other
// rule. All other enabled rules must pass. Missing numeric attributes count
// as zero and therefore fail minimums instead of erroring.
func EvaluateEligibility(member *domain.Member, criteria domain.EligibilityCriteria, position string, at time.Time) (bool, string) {
	if criteria.IsTeenPosition(position) {
		if age := member.Age(at); !TeenAgeEligible(age) {
			return false, fmt.Sprintf("age %d outside %d-%d band", age, teenMinAge, teenMaxAge)
		}
		return true, ""
	}

	if criteria.RequireRecurringTithe && !member.RecurringTithe {
		return false, "no recurring tithe"
	}
	if criteria.RequireRecurringOffering && !member.RecurringOffering {
		return false, "no recurring offering"
	}
	if criteria.MinAttendance > 0 && member.Attendance < criteria.MinAttendance {
		return false, fmt.Sprintf("attendance %d below minimum %d", member.Attendance, criteria.MinAttendance)
	}
	if criteria.MinMonthsInChurch > 0 {
		if months := member.MonthsInChurch(at); months < criteria.MinMonthsInChurch {
			return false, fmt.Sprintf("tenure %d months below minimum %d", months, criteria.MinMonthsInChurch)
		}
	}
	if criteria.ExcludeLowEngagement && strings.EqualFold(member.Engagement, "low") {
		return false, "low engagement"
	}
	if criteria.ExcludeNotFrequent && strings.EqualFold(member.Classification, domain.ClassificationNotFrequent) {
		return false, "classified as not frequent"
	}
	if len(criteria.AllowedClassifications) > 0 && !classificationAllowed(member.Classification, criteria.AllowedClassifications) {
		return false, fmt.Sprintf("classification %q not allowed", member.Classification)
	}
	if criteria.MinYearsBaptized > 0 {
		if years := member.YearsBaptized(at); years < criteria.MinYearsBaptized {
			return false, fmt.Sprintf("baptized %d years below minimum %d", years, criteria.MinYearsBaptized)
		}
	}
	return true, ""
}

func classificationAllowed(classification string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(classification, a) {
			return true
		}
	}
	return false
}
