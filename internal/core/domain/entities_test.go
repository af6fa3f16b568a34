package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{From: day(2025, 3, 1), To: day(2025, 3, 31)}

	assert.True(t, r.Contains(day(2025, 3, 1)))
	assert.True(t, r.Contains(day(2025, 3, 31)))
	assert.True(t, r.Contains(day(2025, 3, 15)))
	assert.False(t, r.Contains(day(2025, 2, 28)))
	assert.False(t, r.Contains(day(2025, 4, 1)))

	// Time of day never matters, only the calendar date.
	lateClosing := day(2025, 3, 31).Add(23*time.Hour + 59*time.Minute)
	assert.True(t, r.Contains(lateClosing))
}

func TestDateRangeContainsMixedZones(t *testing.T) {
	// Dates are stored in UTC; a caller clock in another zone must not shift
	// the inclusive boundary.
	r := DateRange{From: day(2025, 3, 1), To: day(2025, 3, 31)}

	sgt := time.FixedZone("SGT", 8*60*60)
	est := time.FixedZone("EST", -5*60*60)

	// Both wall clocks read April 1 in Singapore, but only the second has
	// crossed into April 1 UTC.
	assert.True(t, r.Contains(time.Date(2025, 4, 1, 6, 0, 0, 0, sgt)))
	assert.False(t, r.Contains(time.Date(2025, 4, 1, 9, 0, 0, 0, sgt)))

	// Late February in New York is already March 1 UTC.
	assert.True(t, r.Contains(time.Date(2025, 2, 28, 20, 0, 0, 0, est)))
	assert.False(t, r.Contains(time.Date(2025, 2, 28, 18, 0, 0, 0, est)))
}

func TestDateRangeOverlaps(t *testing.T) {
	march := DateRange{From: day(2025, 3, 1), To: day(2025, 3, 31)}

	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"fully inside", DateRange{From: day(2025, 3, 10), To: day(2025, 3, 20)}, true},
		{"straddles the start", DateRange{From: day(2025, 2, 20), To: day(2025, 3, 5)}, true},
		{"shares a single day", DateRange{From: day(2025, 3, 31), To: day(2025, 4, 30)}, true},
		{"adjacent but disjoint", DateRange{From: day(2025, 4, 1), To: day(2025, 4, 30)}, false},
		{"entirely before", DateRange{From: day(2025, 1, 1), To: day(2025, 1, 31)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, march.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(march))
		})
	}
}

func TestRoleCanApply(t *testing.T) {
	assert.True(t, RoleApplicant.CanApply())
	assert.True(t, RoleOfficer.CanApply())
	assert.False(t, RoleManager.CanApply())
}

func TestApplicationStatusTerminal(t *testing.T) {
	assert.True(t, ApplicationUnsuccessful.Terminal())
	assert.False(t, ApplicationPending.Terminal())
	assert.False(t, ApplicationSuccessful.Terminal())
	assert.False(t, ApplicationBooked.Terminal())
}

func TestFlatTypeValid(t *testing.T) {
	assert.True(t, TwoRoom.Valid())
	assert.True(t, ThreeRoom.Valid())
	assert.False(t, FlatType("FOUR_ROOM").Valid())
	assert.False(t, FlatType("").Valid())
}
