package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dp(s string) *time.Time {
	t := d(s)
	return &t
}

func days(t *testing.T, ref string, n int) Window {
	t.Helper()
	w, err := DaysWindow(d(ref), n)
	require.NoError(t, err)
	return w
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name     string
		original string
		from     string
		want     string
	}{
		{"later this year", "1990-06-15", "2024-06-01", "2024-06-15"},
		{"already passed", "1990-06-15", "2024-06-20", "2025-06-15"},
		{"same day", "1990-06-15", "2024-06-15", "2024-06-15"},
		{"year wrap", "1985-01-05", "2024-12-20", "2025-01-05"},
		{"leap day in leap year", "2000-02-29", "2024-01-10", "2024-02-29"},
		{"leap day in non-leap year", "2000-02-29", "2023-01-10", "2023-02-28"},
		{"leap day passed in non-leap year", "2000-02-29", "2023-03-01", "2024-02-29"},
		{"leap day after feb 28", "2000-02-29", "2025-03-01", "2026-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(d(tt.original), d(tt.from))
			assert.Equal(t, d(tt.want), got)
		})
	}
}

func TestFindUpcomingBirthday(t *testing.T) {
	people := []Person{{ID: 1, ClientName: "Asha", BirthDate: dp("1990-06-15")}}

	res := Find(people, days(t, "2024-06-01", 30), KindBoth)

	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	assert.Equal(t, d("2024-06-15"), m.NextOccurrence)
	assert.Equal(t, 14, m.DaysUntil)
	require.NotNil(t, m.AgeAtNext)
	assert.Equal(t, 34, *m.AgeAtNext)
	assert.Nil(t, m.YearsAtNext)
	assert.Equal(t, KindBirthday, m.Kind)
}

func TestFindPassedBirthdayRollsToNextYear(t *testing.T) {
	people := []Person{{ID: 1, ClientName: "Asha", BirthDate: dp("1990-06-15")}}

	res := Find(people, days(t, "2024-06-20", 366), KindBirthday)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, d("2025-06-15"), res.Matches[0].NextOccurrence)
	assert.Equal(t, 360, res.Matches[0].DaysUntil)
	assert.Equal(t, 35, *res.Matches[0].AgeAtNext)
}

func TestFindWindowUpperBoundIsInclusive(t *testing.T) {
	people := []Person{
		{ID: 1, ClientName: "Edge", BirthDate: dp("1980-06-11")},
		{ID: 2, ClientName: "Past", BirthDate: dp("1980-06-12")},
	}

	res := Find(people, days(t, "2024-06-01", 10), KindBirthday)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, uint(1), res.Matches[0].ClientID)
	assert.Equal(t, 10, res.Matches[0].DaysUntil)
}

func TestFindNullDatesExcluded(t *testing.T) {
	people := []Person{
		{ID: 1, ClientName: "Nobody"},
		{ID: 2, ClientName: "Only anniversary", AnniversaryDate: dp("2010-06-02")},
	}
	w := days(t, "2024-06-01", 30)

	for _, kind := range []Kind{KindBoth, KindBirthday, KindAnniversary} {
		t.Run(string(kind), func(t *testing.T) {
			res := Find(people, w, kind)
			for _, m := range res.Matches {
				assert.NotEqual(t, uint(1), m.ClientID)
			}
			assert.Empty(t, res.Skipped)
		})
	}

	assert.Empty(t, Find(people, w, KindBirthday).Matches)
}

func TestFindTypeFilter(t *testing.T) {
	people := []Person{{ID: 1, ClientName: "Both", BirthDate: dp("1990-06-05"), AnniversaryDate: dp("2015-06-05")}}
	w := days(t, "2024-06-01", 7)

	both := Find(people, w, KindBoth)
	require.Len(t, both.Matches, 2)
	assert.Equal(t, KindBirthday, both.Matches[0].Kind)
	assert.Equal(t, KindAnniversary, both.Matches[1].Kind)
	assert.Equal(t, 9, *both.Matches[1].YearsAtNext)
	assert.Nil(t, both.Matches[1].AgeAtNext)

	onlyAnniv := Find(people, w, KindAnniversary)
	require.Len(t, onlyAnniv.Matches, 1)
	assert.Equal(t, KindAnniversary, onlyAnniv.Matches[0].Kind)
}

func TestFindTodayMode(t *testing.T) {
	people := []Person{
		{ID: 1, ClientName: "Today", BirthDate: dp("1970-06-01")},
		{ID: 2, ClientName: "Tomorrow", BirthDate: dp("1970-06-02")},
		{ID: 3, ClientName: "Anniv today", AnniversaryDate: dp("2001-06-01")},
	}
	zero := days(t, "2024-06-01", 0)

	for name, w := range map[string]Window{"today window": TodayWindow(d("2024-06-01")), "zero days": zero} {
		t.Run(name, func(t *testing.T) {
			res := Find(people, w, KindBoth)
			require.Len(t, res.Matches, 2)
			for _, m := range res.Matches {
				assert.Equal(t, 0, m.DaysUntil)
				assert.Equal(t, d("2024-06-01"), m.NextOccurrence)
			}
		})
	}
}

func TestFindYearWrapAround(t *testing.T) {
	people := []Person{{ID: 1, ClientName: "January", BirthDate: dp("1985-01-05")}}

	res := Find(people, days(t, "2024-12-20", 30), KindBirthday)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, d("2025-01-05"), res.Matches[0].NextOccurrence)
	assert.Equal(t, 16, res.Matches[0].DaysUntil)
	assert.Equal(t, 40, *res.Matches[0].AgeAtNext)
}

func TestFindRangeUsesMonthDay(t *testing.T) {
	w, err := RangeWindow(d("2024-06-10"), d("2024-06-10"), d("2024-06-20"))
	require.NoError(t, err)
	people := []Person{
		{ID: 1, ClientName: "In", BirthDate: dp("1990-06-15")},
		{ID: 2, ClientName: "Out", BirthDate: dp("1990-06-21")},
	}

	res := Find(people, w, KindBoth)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, d("2024-06-15"), res.Matches[0].NextOccurrence)
	assert.Equal(t, 5, res.Matches[0].DaysUntil)
}

func TestFindRangeMeasuresFromReference(t *testing.T) {
	w, err := RangeWindow(d("2024-06-01"), d("2024-12-25"), d("2025-01-05"))
	require.NoError(t, err)
	people := []Person{{ID: 1, ClientName: "Winter", BirthDate: dp("1975-12-25")}}

	res := Find(people, w, KindBoth)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, d("2024-12-25"), res.Matches[0].NextOccurrence)
	assert.Equal(t, 207, res.Matches[0].DaysUntil)
	assert.Equal(t, 49, *res.Matches[0].AgeAtNext)

	groups := Group(res.Matches, w.Reference)
	require.Len(t, groups, 1)
	assert.Equal(t, d("2024-12-25"), groups[0].Date)
	assert.NotEqual(t, TodayLabel, groups[0].Label)
}

func TestFindRangeInThePast(t *testing.T) {
	w, err := RangeWindow(d("2024-06-01"), d("2024-05-20"), d("2024-05-31"))
	require.NoError(t, err)
	people := []Person{{ID: 1, ClientName: "Past", AnniversaryDate: dp("2010-05-25")}}

	res := Find(people, w, KindAnniversary)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, -7, res.Matches[0].DaysUntil)
	assert.Equal(t, 14, *res.Matches[0].YearsAtNext)
}

func TestFindLeapDayInNonLeapYear(t *testing.T) {
	people := []Person{{ID: 1, ClientName: "Leap", BirthDate: dp("2000-02-29")}}

	res := Find(people, days(t, "2023-02-27", 2), KindBirthday)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, d("2023-02-28"), res.Matches[0].NextOccurrence)
	assert.Equal(t, 23, *res.Matches[0].AgeAtNext)
}

func TestFindSkipsInvalidDates(t *testing.T) {
	people := []Person{
		{ID: 1, ClientName: "Zero", BirthDate: &time.Time{}},
		{ID: 2, ClientName: "Future", BirthDate: dp("2030-06-05")},
		{ID: 3, ClientName: "Fine", BirthDate: dp("1990-06-05")},
	}

	res := Find(people, days(t, "2024-06-01", 30), KindBoth)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, uint(3), res.Matches[0].ClientID)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, uint(1), res.Skipped[0].ClientID)
	assert.Equal(t, uint(2), res.Skipped[1].ClientID)
}

func TestFindOrdering(t *testing.T) {
	people := []Person{
		{ID: 4, ClientName: "Zed", BirthDate: dp("1990-06-03")},
		{ID: 3, ClientName: "Amy", AnniversaryDate: dp("2000-06-03")},
		{ID: 2, ClientName: "Bob", BirthDate: dp("1990-06-03")},
		{ID: 1, ClientName: "Cat", BirthDate: dp("1990-06-02")},
	}

	res := Find(people, days(t, "2024-06-01", 5), KindBoth)

	var ids []uint
	for _, m := range res.Matches {
		ids = append(ids, m.ClientID)
	}
	assert.Equal(t, []uint{1, 2, 4, 3}, ids)
}

func TestMatchJSON(t *testing.T) {
	age := 34
	m := Match{ClientID: 7, ClientName: "Asha", Kind: KindBirthday, OriginalDate: d("1990-06-15"), NextOccurrence: d("2024-06-15"), DaysUntil: 14, AgeAtNext: &age}

	b, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"client_id":7,"client_name":"Asha","contact":"","type":"birthday","original_date":"1990-06-15","next_occurrence_date":"2024-06-15","days_until":14,"age_at_next":34}`, string(b))
}
