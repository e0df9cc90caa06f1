package reminder

import (
	"encoding/json"
	"sort"
	"time"
)

// TodayLabel is the label of the group whose date equals the reference date.
const TodayLabel = "Today"

// LabelLayout formats every other group date.
const LabelLayout = "Mon, 02 Jan 2006"

// DateGroup collects the matches that fall on one calendar date.
type DateGroup struct {
	Date             time.Time
	Label            string
	BirthdayCount    int
	AnniversaryCount int
	Members          []Match
}

// MarshalJSON renders the date as YYYY-MM-DD.
func (g DateGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date             string  `json:"date"`
		Label            string  `json:"label"`
		BirthdayCount    int     `json:"birthday_count"`
		AnniversaryCount int     `json:"anniversary_count"`
		Members          []Match `json:"members"`
	}{
		Date:             g.Date.Format(DateLayout),
		Label:            g.Label,
		BirthdayCount:    g.BirthdayCount,
		AnniversaryCount: g.AnniversaryCount,
		Members:          g.Members,
	})
}

// Group buckets matches by next occurrence date. Groups come out in ascending date
// order; members keep the order they were received in.
func Group(matches []Match, reference time.Time) []DateGroup {
	ref := DateOf(reference)
	groups := []DateGroup{}
	index := make(map[time.Time]int)

	for _, m := range matches {
		day := DateOf(m.NextOccurrence)
		i, ok := index[day]
		if !ok {
			label := day.Format(LabelLayout)
			if day.Equal(ref) {
				label = TodayLabel
			}
			groups = append(groups, DateGroup{Date: day, Label: label, Members: []Match{}})
			i = len(groups) - 1
			index[day] = i
		}

		g := &groups[i]
		g.Members = append(g.Members, m)
		switch m.Kind {
		case KindBirthday:
			g.BirthdayCount++
		case KindAnniversary:
			g.AnniversaryCount++
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}

// Count returns how many matches are birthdays and how many are anniversaries.
func Count(matches []Match) (birthdays, anniversaries int) {
	for _, m := range matches {
		switch m.Kind {
		case KindBirthday:
			birthdays++
		case KindAnniversary:
			anniversaries++
		}
	}
	return birthdays, anniversaries
}
