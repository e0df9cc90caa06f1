package reminder

import (
	"encoding/json"
	"sort"
	"time"
)

// Person is the slice of a client record the matcher needs.
type Person struct {
	ID              uint
	ClientName      string
	Contact         string
	Email           string
	City            string
	BirthDate       *time.Time
	AnniversaryDate *time.Time
}

// Match is one client whose special date falls inside the window.
// AgeAtNext is set for birthdays, YearsAtNext for anniversaries.
type Match struct {
	ClientID       uint
	ClientName     string
	Contact        string
	Email          string
	City           string
	Kind           Kind
	OriginalDate   time.Time
	NextOccurrence time.Time
	DaysUntil      int
	AgeAtNext      *int
	YearsAtNext    *int
}

// MarshalJSON renders dates as YYYY-MM-DD.
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ClientID       uint   `json:"client_id"`
		ClientName     string `json:"client_name"`
		Contact        string `json:"contact"`
		Email          string `json:"email,omitempty"`
		City           string `json:"city,omitempty"`
		Kind           Kind   `json:"type"`
		OriginalDate   string `json:"original_date"`
		NextOccurrence string `json:"next_occurrence_date"`
		DaysUntil      int    `json:"days_until"`
		AgeAtNext      *int   `json:"age_at_next,omitempty"`
		YearsAtNext    *int   `json:"years_at_next,omitempty"`
	}{
		ClientID:       m.ClientID,
		ClientName:     m.ClientName,
		Contact:        m.Contact,
		Email:          m.Email,
		City:           m.City,
		Kind:           m.Kind,
		OriginalDate:   m.OriginalDate.Format(DateLayout),
		NextOccurrence: m.NextOccurrence.Format(DateLayout),
		DaysUntil:      m.DaysUntil,
		AgeAtNext:      m.AgeAtNext,
		YearsAtNext:    m.YearsAtNext,
	})
}

// Skipped records a client date that could not be used.
type Skipped struct {
	ClientID uint   `json:"client_id"`
	Kind     Kind   `json:"type"`
	Reason   string `json:"reason"`
}

// Result holds the matches in display order plus any records that were skipped.
type Result struct {
	Matches []Match
	Skipped []Skipped
}

// NextOccurrence returns the first date on or after from whose month and day equal
// those of original. Feb 29 falls on Feb 28 in non-leap years.
func NextOccurrence(original, from time.Time) time.Time {
	from = DateOf(from)
	occ := occurrenceIn(original, from.Year())
	if occ.Before(from) {
		occ = occurrenceIn(original, from.Year()+1)
	}
	return occ
}

func occurrenceIn(original time.Time, year int) time.Time {
	month, day := original.Month(), original.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Find scans people and returns every birthday and/or anniversary whose next
// occurrence (projected from the window start) lies inside the window.
// Null dates are ignored. Unusable dates are reported in Result.Skipped and never
// abort the scan.
func Find(people []Person, w Window, kind Kind) Result {
	res := Result{Matches: []Match{}}

	for _, p := range people {
		if kind.Includes(KindBirthday) && p.BirthDate != nil {
			if m, skip, ok := match(p, *p.BirthDate, KindBirthday, w); skip != nil {
				res.Skipped = append(res.Skipped, *skip)
			} else if ok {
				res.Matches = append(res.Matches, m)
			}
		}
		if kind.Includes(KindAnniversary) && p.AnniversaryDate != nil {
			if m, skip, ok := match(p, *p.AnniversaryDate, KindAnniversary, w); skip != nil {
				res.Skipped = append(res.Skipped, *skip)
			} else if ok {
				res.Matches = append(res.Matches, m)
			}
		}
	}

	sort.SliceStable(res.Matches, func(i, j int) bool {
		a, b := res.Matches[i], res.Matches[j]
		if !a.NextOccurrence.Equal(b.NextOccurrence) {
			return a.NextOccurrence.Before(b.NextOccurrence)
		}
		if a.Kind != b.Kind {
			return a.Kind == KindBirthday
		}
		if a.ClientName != b.ClientName {
			return a.ClientName < b.ClientName
		}
		return a.ClientID < b.ClientID
	})

	return res
}

func match(p Person, original time.Time, kind Kind, w Window) (Match, *Skipped, bool) {
	if original.IsZero() {
		return Match{}, &Skipped{ClientID: p.ID, Kind: kind, Reason: "zero date"}, false
	}

	orig := DateOf(original)
	occ := NextOccurrence(orig, w.Start)
	if orig.Year() > occ.Year() {
		return Match{}, &Skipped{ClientID: p.ID, Kind: kind, Reason: "date " + orig.Format(DateLayout) + " is after its next occurrence"}, false
	}
	if !w.Contains(occ) {
		return Match{}, nil, false
	}

	years := occ.Year() - orig.Year()
	m := Match{
		ClientID:       p.ID,
		ClientName:     p.ClientName,
		Contact:        p.Contact,
		Email:          p.Email,
		City:           p.City,
		Kind:           kind,
		OriginalDate:   orig,
		NextOccurrence: occ,
		DaysUntil:      DaysBetween(w.Reference, occ),
	}
	if kind == KindBirthday {
		m.AgeAtNext = &years
	} else {
		m.YearsAtNext = &years
	}
	return m, nil, true
}
