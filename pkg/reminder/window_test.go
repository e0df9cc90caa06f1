package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysWindow(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		wantEnd string
		wantErr bool
	}{
		{"zero", 0, "2024-06-01", false},
		{"week", 7, "2024-06-08", false},
		{"max", MaxWindowDays, "2025-06-02", false},
		{"negative", -1, "", true},
		{"too large", MaxWindowDays + 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := DaysWindow(d("2024-06-01"), tt.days)
			if tt.wantErr {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "days", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, d("2024-06-01"), w.Start)
			assert.Equal(t, d("2024-06-01"), w.Reference)
			assert.Equal(t, d(tt.wantEnd), w.End)
			assert.Equal(t, tt.days, w.Days())
		})
	}
}

func TestRangeWindow(t *testing.T) {
	w, err := RangeWindow(d("2024-06-01"), d("2024-06-10"), d("2024-06-20"))
	require.NoError(t, err)
	assert.Equal(t, d("2024-06-01"), w.Reference)
	assert.Equal(t, d("2024-06-10"), w.Start)
	assert.True(t, w.Contains(d("2024-06-10")))
	assert.True(t, w.Contains(d("2024-06-20")))
	assert.False(t, w.Contains(d("2024-06-21")))

	_, err = RangeWindow(d("2024-06-01"), d("2024-06-20"), d("2024-06-10"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "before start")

	_, err = RangeWindow(d("2024-01-01"), d("2024-01-01"), d("2025-01-03"))
	require.ErrorAs(t, err, &ve)

	_, err = RangeWindow(d("2024-06-01"), d("2024-06-10"), d("2024-06-10"))
	assert.NoError(t, err)
}

func TestDateOfDropsTimeAndZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2024, 6, 1, 23, 45, 0, 0, ist)

	assert.Equal(t, d("2024-06-01"), DateOf(late))
	assert.Equal(t, d("2024-06-01"), TodayIn(time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC), ist))
	assert.Equal(t, d("2024-05-31"), TodayIn(time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC), nil))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindBoth, false},
		{"both", KindBoth, false},
		{"Birthday", KindBirthday, false},
		{" anniversary ", KindAnniversary, false},
		{"wedding", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("start", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, d("2024-02-29"), got)

	_, err = ParseDate("start", "2023-02-29")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "start", ve.Field)

	_, err = ParseDate("end", "06/01/2024")
	assert.Error(t, err)
}
