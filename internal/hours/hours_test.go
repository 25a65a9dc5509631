package hours

import (
	"testing"

	"github.com/julianstephens/shiftledger/internal/models"
)

func block(date string, minutes int) models.IncomeEntry {
	return models.IncomeEntry{Date: date, Platform: models.PlatformAmazonFlex, BlockLength: minutes, Amount: 60}
}

func TestBlockMinutes(t *testing.T) {
	tests := []struct {
		name  string
		entry models.IncomeEntry
		want  int
	}{
		{"explicit length wins", models.IncomeEntry{BlockLength: 210, BlockStart: "10:00", BlockEnd: "11:00"}, 210},
		{"derived from start and end", models.IncomeEntry{BlockStart: "10:00", BlockEnd: "14:30"}, 270},
		{"overnight wraps", models.IncomeEntry{BlockStart: "22:00", BlockEnd: "01:00"}, 180},
		{"missing end", models.IncomeEntry{BlockStart: "22:00"}, 0},
		{"malformed time", models.IncomeEntry{BlockStart: "late", BlockEnd: "01:00"}, 0},
		{"nothing recorded", models.IncomeEntry{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlockMinutes(tt.entry); got != tt.want {
				t.Errorf("BlockMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUsed(t *testing.T) {
	entries := []models.IncomeEntry{
		block("2025-03-10", 240), // Monday
		block("2025-03-10", 180),
		block("2025-03-07", 270), // previous Friday, inside the trailing window
		block("2025-03-04", 240), // Tuesday, inside (10 - 6 = 4)
		block("2025-03-03", 240), // outside
		block("2025-03-11", 240), // after target
	}

	tests := []struct {
		name       string
		target     string
		daily      float64
		weekly     float64
		wantDaily  float64
		wantWeekly float64
		wantDRem   float64
		wantWRem   float64
	}{
		{
			name:       "trailing window, not calendar week",
			target:     "2025-03-10",
			daily:      8,
			weekly:     40,
			wantDaily:  7,
			wantWeekly: 15.5,
			wantDRem:   1,
			wantWRem:   24.5,
		},
		{
			name:       "remaining is clamped at zero",
			target:     "2025-03-10",
			daily:      6,
			weekly:     10,
			wantDaily:  7,
			wantWeekly: 15.5,
		},
		{
			name:     "empty day",
			target:   "2025-03-20",
			daily:    8,
			weekly:   40,
			wantDRem: 8,
			wantWRem: 40,
		},
		{
			name:     "invalid date fails soft",
			target:   "not-a-date",
			daily:    8,
			weekly:   40,
			wantDRem: 8,
			wantWRem: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Used(entries, tt.target, tt.daily, tt.weekly)
			want := Usage{
				DailyHoursUsed:  tt.wantDaily,
				WeeklyHoursUsed: tt.wantWeekly,
				DailyRemaining:  tt.wantDRem,
				WeeklyRemaining: tt.wantWRem,
			}
			if got != want {
				t.Errorf("Used() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestUsed_DailyNeverExceedsWeekly(t *testing.T) {
	entries := []models.IncomeEntry{
		block("2025-01-01", 180),
		block("2025-01-02", 270),
		block("2025-01-02", 210),
		{Date: "2025-01-05", BlockStart: "23:00", BlockEnd: "02:30"},
		block("bad-date", 240),
	}
	for _, target := range []string{"2024-12-31", "2025-01-01", "2025-01-02", "2025-01-05", "2025-01-08", "2025-01-09"} {
		u := Used(entries, target, 8, 40)
		if u.DailyHoursUsed > u.WeeklyHoursUsed {
			t.Errorf("Used(%s): daily %v > weekly %v", target, u.DailyHoursUsed, u.WeeklyHoursUsed)
		}
	}
}

func TestForLimits_FiltersPlatforms(t *testing.T) {
	entries := []models.IncomeEntry{
		block("2025-03-10", 240),
		{Date: "2025-03-10", Platform: models.PlatformDoorDash, BlockLength: 300},
	}
	got := ForLimits(entries, "2025-03-10", DefaultLimits())
	if got.DailyHoursUsed != 4 {
		t.Errorf("DailyHoursUsed = %v, want 4 (doordash excluded)", got.DailyHoursUsed)
	}
}
