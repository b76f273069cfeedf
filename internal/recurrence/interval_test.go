package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Interval
	}{
		{"", None},
		{"none", None},
		{"daily", Daily},
		{"every_other_day", EveryOtherDay},
		{"weekly", Weekly},
		{"biweekly", Biweekly},
		{"monthly", Monthly},
		{"quarterly", Quarterly},
		{"yearly", Yearly},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("fortnightly"); err == nil {
		t.Error("Parse(\"fortnightly\") should fail")
	}
}

func TestNextOffsets(t *testing.T) {
	base := date(2024, time.January, 15)

	tests := []struct {
		iv   Interval
		want time.Time
	}{
		{Daily, date(2024, time.January, 16)},
		{EveryOtherDay, date(2024, time.January, 17)},
		{Weekly, date(2024, time.January, 22)},
		{Biweekly, date(2024, time.January, 29)},
		{Monthly, date(2024, time.February, 15)},
		{Quarterly, date(2024, time.April, 15)},
		{Yearly, date(2025, time.January, 15)},
	}

	for _, tt := range tests {
		got, err := Next(base, tt.iv)
		if err != nil {
			t.Errorf("Next(%v, %q) error: %v", base, tt.iv, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Next(%v, %q) = %v, want %v", base, tt.iv, got, tt.want)
		}
		if !got.After(base) {
			t.Errorf("Next(%v, %q) = %v is not after the base date", base, tt.iv, got)
		}
	}
}

func TestNextIsPure(t *testing.T) {
	base := date(2024, time.March, 1)
	first, err := Next(base, Weekly)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	second, err := Next(base, Weekly)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("repeated evaluation differs: %v vs %v", first, second)
	}

	// Applying Next to its own output advances further.
	third, _ := Next(first, Weekly)
	if !third.After(first) {
		t.Errorf("Next(Next(base)) = %v should be after %v", third, first)
	}
}

func TestNextMonthlyRollover(t *testing.T) {
	// Jan 31 + 1 month rolls through February under AddDate semantics.
	got, err := Next(date(2024, time.January, 31), Monthly)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	want := date(2024, time.March, 2) // 2024 is a leap year: Feb 31 -> Mar 2
	if !got.Equal(want) {
		t.Errorf("Next(Jan 31, monthly) = %v, want %v", got, want)
	}
}

func TestNextYearlyLeapDay(t *testing.T) {
	got, err := Next(date(2024, time.February, 29), Yearly)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	want := date(2025, time.March, 1) // Feb 29 2025 does not exist
	if !got.Equal(want) {
		t.Errorf("Next(Feb 29, yearly) = %v, want %v", got, want)
	}
}

func TestNextRejectsNone(t *testing.T) {
	if _, err := Next(date(2024, time.January, 1), None); err == nil {
		t.Error("Next with None should fail")
	}
	if _, err := Next(date(2024, time.January, 1), Interval("sometimes")); err == nil {
		t.Error("Next with an unknown interval should fail")
	}
}

func TestDescribe(t *testing.T) {
	if got := Weekly.Describe(); got != "Repeats weekly" {
		t.Errorf("Describe() = %q, want %q", got, "Repeats weekly")
	}
	if got := None.Describe(); got != "" {
		t.Errorf("None.Describe() = %q, want empty", got)
	}
}
