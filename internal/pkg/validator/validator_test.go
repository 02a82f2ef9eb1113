package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"00:00", "09:00", "09:15", "18:30", "23:59"}
	invalid := []string{"24:00", "9:00", "09:60", "0900", "09:5", "", "ab:cd"}
	for _, s := range valid {
		if !IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClockTime(s) {
			t.Errorf("IsValidClockTime(%q) = true, want false", s)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"00:00", 0, true},
		{"09:00", 540, true},
		{"09:15", 555, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"garbage", 0, false},
	}
	for _, c := range cases {
		got, ok := MinuteOfDay(c.input)
		if got != c.want || ok != c.ok {
			t.Errorf("MinuteOfDay(%q) = (%d, %v), want (%d, %v)", c.input, got, ok, c.want, c.ok)
		}
	}
}

func TestIsValidWeekday(t *testing.T) {
	for d := 0; d <= 6; d++ {
		if !IsValidWeekday(d) {
			t.Errorf("IsValidWeekday(%d) = false, want true", d)
		}
	}
	for _, d := range []int{-1, 7, 100} {
		if IsValidWeekday(d) {
			t.Errorf("IsValidWeekday(%d) = true, want false", d)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-01-15"); !ok {
		t.Error("IsValidDate(2024-01-15) = false, want true")
	}
	if _, ok := IsValidDate("15-01-2024"); ok {
		t.Error("IsValidDate(15-01-2024) = true, want false")
	}
}

func TestIsValidDateTime(t *testing.T) {
	if _, ok := IsValidDateTime("2024-01-15T10:30:00Z"); !ok {
		t.Error("expected RFC3339 timestamp to be valid")
	}
	if _, ok := IsValidDateTime("2024-01-15 10:30:00"); ok {
		t.Error("expected non-ISO timestamp to be invalid")
	}
}
