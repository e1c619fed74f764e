package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-06-13")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2023 || d.Month() != 6 || d.Day() != 13 {
		t.Errorf("parsed %v", d)
	}
	if d.String() != "2023-06-13" {
		t.Errorf("String() = %q", d.String())
	}

	for _, bad := range []string{"", "13/06/2023", "2023-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestDateDaysUntil(t *testing.T) {
	cases := []struct {
		from, to Date
		want     int
	}{
		{NewDate(2023, 6, 13), NewDate(2023, 6, 13), 0},
		{NewDate(2023, 6, 13), NewDate(2023, 6, 15), 2},
		{NewDate(2023, 6, 15), NewDate(2023, 6, 13), -2},
		{NewDate(2023, 12, 30), NewDate(2024, 1, 2), 3},
	}
	for _, tc := range cases {
		if got := tc.from.DaysUntil(tc.to); got != tc.want {
			t.Errorf("DaysUntil(%v -> %v) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2023, 6, 13))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2023-06-13"` {
		t.Errorf("marshal = %s", b)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-02-29"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("unmarshal = %v", d)
	}
	if err := json.Unmarshal([]byte(`"06/13/2023"`), &d); err == nil {
		t.Error("expected error for non-canonical date format")
	}
}
