package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"100", 10000, true},
		{" 7.5 ", 750, true},
		{"12.345", 1234, true}, // third decimal rounds down
		{"12.346", 1235, true}, // third decimal rounds up
		{"12.005", 1201, true},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || got.Cents != tc.cents) {
			t.Errorf("ParseAmount(%q) = %d, %v; want %d", tc.in, got.Cents, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseAmount(%q) expected error, got %d", tc.in, got.Cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Cents: 1234}).String(); s != "12.34" {
		t.Errorf("String() = %q, want 12.34", s)
	}
	if s := (Money{Cents: 10000}).String(); s != "100.00" {
		t.Errorf("String() = %q, want 100.00", s)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1050})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "10.50" {
		t.Errorf("marshal = %s, want 10.50", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("100.5"), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 10050 {
		t.Errorf("unmarshal number = %d cents, want 10050", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"12,34"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 1234 {
		t.Errorf("unmarshal string = %d cents, want 1234", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"-3"`), &m); err == nil {
		t.Error("expected error for negative amount")
	}
}
