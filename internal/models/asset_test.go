package models

import "testing"

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]string{
		"aapl ":   "AAPL",
		" AAPL":   "AAPL",
		"Msft":    "MSFT",
		"o":       "O",
		"  brk.b": "BRK.B",
	}
	for in, want := range cases {
		if got := NormalizeTicker(in); got != want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatParseMonths(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		s := FormatMonths([]int{7, 1, 4, 10})
		if s != "1,4,7,10" {
			t.Fatalf("expected sorted string, got %q", s)
		}
		months := ParseMonths(s)
		want := []int{1, 4, 7, 10}
		if len(months) != len(want) {
			t.Fatalf("expected %v, got %v", want, months)
		}
		for i := range want {
			if months[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, months)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		if FormatMonths(nil) != "" {
			t.Error("expected empty string for nil months")
		}
		if ParseMonths("") != nil {
			t.Error("expected nil for empty string")
		}
	})

	t.Run("drops_garbage_and_out_of_range", func(t *testing.T) {
		months := ParseMonths("3, x, 13, 0, 3, 12")
		want := []int{3, 12}
		if len(months) != len(want) {
			t.Fatalf("expected %v, got %v", want, months)
		}
		for i := range want {
			if months[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, months)
			}
		}
	})
}

func TestAssetPlatformList(t *testing.T) {
	a := Asset{Platforms: " IBKR, REVOLUT ,,XTB"}
	got := a.PlatformList()
	want := []string{"IBKR", "REVOLUT", "XTB"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	empty := Asset{}
	if empty.PlatformList() != nil {
		t.Error("expected nil platform list for empty field")
	}
}
