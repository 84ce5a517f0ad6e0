package util

import "testing"

func TestFormatMarketCapTrillions(t *testing.T) {
	got := FormatMarketCap(1_500_000_000_000)
	if got != "$1.50T" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFormatMarketCapBillions(t *testing.T) {
	got := FormatMarketCap(2_300_000_000)
	if got != "$2.30B" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFormatMarketCapMillions(t *testing.T) {
	got := FormatMarketCap(12_340_000)
	if got != "$12.34M" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFormatMarketCapGrouped(t *testing.T) {
	got := FormatMarketCap(450_000)
	if got != "$450,000" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParsePercentWithSuffix(t *testing.T) {
	got, err := ParsePercent("1.23%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1.23 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestParsePercentNegative(t *testing.T) {
	got, err := ParsePercent("-0.4500%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -0.45 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestParsePercentEmpty(t *testing.T) {
	if _, err := ParsePercent("  "); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGroupInt(t *testing.T) {
	if got := GroupInt(1234567); got != "1,234,567" {
		t.Fatalf("unexpected %q", got)
	}
	if got := GroupInt(999); got != "999" {
		t.Fatalf("unexpected %q", got)
	}
}
