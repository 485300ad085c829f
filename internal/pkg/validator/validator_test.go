package validator

import (
	"testing"

	"github.com/shopspring/decimal"
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

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0190f1e2-7b3a-7c4d-8e5f-6a7b8c9d0e1f",
		"123e4567-e89b-12d3-a456-426614174000",
		"0190F1E2-7B3A-7C4D-8E5F-6A7B8C9D0E1F",
	}
	invalid := []string{
		"",
		"not-a-uuid",
		"123e4567e89b12d3a456426614174000",
		"{123e4567-e89b-12d3-a456-426614174000}",
		"123e4567-e89b-12d3-a456-42661417400g",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2024-01-01", "2024-02-29"}
	invalid := []string{"2023-02-29", "2024-13-01", "01-01-2024", "", "2024/01/01"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsLengthBetween(t *testing.T) {
	cases := []struct {
		input    string
		min, max int
		want     bool
	}{
		{"ab", 2, 10, true},
		{" a ", 2, 10, false},
		{"žluťoučký", 2, 9, true},
		{"0123456789x", 2, 10, false},
	}
	for _, c := range cases {
		if got := IsLengthBetween(c.input, c.min, c.max); got != c.want {
			t.Errorf("IsLengthBetween(%q, %d, %d) = %v, want %v", c.input, c.min, c.max, got, c.want)
		}
	}
}

func TestCoordinates(t *testing.T) {
	if !IsValidLatitude(90) || IsValidLatitude(90.0001) || !IsValidLatitude(-90) {
		t.Error("latitude bounds are [-90, 90]")
	}
	if !IsValidLongitude(-180) || IsValidLongitude(180.5) {
		t.Error("longitude bounds are [-180, 180]")
	}
}

func TestIsDecimalBetween(t *testing.T) {
	if !IsDecimalBetween(decimal.RequireFromString("2000"), 0, 2000) {
		t.Error("upper bound must be inclusive")
	}
	if IsDecimalBetween(decimal.RequireFromString("-0.01"), 0, 2000) {
		t.Error("negative value must be rejected")
	}
	if IsDecimalBetween(decimal.RequireFromString("0.2"), 0.25, 24) {
		t.Error("value below min must be rejected")
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Error("IsInSlice should return true for present value")
	}
	if IsInSlice("d", slice) {
		t.Error("IsInSlice should return false for absent value")
	}
}

func TestValidatePagination(t *testing.T) {
	page, limit := 0, 0
	if errs := ValidatePagination(&page, &limit); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if page != 1 || limit != 20 {
		t.Errorf("defaults = (%d, %d), want (1, 20)", page, limit)
	}

	page, limit = -1, 101
	errs := ValidatePagination(&page, &limit)
	if len(errs) != 2 {
		t.Errorf("len(errs) = %d, want 2", len(errs))
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "km", Message: "km must be between 0 and 2000"},
		{Field: "site_id", Message: "site_id is required"},
	}
	want := "km: km must be between 0 and 2000; site_id: site_id is required"
	if errs.Error() != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", errs.Error(), want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "km", Message: "bad"},
		{Field: "site_id", Message: "missing"},
	}
	m := errs.ToMap()
	if m["km"] != "bad" || m["site_id"] != "missing" {
		t.Errorf("ToMap() = %v, want map with km and site_id", m)
	}
}
