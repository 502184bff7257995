package model

import (
	"errors"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestSalaryLabel(t *testing.T) {
	tests := []struct {
		name string
		job  Job
		want string
	}{
		{"none", Job{}, ""},
		{"range", Job{SalaryMin: floatPtr(25000), SalaryMax: floatPtr(40000), Currency: "MXN", PayPeriod: "MONTHLY"}, "$25,000 - $40,000 MXN / month"},
		{"min only", Job{SalaryMin: floatPtr(1200)}, "$1,200+ USD"},
		{"max only", Job{SalaryMax: floatPtr(999), Currency: "EUR", PayPeriod: "yearly"}, "up to $999 EUR / year"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.job.SalaryLabel(); got != tc.want {
				t.Errorf("SalaryLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocationLabel(t *testing.T) {
	j := Job{City: "Guadalajara", State: " ", Country: "MX"}
	if got := j.LocationLabel(); got != "Guadalajara, MX" {
		t.Errorf("LocationLabel() = %q", got)
	}
}

func TestLocationValidate(t *testing.T) {
	tests := []struct {
		loc   Location
		valid bool
	}{
		{Location{}, true},
		{Location{Country: "MX"}, true},
		{Location{Country: "MX", State: "Jalisco"}, true},
		{Location{Country: "MX", State: "Jalisco", City: "Zapopan"}, true},
		{Location{City: "Austin"}, true},
		{Location{State: "Texas"}, false},
		{Location{Country: "US", City: "Austin"}, false},
	}
	for _, tc := range tests {
		err := tc.loc.Validate()
		if (err == nil) != tc.valid {
			t.Errorf("Validate(%+v) = %v, want valid=%v", tc.loc, err, tc.valid)
		}
	}
}

func TestFilterStateValidate(t *testing.T) {
	ok := FilterState{Text: "go", Modality: ModalityRemote, WorkType: WorkTypeContract, Sort: SortSalaryAsc, MinSalary: IntPtr(0)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := []FilterState{
		{Modality: "SPACE"},
		{WorkType: "GIG"},
		{Sort: "random"},
		{MinSalary: IntPtr(-1)},
		{PostedWithinDays: IntPtr(0)},
		{Resolved: Location{State: "Texas"}},
	}
	for _, f := range bad {
		err := f.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Validate(%+v) = %v, want ValidationError", f, err)
		}
	}
}

func TestParseWorkType_AcceptsDashes(t *testing.T) {
	w, err := ParseWorkType("full-time")
	if err != nil || w != WorkTypeFullTime {
		t.Errorf("ParseWorkType = %q, %v", w, err)
	}
}

func TestQueryEncode_Canonical(t *testing.T) {
	a := Query{"q": "go", "page": "1", "limit": "10"}
	b := Query{"limit": "10", "page": "1", "q": "go"}
	if a.Encode() != b.Encode() {
		t.Errorf("Encode differs: %q vs %q", a.Encode(), b.Encode())
	}
	if !a.Equal(b) {
		t.Error("Equal = false, want true")
	}
	if a.Int("page", 0) != 1 || a.Int("missing", 7) != 7 {
		t.Error("Int lookup wrong")
	}
}

func TestFilterStateNormalize(t *testing.T) {
	f := FilterState{Modality: "remote", WorkType: "full-time", Sort: "SALARY_DESC"}
	got, err := f.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Modality != ModalityRemote || got.WorkType != WorkTypeFullTime || got.Sort != SortSalaryDesc {
		t.Errorf("Normalize = %+v", got)
	}
	if f.Modality != "remote" {
		t.Error("Normalize must not modify the receiver")
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{45, 10, 5},
		{5, 0, 1},
	}
	for _, tc := range tests {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
