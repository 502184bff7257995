package backend

import (
	"testing"

	"github.com/amishk599/jobdash/internal/model"
)

func TestDecodePage_Shapes(t *testing.T) {
	q := model.Query{"page": "2", "limit": "10"}
	tests := []struct {
		name      string
		body      string
		wantItems int
		wantTotal int
		wantPages int
		wantPage  int
	}{
		{
			name: "bare array infers total from position",
			body: `[{"id": "a"}, {"id": "b"}]`,
			wantItems: 2, wantTotal: 12, wantPages: 2, wantPage: 2,
		},
		{
			name: "data with meta",
			body: `{"data": [{"id": 1}], "meta": {"page": 3, "total": 45}}`,
			wantItems: 1, wantTotal: 45, wantPages: 5, wantPage: 3,
		},
		{
			name: "docs with totalDocs",
			body: `{"docs": [{"id": "x"}, {"id": "y"}], "totalDocs": 21, "page": 2}`,
			wantItems: 2, wantTotal: 21, wantPages: 3, wantPage: 2,
		},
		{
			name: "items with total",
			body: `{"items": [], "total": 0}`,
			wantItems: 0, wantTotal: 0, wantPages: 1, wantPage: 2,
		},
		{
			name: "items without id are dropped",
			body: `{"data": [{"title": "ghost"}, {"job_id": 7}], "meta": {"total": 1}}`,
			wantItems: 1, wantTotal: 1, wantPages: 1, wantPage: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodePage([]byte(tc.body), q)
			if err != nil {
				t.Fatalf("decodePage: %v", err)
			}
			if len(got.Items) != tc.wantItems {
				t.Errorf("items = %d, want %d", len(got.Items), tc.wantItems)
			}
			if got.Total != tc.wantTotal {
				t.Errorf("total = %d, want %d", got.Total, tc.wantTotal)
			}
			if got.TotalPages != tc.wantPages {
				t.Errorf("totalPages = %d, want %d", got.TotalPages, tc.wantPages)
			}
			if got.Page != tc.wantPage {
				t.Errorf("page = %d, want %d", got.Page, tc.wantPage)
			}
		})
	}
}

func TestDecodePage_Empty(t *testing.T) {
	if _, err := decodePage([]byte("  "), model.Query{}); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestDecodeJob_SalaryVariants(t *testing.T) {
	j, err := decodeJob([]byte(`{"id": "s", "min_salary": null, "max_salary": "n/a"}`))
	if err != nil {
		t.Fatalf("decodeJob: %v", err)
	}
	if j.SalaryMin != nil || j.SalaryMax != nil {
		t.Errorf("expected absent salaries, got %v / %v", j.SalaryMin, j.SalaryMax)
	}
}

func TestDecodeJob_CreatedAtFallback(t *testing.T) {
	j, err := decodeJob([]byte(`{"id": "t", "created_at": "2026-01-02 15:04:05"}`))
	if err != nil {
		t.Fatalf("decodeJob: %v", err)
	}
	if j.ListedAt.IsZero() || j.ListedAt.Day() != 2 {
		t.Errorf("ListedAt = %v", j.ListedAt)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double-encoded HTML",
			input: "We build things. &lt;p&gt;Join us.&lt;/p&gt;",
			want:  "We build things. Join us.",
		},
		{
			name:  "list items stay separate words",
			input: "<ul><li>Write code</li><li>Review PRs</li></ul>",
			want:  "Write code Review PRs",
		},
		{
			name:  "script content removed",
			input: "Hello<script>alert(1)</script> world",
			want:  "Hello world",
		},
		{
			name:  "plain text",
			input: "No tags here.",
			want:  "No tags here.",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractText(tc.input); got != tc.want {
				t.Errorf("extractText(%q)\n got  %q\n want %q", tc.input, got, tc.want)
			}
		})
	}
}
