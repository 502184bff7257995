package board

import (
	"testing"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

func TestSplice(t *testing.T) {
	j := model.Job{ID: "X"}
	tests := []struct {
		name     string
		items    []model.Job
		capacity int
		want     string
	}{
		{"empty list", nil, 3, "X"},
		{"room left", makeJobs("i", 2), 3, "X,i0,i1"},
		{"at capacity evicts tail", makeJobs("i", 3), 3, "X,i0,i1"},
		{"duplicate moved to front", []model.Job{{ID: "a"}, {ID: "X"}, {ID: "b"}}, 3, "X,a,b"},
		{"no capacity limit", makeJobs("i", 3), 0, "X,i0,i1,i2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ids(splice(tc.items, j, tc.capacity)); got != tc.want {
				t.Errorf("splice = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSplice_DoesNotAliasInput(t *testing.T) {
	items := makeJobs("i", 3)
	splice(items, model.Job{ID: "X"}, 3)
	if ids(items) != "i0,i1,i2" {
		t.Errorf("input modified: %s", ids(items))
	}
}

func TestSelection_NoListBeforeFirstPage(t *testing.T) {
	s := NewSelection(&fakeBackend{}, 10, time.Second, discardLogger())
	s.SetDeepLink("J9")
	if cmd := s.Reconcile(); cmd != nil {
		t.Error("point-fetch issued before any page was loaded")
	}
	if s.Phase() != PhaseNoList {
		t.Errorf("phase = %v", s.Phase())
	}
}

func TestSelection_DeepLinkWithEmptyPage(t *testing.T) {
	b := &fakeBackend{byID: map[string]model.Job{"J9": {ID: "J9"}}}
	s := NewSelection(b, 10, time.Second, discardLogger())
	s.SetPage(nil)
	s.SetDeepLink("J9")

	cmd := s.Reconcile()
	if cmd == nil {
		t.Fatal("expected a point-fetch")
	}
	s.onPointFetch(cmd().(pointFetchDoneMsg))
	if ids(s.Items()) != "J9" || s.SelectedID() != "J9" {
		t.Errorf("items = %s selected = %q", ids(s.Items()), s.SelectedID())
	}
}

func TestSelection_SelectUnknownID(t *testing.T) {
	s := NewSelection(&fakeBackend{}, 10, time.Second, discardLogger())
	s.SetPage(makeJobs("i", 2))
	s.Reconcile()
	if s.Select("nope") {
		t.Error("selected an id that is not listed")
	}
	if s.SelectedID() != "i0" {
		t.Errorf("selected = %q", s.SelectedID())
	}
}
