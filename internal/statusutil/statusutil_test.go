package statusutil

import (
	"errors"
	"testing"

	"gtodo-cli/internal/model"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    model.Column
		wantErr bool
	}{
		{"", "", false},
		{"all", "", false},
		{"pending", model.ColumnPending, false},
		{"TODO", model.ColumnPending, false},
		{" done ", model.ColumnDone, false},
		{"Completed", model.ColumnDone, false},
		{"later", "", true},
		{"doing", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeStatus(tc.in)
		if tc.wantErr {
			var invalid ErrInvalidStatus
			if !errors.As(err, &invalid) {
				t.Fatalf("NormalizeStatus(%q): expected ErrInvalidStatus, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeStatus(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeStatus(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestFilter(t *testing.T) {
	todos := []model.Todo{
		{ID: 1, Completed: false},
		{ID: 2, Completed: true},
		{ID: 3, Completed: false},
	}
	if got := Filter(todos, ""); len(got) != 3 {
		t.Fatalf("expected all todos; got %d", len(got))
	}
	got := Filter(todos, model.ColumnPending)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected pending filter %#v", got)
	}
	got = Filter(todos, model.ColumnDone)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("unexpected done filter %#v", got)
	}
	if Label(todos[1]) != "done" || Label(todos[0]) != "pending" {
		t.Fatalf("unexpected labels")
	}
}
