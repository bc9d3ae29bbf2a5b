package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectTodoLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"gtodo"},
			want: []string{"gtodo"},
		},
		{
			name: "direct todo id first token",
			in:   []string{"gtodo", "3"},
			want: []string{"gtodo", "todos", "show", "3"},
		},
		{
			name: "direct todo id after value flag",
			in:   []string{"gtodo", "--backend", "sqlite", "3"},
			want: []string{"gtodo", "--backend", "sqlite", "todos", "show", "3"},
		},
		{
			name: "direct todo id after equals flag",
			in:   []string{"gtodo", "--config-dir=./tmp-gtodo", "3"},
			want: []string{"gtodo", "--config-dir=./tmp-gtodo", "todos", "show", "3"},
		},
		{
			name: "direct todo id after bool flag",
			in:   []string{"gtodo", "--pretty", "12"},
			want: []string{"gtodo", "--pretty", "todos", "show", "12"},
		},
		{
			name: "direct todo id after double dash",
			in:   []string{"gtodo", "--key", "work", "--", "3"},
			want: []string{"gtodo", "--key", "work", "--", "todos", "show", "3"},
		},
		{
			name: "numeric key value not rewritten",
			in:   []string{"gtodo", "--key", "7", "folders", "list"},
			want: []string{"gtodo", "--key", "7", "folders", "list"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"gtodo", "todos", "show", "3"},
			want: []string{"gtodo", "todos", "show", "3"},
		},
		{
			name: "zero id not rewritten",
			in:   []string{"gtodo", "0"},
			want: []string{"gtodo", "0"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"gtodo", "wat"},
			want: []string{"gtodo", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectTodoLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectTodoLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
