package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectWorksheetArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"sheets"},
			want: []string{"sheets"},
		},
		{
			name: "direct uuid first token",
			in:   []string{"sheets", "0x1234abcd"},
			want: []string{"sheets", "--worksheet", "0x1234abcd"},
		},
		{
			name: "direct uuid after value flag",
			in:   []string{"sheets", "--server", "https://sheets.example.org", "0x1234abcd"},
			want: []string{"sheets", "--server", "https://sheets.example.org", "--worksheet", "0x1234abcd"},
		},
		{
			name: "direct uuid after equals flag",
			in:   []string{"sheets", "--format=yaml", "0x1234abcd"},
			want: []string{"sheets", "--format=yaml", "--worksheet", "0x1234abcd"},
		},
		{
			name: "direct uuid after bool flag",
			in:   []string{"sheets", "--pretty", "0x1234abcd"},
			want: []string{"sheets", "--pretty", "--worksheet", "0x1234abcd"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"sheets", "worksheets", "show", "0x1234abcd"},
			want: []string{"sheets", "worksheets", "show", "0x1234abcd"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"sheets", "wat"},
			want: []string{"sheets", "wat"},
		},
		{
			name: "bare 0x not rewritten",
			in:   []string{"sheets", "0x"},
			want: []string{"sheets", "0x"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectWorksheetArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectWorksheetArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
