package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name       string
		existing   Label
		incoming   Label
		wantValue  string
		wantSource string
	}{
		{
			name:       "both present",
			existing:   Label{Value: "lexical", Source: "retrieval"},
			incoming:   Label{Value: "dense", Source: "retrieval"},
			wantValue:  "lexical|dense",
			wantSource: "retrieval,retrieval",
		},
		{
			name:       "existing empty takes incoming",
			existing:   Label{},
			incoming:   Label{Value: "x", Source: "s"},
			wantValue:  "x",
			wantSource: "s",
		},
		{
			name:       "incoming empty keeps existing",
			existing:   Label{Value: "x", Source: "s"},
			incoming:   Label{},
			wantValue:  "x",
			wantSource: "s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeLabel(tt.existing, tt.incoming)
			if got.Value != tt.wantValue || got.Source != tt.wantSource {
				t.Fatalf("MergeLabel = %+v, want {%s %s}", got, tt.wantValue, tt.wantSource)
			}
		})
	}
}
