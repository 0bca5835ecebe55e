package matching

import (
	"reflect"
	"testing"
)

func TestMatchSets(t *testing.T) {
	tests := []struct {
		name        string
		source      []string
		target      []string
		wantCount   int
		wantMatched []string
	}{
		{
			name:        "exact matches",
			source:      []string{"Technology", "Music"},
			target:      []string{"Music", "Technology"},
			wantCount:   2,
			wantMatched: []string{"Technology", "Music"},
		},
		{
			name:        "emoji noise",
			source:      []string{"💻 Technology", "⚽ Sports"},
			target:      []string{"Technology", "Business"},
			wantCount:   1,
			wantMatched: []string{"💻 Technology"},
		},
		{
			name:      "no overlap",
			source:    []string{"Cooking"},
			target:    []string{"Astronomy"},
			wantCount: 0,
		},
		{
			name:        "target consumed once",
			source:      []string{"Tech", "Technology"},
			target:      []string{"Technology"},
			wantCount:   1,
			wantMatched: []string{"Tech"},
		},
		{
			name:      "empty source",
			source:    nil,
			target:    []string{"Music"},
			wantCount: 0,
		},
		{
			name:      "empty target",
			source:    []string{"Music"},
			target:    nil,
			wantCount: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchSets(tt.source, tt.target)
			if got.Count != tt.wantCount {
				t.Errorf("MatchSets() count = %d, want %d", got.Count, tt.wantCount)
			}
			if tt.wantMatched != nil && !reflect.DeepEqual(got.Matched, tt.wantMatched) {
				t.Errorf("MatchSets() matched = %v, want %v", got.Matched, tt.wantMatched)
			}
		})
	}
}

func TestMatchSets_FirstComeFirstServed(t *testing.T) {
	// Both source items could claim "Technology"; the earlier one wins even
	// though the later one is the stronger match.
	got := MatchSets([]string{"Tech", "Technology"}, []string{"Technology", "Gaming"})
	if got.Count != 1 {
		t.Fatalf("expected 1 match, got %d (%v)", got.Count, got.Matched)
	}
	if got.Matched[0] != "Tech" {
		t.Errorf("expected first source item to win, got %q", got.Matched[0])
	}
}

func TestMatchSets_CountBound(t *testing.T) {
	source := []string{"Technology", "Music", "Art", "Gaming"}
	target := []string{"Technology", "Music"}
	got := MatchSets(source, target)
	if got.Count > len(target) {
		t.Errorf("count %d exceeds target size %d", got.Count, len(target))
	}
	if got.Count > len(source) {
		t.Errorf("count %d exceeds source size %d", got.Count, len(source))
	}
}
