package matching

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Technology", want: "technology"},
		{name: "emoji prefix", in: "💻 Technology", want: "technology"},
		{name: "punctuation", in: "Art & Design!", want: "art  design"},
		{name: "whitespace", in: "  Music  ", want: "music"},
		{name: "emoji only", in: "⚽", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Technology", b: "Technology", want: 1.0},
		{name: "identical after emoji strip", a: "💻 Technology", b: "Technology", want: 1.0},
		{name: "case insensitive", a: "GAMING", b: "gaming", want: 1.0},
		{name: "substring", a: "Software Engineering", b: "Engineering", want: 0.8},
		{name: "substring reversed", a: "Tech", b: "Technology", want: 0.8},
		{name: "word overlap", a: "data science research", b: "science research lab", want: 0.6},
		{name: "weak word overlap", a: "music production studio", b: "live music events", want: 0},
		{name: "no relation", a: "Cooking", b: "Astronomy", want: 0},
		{name: "empty vs word", a: "", b: "Sports", want: 0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "short words ignored", a: "go ai", b: "go ml", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_SelfIdentity(t *testing.T) {
	// Every non-empty tag must match itself perfectly.
	for _, tag := range []string{"Technology", "⚽ Sports", "Art & Design", "a"} {
		if got := Similarity(tag, tag); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", tag, tag, got)
		}
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"💻 Technology", "Tech"},
		{"music production", "production of music"},
		{"Cooking", "Astronomy"},
	}
	for _, p := range pairs {
		if ab, ba := Similarity(p[0], p[1]), Similarity(p[1], p[0]); ab != ba {
			t.Errorf("Similarity not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}
