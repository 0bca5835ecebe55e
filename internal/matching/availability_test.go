package matching

import (
	"testing"
	"time"
)

func TestFirstOverlap(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a    []string
		b    []string
		want string // empty means nil expected
	}{
		{
			name: "shared date within horizon",
			a:    []string{"2026-03-05", "2026-03-10"},
			b:    []string{"2026-03-10", "2026-03-05"},
			want: "2026-03-05",
		},
		{
			name: "first qualifying in a order, not chronological",
			a:    []string{"2026-03-10", "2026-03-05"},
			b:    []string{"2026-03-05", "2026-03-10"},
			want: "2026-03-10",
		},
		{
			name: "beyond horizon",
			a:    []string{"2026-04-15"},
			b:    []string{"2026-04-15"},
			want: "",
		},
		{
			name: "past date skipped",
			a:    []string{"2026-02-20", "2026-03-06"},
			b:    []string{"2026-02-20", "2026-03-06"},
			want: "2026-03-06",
		},
		{
			name: "no common date",
			a:    []string{"2026-03-05"},
			b:    []string{"2026-03-06"},
			want: "",
		},
		{name: "nil a", a: nil, b: []string{"2026-03-05"}, want: ""},
		{name: "nil b", a: []string{"2026-03-05"}, b: nil, want: ""},
		{
			name: "malformed date skipped",
			a:    []string{"not-a-date", "2026-03-07"},
			b:    []string{"2026-03-07"},
			want: "2026-03-07",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstOverlap(tt.a, tt.b, now)
			if tt.want == "" {
				if got != nil {
					t.Errorf("FirstOverlap() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("FirstOverlap() = nil, want %s", tt.want)
			}
			if got.Format(DateLayout) != tt.want {
				t.Errorf("FirstOverlap() = %s, want %s", got.Format(DateLayout), tt.want)
			}
		})
	}
}

func TestFirstOverlap_OnlyReturnsSharedDates(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := []string{"2026-03-02", "2026-03-04", "2026-03-08"}
	b := []string{"2026-03-04"}
	got := FirstOverlap(a, b, now)
	if got == nil || got.Format(DateLayout) != "2026-03-04" {
		t.Fatalf("FirstOverlap() = %v, want 2026-03-04", got)
	}
	if got.After(now.Add(OverlapHorizon)) {
		t.Error("returned date beyond horizon")
	}
}
