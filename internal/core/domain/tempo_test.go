package domain

import (
	"math"
	"testing"
)

func TestMatchTempo(t *testing.T) {
	tests := []struct {
		name         string
		candidate    int
		target       int
		wantMatch    bool
		wantDistance int
	}{
		{name: "exact", candidate: 120, target: 120, wantMatch: true, wantDistance: 0},
		{name: "double time", candidate: 240, target: 120, wantMatch: true, wantDistance: 0},
		{name: "half time", candidate: 60, target: 120, wantMatch: true, wantDistance: 0},
		{name: "half time rounds up", candidate: 61, target: 121, wantMatch: true, wantDistance: 0},
		{name: "near above", candidate: 125, target: 120, wantMatch: true, wantDistance: 5},
		{name: "near below", candidate: 115, target: 120, wantMatch: true, wantDistance: 5},
		{name: "six above is out", candidate: 126, target: 120, wantMatch: false},
		{name: "six below is out", candidate: 114, target: 120, wantMatch: false},
		{name: "near double time", candidate: 243, target: 120, wantMatch: true, wantDistance: 3},
		{name: "near half time", candidate: 58, target: 120, wantMatch: true, wantDistance: 2},
		{name: "near half time above", candidate: 61, target: 120, wantMatch: true, wantDistance: 1},
		{name: "unrelated", candidate: 200, target: 120, wantMatch: false},
		{name: "unknown candidate", candidate: 0, target: 120, wantMatch: false},
		{name: "target above max", candidate: 2000, target: 1001, wantMatch: false},
		{name: "target at max", candidate: 2000, target: MaxTempo, wantMatch: true, wantDistance: 0},
		{name: "overflowing target", candidate: 2, target: math.MaxInt, wantMatch: false},
		{name: "huge candidate", candidate: math.MaxInt, target: 120, wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMatch, gotDistance := MatchTempo(tt.candidate, tt.target)
			if gotMatch != tt.wantMatch {
				t.Fatalf("match: got %v, want %v", gotMatch, tt.wantMatch)
			}
			if tt.wantMatch && gotDistance != tt.wantDistance {
				t.Fatalf("distance: got %d, want %d", gotDistance, tt.wantDistance)
			}
		})
	}
}

func TestMatchTempo_Properties(t *testing.T) {
	for target := 40; target <= 220; target++ {
		if ok, d := MatchTempo(target, target); !ok || d != 0 {
			t.Fatalf("equal %d: got (%v, %d)", target, ok, d)
		}
		if ok, d := MatchTempo(target*2, target); !ok || d != 0 {
			t.Fatalf("double %d: got (%v, %d)", target, ok, d)
		}
		if ok, d := MatchTempo((target+1)/2, target); !ok || d != 0 {
			t.Fatalf("half %d: got (%v, %d)", target, ok, d)
		}
		for gap := -5; gap <= 5; gap++ {
			ok, d := MatchTempo(target+gap, target)
			if !ok || d != absInt(gap) {
				t.Fatalf("gap %d at %d: got (%v, %d)", gap, target, ok, d)
			}
		}
	}
}
