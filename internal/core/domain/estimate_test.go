package domain

import "testing"

func TestEstimateFeatures_Deterministic(t *testing.T) {
	pairs := [][2]string{
		{"Blinding Lights", "The Weeknd"},
		{"Levitating", "Dua Lipa"},
		{"", ""},
		{"Café del Mar", "Energy 52"},
	}

	for _, p := range pairs {
		bpm1, key1 := EstimateFeatures(p[0], p[1])
		bpm2, key2 := EstimateFeatures(p[0], p[1])
		if bpm1 != bpm2 || key1 != key2 {
			t.Fatalf("%q/%q: not deterministic (%d %s vs %d %s)", p[0], p[1], bpm1, key1, bpm2, key2)
		}
		if bpm1 < 60 || bpm1 > 180 {
			t.Fatalf("%q/%q: bpm %d out of range", p[0], p[1], bpm1)
		}
		if !IsCanonicalKey(key1) {
			t.Fatalf("%q/%q: key %q is not canonical", p[0], p[1], key1)
		}
	}
}

func TestEstimateFeatures_KnownValue(t *testing.T) {
	// "ab" = 97 + 98 = 195; 60 + 195%121 = 134; 195%24 = 3 -> "D# major".
	bpm, key := EstimateFeatures("a", "b")
	if bpm != 134 {
		t.Fatalf("bpm: got %d, want 134", bpm)
	}
	if key != "D# major" {
		t.Fatalf("key: got %q, want %q", key, "D# major")
	}
}

func TestEstimated_TagsSource(t *testing.T) {
	got := Estimated(Track{ID: "x", Title: "a", Artist: "b", Source: SourceMeasured})
	if got.Source != SourceEstimated {
		t.Fatalf("source: got %q, want %q", got.Source, SourceEstimated)
	}
	if got.BPM != 134 {
		t.Fatalf("bpm: got %d, want 134", got.BPM)
	}
}
