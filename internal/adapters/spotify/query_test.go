package spotify

import (
	"reflect"
	"testing"
	"time"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

func TestBuildQueries(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query domain.CompatibilityQuery
		want  []string
	}{
		{
			name:  "single genre covers every window",
			query: domain.CompatibilityQuery{BPM: 120, Genre: "house"},
			want: []string{
				"genre:house year:2021-2025",
				"genre:house year:2011-2020",
				"genre:house",
			},
		},
		{
			name:  "default genres are capped at eight",
			query: domain.CompatibilityQuery{BPM: 120},
			want: []string{
				"genre:pop year:2021-2025",
				"genre:dance year:2021-2025",
				"genre:hip-hop year:2021-2025",
				"genre:house year:2021-2025",
				"genre:pop year:2011-2020",
				"genre:dance year:2011-2020",
				"genre:hip-hop year:2011-2020",
				"genre:house year:2011-2020",
			},
		},
		{
			name:  "terms nest inside genre",
			query: domain.CompatibilityQuery{BPM: 120, Genre: "disco", Search: "funk, , groove"},
			want: []string{
				"funk genre:disco year:2021-2025",
				"groove genre:disco year:2021-2025",
				"funk genre:disco year:2011-2020",
				"groove genre:disco year:2011-2020",
				"funk genre:disco",
				"groove genre:disco",
			},
		},
		{
			name:  "duplicate terms collapse",
			query: domain.CompatibilityQuery{BPM: 120, Genre: "pop", Search: "love,love"},
			want: []string{
				"love genre:pop year:2021-2025",
				"love genre:pop year:2011-2020",
				"love genre:pop",
			},
		},
		{
			name:  "multi-word genre is quoted",
			query: domain.CompatibilityQuery{BPM: 120, Genre: "deep house"},
			want: []string{
				`genre:"deep house" year:2021-2025`,
				`genre:"deep house" year:2011-2020`,
				`genre:"deep house"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQueries(tt.query, now)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("buildQueries:\n got  %q\n want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQueries_NeverExceedsCap(t *testing.T) {
	q := domain.CompatibilityQuery{BPM: 100, Search: "a,b,c,d,e,f,g,h,i,j"}
	if got := buildQueries(q, time.Now()); len(got) != maxPlanQueries {
		t.Fatalf("len: got %d, want %d", len(got), maxPlanQueries)
	}
}
