package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration reads the subset of ISO-8601 durations the video API emits
// ("PT3M21S", "PT1H2M", "P1DT2H") and returns whole seconds.
func ParseISODuration(raw string) (int, error) {
	m := isoDuration.FindStringSubmatch(raw)
	if m == nil || raw == "P" || raw == "PT" {
		return 0, fmt.Errorf("youtube adapter: invalid duration %q", raw)
	}

	units := [...]int{86400, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("youtube adapter: invalid duration %q: %w", raw, err)
		}
		total += n * unit
	}
	return total, nil
}
