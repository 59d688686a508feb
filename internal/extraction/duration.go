package extraction

import (
	"strconv"
	"strings"
)

// ParseDurationMonths converts a profile date-range caption into whole months.
// Captions look like "Apr 2024 - Present · 10 mos" or "2 yrs 3 mos"; the part
// after the separator dot is authoritative when present. Returns 0 when no
// duration can be recovered.
func ParseDurationMonths(caption string) int {
	if idx := strings.LastIndex(caption, "·"); idx >= 0 {
		caption = caption[idx+len("·"):]
	}
	fields := strings.Fields(strings.ToLower(caption))

	months := 0
	for i := 0; i+1 < len(fields); i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil || n < 0 {
			continue
		}
		switch unit := fields[i+1]; {
		case strings.HasPrefix(unit, "yr") || strings.HasPrefix(unit, "year"):
			months += n * 12
		case strings.HasPrefix(unit, "mo"):
			months += n
		}
	}
	return months
}
