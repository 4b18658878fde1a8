package scoring

import (
	"sort"
	"time"
)

// Streaks computes the current and best runs of consecutive UTC
// calendar days with at least one completion. A day with several
// completions counts once. The current streak is anchored at today:
// it is zero unless today or yesterday has an entry, and extends
// backward while successive dates differ by exactly one day. The best
// streak is the longest consecutive run anywhere, and is never
// reported below the current streak.
func Streaks(completions []time.Time, today time.Time) (current, best int) {
	if len(completions) == 0 {
		return 0, 0
	}

	seen := make(map[string]struct{}, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		d := c.UTC().Truncate(24 * time.Hour)
		key := d.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	todayDay := today.UTC().Truncate(24 * time.Hour)
	yesterday := todayDay.AddDate(0, 0, -1)

	_, hasToday := seen[todayDay.Format("2006-01-02")]
	_, hasYesterday := seen[yesterday.Format("2006-01-02")]

	if hasToday || hasYesterday {
		current = 1
		for i := len(days) - 2; i >= 0; i-- {
			if days[i+1].Sub(days[i]) == 24*time.Hour {
				current++
			} else {
				break
			}
		}
	}

	run := 1
	best = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	if current > best {
		best = current
	}
	return current, best
}
