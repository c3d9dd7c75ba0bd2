// Package schedule matches declared weekly availability against open jobs.
//
// The matcher itself (MatchSlots, Cluster and the scoring helpers) is pure. The
// catalog of open job slots it runs against is built from Postgres and cached
// in Redis.
package schedule

import (
	"math"
	"sort"
	"time"
)

// MinOverlapPercentage is the lowest overlap a match may have.
const MinOverlapPercentage = 10.0

// Slot is an open job projected onto a weekday and clock hours.
type Slot struct {
	JobID    int64        `json:"jobId"`
	Title    string       `json:"title"`
	Company  string       `json:"company"`
	Category string       `json:"category"`
	Day      time.Weekday `json:"day"`
	Start    float64      `json:"start"`
	End      float64      `json:"end"`
	StartsAt time.Time    `json:"startsAt"`
}

// Availability is one declared window. An empty Category matches any job.
type Availability struct {
	Day      time.Weekday
	Start    float64
	End      float64
	Category string
}

// Match pairs a slot with the availability row it satisfies.
type Match struct {
	Slot
	AvailabilityIndex int     `json:"availabilityIndex"`
	OverlapPercentage float64 `json:"overlapPercentage"`
	FitScore          int     `json:"fitScore"`
}

// OverlapPercentage returns the mean of the share of the job window and the
// share of the availability window covered by their intersection, 0 to 100.
func OverlapPercentage(js, je, us, ue float64) float64 {
	start := math.Max(js, us)
	end := math.Min(je, ue)
	if start >= end {
		return 0
	}
	overlap := end - start
	return (overlap/(je-js)*100 + overlap/(ue-us)*100) / 2
}

// FitScore ranks how well the job window [js, je) suits the availability
// window [us, ue). The bonuses can stack past 100; the result is not clamped.
func FitScore(js, je, us, ue float64) int {
	score := OverlapPercentage(js, je, us, ue) / 100 * 40

	if js >= us && je <= ue {
		score += 20
	}
	if math.Abs(js-us) < 0.5 {
		score += 10
	}
	if math.Abs(je-ue) < 0.5 {
		score += 10
	}

	diff := math.Abs((je - js) - (ue - us))
	score += math.Max(0, 20-diff*5)

	// Half-up, as the calendar page rounds.
	return int(math.Floor(score + 0.5))
}

// MatchSlots scores every slot against every availability row and returns the
// pairs whose overlap reaches MinOverlapPercentage, best fit first. Rows with
// Start >= End are skipped. A slot matching several rows appears once per row.
func MatchSlots(slots []Slot, avail []Availability) []Match {
	out := make([]Match, 0)
	for i, a := range avail {
		if a.Start >= a.End {
			continue
		}
		for _, s := range slots {
			if s.Day != a.Day {
				continue
			}
			if a.Category != "" && s.Category != a.Category {
				continue
			}
			if s.Start >= s.End {
				continue
			}
			pct := OverlapPercentage(s.Start, s.End, a.Start, a.End)
			if pct < MinOverlapPercentage {
				continue
			}
			out = append(out, Match{
				Slot:              s,
				AvailabilityIndex: i,
				OverlapPercentage: pct,
				FitScore:          FitScore(s.Start, s.End, a.Start, a.End),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.FitScore != b.FitScore:
			return a.FitScore > b.FitScore
		case a.OverlapPercentage != b.OverlapPercentage:
			return a.OverlapPercentage > b.OverlapPercentage
		case a.Day != b.Day:
			return dayOrder(a.Day) < dayOrder(b.Day)
		case a.Start != b.Start:
			return a.Start < b.Start
		case a.JobID != b.JobID:
			return a.JobID < b.JobID
		}
		return a.AvailabilityIndex < b.AvailabilityIndex
	})
	return out
}

// Cluster partitions matches per weekday into groups of time-overlapping
// matches: two matches whose [Start, End) intervals intersect always share a
// group, directly or through a chain of others. Groups are ordered by start.
func Cluster(matches []Match) map[time.Weekday][][]Match {
	byDay := make(map[time.Weekday][]Match)
	for _, m := range matches {
		byDay[m.Day] = append(byDay[m.Day], m)
	}

	out := make(map[time.Weekday][][]Match, len(byDay))
	for day, ms := range byDay {
		sorted := append([]Match(nil), ms...)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Start != sorted[j].Start {
				return sorted[i].Start < sorted[j].Start
			}
			return sorted[i].End < sorted[j].End
		})

		var (
			groups [][]Match
			reach  float64
		)
		for _, m := range sorted {
			if len(groups) > 0 && m.Start < reach {
				last := len(groups) - 1
				groups[last] = append(groups[last], m)
				reach = math.Max(reach, m.End)
				continue
			}
			groups = append(groups, []Match{m})
			reach = m.End
		}
		out[day] = groups
	}
	return out
}
