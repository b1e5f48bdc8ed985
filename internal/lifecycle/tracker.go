// Package lifecycle tracks when each distinct posting was first and last
// observed across runs. Entries are created once and never removed.
package lifecycle

import (
	"sort"
	"time"

	"go-dealer-jobwatch/internal/dedup"
	"go-dealer-jobwatch/internal/scraper"
)

// TimeFormat is the persisted UTC timestamp layout
const TimeFormat = "2006-01-02T15:04:05Z"

// DefaultAgedThresholdDays marks a posting as stale
const DefaultAgedThresholdDays = 28

const day = 24 * time.Hour

type Entry struct {
	JobKey    dedup.JobKey `json:"job_key"`
	Company   string       `json:"company"`
	Source    string       `json:"source"`
	Title     string       `json:"title"`
	Location  string       `json:"location"`
	URL       string       `json:"url"`
	FirstSeen time.Time    `json:"first_seen_utc"`
	LastSeen  time.Time    `json:"last_seen_utc"`
}

// AgeDays is the number of whole days between FirstSeen and now
func (e Entry) AgeDays(now time.Time) int {
	d := now.Sub(e.FirstSeen)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

type AgedEntry struct {
	Entry
	AgeDays int `json:"age_days"`
}

type MergeStats struct {
	Inserted  int
	Updated   int
	Untouched int
}

// RunTime normalises a run timestamp to what the state table can store
func RunTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Merge folds this run's unique candidates into prior state. Known keys get
// last_seen advanced (never moved backwards), new keys are appended with
// first_seen = last_seen = now, and keys absent from the run are kept as-is.
// prior is not modified.
func Merge(prior []Entry, run []scraper.Candidate, now time.Time) ([]Entry, MergeStats) {
	now = RunTime(now)
	merged := make([]Entry, len(prior), len(prior)+len(run))
	copy(merged, prior)

	index := make(map[dedup.JobKey]int, len(merged))
	for i, e := range merged {
		index[e.JobKey] = i
	}

	var stats MergeStats
	touched := make(map[dedup.JobKey]bool, len(run))
	for _, c := range run {
		key := dedup.KeyOf(c)
		if touched[key] {
			continue
		}
		touched[key] = true

		if i, ok := index[key]; ok {
			if now.After(merged[i].LastSeen) {
				merged[i].LastSeen = now
			}
			stats.Updated++
			continue
		}
		index[key] = len(merged)
		merged = append(merged, Entry{
			JobKey:    key,
			Company:   c.Company,
			Source:    c.Source,
			Title:     c.Title,
			Location:  c.Location,
			URL:       c.URL,
			FirstSeen: now,
			LastSeen:  now,
		})
		stats.Inserted++
	}
	stats.Untouched = len(merged) - stats.Inserted - stats.Updated
	return merged, stats
}

// Aged returns entries at least thresholdDays old, oldest first; ties keep state order
func Aged(entries []Entry, now time.Time, thresholdDays int) []AgedEntry {
	now = RunTime(now)
	var out []AgedEntry
	for _, e := range entries {
		if age := e.AgeDays(now); age >= thresholdDays {
			out = append(out, AgedEntry{Entry: e, AgeDays: age})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AgeDays > out[j].AgeDays
	})
	return out
}
