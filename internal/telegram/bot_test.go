package telegram

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-dealer-jobwatch/internal/lifecycle"
	"go-dealer-jobwatch/internal/pipeline"
)

func aged(company, title, location, url string, days int) lifecycle.AgedEntry {
	return lifecycle.AgedEntry{
		Entry:   lifecycle.Entry{Company: company, Title: title, Location: location, URL: url},
		AgeDays: days,
	}
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `Tech \(Level 2\) \- A\.B\\C`, escapeMarkdown(`Tech (Level 2) - A.B\C`))
}

func TestFormatRunReport(t *testing.T) {
	res := &pipeline.Result{
		RunAt: time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
		Stats: pipeline.Stats{Sources: 5, FailedSources: 1, Unique: 3, New: 2, Rejected: 4, Tracked: 7},
		Aged: []lifecycle.AgedEntry{
			aged("Acme", "Diesel Technician", "Eau Claire, WI", "https://x.test/jobs/1", 30),
			aged("Bravo", "Lot Attendant", "", "", 28),
		},
	}

	msg := FormatRunReport(res)

	assert.Contains(t, msg, "📊 *Job watch run* 2026\\-03\\-01 06:00 UTC\n")
	assert.Contains(t, msg, "🏢 Sources: 5 \\(1 failed\\)\n")
	assert.Contains(t, msg, "📦 Postings: 3 unique, 2 new, 4 rejected\n")
	assert.Contains(t, msg, "⏳ *Aged postings* \\(2\\)\n")
	assert.Contains(t, msg, "• [30d · Acme · Diesel Technician · Eau Claire, WI](https://x.test/jobs/1)\n")
	assert.Contains(t, msg, "• 28d · Bravo · Lot Attendant\n")
	assert.NotContains(t, msg, "No aged postings")
}

func TestFormatRunReport_NoAged(t *testing.T) {
	msg := FormatRunReport(&pipeline.Result{RunAt: time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)})
	assert.Contains(t, msg, "✅ No aged postings")
	assert.NotContains(t, msg, "Aged postings*")
}

func TestFormatRunReport_CapsAgedList(t *testing.T) {
	res := &pipeline.Result{RunAt: time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)}
	for i := 0; i < maxAgedListed+5; i++ {
		res.Aged = append(res.Aged, aged("Acme", fmt.Sprintf("Technician %d", i), "", "", 40))
	}

	msg := FormatRunReport(res)

	assert.Equal(t, maxAgedListed, strings.Count(msg, "• "))
	assert.Contains(t, msg, "…and 5 more")
}
