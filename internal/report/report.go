// Package report writes the per-run CSV artifacts.
package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"

	"go-dealer-jobwatch/internal/filter"
	"go-dealer-jobwatch/internal/lifecycle"
	"go-dealer-jobwatch/internal/scraper"
)

const (
	PostingsFile   = "job_postings.csv"
	RejectionsFile = "rejections.csv"
	AgedFile       = "aged_postings.csv"

	// SnippetLimit bounds the snippet kept in the rejections table
	SnippetLimit = 200
)

var (
	PostingColumns   = []string{"company", "source", "title", "location", "url"}
	RejectionColumns = []string{"title", "reason", "snippet"}
	AgedColumns      = append(append([]string{}, lifecycle.StateColumns...), "age_days")
)

func WritePostings(path string, postings []scraper.Candidate) error {
	rows := make([][]string, len(postings))
	for i, p := range postings {
		rows[i] = []string{p.Company, p.Source, p.Title, p.Location, p.URL}
	}
	return writeCSV(path, PostingColumns, rows)
}

func WriteRejections(path string, rejections []filter.Rejection) error {
	rows := make([][]string, len(rejections))
	for i, r := range rejections {
		rows[i] = []string{r.Title, r.Reason, scraper.Truncate(r.Snippet, SnippetLimit)}
	}
	return writeCSV(path, RejectionColumns, rows)
}

func WriteAged(path string, aged []lifecycle.AgedEntry) error {
	rows := make([][]string, len(aged))
	for i, a := range aged {
		rows[i] = append(lifecycle.EntryRecord(a.Entry), strconv.Itoa(a.AgeDays))
	}
	return writeCSV(path, AgedColumns, rows)
}

// writeCSV always writes the header so an empty run still leaves a well-formed table
func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

// WriteAll writes the postings, rejections and aged tables into dir
func WriteAll(dir string, postings []scraper.Candidate, rejections []filter.Rejection, aged []lifecycle.AgedEntry) error {
	if err := WritePostings(filepath.Join(dir, PostingsFile), postings); err != nil {
		return err
	}
	if err := WriteRejections(filepath.Join(dir, RejectionsFile), rejections); err != nil {
		return err
	}
	return WriteAged(filepath.Join(dir, AgedFile), aged)
}
