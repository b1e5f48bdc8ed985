// Package loadsheet reads and writes the SourceConfig table (one row per
// dealer/platform pair) and the dealer input list used to build it.
package loadsheet

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"go-dealer-jobwatch/internal/scraper"
)

// ErrMissingLoadsheet aborts a run before any processing
var ErrMissingLoadsheet = errors.New("loadsheet not found")

var Columns = []string{
	"company", "source_type", "url", "extra_company_query",
	"selector_card", "selector_title", "selector_location", "selector_link", "notes",
}

// Dealer is one row of the discovery input
type Dealer struct {
	Company     string
	HomepageURL string
	CareersURL  string
}

// Read loads the loadsheet. Unrecognised source types are kept verbatim so the
// run can report them as failed sources instead of silently dropping rows.
func Read(path string) ([]scraper.SourceConfig, error) {
	records, err := readTable(path)
	if err != nil {
		return nil, err
	}
	rows := make([]scraper.SourceConfig, 0, len(records))
	for _, rec := range records {
		raw := rec["source_type"]
		st, err := scraper.ParseSourceType(raw)
		if err != nil {
			st = scraper.SourceType(strings.TrimSpace(raw))
		}
		row := scraper.SourceConfig{
			Company:           rec["company"],
			SourceType:        st,
			URL:               rec["url"],
			ExtraCompanyQuery: rec["extra_company_query"],
			SelectorCard:      rec["selector_card"],
			SelectorTitle:     rec["selector_title"],
			SelectorLocation:  rec["selector_location"],
			SelectorLink:      rec["selector_link"],
			Notes:             rec["notes"],
		}
		if row.Company == "" && row.URL == "" && raw == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func ReadDealers(path string) ([]Dealer, error) {
	records, err := readTable(path)
	if err != nil {
		return nil, err
	}
	var dealers []Dealer
	for _, rec := range records {
		if rec["company"] == "" && rec["homepage_url"] == "" {
			continue
		}
		dealers = append(dealers, Dealer{
			Company:     rec["company"],
			HomepageURL: rec["homepage_url"],
			CareersURL:  rec["careers_url"],
		})
	}
	return dealers, nil
}

// readTable returns each data row keyed by header name with values trimmed
func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(errors.Wrapf(ErrMissingLoadsheet, "%s", path), "run `jobwatch discover` or create the file by hand")
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var out []map[string]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func Write(path string, rows []scraper.SourceConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create loadsheet dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Columns); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, r := range rows {
		rec := []string{
			r.Company, string(r.SourceType), r.URL, r.ExtraCompanyQuery,
			r.SelectorCard, r.SelectorTitle, r.SelectorLocation, r.SelectorLink, r.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flush loadsheet")
	}
	return f.Close()
}
