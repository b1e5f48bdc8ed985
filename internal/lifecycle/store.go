package lifecycle

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"go-dealer-jobwatch/internal/dedup"
)

// Store persists lifecycle state; it is read once at the start of a run and written once at the end
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// StateColumns is the header of the persisted state table
var StateColumns = []string{"job_key", "company", "source", "title", "location", "url", "first_seen_utc", "last_seen_utc"}

// CSVStore keeps state in a CSV file
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Load returns empty state when the file does not exist yet
func (s *CSVStore) Load(ctx context.Context) ([]Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "open state %s", s.path)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read state %s", s.path)
	}
	return entries, nil
}

// Save writes to a temp file in the same directory and renames it over the old state
func (s *CSVStore) Save(ctx context.Context, entries []Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create state dir")
	}
	tmp, err := os.CreateTemp(dir, ".job_lifecycle-*.csv")
	if err != nil {
		return errors.Wrap(err, "create temp state")
	}
	defer os.Remove(tmp.Name())

	if err := WriteEntries(tmp, entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp state")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace state")
	}
	return nil
}

// ReadEntries parses a state table. A malformed row fails the whole read:
// dropping it would delete the entry on the next save.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, name := range StateColumns {
		if _, ok := col[name]; !ok {
			return nil, errors.Newf("missing column %q", name)
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		get := func(name string) string {
			if i := col[name]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		first, err := time.Parse(TimeFormat, get("first_seen_utc"))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: first_seen_utc", line)
		}
		last, err := time.Parse(TimeFormat, get("last_seen_utc"))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: last_seen_utc", line)
		}
		entries = append(entries, Entry{
			JobKey:    dedup.JobKey(get("job_key")),
			Company:   get("company"),
			Source:    get("source"),
			Title:     get("title"),
			Location:  get("location"),
			URL:       get("url"),
			FirstSeen: first,
			LastSeen:  last,
		})
	}
	return entries, nil
}

func WriteEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StateColumns); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, e := range entries {
		if err := cw.Write(EntryRecord(e)); err != nil {
			return errors.Wrap(err, "write entry")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush state")
}

// EntryRecord renders an entry in StateColumns order
func EntryRecord(e Entry) []string {
	return []string{
		string(e.JobKey),
		e.Company,
		e.Source,
		e.Title,
		e.Location,
		e.URL,
		e.FirstSeen.UTC().Format(TimeFormat),
		e.LastSeen.UTC().Format(TimeFormat),
	}
}
