package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the export log: a single completed export run.
type Entry struct {
	Timestamp time.Time
	Accounts  int
	Rows      int
	Output    string
}

// Header is the CSV header for export-log.csv.
const Header = "timestamp,accounts,rows,output"

const (
	numFields    = 4
	logDir       = "logs"
	logFile      = "logs/export-log.csv"
	colTimestamp = 0
	colAccounts  = 1
	colRows      = 2
	colOutput    = 3
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAccounts] = strconv.Itoa(e.Accounts)
	row[colRows] = strconv.Itoa(e.Rows)
	row[colOutput] = e.Output
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	accounts, err := strconv.Atoi(record[colAccounts])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing accounts %q: %w", record[colAccounts], err)
	}

	rows, err := strconv.Atoi(record[colRows])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows %q: %w", record[colRows], err)
	}

	return Entry{
		Timestamp: ts,
		Accounts:  accounts,
		Rows:      rows,
		Output:    record[colOutput],
	}, nil
}

// Append writes an entry to <root>/logs/export-log.csv, creating the
// file and header if needed.
func Append(root string, e Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening export log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/export-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening export log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
