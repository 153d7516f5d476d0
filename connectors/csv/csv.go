package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const dateFormat = time.DateOnly

// readAll returns the header row and the data rows of a CSV file. Rows may
// have any number of fields; lookups go through a header index.
func readAll(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open csv", goerr.V("path", path))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	head, err := r.Read()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to read csv header", goerr.V("path", path))
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to read csv row", goerr.V("path", path), goerr.V("row", len(rows)+2))
		}
		rows = append(rows, rec)
	}
	return head, rows, nil
}

// writeAll writes header and rows to path, creating parent directories.
func writeAll(path string, header []string, rows func(yield func([]string) error) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("path", path))
	}
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create csv", goerr.V("path", path))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return goerr.Wrap(err, "failed to write csv header", goerr.V("path", path))
	}
	if err := rows(w.Write); err != nil {
		return goerr.Wrap(err, "failed to write csv row", goerr.V("path", path))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush csv", goerr.V("path", path))
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}
