// Package export writes and reads the JSON and CSV files exchanged between tasks.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
)

// ErrNoRows is returned by ReadCSV for a file that holds a header only.
var ErrNoRows = errors.New("export: no rows")

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteJSON writes v to path with a 4-space indent, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("data saved")
	return nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes a header row followed by rows to path.
func WriteCSV(path string, header []string, rows [][]string) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	// gota cannot build a frame without rows.
	if len(rows) == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		w.Flush()
		return w.Error()
	}

	records := append([][]string{header}, rows...)
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("building table for %s: %w", path, df.Err)
	}
	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("data saved")
	return nil
}

// ReadCSV loads a CSV with a header row. Every column is kept as a string.
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) <= 1 {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", path, ErrNoRows)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df, fmt.Errorf("parsing %s: %w", path, df.Err)
	}
	return df, nil
}

// ReadRows loads a CSV into one map per row keyed by column name. A file
// with a header only gives no rows.
func ReadRows(path string) ([]map[string]string, error) {
	df, err := ReadCSV(path)
	if errors.Is(err, ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Rows(df), nil
}

// Rows converts a string-typed data frame into one map per row.
func Rows(df dataframe.DataFrame) []map[string]string {
	names := df.Names()
	records := df.Records()
	if len(records) <= 1 {
		return nil
	}
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(names))
		for i, name := range names {
			v := rec[i]
			if v == "NaN" {
				v = ""
			}
			row[name] = v
		}
		rows = append(rows, row)
	}
	return rows
}
