package s3_selection

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// ExportHeader is the column layout of every campaign file. The first,
// unnamed column is the row index.
var ExportHeader = []string{
	"",
	"master_id",
	"recency",
	"frequency",
	"monetary",
	"recency_score",
	"frequency_score",
	"monetary_score",
	"RF_SCORE",
	"segment",
	"interested_in_categories_12",
}

// ExportResult describes one written file
type ExportResult struct {
	Campaign string `json:"campaign"`
	Path     string `json:"path"`
	Rows     int    `json:"rows"`
}

// Export writes the selection to dir/<campaign output>, creating dir if needed.
// The file only appears once fully written; a failed write leaves no file behind.
func Export(dir string, sel *Selection) (*ExportResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	path := filepath.Join(dir, sel.Campaign.Output)
	if err := writeFileAtomic(path, func(w io.Writer) error { return WriteCSV(w, sel) }); err != nil {
		return nil, err
	}

	return &ExportResult{Campaign: sel.Campaign.Name, Path: path, Rows: sel.Len()}, nil
}

// writeFileAtomic writes to path+".tmp" and renames it into place
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// WriteCSV encodes the selection with header and index column
func WriteCSV(w io.Writer, sel *Selection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}

	for i, row := range sel.Rows {
		record := []string{
			strconv.Itoa(i),
			row.CustomerID,
			strconv.Itoa(row.Recency),
			strconv.Itoa(row.Frequency),
			row.Monetary.String(),
			strconv.Itoa(row.RecencyScore),
			strconv.Itoa(row.FrequencyScore),
			strconv.Itoa(row.MonetaryScore),
			row.RFScore,
			row.Segment.String(),
			row.InterestedInCategories,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
