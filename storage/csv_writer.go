package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"inflation-report/models"
	"inflation-report/utils"
)

// CSVWriter handles writing observations to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// SaveObservations writes rows as country,year,cpi
func (w *CSVWriter) SaveObservations(rows []models.Observation) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"country", "year", "cpi"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Country,
			strconv.Itoa(r.Year),
			strconv.FormatFloat(r.CPI, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s %d: %w", r.Country, r.Year, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("Observations written to: %s (%d rows)", w.filePath, len(rows))
	return nil
}

// Close is a no-op; the file is closed after each write
func (w *CSVWriter) Close() error { return nil }
