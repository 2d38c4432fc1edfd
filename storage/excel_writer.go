package storage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"inflation-report/models"
	"inflation-report/utils"

	"github.com/xuri/excelize/v2"
)

const (
	SheetObservations = "Gozlemler"
	SheetCountryStats = "Ulke_Istatistikleri"
	SheetYearlyMeans  = "Yillik_Ortalama"
	SheetTests        = "Testler"
)

// ExcelWriter writes the observation table and report to an xlsx workbook
type ExcelWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewExcelWriter creates a new ExcelWriter
func NewExcelWriter(filePath string, logger *utils.Logger) *ExcelWriter {
	return &ExcelWriter{filePath: filePath, logger: logger}
}

// SaveReport writes all four sheets and saves the workbook
func (w *ExcelWriter) SaveReport(rows []models.Observation, report *models.Report) error {
	if err := os.MkdirAll(filepath.Dir(w.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetObservations); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetCountryStats, SheetYearlyMeans, SheetTests} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	writeHeader(f, SheetObservations, []string{"Ülke", "Yıl", "TÜFE"})
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(SheetObservations, fmt.Sprintf("A%d", row), r.Country)
		f.SetCellValue(SheetObservations, fmt.Sprintf("B%d", row), r.Year)
		f.SetCellValue(SheetObservations, fmt.Sprintf("C%d", row), r.CPI)
	}

	if report != nil {
		writeCountryStats(f, report.ByCountry)
		writeYearlyMeans(f, report)
		writeTests(f, report)
	}

	if err := f.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.logger.Info("Workbook written to: %s", w.filePath)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", header)
		f.SetColWidth(sheet, col, col, 16)
	}
}

func writeCountryStats(f *excelize.File, stats []models.CountryStats) {
	writeHeader(f, SheetCountryStats, []string{"Ülke", "Gözlem", "Ortalama", "Medyan", "Mod", "Std. Sapma", "Min", "Maks"})
	for i, s := range stats {
		row := i + 2
		f.SetCellValue(SheetCountryStats, fmt.Sprintf("A%d", row), s.Country)
		f.SetCellValue(SheetCountryStats, fmt.Sprintf("B%d", row), s.Count)
		f.SetCellValue(SheetCountryStats, fmt.Sprintf("C%d", row), s.Mean)
		f.SetCellValue(SheetCountryStats, fmt.Sprintf("D%d", row), s.Median)
		f.SetCellValue(SheetCountryStats, fmt.Sprintf("E%d", row), s.Mode)
		if !math.IsNaN(s.StdDev) {
			f.SetCellValue(SheetCountryStats, fmt.Sprintf("F%d", row), s.StdDev)
		}
		f.SetCellValue(SheetCountryStats, fmt.Sprintf("G%d", row), s.Min)
		f.SetCellValue(SheetCountryStats, fmt.Sprintf("H%d", row), s.Max)
	}
}

// writeYearlyMeans lays out one row per year with the focus country's value
// next to the mean of the other countries; missing cells stay blank
func writeYearlyMeans(f *excelize.File, report *models.Report) {
	writeHeader(f, SheetYearlyMeans, []string{"Yıl", report.FocusCountry, "Diğer Ülkeler", "Ülke Sayısı"})

	var years []int
	focus := make(map[int]float64, len(report.FocusYears))
	for _, o := range report.FocusYears {
		focus[o.Year] = o.CPI
		years = append(years, o.Year)
	}
	others := make(map[int]models.YearMean, len(report.OtherYears))
	for _, ym := range report.OtherYears {
		others[ym.Year] = ym
		if _, ok := focus[ym.Year]; !ok {
			years = append(years, ym.Year)
		}
	}
	sort.Ints(years)

	for i, y := range years {
		row := i + 2
		f.SetCellValue(SheetYearlyMeans, fmt.Sprintf("A%d", row), y)
		if v, ok := focus[y]; ok {
			f.SetCellValue(SheetYearlyMeans, fmt.Sprintf("B%d", row), v)
		}
		if ym, ok := others[y]; ok {
			f.SetCellValue(SheetYearlyMeans, fmt.Sprintf("C%d", row), ym.Mean)
			f.SetCellValue(SheetYearlyMeans, fmt.Sprintf("D%d", row), ym.N)
		}
	}
}

func writeTests(f *excelize.File, report *models.Report) {
	writeHeader(f, SheetTests, []string{"Test", "İstatistik", "Serbestlik Derecesi", "p-değeri"})

	row := 2
	if t := report.TTest; t != nil {
		f.SetCellValue(SheetTests, fmt.Sprintf("A%d", row), "Welch t-testi")
		f.SetCellValue(SheetTests, fmt.Sprintf("B%d", row), t.T)
		f.SetCellValue(SheetTests, fmt.Sprintf("C%d", row), t.DF)
		f.SetCellValue(SheetTests, fmt.Sprintf("D%d", row), t.PValue)
		row++
	}
	if c := report.ChiSquare; c != nil {
		f.SetCellValue(SheetTests, fmt.Sprintf("A%d", row), "Ki-kare bağımsızlık testi")
		f.SetCellValue(SheetTests, fmt.Sprintf("B%d", row), c.Statistic)
		f.SetCellValue(SheetTests, fmt.Sprintf("C%d", row), c.DF)
		f.SetCellValue(SheetTests, fmt.Sprintf("D%d", row), c.PValue)
		row++
	}
	for _, msg := range report.TestErrors {
		f.SetCellValue(SheetTests, fmt.Sprintf("A%d", row), msg)
		row++
	}
}
