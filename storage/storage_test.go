package storage

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"inflation-report/models"
	"inflation-report/utils"

	"github.com/xuri/excelize/v2"
)

var sampleRows = []models.Observation{
	{Country: "TUR", Year: 2020, CPI: 12.3},
	{Country: "TUR", Year: 2021, CPI: 19.6},
	{Country: "DEU", Year: 2021, CPI: 3.2},
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cpi.csv")
	w := NewCSVWriter(path, utils.Discard())
	if err := w.SaveObservations(sampleRows); err != nil {
		t.Fatalf("SaveObservations: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"country", "year", "cpi"},
		{"TUR", "2020", "12.3"},
		{"TUR", "2021", "19.6"},
		{"DEU", "2021", "3.2"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Errorf("record[%d][%d] = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}

func TestSQLWriterSQLite(t *testing.T) {
	w, err := NewSQLWriter("sqlite3", ":memory:", utils.Discard())
	if err != nil {
		t.Fatalf("NewSQLWriter: %v", err)
	}
	defer w.Close()

	if err := w.SaveObservations(sampleRows); err != nil {
		t.Fatalf("SaveObservations: %v", err)
	}
	n, err := w.Count()
	if err != nil || n != 3 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	// a second run inserts nothing new
	inserted, err := w.BatchInsert(sampleRows)
	if err != nil {
		t.Fatalf("BatchInsert: %v", err)
	}
	if inserted != 0 {
		t.Errorf("duplicate insert added %d rows", inserted)
	}

	inserted, err = w.BatchInsert([]models.Observation{{Country: "FRA", Year: 2021, CPI: 2.1}})
	if err != nil || inserted != 1 {
		t.Errorf("new row: inserted=%d err=%v", inserted, err)
	}
	if n, _ := w.Count(); n != 4 {
		t.Errorf("Count = %d, want 4", n)
	}
}

func TestSQLWriterEmptyBatch(t *testing.T) {
	w, err := NewSQLWriter("sqlite3", ":memory:", utils.Discard())
	if err != nil {
		t.Fatalf("NewSQLWriter: %v", err)
	}
	defer w.Close()
	if n, err := w.BatchInsert(nil); n != 0 || err != nil {
		t.Errorf("BatchInsert(nil) = %d, %v", n, err)
	}
}

func TestExcelWriter(t *testing.T) {
	report := &models.Report{
		FocusCountry: "TUR",
		FirstYear:    2020,
		LastYear:     2021,
		FocusYears:   sampleRows[:2],
		OtherYears:   []models.YearMean{{Year: 2021, Mean: 3.2, N: 1}},
		ByCountry: []models.CountryStats{
			{Country: "TUR", Count: 2, Mean: 15.95, Median: 15.95, Mode: 12.3, StdDev: 5.16, Min: 12.3, Max: 19.6},
			{Country: "DEU", Count: 1, Mean: 3.2, Median: 3.2, Mode: 3.2, StdDev: math.NaN(), Min: 3.2, Max: 3.2},
		},
		TTest:      &models.TTestResult{T: 3.5, DF: 1.2, PValue: 0.04},
		TestErrors: []string{"ki-kare: yetersiz veri"},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := NewExcelWriter(path, utils.Discard()).SaveReport(sampleRows, report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetObservations, SheetCountryStats, SheetYearlyMeans, SheetTests}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	obs, err := f.GetRows(SheetObservations)
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 4 || obs[3][0] != "DEU" || obs[3][1] != "2021" {
		t.Errorf("observation rows = %v", obs)
	}

	yearly, _ := f.GetRows(SheetYearlyMeans)
	if len(yearly) != 3 {
		t.Fatalf("yearly rows = %v", yearly)
	}
	// 2020 has no other-country mean
	if len(yearly[1]) != 2 || yearly[1][0] != "2020" {
		t.Errorf("2020 row = %v", yearly[1])
	}
	if yearly[2][2] != "3.2" {
		t.Errorf("2021 other mean = %v", yearly[2])
	}

	tests, _ := f.GetRows(SheetTests)
	if len(tests) != 3 || tests[1][0] != "Welch t-testi" || tests[2][0] != "ki-kare: yetersiz veri" {
		t.Errorf("test rows = %v", tests)
	}

	stats, _ := f.GetRows(SheetCountryStats)
	// DEU has no standard deviation
	if v, _ := f.GetCellValue(SheetCountryStats, "F3"); v != "" || len(stats) != 3 {
		t.Errorf("DEU stddev cell = %q, rows = %d", v, len(stats))
	}
}

func TestSQLiteDSNKeepsExistingQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"cpi.db", "cpi.db?_busy_timeout=5000&_journal_mode=WAL"},
		{"file:cpi.db?mode=rwc", "file:cpi.db?mode=rwc&_busy_timeout=5000&_journal_mode=WAL"},
	}
	for _, tc := range cases {
		if got := sqliteDSN(tc.in); got != tc.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSQLWriterFileURIWithQuery(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "cpi.db") + "?mode=rwc"
	w, err := NewSQLWriter("sqlite3", dsn, utils.Discard())
	if err != nil {
		t.Fatalf("NewSQLWriter(%q): %v", dsn, err)
	}
	defer w.Close()
	if err := w.SaveObservations(sampleRows); err != nil {
		t.Fatalf("SaveObservations: %v", err)
	}
	if n, _ := w.Count(); n != len(sampleRows) {
		t.Errorf("Count = %d, want %d", n, len(sampleRows))
	}
}
