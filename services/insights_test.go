package services

import (
	"bytes"
	"strings"
	"testing"

	"inflation-report/models"
	"inflation-report/utils"
)

func f(v float64) *float64 { return &v }

func TestCleanBuildsSortedRows(t *testing.T) {
	raw := []*models.RawSeries{
		{Country: "TUR", Values: map[string]*float64{"2021": f(19.6), "2019": f(15.2), "2020": f(12.3)}},
		{Country: "DEU", Values: map[string]*float64{"2022": nil, "abc": f(1), "2021": f(3.2)}},
	}
	rows := NewDataCleaner(utils.Discard()).Clean(raw)

	want := []models.Observation{
		{Country: "TUR", Year: 2019, CPI: 15.2},
		{Country: "TUR", Year: 2020, CPI: 12.3},
		{Country: "TUR", Year: 2021, CPI: 19.6},
		{Country: "DEU", Year: 2021, CPI: 3.2},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestCleanDropsDuplicateCountryYear(t *testing.T) {
	raw := []*models.RawSeries{
		{Country: "TUR", Values: map[string]*float64{"2021": f(19.6)}},
		{Country: "TUR", Values: map[string]*float64{"2021": f(19.6)}},
	}
	if rows := NewDataCleaner(utils.Discard()).Clean(raw); len(rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(rows))
	}
}

func testDataset() *models.Dataset {
	return models.NewDataset([]models.Observation{
		{Country: "TUR", Year: 2019, CPI: 15.2},
		{Country: "TUR", Year: 2020, CPI: 12.3},
		{Country: "TUR", Year: 2021, CPI: 19.6},
		{Country: "DEU", Year: 2019, CPI: 1.4},
		{Country: "DEU", Year: 2020, CPI: 0.4},
		{Country: "DEU", Year: 2021, CPI: 3.2},
		{Country: "FRA", Year: 2020, CPI: 0.5},
		{Country: "FRA", Year: 2021, CPI: 2.1},
	})
}

func TestGenerate(t *testing.T) {
	report := NewInsightService(utils.Discard(), "TUR").Generate(testDataset())

	if report.TotalRows != 8 || report.CountriesFetched != 3 {
		t.Errorf("rows=%d countries=%d", report.TotalRows, report.CountriesFetched)
	}
	if report.FirstYear != 2019 || report.LastYear != 2021 {
		t.Errorf("year span %d-%d", report.FirstYear, report.LastYear)
	}
	if report.Focus == nil || !almostEqual(report.Focus.Mean, (15.2+12.3+19.6)/3, 1e-9) {
		t.Fatalf("focus stats wrong: %+v", report.Focus)
	}
	if len(report.FocusYears) != 3 {
		t.Errorf("focus rows = %d", len(report.FocusYears))
	}
	if want := (1.4 + 0.4 + 3.2 + 0.5 + 2.1) / 5; !almostEqual(report.WorldMean, want, 1e-9) {
		t.Errorf("world mean = %v, want %v", report.WorldMean, want)
	}

	if len(report.OtherYears) != 3 {
		t.Fatalf("other years = %+v", report.OtherYears)
	}
	y2020 := report.OtherYears[1]
	if y2020.Year != 2020 || y2020.N != 2 || !almostEqual(y2020.Mean, 0.45, 1e-9) {
		t.Errorf("2020 mean of others = %+v", y2020)
	}

	if len(report.ByCountry) != 3 || report.ByCountry[0].Country != "TUR" || report.ByCountry[2].Country != "FRA" {
		t.Errorf("per-country stats out of first-seen order: %+v", report.ByCountry)
	}
	if report.ByCountry[1].Median != 1.4 {
		t.Errorf("DEU median = %v", report.ByCountry[1].Median)
	}

	if report.TTest == nil || report.TTest.NA != 3 || report.TTest.NB != 5 {
		t.Errorf("t-test not run on TUR vs others: %+v", report.TTest)
	}
	if report.ChiSquare == nil || report.ChiSquare.Rows != 3 {
		t.Errorf("chi-square not run over years: %+v", report.ChiSquare)
	}
	if len(report.TestErrors) != 0 {
		t.Errorf("unexpected test errors: %v", report.TestErrors)
	}
}

func TestGenerateWithoutFocusCountry(t *testing.T) {
	ds := models.NewDataset(testDataset().Excluding("TUR"))
	report := NewInsightService(utils.Discard(), "TUR").Generate(ds)
	if report.Focus != nil || report.TTest != nil || report.ChiSquare != nil {
		t.Errorf("focus-based results should be absent")
	}
	if len(report.TestErrors) != 2 {
		t.Errorf("expected both tests to report errors, got %v", report.TestErrors)
	}
}

func TestGenerateEmpty(t *testing.T) {
	report := NewInsightService(utils.Discard(), "TUR").Generate(models.NewDataset(nil))
	if report.TotalRows != 0 || report.ByCountry != nil {
		t.Errorf("empty dataset produced %+v", report)
	}
}

func TestPrintReport(t *testing.T) {
	report := NewInsightService(utils.Discard(), "TUR").Generate(testDataset())
	report.CountriesQueried = 4
	report.Notices = []models.FetchNotice{{Country: "AND", Message: "AND için TÜFE verisi bulunamadı."}}
	report.ChartFiles = []string{"output/turkiye_tufe.png"}

	var buf bytes.Buffer
	PrintReport(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"(TÜFE) RAPORU",
		"Sorgulanan ülke          : 4",
		"Atlanan ülke             : 1",
		"TÜRKİYE",
		"Welch t-testi",
		"Ki-kare bağımsızlık testi",
		"output/turkiye_tufe.png",
		"TUR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
