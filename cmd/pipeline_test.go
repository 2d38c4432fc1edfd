package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inflation-report/config"
	"inflation-report/utils"
)

var stubSeries = map[string]string{
	"TUR": `{"2018":16.3,"2019":15.2,"2020":12.3,"2021":19.6,"2022":72.3}`,
	"DEU": `{"2018":1.9,"2019":1.4,"2020":0.4,"2021":3.2,"2022":8.7}`,
	"FRA": `{"2018":2.1,"2019":1.3,"2020":0.5,"2021":2.1,"2022":5.9}`,
	"JPN": `{"2019":0.5,"2020":0.0,"2021":-0.2,"2022":2.5}`,
}

func stubIMF(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/PCPIPCH/")
		series, ok := stubSeries[code]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"values":{"PCPIPCH":{"` + code + `":` + series + `}}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testPipeline(t *testing.T, srvURL string, countries ...string) (*pipeline, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = srvURL
	cfg.Countries = countries
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &pipeline{cfg: cfg, logger: utils.Discard(), out: &out}, &out
}

func TestRunReportEndToEnd(t *testing.T) {
	srv := stubIMF(t)
	p, out := testPipeline(t, srv.URL, "TUR", "DEU", "FRA", "JPN", "SSD")
	p.cfg.CSVFilePath = filepath.Join(p.cfg.OutputDir, "cpi.csv")
	p.cfg.ExcelFilePath = filepath.Join(p.cfg.OutputDir, "cpi.xlsx")
	p.cfg.DatabaseDriver = "sqlite3"
	p.cfg.DatabaseURL = filepath.Join(t.TempDir(), "cpi.db")

	report, err := p.runReport(context.Background())
	if err != nil {
		t.Fatalf("runReport: %v", err)
	}

	if report.CountriesQueried != 5 || report.CountriesFetched != 4 {
		t.Errorf("queried=%d fetched=%d", report.CountriesQueried, report.CountriesFetched)
	}
	if report.TotalRows != 19 {
		t.Errorf("rows = %d, want 19", report.TotalRows)
	}
	if len(report.Notices) != 1 || report.Notices[0].Country != "SSD" {
		t.Errorf("notices = %+v", report.Notices)
	}
	if report.TTest == nil {
		t.Errorf("t-test missing: %v", report.TestErrors)
	}
	if len(report.ChartFiles) != 5 {
		t.Errorf("charts = %v", report.ChartFiles)
	}
	for _, path := range append(report.ChartFiles, p.cfg.CSVFilePath, p.cfg.ExcelFilePath, p.cfg.DatabaseURL) {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}

	text := out.String()
	for _, want := range []string{"SSD için veri alınamadı: 404", "TÜFE", "Welch"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunReportWithoutData(t *testing.T) {
	srv := stubIMF(t)
	p, out := testPipeline(t, srv.URL, "SSD", "AND")

	report, err := p.runReport(context.Background())
	if err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if report.TotalRows != 0 || len(report.ChartFiles) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
	if !strings.Contains(out.String(), noDataMessage) {
		t.Errorf("missing no-data message in %q", out.String())
	}
}

func TestRunFetchPrintsSummary(t *testing.T) {
	srv := stubIMF(t)
	p, out := testPipeline(t, srv.URL, "TUR", "DEU", "SSD")

	ds, err := p.runFetch(context.Background())
	if err != nil {
		t.Fatalf("runFetch: %v", err)
	}
	if ds.Len() != 10 {
		t.Errorf("rows = %d, want 10", ds.Len())
	}
	if !strings.Contains(out.String(), "2 ülke için 10 satır alındı, 1 ülke atlandı.") {
		t.Errorf("unexpected summary: %q", out.String())
	}
}

func TestRunReportNetworkErrorIsFatal(t *testing.T) {
	srv := stubIMF(t)
	url := srv.URL
	srv.Close()

	p, _ := testPipeline(t, url, "TUR")
	if _, err := p.runReport(context.Background()); err == nil {
		t.Error("expected an error when the API is unreachable")
	}
}

func TestExportDatabaseFailureIsReturned(t *testing.T) {
	p, _ := testPipeline(t, "http://unused", "TUR")
	p.cfg.DatabaseDriver = "sqlite3"
	p.cfg.DatabaseURL = filepath.Join(t.TempDir(), "missing-dir", "cpi.db")

	if err := p.export(nil, nil); err == nil {
		t.Error("expected database error")
	}
}

func TestReportHelpMentionsChartFiles(t *testing.T) {
	for _, want := range []string{"always written to disk", "--out", "--format"} {
		if !strings.Contains(reportCmd.Long, want) {
			t.Errorf("report help missing %q", want)
		}
	}
}
