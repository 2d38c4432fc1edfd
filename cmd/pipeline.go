package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"inflation-report/charts"
	"inflation-report/config"
	"inflation-report/fetcher/imf"
	"inflation-report/models"
	"inflation-report/services"
	"inflation-report/storage"
	"inflation-report/utils"
	"inflation-report/viewer"
)

const noDataMessage = "Görselleştirme için veri bulunmamaktadır."

// pipeline runs fetch → clean → insights → charts → exports for one config
type pipeline struct {
	cfg    *config.Config
	logger *utils.Logger
	out    io.Writer
	client *http.Client // nil uses the fetcher's default
}

// fetch pulls every configured country and returns the merged table
func (p *pipeline) fetch(ctx context.Context) (*models.Dataset, *imf.Result, error) {
	fetcher := imf.NewFetcher(p.cfg, p.logger, p.out)
	if p.client != nil {
		fetcher.WithClient(p.client)
	}
	result, err := fetcher.Fetch(ctx, p.cfg.Countries)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch failed: %w", err)
	}

	rows := services.NewDataCleaner(p.logger).Clean(result.Series)
	return models.NewDataset(rows), result, nil
}

// runReport is the full pipeline behind the report command
func (p *pipeline) runReport(ctx context.Context) (*models.Report, error) {
	ds, result, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	report := services.NewInsightService(p.logger, p.cfg.FocusCountry).Generate(ds)
	report.CountriesQueried = len(utils.NewCodeSet(p.cfg.Countries...).List())
	report.Notices = result.Notices

	files, err := charts.NewRenderer(p.cfg, p.logger).RenderAll(report)
	switch {
	case errors.Is(err, charts.ErrNoData):
		fmt.Fprintln(p.out, noDataMessage)
	case err != nil:
		return nil, err
	}
	report.ChartFiles = files

	services.PrintReport(p.out, report)

	if err := p.export(ds.Rows, report); err != nil {
		return report, err
	}

	if p.cfg.ShowCharts && len(files) > 0 {
		if err := viewer.NewViewer(p.cfg.OutputDir, p.logger).Show(ctx, files); err != nil {
			p.logger.Warn("Could not open chart window: %v", err)
		}
	}
	return report, nil
}

// runFetch fetches and exports without analysis or charts
func (p *pipeline) runFetch(ctx context.Context) (*models.Dataset, error) {
	ds, result, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "%d ülke için %d satır alındı, %d ülke atlandı.\n",
		len(ds.Countries()), ds.Len(), len(result.Notices))

	if err := p.export(ds.Rows, nil); err != nil {
		return ds, err
	}
	return ds, nil
}

// export writes the configured sinks. File exports are non-fatal; a database
// failure is returned.
func (p *pipeline) export(rows []models.Observation, report *models.Report) error {
	if p.cfg.CSVFilePath != "" {
		if err := storage.NewCSVWriter(p.cfg.CSVFilePath, p.logger).SaveObservations(rows); err != nil {
			p.logger.Error("Failed to write CSV: %v", err)
		}
	}

	if p.cfg.ExcelFilePath != "" {
		if report == nil {
			report = services.NewInsightService(p.logger, p.cfg.FocusCountry).Generate(models.NewDataset(rows))
		}
		if err := storage.NewExcelWriter(p.cfg.ExcelFilePath, p.logger).SaveReport(rows, report); err != nil {
			p.logger.Error("Failed to write workbook: %v", err)
		}
	}

	if p.cfg.DatabaseURL != "" {
		db, err := storage.NewSQLWriter(p.cfg.DatabaseDriver, p.cfg.DatabaseURL, p.logger)
		if err != nil {
			return fmt.Errorf("cannot connect to %s: %w", p.cfg.DatabaseDriver, err)
		}
		defer db.Close()
		if err := db.SaveObservations(rows); err != nil {
			return fmt.Errorf("failed to store observations: %w", err)
		}
	}
	return nil
}
