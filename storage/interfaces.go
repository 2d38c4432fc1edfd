package storage

import "inflation-report/models"

// ObservationSink exports the merged observation table
type ObservationSink interface {
	SaveObservations(rows []models.Observation) error
	Close() error
}

// ReportSink exports the computed report alongside the rows
type ReportSink interface {
	SaveReport(rows []models.Observation, report *models.Report) error
}

var (
	_ ObservationSink = (*CSVWriter)(nil)
	_ ObservationSink = (*SQLWriter)(nil)
	_ ReportSink      = (*ExcelWriter)(nil)
)
