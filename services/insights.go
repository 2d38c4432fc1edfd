package services

import (
	"sort"

	"inflation-report/models"
	"inflation-report/utils"
)

// InsightService computes analytics from the merged dataset
type InsightService struct {
	logger *utils.Logger
	focus  string
}

// NewInsightService creates a new InsightService comparing focus against
// every other country
func NewInsightService(logger *utils.Logger, focus string) *InsightService {
	return &InsightService{logger: logger, focus: focus}
}

// Generate computes all reductions and both hypothesis tests
func (s *InsightService) Generate(ds *models.Dataset) *models.Report {
	report := &models.Report{FocusCountry: s.focus}

	if ds.Len() == 0 {
		s.logger.Warn("No rows to generate insights from")
		return report
	}

	report.TotalRows = ds.Len()
	report.CountriesFetched = len(ds.Countries())
	if years := ds.Years(); len(years) > 0 {
		report.FirstYear = years[0]
		report.LastYear = years[len(years)-1]
	}

	report.ByCountry = StatsByCountry(ds.Rows)

	focusRows := ds.ForCountry(s.focus)
	otherRows := ds.Excluding(s.focus)
	report.FocusYears = focusRows

	if len(focusRows) > 0 {
		fs := countryStats(s.focus, models.Values(focusRows))
		report.Focus = &fs
	} else {
		s.logger.Warn("No rows for focus country %s", s.focus)
	}

	if m, err := Mean(models.Values(otherRows)); err == nil {
		report.WorldMean = m
	}
	report.OtherYears = MeanByYear(otherRows)

	tt, err := WelchTTest(models.Values(focusRows), models.Values(otherRows))
	if err != nil {
		s.logger.Warn("T-test skipped: %v", err)
		report.TestErrors = append(report.TestErrors, "t-test: "+err.Error())
	} else {
		report.TTest = tt
	}

	table, _ := YearGroupTable(ds.Rows, s.focus)
	chi, err := ChiSquareIndependence(table)
	if err != nil {
		s.logger.Warn("Chi-square test skipped: %v", err)
		report.TestErrors = append(report.TestErrors, "chi-square: "+err.Error())
	} else {
		report.ChiSquare = chi
	}

	return report
}

// MeanByYear groups rows by year and averages CPI, ascending by year
func MeanByYear(rows []models.Observation) []models.YearMean {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range rows {
		sums[r.Year] += r.CPI
		counts[r.Year]++
	}
	out := make([]models.YearMean, 0, len(sums))
	for y, sum := range sums {
		out = append(out, models.YearMean{Year: y, Mean: sum / float64(counts[y]), N: counts[y]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// StatsByCountry groups rows by country in first-seen order
func StatsByCountry(rows []models.Observation) []models.CountryStats {
	values := make(map[string][]float64)
	var order []string
	for _, r := range rows {
		if _, ok := values[r.Country]; !ok {
			order = append(order, r.Country)
		}
		values[r.Country] = append(values[r.Country], r.CPI)
	}
	out := make([]models.CountryStats, 0, len(order))
	for _, c := range order {
		out = append(out, countryStats(c, values[c]))
	}
	return out
}

// countryStats assumes xs is non-empty
func countryStats(country string, xs []float64) models.CountryStats {
	cs := models.CountryStats{Country: country, Count: len(xs)}
	cs.Mean, _ = Mean(xs)
	cs.Median, _ = Median(xs)
	cs.Mode, _ = Mode(xs)
	cs.StdDev, _ = StdDev(xs)
	cs.Min, cs.Max, _ = MinMax(xs)
	return cs
}
