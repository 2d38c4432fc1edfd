package models

import "sort"

// RawSeries is one country's series exactly as decoded from the API,
// year keys still strings and missing values as nil
type RawSeries struct {
	Country string
	Values  map[string]*float64
}

// Observation is a single (country, year) CPI row
type Observation struct {
	Country string
	Year    int
	CPI     float64 // annual % change
}

// FetchNotice records a country that produced no rows
type FetchNotice struct {
	Country    string
	StatusCode int // 0 when the response lacked the expected keys
	Message    string
}

// Dataset is the merged observation table
type Dataset struct {
	Rows []Observation
}

// NewDataset wraps rows into a Dataset
func NewDataset(rows []Observation) *Dataset {
	return &Dataset{Rows: rows}
}

func (d *Dataset) Len() int { return len(d.Rows) }

// ForCountry returns the rows whose country code equals code
func (d *Dataset) ForCountry(code string) []Observation {
	var out []Observation
	for _, r := range d.Rows {
		if r.Country == code {
			out = append(out, r)
		}
	}
	return out
}

// Excluding returns the rows whose country code differs from code
func (d *Dataset) Excluding(code string) []Observation {
	var out []Observation
	for _, r := range d.Rows {
		if r.Country != code {
			out = append(out, r)
		}
	}
	return out
}

// Countries returns distinct country codes in first-seen order
func (d *Dataset) Countries() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, r := range d.Rows {
		if !seen[r.Country] {
			seen[r.Country] = true
			codes = append(codes, r.Country)
		}
	}
	return codes
}

// Years returns distinct years ascending
func (d *Dataset) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range d.Rows {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

// Values returns the CPI column of the whole table
func (d *Dataset) Values() []float64 { return Values(d.Rows) }

// Values returns the CPI column of rows
func Values(rows []Observation) []float64 {
	vals := make([]float64, len(rows))
	for i, r := range rows {
		vals[i] = r.CPI
	}
	return vals
}

// CountryLabel is the display name used in titles; only TUR has one
func CountryLabel(code string) string {
	if code == "TUR" {
		return "Türkiye"
	}
	return code
}
