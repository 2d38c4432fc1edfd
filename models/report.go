package models

// CountryStats holds the per-country reductions
type CountryStats struct {
	Country string
	Count   int
	Mean    float64
	Median  float64
	Mode    float64
	StdDev  float64 // NaN when Count < 2
	Min     float64
	Max     float64
}

// YearMean is the mean CPI of a group of countries for one year
type YearMean struct {
	Year int
	Mean float64
	N    int
}

// TTestResult is the outcome of Welch's unequal-variance t-test
type TTestResult struct {
	T      float64
	DF     float64
	PValue float64
	MeanA  float64
	MeanB  float64
	NA     int
	NB     int
}

// ChiSquareResult is the outcome of a chi-squared test of independence
type ChiSquareResult struct {
	Statistic float64
	DF        int
	PValue    float64
	Corrected bool // Yates continuity correction applied
	Rows      int
}

// Report holds everything the pipeline computes from a Dataset
type Report struct {
	FocusCountry     string
	CountriesQueried int
	CountriesFetched int
	Notices          []FetchNotice
	TotalRows        int
	FirstYear        int
	LastYear         int

	Focus      *CountryStats
	FocusYears []Observation
	WorldMean  float64
	OtherYears []YearMean

	ByCountry []CountryStats

	TTest      *TTestResult
	ChiSquare  *ChiSquareResult
	TestErrors []string

	ChartFiles []string
}
