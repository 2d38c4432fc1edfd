package services

import (
	"sort"
	"strconv"
	"strings"

	"inflation-report/models"
	"inflation-report/utils"
)

// DataCleaner turns raw API series into Observation rows
type DataCleaner struct {
	logger *utils.Logger
}

// NewDataCleaner creates a new DataCleaner
func NewDataCleaner(logger *utils.Logger) *DataCleaner {
	return &DataCleaner{logger: logger}
}

// Clean converts raw series to rows, one per (country, year), ordered by
// country as given and then by year
func (c *DataCleaner) Clean(raw []*models.RawSeries) []models.Observation {
	type key struct {
		country string
		year    int
	}
	seen := make(map[key]bool)
	var cleaned []models.Observation
	total := 0

	for _, s := range raw {
		var rows []models.Observation
		for rawYear, val := range s.Values {
			total++
			year, err := parseYear(rawYear)
			if err != nil {
				c.logger.Warn("Skipping %s entry with non-numeric year %q", s.Country, rawYear)
				continue
			}
			if val == nil {
				c.logger.Debug("Skipping %s %d: no value", s.Country, year)
				continue
			}
			k := key{s.Country, year}
			if seen[k] {
				c.logger.Debug("Skipping duplicate: %s %d", s.Country, year)
				continue
			}
			seen[k] = true
			rows = append(rows, models.Observation{Country: s.Country, Year: year, CPI: *val})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
		cleaned = append(cleaned, rows...)
	}

	c.logger.Info("Cleaned %d rows from %d raw values", len(cleaned), total)
	return cleaned
}

func parseYear(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}
