package services

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"inflation-report/models"
)

// ErrNotEnoughData is returned when a test has too few observations
var ErrNotEnoughData = errors.New("not enough data")

// WelchTTest compares the means of a and b without assuming equal variances.
// The p-value is two-sided.
func WelchTTest(a, b []float64) (*models.TTestResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, fmt.Errorf("welch t-test needs at least 2 values per group (got %d and %d): %w",
			len(a), len(b), ErrNotEnoughData)
	}

	ma, va := stat.MeanVariance(a, nil)
	mb, vb := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	sa, sb := va/na, vb/nb
	se2 := sa + sb
	if se2 == 0 {
		return nil, fmt.Errorf("welch t-test: both groups have zero variance: %w", ErrNotEnoughData)
	}

	t := (ma - mb) / math.Sqrt(se2)
	df := se2 * se2 / (sa*sa/(na-1) + sb*sb/(nb-1))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))

	return &models.TTestResult{
		T:      t,
		DF:     df,
		PValue: math.Min(p, 1),
		MeanA:  ma,
		MeanB:  mb,
		NA:     len(a),
		NB:     len(b),
	}, nil
}

// ChiSquareIndependence runs a chi-squared test of independence on a
// contingency table. All-zero rows are dropped. With one degree of freedom
// the Yates continuity correction is applied.
func ChiSquareIndependence(table [][]float64) (*models.ChiSquareResult, error) {
	var rows [][]float64
	cols := 0
	for _, r := range table {
		if cols == 0 {
			cols = len(r)
		} else if len(r) != cols {
			return nil, fmt.Errorf("chi-square: ragged table")
		}
		sum := 0.0
		for _, v := range r {
			if v < 0 {
				return nil, fmt.Errorf("chi-square: negative count %v", v)
			}
			sum += v
		}
		if sum > 0 {
			rows = append(rows, r)
		}
	}
	if len(rows) < 2 || cols < 2 {
		return nil, fmt.Errorf("chi-square needs at least a 2x2 table (got %dx%d): %w", len(rows), cols, ErrNotEnoughData)
	}

	rowSums := make([]float64, len(rows))
	colSums := make([]float64, cols)
	total := 0.0
	for i, r := range rows {
		for j, v := range r {
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}
	for j, s := range colSums {
		if s == 0 {
			return nil, fmt.Errorf("chi-square: column %d is empty: %w", j, ErrNotEnoughData)
		}
	}

	df := (len(rows) - 1) * (cols - 1)
	corrected := df == 1

	obs := make([]float64, 0, len(rows)*cols)
	exp := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		for j, v := range r {
			e := rowSums[i] * colSums[j] / total
			if corrected {
				diff := e - v
				v += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
			}
			obs = append(obs, v)
			exp = append(exp, e)
		}
	}

	statistic := stat.ChiSquare(obs, exp)
	p := distuv.ChiSquared{K: float64(df)}.Survival(statistic)

	return &models.ChiSquareResult{
		Statistic: statistic,
		DF:        df,
		PValue:    p,
		Corrected: corrected,
		Rows:      len(rows),
	}, nil
}

// YearGroupTable counts rows per year for the focus country and for all
// others: one table row per year, columns [focus, other]
func YearGroupTable(rows []models.Observation, focus string) ([][]float64, []int) {
	counts := make(map[int][2]float64)
	for _, r := range rows {
		c := counts[r.Year]
		if r.Country == focus {
			c[0]++
		} else {
			c[1]++
		}
		counts[r.Year] = c
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	table := make([][]float64, len(years))
	for i, y := range years {
		c := counts[y]
		table[i] = []float64{c[0], c[1]}
	}
	return table, years
}
