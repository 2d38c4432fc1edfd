package charts

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"inflation-report/config"
	"inflation-report/models"
	"inflation-report/utils"
)

// Chart file names, without extension
const (
	FocusLine      = "turkiye_tufe"
	OtherMeanLine  = "diger_ulkeler_ortalama"
	MedianBars     = "medyan_tufe"
	MeanPie        = "ortalama_pasta"
	ModeBars       = "mod_tufe"
	barWidthPoints = 3
)

// ErrNoData is returned when there is nothing to draw
var ErrNoData = errors.New("no data to plot")

var (
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Renderer draws the fixed chart set for a report
type Renderer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewRenderer creates a new Renderer
func NewRenderer(cfg *config.Config, logger *utils.Logger) *Renderer {
	return &Renderer{cfg: cfg, logger: logger}
}

// RenderAll draws every chart it has data for and returns the written files.
// A chart that lacks data is skipped with a warning; write failures abort.
func (r *Renderer) RenderAll(report *models.Report) ([]string, error) {
	if report.TotalRows == 0 {
		return nil, ErrNoData
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	steps := []struct {
		name string
		fn   func(*models.Report, string) error
	}{
		{FocusLine, r.FocusLine},
		{OtherMeanLine, r.OtherMeanLine},
		{MedianBars, r.MedianBars},
		{MeanPie, r.MeanPie},
		{ModeBars, r.ModeBars},
	}

	var files []string
	for _, step := range steps {
		path := r.cfg.ChartPath(step.name)
		if err := step.fn(report, path); err != nil {
			if errors.Is(err, ErrNoData) {
				r.logger.Warn("Chart '%s' skipped: %v", step.name, err)
				continue
			}
			return files, fmt.Errorf("chart %s: %w", step.name, err)
		}
		r.logger.Info("Chart written to: %s", path)
		files = append(files, path)
	}
	return files, nil
}

// FocusLine plots the focus country's CPI by year with a dashed mean line
func (r *Renderer) FocusLine(report *models.Report, path string) error {
	if report.Focus == nil || len(report.FocusYears) == 0 {
		return ErrNoData
	}
	label := models.CountryLabel(report.FocusCountry)

	p := plot.New()
	p.Title.Text = label + " Tüketici Fiyat Endeksi ve tahminleri"
	p.X.Label.Text = "Yıl"
	p.Y.Label.Text = "TÜFE"

	rows := make([]models.Observation, len(report.FocusYears))
	copy(rows, report.FocusYears)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })

	points := make(plotter.XYs, len(rows))
	for i, o := range rows {
		points[i].X = float64(o.Year)
		points[i].Y = o.CPI
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = blue
	line.Width = vg.Points(2)

	mean := report.Focus.Mean
	meanLine := plotter.NewFunction(func(float64) float64 { return mean })
	meanLine.Color = red
	meanLine.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	meanLine.Width = vg.Points(1.5)

	p.Add(plotter.NewGrid(), line, meanLine)
	p.Legend.Add(label+" TÜFE", line)
	p.Legend.Add("Ortalama TÜFE", meanLine)
	p.Legend.Top = true
	rotateXTicks(p)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// OtherMeanLine plots the yearly mean CPI of every country but the focus
func (r *Renderer) OtherMeanLine(report *models.Report, path string) error {
	if len(report.OtherYears) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Diğer Ülkeler için Ortalama Tüketici Fiyat Endeksi ve tahminleri"
	p.X.Label.Text = "Yıl"
	p.Y.Label.Text = "Ortalama TÜFE"

	points := make(plotter.XYs, len(report.OtherYears))
	for i, ym := range report.OtherYears {
		points[i].X = float64(ym.Year)
		points[i].Y = ym.Mean
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = orange
	line.Width = vg.Points(2)

	p.Add(plotter.NewGrid(), line)
	rotateXTicks(p)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// MedianBars draws one bar per country, coloured along a viridis ramp
func (r *Renderer) MedianBars(report *models.Report, path string) error {
	stats := sortedStats(report.ByCountry)
	if len(stats) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Tüm Ülkelerin Medyan Tüketici Fiyat Endeksi ve tahminleri"
	p.X.Label.Text = "Ülke"
	p.Y.Label.Text = "Medyan TÜFE"

	values := make([]float64, len(stats))
	for i, cs := range stats {
		values[i] = cs.Median
	}
	n := len(values)
	if err := addBars(p, values, func(i int) color.Color {
		if n == 1 {
			return Viridis(0)
		}
		return Viridis(float64(i) / float64(n-1))
	}); err != nil {
		return err
	}
	hideXTicks(p)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// ModeBars draws one bar per country with the focus country in red
func (r *Renderer) ModeBars(report *models.Report, path string) error {
	stats := sortedStats(report.ByCountry)
	if len(stats) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Her Ülke İçin Tüketici Fiyat Endeksinin Modu ve tahminleri"
	p.X.Label.Text = "Ülke"
	p.Y.Label.Text = "Mod TÜFE"

	values := make([]float64, len(stats))
	for i, cs := range stats {
		values[i] = cs.Mode
	}
	if err := addBars(p, values, func(i int) color.Color {
		if stats[i].Country == report.FocusCountry {
			return red
		}
		return blue
	}); err != nil {
		return err
	}
	hideXTicks(p)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

// MeanPie compares the focus mean with the rest-of-world mean
func (r *Renderer) MeanPie(report *models.Report, path string) error {
	if report.Focus == nil {
		return ErrNoData
	}
	values := []float64{report.Focus.Mean, report.WorldMean}
	for _, v := range values {
		if v <= 0 || math.IsNaN(v) {
			return fmt.Errorf("pie needs positive means, got %.2f and %.2f: %w", values[0], values[1], ErrNoData)
		}
	}

	p := plot.New()
	p.Title.Text = "Ortalama Tüketici Fiyat Endeksi: " + models.CountryLabel(report.FocusCountry) + " ve Diğer Ülkeler ve tahminleri"
	p.HideAxes()
	p.Add(&Pie{
		Values:     values,
		Labels:     []string{models.CountryLabel(report.FocusCountry), "Diğer Ülkeler"},
		Colors:     []color.Color{blue, orange},
		StartAngle: 140,
	})

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// addBars adds one single-bar chart per value so each bar gets its own colour
func addBars(p *plot.Plot, values []float64, colorFor func(int) color.Color) error {
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(barWidthPoints))
		if err != nil {
			return err
		}
		bar.XMin = float64(i)
		bar.Color = colorFor(i)
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)
	}
	return nil
}

func sortedStats(stats []models.CountryStats) []models.CountryStats {
	out := make([]models.CountryStats, len(stats))
	copy(out, stats)
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

func rotateXTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func hideXTicks(p *plot.Plot) {
	p.X.Tick.Marker = plot.ConstantTicks(nil)
}
