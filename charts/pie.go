package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Pie is a plot.Plotter drawing a pie chart centred in the data area.
// Slices run counter-clockwise from StartAngle (degrees from the +X axis)
// and carry a percentage label inside and a name label outside.
type Pie struct {
	Values     []float64
	Labels     []string
	Colors     []color.Color
	StartAngle float64
}

var _ plot.Plotter = (*Pie)(nil)

// Plot implements plot.Plotter
func (pc *Pie) Plot(c draw.Canvas, plt *plot.Plot) {
	total := 0.0
	for _, v := range pc.Values {
		total += v
	}
	if total <= 0 {
		return
	}

	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius = radius / 2 * 0.75

	sty := draw.TextStyle{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(12)),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}

	angle := pc.StartAngle * math.Pi / 180
	for i, v := range pc.Values {
		sweep := v / total * 2 * math.Pi

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, angle, sweep)
		path.Close()
		c.SetColor(pc.colorAt(i))
		c.Fill(path)

		mid := angle + sweep/2
		c.FillText(sty, polar(center, radius*0.6, mid), fmt.Sprintf("%.1f%%", v/total*100))
		if i < len(pc.Labels) {
			c.FillText(sty, polar(center, radius*1.15, mid), pc.Labels[i])
		}
		angle += sweep
	}
}

// Percentages returns each slice's share of the total
func (pc *Pie) Percentages() []float64 {
	total := 0.0
	for _, v := range pc.Values {
		total += v
	}
	out := make([]float64, len(pc.Values))
	if total == 0 {
		return out
	}
	for i, v := range pc.Values {
		out[i] = v / total * 100
	}
	return out
}

func (pc *Pie) colorAt(i int) color.Color {
	if len(pc.Colors) == 0 {
		return Viridis(float64(i) / math.Max(1, float64(len(pc.Values)-1)))
	}
	return pc.Colors[i%len(pc.Colors)]
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}

// viridis anchor colours, evenly spaced
var viridisStops = []color.RGBA{
	{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
	{R: 0x3b, G: 0x52, B: 0x8b, A: 0xff},
	{R: 0x21, G: 0x91, B: 0x8c, A: 0xff},
	{R: 0x5e, G: 0xc9, B: 0x62, A: 0xff},
	{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff},
}

// Viridis returns the colour at t in [0,1] on an approximated viridis ramp
func Viridis(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(viridisStops)-1)
	i := int(pos)
	if i >= len(viridisStops)-1 {
		return viridisStops[len(viridisStops)-1]
	}
	frac := pos - float64(i)
	a, b := viridisStops[i], viridisStops[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac)) }
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}
